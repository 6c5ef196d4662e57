// Package diagnostics routes the evaluator's recoverable-failure and
// unwind diagnostics through a rotating log file, so a long-running
// hosted session (the REPL's --trace mode in particular) doesn't grow an
// unbounded log. The teacher's go.mod already carried
// gopkg.in/natefinch/lumberjack.v2 as an indirect, unwired dependency
// (internal/trace wires it for trace-event output); this package gives it
// a second, narrower job: plain-text diagnostic lines, not trace JSON.
package diagnostics

import (
	"log"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide diagnostics sink. Nil until Init is called;
// every logging call here is a documented no-op on a nil Logger so a bare
// evaluator built by a test never needs one.
var Logger *log.Logger

var mu sync.Mutex
var rotator *lumberjack.Logger

// Init opens (or reopens) the diagnostics log at path, rotating by size.
// maxSizeMB <= 0 uses lumberjack's own default (100MB).
func Init(path string, maxSizeMB int) {
	mu.Lock()
	defer mu.Unlock()

	if rotator != nil {
		rotator.Close()
	}
	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		Compress:   true,
	}
	Logger = log.New(rotator, "", log.LstdFlags|log.Lmicroseconds)
}

// Close flushes and closes the diagnostics log, if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	Logger = nil
	return err
}

// Recoverable logs a non-fatal evaluator diagnostic: a delivered
// interrupt (eval's Signal) or a native's invisible dispatch — the kind of event
// spec.md §7 calls out as "diagnostic trace only", distinct from the
// *verror.Error values returned to callers.
func Recoverable(where, detail string) {
	if Logger == nil {
		return
	}
	Logger.Printf("%s: %s", where, detail)
}
