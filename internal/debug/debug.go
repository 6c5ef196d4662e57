// Package debug provides the breakpoint registry consulted by the
// evaluator's word-dispatch path (spec.md's debugger UI is an external
// collaborator; this package is the small interface boundary it is
// consulted at — spec.md §1's Non-goals exclude building that UI, not
// the registry it would talk to).
package debug

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zsx/viro-core/internal/trace"
)

// Debugger manages breakpoint state consulted before a word's bound
// function or action is dispatched.
type Debugger struct {
	mu          sync.Mutex
	breakpoints map[string]uuid.UUID
	mode        DebugMode
	stepping    bool
}

// DebugMode controls debugger behavior.
type DebugMode int

const (
	DebugModeOff      DebugMode = iota // Debugger disabled
	DebugModeActive                    // Breakpoints active
	DebugModeStepping                  // Single-stepping mode
)

func (m DebugMode) String() string {
	switch m {
	case DebugModeOff:
		return "off"
	case DebugModeActive:
		return "active"
	case DebugModeStepping:
		return "stepping"
	default:
		return "unknown"
	}
}

// GlobalDebugger is the active debugger instance (singleton), matching
// GlobalTraceSession's lifecycle in internal/trace.
var GlobalDebugger *Debugger

// InitDebugger initializes the global debugger.
func InitDebugger() {
	GlobalDebugger = &Debugger{
		breakpoints: make(map[string]uuid.UUID),
		mode:        DebugModeOff,
	}
}

// SetBreakpoint adds a breakpoint on the given word, returning its id.
func (d *Debugger) SetBreakpoint(word string) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.New()
	d.breakpoints[word] = id
	d.mode = DebugModeActive
	return id
}

// RemoveBreakpoint removes a breakpoint by word.
func (d *Debugger) RemoveBreakpoint(word string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.breakpoints[word]; exists {
		delete(d.breakpoints, word)
		if len(d.breakpoints) == 0 && !d.stepping {
			d.mode = DebugModeOff
		}
		return true
	}
	return false
}

// HasBreakpoint returns true if a breakpoint is set on the word.
func (d *Debugger) HasBreakpoint(word string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, exists := d.breakpoints[word]
	return exists
}

// EnableStepping activates single-step mode (every dispatched word is
// treated as a breakpoint hit).
func (d *Debugger) EnableStepping() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mode = DebugModeStepping
	d.stepping = true
}

// DisableStepping deactivates single-step mode.
func (d *Debugger) DisableStepping() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stepping = false
	if len(d.breakpoints) == 0 {
		d.mode = DebugModeOff
	} else {
		d.mode = DebugModeActive
	}
}

// Mode returns the current debugger mode.
func (d *Debugger) Mode() DebugMode {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.mode
}

// Disable deactivates the debugger and clears all breakpoints.
func (d *Debugger) Disable() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mode = DebugModeOff
	d.breakpoints = make(map[string]uuid.UUID)
	d.stepping = false
}

// Consult is the evaluator's word-dispatch hook (spec.md §4.5/§4.6's call
// point, just before a resolved Function/Action is applied): it reports
// whether word is currently of interest to the debugger (a breakpoint, or
// any word at all while single-stepping) and emits a trace event for the
// hit, exactly as the teacher's HandleBreakpoint did.
func (d *Debugger) Consult(word string) bool {
	d.mu.Lock()
	_, hasBreak := d.breakpoints[word]
	stepping := d.stepping
	d.mu.Unlock()

	if !hasBreak && !stepping {
		return false
	}

	if trace.GlobalTraceSession != nil && trace.GlobalTraceSession.IsEnabled() {
		reason := "breakpoint hit"
		if !hasBreak {
			reason = "step"
		}
		trace.GlobalTraceSession.Emit(trace.TraceEvent{
			Timestamp: time.Now(),
			Word:      word,
			EventType: "debug",
			Value:     fmt.Sprintf("%s: %s", reason, word),
		})
	}
	return true
}
