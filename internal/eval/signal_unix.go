//go:build unix

// SIGINT wiring for the evaluator's cooperative cancel port (spec.md
// §4.9). golang.org/x/sys/unix is already pulled in transitively via
// github.com/chzyer/readline's terminal-mode handling; this file gives it
// a direct import so the evaluator doesn't depend on readline just to
// learn the interrupt signal's number.
package eval

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// InstallSignalCancel starts a goroutine that sets e's interrupt flag on
// every SIGINT the process receives, until stop is closed. Signal()
// clears the flag the next time it is polled (one interrupt cancels one
// pending evaluation, per spec.md §4.9), so repeated Ctrl+C presses each
// arm it again.
func (e *Evaluator) InstallSignalCancel(stop <-chan struct{}) {
	flag := new(bool)
	e.SetInterruptFlag(flag)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGINT)

	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ch:
				*flag = true
			case <-stop:
				return
			}
		}
	}()
}
