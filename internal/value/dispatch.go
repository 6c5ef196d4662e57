package value

import "github.com/zsx/viro-core/internal/core"

// DispatchCode is a dispatcher result per spec.md §4.7. Most natives
// simply return (core.Value, nil) — the common "out" case — so the loop
// never needs to inspect a code for them. A dispatcher that needs one of
// the other protocol results returns a *ControlSignal as its error
// instead, the same way the teacher's return/leave natives already
// signal an early unwind through a dedicated error type.
type DispatchCode uint8

const (
	DispThrown             DispatchCode = iota // Data holds a *Throw
	DispRedoChecked                             // Data holds a *RedoSignal; re-fulfill against it
	DispRedoUnchecked                           // Data holds a *RedoSignal; re-run without re-fulfilling
	DispReevaluate                              // Data holds the core.Value to push back through Do_Next
	DispReevaluateOnly                          // like DispReevaluate but suppresses lookahead on the pushback
	DispInvisible                               // frame's Out is left untouched; evaluation continues as if nothing ran
)

// ControlSignal is the error type a dispatcher returns to ask the
// evaluator loop for something other than "my return value is the
// output" (spec.md §4.7, §4.9).
type ControlSignal struct {
	Code DispatchCode
	Data any
}

func (c *ControlSignal) Error() string { return "control signal" }

func NewControlSignal(code DispatchCode, data any) *ControlSignal {
	return &ControlSignal{Code: code, Data: data}
}

// Throw is the payload of a DispThrown control signal and of the
// evaluator's own cooperative interrupt mechanism (spec.md §4.9): a named
// packet that unwinds frames until something catches its Name.
type Throw struct {
	Name    string
	Target  core.Binding // identity to match for unwind/redo (nil = catch-any)
	Payload core.Value
}

// RedoSignal asks the loop to re-run a frame against a (possibly
// different) function, either re-fulfilling its arguments from the
// original call site (Checked) or reusing the already-fulfilled ones
// (Unchecked) — spec.md §4.7's redo-checked / redo-unchecked results.
type RedoSignal struct {
	Phase *Function
}
