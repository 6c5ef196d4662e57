// Package core defines the interfaces shared across the evaluator's
// components, breaking the import cycle between value, bind, frame,
// pathwalk, and eval.
package core

import "io"

// ValueType identifies the closed set of value kinds (spec.md §3).
type ValueType uint8

// Flags is the value cell's bit set (spec.md §3: enfixed, unevaluated, ...).
type Flags uint32

const (
	FlagEnfixed Flags = 1 << iota
	FlagUnevaluated
	FlagEvalFlip
	FlagEndable
	FlagVariadic
	FlagQuotesFirst
	FlagDefersLookback
	FlagInvisible
	FlagPunctuates
	FlagReturn
)

func (f Flags) Has(bit Flags) bool    { return f&bit != 0 }
func (f Flags) Set(bit Flags) Flags   { return f | bit }
func (f Flags) Clear(bit Flags) Flags { return f &^ bit }

// Value is the uniform tagged-union cell (spec.md §3). A single concrete
// type (value.Cell) implements this interface; the interface exists so
// bind/frame/pathwalk can reference values without importing value
// (which itself needs Binding, defined in terms of this interface).
type Value interface {
	GetType() ValueType
	GetPayload() any
	GetFlags() Flags
	WithFlags(Flags) Value
	GetBinding() Binding
	String() string
	Equals(other Value) bool
}

// Binding is the context a relative value resolves words against
// (spec.md §3 "binding", §4.3 "binding resolver"). Implemented by
// *bind.Context; kept as an interface here to avoid an import cycle.
type Binding interface {
	GetSymbol(name string) (Value, bool)
	GetMutable(name string) (*Value, bool)
	GetLookback(name string) (Value, bool, bool) // value, found, isLookbackEnfixed
	ParentBinding() Binding
	Identity() int
}

// Frame is one activation record (spec.md §3 "Frame", §4.6). Concrete
// type is *frame.Frame; referenced here as an interface so eval's
// dispatcher-facing helpers can be implemented without a cycle back into
// frame.
type Frame interface {
	Identity() int
	Outer() Frame
}

// NativeFunc is the Go-level dispatcher signature for a native function
// body (spec.md §4.7 "dispatcher"): it receives the fulfilled argument
// slice and refinement values and returns its result value or an error;
// a *value.ControlSignal error carries one of the value.DispatchCode
// results the evaluator loop understands.
type NativeFunc func(args []Value, refinements map[string]Value, ev Evaluator) (Value, error)

// Evaluator is the surface the dispatcher protocol and natives see.
// Concrete type is *eval.Evaluator.
type Evaluator interface {
	DoNext(val Value) (Value, error)
	DoBlock(vals []Value) (Value, error)
	CurrentBinding() Binding
	PushBinding(b Binding) Binding
	PopBinding()
	Callstack() []string
	Signal() error

	SetOutputWriter(w io.Writer)
	GetOutputWriter() io.Writer
	SetErrorWriter(w io.Writer)
	GetErrorWriter() io.Writer
	SetInputReader(r io.Reader)
	GetInputReader() io.Reader
}
