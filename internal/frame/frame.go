// Package frame implements the evaluator's activation record (spec.md §3
// "Frame", §4.6): the mutable per-call state threaded through argument
// fulfillment and dispatch. This is distinct from a binding Context
// (internal/bind) — a Frame is destroyed when its call returns; a Context
// can outlive it (spec.md §3 lifecycle: "binding contexts outlive every
// frame that references them").
//
// Grounded on the teacher's internal/frame package, which conflated the
// two concepts into one type (word/value bindings plus ad-hoc dispatch
// state bolted on by later features); here the binding half moved to
// internal/bind and this package keeps only activation state: identity,
// the outer frame, the function, a label, and the argument slice.
package frame

import (
	"github.com/zsx/viro-core/internal/chunkstack"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

var nextID int

// Frame is one activation (spec.md §3): the function being invoked, its
// filled argument slice, and enough identity/label state to support
// nested-call release ordering and error "where" context. The refinement
// pickups pass and the enfix scheduler's one-shot deferral (spec.md §4.6,
// §4.8) are implemented directly in internal/eval against the uniform
// Facade/Args slices here, rather than as frame-resident cursor/sentinel
// state — see internal/eval/apply.go and evaluator.go.
type Frame struct {
	id    int
	outer core.Frame

	Phase *value.Function // the function currently being invoked

	Label string // current-word label, for error "where" context

	Args       []core.Value
	argsHandle chunkstack.Handle
	hasHandle  bool
}

// New allocates a frame whose argument slice comes from the chunk arena.
func New(arena *chunkstack.Stack, outer core.Frame, phase *value.Function, argCount int) *Frame {
	nextID++
	f := &Frame{id: nextID, outer: outer, Phase: phase}
	if argCount > 0 {
		h := arena.Push(argCount)
		f.argsHandle = h
		f.hasHandle = true
		f.Args = arena.Slice(h)
	}
	return f
}

// Release drops the frame's argument slice back to the arena. Must be
// called in strict LIFO order with every other live frame (spec.md §3
// lifecycle: "chunk stack frames are released strictly LIFO").
func (f *Frame) Release(arena *chunkstack.Stack) {
	if f.hasHandle {
		arena.Drop(f.argsHandle)
		f.hasHandle = false
		f.Args = nil
	}
}

// Adopt promotes the frame's argument slice to independent heap storage —
// used when a binding context built from this call (a closure) needs to
// keep referencing the arguments after the frame itself is released
// (spec.md §4.2: "if that frame's slice had been adopted ... the context
// is first promoted to heap storage").
func (f *Frame) Adopt(arena *chunkstack.Stack) []core.Value {
	if !f.hasHandle {
		return f.Args
	}
	promoted := arena.Promote(f.argsHandle)
	f.Args = promoted
	return promoted
}

func (f *Frame) Identity() int     { return f.id }
func (f *Frame) Outer() core.Frame { return f.outer }

var _ core.Frame = (*Frame)(nil)
