// Package feed implements the evaluator's source feed (spec.md §4.1): the
// read-only cursor the evaluator loop pulls values from, one step at a
// time, with a one-value lookahead for the enfix scheduler (spec.md
// §4.8). Two backings share the interface — an indexed array (a Block's
// Elements) and an opaque variadic pull source — so the loop never cares
// which kind of source it is walking.
//
// Grounded on the teacher's Do_Blk loop in internal/eval/evaluator.go,
// which indexes directly into a []core.Value with a local cursor; this
// package lifts that cursor into its own type so the evaluator can also
// run against a variadic source without a separate code path.
package feed

import "github.com/zsx/viro-core/internal/core"

// Feed is a read-only cursor over a sequence of values.
type Feed interface {
	// Current returns the value at the cursor, or nil at end.
	Current() core.Value
	// Lookahead returns the value one step past the cursor, or nil at end.
	Lookahead() core.Value
	// Advance moves the cursor forward one value. A feed's cursor never
	// moves backward (spec.md §3 invariant 4).
	Advance()
	// AtEnd reports whether Current would return nil.
	AtEnd() bool
	// Specifier returns the binding context relative words in this feed
	// resolve against.
	Specifier() core.Binding
}

// ArrayFeed walks an indexed, immutable array — the common case of
// evaluating a block's elements.
type ArrayFeed struct {
	elements  []core.Value
	pos       int
	specifier core.Binding
}

func NewArrayFeed(elements []core.Value, specifier core.Binding) *ArrayFeed {
	return &ArrayFeed{elements: elements, specifier: specifier}
}

func (f *ArrayFeed) Current() core.Value {
	if f.pos >= len(f.elements) {
		return nil
	}
	return f.elements[f.pos]
}

func (f *ArrayFeed) Lookahead() core.Value {
	if f.pos+1 >= len(f.elements) {
		return nil
	}
	return f.elements[f.pos+1]
}

func (f *ArrayFeed) Advance() {
	if f.pos < len(f.elements) {
		f.pos++
	}
}

func (f *ArrayFeed) AtEnd() bool { return f.pos >= len(f.elements) }

func (f *ArrayFeed) Specifier() core.Binding { return f.specifier }

// Pos reports the current index; used by `pathwalk`/`eval` error reporting
// to capture "near" context (spec.md §4.10).
func (f *ArrayFeed) Pos() int { return f.pos }

// Elements exposes the backing array for near-context snippets.
func (f *ArrayFeed) Elements() []core.Value { return f.elements }

// PullFunc supplies the next value from an opaque variadic source (spec.md
// §4.1's "opaque variadic pull source"), returning ok=false once exhausted.
type PullFunc func() (core.Value, bool)

// VariadicFeed pulls values on demand from a PullFunc, buffering exactly
// enough to support one-step lookahead without re-pulling.
type VariadicFeed struct {
	pull      PullFunc
	specifier core.Binding
	cur       core.Value
	curOK     bool
	next      core.Value
	nextOK    bool
	primed    bool
}

func NewVariadicFeed(pull PullFunc, specifier core.Binding) *VariadicFeed {
	return &VariadicFeed{pull: pull, specifier: specifier}
}

func (f *VariadicFeed) prime() {
	if f.primed {
		return
	}
	f.cur, f.curOK = f.pull()
	f.next, f.nextOK = f.pull()
	f.primed = true
}

func (f *VariadicFeed) Current() core.Value {
	f.prime()
	if !f.curOK {
		return nil
	}
	return f.cur
}

func (f *VariadicFeed) Lookahead() core.Value {
	f.prime()
	if !f.nextOK {
		return nil
	}
	return f.next
}

func (f *VariadicFeed) Advance() {
	f.prime()
	f.cur, f.curOK = f.next, f.nextOK
	f.next, f.nextOK = f.pull()
}

func (f *VariadicFeed) AtEnd() bool {
	f.prime()
	return !f.curOK
}

func (f *VariadicFeed) Specifier() core.Binding { return f.specifier }

// Reify drains the remainder of a variadic feed into an ArrayFeed,
// permitted at any expression boundary (spec.md §4.1). The feed's current
// position becomes index 0 of the new array.
func Reify(f *VariadicFeed) *ArrayFeed {
	f.prime()
	var elements []core.Value
	if f.curOK {
		elements = append(elements, f.cur)
	}
	for f.nextOK {
		elements = append(elements, f.next)
		f.next, f.nextOK = f.pull()
	}
	return NewArrayFeed(elements, f.specifier)
}

var _ Feed = (*ArrayFeed)(nil)
var _ Feed = (*VariadicFeed)(nil)
