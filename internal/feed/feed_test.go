package feed

import (
	"testing"

	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

func ints(ns ...int64) []core.Value {
	out := make([]core.Value, len(ns))
	for i, n := range ns {
		out[i] = value.IntVal(n)
	}
	return out
}

func TestArrayFeedLookaheadAndAdvance(t *testing.T) {
	f := NewArrayFeed(ints(1, 2, 3), nil)
	if f.AtEnd() {
		t.Fatal("feed over 3 elements should not start at end")
	}
	if first, _ := value.AsInteger(f.Current()); first != 1 {
		t.Errorf("Current() = %d, want 1", first)
	}
	if second, _ := value.AsInteger(f.Lookahead()); second != 2 {
		t.Errorf("Lookahead() = %d, want 2", second)
	}
	f.Advance()
	if cur, _ := value.AsInteger(f.Current()); cur != 2 {
		t.Errorf("after Advance, Current() = %d, want 2", cur)
	}
	f.Advance()
	f.Advance()
	if !f.AtEnd() {
		t.Error("feed should be at end after advancing past every element")
	}
	if f.Current() != nil {
		t.Error("Current() at end should be nil")
	}
	if f.Lookahead() != nil {
		t.Error("Lookahead() at end should be nil")
	}
}

func TestVariadicFeedMatchesArrayFeedBehavior(t *testing.T) {
	src := ints(10, 20, 30)
	i := 0
	pull := func() (core.Value, bool) {
		if i >= len(src) {
			return nil, false
		}
		v := src[i]
		i++
		return v, true
	}
	vf := NewVariadicFeed(pull, nil)

	if got, _ := value.AsInteger(vf.Current()); got != 10 {
		t.Errorf("Current() = %d, want 10", got)
	}
	if got, _ := value.AsInteger(vf.Lookahead()); got != 20 {
		t.Errorf("Lookahead() = %d, want 20", got)
	}
	vf.Advance()
	if got, _ := value.AsInteger(vf.Current()); got != 20 {
		t.Errorf("after Advance, Current() = %d, want 20", got)
	}
	vf.Advance()
	if got, _ := value.AsInteger(vf.Current()); got != 30 {
		t.Errorf("after second Advance, Current() = %d, want 30", got)
	}
	vf.Advance()
	if !vf.AtEnd() {
		t.Error("variadic feed should be at end once the pull source is exhausted")
	}
}

func TestReifyDrainsRemainderIntoArrayFeed(t *testing.T) {
	src := ints(1, 2, 3, 4)
	i := 0
	pull := func() (core.Value, bool) {
		if i >= len(src) {
			return nil, false
		}
		v := src[i]
		i++
		return v, true
	}
	vf := NewVariadicFeed(pull, nil)
	vf.Advance() // consume the first value before reifying

	af := Reify(vf)
	var got []int64
	for !af.AtEnd() {
		n, _ := value.AsInteger(af.Current())
		got = append(got, n)
		af.Advance()
	}
	want := []int64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Reify produced %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("element %d = %d, want %d", i, got[i], w)
		}
	}
}
