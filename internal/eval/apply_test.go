package eval

import (
	"testing"

	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

// foo: func [/b x /d y] [reduce [x y]]; x is /b's own argument, y is /d's.
// The two path-call tests below check that, whichever order the call names
// its refinements in, the groups on the feed are consumed in that order
// rather than in the order /b and /d were declared.
func newRefinementTestFunction() *value.Function {
	params := []value.ParamSpec{
		{Name: "b", Refinement: true},
		{Name: "x", Eval: true},
		{Name: "d", Refinement: true},
		{Name: "y", Eval: true},
	}
	return value.NewNativeFunction("foo", params, func(args []core.Value, _ any) (core.Value, error) {
		return value.NewBlockVal([]core.Value{args[0], args[1]}), nil
	})
}

func pathOf(names ...string) core.Value {
	segs := make([]value.PathSegment, len(names))
	for i, n := range names {
		segs[i] = value.PathSegment{Type: value.PathSegmentWord, Value: n}
	}
	return value.PathVal(value.Path, segs)
}

func blockInts(t *testing.T, v core.Value) (int64, int64) {
	t.Helper()
	blk, ok := value.AsBlock(v)
	if !ok || len(blk.Elements) != 2 {
		t.Fatalf("result = %v, want a 2-element block", v)
	}
	x, ok1 := value.AsInteger(blk.Elements[0])
	y, ok2 := value.AsInteger(blk.Elements[1])
	if !ok1 || !ok2 {
		t.Fatalf("block elements = %v, want two integers", blk.Elements)
	}
	return x, y
}

func TestRefinementPickupsFollowPathOrderNotDeclarationOrder(t *testing.T) {
	e := NewEvaluator()
	e.RegisterNative("foo", newRefinementTestFunction())

	// foo/b/d (3) (7): /b is named first, so its own argument x consumes
	// the first group (3); /d's argument y consumes the second (7).
	prog := []core.Value{pathOf("foo", "b", "d"), value.ParenVal([]core.Value{value.IntVal(3)}), value.ParenVal([]core.Value{value.IntVal(7)})}
	got, err := e.DoBlock(prog)
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	x, y := blockInts(t, got)
	if x != 3 || y != 7 {
		t.Errorf("foo/b/d (3)(7) = [%d %d], want [3 7]", x, y)
	}

	// foo/d/b (3) (7): /d is named first this time, so its own argument y
	// consumes the first group and /b's x consumes the second — the exact
	// same declaration order, reversed call order.
	prog = []core.Value{pathOf("foo", "d", "b"), value.ParenVal([]core.Value{value.IntVal(3)}), value.ParenVal([]core.Value{value.IntVal(7)})}
	got, err = e.DoBlock(prog)
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	x, y = blockInts(t, got)
	if x != 7 || y != 3 {
		t.Errorf("foo/d/b (3)(7) = [%d %d], want [7 3]", x, y)
	}
}

func TestUnusedRefinementArgIsVoidWithoutConsumingFeed(t *testing.T) {
	e := NewEvaluator()
	e.RegisterNative("foo", newRefinementTestFunction())

	// foo/b (3) leaves /d unrequested: y must come back void, and the
	// trailing word must still be there for the rest of the program to
	// consume, proving foo didn't eat it in y's place.
	prog := []core.Value{
		value.SetWordVal("r"), pathOf("foo", "b"), value.ParenVal([]core.Value{value.IntVal(3)}),
		value.SetWordVal("rest"), value.IntVal(99),
	}
	if _, err := e.DoBlock(prog); err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	got, err := e.DoBlock([]core.Value{value.WordVal("r")})
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	blk, ok := value.AsBlock(got)
	if !ok || len(blk.Elements) != 2 {
		t.Fatalf("result = %v, want a 2-element block", got)
	}
	x, ok := value.AsInteger(blk.Elements[0])
	if !ok || x != 3 {
		t.Errorf("x = %v, want 3", blk.Elements[0])
	}
	if blk.Elements[1].GetType() != value.Void {
		t.Errorf("y = %v, want void (unrequested /d's argument must never be touched)", blk.Elements[1])
	}

	rest, err := e.DoBlock([]core.Value{value.WordVal("rest")})
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	n, _ := value.AsInteger(rest)
	if n != 99 {
		t.Errorf("rest = %v, want 99 (the set-word/literal must not have been consumed by foo)", rest)
	}
}

func TestInertValuesAreMarkedUnevaluatedOnEvaluation(t *testing.T) {
	e := NewEvaluator()
	for _, v := range []core.Value{value.IntVal(7), value.StrVal("hi"), value.BlockVal([]core.Value{value.IntVal(1)})} {
		got, err := e.DoBlock([]core.Value{v})
		if err != nil {
			t.Fatalf("DoBlock error: %v", err)
		}
		if !got.GetFlags().Has(core.FlagUnevaluated) {
			t.Errorf("evaluating inert value %v did not set FlagUnevaluated", v)
		}
		if !got.Equals(v) {
			t.Errorf("evaluating inert value %v = %v, want an equal value", v, got)
		}
	}
}
