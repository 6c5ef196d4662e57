package pathwalk

import (
	"testing"

	"github.com/zsx/viro-core/internal/bind"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

func wordSeg(name string) value.PathSegment {
	return value.PathSegment{Type: value.PathSegmentWord, Value: name}
}

func indexSeg(i int64) value.PathSegment {
	return value.PathSegment{Type: value.PathSegmentIndex, Value: i}
}

func TestWalkResolvesObjectField(t *testing.T) {
	obj := bind.New(nil)
	obj.Bind("x", value.IntVal(42))
	root := bind.New(nil)
	root.Bind("point", value.ObjectVal(value.NewObject(obj, []string{"x"}, nil)))

	path := value.NewPath([]value.PathSegment{wordSeg("point"), wordSeg("x")}, value.NoneVal())
	tr, rc, err := Walk(root, nil, path, false)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	if rc != nil {
		t.Fatalf("expected a Traversal, got a RefinementCall")
	}
	got := tr.Values[len(tr.Values)-1]
	n, ok := value.AsInteger(got)
	if !ok || n != 42 {
		t.Errorf("point/x = %v, want 42", got)
	}
}

func TestWalkBlockIndexIsOneBased(t *testing.T) {
	root := bind.New(nil)
	root.Bind("b", value.BlockVal([]core.Value{value.IntVal(10), value.IntVal(20), value.IntVal(30)}))

	path := value.NewPath([]value.PathSegment{wordSeg("b"), indexSeg(2)}, value.NoneVal())
	tr, _, err := Walk(root, nil, path, false)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	got := tr.Values[len(tr.Values)-1]
	n, _ := value.AsInteger(got)
	if n != 20 {
		t.Errorf("b/2 = %v, want 20", got)
	}
}

func TestWalkIndexOutOfRangeErrors(t *testing.T) {
	root := bind.New(nil)
	root.Bind("b", value.BlockVal([]core.Value{value.IntVal(1)}))

	path := value.NewPath([]value.PathSegment{wordSeg("b"), indexSeg(5)}, value.NoneVal())
	_, _, err := Walk(root, nil, path, false)
	if err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestWalkNonePathErrors(t *testing.T) {
	root := bind.New(nil)
	root.Bind("n", value.NoneVal())

	path := value.NewPath([]value.PathSegment{wordSeg("n"), wordSeg("x")}, value.NoneVal())
	_, _, err := Walk(root, nil, path, false)
	if err == nil {
		t.Fatal("expected a none-path error")
	}
}

func TestWalkStopBeforeLastLeavesFinalSegmentUnresolved(t *testing.T) {
	obj := bind.New(nil)
	obj.Bind("x", value.IntVal(1))
	root := bind.New(nil)
	root.Bind("point", value.ObjectVal(value.NewObject(obj, []string{"x"}, nil)))

	path := value.NewPath([]value.PathSegment{wordSeg("point"), wordSeg("x")}, value.NoneVal())
	tr, _, err := Walk(root, nil, path, true)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	// stopBeforeLast leaves tr.Values holding only the base (container for
	// the pending assignment), not the field's current contents.
	if len(tr.Values) != 1 {
		t.Fatalf("len(tr.Values) = %d, want 1", len(tr.Values))
	}

	result, err := AssignInto(tr, value.IntVal(99))
	if err != nil {
		t.Fatalf("AssignInto error: %v", err)
	}
	n, _ := value.AsInteger(result)
	if n != 99 {
		t.Errorf("AssignInto result = %v, want 99", result)
	}

	updated, ok := bind.Resolve(obj, "x")
	if !ok {
		t.Fatal("x not found after assignment")
	}
	n2, _ := value.AsInteger(updated)
	if n2 != 99 {
		t.Errorf("obj.x after assignment = %v, want 99", updated)
	}
}

func TestWalkAssignIntoBlockIndex(t *testing.T) {
	root := bind.New(nil)
	root.Bind("b", value.BlockVal([]core.Value{value.IntVal(1), value.IntVal(2)}))

	path := value.NewPath([]value.PathSegment{wordSeg("b"), indexSeg(2)}, value.NoneVal())
	tr, _, err := Walk(root, nil, path, true)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	if _, err := AssignInto(tr, value.IntVal(77)); err != nil {
		t.Fatalf("AssignInto error: %v", err)
	}

	b, _ := bind.Resolve(root, "b")
	blk, _ := value.AsBlock(b)
	n, _ := value.AsInteger(blk.Elements[1])
	if n != 77 {
		t.Errorf("b/2 after assignment = %v, want 77", blk.Elements[1])
	}
}

func TestWalkCallableBaseReturnsRefinementCall(t *testing.T) {
	root := bind.New(nil)
	fn := value.NewNativeFunction("add", nil, nil)
	root.Bind("add", value.FuncVal(fn))

	path := value.NewPath([]value.PathSegment{wordSeg("add"), wordSeg("only")}, value.NoneVal())
	tr, rc, err := Walk(root, nil, path, false)
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	if tr != nil {
		t.Fatal("expected a RefinementCall, got a Traversal")
	}
	if rc == nil || rc.Callee == nil || len(rc.Refinements) != 1 || rc.Refinements[0] != "only" {
		t.Fatalf("unexpected RefinementCall: %+v", rc)
	}
}

func TestWalkRejectsEnfixedCallableThroughPath(t *testing.T) {
	root := bind.New(nil)
	fn := value.NewNativeFunction("add", nil, nil)
	root.Bind("add", value.FuncVal(fn).WithFlags(core.FlagEnfixed))

	path := value.NewPath([]value.PathSegment{wordSeg("add"), wordSeg("only")}, value.NoneVal())
	_, _, err := Walk(root, nil, path, false)
	if err == nil {
		t.Fatal("expected path dispatch through an enfixed function to be rejected")
	}
}
