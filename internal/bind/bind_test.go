package bind

import (
	"testing"

	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

func TestLocalLookupDoesNotWalkParent(t *testing.T) {
	parent := New(nil)
	parent.Bind("x", value.IntVal(1))
	child := New(parent)

	if _, ok := child.GetSymbol("x"); ok {
		t.Error("GetSymbol must be local-only; x lives in the parent")
	}
}

func TestResolveWalksParentChain(t *testing.T) {
	parent := New(nil)
	parent.Bind("x", value.IntVal(1))
	child := New(parent)

	v, ok := Resolve(child, "x")
	if !ok {
		t.Fatal("Resolve should find x in the parent")
	}
	if n, _ := value.AsInteger(v); n != 1 {
		t.Errorf("Resolve(x) = %v, want 1", v)
	}
	if _, ok := Resolve(child, "missing"); ok {
		t.Error("Resolve should report unbound for a name nowhere in the chain")
	}
}

func TestLocalByDefaultAssignment(t *testing.T) {
	parent := New(nil)
	parent.Bind("x", value.IntVal(1))
	child := New(parent)
	child.Bind("x", value.IntVal(2))

	if v, _ := child.GetSymbol("x"); mustInt(t, v) != 2 {
		t.Error("assignment in child must create a local binding, not mutate the parent's")
	}
	if v, _ := parent.GetSymbol("x"); mustInt(t, v) != 1 {
		t.Error("parent's binding must be unaffected by the child's local assignment")
	}
}

func TestGetMutableAliasesTheSlot(t *testing.T) {
	ctx := New(nil)
	ctx.Bind("counter", value.IntVal(0))
	ref, ok := ctx.GetMutable("counter")
	if !ok {
		t.Fatal("GetMutable should find counter")
	}
	*ref = value.IntVal(1)
	if v, _ := ctx.GetSymbol("counter"); mustInt(t, v) != 1 {
		t.Error("writing through the GetMutable reference should be visible via GetSymbol")
	}
}

func TestResolveLookbackReportsEnfixFlag(t *testing.T) {
	ctx := New(nil)
	ctx.Bind("plain", value.IntVal(1))
	ctx.Bind("op", value.IntVal(2).WithFlags(core.FlagEnfixed))

	_, found, enfixed := ResolveLookback(ctx, "plain")
	if !found || enfixed {
		t.Error("plain should resolve as found and not enfixed")
	}
	_, found, enfixed = ResolveLookback(ctx, "op")
	if !found || !enfixed {
		t.Error("op should resolve as found and enfixed")
	}
}

func mustInt(t *testing.T, v core.Value) int64 {
	t.Helper()
	n, ok := value.AsInteger(v)
	if !ok {
		t.Fatalf("expected integer value, got %v", v)
	}
	return n
}
