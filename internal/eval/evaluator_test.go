package eval

import (
	"testing"

	"github.com/zsx/viro-core/internal/bind"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

func TestDoBlockLiteralsEvaluateToThemselves(t *testing.T) {
	e := NewEvaluator()
	tests := []struct {
		name  string
		input core.Value
	}{
		{"integer", value.IntVal(42)},
		{"string", value.StrVal("hello")},
		{"logic true", value.LogicVal(true)},
		{"none", value.NoneVal()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.DoBlock([]core.Value{tt.input})
			if err != nil {
				t.Fatalf("DoBlock error: %v", err)
			}
			if !got.Equals(tt.input) {
				t.Errorf("DoBlock(%v) = %v, want %v", tt.input, got, tt.input)
			}
		})
	}
}

func TestDoBlockEmptyReturnsNone(t *testing.T) {
	e := NewEvaluator()
	got, err := e.DoBlock(nil)
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	if got.GetType() != value.Void {
		t.Errorf("DoBlock(nil) = %v, want void", got)
	}
}

func TestSetWordBindsLocalAndReturnsValue(t *testing.T) {
	e := NewEvaluator()
	prog := []core.Value{value.SetWordVal("x"), value.IntVal(10)}
	got, err := e.DoBlock(prog)
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	n, _ := value.AsInteger(got)
	if n != 10 {
		t.Errorf("set-word result = %v, want 10", got)
	}
	bound, ok := bind.Resolve(e.CurrentBinding(), "x")
	if !ok {
		t.Fatal("x not bound after set-word")
	}
	bn, _ := value.AsInteger(bound)
	if bn != 10 {
		t.Errorf("x = %v, want 10", bound)
	}
}

func TestGetWordReturnsValueWithoutInvoking(t *testing.T) {
	e := NewEvaluator()
	fn := value.NewNativeFunction("noop", nil, func(args []core.Value, _ any) (core.Value, error) {
		return value.IntVal(999), nil
	})
	top := e.CurrentBinding().(*bind.Context)
	top.Bind("f", value.FuncVal(fn))

	got, err := e.DoBlock([]core.Value{value.GetWordVal("f")})
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	if got.GetType() != value.Function {
		t.Errorf("get-word f = %v, want a function value (not invoked)", got)
	}
}

func TestLitWordYieldsPlainWord(t *testing.T) {
	e := NewEvaluator()
	got, err := e.DoBlock([]core.Value{value.LitWordVal("foo")})
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	if got.GetType() != value.Word {
		t.Fatalf("lit-word result kind = %v, want Word", got.GetType())
	}
	name, _ := value.AsWord(got)
	if name != "foo" {
		t.Errorf("lit-word result = %q, want foo", name)
	}
}

func TestNativeCallConsumesArguments(t *testing.T) {
	e := NewEvaluator()
	add := value.NewNativeFunction("add", []value.ParamSpec{
		{Name: "a", Eval: true},
		{Name: "b", Eval: true},
	}, func(args []core.Value, _ any) (core.Value, error) {
		a, _ := value.AsInteger(args[0])
		b, _ := value.AsInteger(args[1])
		return value.IntVal(a + b), nil
	})
	top := e.CurrentBinding().(*bind.Context)
	top.Bind("add", value.FuncVal(add))

	got, err := e.DoBlock([]core.Value{value.WordVal("add"), value.IntVal(2), value.IntVal(3)})
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	n, _ := value.AsInteger(got)
	if n != 5 {
		t.Errorf("add 2 3 = %v, want 5", got)
	}
}

func TestEnfixOperatorChains(t *testing.T) {
	e := NewEvaluator()
	plus := value.NewNativeFunction("plus", []value.ParamSpec{
		{Name: "a", Eval: true},
		{Name: "b", Eval: true},
	}, func(args []core.Value, _ any) (core.Value, error) {
		a, _ := value.AsInteger(args[0])
		b, _ := value.AsInteger(args[1])
		return value.IntVal(a + b), nil
	})
	top := e.CurrentBinding().(*bind.Context)
	top.Bind("+", value.FuncVal(plus).WithFlags(core.FlagEnfixed))

	prog := []core.Value{
		value.IntVal(1), value.WordVal("+"), value.IntVal(2), value.WordVal("+"), value.IntVal(3),
	}
	got, err := e.DoBlock(prog)
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	n, _ := value.AsInteger(got)
	if n != 6 {
		t.Errorf("1 + 2 + 3 = %v, want 6", got)
	}
}

func TestTightParamDoesNotAbsorbEnfixChain(t *testing.T) {
	e := NewEvaluator()
	plus := value.NewNativeFunction("plus", []value.ParamSpec{
		{Name: "a", Eval: true},
		{Name: "b", Eval: true},
	}, func(args []core.Value, _ any) (core.Value, error) {
		a, _ := value.AsInteger(args[0])
		b, _ := value.AsInteger(args[1])
		return value.IntVal(a + b), nil
	})
	top := e.CurrentBinding().(*bind.Context)
	top.Bind("+", value.FuncVal(plus).WithFlags(core.FlagEnfixed))

	// identity takes its one argument "tight": it must not pull in the
	// trailing `+ 2` enfix chain the way a ClassNormal argument would.
	identity := value.NewNativeFunction("identity", nil, func(args []core.Value, _ any) (core.Value, error) {
		return args[0], nil
	})
	identity.Facade = []value.Param{{Name: "v", Class: value.ClassTight}}
	identity.Params = identity.Facade
	top.Bind("identity", value.FuncVal(identity))

	prog := []core.Value{value.WordVal("identity"), value.IntVal(1), value.WordVal("+"), value.IntVal(2)}
	got, err := e.DoBlock(prog)
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	n, _ := value.AsInteger(got)
	if n != 3 {
		t.Errorf("identity 1 + 2 = %v, want 3 (identity takes 1 tight, then + 2 applies to the result)", got)
	}
}

func TestUserFunctionReturnUnwindsToItsOwnCall(t *testing.T) {
	e := NewEvaluator()
	body := value.NewBlockVal([]core.Value{
		value.WordVal("return"), value.IntVal(7),
		value.IntVal(999), // unreachable
	})
	blk, _ := value.AsBlock(body)
	fn := value.NewUserFunction("early", nil, blk, e.CurrentBinding())
	top := e.CurrentBinding().(*bind.Context)
	top.Bind("early", value.FuncVal(fn))

	got, err := e.DoBlock([]core.Value{value.WordVal("early")})
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	n, _ := value.AsInteger(got)
	if n != 7 {
		t.Errorf("early = %v, want 7", got)
	}
}

func TestUserFunctionBindsParameters(t *testing.T) {
	e := NewEvaluator()
	body := value.NewBlockVal([]core.Value{value.WordVal("x")})
	blk, _ := value.AsBlock(body)
	fn := value.NewUserFunction("square", []value.ParamSpec{{Name: "x", Eval: true}}, blk, e.CurrentBinding())
	top := e.CurrentBinding().(*bind.Context)
	top.Bind("square", value.FuncVal(fn))

	got, err := e.DoBlock([]core.Value{value.WordVal("square"), value.IntVal(4)})
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	n, _ := value.AsInteger(got)
	if n != 4 {
		t.Errorf("square 4 = %v, want 4 (body just returns x)", got)
	}
}

func TestRefinementCallViaPath(t *testing.T) {
	e := NewEvaluator()
	fn := value.NewNativeFunction("grab", []value.ParamSpec{{Name: "v", Eval: true}}, func(args []core.Value, _ any) (core.Value, error) {
		return args[0], nil
	})
	fn.Facade = append(fn.Facade, value.Param{Name: "only", Class: value.ClassRefinement})
	fn.Params = fn.Facade
	top := e.CurrentBinding().(*bind.Context)
	top.Bind("grab", value.FuncVal(fn))

	path := value.PathVal(value.Path, []value.PathSegment{
		{Type: value.PathSegmentWord, Value: "grab"},
		{Type: value.PathSegmentWord, Value: "only"},
	})

	got, err := e.DoBlock([]core.Value{path, value.IntVal(5)})
	if err != nil {
		t.Fatalf("DoBlock error: %v", err)
	}
	n, _ := value.AsInteger(got)
	if n != 5 {
		t.Errorf("grab/only 5 = %v, want 5", got)
	}
}

func TestNoValueErrorsOnUnboundWord(t *testing.T) {
	e := NewEvaluator()
	_, err := e.DoBlock([]core.Value{value.WordVal("nope")})
	if err == nil {
		t.Fatal("expected an error resolving an unbound word")
	}
}
