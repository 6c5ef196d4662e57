package native

import (
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/eval"
	"github.com/zsx/viro-core/internal/value"
)

// registrar is the bootstrap-time handle each register* function uses to
// install its words into ev, kept as a small wrapper so individual native
// files don't each need to know the evaluator's construction details.
type registrar struct {
	ev *eval.Evaluator
}

// native registers a plain (non-polymorphic) native function.
func (r *registrar) native(name string, params []value.ParamSpec, impl func([]core.Value, any) (core.Value, error)) {
	r.ev.RegisterNative(name, value.NewNativeFunction(name, params, impl))
}

// infixDeferred registers a plain infix native that defers lookback
// (spec.md §4.8): its word is enfixed, but a nested argument fulfillment's
// own lookahead leaves it unconsumed so it binds to the complete top-level
// expression instead of a fragment of it — the ELSE-after-IF pattern.
func (r *registrar) infixDeferred(name string, params []value.ParamSpec, impl func([]core.Value, any) (core.Value, error)) {
	fn := value.NewNativeFunction(name, params, impl)
	fn.Infix = true
	fn.DefersLookback = true
	r.ev.RegisterNative(name, fn)
}

// action registers one kind's implementation of a polymorphic action,
// creating the action's word binding the first time it sees name and
// adding subsequent kinds' implementations to the same dispatch table
// (spec.md §4.7).
func (r *registrar) action(name string, params []value.Param, kind value.Kind, impl core.NativeFunc, infix bool) {
	act := value.NewAction(name, params)
	fn := &value.Function{Type: value.FuncNative, Name: name, Params: params, Facade: params, Native: impl}
	r.ev.RegisterActionNative(kind, name, act, fn, infix)
}

// Register installs every built-in word this package implements into ev.
// A freshly constructed *eval.Evaluator carries no words at all — a
// caller (cmd/viro, internal/repl, or a test) must call Register before
// running any program that uses them (spec.md §4.7's bootstrap-by-
// registration rule).
func Register(ev *eval.Evaluator) {
	reg := &registrar{ev: ev}
	registerControl(reg)
	registerMath(reg)
	registerCompare(reg)
	registerIO(reg)
	registerThrow(reg)
}
