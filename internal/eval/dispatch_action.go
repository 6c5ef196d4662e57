package eval

import (
	"github.com/zsx/viro-core/internal/bind"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

// RegisterNative binds name to fn in the evaluator's top-level context —
// the bootstrap hook a natives package uses to install its words
// (spec.md §4.7: natives register themselves with the evaluator at
// startup rather than the evaluator importing every native package).
// A native built with fn.Infix set is bound carrying FlagEnfixed, so the
// lookback scheduler in evalExpr picks it up as an infix operator.
func (e *Evaluator) RegisterNative(name string, fn *value.Function) {
	top := e.bindings[0].(*bind.Context)
	v := value.FuncVal(fn)
	if fn.Infix {
		v = v.WithFlags(core.FlagEnfixed)
	}
	if fn.DefersLookback {
		v = v.WithFlags(core.FlagDefersLookback)
	}
	top.Bind(name, v)
}

// RegisterActionNative is RegisterNative plus an Action facade: it binds
// name to an ActionValue carrying params (so argument fulfillment works
// uniformly whether the eventual dispatch target is a Function or an
// Action), and records fn as the per-kind implementation reached via
// RegisterAction/DispatchAction-style lookup for kind. infix mirrors
// RegisterNative's fn.Infix convention for the action word itself — an
// enfixed action word (e.g. +) is picked up by evalExpr's lookback loop
// the same way an enfixed plain function is.
func (e *Evaluator) RegisterActionNative(kind value.Kind, name string, act *value.ActionValue, fn *value.Function, infix bool) {
	top := e.bindings[0].(*bind.Context)
	if _, exists := top.GetSymbol(name); !exists {
		v := value.ActionVal(act)
		if infix {
			v = v.WithFlags(core.FlagEnfixed)
		}
		top.Bind(name, v)
	}
	e.RegisterAction(kind, name, fn)
}
