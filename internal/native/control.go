// Package native implements the built-in words registered into the
// evaluator's top-level context at startup (spec.md §4.7's dispatcher
// protocol). Each file groups one family; Register wires the whole set
// into a *eval.Evaluator.
package native

import (
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
	"github.com/zsx/viro-core/internal/verror"
)

// truthy follows spec.md's conditional-truth rule: only none!, blank!, and
// a logic! false are falsey; everything else, including 0 and an empty
// string, is truthy.
func truthy(v core.Value) bool {
	switch v.GetType() {
	case value.Void, value.Blank:
		return false
	case value.Logic:
		b, _ := value.AsLogic(v)
		return b
	default:
		return true
	}
}

func doBlockValue(ev core.Evaluator, v core.Value) (core.Value, error) {
	blk, ok := value.AsBlock(v)
	if !ok {
		return nil, verror.NewScriptError(verror.ErrIDTypeMismatch,
			[3]string{"do", "block", value.TypeToString(v.GetType())})
	}
	return ev.DoBlock(blk.Elements)
}

func ifNative(args []core.Value, ev any) (core.Value, error) {
	e := ev.(core.Evaluator)
	if !truthy(args[0]) {
		return value.NoneVal(), nil
	}
	return doBlockValue(e, args[1])
}

func eitherNative(args []core.Value, ev any) (core.Value, error) {
	e := ev.(core.Evaluator)
	if truthy(args[0]) {
		return doBlockValue(e, args[1])
	}
	return doBlockValue(e, args[2])
}

func unlessNative(args []core.Value, ev any) (core.Value, error) {
	e := ev.(core.Evaluator)
	if truthy(args[0]) {
		return value.NoneVal(), nil
	}
	return doBlockValue(e, args[1])
}

// whileNative loops re-evaluating its condition block until it comes back
// falsey, checking for a cooperative interrupt once per iteration (spec.md
// §4.9) rather than relying solely on the per-call check applyFunction
// already performs for the bodies it runs.
func whileNative(args []core.Value, ev any) (core.Value, error) {
	e := ev.(core.Evaluator)
	condBlk, ok := value.AsBlock(args[0])
	if !ok {
		return nil, verror.NewScriptError(verror.ErrIDTypeMismatch,
			[3]string{"while", "block", value.TypeToString(args[0].GetType())})
	}
	bodyBlk, ok := value.AsBlock(args[1])
	if !ok {
		return nil, verror.NewScriptError(verror.ErrIDTypeMismatch,
			[3]string{"while", "block", value.TypeToString(args[1].GetType())})
	}
	result := core.Value(value.NoneVal())
	for {
		if err := e.Signal(); err != nil {
			return nil, err
		}
		cond, err := e.DoBlock(condBlk.Elements)
		if err != nil {
			return nil, err
		}
		if !truthy(cond) {
			return result, nil
		}
		result, err = e.DoBlock(bodyBlk.Elements)
		if err != nil {
			return nil, err
		}
	}
}

// doNative runs a block's content as a nested program; any other value
// already arrived evaluated (its parameter is ClassNormal) and is simply
// passed back through.
func doNative(args []core.Value, ev any) (core.Value, error) {
	e := ev.(core.Evaluator)
	if args[0].GetType() == value.Block {
		return doBlockValue(e, args[0])
	}
	return args[0], nil
}

// elseNative implements the ELSE pattern (spec.md §4.8): it takes the
// preceding expression's result as its left-hand (lookback) argument and
// only runs its branch when that result is falsey (the shape IF/UNLESS
// leave behind when their own condition didn't hold) — otherwise the
// left-hand value passes through untouched.
func elseNative(args []core.Value, ev any) (core.Value, error) {
	e := ev.(core.Evaluator)
	if truthy(args[0]) {
		return args[0], nil
	}
	return doBlockValue(e, args[1])
}

func registerControl(reg *registrar) {
	reg.native("if", []value.ParamSpec{
		{Name: "condition", Eval: true},
		{Name: "branch", Type: value.Block, Eval: true},
	}, ifNative)

	reg.native("either", []value.ParamSpec{
		{Name: "condition", Eval: true},
		{Name: "true-branch", Type: value.Block, Eval: true},
		{Name: "false-branch", Type: value.Block, Eval: true},
	}, eitherNative)

	reg.native("unless", []value.ParamSpec{
		{Name: "condition", Eval: true},
		{Name: "branch", Type: value.Block, Eval: true},
	}, unlessNative)

	reg.native("while", []value.ParamSpec{
		{Name: "condition", Type: value.Block, Eval: true},
		{Name: "body", Type: value.Block, Eval: true},
	}, whileNative)

	reg.native("do", []value.ParamSpec{
		{Name: "value", Eval: true},
	}, doNative)

	reg.infixDeferred("else", []value.ParamSpec{
		{Name: "value", Eval: true},
		{Name: "branch", Type: value.Block, Eval: true},
	}, elseNative)
}
