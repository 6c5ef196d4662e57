package eval

import (
	"github.com/zsx/viro-core/internal/bind"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/diagnostics"
	"github.com/zsx/viro-core/internal/feed"
	"github.com/zsx/viro-core/internal/frame"
	"github.com/zsx/viro-core/internal/pathwalk"
	"github.com/zsx/viro-core/internal/value"
	"github.com/zsx/viro-core/internal/verror"
)

// walkPath is pathwalk.Walk with the evaluator wired in as both the
// binding source (CurrentBinding) and the sub-evaluator a group selector
// segment needs (spec.md §4.4).
func (e *Evaluator) walkPath(path *value.PathExpression, stopBeforeLast bool) (*pathwalk.Traversal, *pathwalk.RefinementCall, error) {
	return pathwalk.Walk(e.CurrentBinding(), e, path, stopBeforeLast)
}

func assignPath(tr *pathwalk.Traversal, newVal core.Value) (core.Value, error) {
	return pathwalk.AssignInto(tr, newVal)
}

// evalPathRead evaluates a bare path or get-path expression encountered by
// DoNext (i.e. not as the leading value of an expression, where evalOne
// would handle the RefinementCall case directly). A callable found at the
// end of such a path is returned as a value, not invoked — DoNext never
// calls anything (see evaluator.go's DoNext doc comment).
func (e *Evaluator) evalPathRead(val core.Value) (core.Value, error) {
	path, ok := value.AsPath(val)
	if !ok {
		return nil, verror.NewInternalError("path value does not contain PathExpression", [3]string{})
	}
	tr, rc, err := e.walkPath(path, false)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		return rc.Callee, nil
	}
	return tr.Values[len(tr.Values)-1], nil
}

// returnSignal unwinds exactly the user-function call that bound the
// "return" word invoking it — grounded on the teacher's
// internal/eval/return_signal.go ReturnSignal, propagated here as an
// ordinary Go error rather than a bespoke control-flow type, since Go's
// own error return already walks back up through every intervening
// DoBlock/evalExpr call.
type returnSignal struct {
	frameID int
	value   core.Value
}

func (r *returnSignal) Error() string { return "return signal" }

// refinementGroup is one named refinement's facade slice: the index of
// its own boolean/value flag, and the indices of the parameters that
// follow it in the paramlist until the next refinement (spec.md §4.6:
// "a refinement's own arguments are the parameters declared after it, up
// to the next refinement or the end of the paramlist").
type refinementGroup struct {
	name     string
	flagIdx  int
	ownedIdx []int
}

// facadeGroups splits fn's Facade into its leading main (non-refinement)
// parameter indices and the ordered list of refinement groups that follow
// them, by walking the paramlist once in definition order.
func facadeGroups(facade []value.Param) (main []int, groups []refinementGroup) {
	var current *refinementGroup
	for i, p := range facade {
		if p.Class == value.ClassRefinement {
			groups = append(groups, refinementGroup{name: p.Name, flagIdx: i})
			current = &groups[len(groups)-1]
			continue
		}
		if current == nil {
			main = append(main, i)
			continue
		}
		current.ownedIdx = append(current.ownedIdx, i)
	}
	return main, groups
}

// applyFunction fulfills fn's parameters by pulling from f (spec.md
// §4.6), then dispatches to either the native Go body or a user body
// evaluated against a fresh child binding context. lookback, when
// non-nil, is the already-computed left-hand value an enfix call injects
// as its first positional argument instead of consuming one from f.
//
// Parameters are filled in two passes: the leading main (non-refinement)
// parameters are fulfilled in definition order exactly as before, then
// each requested refinement's own arguments are fulfilled in the order
// the calling path named its refinements (spec.md §4.6 "Ordering
// guarantees": "Refinement arguments invoked via path are fulfilled in
// the path's order"), not the order they were declared in. A refinement
// that was not requested writes false for its own flag and void for
// every argument it owns, consuming nothing from f (spec.md §4.6 step 5).
func (e *Evaluator) applyFunction(fn *value.Function, f feed.Feed, refinements []string, lookback core.Value) (core.Value, error) {
	requested := make(map[string]bool, len(refinements))
	for _, r := range refinements {
		requested[r] = true
	}

	fr := frame.New(e.Arena, e.currentFrame(), fn, len(fn.Facade))
	fr.Label = fn.Name
	defer fr.Release(e.Arena)
	e.pushFrame(fr)
	defer e.popFrame()

	lookbackUsed := lookback == nil
	mainIdx, groups := facadeGroups(fn.Facade)

	fill := func(i int) (bool, error) {
		p := fn.Facade[i]
		if p.Class == value.ClassLocal || p.Class == value.ClassReturn || p.Class == value.ClassLeave {
			fr.Args[i] = value.NoneVal()
			return true, nil
		}
		if pre, ok := fn.Exemplar[p.Name]; ok {
			fr.Args[i] = pre
			return true, nil
		}
		if !lookbackUsed {
			fr.Args[i] = lookback
			lookbackUsed = true
			return true, nil
		}
		v, err := e.fulfillOne(f, p, fn)
		if err != nil {
			return false, err
		}
		fr.Args[i] = v
		return true, nil
	}

	for _, i := range mainIdx {
		if _, err := fill(i); err != nil {
			return nil, err
		}
	}

	// Pickups pass: requested refinements first, strictly in the path's
	// order, then every remaining (unrequested) refinement voided out.
	done := make([]bool, len(fn.Facade))
	byName := make(map[string]*refinementGroup, len(groups))
	for gi := range groups {
		byName[groups[gi].name] = &groups[gi]
	}

	for _, name := range refinements {
		g, ok := byName[name]
		if !ok || done[g.flagIdx] {
			continue
		}
		flag := fn.Facade[g.flagIdx]
		if pre, ok := fn.Exemplar[flag.Name]; ok {
			fr.Args[g.flagIdx] = pre
		} else if flag.TakesValue {
			if f.AtEnd() {
				return nil, verror.NewScriptError(verror.ErrIDNoArg, [3]string{flag.Name, fn.Name, ""})
			}
			v, err := e.evalExpr(f)
			if err != nil {
				return nil, err
			}
			fr.Args[g.flagIdx] = v
		} else {
			fr.Args[g.flagIdx] = value.LogicVal(true)
		}
		done[g.flagIdx] = true
		for _, i := range g.ownedIdx {
			if _, err := fill(i); err != nil {
				return nil, err
			}
			done[i] = true
		}
	}

	for gi := range groups {
		g := &groups[gi]
		if !done[g.flagIdx] {
			flag := fn.Facade[g.flagIdx]
			if pre, ok := fn.Exemplar[flag.Name]; ok {
				fr.Args[g.flagIdx] = pre
			} else if flag.TakesValue {
				fr.Args[g.flagIdx] = value.NoneVal()
			} else {
				fr.Args[g.flagIdx] = value.LogicVal(false)
			}
			done[g.flagIdx] = true
		}
		for _, i := range g.ownedIdx {
			if done[i] {
				continue
			}
			if pre, ok := fn.Exemplar[fn.Facade[i].Name]; ok {
				fr.Args[i] = pre
			} else {
				fr.Args[i] = value.NoneVal()
			}
			done[i] = true
		}
	}

	if err := e.Signal(); err != nil {
		return nil, err
	}

	switch fn.Type {
	case value.FuncNative:
		posArgs, refs := splitFacade(fn.Facade, fr.Args)
		out, err := fn.Native(posArgs, refs, e)
		if sig, ok := err.(*value.ControlSignal); ok && sig.Code == value.DispInvisible {
			diagnostics.Recoverable("dispatch", fn.Name+" returned invisible")
			return value.NoneVal().WithFlags(core.FlagInvisible), nil
		}
		return out, err
	default:
		return e.callUserFunction(fn, fr)
	}
}

// fulfillOne consumes one argument for a non-refinement, non-local
// parameter, per its ParamClass (spec.md §3's quoting/tight/normal
// distinctions).
func (e *Evaluator) fulfillOne(f feed.Feed, p value.Param, fn *value.Function) (core.Value, error) {
	if f.AtEnd() {
		if p.Endable {
			return value.NoneVal(), nil
		}
		return nil, verror.NewScriptError(verror.ErrIDNoArg, [3]string{p.Name, fn.Name, ""})
	}

	switch p.Class {
	case value.ClassHardQuote:
		v := f.Current()
		f.Advance()
		return v, nil

	case value.ClassSoftQuote:
		cur := f.Current()
		if cur.GetType() == value.Group {
			return e.evalOne(f)
		}
		f.Advance()
		return cur, nil

	case value.ClassTight:
		return e.evalOne(f)

	default: // ClassNormal
		// A normal argument's own lookahead is a nested fulfillment
		// context, not the top level (spec.md §4.8): a defers-lookback
		// word found here must bubble back out to the caller's evalExpr
		// instead of binding to just this argument.
		e.deferDepth++
		v, err := e.evalExpr(f)
		e.deferDepth--
		return v, err
	}
}

// splitFacade reassembles a native dispatcher's (posArgs, refs) calling
// convention from the uniform facade slice the fulfiller just filled.
func splitFacade(facade []value.Param, args []core.Value) ([]core.Value, map[string]core.Value) {
	pos := make([]core.Value, 0, len(facade))
	refs := make(map[string]core.Value)
	for i, p := range facade {
		switch p.Class {
		case value.ClassRefinement:
			refs[p.Name] = args[i]
		case value.ClassLocal, value.ClassReturn, value.ClassLeave:
			// not part of the native calling convention
		default:
			pos = append(pos, args[i])
		}
	}
	return pos, refs
}

// callUserFunction evaluates fn's body against a fresh child context,
// binding parameters, "return", and "leave" before running it (spec.md
// §4.6 step 5's dispatcher protocol for a user-defined function).
func (e *Evaluator) callUserFunction(fn *value.Function, fr *frame.Frame) (core.Value, error) {
	ctx := bind.New(fn.Binding)
	ctx.Name = fn.Name

	for i, p := range fn.Facade {
		if p.Class == value.ClassRefinement {
			ctx.Bind(p.Name, fr.Args[i])
			continue
		}
		if p.Class == value.ClassLocal || p.Class == value.ClassReturn || p.Class == value.ClassLeave {
			continue
		}
		ctx.Bind(p.Name, fr.Args[i])
	}

	ctx.Bind("return", value.FuncVal(makeUnwindNative("return", fr.Identity())))
	ctx.Bind("leave", value.FuncVal(makeUnwindNative("leave", fr.Identity())))

	e.PushBinding(ctx)
	e.pushCall(fn.Name)
	defer e.popCall()
	defer e.PopBinding()

	var body []core.Value
	if fn.Body != nil {
		body = fn.Body.Elements
	}
	result, err := e.DoBlock(body)
	if err != nil {
		if rs, ok := err.(*returnSignal); ok && rs.frameID == fr.Identity() {
			return rs.value, nil
		}
		return nil, err
	}
	return result, nil
}

// makeUnwindNative builds the "return"/"leave" closure bound into a user
// function's call context: invoking it raises a returnSignal tagged with
// that call's frame id, so only the matching callUserFunction catches it.
// "leave" is the zero-argument, always-void form (spec.md's DOES-style
// early exit); "return" takes one optional value.
func makeUnwindNative(name string, frameID int) *value.Function {
	if name == "leave" {
		return value.NewNativeFunction(name, nil, func(args []core.Value, _ any) (core.Value, error) {
			return nil, &returnSignal{frameID: frameID, value: value.NoneVal()}
		})
	}
	params := []value.ParamSpec{{Name: "value", Type: value.Void, Optional: true, Eval: true}}
	return value.NewNativeFunction(name, params, func(args []core.Value, _ any) (core.Value, error) {
		v := core.Value(value.NoneVal())
		if len(args) > 0 && args[0] != nil {
			v = args[0]
		}
		return nil, &returnSignal{frameID: frameID, value: v}
	})
}

// applyAction fulfills an Action's own parameter list, then redispatches
// to whichever registered Function implements it for the first fulfilled
// argument's kind (spec.md §4.7).
func (e *Evaluator) applyAction(act *value.ActionValue, f feed.Feed, lookback core.Value) (core.Value, error) {
	args := make([]core.Value, len(act.Params))
	refs := make(map[string]core.Value)

	lookbackUsed := lookback == nil
	for i, p := range act.Params {
		if p.Class == value.ClassRefinement {
			args[i] = value.LogicVal(false)
			continue
		}
		if !lookbackUsed {
			args[i] = lookback
			lookbackUsed = true
			continue
		}
		v, err := e.fulfillOne(f, p, &value.Function{Name: act.Name})
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if len(args) == 0 {
		return nil, verror.NewScriptError(verror.ErrIDArgCount, [3]string{act.Name, "1", "0"})
	}
	kind := args[0].GetType()
	impl, ok := e.actions[kind]
	if !ok {
		return nil, verror.NewScriptError(verror.ErrIDInvalidOperation,
			[3]string{act.Name + " on " + value.TypeToString(kind), "", ""})
	}
	fn, ok := impl[act.Name]
	if !ok {
		return nil, verror.NewScriptError(verror.ErrIDInvalidOperation,
			[3]string{act.Name + " on " + value.TypeToString(kind), "", ""})
	}
	return fn.Native(args, refs, e)
}
