// Package eval implements the core evaluation engine (spec.md §4): a
// single-pass, left-to-right walk over a feed of values with no operator
// precedence, driven entirely by each value's kind and (for words) the
// function bound to it.
//
// Grounded on the teacher's internal/eval/evaluator.go Do_Next/Do_Blk
// dispatch-table design and its "functions are only invoked from the block
// loop, never from Do_Next itself" discipline — kept here as DoNext/
// DoBlock's split responsibility. The teacher's index-juggling call
// collection (collectFunctionArgsWithInfix, idx *int) is replaced by
// pulling directly from a shared internal/feed.Feed, since the feed (not a
// borrowed slice+index pair) is what spec.md's Frame actually carries.
package eval

import (
	"io"

	"github.com/zsx/viro-core/internal/bind"
	"github.com/zsx/viro-core/internal/chunkstack"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/diagnostics"
	"github.com/zsx/viro-core/internal/feed"
	"github.com/zsx/viro-core/internal/value"
	"github.com/zsx/viro-core/internal/verror"
)

// Evaluator is the core evaluation engine: the chunk/data stack arena
// (spec.md §4.2), the binding-context stack (spec.md §4.3), the call
// stack used for error "where" context, the action-dispatch registry
// (spec.md §4.7's type-based Action dispatch), and the I/O streams natives
// write through.
type Evaluator struct {
	Arena *chunkstack.Stack
	Data  *chunkstack.DataStack

	bindings  []core.Binding
	callStack []string
	frames    []core.Frame

	actions map[value.Kind]map[string]*value.Function

	// deferDepth counts nested argument-fulfillment contexts entered since
	// the current top-level block/group/call body started (spec.md §4.8's
	// one-shot deferral): zero at the top of each DoBlock, incremented
	// around a ClassNormal argument's own recursive evalExpr in
	// fulfillOne. A defers-lookback enfix word is only left unconsumed for
	// evalExpr's caller to pick back up when this is greater than zero.
	deferDepth int

	outW io.Writer
	errW io.Writer
	inR  io.Reader

	interrupted *bool
}

// NewEvaluator creates an evaluator with a fresh top-level binding context.
func NewEvaluator() *Evaluator {
	top := bind.New(nil)
	top.Name = "(top level)"
	e := &Evaluator{
		Arena:     chunkstack.New(chunkstack.DefaultChunkCells),
		Data:      chunkstack.NewDataStack(64),
		bindings:  []core.Binding{top},
		callStack: []string{"(top level)"},
		actions:   make(map[value.Kind]map[string]*value.Function),
	}
	return e
}

// CurrentBinding returns the binding context words are resolved against.
func (e *Evaluator) CurrentBinding() core.Binding {
	return e.bindings[len(e.bindings)-1]
}

// PushBinding makes b the current binding context and returns the
// previous one, so the caller can restore it with PopBinding.
func (e *Evaluator) PushBinding(b core.Binding) core.Binding {
	prev := e.CurrentBinding()
	e.bindings = append(e.bindings, b)
	return prev
}

// PopBinding restores the binding context active before the last
// PushBinding.
func (e *Evaluator) PopBinding() {
	if len(e.bindings) > 1 {
		e.bindings = e.bindings[:len(e.bindings)-1]
	}
}

func (e *Evaluator) pushFrame(f core.Frame) { e.frames = append(e.frames, f) }
func (e *Evaluator) popFrame() {
	if len(e.frames) > 0 {
		e.frames = e.frames[:len(e.frames)-1]
	}
}
func (e *Evaluator) currentFrame() core.Frame {
	if len(e.frames) == 0 {
		return nil
	}
	return e.frames[len(e.frames)-1]
}

// Callstack returns the active call names, most-recent-first (spec.md
// §4.10's "where" context).
func (e *Evaluator) Callstack() []string {
	out := make([]string, len(e.callStack))
	for i, c := range e.callStack {
		out[len(out)-1-i] = c
	}
	return out
}

func (e *Evaluator) pushCall(name string) {
	if name == "" {
		name = "(anonymous)"
	}
	e.callStack = append(e.callStack, name)
}

func (e *Evaluator) popCall() {
	if len(e.callStack) > 1 {
		e.callStack = e.callStack[:len(e.callStack)-1]
	}
}

// SetInterruptFlag wires a cooperative interrupt flag (set by a SIGINT
// handler at the REPL layer) that Signal polls between expressions.
func (e *Evaluator) SetInterruptFlag(flag *bool) { e.interrupted = flag }

// Signal reports a pending cooperative interrupt (spec.md §4.9's
// evaluator-level interrupt mechanism, reusing the Throw machinery: a
// caller sees this as an ordinary error and can treat it as an uncatchable
// throw).
func (e *Evaluator) Signal() error {
	if e.interrupted != nil && *e.interrupted {
		*e.interrupted = false
		diagnostics.Recoverable("signal", "cooperative interrupt delivered")
		return verror.NewInternalError("interrupted", [3]string{})
	}
	return nil
}

func (e *Evaluator) SetOutputWriter(w io.Writer) { e.outW = w }
func (e *Evaluator) GetOutputWriter() io.Writer  { return e.outW }
func (e *Evaluator) SetErrorWriter(w io.Writer)  { e.errW = w }
func (e *Evaluator) GetErrorWriter() io.Writer   { return e.errW }
func (e *Evaluator) SetInputReader(r io.Reader)  { e.inR = r }
func (e *Evaluator) GetInputReader() io.Reader   { return e.inR }

// RegisterAction adds a type-specific implementation for a named Action
// (spec.md §4.7's polymorphic dispatch), keyed by the kind of its first
// argument — the teacher's equivalent is frame.InitTypeFrames plus
// per-type frame.Get(action.Name); this package keeps the same "dispatch
// by the first argument's kind" rule but as a flat map instead of a
// dedicated Frame type per kind.
func (e *Evaluator) RegisterAction(kind value.Kind, name string, impl *value.Function) {
	m, ok := e.actions[kind]
	if !ok {
		m = make(map[string]*value.Function)
		e.actions[kind] = m
	}
	m[name] = impl
}

// annotateError fills in Near/Where context the first time a *verror.Error
// crosses a DoBlock/DoNext boundary (spec.md §4.10) — grounded on the
// teacher's annotateError, generalized to also read an ArrayFeed's
// position for Near rather than a borrowed index.
func (e *Evaluator) annotateError(err error, elements []core.Value, idx int) error {
	if err == nil {
		return nil
	}
	verr, ok := err.(*verror.Error)
	if !ok {
		return err
	}
	if idx >= 0 && idx <= len(elements) && verr.Near == "" {
		verr.SetNear(verror.CaptureNear(elements, idx))
	}
	if len(verr.Where) == 0 {
		if where := e.Callstack(); len(where) > 0 {
			verr.SetWhere(where)
		}
	}
	return verr
}

// DoNext evaluates a single, already-isolated value (spec.md §4.5): it
// never consumes more input, so a word bound to a function resolves to
// that function value rather than calling it — calling only happens from
// DoBlock's feed loop, which has more input to pull arguments from.
// Grounded on the teacher's Do_Next/evalDispatch table and its explicit
// "functions are invoked from the block loop, not here" rule.
func (e *Evaluator) DoNext(val core.Value) (core.Value, error) {
	if val == nil {
		return value.NoneVal(), nil
	}
	switch val.GetType() {
	case value.SetWord:
		name, _ := value.AsWord(val)
		return value.NoneVal(), verror.NewScriptError(verror.ErrIDNeedValue, [3]string{name, "", ""})
	case value.SetPath:
		return value.NoneVal(), verror.NewScriptError(verror.ErrIDNeedValue, [3]string{val.String(), "", ""})
	case value.GetWord:
		name, _ := value.AsWord(val)
		v, ok := bind.Resolve(e.CurrentBinding(), name)
		if !ok {
			return value.NoneVal(), verror.NewScriptError(verror.ErrIDNoValue, [3]string{name, "", ""})
		}
		return v, nil
	case value.Word:
		name, _ := value.AsWord(val)
		v, ok := bind.Resolve(e.CurrentBinding(), name)
		if !ok {
			return value.NoneVal(), verror.NewScriptError(verror.ErrIDNoValue, [3]string{name, "", ""})
		}
		return v, nil
	case value.LitWord:
		sym, _ := val.GetPayload().(string)
		return value.WordVal(sym), nil
	case value.LitPath:
		return val.WithFlags(val.GetFlags().Clear(core.FlagUnevaluated)), nil
	case value.Group:
		blk, ok := value.AsBlock(val)
		if !ok {
			return value.NoneVal(), verror.NewInternalError("group value does not contain BlockValue", [3]string{})
		}
		return e.DoBlock(blk.Elements)
	case value.Path, value.GetPath:
		return e.evalPathRead(val)
	default:
		// Inert kinds pass through unchanged but marked unevaluated
		// (spec.md §4.5), so a later re-evaluation of the same cell is a
		// no-op rather than re-running side effects.
		return val.WithFlags(val.GetFlags().Set(core.FlagUnevaluated)), nil
	}
}

// DoBlock evaluates a sequence of values left to right (spec.md §4.5),
// handling set-word/set-path assignment and the enfix lookahead scheduler
// (spec.md §4.8) between expressions. Returns the last expression's
// result, or void for an empty block.
//
// Grounded on the teacher's Do_Blk, generalized from a borrowed
// []core.Value + *int cursor onto a shared internal/feed.Feed, so the same
// loop works whether the underlying source is an array or a variadic pull.
func (e *Evaluator) DoBlock(vals []core.Value) (core.Value, error) {
	if len(vals) == 0 {
		return value.NoneVal(), nil
	}
	f := feed.NewArrayFeed(vals, e.CurrentBinding())
	saved := e.deferDepth
	e.deferDepth = 0
	defer func() { e.deferDepth = saved }()
	return e.runFeed(f)
}

func (e *Evaluator) runFeed(f feed.Feed) (core.Value, error) {
	last := value.NoneVal()
	for !f.AtEnd() {
		if err := e.Signal(); err != nil {
			return value.NoneVal(), err
		}
		startIdx := feedPos(f)
		cur := f.Current()

		var result core.Value
		var err error
		switch cur.GetType() {
		case value.SetWord:
			result, err = e.stepSetWord(f)
		case value.SetPath:
			result, err = e.stepSetPath(f)
		default:
			result, err = e.evalExpr(f)
		}
		if err != nil {
			return value.NoneVal(), e.annotateErrorFeed(err, f, startIdx)
		}
		last = result
	}
	return last, nil
}

// stepSetWord implements `word: expr` (spec.md §4.5): the word is bound
// local-by-default in the current binding context to the evaluated
// right-hand expression.
func (e *Evaluator) stepSetWord(f feed.Feed) (core.Value, error) {
	name, _ := value.AsWord(f.Current())
	f.Advance()
	if f.AtEnd() {
		return value.NoneVal(), verror.NewScriptError(verror.ErrIDNeedValue, [3]string{name, "", ""})
	}
	val, err := e.evalExpr(f)
	if err != nil {
		return value.NoneVal(), err
	}
	if fn, ok := value.AsFunction(val); ok && fn.Name == "" {
		fn.Name = name
	}
	ctx, ok := e.CurrentBinding().(interface {
		Bind(name string, v core.Value)
	})
	if !ok {
		return value.NoneVal(), verror.NewInternalError("current binding does not support Bind", [3]string{})
	}
	ctx.Bind(name, val)
	return val, nil
}

// stepSetPath implements `base/.../field: expr` (spec.md §4.4, §4.5).
func (e *Evaluator) stepSetPath(f feed.Feed) (core.Value, error) {
	pathVal := f.Current()
	path, ok := value.AsPath(pathVal)
	if !ok {
		return value.NoneVal(), verror.NewInternalError("set-path value does not contain PathExpression", [3]string{})
	}
	f.Advance()
	if f.AtEnd() {
		return value.NoneVal(), verror.NewScriptError(verror.ErrIDNeedValue, [3]string{pathVal.String(), "", ""})
	}
	val, err := e.evalExpr(f)
	if err != nil {
		return value.NoneVal(), err
	}
	tr, rc, err := e.walkPath(path, true)
	if err != nil {
		return value.NoneVal(), err
	}
	if rc != nil {
		return value.NoneVal(), verror.NewScriptError(verror.ErrIDInvalidPath, [3]string{pathVal.String(), "not assignable", ""})
	}
	return assignPath(tr, val)
}

// evalExpr evaluates one full expression starting at the feed's current
// position: a single value (literal, word lookup, or function call that
// consumes its own arguments from the same feed) followed by any chain of
// enfix operators applying to the running result (spec.md §4.8).
func (e *Evaluator) evalExpr(f feed.Feed) (core.Value, error) {
	val, err := e.evalOne(f)
	if err != nil {
		return nil, err
	}
	for !f.AtEnd() {
		cur := f.Current()
		if cur.GetType() != value.Word {
			break
		}
		name, _ := value.AsWord(cur)
		resolved, found, enfixed := bind.ResolveLookback(e.CurrentBinding(), name)
		if !found || !enfixed {
			break
		}
		if e.deferDepth > 0 && resolved.GetFlags().Has(core.FlagDefersLookback) {
			break
		}
		e.instrumentCall(name)
		switch resolved.GetType() {
		case value.Function:
			fn, _ := value.AsFunction(resolved)
			f.Advance()
			val, err = e.applyFunction(fn, f, nil, val)
		case value.Action:
			act, _ := value.AsAction(resolved)
			f.Advance()
			val, err = e.applyAction(act, f, val)
		default:
			return val, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return val, nil
}

// evalOne evaluates the single value at the feed's current position,
// calling a prefix function/action if the position is a word or path that
// resolves to one (spec.md §4.5/§4.6). It never absorbs a trailing enfix
// chain — that is evalExpr's job — matching a "tight" parameter's
// behavior (spec.md §3's ParamClass) for exactly one value.
func (e *Evaluator) evalOne(f feed.Feed) (core.Value, error) {
	cur := f.Current()
	switch cur.GetType() {
	case value.SetWord, value.SetPath:
		return nil, verror.NewScriptError(verror.ErrIDNeedValue, [3]string{cur.String(), "", ""})

	case value.Word:
		name, _ := value.AsWord(cur)
		resolved, found := bind.Resolve(e.CurrentBinding(), name)
		if !found {
			return nil, verror.NewScriptError(verror.ErrIDNoValue, [3]string{name, "", ""})
		}
		f.Advance()
		switch resolved.GetType() {
		case value.Function:
			fn, _ := value.AsFunction(resolved)
			e.instrumentCall(name)
			return e.applyFunction(fn, f, nil, nil)
		case value.Action:
			act, _ := value.AsAction(resolved)
			e.instrumentCall(name)
			return e.applyAction(act, f, nil)
		default:
			return resolved, nil
		}

	case value.GetWord:
		name, _ := value.AsWord(cur)
		resolved, found := bind.Resolve(e.CurrentBinding(), name)
		if !found {
			return nil, verror.NewScriptError(verror.ErrIDNoValue, [3]string{name, "", ""})
		}
		f.Advance()
		return resolved, nil

	case value.LitWord:
		sym, _ := cur.GetPayload().(string)
		f.Advance()
		return value.WordVal(sym), nil

	case value.LitPath:
		f.Advance()
		return cur.WithFlags(cur.GetFlags().Clear(core.FlagUnevaluated)), nil

	case value.GetPath:
		path, _ := value.AsPath(cur)
		f.Advance()
		tr, rc, err := e.walkPath(path, false)
		if err != nil {
			return nil, err
		}
		if rc != nil {
			return rc.Callee, nil
		}
		return tr.Values[len(tr.Values)-1], nil

	case value.Path:
		path, _ := value.AsPath(cur)
		f.Advance()
		tr, rc, err := e.walkPath(path, false)
		if err != nil {
			return nil, err
		}
		if rc != nil {
			e.instrumentCall(path.String())
			switch rc.Callee.GetType() {
			case value.Function:
				fn, _ := value.AsFunction(rc.Callee)
				return e.applyFunction(fn, f, rc.Refinements, nil)
			case value.Action:
				act, _ := value.AsAction(rc.Callee)
				return e.applyAction(act, f, nil)
			default:
				return nil, verror.NewInternalError("path refinement call target is not callable", [3]string{})
			}
		}
		return tr.Values[len(tr.Values)-1], nil

	case value.Group:
		blk, ok := value.AsBlock(cur)
		if !ok {
			return nil, verror.NewInternalError("group value does not contain BlockValue", [3]string{})
		}
		f.Advance()
		return e.DoBlock(blk.Elements)

	default:
		f.Advance()
		// Inert kinds copy into the result and are marked unevaluated
		// (spec.md §4.5): evaluating one again yields an equal value.
		return cur.WithFlags(cur.GetFlags().Set(core.FlagUnevaluated)), nil
	}
}

// feedPos reports an ArrayFeed's current index for Near-context capture,
// or -1 for a feed kind that doesn't track one (a variadic source, which
// has no fixed array to index into).
func feedPos(f feed.Feed) int {
	if af, ok := f.(*feed.ArrayFeed); ok {
		return af.Pos()
	}
	return -1
}

func (e *Evaluator) annotateErrorFeed(err error, f feed.Feed, idx int) error {
	af, ok := f.(*feed.ArrayFeed)
	if !ok || idx < 0 {
		return e.annotateError(err, nil, -1)
	}
	return e.annotateError(err, af.Elements(), idx)
}

var _ core.Evaluator = (*Evaluator)(nil)
