package value

import (
	"fmt"

	"github.com/zsx/viro-core/internal/core"
)

// FunctionType distinguishes a Go-implemented dispatcher from a
// user-defined (block-bodied) one — kept from the teacher because the
// argument fulfiller and executeFunction need to know which Dispatcher
// calling convention applies.
type FunctionType uint8

const (
	FuncNative FunctionType = iota
	FuncUser
)

// ParamClass is the parameter class from spec.md §3/§4.6, governing how
// the argument fulfiller consumes a value for this parameter.
type ParamClass uint8

const (
	ClassNormal ParamClass = iota
	ClassTight
	ClassHardQuote
	ClassSoftQuote
	ClassRefinement
	ClassLocal
	ClassReturn
	ClassLeave
)

// Param is spec.md's "typeset / parameter": parameter class, accepted
// kinds, spelling, and endable/variadic flags.
type Param struct {
	Name       string
	Class      ParamClass
	Types      []Kind // empty/nil = any type accepted
	Endable    bool
	Variadic   bool
	TakesValue bool // refinements only: value-taking vs boolean flag
}

func (p Param) Accepts(k Kind) bool {
	if len(p.Types) == 0 {
		return true
	}
	for _, t := range p.Types {
		if t == k {
			return true
		}
	}
	return false
}

// legacy alias: the teacher's natives construct ParamSpec{Name, Type,
// Optional, Refinement, TakesValue, Eval} literals directly. ParamSpec
// is kept as a distinct, smaller legacy shape and converted to a Param
// (via toParam) wherever the new fulfiller needs one, so those call
// sites keep compiling.
type ParamSpec struct {
	Name       string
	Type       Kind
	Optional   bool
	Refinement bool
	TakesValue bool
	Eval       bool
}

func (p ParamSpec) toParam() Param {
	class := ClassNormal
	switch {
	case p.Refinement:
		class = ClassRefinement
	case !p.Eval:
		class = ClassHardQuote
	}
	types := []Kind(nil)
	if p.Type != Void {
		types = []Kind{p.Type}
	}
	return Param{
		Name:       p.Name,
		Class:      class,
		Types:      types,
		Endable:    p.Optional,
		TakesValue: p.TakesValue,
	}
}

// Function is spec.md's immutable function descriptor: paramlist, facade,
// optional exemplar (specialization prefill), dispatcher, and binding.
type Function struct {
	Type   FunctionType
	Name   string
	Params []Param // paramlist
	Facade []Param // type-erased view used during fulfillment

	// Exemplar prefills some parameters (specialization, spec.md §3).
	// Keyed by parameter name; a present-but-absent-from-map parameter is
	// unspecialized.
	Exemplar map[string]core.Value

	Body    *BlockValue     // user-defined body (nil for natives)
	Native  core.NativeFunc // native dispatcher (nil for user functions)
	Binding core.Binding    // closure binding (nil at top level)

	Infix bool // convenience: function is registered with an enfix binding by default

	// DefersLookback marks a one-shot "dampen-defer" enfix function
	// (spec.md §4.8): when a nested argument fulfillment's own lookahead
	// would otherwise pick this word up mid-expression, it instead bubbles
	// back up so it binds to the complete top-level expression (e.g. ELSE
	// binding to the whole preceding IF, not to one of IF's own arguments).
	DefersLookback bool
}

func NewNativeFunction(name string, params []ParamSpec, impl func([]core.Value, any) (core.Value, error)) *Function {
	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = p.toParam()
	}
	return &Function{
		Type:   FuncNative,
		Name:   name,
		Params: ps,
		Facade: ps,
		Native: func(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
			return impl(args, ev)
		},
	}
}

func NewUserFunction(name string, params []ParamSpec, body *BlockValue, binding core.Binding) *Function {
	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = p.toParam()
	}
	return &Function{Type: FuncUser, Name: name, Params: ps, Facade: ps, Body: body, Binding: binding}
}

func (f *Function) String() string {
	if f.Type == FuncNative {
		return fmt.Sprintf("native[%s]", displayName(f.Name))
	}
	return fmt.Sprintf("function[%s]", displayName(f.Name))
}

func displayName(n string) string {
	if n == "" {
		return "(anonymous)"
	}
	return n
}

// Arity returns the number of required (non-refinement, non-endable)
// positional parameters.
func (f *Function) Arity() int {
	count := 0
	for _, p := range f.Params {
		if p.Class != ClassRefinement && p.Class != ClassLocal && !p.Endable {
			count++
		}
	}
	return count
}

func (f *Function) HasRefinement(name string) bool {
	return f.GetRefinement(name) != nil
}

func (f *Function) GetRefinement(name string) *Param {
	for i := range f.Params {
		if f.Params[i].Class == ClassRefinement && f.Params[i].Name == name {
			return &f.Params[i]
		}
	}
	return nil
}

// Specialize returns a new Function derived from f with the given
// arguments pre-supplied (spec.md §3 "exemplar"). The facade is
// unchanged — a specialized parameter is still visible to the fulfiller,
// which special-cases it (spec.md §4.6 step 4).
func (f *Function) Specialize(prefill map[string]core.Value) *Function {
	exemplar := make(map[string]core.Value, len(f.Exemplar)+len(prefill))
	for k, v := range f.Exemplar {
		exemplar[k] = v
	}
	for k, v := range prefill {
		exemplar[k] = v
	}
	spec := *f
	spec.Exemplar = exemplar
	return &spec
}
