package native

import (
	"fmt"

	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

// displayString renders a value the way print shows it: a string!
// unwraps to its raw text, everything else uses its normal form.
func displayString(v core.Value) string {
	if s, ok := value.AsString(v); ok {
		return s.String()
	}
	return v.String()
}

func printNative(args []core.Value, ev any) (core.Value, error) {
	e := ev.(core.Evaluator)
	w := e.GetOutputWriter()
	if w == nil {
		return value.NoneVal(), nil
	}
	fmt.Fprintln(w, displayString(args[0]))
	return value.NoneVal(), nil
}

// probeNative writes a value's molded (source-round-trippable) form and
// returns the value unchanged, the usual debugging idiom.
func probeNative(args []core.Value, ev any) (core.Value, error) {
	e := ev.(core.Evaluator)
	w := e.GetOutputWriter()
	if w != nil {
		fmt.Fprintln(w, args[0].String())
	}
	return args[0], nil
}

func registerIO(reg *registrar) {
	reg.native("print", []value.ParamSpec{{Name: "value", Eval: true}}, printNative)
	reg.native("probe", []value.ParamSpec{{Name: "value", Eval: true}}, probeNative)
}
