package native

import (
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
	"github.com/zsx/viro-core/internal/verror"
)

// throwName extracts the catch-matching name from a word!, lit-word!,
// get-word!, or string! argument — the spellings a caller naturally
// reaches for.
func throwName(v core.Value) (string, bool) {
	switch v.GetType() {
	case value.Word, value.LitWord, value.GetWord:
		n, ok := value.AsWord(v)
		return n, ok
	case value.String:
		s, ok := value.AsString(v)
		if !ok {
			return "", false
		}
		return s.String(), true
	default:
		return "", false
	}
}

// throwNative raises a *value.ControlSignal carrying a *value.Throw, per
// spec.md §4.7/§4.9: an ordinary Go error the evaluator's normal error
// propagation unwinds through every intervening DoBlock/evalExpr call
// until a matching catch native intercepts it.
func throwNative(args []core.Value, ev any) (core.Value, error) {
	name, ok := throwName(args[0])
	if !ok {
		return nil, verror.NewScriptError(verror.ErrIDTypeMismatch,
			[3]string{"throw", "word or string", value.TypeToString(args[0].GetType())})
	}
	return nil, value.NewControlSignal(value.DispThrown, &value.Throw{
		Name:    name,
		Payload: args[1],
	})
}

// catchNative runs body and intercepts a thrown signal whose name matches;
// anything else — a normal result, or an error that isn't a matching
// throw — passes through unchanged.
func catchNative(args []core.Value, ev any) (core.Value, error) {
	e := ev.(core.Evaluator)
	name, ok := throwName(args[0])
	if !ok {
		return nil, verror.NewScriptError(verror.ErrIDTypeMismatch,
			[3]string{"catch", "word or string", value.TypeToString(args[0].GetType())})
	}
	result, err := doBlockValue(e, args[1])
	if err == nil {
		return result, nil
	}
	sig, ok := err.(*value.ControlSignal)
	if !ok || sig.Code != value.DispThrown {
		return nil, err
	}
	thrown, ok := sig.Data.(*value.Throw)
	if !ok || thrown.Name != name {
		return nil, err
	}
	return thrown.Payload, nil
}

func registerThrow(reg *registrar) {
	reg.native("throw", []value.ParamSpec{
		{Name: "name", Eval: false},
		{Name: "value", Eval: true},
	}, throwNative)

	reg.native("catch", []value.ParamSpec{
		{Name: "name", Eval: false},
		{Name: "body", Type: value.Block, Eval: true},
	}, catchNative)
}
