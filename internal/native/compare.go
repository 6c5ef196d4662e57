package native

import (
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

// compareOrder returns -1, 0, 1 for a<b, a==b, a>b, promoting integer!
// against decimal! the same way the math actions do; ok is false for an
// unorderable pair (mismatched, non-numeric, non-string kinds).
func compareOrder(a, b core.Value) (int, bool) {
	if anyDecimal(a, b) {
		x, y := promoteDecimal(a), promoteDecimal(b)
		if x == nil || y == nil {
			return 0, false
		}
		return x.Cmp(y), true
	}
	if xi, ok := value.AsInteger(a); ok {
		if yi, ok := value.AsInteger(b); ok {
			switch {
			case xi < yi:
				return -1, true
			case xi > yi:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if xs, ok := value.AsString(a); ok {
		if ys, ok := value.AsString(b); ok {
			xstr, ystr := xs.String(), ys.String()
			switch {
			case xstr < ystr:
				return -1, true
			case xstr > ystr:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	return 0, false
}

func equalAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	a, b := args[0], args[1]
	if ord, ok := compareOrder(a, b); ok {
		return value.LogicVal(ord == 0), nil
	}
	return value.LogicVal(a.Equals(b)), nil
}

func notEqualAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	v, err := equalAction(args, refs, ev)
	if err != nil {
		return nil, err
	}
	b, _ := value.AsLogic(v)
	return value.LogicVal(!b), nil
}

func ltAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	ord, ok := compareOrder(args[0], args[1])
	if !ok {
		return nil, mathTypeError("<", args[0])
	}
	return value.LogicVal(ord < 0), nil
}

func gtAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	ord, ok := compareOrder(args[0], args[1])
	if !ok {
		return nil, mathTypeError(">", args[0])
	}
	return value.LogicVal(ord > 0), nil
}

func lteAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	ord, ok := compareOrder(args[0], args[1])
	if !ok {
		return nil, mathTypeError("<=", args[0])
	}
	return value.LogicVal(ord <= 0), nil
}

func gteAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	ord, ok := compareOrder(args[0], args[1])
	if !ok {
		return nil, mathTypeError(">=", args[0])
	}
	return value.LogicVal(ord >= 0), nil
}

func registerCompare(reg *registrar) {
	for _, kind := range []value.Kind{value.Integer, value.Decimal, value.String, value.Logic, value.Word, value.Void, value.Blank} {
		reg.action("=", mathParams(), kind, equalAction, true)
		reg.action("<>", mathParams(), kind, notEqualAction, true)
	}
	for _, kind := range []value.Kind{value.Integer, value.Decimal, value.String} {
		reg.action("<", mathParams(), kind, ltAction, true)
		reg.action(">", mathParams(), kind, gtAction, true)
		reg.action("<=", mathParams(), kind, lteAction, true)
		reg.action(">=", mathParams(), kind, gteAction, true)
	}
}
