package native

import (
	"math"

	"github.com/ericlagergren/decimal"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

// promoteDecimal lifts an integer! argument to a *decimal.Big at scale 0;
// a decimal! argument is returned as its own Magnitude. Grounded on the
// teacher's math.go type-promotion rule: integer + decimal promotes the
// whole operation to decimal arithmetic.
func promoteDecimal(v core.Value) *decimal.Big {
	if d, ok := value.AsDecimal(v); ok {
		return d.Magnitude
	}
	if i, ok := value.AsInteger(v); ok {
		return decimal.New(i, 0)
	}
	return nil
}

func decimalMathOp(op string, a, b core.Value, apply func(ctx decimal.Context, z, x, y *decimal.Big) *decimal.Big) (core.Value, error) {
	x := promoteDecimal(a)
	y := promoteDecimal(b)
	if x == nil {
		return nil, mathTypeError(op, a)
	}
	if y == nil {
		return nil, mathTypeError(op, b)
	}
	z := new(decimal.Big)
	apply(decimal.Context128, z, x, y)
	if z.IsInf(0) {
		return nil, overflowError(op)
	}
	return value.DecimalVal(z, 2), nil
}

func addIntegers(a, b int64) (int64, error) {
	if a > 0 && b > 0 && a > math.MaxInt64-b {
		return 0, overflowError("+")
	}
	if a < 0 && b < 0 && a < math.MinInt64-b {
		return 0, underflowError("+")
	}
	return a + b, nil
}

func subIntegers(a, b int64) (int64, error) {
	if a > 0 && b < 0 && a > math.MaxInt64+b {
		return 0, overflowError("-")
	}
	if a < 0 && b > 0 && a < math.MinInt64+b {
		return 0, underflowError("-")
	}
	return a - b, nil
}

func mulIntegers(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a {
		return 0, overflowError("*")
	}
	return r, nil
}

func anyDecimal(a, b core.Value) bool {
	return a.GetType() == value.Decimal || b.GetType() == value.Decimal
}

func addAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	a, b := args[0], args[1]
	if anyDecimal(a, b) {
		return decimalMathOp("+", a, b, func(ctx decimal.Context, z, x, y *decimal.Big) *decimal.Big { return ctx.Add(z, x, y) })
	}
	x, ok := value.AsInteger(a)
	if !ok {
		return nil, mathTypeError("+", a)
	}
	y, ok := value.AsInteger(b)
	if !ok {
		return nil, mathTypeError("+", b)
	}
	sum, err := addIntegers(x, y)
	if err != nil {
		return nil, err
	}
	return value.IntVal(sum), nil
}

func subAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	a, b := args[0], args[1]
	if anyDecimal(a, b) {
		return decimalMathOp("-", a, b, func(ctx decimal.Context, z, x, y *decimal.Big) *decimal.Big { return ctx.Sub(z, x, y) })
	}
	x, ok := value.AsInteger(a)
	if !ok {
		return nil, mathTypeError("-", a)
	}
	y, ok := value.AsInteger(b)
	if !ok {
		return nil, mathTypeError("-", b)
	}
	diff, err := subIntegers(x, y)
	if err != nil {
		return nil, err
	}
	return value.IntVal(diff), nil
}

func mulAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	a, b := args[0], args[1]
	if anyDecimal(a, b) {
		return decimalMathOp("*", a, b, func(ctx decimal.Context, z, x, y *decimal.Big) *decimal.Big { return ctx.Mul(z, x, y) })
	}
	x, ok := value.AsInteger(a)
	if !ok {
		return nil, mathTypeError("*", a)
	}
	y, ok := value.AsInteger(b)
	if !ok {
		return nil, mathTypeError("*", b)
	}
	prod, err := mulIntegers(x, y)
	if err != nil {
		return nil, err
	}
	return value.IntVal(prod), nil
}

// divAction returns an integer when two integers divide exactly and
// otherwise promotes to decimal arithmetic rather than truncating,
// matching Ren-C's integer-division-is-exact-or-decimal convention.
func divAction(args []core.Value, refs map[string]core.Value, ev core.Evaluator) (core.Value, error) {
	a, b := args[0], args[1]
	y := promoteDecimal(b)
	if y != nil && y.Sign() == 0 {
		return nil, overflowError("/")
	}
	if !anyDecimal(a, b) {
		x, okx := value.AsInteger(a)
		yi, oky := value.AsInteger(b)
		if okx && oky && yi != 0 && x%yi == 0 {
			return value.IntVal(x / yi), nil
		}
	}
	return decimalMathOp("/", a, b, func(ctx decimal.Context, z, x, y *decimal.Big) *decimal.Big { return ctx.Quo(z, x, y) })
}

func mathParams() []value.Param {
	return []value.Param{{Name: "value1", Class: value.ClassNormal}, {Name: "value2", Class: value.ClassNormal}}
}

func registerMath(reg *registrar) {
	reg.action("+", mathParams(), value.Integer, addAction, true)
	reg.action("+", mathParams(), value.Decimal, addAction, true)
	reg.action("-", mathParams(), value.Integer, subAction, true)
	reg.action("-", mathParams(), value.Decimal, subAction, true)
	reg.action("*", mathParams(), value.Integer, mulAction, true)
	reg.action("*", mathParams(), value.Decimal, mulAction, true)
	reg.action("/", mathParams(), value.Integer, divAction, true)
	reg.action("/", mathParams(), value.Decimal, divAction, true)
}
