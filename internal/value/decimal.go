package value

import (
	"github.com/ericlagergren/decimal"
	"github.com/zsx/viro-core/internal/core"
)

// DecimalValue is the Payload for the Decimal kind: decimal128-precision
// floating point, grounded on the teacher's use of
// github.com/ericlagergren/decimal (kept as the arithmetic natives'
// numeric tower per SPEC_FULL.md §10).
type DecimalValue struct {
	Magnitude *decimal.Big
	Context   *decimal.Context
	Scale     int16
}

func NewDecimal(magnitude *decimal.Big, scale int16) *DecimalValue {
	ctx := decimal.Context{
		Precision:    34,
		RoundingMode: decimal.ToNearestEven,
	}
	return &DecimalValue{Magnitude: magnitude, Context: &ctx, Scale: scale}
}

func (d *DecimalValue) String() string {
	if d == nil || d.Magnitude == nil {
		return "0.0"
	}
	return d.Magnitude.String()
}

// DecimalVal wraps a *decimal.Big into a Decimal cell.
func DecimalVal(magnitude *decimal.Big, scale int16) core.Value {
	return Cell{Kind: Decimal, Payload: NewDecimal(magnitude, scale)}
}

func AsDecimal(v core.Value) (*DecimalValue, bool) {
	if v == nil || v.GetType() != Decimal {
		return nil, false
	}
	d, ok := v.GetPayload().(*DecimalValue)
	return d, ok
}
