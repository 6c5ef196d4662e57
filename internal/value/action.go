package value

import (
	"fmt"

	"github.com/zsx/viro-core/internal/core"
)

// ActionValue is the Payload for the Action kind: a polymorphic callable
// that dispatches on its first argument's runtime kind rather than
// carrying a single body (domain extension, grounded on the teacher's
// action.go dynamic-function-invocation feature).
type ActionValue struct {
	Name   string
	Params []Param
}

func NewAction(name string, params []Param) *ActionValue {
	return &ActionValue{Name: name, Params: params}
}

func (a *ActionValue) String() string {
	return fmt.Sprintf("action[%s]", a.Name)
}

func (a *ActionValue) Arity() int {
	count := 0
	for _, p := range a.Params {
		if p.Class != ClassRefinement && !p.Endable {
			count++
		}
	}
	return count
}

func ActionVal(a *ActionValue) core.Value {
	return Cell{Kind: Action, Payload: a}
}

func AsAction(v core.Value) (*ActionValue, bool) {
	if v == nil || v.GetType() != Action {
		return nil, false
	}
	a, ok := v.GetPayload().(*ActionValue)
	return a, ok
}
