package verror

import (
	"fmt"
	"strings"

	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/value"
)

// CaptureNear renders the three elements before and after index, with the
// erroring position marked, for an error's Near field (spec.md §4.10).
// A decimal value's scale is included, since scale is lost by String()
// alone and is often exactly what a decimal-math error needs to show.
func CaptureNear(values []core.Value, index int) string {
	if len(values) == 0 {
		return ""
	}
	start := index - 3
	if start < 0 {
		start = 0
	}
	end := index + 4
	if end > len(values) {
		end = len(values)
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteByte(' ')
		}
		marked := i == index
		if marked {
			sb.WriteString(">>>")
		}
		sb.WriteString(renderNear(values[i]))
		if marked {
			sb.WriteString("<<<")
		}
	}
	return sb.String()
}

func renderNear(v core.Value) string {
	if v == nil {
		return "?"
	}
	if d, ok := value.AsDecimal(v); ok {
		return fmt.Sprintf("%s scale:%d", d.String(), d.Scale)
	}
	return v.String()
}

// CaptureWhere turns a call stack collected oldest-call-first (as
// core.Evaluator.Callstack returns it) into most-recent-first order for
// an error's Where field (spec.md §4.10).
func CaptureWhere(calls []string) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[len(calls)-1-i] = c
	}
	return out
}
