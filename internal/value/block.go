package value

import (
	"strings"

	"github.com/zsx/viro-core/internal/core"
)

// BlockValue is the Payload shared by Block and Group cells: a series of
// cells plus the index conventions used by series natives. Elements are
// owned by the block (spec.md §3 cell-lifetime rule).
type BlockValue struct {
	Elements []core.Value
}

func (b *BlockValue) Len() int { return len(b.Elements) }

// Mold renders the block's source form, bracketed per kind: [...] for
// Block, (...) for Group.
func (b *BlockValue) Mold(kind Kind) string {
	open, close := "[", "]"
	if kind == Group {
		open, close = "(", ")"
	}
	var sb strings.Builder
	sb.WriteString(open)
	for i, el := range b.Elements {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(moldElement(el))
	}
	sb.WriteString(close)
	return sb.String()
}

func moldElement(v core.Value) string {
	if v == nil {
		return ""
	}
	if v.GetType() == String {
		if s, ok := AsString(v); ok {
			return s.Mold()
		}
	}
	return v.String()
}
