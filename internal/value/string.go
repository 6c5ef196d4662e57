package value

import "strings"

// StringValue is the Payload for the String kind: a mutable rune series,
// matching spec.md's "series reference + index" payload shape. It is
// shared by reference when a Cell carrying it is copied, per spec.md §3
// ("a cell in an array is owned by the array" — the array here is the
// rune slice itself).
type StringValue struct {
	Runes []rune
}

// NewStringValue builds a StringValue from a Go string.
func NewStringValue(s string) *StringValue {
	return &StringValue{Runes: []rune(s)}
}

func (s *StringValue) String() string {
	if s == nil {
		return ""
	}
	return string(s.Runes)
}

func (s *StringValue) Len() int { return len(s.Runes) }

// Mold renders the string with REBOL-style quoting for use inside a
// molded block/group.
func (s *StringValue) Mold() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s.Runes {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
