package value

import "github.com/zsx/viro-core/internal/core"

// PathSegmentType distinguishes the kinds of selector a path walker
// (internal/pathwalk) can encounter (spec.md §4.4).
type PathSegmentType uint8

const (
	PathSegmentWord PathSegmentType = iota
	PathSegmentIndex
	PathSegmentGroup // a (...) selector, evaluated against the base before lookup
)

// PathSegment is one selector in a path/set-path/get-path/lit-path.
type PathSegment struct {
	Type  PathSegmentType
	Value any // string for Word, int64 for Index, *BlockValue for Group
}

// PathExpression is the Payload for Path/SetPath/GetPath/LitPath kinds.
type PathExpression struct {
	Segments []PathSegment
	Base     core.Value // optional literal base (unused when Segments[0] is a word)
}

func NewPath(segments []PathSegment, base core.Value) *PathExpression {
	return &PathExpression{Segments: segments, Base: base}
}

func PathVal(kind Kind, segments []PathSegment) core.Value {
	return Cell{Kind: kind, Payload: NewPath(segments, NoneVal())}
}

func AsPath(v core.Value) (*PathExpression, bool) {
	if v == nil || !IsPath(v.GetType()) {
		return nil, false
	}
	p, ok := v.GetPayload().(*PathExpression)
	return p, ok
}

func (p *PathExpression) String() string {
	s := ""
	for i, seg := range p.Segments {
		if i > 0 {
			s += "/"
		}
		switch seg.Type {
		case PathSegmentWord:
			s += seg.Value.(string)
		case PathSegmentIndex:
			s += itoa(seg.Value.(int64))
		case PathSegmentGroup:
			s += "(...)"
		}
	}
	return s
}

func itoa(i int64) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
