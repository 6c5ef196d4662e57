package chunkstack

import "github.com/zsx/viro-core/internal/core"

// DataStack is the flat value stack used for chaining set-words/set-paths
// and for pushed refinements during path-driven function lookup (spec.md
// §4.4, §4.6). It is deliberately simpler than the chunk arena: a single
// growable slice addressed by pointer-to-origin, since its contents never
// outlive one nested evaluation.
//
// Grounded on the teacher's original internal/stack.Stack (index-based
// push/pop over a growable slice); kept as its own type here because the
// chunk arena above has taken over frame/argument storage.
type DataStack struct {
	data []core.Value
}

func NewDataStack(initialCapacity int) *DataStack {
	return &DataStack{data: make([]core.Value, 0, initialCapacity)}
}

// Mark returns the current top, to be passed to Rewind once a nested
// evaluation using this mark completes (spec.md §3 invariant 3: "between
// expressions, the data stack returns exactly to its entry pointer").
func (s *DataStack) Mark() int { return len(s.data) }

func (s *DataStack) Push(v core.Value) { s.data = append(s.data, v) }

func (s *DataStack) Pop() core.Value {
	n := len(s.data)
	if n == 0 {
		panic("chunkstack: data stack underflow")
	}
	v := s.data[n-1]
	s.data = s.data[:n-1]
	return v
}

func (s *DataStack) Peek() core.Value {
	n := len(s.data)
	if n == 0 {
		panic("chunkstack: data stack underflow")
	}
	return s.data[n-1]
}

// Rewind drops every value pushed since mark.
func (s *DataStack) Rewind(mark int) { s.data = s.data[:mark] }

// Slice returns the values pushed since mark, oldest first.
func (s *DataStack) Slice(mark int) []core.Value { return s.data[mark:] }

func (s *DataStack) Len() int { return len(s.data) }
