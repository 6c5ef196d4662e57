// Package chunkstack implements the evaluator's chunk stack (spec.md §4.2):
// a bump-allocated arena of linked chunks that backs every frame's argument
// slice and scratch cells. Pushes are O(1); drops must happen strictly
// LIFO, matching the lifetime rule that a frame is destroyed before its
// caller is.
//
// Grounded on the teacher's internal/stack package (index-based, no raw
// pointers into growable storage), generalized from a single flat slice
// into linked fixed-size chunks so that a long deep call chain does not
// force one giant contiguous reallocation-and-copy.
package chunkstack

import "github.com/zsx/viro-core/internal/core"

// DefaultChunkCells is the slot count of a freshly allocated chunk.
const DefaultChunkCells = 512

type chunk struct {
	cells []core.Value
	used  int
	prev  *chunk
}

// Handle identifies one allocation returned by Push. It stays valid only
// until the matching Drop — using it afterward is a programming error
// (spec.md §3 lifecycle: "chunk stack frames are released strictly LIFO").
type Handle struct {
	c      *chunk
	offset int
	length int
	seq    uint64
}

func (h Handle) Len() int { return h.length }

// Stack is the process-wide chunk arena (spec.md §5: "the chunk stack
// [is a] process-wide singleton"). The zero value is not usable; use New.
type Stack struct {
	head     *chunk
	free     *chunk // one drained chunk kept allocated as headroom
	seq      uint64
	lastSeq  uint64
	capacity int
}

func New(chunkCells int) *Stack {
	if chunkCells <= 0 {
		chunkCells = DefaultChunkCells
	}
	return &Stack{
		head:     &chunk{cells: make([]core.Value, chunkCells)},
		capacity: chunkCells,
	}
}

// Push bump-allocates n contiguous slots and returns a handle to them. The
// returned slots are initialized to nil; the caller fills them before any
// value is read back (spec.md §3 invariant 2).
func (s *Stack) Push(n int) Handle {
	if n > s.capacity {
		// Oversized request: give it its own dedicated chunk so ordinary
		// chunks stay fixed-size and cheap to recycle.
		c := &chunk{cells: make([]core.Value, n), prev: s.head}
		s.head = c
	} else if s.head.used+n > len(s.head.cells) {
		s.linkNextChunk()
	}
	c := s.head
	h := Handle{c: c, offset: c.used, length: n, seq: s.seq}
	c.used += n
	s.seq++
	s.lastSeq = h.seq
	return h
}

func (s *Stack) linkNextChunk() {
	if s.free != nil && len(s.free.cells) >= s.capacity {
		next := s.free
		s.free = nil
		next.used = 0
		next.prev = s.head
		s.head = next
		return
	}
	s.head = &chunk{cells: make([]core.Value, s.capacity), prev: s.head}
}

// Slice returns the live view of h's slots. Valid only between Push(h) and
// the matching Drop(h).
func (s *Stack) Slice(h Handle) []core.Value {
	return h.c.cells[h.offset : h.offset+h.length]
}

// Drop releases h. h must be the most recently pushed, still-live handle;
// violating LIFO order panics rather than silently corrupting the arena.
func (s *Stack) Drop(h Handle) {
	if s.seq == 0 || h.seq != s.seq-1 {
		panic("chunkstack: Drop called out of LIFO order")
	}
	c := h.c
	c.used -= h.length
	for i := h.offset; i < h.offset+h.length; i++ {
		c.cells[i] = nil // let the arena's own references to dead cells be collectible
	}
	s.seq--
	if c.used == 0 && c.prev != nil {
		s.head = c.prev
		if s.free == nil {
			c.prev = nil
			s.free = c
		}
	}
}

// Promote copies h's slots out to independent heap storage, for the case
// where a frame's argument slice has been adopted by a binding context
// that outlives the frame (spec.md §4.2, §3 lifecycle rule). The returned
// slice is safe to keep after Drop(h).
func (s *Stack) Promote(h Handle) []core.Value {
	out := make([]core.Value, h.length)
	copy(out, s.Slice(h))
	return out
}

// Depth reports how many handles are currently live, for diagnostics and
// tests; it is not needed by the evaluator itself.
func (s *Stack) Depth() uint64 { return s.seq }
