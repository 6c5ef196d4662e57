package chunkstack

import (
	"testing"

	"github.com/zsx/viro-core/internal/value"
)

func TestPushWriteReadback(t *testing.T) {
	s := New(8)
	h := s.Push(3)
	slots := s.Slice(h)
	slots[0] = value.IntVal(1)
	slots[1] = value.IntVal(2)
	slots[2] = value.IntVal(3)

	got := s.Slice(h)
	for i, want := range []int64{1, 2, 3} {
		n, ok := value.AsInteger(got[i])
		if !ok || n != want {
			t.Errorf("slot %d = %v, want %d", i, got[i], want)
		}
	}
}

func TestDropMustBeLIFO(t *testing.T) {
	s := New(8)
	a := s.Push(1)
	b := s.Push(1)

	defer func() {
		if recover() == nil {
			t.Fatal("dropping a out of order should panic")
		}
	}()
	s.Drop(a)
	_ = b
}

func TestDropLIFOOrderSucceeds(t *testing.T) {
	s := New(8)
	a := s.Push(1)
	b := s.Push(1)
	s.Drop(b)
	s.Drop(a)
	if s.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0 after dropping all handles", s.Depth())
	}
}

func TestChunkLinkingAcrossCapacity(t *testing.T) {
	s := New(4)
	handles := make([]Handle, 0, 10)
	for i := 0; i < 10; i++ {
		h := s.Push(1)
		s.Slice(h)[0] = value.IntVal(int64(i))
		handles = append(handles, h)
	}
	for i := len(handles) - 1; i >= 0; i-- {
		n, _ := value.AsInteger(s.Slice(handles[i])[0])
		if n != int64(i) {
			t.Errorf("handle %d holds %d, want %d", i, n, i)
		}
		s.Drop(handles[i])
	}
}

func TestPromoteSurvivesDrop(t *testing.T) {
	s := New(8)
	h := s.Push(1)
	s.Slice(h)[0] = value.IntVal(42)
	promoted := s.Promote(h)
	s.Drop(h)
	n, ok := value.AsInteger(promoted[0])
	if !ok || n != 42 {
		t.Errorf("promoted slot = %v, want 42", promoted[0])
	}
}

func TestDataStackRewind(t *testing.T) {
	ds := NewDataStack(4)
	mark := ds.Mark()
	ds.Push(value.IntVal(1))
	ds.Push(value.IntVal(2))
	if ds.Len() != mark+2 {
		t.Fatalf("Len() = %d, want %d", ds.Len(), mark+2)
	}
	ds.Rewind(mark)
	if ds.Len() != mark {
		t.Errorf("Rewind did not return to entry pointer: Len() = %d, want %d", ds.Len(), mark)
	}
}
