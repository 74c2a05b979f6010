package arena_test

import (
	"testing"

	"sil/internal/arena"
)

type node struct {
	id    int
	dirty bool
}

func TestPoolStableAddresses(t *testing.T) {
	p := arena.NewPool[node](func(n *node) { *n = node{} })

	first, idx := p.Alloc()
	if idx != 0 {
		t.Fatalf("expected first index 0, got %d", idx)
	}
	first.id = 42

	for i := 0; i < arena.PageSize*3; i++ {
		n, _ := p.Alloc()
		n.id = i
	}

	if p.At(0) != first {
		t.Fatalf("node moved after pool growth")
	}
	if first.id != 42 {
		t.Fatalf("node content changed: %d", first.id)
	}
	if got := p.Pages(); got != 4 {
		t.Errorf("expected 4 pages, got %d", got)
	}
	if p.At(uint32(p.Allocated())) != nil {
		t.Errorf("expected nil past the end")
	}
}

func TestPoolResetHook(t *testing.T) {
	calls := 0
	p := arena.NewPool[node](func(n *node) {
		calls++
		n.dirty = true
	})
	n, _ := p.Alloc()
	if !n.dirty || calls != 1 {
		t.Fatalf("reset hook not applied: dirty=%v calls=%d", n.dirty, calls)
	}
}

func TestSlabCopyPreservesOrder(t *testing.T) {
	s := arena.NewSlab[int](4)
	run := s.Copy([]int{1, 2, 3})
	if len(run) != 3 || cap(run) != 3 {
		t.Fatalf("expected len=cap=3, got len=%d cap=%d", len(run), cap(run))
	}
	for i, want := range []int{1, 2, 3} {
		if run[i] != want {
			t.Errorf("run[%d] = %d, want %d", i, run[i], want)
		}
	}
}

func TestSlabRunsAreStableAcrossGrowth(t *testing.T) {
	s := arena.NewSlab[int](4)
	a := s.Copy([]int{7, 8, 9})
	addr := &a[0]

	for i := 0; i < 100; i++ {
		s.Copy([]int{i, i, i})
	}
	big := s.Alloc(50)
	if len(big) != 50 {
		t.Fatalf("oversized request: got %d elements", len(big))
	}

	if &a[0] != addr || a[0] != 7 || a[2] != 9 {
		t.Fatalf("run moved or was overwritten: %v", a)
	}
	if s.Chunks() < 2 {
		t.Errorf("expected several chunks, got %d", s.Chunks())
	}
}

func TestSlabAppendDoesNotClobberNeighbour(t *testing.T) {
	s := arena.NewSlab[int](16)
	a := s.Copy([]int{1, 2})
	b := s.Copy([]int{3, 4})
	a = append(a, 99)
	if b[0] != 3 {
		t.Fatalf("append overwrote neighbouring run: %v", b)
	}
	if len(a) != 3 {
		t.Fatalf("unexpected len %d", len(a))
	}
}

func TestSlabZeroLength(t *testing.T) {
	s := arena.NewSlab[int](0)
	if run := s.Alloc(0); run != nil {
		t.Fatalf("expected nil run, got %v", run)
	}
	if s.Allocated() != 0 || s.Chunks() != 0 {
		t.Fatalf("zero-length request must not allocate")
	}
}
