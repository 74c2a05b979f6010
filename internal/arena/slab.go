package arena

import (
	"fmt"

	"fortio.org/safecast"
)

// DefaultChunk is the chunk length used when a Slab is created with zero.
const DefaultChunk = 256

// Slab allocates variable-length runs of T from append-only chunks.
//
// A run never straddles two chunks; a request larger than the chunk size gets
// a dedicated chunk. Runs are returned with cap == len, so appending to one
// reallocates instead of overwriting its neighbour.
type Slab[T any] struct {
	chunk     []T
	chunkSize int
	chunks    int
	allocated int
}

// NewSlab creates a slab with the given chunk length.
func NewSlab[T any](chunkSize int) *Slab[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunk
	}
	return &Slab[T]{chunkSize: chunkSize}
}

// Alloc returns a zeroed run of n elements.
func (s *Slab[T]) Alloc(n int) []T {
	if n < 0 {
		panic(fmt.Errorf("arena: negative slab request %d", n))
	}
	if n == 0 {
		return nil
	}
	if _, err := safecast.Conv[uint32](s.allocated + n); err != nil {
		panic(fmt.Errorf("arena: slab overflow: %w", err))
	}
	if cap(s.chunk)-len(s.chunk) < n {
		s.chunk = make([]T, 0, max(s.chunkSize, n))
		s.chunks++
	}
	start := len(s.chunk)
	s.chunk = s.chunk[:start+n]
	s.allocated += n
	return s.chunk[start : start+n : start+n]
}

// Copy allocates len(src) elements and copies src into them in order.
func (s *Slab[T]) Copy(src []T) []T {
	dst := s.Alloc(len(src))
	copy(dst, src)
	return dst
}

// Allocated reports the total number of elements handed out.
func (s *Slab[T]) Allocated() int { return s.allocated }

// Chunks reports how many chunks were created.
func (s *Slab[T]) Chunks() int { return s.chunks }

// Release forgets the current chunk. Runs handed out earlier stay valid for as
// long as their holders reference them.
func (s *Slab[T]) Release() {
	s.chunk = nil
	s.chunks = 0
	s.allocated = 0
}
