// Package arena provides append-only allocators whose allocations are never
// moved once handed out.
//
// Pool hands out single nodes (instructions, blocks) at stable addresses and
// keeps a dense index for ID-based lookup. Slab carves variable-length records
// (operand lists, type lists, substitutions) out of shared chunks.
// Neither allocator frees individual records; storage is reclaimed in bulk
// by Release.
package arena

import (
	"fmt"

	"fortio.org/safecast"
)

// PageSize is the number of nodes held by a single Pool page.
const PageSize = 128

// Pool allocates T values in fixed-size pages so that a pointer returned by
// Alloc stays valid for the lifetime of the pool.
type Pool[T any] struct {
	pages     []*[PageSize]T
	allocated int
	reset     func(*T)
}

// NewPool creates a pool. reset, when non-nil, is applied to every node
// handed out by Alloc.
func NewPool[T any](reset func(*T)) *Pool[T] {
	return &Pool[T]{reset: reset}
}

// Alloc returns a fresh node and its dense index.
func (p *Pool[T]) Alloc() (*T, uint32) {
	index, err := safecast.Conv[uint32](p.allocated)
	if err != nil {
		panic(fmt.Errorf("arena: pool overflow: %w", err))
	}
	page, offset := p.allocated/PageSize, p.allocated%PageSize
	if page == len(p.pages) {
		p.pages = append(p.pages, new([PageSize]T))
	}
	node := &p.pages[page][offset]
	if p.reset != nil {
		p.reset(node)
	}
	p.allocated++
	return node, index
}

// At returns the node stored at index, or nil when index was never allocated.
func (p *Pool[T]) At(index uint32) *T {
	i := int(index)
	if i >= p.allocated {
		return nil
	}
	return &p.pages[i/PageSize][i%PageSize]
}

// Allocated reports how many nodes were handed out.
func (p *Pool[T]) Allocated() int { return p.allocated }

// Pages reports the number of pages backing the pool.
func (p *Pool[T]) Pages() int { return len(p.pages) }

// Release drops every page. Nodes obtained earlier must not be used afterwards.
func (p *Pool[T]) Release() {
	p.pages = nil
	p.allocated = 0
}
