package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one kind; index 0 is reserved for "no node".
type Arena[T any] struct {
	data []T
}

// NewArena creates an arena with the given capacity hint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate stores value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("ast: arena overflow: %w", err))
	}
	return n
}

// Get returns the node at index, or nil for 0 and out-of-range indices.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Len reports the number of stored nodes.
func (a *Arena[T]) Len() int {
	return len(a.data)
}
