// Package chunkarray implements an append-only sequence backed by a
// singly-linked list of fixed-size element chunks. Pushing never moves
// an existing element: once Push returns a pointer, that pointer stays
// valid for the array's whole lifetime, matching the spec's
// non-invalidation invariant (spec.md section 3, section 8 property 2).
package chunkarray

import "github.com/shua5115/lsml/internal/arena"

// DefaultChunkLen is the number of elements held in one chunk.
const DefaultChunkLen = 32

type chunk[V any] struct {
	items [DefaultChunkLen]V
	len   int
	next  *chunk[V]
}

// Array is a chunked, append-only sequence of V.
type Array[V any] struct {
	a      *arena.Arena
	head   *chunk[V]
	tail   *chunk[V]
	length int
}

// New creates an empty array backed by a.
func New[V any](a *arena.Arena) *Array[V] {
	return &Array[V]{a: a}
}

// Len returns the number of pushed elements.
func (arr *Array[V]) Len() int { return arr.length }

// Push appends v to the array, allocating a new tail chunk if the
// current one is full, and returns a stable pointer to the stored copy.
func (arr *Array[V]) Push(v V) (*V, error) {
	if arr.tail == nil || arr.tail.len == DefaultChunkLen {
		c, err := arena.AllocValue[chunk[V]](arr.a)
		if err != nil {
			return nil, err
		}
		if arr.tail == nil {
			arr.head = c
		} else {
			arr.tail.next = c
		}
		arr.tail = c
	}
	idx := arr.tail.len
	arr.tail.items[idx] = v
	arr.tail.len++
	arr.length++
	return &arr.tail.items[idx], nil
}

// Get returns a pointer to the element at 1-D index i, walking
// ⌊i / DefaultChunkLen⌋ chunks.
func (arr *Array[V]) Get(i int) (*V, bool) {
	if i < 0 || i >= arr.length {
		return nil, false
	}
	chunkIdx := i / DefaultChunkLen
	within := i % DefaultChunkLen
	c := arr.head
	for n := 0; n < chunkIdx; n++ {
		c = c.next
	}
	return &c.items[within], true
}

// Iterate calls yield(index, element) for every element in push order,
// stopping early if yield returns false.
func (arr *Array[V]) Iterate(yield func(int, *V) bool) {
	i := 0
	for c := arr.head; c != nil; c = c.next {
		for j := 0; j < c.len; j++ {
			if !yield(i, &c.items[j]) {
				return
			}
			i++
		}
	}
}
