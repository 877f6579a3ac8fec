// Package chunkmap implements an open-hashing map whose bucket storage is
// a singly-linked list of fixed-size bucket chunks. Entries never change
// address once inserted: growth appends new chunks and relocates only
// the entries whose bucket index changes, it never copies or moves an
// entry's storage.
//
// This generalizes the spec's "node with common header" pattern (a
// caller-chosen node type whose first fields are {next, key}) into a Go
// generic Entry[V] parameterized by payload type, per the redesign note
// in spec.md's design notes: there is no polymorphic cast here, just one entry type
// per concrete V.
package chunkmap

import (
	"bytes"

	"github.com/shua5115/lsml/internal/arena"
)

// DefaultChunkLen is the number of buckets held in one chunk.
const DefaultChunkLen = 16

// DefaultLoadFactor is the load factor threshold that triggers a
// doubling rehash. The spec allows 1.0, 2.0 or 0.8; 0.8 is the default.
const DefaultLoadFactor = 0.8

// Entry is one hashmap node. Key is the arena-owned byte slice used for
// both hashing and equality; two entries with byte-identical Key are
// never both present (the intern table is what enforces global
// uniqueness of the bytes themselves).
type Entry[V any] struct {
	next  *Entry[V]
	Key   []byte
	Hash  uint32
	Value V
}

type chunk[V any] struct {
	buckets [DefaultChunkLen]*Entry[V]
}

// Map is a chunked hashmap allocated entirely out of an arena.Arena.
type Map[V any] struct {
	a          *arena.Arena
	loadFactor float64
	chunks     []*chunk[V]
	count      int
}

// New creates an empty map backed by a. loadFactor must be in (0, 2]; a
// value <= 0 selects DefaultLoadFactor.
func New[V any](a *arena.Arena, loadFactor float64) *Map[V] {
	if loadFactor <= 0 {
		loadFactor = DefaultLoadFactor
	}
	return &Map[V]{a: a, loadFactor: loadFactor}
}

// Len returns the number of entries currently stored.
func (m *Map[V]) Len() int { return m.count }

func (m *Map[V]) bucketCount() int { return len(m.chunks) * DefaultChunkLen }

func (m *Map[V]) bucketIndex(hash uint32) int {
	return int(hash) % m.bucketCount()
}

func chunkAndSlot(idx int) (int, int) {
	return idx / DefaultChunkLen, idx % DefaultChunkLen
}

func (m *Map[V]) growInitial() error {
	c, err := arena.AllocValue[chunk[V]](m.a)
	if err != nil {
		return err
	}
	m.chunks = append(m.chunks, c)
	return nil
}

// Get looks up an entry by (hash, key bytes) equality.
func (m *Map[V]) Get(hash uint32, key []byte) (*Entry[V], bool) {
	if len(m.chunks) == 0 {
		return nil, false
	}
	idx := m.bucketIndex(hash)
	ci, slot := chunkAndSlot(idx)
	for e := m.chunks[ci].buckets[slot]; e != nil; e = e.next {
		if e.Hash == hash && bytes.Equal(e.Key, key) {
			return e, true
		}
	}
	return nil, false
}

// GetOrCreate returns the existing entry for (hash, key), or allocates
// and links a new zero-valued entry. created reports which happened.
func (m *Map[V]) GetOrCreate(hash uint32, key []byte) (entry *Entry[V], created bool, err error) {
	if len(m.chunks) == 0 {
		if err := m.growInitial(); err != nil {
			return nil, false, err
		}
	}
	if e, ok := m.Get(hash, key); ok {
		return e, false, nil
	}

	e, err := arena.AllocValue[Entry[V]](m.a)
	if err != nil {
		return nil, false, err
	}
	e.Key = key
	e.Hash = hash

	idx := m.bucketIndex(hash)
	ci, slot := chunkAndSlot(idx)
	appendToChain(&m.chunks[ci].buckets[slot], e)
	m.count++

	// A rehash failure leaves the entry inserted under the old layout,
	// which remains a fully correct (if over-loaded) map.
	_ = m.rehashIfNeeded()
	return e, true, nil
}

func appendToChain[V any](head **Entry[V], e *Entry[V]) {
	if *head == nil {
		*head = e
		return
	}
	n := *head
	for n.next != nil {
		n = n.next
	}
	n.next = e
}

// rehashIfNeeded doubles the bucket chunk count when the load factor is
// exceeded, then relocates only the entries whose bucket index changed.
// Freshly appended chunks are never visited as a relocation source in
// the same pass: the loop bound is fixed to the pre-growth chunk count.
func (m *Map[V]) rehashIfNeeded() error {
	if m.bucketCount() == 0 || float64(m.count) <= m.loadFactor*float64(m.bucketCount()) {
		return nil
	}

	oldChunkCount := len(m.chunks)
	mark := m.a.Cursor()
	grown := make([]*chunk[V], 0, oldChunkCount)
	for i := 0; i < oldChunkCount; i++ {
		c, err := arena.AllocValue[chunk[V]](m.a)
		if err != nil {
			m.a.SetCursor(mark)
			return err
		}
		grown = append(grown, c)
	}
	m.chunks = append(m.chunks, grown...)

	for ci := 0; ci < oldChunkCount; ci++ {
		c := m.chunks[ci]
		for slot := 0; slot < DefaultChunkLen; slot++ {
			var prev *Entry[V]
			e := c.buckets[slot]
			for e != nil {
				next := e.next
				newIdx := m.bucketIndex(e.Hash)
				newCi, newSlot := chunkAndSlot(newIdx)
				if newCi == ci && newSlot == slot {
					prev = e
					e = next
					continue
				}
				if prev == nil {
					c.buckets[slot] = next
				} else {
					prev.next = next
				}
				e.next = nil
				appendToChain(&m.chunks[newCi].buckets[newSlot], e)
				e = next
			}
		}
	}
	return nil
}

// Iterate calls yield for every entry in unspecified bucket-walk order,
// stopping early if yield returns false.
func (m *Map[V]) Iterate(yield func(*Entry[V]) bool) {
	for _, c := range m.chunks {
		for slot := 0; slot < DefaultChunkLen; slot++ {
			for e := c.buckets[slot]; e != nil; e = e.next {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// ChunkCount reports how many bucket chunks are currently allocated,
// exposed for tests asserting doubling behavior.
func (m *Map[V]) ChunkCount() int { return len(m.chunks) }
