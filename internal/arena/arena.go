// Package arena implements a monotonic bump allocator over a single
// caller-supplied byte buffer. It never frees individual allocations;
// the only way to reclaim space is the temporary-value discard protocol
// (SetCursor) used by the parser, or resetting the whole arena.
package arena

import (
	"errors"
	"unsafe"
)

// ErrOutOfMemory is returned when an allocation would exceed the arena's
// backing buffer.
var ErrOutOfMemory = errors.New("arena: out of memory")

// Arena is a linear allocator. The zero value is not usable; construct
// one with New.
type Arena struct {
	buf    []byte
	cursor int
}

// New wraps buf as an arena. The arena never grows beyond len(buf).
func New(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// Cursor returns the current allocation offset.
func (a *Arena) Cursor() int { return a.cursor }

// SetCursor rewinds the cursor to pos, which must be a value previously
// observed from Cursor. It panics if pos would move the cursor forward,
// since that would expose uninitialized memory as if it were allocated.
func (a *Arena) SetCursor(pos int) {
	if pos < 0 || pos > a.cursor {
		panic("arena: SetCursor must move the cursor backwards to a previously observed position")
	}
	a.cursor = pos
}

// Cap returns the total capacity of the arena's backing buffer.
func (a *Arena) Cap() int { return len(a.buf) }

// Reset reclaims the entire arena, invalidating every previous allocation.
func (a *Arena) Reset() { a.cursor = 0 }

func alignUp(x, align uintptr) uintptr {
	return (x + align - 1) &^ (align - 1)
}

func (a *Arena) baseAddr() uintptr {
	if len(a.buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&a.buf[0]))
}

// Alloc reserves size bytes aligned to align (a power of two) and returns
// a zero-initialized slice view into the arena's buffer. The cursor is
// advanced past any padding inserted for alignment as well as size
// itself, matching the spec's "advancing the cursor by size" after
// alignment has been applied.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	if size == 0 {
		return a.buf[a.cursor:a.cursor:a.cursor], nil
	}
	if align <= 0 {
		align = 1
	}
	if len(a.buf) == 0 {
		return nil, ErrOutOfMemory
	}
	base := a.baseAddr()
	alignedOff := int(alignUp(base+uintptr(a.cursor), uintptr(align)) - base)
	end := alignedOff + size
	if end > len(a.buf) || end < 0 {
		return nil, ErrOutOfMemory
	}
	out := a.buf[alignedOff:end:end]
	for i := range out {
		out[i] = 0
	}
	a.cursor = end
	return out, nil
}

// Tail returns the arena's entire remaining unallocated capacity. A
// caller that needs to write a variable-length run of scratch bytes
// before deciding how much of it to keep (the parser's string scanner)
// writes directly into this slice, then calls Commit with the number
// of bytes actually used.
func (a *Arena) Tail() []byte {
	return a.buf[a.cursor:len(a.buf):len(a.buf)]
}

// Commit advances the cursor by n, which must be no larger than the
// length of the slice most recently returned by Tail, and returns the
// newly committed view.
func (a *Arena) Commit(n int) ([]byte, error) {
	if n < 0 || a.cursor+n > len(a.buf) {
		return nil, ErrOutOfMemory
	}
	start := a.cursor
	a.cursor += n
	return a.buf[start:a.cursor:a.cursor], nil
}

// Owns reports whether ptr falls inside the arena's backing buffer. It is
// used by mutation APIs to reject sections or nodes that did not come
// from this arena.
func (a *Arena) Owns(ptr unsafe.Pointer) bool {
	if len(a.buf) == 0 || ptr == nil {
		return false
	}
	base := a.baseAddr()
	end := base + uintptr(len(a.buf))
	p := uintptr(ptr)
	return p >= base && p < end
}

// AllocValue allocates storage for one value of type T inside the arena
// and returns a pointer to it. Zero-sized types are allocated on the Go
// heap instead, since they consume no arena space and carving a slice
// from an empty region has no valid address to take.
func AllocValue[T any](a *Arena) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T), nil
	}
	align := int(unsafe.Alignof(zero))
	b, err := a.Alloc(size, align)
	if err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(&b[0])), nil
}
