// Package intern implements the arena-backed interned string table
// described in spec.md section 4.3: every unique byte sequence seen by a
// document maps to exactly one owned, null-terminated copy, and equality
// between two interned strings is pointer identity.
package intern

import (
	"hash/fnv"

	"github.com/shua5115/lsml/internal/arena"
	"github.com/shua5115/lsml/internal/chunkmap"
)

// String is an immutable interned record: an arena-owned, null-terminated
// byte slice plus its cached hash. Two *String values are equal in the
// logical sense iff they are the same pointer (Table.Intern guarantees
// this for equal byte content).
type String struct {
	// body is the arena-owned slice including the trailing null byte.
	body []byte
	hash uint32
}

// Bytes returns the logical content, excluding the storage-only null
// terminator.
func (s *String) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.body[:len(s.body)-1]
}

// String implements fmt.Stringer for debugging and log output.
func (s *String) String() string {
	if s == nil {
		return ""
	}
	return string(s.Bytes())
}

// Hash returns the cached 32-bit hash of the string's content.
func (s *String) Hash() uint32 {
	if s == nil {
		return 0
	}
	return s.hash
}

func hash32(b []byte) uint32 {
	h := fnv.New32a()
	h.Write(b)
	return h.Sum32()
}

// HashBytes exposes the table's hash function so callers that need to
// look up a not-yet-interned key (the document package's section and
// table lookups) can compute a matching hash without duplicating the
// algorithm.
func HashBytes(b []byte) uint32 { return hash32(b) }

// Table deduplicates byte strings into *String records, one per unique
// content, backed by a chunkmap keyed on the string's own bytes.
type Table struct {
	a *arena.Arena
	m *chunkmap.Map[*String]
}

// NewTable creates an empty interned-string table allocating out of a.
func NewTable(a *arena.Arena) *Table {
	return &Table{a: a, m: chunkmap.New[*String](a, 0)}
}

// Len reports how many unique strings have been interned.
func (t *Table) Len() int { return t.m.Len() }

// Lookup finds an already-interned string with the given content without
// allocating. It returns (nil, false) if bytes has never been interned.
func (t *Table) Lookup(b []byte) (*String, bool) {
	h := hash32(b)
	e, ok := t.m.Get(h, b)
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Intern returns the unique *String for b, copying b into the arena (with
// a trailing null terminator) the first time it is seen.
//
// TakeOwnership lets a caller that has already written b into the arena
// (with its null terminator as the last byte of b) avoid a second copy:
// a new string keeps b itself as its storage. If b turns out to be a
// duplicate, Intern returns the existing record and leaves the cursor
// where it is; InternTakeOwnership, which knows where b started, is what
// rewinds the cursor to discard the redundant bytes. This mirrors
// spec.md section 4.3's take_ownership contract and is how the parser
// commits the scratch string it just decoded without a second
// allocation on the common non-duplicate path.
func (t *Table) Intern(b []byte, takeOwnership bool) (*String, error) {
	// When takeOwnership is true, b already carries its trailing null
	// (len(b) == content length + 1); hash and lookup must still key on
	// the content alone so this path agrees with the copying path below.
	content := b
	if takeOwnership {
		content = b[:len(b)-1]
	}
	h := hash32(content)
	if e, ok := t.m.Get(h, content); ok {
		return e.Value, nil
	}

	var owned []byte
	if takeOwnership {
		owned = b
	} else {
		buf, err := t.a.Alloc(len(b)+1, 1)
		if err != nil {
			return nil, err
		}
		copy(buf, b)
		owned = buf
	}

	rec, err := arena.AllocValue[String](t.a)
	if err != nil {
		return nil, err
	}
	rec.body = owned
	rec.hash = h

	e, created, err := t.m.GetOrCreate(h, rec.Bytes())
	if err != nil {
		return nil, err
	}
	if !created {
		return e.Value, nil
	}
	e.Value = rec
	return rec, nil
}

// InternTakeOwnership is a convenience wrapper documenting the common
// call shape used by the parser: b must already be arena-resident and
// include its own trailing null as its last byte (len(b) == content
// length + 1), and markBeforeWrite must be the cursor value observed
// right before b was written, so that a duplicate can be discarded by
// rewinding the cursor.
func (t *Table) InternTakeOwnership(markBeforeWrite int, b []byte) (*String, bool, error) {
	content := b[:len(b)-1]
	h := hash32(content)
	if e, ok := t.m.Get(h, content); ok {
		t.a.SetCursor(markBeforeWrite)
		return e.Value, false, nil
	}
	s, err := t.Intern(b, true)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}
