// Package document implements the LSML in-memory data model: a Document
// owning an arena, an interned string table, and a section-name to
// section map, plus the public Section Store API (spec.md section 4.7)
// that the parser and any programmatic caller use to build and query it.
package document

import (
	"unsafe"

	"github.com/shua5115/lsml/internal/arena"
	"github.com/shua5115/lsml/internal/chunkarray"
	"github.com/shua5115/lsml/internal/chunkmap"
	"github.com/shua5115/lsml/intern"
)

// SectionType tags a Section as a Table or an Array, per spec.md section 3.
type SectionType int

const (
	Table SectionType = iota
	Array
)

func (t SectionType) String() string {
	switch t {
	case Table:
		return "table"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// Section is a named container, uniquely keyed by its interned name
// within a Document. Exactly one of its table/array fields is active,
// selected by typ.
type Section struct {
	name  *intern.String
	typ   SectionType
	table *tableData
	array *arrayData
}

// Name returns the section's interned name.
func (s *Section) Name() *intern.String { return s.name }

// Type reports whether s is a Table or Array section.
func (s *Section) Type() SectionType { return s.typ }

// Document is a process-local value owning a single contiguous byte
// buffer. All allocation for interned strings, sections, and their
// contents derives from its arena; no pointer it hands out is ever
// invalidated until Clear is called.
type Document struct {
	ar       *arena.Arena
	strings  *intern.Table
	sections *chunkmap.Map[*Section]
}

// New creates an empty Document backed by buf. The Document does not
// grow buf; exhausting it surfaces as ErrOutOfMemory from any mutating
// call.
func New(buf []byte) *Document {
	d := &Document{}
	d.init(buf)
	return d
}

func (d *Document) init(buf []byte) {
	a := arena.New(buf)
	d.ar = a
	d.strings = intern.NewTable(a)
	d.sections = chunkmap.New[*Section](a, 0)
}

// Arena exposes the document's allocator, mainly so the parser can use
// the temporary-string discard protocol directly against it.
func (d *Document) Arena() *arena.Arena { return d.ar }

// Strings exposes the document's interned string table.
func (d *Document) Strings() *intern.Table { return d.strings }

// Clear discards every section, string, and byte of arena usage,
// resetting the document to the state New produced. It is the only
// way to invalidate previously returned pointers (spec.md section 5).
func (d *Document) Clear() {
	d.ar.Reset()
	d.strings = intern.NewTable(d.ar)
	d.sections = chunkmap.New[*Section](d.ar, 0)
}

func (d *Document) owns(s *Section) bool {
	return s != nil && d.ar.Owns(unsafe.Pointer(s))
}

// GetSection looks up a section by name. If typ is non-nil, the found
// section's type must match or ErrSectionType is returned.
func (d *Document) GetSection(name []byte, typ *SectionType) (*Section, error) {
	if len(name) == 0 {
		return nil, ErrInvalidKey
	}
	e, ok := d.sections.Get(intern.HashBytes(name), name)
	if !ok {
		return nil, ErrNotFound
	}
	if typ != nil && e.Value.typ != *typ {
		return nil, ErrSectionType
	}
	return e.Value, nil
}

// AddSection interns name and creates a new section of the given type.
// It fails with ErrSectionNameReused if a section by that name already
// exists, matching spec.md section 4.7.
func (d *Document) AddSection(typ SectionType, name []byte) (*Section, error) {
	if len(name) == 0 {
		return nil, ErrInvalidKey
	}
	interned, err := d.strings.Intern(name, false)
	if err != nil {
		return nil, wrapArenaErr(err)
	}
	e, created, err := d.sections.GetOrCreate(interned.Hash(), interned.Bytes())
	if err != nil {
		return nil, wrapArenaErr(err)
	}
	if !created {
		return nil, ErrSectionNameReused
	}

	sec, err := arena.AllocValue[Section](d.ar)
	if err != nil {
		return nil, wrapArenaErr(err)
	}
	sec.name = interned
	sec.typ = typ
	switch typ {
	case Table:
		sec.table = &tableData{m: chunkmap.New[tableEntry](d.ar, 0)}
	case Array:
		sec.array = &arrayData{
			elems:     chunkarray.New[*intern.String](d.ar),
			rowStarts: chunkarray.New[int](d.ar),
		}
	}
	e.Value = sec
	return sec, nil
}

// IterateSections calls yield for every section in the document, in
// unspecified bucket-walk order, stopping early if yield returns false.
func (d *Document) IterateSections(yield func(*Section) bool) {
	d.sections.Iterate(func(e *chunkmap.Entry[*Section]) bool {
		return yield(e.Value)
	})
}

// SectionCount returns the number of sections in the document.
func (d *Document) SectionCount() int { return d.sections.Len() }
