package document

import (
	"github.com/shua5115/lsml/internal/chunkmap"
	"github.com/shua5115/lsml/intern"
)

// tableEntry is the payload stored per chunkmap entry for a table
// section: both the interned key and its interned value, so iteration
// can hand back the key's own handle rather than re-deriving it from
// raw bytes.
type tableEntry struct {
	key   *intern.String
	value *intern.String
}

type tableData struct {
	m *chunkmap.Map[tableEntry]
}

// TableGet looks up key in sec, which must be a Table section resident
// in d's arena. Returns ErrInvalidSection / ErrSectionType on a foreign
// or wrong-variant section, ErrNotFound if key was never added.
func (d *Document) TableGet(sec *Section, key []byte) (*intern.String, error) {
	if !d.owns(sec) {
		return nil, ErrInvalidSection
	}
	if sec.typ != Table {
		return nil, ErrSectionType
	}
	e, ok := sec.table.m.Get(intern.HashBytes(key), key)
	if !ok {
		return nil, ErrNotFound
	}
	return e.Value.value, nil
}

// TableAdd interns key and value and inserts them into sec, which must
// be a Table section resident in d's arena. Fails with
// ErrTableKeyReused if key already occurs in sec, matching spec.md
// section 4.7's "each key occurs at most once" invariant.
func (d *Document) TableAdd(sec *Section, key, value []byte) error {
	if !d.owns(sec) {
		return ErrInvalidSection
	}
	if sec.typ != Table {
		return ErrSectionType
	}

	// Empty keys are not rejected here: the reference behavior (spec.md
	// section 9, resolved open question) allows the first empty key in
	// a table to succeed and only rejects a second one, via the same
	// "key already present" path as any other key.
	internedKey, err := d.strings.Intern(key, false)
	if err != nil {
		return wrapArenaErr(err)
	}
	e, created, err := sec.table.m.GetOrCreate(internedKey.Hash(), internedKey.Bytes())
	if err != nil {
		return wrapArenaErr(err)
	}
	if !created {
		return ErrTableKeyReused
	}

	internedValue, err := d.strings.Intern(value, false)
	if err != nil {
		return wrapArenaErr(err)
	}
	e.Value = tableEntry{key: internedKey, value: internedValue}
	return nil
}

// TableLen reports the number of distinct keys in sec.
func (d *Document) TableLen(sec *Section) int {
	if !d.owns(sec) || sec.typ != Table {
		return 0
	}
	return sec.table.m.Len()
}

// IterateTable calls yield(key, value) for every entry in sec, in
// unspecified bucket-walk order, stopping early if yield returns false.
func (d *Document) IterateTable(sec *Section, yield func(key, value *intern.String) bool) {
	if !d.owns(sec) || sec.typ != Table {
		return
	}
	sec.table.m.Iterate(func(e *chunkmap.Entry[tableEntry]) bool {
		return yield(e.Value.key, e.Value.value)
	})
}
