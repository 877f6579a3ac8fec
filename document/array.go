package document

import (
	"github.com/shua5115/lsml/internal/chunkarray"
	"github.com/shua5115/lsml/intern"
)

// arrayData holds an array section's elements and its row-start index
// list (spec.md section 4.4): elems is the flat, push-order sequence of
// interned values; rowStarts holds the 1-D offset of the first element
// of every row after the first.
type arrayData struct {
	elems     *chunkarray.Array[*intern.String]
	rowStarts *chunkarray.Array[int]
}

// ArrayPush interns value and appends it to sec, which must be an
// Array section resident in d's arena. If startNewRow is true and the
// array already holds at least one element, a new row-start record is
// appended before the value (spec.md section 4.4).
func (d *Document) ArrayPush(sec *Section, value []byte, startNewRow bool) error {
	if !d.owns(sec) {
		return ErrInvalidSection
	}
	if sec.typ != Array {
		return ErrSectionType
	}
	interned, err := d.strings.Intern(value, false)
	if err != nil {
		return wrapArenaErr(err)
	}
	ad := sec.array
	if startNewRow && ad.elems.Len() > 0 {
		if _, err := ad.rowStarts.Push(ad.elems.Len()); err != nil {
			return wrapArenaErr(err)
		}
	}
	if _, err := ad.elems.Push(interned); err != nil {
		return wrapArenaErr(err)
	}
	return nil
}

// ArrayLen returns the total element count of sec.
func (d *Document) ArrayLen(sec *Section) int {
	if !d.owns(sec) || sec.typ != Array {
		return 0
	}
	return sec.array.elems.Len()
}

// ArrayRowCount returns 1 + the number of explicit row-start records.
func (d *Document) ArrayRowCount(sec *Section) int {
	if !d.owns(sec) || sec.typ != Array {
		return 0
	}
	return sec.array.rowStarts.Len() + 1
}

// ArrayGet returns the 1-D element at index i.
func (d *Document) ArrayGet(sec *Section, i int) (*intern.String, error) {
	if !d.owns(sec) {
		return nil, ErrInvalidSection
	}
	if sec.typ != Array {
		return nil, ErrSectionType
	}
	p, ok := sec.array.elems.Get(i)
	if !ok {
		return nil, ErrNotFound
	}
	return *p, nil
}

// rowBounds returns the [start, end) 1-D element range of row, where
// end is exclusive. ok is false if row is out of range.
func (ad *arrayData) rowBounds(row int) (start, end int, ok bool) {
	n := ad.rowStarts.Len()
	if row < 0 || row > n {
		return 0, 0, false
	}
	if row == 0 {
		start = 0
	} else {
		p, _ := ad.rowStarts.Get(row - 1)
		start = *p
	}
	if row == n {
		end = ad.elems.Len()
	} else {
		p, _ := ad.rowStarts.Get(row)
		end = *p
	}
	return start, end, true
}

// ArrayGet2D returns the element at (row, col), rejecting when the
// derived 1-D index would fall outside that row (spec.md section 4.4).
func (d *Document) ArrayGet2D(sec *Section, row, col int) (*intern.String, error) {
	if !d.owns(sec) {
		return nil, ErrInvalidSection
	}
	if sec.typ != Array {
		return nil, ErrSectionType
	}
	start, end, ok := sec.array.rowBounds(row)
	if !ok || col < 0 || start+col >= end {
		return nil, ErrNotFound
	}
	p, _ := sec.array.elems.Get(start + col)
	return *p, nil
}

// ArraySize2D reports (rows, cols) for sec. When jagged is true, cols
// is the widest row's column count; when false, cols is the narrowest
// row's, giving a safe rectangular subset (spec.md section 3).
func (d *Document) ArraySize2D(sec *Section, jagged bool) (rows, cols int, err error) {
	if !d.owns(sec) {
		return 0, 0, ErrInvalidSection
	}
	if sec.typ != Array {
		return 0, 0, ErrSectionType
	}
	ad := sec.array
	rows = ad.rowStarts.Len() + 1
	best := -1
	for r := 0; r < rows; r++ {
		start, end, _ := ad.rowBounds(r)
		width := end - start
		if best == -1 {
			best = width
		} else if jagged && width > best {
			best = width
		} else if !jagged && width < best {
			best = width
		}
	}
	if best == -1 {
		best = 0
	}
	return rows, best, nil
}

// IterateArray calls yield(index, value) for every element of sec in
// push order, stopping early if yield returns false.
func (d *Document) IterateArray(sec *Section, yield func(index int, value *intern.String) bool) {
	if !d.owns(sec) || sec.typ != Array {
		return
	}
	sec.array.elems.Iterate(func(i int, v **intern.String) bool {
		return yield(i, *v)
	})
}

// IterateArray2D calls yield(row, col, value) for every element of
// sec, with col resetting to 0 at the start of each row, stopping
// early if yield returns false.
func (d *Document) IterateArray2D(sec *Section, yield func(row, col int, value *intern.String) bool) {
	if !d.owns(sec) || sec.typ != Array {
		return
	}
	ad := sec.array
	boundaries := make([]int, ad.rowStarts.Len())
	for i := range boundaries {
		p, _ := ad.rowStarts.Get(i)
		boundaries[i] = *p
	}

	row, col, bi := 0, 0, 0
	ad.elems.Iterate(func(i int, v **intern.String) bool {
		for bi < len(boundaries) && i == boundaries[bi] {
			row++
			col = 0
			bi++
		}
		if !yield(row, col, *v) {
			return false
		}
		col++
		return true
	})
}
