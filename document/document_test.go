package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shua5115/lsml/intern"
)

func newDoc(t *testing.T) *Document {
	t.Helper()
	return New(make([]byte, 1<<16))
}

func TestAddSectionAndGetSectionRoundTrip(t *testing.T) {
	d := newDoc(t)

	sec, err := d.AddSection(Table, []byte("t"))
	assert.NoError(t, err)
	assert.Equal(t, "t", sec.Name().String())
	assert.Equal(t, Table, sec.Type())

	got, err := d.GetSection([]byte("t"), nil)
	assert.NoError(t, err)
	assert.Same(t, sec, got)
}

func TestAddSectionRejectsDuplicateName(t *testing.T) {
	d := newDoc(t)
	_, err := d.AddSection(Table, []byte("dup"))
	assert.NoError(t, err)

	_, err = d.AddSection(Array, []byte("dup"))
	assert.ErrorIs(t, err, ErrSectionNameReused)
}

func TestGetSectionEnforcesTypeFilter(t *testing.T) {
	d := newDoc(t)
	_, err := d.AddSection(Table, []byte("t"))
	assert.NoError(t, err)

	arrayType := Array
	_, err = d.GetSection([]byte("t"), &arrayType)
	assert.ErrorIs(t, err, ErrSectionType)
}

func TestGetSectionNotFound(t *testing.T) {
	d := newDoc(t)
	_, err := d.GetSection([]byte("missing"), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIterateSectionsYieldsAll(t *testing.T) {
	d := newDoc(t)
	names := []string{"a", "b", "c"}
	for _, n := range names {
		_, err := d.AddSection(Table, []byte(n))
		assert.NoError(t, err)
	}

	seen := map[string]bool{}
	d.IterateSections(func(s *Section) bool {
		seen[s.Name().String()] = true
		return true
	})
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, seen)
	assert.Equal(t, 3, d.SectionCount())
}

// property 4: table_get returns the most recent successful table_add for
// a key, and NotFound if no add occurred.
func TestTableGetReturnsMostRecentAdd(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Table, []byte("t"))
	assert.NoError(t, err)

	assert.NoError(t, d.TableAdd(sec, []byte("k"), []byte("v1")))
	got, err := d.TableGet(sec, []byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, "v1", got.String())

	_, err = d.TableGet(sec, []byte("absent"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTableAddRejectsDuplicateKey(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Table, []byte("t"))
	assert.NoError(t, err)

	assert.NoError(t, d.TableAdd(sec, []byte("k"), []byte("first")))
	err = d.TableAdd(sec, []byte("k"), []byte("second"))
	assert.ErrorIs(t, err, ErrTableKeyReused)

	// the original value must be unaffected by the rejected second add.
	got, err := d.TableGet(sec, []byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, "first", got.String())
}

// Open Question resolution: the first empty table key succeeds; a
// second empty key on the same table is TableKeyReused, exactly like
// any other duplicate key.
func TestTableAddAllowsFirstEmptyKeyOnly(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Table, []byte("t"))
	assert.NoError(t, err)

	assert.NoError(t, d.TableAdd(sec, []byte(""), []byte("first")))
	got, err := d.TableGet(sec, []byte(""))
	assert.NoError(t, err)
	assert.Equal(t, "first", got.String())

	err = d.TableAdd(sec, []byte(""), []byte("second"))
	assert.ErrorIs(t, err, ErrTableKeyReused)
}

func TestTableOpsRejectWrongVariant(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Array, []byte("a"))
	assert.NoError(t, err)

	err = d.TableAdd(sec, []byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrSectionType)
	_, err = d.TableGet(sec, []byte("k"))
	assert.ErrorIs(t, err, ErrSectionType)
}

func TestTableOpsRejectForeignSection(t *testing.T) {
	d1 := newDoc(t)
	d2 := newDoc(t)
	sec, err := d1.AddSection(Table, []byte("t"))
	assert.NoError(t, err)

	err = d2.TableAdd(sec, []byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrInvalidSection)
}

func TestIterateTableYieldsAllPairs(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Table, []byte("t"))
	assert.NoError(t, err)
	want := map[string]string{"a": "1", "b": "2", "c": "3"}
	for k, v := range want {
		assert.NoError(t, d.TableAdd(sec, []byte(k), []byte(v)))
	}

	got := map[string]string{}
	d.IterateTable(sec, func(k, v *intern.String) bool {
		got[k.String()] = v.String()
		return true
	})
	assert.Equal(t, want, got)
}

// property 3: iterate_array yields exactly len(A) items in push order.
func TestIterateArrayYieldsInPushOrder(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Array, []byte("a"))
	assert.NoError(t, err)

	rows := [][]string{{"1", "2", "3"}, {"4", "5"}}
	for ri, row := range rows {
		for ci, v := range row {
			assert.NoError(t, d.ArrayPush(sec, []byte(v), ci == 0 && ri > 0))
		}
	}

	var got []string
	d.IterateArray(sec, func(i int, v *intern.String) bool {
		got = append(got, v.String())
		return true
	})
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, got)
	assert.Equal(t, 5, d.ArrayLen(sec))
}

// property 3: iterate_array_2d yields non-decreasing (row, col) with col
// resetting at each row start.
func TestIterateArray2DAnnotatesRowAndCol(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Array, []byte("a"))
	assert.NoError(t, err)

	rows := [][]string{{"1", "2", "3"}, {"4", "5"}, {"6"}}
	for ri, row := range rows {
		for ci, v := range row {
			assert.NoError(t, d.ArrayPush(sec, []byte(v), ci == 0 && ri > 0))
		}
	}

	type cell struct {
		row, col int
		value    string
	}
	var got []cell
	d.IterateArray2D(sec, func(row, col int, v *intern.String) bool {
		got = append(got, cell{row, col, v.String()})
		return true
	})
	want := []cell{
		{0, 0, "1"}, {0, 1, "2"}, {0, 2, "3"},
		{1, 0, "4"}, {1, 1, "5"},
		{2, 0, "6"},
	}
	assert.Equal(t, want, got)
}

// ArrayLen counts exactly the pushed elements. The trailing-comma case
// of boundary behavior 14 is a parser concern and is tested there.
func TestArrayLenCountsPushedElements(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Array, []byte("a"))
	assert.NoError(t, err)

	for i, v := range []string{"1", "2", "3"} {
		assert.NoError(t, d.ArrayPush(sec, []byte(v), i == 0))
	}
	assert.Equal(t, 3, d.ArrayLen(sec))
}

// boundary behavior 11: a single-element array has 2d_size (1,1) both
// jagged and non-jagged.
func TestArraySize2DSingleElement(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Array, []byte("a"))
	assert.NoError(t, err)
	assert.NoError(t, d.ArrayPush(sec, []byte("only"), true))

	rows, cols, err := d.ArraySize2D(sec, true)
	assert.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, cols)

	rows, cols, err = d.ArraySize2D(sec, false)
	assert.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, cols)
}

func TestArraySize2DJaggedVsRectangular(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Array, []byte("m"))
	assert.NoError(t, err)

	rows := [][]string{{"1", "2", "3"}, {"4", "5"}, {"6"}}
	for ri, row := range rows {
		for ci, v := range row {
			assert.NoError(t, d.ArrayPush(sec, []byte(v), ci == 0 && ri > 0))
		}
	}

	r, c, err := d.ArraySize2D(sec, true)
	assert.NoError(t, err)
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)

	r, c, err = d.ArraySize2D(sec, false)
	assert.NoError(t, err)
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)
}

func TestArrayGet2DRejectsOutOfRowBounds(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Array, []byte("m"))
	assert.NoError(t, err)

	rows := [][]string{{"1", "2", "3"}, {"4"}}
	for ri, row := range rows {
		for ci, v := range row {
			assert.NoError(t, d.ArrayPush(sec, []byte(v), ci == 0 && ri > 0))
		}
	}

	v, err := d.ArrayGet2D(sec, 0, 2)
	assert.NoError(t, err)
	assert.Equal(t, "3", v.String())

	_, err = d.ArrayGet2D(sec, 1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArrayOpsRejectWrongVariant(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Table, []byte("t"))
	assert.NoError(t, err)

	err = d.ArrayPush(sec, []byte("v"), true)
	assert.ErrorIs(t, err, ErrSectionType)
}

// property 7: lookup(add_section(d, t, n)) = (t, n); a second add_section
// with the same n fails SectionNameReused.
func TestAddSectionLookupRoundTripAndCollision(t *testing.T) {
	d := newDoc(t)
	sec, err := d.AddSection(Array, []byte("n"))
	assert.NoError(t, err)

	got, err := d.GetSection([]byte("n"), nil)
	assert.NoError(t, err)
	assert.Same(t, sec, got)
	assert.Equal(t, Array, got.Type())
	assert.Equal(t, "n", got.Name().String())

	_, err = d.AddSection(Table, []byte("n"))
	assert.ErrorIs(t, err, ErrSectionNameReused)
}

func TestClearInvalidatesPreviousContent(t *testing.T) {
	d := newDoc(t)
	_, err := d.AddSection(Table, []byte("t"))
	assert.NoError(t, err)
	assert.Equal(t, 1, d.SectionCount())

	d.Clear()
	assert.Equal(t, 0, d.SectionCount())
	_, err = d.GetSection([]byte("t"), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
