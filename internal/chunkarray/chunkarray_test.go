package chunkarray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shua5115/lsml/internal/arena"
)

func TestPushAndGetInOrder(t *testing.T) {
	a := arena.New(make([]byte, 1<<16))
	arr := New[int](a)

	ptrs := make([]*int, 0, 100)
	for i := 0; i < 100; i++ {
		p, err := arr.Push(i)
		assert.NoError(t, err)
		ptrs = append(ptrs, p)
	}
	assert.Equal(t, 100, arr.Len())

	for i := 0; i < 100; i++ {
		got, ok := arr.Get(i)
		assert.True(t, ok)
		assert.Equal(t, i, *got)
		assert.Same(t, ptrs[i], got, "pointers returned by Push must remain valid after further pushes")
	}
}

func TestGetOutOfRange(t *testing.T) {
	a := arena.New(make([]byte, 1<<12))
	arr := New[int](a)
	_, err := arr.Push(1)
	assert.NoError(t, err)

	_, ok := arr.Get(-1)
	assert.False(t, ok)
	_, ok = arr.Get(1)
	assert.False(t, ok)
}

func TestIterateYieldsInPushOrder(t *testing.T) {
	a := arena.New(make([]byte, 1<<16))
	arr := New[string](a)
	want := []string{"a", "b", "c", "d"}
	for _, s := range want {
		_, err := arr.Push(s)
		assert.NoError(t, err)
	}

	var got []string
	var indices []int
	arr.Iterate(func(i int, v *string) bool {
		indices = append(indices, i)
		got = append(got, *v)
		return true
	})
	assert.Equal(t, want, got)
	assert.Equal(t, []int{0, 1, 2, 3}, indices)
}

func TestIterateCanStopEarly(t *testing.T) {
	a := arena.New(make([]byte, 1<<16))
	arr := New[int](a)
	for i := 0; i < 10; i++ {
		_, err := arr.Push(i)
		assert.NoError(t, err)
	}

	count := 0
	arr.Iterate(func(i int, v *int) bool {
		count++
		return count < 3
	})
	assert.Equal(t, 3, count)
}

func TestPushSpansMultipleChunks(t *testing.T) {
	a := arena.New(make([]byte, 1<<20))
	arr := New[int](a)
	n := DefaultChunkLen*3 + 5
	for i := 0; i < n; i++ {
		_, err := arr.Push(i)
		assert.NoError(t, err)
	}
	assert.Equal(t, n, arr.Len())
	got, ok := arr.Get(n - 1)
	assert.True(t, ok)
	assert.Equal(t, n-1, *got)
}
