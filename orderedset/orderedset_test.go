package orderedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intLess(a, b int) bool { return a < b }

func TestInsertKeepsOrderAndDedups(t *testing.T) {
	s := New(intLess)
	for _, v := range []int{5, 1, 3, 1, 5, 2} {
		s.Insert(v)
	}
	assert.Equal(t, []int{1, 2, 3, 5}, s.AsSlice())
}

func TestInsertReturnsPositionAndFlag(t *testing.T) {
	s := New(intLess)
	idx, inserted := s.Insert(10)
	assert.Equal(t, 0, idx)
	assert.True(t, inserted)

	idx, inserted = s.Insert(10)
	assert.Equal(t, 0, idx)
	assert.False(t, inserted)

	idx, inserted = s.Insert(5)
	assert.Equal(t, 0, idx)
	assert.True(t, inserted)
	assert.Equal(t, []int{5, 10}, s.AsSlice())
}

func TestEraseAndFind(t *testing.T) {
	s := New(intLess)
	for _, v := range []int{1, 2, 3, 4} {
		s.Insert(v)
	}
	idx, ok := s.Find(3)
	assert.True(t, ok)
	s.Erase(idx)
	assert.Equal(t, []int{1, 2, 4}, s.AsSlice())

	_, ok = s.Find(3)
	assert.False(t, ok)
}

func TestEraseValueIdempotent(t *testing.T) {
	s := New(intLess)
	s.Insert(1)
	assert.True(t, s.EraseValue(1))
	assert.False(t, s.EraseValue(1))
}
