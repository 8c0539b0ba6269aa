package skiplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoarse_InsertDuplicate(t *testing.T) {
	l := NewCoarse()
	require.True(t, l.Insert(5, 1))
	assert.False(t, l.Insert(5, 2))
	assert.True(t, l.Contains(5))
	assert.Equal(t, 1, l.Len())
}

func TestCoarse_DeleteThenContains(t *testing.T) {
	l := NewCoarse()
	require.True(t, l.Insert(5, 1))
	require.True(t, l.Delete(5))
	assert.False(t, l.Contains(5))
	assert.False(t, l.Delete(5))
}

func TestCoarse_DeleteAbsent(t *testing.T) {
	l := NewCoarse()
	assert.False(t, l.Delete(7))
	assert.False(t, l.Contains(7))
	assert.Equal(t, 0, l.Len())
}

func TestCoarse_ContainsIdempotent(t *testing.T) {
	l := NewCoarse()
	l.Insert(3, 0)
	first := l.Contains(3)
	second := l.Contains(3)
	assert.Equal(t, first, second)
}

func TestCoarse_SortedAcrossLevels(t *testing.T) {
	l := NewCoarse(WithMaxLevel(4))
	for _, k := range []int{10, 3, 7, 1, 9, 4} {
		l.Insert(k, k*10)
	}
	assert.True(t, l.Validate())
	assert.Equal(t, 6, l.Len())
}

func TestCoarse_DestroyResets(t *testing.T) {
	l := NewCoarse()
	for i := 0; i < 20; i++ {
		l.Insert(i, i)
	}
	l.Destroy()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Contains(5))
}

func TestCoarse_WithPOutsideRangeClampsToDefault(t *testing.T) {
	l := NewCoarse(WithP(1.5))
	assert.Equal(t, P, l.cfg.p)
}

func TestCoarse_WithMaxLevelClampsBelowOne(t *testing.T) {
	l := NewCoarse(WithMaxLevel(-3))
	assert.Equal(t, 1, l.cfg.maxLevel)
}
