package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexMapAddSeries(t *testing.T) {
	m := newIndexMap[int]()
	assert.Equal(t, Index(0), m.insert(5))
	assert.Equal(t, Index(1), m.insert(17))
	assert.Equal(t, Index(2), m.insert(30))
}

func TestIndexMapDoubleAddPanics(t *testing.T) {
	m := newIndexMap[int]()
	m.insert(5)
	assert.PanicsWithValue(t, "Cannot insert the same node twice", func() {
		m.insert(5)
	})
}

func TestIndexMapContains(t *testing.T) {
	m := newIndexMap[int]()
	m.insert(5)
	assert.True(t, m.contains(5))
	assert.False(t, m.contains(4))
}

func TestIndexMapGet(t *testing.T) {
	m := newIndexMap[int]()
	assert.Equal(t, Index(0), m.insert(5))
	assert.Equal(t, Index(0), m.get(5))
}

func TestIndexMapGetUnknownPanics(t *testing.T) {
	m := newIndexMap[int]()
	assert.PanicsWithValue(t, "Get called on unknown node", func() {
		m.get(5)
	})
}

func TestIndexMapLookup(t *testing.T) {
	m := newIndexMap[int]()
	assert.Equal(t, Index(0), m.insert(5))
	assert.Equal(t, 5, m.lookup(Index(0)))
}

func TestIndexMapLookupUnknownPanics(t *testing.T) {
	m := newIndexMap[int]()
	assert.PanicsWithValue(t, "Lookup called on unknown node", func() {
		m.lookup(Index(17))
	})
}
