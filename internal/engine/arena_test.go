package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_AddressesSurviveGrowth(t *testing.T) {
	f := fieldFrom(t, "@@@", "@@@")
	var p pool

	first := p.alloc(newRectangle(f, 0, 0, 0, 0))
	for i := 0; i < 3*poolChunk; i++ {
		p.alloc(newRectangle(f, 1, 1, 1, 2))
	}

	assert.Equal(t, 3*poolChunk+1, p.allocated)
	assert.Equal(t, 1, first.Area())
	assert.Equal(t, 0, first.Top())
	assert.Len(t, p.chunks, 4)
}

func TestPool_PurgeReusesChunks(t *testing.T) {
	f := fieldFrom(t, "@")
	var p pool
	for i := 0; i < poolChunk+1; i++ {
		p.alloc(newRectangle(f, 0, 0, 0, 0))
	}
	require.Len(t, p.chunks, 2)

	p.purge()
	assert.Equal(t, 0, p.allocated)
	assert.Nil(t, p.chunks[0][0].field)

	p.alloc(newRectangle(f, 0, 0, 0, 0))
	assert.Len(t, p.chunks, 2, "purge keeps the chunks for the next run")
}

func TestResultSet_InsertionOrder(t *testing.T) {
	f := fieldFrom(t, "@@@")
	a, b, c := rect(f, 0, 0, 0, 0), rect(f, 0, 1, 0, 1), rect(f, 0, 2, 0, 2)

	var s resultSet
	ha := s.insert(a)
	hb := s.insert(b)
	hc := s.insert(c)
	require.Equal(t, 3, s.len())

	s.remove(hb)
	assert.Equal(t, []Handle{ha, hc}, s.handles())
	assert.Equal(t, []*Rectangle{a, c}, s.rects())
	assert.False(t, s.valid(hb))
	assert.Panics(t, func() { s.get(hb) })
}

func TestResultSet_ReplaceKeepsPosition(t *testing.T) {
	f := fieldFrom(t, "@@@@")
	a, b, c := rect(f, 0, 0, 0, 0), rect(f, 0, 1, 0, 2), rect(f, 0, 3, 0, 3)
	slice := rect(f, 0, 1, 0, 1)

	var s resultSet
	s.insert(a)
	hb := s.insert(b)
	s.insert(c)

	nh := s.replace(hb, slice)
	assert.NotEqual(t, hb, nh)
	assert.False(t, s.valid(hb))
	assert.Same(t, slice, s.get(nh))
	assert.Equal(t, []*Rectangle{a, slice, c}, s.rects())
}

func TestResultSet_ReusedSlotGetsNewGeneration(t *testing.T) {
	f := fieldFrom(t, "@@")
	var s resultSet
	h1 := s.insert(rect(f, 0, 0, 0, 0))
	s.remove(h1)
	h2 := s.insert(rect(f, 0, 1, 0, 1))

	assert.Equal(t, h1.index, h2.index)
	assert.NotEqual(t, h1.gen, h2.gen)
	assert.False(t, s.valid(h1))
	assert.True(t, s.valid(h2))
	assert.False(t, s.valid(Handle{}))
}

func TestResultSet_Reset(t *testing.T) {
	f := fieldFrom(t, "@@")
	var s resultSet
	h := s.insert(rect(f, 0, 0, 0, 0))
	s.insert(rect(f, 0, 1, 0, 1))

	s.reset()
	assert.Equal(t, 0, s.len())
	assert.False(t, s.valid(h))
}
