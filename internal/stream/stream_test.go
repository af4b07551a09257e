package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemamig/internal/ir"
)

// countingIterator records Close calls on a slice source.
type countingIterator struct {
	Iterator
	closes   int
	closeErr error
	err      error
}

func (c *countingIterator) Close() error {
	c.closes++
	c.Iterator.Close()
	return c.closeErr
}

func (c *countingIterator) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.Iterator.Err()
}

func entities(vertices ...string) []ir.Element {
	out := make([]ir.Element, len(vertices))
	for i, v := range vertices {
		out[i] = ir.NewEntity("g", v, ir.Properties{"n": ir.IRInt(int32(i))})
	}
	return out
}

func TestFromSlice(t *testing.T) {
	it := FromSlice(entities("a", "b"))

	require.True(t, it.Next())
	assert.Equal(t, "a", it.Element().Vertex)
	require.True(t, it.Next())
	assert.Equal(t, "b", it.Element().Vertex)
	assert.False(t, it.Next())
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
	assert.NoError(t, it.Close())
}

func TestFromSlice_ClosedStopsIteration(t *testing.T) {
	it := FromSlice(entities("a", "b"))
	require.NoError(t, it.Close())
	assert.False(t, it.Next())
}

func TestEmpty(t *testing.T) {
	got, err := Collect(Empty())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMap_PreservesOrderAndLength(t *testing.T) {
	src := FromSlice(entities("a", "b", "c", "d"))
	it := Map(src, func(e ir.Element) (ir.Element, error) {
		return e.WithGroup("h", e.Properties), nil
	})

	got, err := Collect(it)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i, v := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, v, got[i].Vertex)
		assert.Equal(t, "h", got[i].Group)
	}
}

func TestMap_IsLazy(t *testing.T) {
	calls := 0
	it := Map(FromSlice(entities("a", "b", "c")), func(e ir.Element) (ir.Element, error) {
		calls++
		return e, nil
	})
	defer it.Close()

	assert.Equal(t, 0, calls, "nothing computed before the first pull")
	require.True(t, it.Next())
	assert.Equal(t, 1, calls)
	require.True(t, it.Next())
	assert.Equal(t, 2, calls)
}

func TestMap_ErrorStopsIteration(t *testing.T) {
	boom := errors.New("boom")
	it := Map(FromSlice(entities("a", "b", "c")), func(e ir.Element) (ir.Element, error) {
		if e.Vertex == "b" {
			return ir.Element{}, boom
		}
		return e, nil
	})

	got, err := Collect(it)
	assert.ErrorIs(t, err, boom)
	require.Len(t, got, 1, "elements before the failure are kept")
	assert.Equal(t, "a", got[0].Vertex)
	assert.False(t, it.Next(), "no further pulls after failure")
}

func TestMap_ForwardsSourceError(t *testing.T) {
	boom := errors.New("cursor failed")
	src := &countingIterator{Iterator: FromSlice(nil), err: boom}
	it := Map(src, func(e ir.Element) (ir.Element, error) { return e, nil })

	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), boom)
}

func TestMap_ClosesSourceExactlyOnce(t *testing.T) {
	tests := []struct {
		name  string
		pulls int
	}{
		{"never pulled", 0},
		{"abandoned mid-stream", 1},
		{"fully drained", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &countingIterator{Iterator: FromSlice(entities("a", "b", "c"))}
			it := Map(src, func(e ir.Element) (ir.Element, error) { return e, nil })

			for i := 0; i < tt.pulls; i++ {
				it.Next()
			}

			require.NoError(t, it.Close())
			require.NoError(t, it.Close())
			assert.Equal(t, 1, src.closes)
			assert.False(t, it.Next())
		})
	}
}

func TestMap_CloseErrorIsSticky(t *testing.T) {
	boom := errors.New("close failed")
	src := &countingIterator{Iterator: FromSlice(nil), closeErr: boom}
	it := Map(src, func(e ir.Element) (ir.Element, error) { return e, nil })

	assert.ErrorIs(t, it.Close(), boom)
	assert.ErrorIs(t, it.Close(), boom)
	assert.Equal(t, 1, src.closes)
}

func TestCollect_ReportsCloseError(t *testing.T) {
	boom := errors.New("close failed")
	src := &countingIterator{Iterator: FromSlice(entities("a")), closeErr: boom}

	got, err := Collect(src)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, got, 1)
}
