package function

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemamig/internal/ir"
)

func TestSum(t *testing.T) {
	got, err := Sum{}.Apply(ir.IRInt(10), ir.IRInt(5))
	require.NoError(t, err)
	assert.Equal(t, ir.IRInt(15), got)

	got, err = Sum{}.Apply(ir.IRLong(10), ir.IRLong(20))
	require.NoError(t, err)
	assert.Equal(t, ir.IRLong(30), got)

	got, err = Sum{}.Apply(ir.IRNull{}, ir.IRLong(3))
	require.NoError(t, err)
	assert.Equal(t, ir.IRLong(3), got)

	got, err = Sum{}.Apply(ir.IRInt(3), nil)
	require.NoError(t, err)
	assert.Equal(t, ir.IRInt(3), got)
}

func TestSum_Errors(t *testing.T) {
	_, err := Sum{}.Apply(ir.IRInt(math.MaxInt32), ir.IRInt(1))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Sum{}.Apply(ir.IRLong(math.MaxInt64), ir.IRLong(1))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Sum{}.Apply(ir.IRInt(1), ir.IRLong(1))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Sum{}.Apply(ir.IRString("a"), ir.IRString("b"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestMaxMinFirst(t *testing.T) {
	got, err := Max{}.Apply(ir.IRLong(3), ir.IRLong(9))
	require.NoError(t, err)
	assert.Equal(t, ir.IRLong(9), got)

	got, err = Min{}.Apply(ir.IRLong(3), ir.IRLong(9))
	require.NoError(t, err)
	assert.Equal(t, ir.IRLong(3), got)

	got, err = First{}.Apply(ir.IRString("a"), ir.IRString("b"))
	require.NoError(t, err)
	assert.Equal(t, ir.IRString("a"), got)

	got, err = First{}.Apply(ir.IRNull{}, ir.IRString("b"))
	require.NoError(t, err)
	assert.Equal(t, ir.IRString("b"), got)

	_, err = Max{}.Apply(ir.IRBool(true), ir.IRBool(false))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestAggregator_Operator(t *testing.T) {
	var nilAgg *Aggregator
	_, ok := nilAgg.Operator("count")
	assert.False(t, ok)

	agg := &Aggregator{Operators: map[string]BinaryOperator{"count": Max{}}}
	op, ok := agg.Operator("count")
	require.True(t, ok)
	assert.Equal(t, Max{}, op)
}

func TestNewOperator(t *testing.T) {
	for _, name := range []string{"Sum", "Max", "Min", "First"} {
		_, err := NewOperator(name)
		assert.NoError(t, err, name)
	}
	_, err := NewOperator("Avg")
	assert.ErrorIs(t, err, ErrUnknownName)
}
