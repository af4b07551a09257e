package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/migrate"
	"github.com/roach88/schemamig/internal/testutil"
)

func TestAssertExpect_IgnoresOrder(t *testing.T) {
	a := testutil.NewEntity("V1", 1)
	b := testutil.NewEntity("V2", 2)
	assert.NoError(t, assertExpect([]ir.Element{a, b}, []ir.Element{b, a}))
}

func TestAssertExpect_CountsDuplicates(t *testing.T) {
	a := testutil.NewEntity("V1", 1)
	err := assertExpect([]ir.Element{a}, []ir.Element{a, a})
	require.Error(t, err)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertExpect, ae.Type)
	assert.Equal(t, "unexpected entity entityNew vertex=V1 {count=1L}", ae.Actual)
}

func TestAssertExpect_DistinguishesWidth(t *testing.T) {
	err := assertExpect([]ir.Element{testutil.NewEntity("V1", 10)}, []ir.Element{
		ir.NewEntity(testutil.EntityNew, "V1", ir.Properties{"count": ir.IRInt(10)}),
	})
	assert.Error(t, err)
}

func TestAssertContains(t *testing.T) {
	a := testutil.OldEntity("V1", 1)
	b := testutil.OldEntity("V2", 2)
	assert.NoError(t, assertContains([]ir.Element{a}, []ir.Element{a, b}))

	err := assertContains([]ir.Element{testutil.OldEntity("V3", 3)}, []ir.Element{a})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing entity entityOld vertex=V3 {count=3}")
	assert.Contains(t, err.Error(), "[1] entity entityOld vertex=V1 {count=1}")
}

func TestAssertCount(t *testing.T) {
	assert.NoError(t, assertCount(0, nil))
	err := assertCount(2, []ir.Element{testutil.OldEntity("V1", 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Actual: 1 elements")
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "", classifyError(nil))
	assert.Equal(t, ErrorTransform, classifyError(&migrate.TransformError{Err: errors.New("x")}))
	assert.Equal(t, ErrorConfiguration, classifyError(&migrate.ConfigurationError{Code: migrate.ErrCodeInvalidOutputType}))
	assert.Equal(t, "other", classifyError(errors.New("disk")))
}

func TestAssertError(t *testing.T) {
	assert.NoError(t, assertError("", nil, nil))
	assert.NoError(t, assertError(ErrorTransform, &migrate.TransformError{Err: errors.New("x")}, nil))

	err := assertError(ErrorConfiguration, errors.New("disk"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: configuration error")
	assert.Contains(t, err.Error(), "Actual: other error: disk")
}
