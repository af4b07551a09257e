package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/ir"
)

func testSchema() *ir.Schema {
	s := ir.NewSchema()
	s.AddType(ir.TypeDef{Name: "int", Class: ir.ClassInt, Aggregate: "Sum"})
	s.AddGroup(ir.GroupDef{Kind: ir.KindEntity, Name: "entityOld", Properties: map[string]string{"count": "int"}})
	s.AddGroup(ir.GroupDef{Kind: ir.KindEdge, Name: "edgeOld", Properties: map[string]string{"count": "int"}})
	return s
}

func TestValidate_Valid(t *testing.T) {
	v := New().
		Set(ir.KindEntity, "entityOld", countAbove(1)).
		Set(ir.KindEdge, "edgeOld", ElementDefinition{})

	res := Validate(v, testSchema())
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_UnknownGroup(t *testing.T) {
	v := New().
		Set(ir.KindEntity, "missing", ElementDefinition{}).
		Set(ir.KindEntity, "edgeOld", ElementDefinition{})

	res := Validate(v, testSchema())
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], `entity group "edgeOld" is not declared`)
	assert.Contains(t, res.Errors[1], `entity group "missing" is not declared`)
}

func TestValidate_UndeclaredPropertyWarns(t *testing.T) {
	def := ElementDefinition{
		PreAggregationFilter: function.Where([]string{"weight"}, function.Exists{}),
	}
	res := Validate(New().Set(ir.KindEntity, "entityOld", def), testSchema())
	assert.True(t, res.Valid, "warnings do not invalidate")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], `pre-aggregation filter selects undeclared property "weight"`)
}

func TestValidate_ProjectedPropertiesAreVisible(t *testing.T) {
	def := ElementDefinition{
		Transformer: function.Transform([]string{"count"}, function.ToLong{}, "total").
			Then([]string{"total"}, function.ToString{}, "label"),
		PostTransformFilter: function.Where([]string{"label"}, function.Exists{}),
	}
	res := Validate(New().Set(ir.KindEntity, "entityOld", def), testSchema())
	assert.True(t, res.Valid)
	assert.Empty(t, res.Warnings)
}

func TestValidate_BrokenTransformer(t *testing.T) {
	def := ElementDefinition{
		Transformer: function.Transformer{Steps: []function.Step{{Selection: []string{"count"}}}},
	}
	res := Validate(New().Set(ir.KindEntity, "entityOld", def), testSchema())
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "function is required")
}
