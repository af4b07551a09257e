package testutil

import (
	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/ir"
)

// Group names of the migration fixture. The old groups store count as a
// 32-bit integer, the new groups as a 64-bit integer. Plain has no
// migration.
const (
	EntityOld = "entityOld"
	EntityNew = "entityNew"
	EdgeOld   = "edgeOld"
	EdgeNew   = "edgeNew"
	Plain     = "plain"
)

// MigrationSchema returns the schema of the fixture groups. Both integer
// types aggregate with Sum.
func MigrationSchema() *ir.Schema {
	s := ir.NewSchema()
	s.AddType(ir.TypeDef{Name: "string", Class: ir.ClassString})
	s.AddType(ir.TypeDef{Name: "int", Class: ir.ClassInt, Aggregate: "Sum"})
	s.AddType(ir.TypeDef{Name: "long", Class: ir.ClassLong, Aggregate: "Sum"})

	old := map[string]string{"count": "int"}
	wide := map[string]string{"count": "long"}
	s.AddGroup(ir.GroupDef{Kind: ir.KindEntity, Name: EntityOld, Properties: old})
	s.AddGroup(ir.GroupDef{Kind: ir.KindEntity, Name: EntityNew, Properties: wide})
	s.AddGroup(ir.GroupDef{Kind: ir.KindEdge, Name: EdgeOld, Properties: old})
	s.AddGroup(ir.GroupDef{Kind: ir.KindEdge, Name: EdgeNew, Properties: wide})
	s.AddGroup(ir.GroupDef{Kind: ir.KindEntity, Name: Plain, Properties: map[string]string{"count": "int", "name": "string"}})
	return s
}

// CountToLong widens count.
func CountToLong() function.Transformer {
	return function.Transform([]string{"count"}, function.ToLong{}, "count")
}

// CountToInteger narrows count.
func CountToInteger() function.Transformer {
	return function.Transform([]string{"count"}, function.ToInteger{}, "count")
}

// OldEntity creates an entityOld element.
func OldEntity(vertex string, count int32) ir.Element {
	return ir.NewEntity(EntityOld, vertex, ir.Properties{"count": ir.IRInt(count)})
}

// NewEntity creates an entityNew element.
func NewEntity(vertex string, count int64) ir.Element {
	return ir.NewEntity(EntityNew, vertex, ir.Properties{"count": ir.IRLong(count)})
}

// OldEdge creates a directed edgeOld element.
func OldEdge(source, destination string, count int32) ir.Element {
	return ir.NewEdge(EdgeOld, source, destination, true, ir.Properties{"count": ir.IRInt(count)})
}

// NewEdge creates a directed edgeNew element.
func NewEdge(source, destination string, count int64) ir.Element {
	return ir.NewEdge(EdgeNew, source, destination, true, ir.Properties{"count": ir.IRLong(count)})
}

// PlainEntity creates an element of the unmigrated group.
func PlainEntity(vertex string, count int32) ir.Element {
	return ir.NewEntity(Plain, vertex, ir.Properties{"count": ir.IRInt(count)})
}
