package view

import (
	"sort"

	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/ir"
)

// ElementDefinition configures how the store evaluates one group.
// The zero value returns every element of the group unfiltered, aggregated
// with the schema defaults.
type ElementDefinition struct {
	PreAggregationFilter  function.Filter
	Aggregator            *function.Aggregator // overrides schema aggregation per property
	PostAggregationFilter function.Filter
	Transformer           function.Transformer
	PostTransformFilter   function.Filter
}

// Clone returns a copy that shares no step slices or aggregator map with d.
// Predicates, functions and operators are immutable and are shared.
func (d ElementDefinition) Clone() ElementDefinition {
	out := ElementDefinition{
		PreAggregationFilter:  cloneFilter(d.PreAggregationFilter),
		PostAggregationFilter: cloneFilter(d.PostAggregationFilter),
		Transformer:           d.Transformer.Clone(),
		PostTransformFilter:   cloneFilter(d.PostTransformFilter),
	}
	if d.Aggregator != nil {
		ops := make(map[string]function.BinaryOperator, len(d.Aggregator.Operators))
		for k, op := range d.Aggregator.Operators {
			ops[k] = op
		}
		out.Aggregator = &function.Aggregator{Operators: ops}
	}
	return out
}

// Selected returns every stored property referenced by d: filters up to
// aggregation, aggregator overrides and transformer selections.
func (d ElementDefinition) Selected() []string {
	var out []string
	out = append(out, d.PreAggregationFilter.Selected()...)
	if d.Aggregator != nil {
		keys := make([]string, 0, len(d.Aggregator.Operators))
		for k := range d.Aggregator.Operators {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out = append(out, keys...)
	}
	out = append(out, d.PostAggregationFilter.Selected()...)
	out = append(out, d.Transformer.Selected()...)
	return out
}

func cloneFilter(f function.Filter) function.Filter {
	if f.Steps == nil {
		return function.Filter{}
	}
	steps := make([]function.FilterStep, len(f.Steps))
	for i, s := range f.Steps {
		steps[i] = function.FilterStep{
			Selection: append([]string(nil), s.Selection...),
			Predicate: s.Predicate,
		}
	}
	return function.Filter{Steps: steps}
}

// View maps group names to their definitions, per element kind.
type View struct {
	Entities map[string]ElementDefinition
	Edges    map[string]ElementDefinition
}

// New creates an empty view.
func New() *View {
	return &View{
		Entities: make(map[string]ElementDefinition),
		Edges:    make(map[string]ElementDefinition),
	}
}

func (v *View) defs(kind ir.Kind) map[string]ElementDefinition {
	if kind == ir.KindEdge {
		return v.Edges
	}
	return v.Entities
}

// Set adds or replaces the definition of a group. Returns v for chaining.
func (v *View) Set(kind ir.Kind, group string, def ElementDefinition) *View {
	if kind == ir.KindEdge {
		if v.Edges == nil {
			v.Edges = make(map[string]ElementDefinition)
		}
		v.Edges[group] = def
		return v
	}
	if v.Entities == nil {
		v.Entities = make(map[string]ElementDefinition)
	}
	v.Entities[group] = def
	return v
}

// Get returns the definition of a group.
func (v *View) Get(kind ir.Kind, group string) (ElementDefinition, bool) {
	if v == nil {
		return ElementDefinition{}, false
	}
	def, ok := v.defs(kind)[group]
	return def, ok
}

// Has reports whether the view names a group.
func (v *View) Has(kind ir.Kind, group string) bool {
	_, ok := v.Get(kind, group)
	return ok
}

// Groups returns the group names of a kind in sorted order.
func (v *View) Groups(kind ir.Kind) []string {
	if v == nil {
		return nil
	}
	m := v.defs(kind)
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty reports whether the view names no group.
func (v *View) IsEmpty() bool {
	return v == nil || (len(v.Entities) == 0 && len(v.Edges) == 0)
}

// Clone returns a deep copy of v. Cloning nil returns nil.
func (v *View) Clone() *View {
	if v == nil {
		return nil
	}
	out := New()
	for _, kind := range ir.Kinds {
		for name, def := range v.defs(kind) {
			out.Set(kind, name, def.Clone())
		}
	}
	return out
}

// Merge returns a copy of v with every group of other added. Groups named
// by both keep v's definition.
func (v *View) Merge(other *View) *View {
	out := v.Clone()
	if out == nil {
		out = New()
	}
	if other == nil {
		return out
	}
	for _, kind := range ir.Kinds {
		for name, def := range other.defs(kind) {
			if !out.Has(kind, name) {
				out.Set(kind, name, def.Clone())
			}
		}
	}
	return out
}

// ForSchema returns a view naming every group of s with an empty
// definition.
func ForSchema(s *ir.Schema) *View {
	out := New()
	for _, kind := range ir.Kinds {
		for _, name := range s.Groups(kind) {
			out.Set(kind, name, ElementDefinition{})
		}
	}
	return out
}
