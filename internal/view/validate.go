package view

import (
	"fmt"
	"sort"

	"github.com/roach88/schemamig/internal/ir"
)

// ValidationResult reports problems found in a view.
//
// Errors make the view unusable against the schema (the store would reject
// it). Warnings flag stages that will select properties the group does not
// declare; those stages see IRNull or fail at transform time.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate checks a view against a schema. Groups are visited in sorted
// order so messages are deterministic.
//
// Validate is a pure function with no side effects.
func Validate(v *View, s *ir.Schema) ValidationResult {
	val := &validator{schema: s}
	for _, kind := range ir.Kinds {
		for _, group := range v.Groups(kind) {
			def, _ := v.Get(kind, group)
			val.validateGroup(kind, group, def)
		}
	}
	return ValidationResult{
		Valid:    len(val.errors) == 0,
		Errors:   val.errors,
		Warnings: val.warnings,
	}
}

type validator struct {
	schema   *ir.Schema
	errors   []string
	warnings []string
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateGroup(kind ir.Kind, group string, def ElementDefinition) {
	gd, ok := v.schema.Group(kind, group)
	if !ok {
		v.addError("%s group %q is not declared in the schema", kind, group)
		return
	}

	if err := def.Transformer.Validate(); err != nil {
		v.addError("%s group %q: %v", kind, group, err)
	}
	for i, s := range def.PreAggregationFilter.Steps {
		if s.Predicate == nil {
			v.addError("%s group %q: pre-aggregation filter step %d has no predicate", kind, group, i)
		}
	}

	// Properties projected by the transformer are legitimately visible to
	// later transform steps and to the post-transform filter.
	projected := make(map[string]bool)
	for _, s := range def.Transformer.Steps {
		for _, p := range s.Selection {
			if _, declared := gd.Properties[p]; !declared && !projected[p] {
				v.addWarning("%s group %q: transformer selects undeclared property %q", kind, group, p)
			}
		}
		projected[s.Projection] = true
	}

	check := func(stage string, props []string, extra map[string]bool) {
		for _, p := range props {
			if _, declared := gd.Properties[p]; declared || extra[p] {
				continue
			}
			v.addWarning("%s group %q: %s selects undeclared property %q", kind, group, stage, p)
		}
	}
	check("pre-aggregation filter", def.PreAggregationFilter.Selected(), nil)
	check("post-aggregation filter", def.PostAggregationFilter.Selected(), nil)
	check("post-transform filter", def.PostTransformFilter.Selected(), projected)
	if def.Aggregator != nil {
		ops := make([]string, 0, len(def.Aggregator.Operators))
		for p := range def.Aggregator.Operators {
			ops = append(ops, p)
		}
		sort.Strings(ops)
		for _, p := range ops {
			if _, declared := gd.Properties[p]; !declared {
				v.addWarning("%s group %q: aggregator overrides undeclared property %q", kind, group, p)
			}
		}
	}
}
