package function

import (
	"fmt"

	"github.com/roach88/schemamig/internal/ir"
)

// FilterStep selects properties and tests them with a predicate.
type FilterStep struct {
	Selection []string
	Predicate Predicate
}

// Filter is a conjunction of steps (empty = always true).
type Filter struct {
	Steps []FilterStep
}

// Where creates a single-step filter.
//
//	function.Where([]string{"count"}, function.IsMoreThan{Value: ir.IRInt(1)})
func Where(selection []string, p Predicate) Filter {
	return Filter{}.And(selection, p)
}

// And returns a copy of f with one more step appended.
func (f Filter) And(selection []string, p Predicate) Filter {
	steps := make([]FilterStep, len(f.Steps), len(f.Steps)+1)
	copy(steps, f.Steps)
	steps = append(steps, FilterStep{
		Selection: append([]string(nil), selection...),
		Predicate: p,
	})
	return Filter{Steps: steps}
}

// IsEmpty reports whether the filter has no steps.
func (f Filter) IsEmpty() bool {
	return len(f.Steps) == 0
}

// Selected returns every property selected by any step, in step order.
func (f Filter) Selected() []string {
	var out []string
	for _, s := range f.Steps {
		out = append(out, s.Selection...)
	}
	return out
}

// Test evaluates the filter against props. Absent properties are passed to
// predicates as IRNull; they are not an error.
func (f Filter) Test(props ir.Properties) (bool, error) {
	for i, s := range f.Steps {
		if s.Predicate == nil {
			return false, fmt.Errorf("filter step %d: predicate is required", i)
		}
		args := make([]ir.IRValue, len(s.Selection))
		for j, name := range s.Selection {
			args[j] = props.Get(name)
		}
		ok, err := s.Predicate.Test(args...)
		if err != nil {
			return false, fmt.Errorf("filter step %d: %w", i, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
