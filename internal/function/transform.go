package function

import (
	"fmt"

	"github.com/roach88/schemamig/internal/ir"
)

// Step is one select -> function -> project stage of a Transformer.
type Step struct {
	Selection  []string // properties passed to Function, in order
	Function   Function
	Projection string // property the result is written to
}

// Transformer applies its steps in order. Each step sees the output of the
// previous one, so a later step may select a property an earlier step
// projected.
type Transformer struct {
	Steps []Step
}

// Transform creates a single-step transformer.
//
//	function.Transform([]string{"count"}, function.ToLong{}, "count")
func Transform(selection []string, fn Function, projection string) Transformer {
	return Transformer{}.Then(selection, fn, projection)
}

// Clone returns a deep copy of t. Functions are values and are shared.
func (t Transformer) Clone() Transformer {
	if t.Steps == nil {
		return Transformer{}
	}
	steps := make([]Step, len(t.Steps))
	for i, s := range t.Steps {
		steps[i] = Step{
			Selection:  append([]string(nil), s.Selection...),
			Function:   s.Function,
			Projection: s.Projection,
		}
	}
	return Transformer{Steps: steps}
}

// Then returns a copy of t with one more step appended.
func (t Transformer) Then(selection []string, fn Function, projection string) Transformer {
	steps := make([]Step, len(t.Steps), len(t.Steps)+1)
	copy(steps, t.Steps)
	steps = append(steps, Step{
		Selection:  append([]string(nil), selection...),
		Function:   fn,
		Projection: projection,
	})
	return Transformer{Steps: steps}
}

// IsEmpty reports whether the transformer has no steps.
func (t Transformer) IsEmpty() bool {
	return len(t.Steps) == 0
}

// Validate checks that every step has a function and a projection.
func (t Transformer) Validate() error {
	for i, s := range t.Steps {
		if s.Function == nil {
			return fmt.Errorf("transform step %d: function is required", i)
		}
		if s.Projection == "" {
			return fmt.Errorf("transform step %d: projection is required", i)
		}
	}
	return nil
}

// Selected returns every property selected by any step, in step order.
func (t Transformer) Selected() []string {
	var out []string
	for _, s := range t.Steps {
		out = append(out, s.Selection...)
	}
	return out
}

// Apply runs the steps over a copy of props and returns the copy.
// props itself is never modified.
//
// A selected property that is absent fails with ErrMissingProperty.
func (t Transformer) Apply(props ir.Properties) (ir.Properties, error) {
	out := props.Clone()
	for i, s := range t.Steps {
		args := make([]ir.IRValue, len(s.Selection))
		for j, name := range s.Selection {
			v, ok := out[name]
			if !ok {
				return nil, fmt.Errorf("transform step %d: %w: %q", i, ErrMissingProperty, name)
			}
			args[j] = v
		}
		result, err := s.Function.Apply(args...)
		if err != nil {
			return nil, fmt.Errorf("transform step %d: %w", i, err)
		}
		out[s.Projection] = result
	}
	return out, nil
}
