package harness

import (
	"github.com/roach88/schemamig/internal/ir"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass indicates overall success: every case passed.
	Pass bool `json:"pass"`

	// Cases holds one result per case, in scenario order.
	Cases []CaseResult `json:"cases"`
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name      string   `json:"name"`
	Direction string   `json:"direction,omitempty"`
	Seeds     []string `json:"seeds,omitempty"`
	Pass      bool     `json:"pass"`

	// Elements are the elements the query yielded before any error.
	Elements []ir.Element `json:"elements"`

	// ErrorCategory classifies the query error, if any.
	ErrorCategory string `json:"error_category,omitempty"`

	// Errors contains failed expectation messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:  name,
		Pass:  true,
		Cases: []CaseResult{},
	}
}

// AddCase records a case result. A failing case fails the scenario.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
	if !c.Pass {
		r.Pass = false
	}
}

// Errors returns the failure messages of every case, prefixed with the
// case name.
func (r *Result) Errors() []string {
	var out []string
	for _, c := range r.Cases {
		for _, msg := range c.Errors {
			out = append(out, c.Name+": "+msg)
		}
	}
	return out
}

// AddError adds a validation error and marks the case as failed.
func (c *CaseResult) AddError(err string) {
	c.Errors = append(c.Errors, err)
	c.Pass = false
}
