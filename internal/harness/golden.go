package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as deterministic text: one block per case,
// elements sorted by their rendered form.
//
//	scenario: count_widening
//	case: old view as new PASS
//	  direction: NEW
//	  entity entityNew vertex=V1 {count=10L}
func Snapshot(result *Result) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario: %s\n", result.Name)

	for _, c := range result.Cases {
		status := "PASS"
		if !c.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&buf, "case: %s %s\n", c.Name, status)
		if c.Direction != "" {
			fmt.Fprintf(&buf, "  direction: %s\n", c.Direction)
		}
		if len(c.Seeds) > 0 {
			fmt.Fprintf(&buf, "  seeds: %s\n", strings.Join(c.Seeds, ", "))
		}
		for _, line := range sortedLines(c.Elements) {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
		if c.ErrorCategory != "" {
			fmt.Fprintf(&buf, "  error: %s\n", c.ErrorCategory)
		}
		for _, msg := range c.Errors {
			first, _, _ := strings.Cut(msg, "\n")
			fmt.Fprintf(&buf, "  failed: %s\n", first)
		}
	}

	return buf.String()
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(Snapshot(result)))
}
