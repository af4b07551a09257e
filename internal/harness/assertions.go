package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/migrate"
)

// AssertionError is returned when an expectation fails.
// It includes the returned elements to help debug the failure.
type AssertionError struct {
	Type     string       // expectation that failed
	Expected string       // human-readable expected outcome
	Actual   string       // human-readable actual outcome
	Elements []ir.Element // everything the query yielded
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nReturned elements:\n")
	for i, line := range sortedLines(e.Elements) {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, line)
	}

	return buf.String()
}

// Expectation type names used in AssertionError.Type.
const (
	AssertExpect         = "expect"
	AssertExpectContains = "expect_contains"
	AssertExpectCount    = "expect_count"
	AssertExpectError    = "expect_error"
)

// evaluateCase checks a query outcome against every expectation of c.
// Returns all failures (does not fail-fast).
func evaluateCase(c Case, want, contains []ir.Element, got []ir.Element, queryErr error) []error {
	var errs []error

	if err := assertError(c.ExpectError, queryErr, got); err != nil {
		errs = append(errs, err)
	}
	if len(c.Expect) > 0 {
		if err := assertExpect(want, got); err != nil {
			errs = append(errs, err)
		}
	}
	if len(contains) > 0 {
		if err := assertContains(contains, got); err != nil {
			errs = append(errs, err)
		}
	}
	if c.ExpectCount != nil {
		if err := assertCount(*c.ExpectCount, got); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// assertError checks that the query failed with the expected category, or
// did not fail when none is expected.
func assertError(category string, err error, got []ir.Element) error {
	actual := classifyError(err)
	if actual == category {
		return nil
	}

	expected := "no error"
	if category != "" {
		expected = category + " error"
	}
	actualDesc := "no error"
	if err != nil {
		actualDesc = fmt.Sprintf("%s error: %v", actual, err)
	}
	return &AssertionError{Type: AssertExpectError, Expected: expected, Actual: actualDesc, Elements: got}
}

// classifyError maps a query error to an expect_error category. Errors of
// neither migration category classify as "other".
func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case migrate.IsTransformError(err):
		return ErrorTransform
	case migrate.IsConfigurationError(err):
		return ErrorConfiguration
	default:
		return "other"
	}
}

// assertExpect checks multiset equality of elements, ignoring order.
func assertExpect(want, got []ir.Element) error {
	missing, extra := diffElements(want, got)
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertExpect,
		Expected: fmt.Sprintf("%d elements", len(want)),
		Actual:   describeDiff(missing, extra),
		Elements: got,
	}
}

// assertContains checks that every wanted element was returned.
func assertContains(want, got []ir.Element) error {
	missing, _ := diffElements(want, got)
	if len(missing) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertExpectContains,
		Expected: fmt.Sprintf("result containing %d elements", len(want)),
		Actual:   describeDiff(missing, nil),
		Elements: got,
	}
}

// assertCount checks the exact number of returned elements.
func assertCount(want int, got []ir.Element) error {
	if len(got) == want {
		return nil
	}
	return &AssertionError{
		Type:     AssertExpectCount,
		Expected: fmt.Sprintf("%d elements", want),
		Actual:   fmt.Sprintf("%d elements", len(got)),
		Elements: got,
	}
}

// diffElements compares elements by their rendered form, which covers
// kind, group, identity and typed property values.
func diffElements(want, got []ir.Element) (missing, extra []string) {
	counts := make(map[string]int, len(got))
	for _, e := range got {
		counts[e.String()]++
	}
	for _, e := range want {
		key := e.String()
		if counts[key] > 0 {
			counts[key]--
			continue
		}
		missing = append(missing, key)
	}
	for key, n := range counts {
		for ; n > 0; n-- {
			extra = append(extra, key)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func describeDiff(missing, extra []string) string {
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, "; "))
	}
	if len(extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(extra, "; "))
	}
	return strings.Join(parts, ", ")
}

func sortedLines(elements []ir.Element) []string {
	lines := make([]string, len(elements))
	for i, e := range elements {
		lines[i] = e.String()
	}
	sort.Strings(lines)
	return lines
}
