package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/schemamig/internal/store"
	"github.com/roach88/schemamig/internal/view"
)

// Scenario defines a migration test scenario: a spec, the elements stored
// under it, and the queries to run against them.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Spec is the path to the CUE graph spec. A relative path is resolved
	// against the scenario file's directory by LoadScenario.
	Spec string `yaml:"spec"`

	// Elements are stored before any case runs.
	Elements []store.ElementDoc `yaml:"elements"`

	// Cases are independent queries over the stored elements.
	Cases []Case `yaml:"cases"`
}

// Case is one query and its expectations.
type Case struct {
	Name string `yaml:"name"`

	// Direction overrides the spec's output type for this query ("OLD" or
	// "NEW"). It is passed through as an operation option, so an invalid
	// value surfaces as a configuration error at query time.
	Direction string `yaml:"direction,omitempty"`

	// Seeds selects GetElements; with no seeds the case runs GetAllElements.
	Seeds []string `yaml:"seeds,omitempty"`

	// View restricts and filters the query. Nil queries every group.
	View *view.Document `yaml:"view,omitempty"`

	Expect         []store.ElementDoc `yaml:"expect,omitempty"`
	ExpectContains []store.ElementDoc `yaml:"expect_contains,omitempty"`
	ExpectCount    *int               `yaml:"expect_count,omitempty"`
	ExpectError    string             `yaml:"expect_error,omitempty"`
}

// Error categories accepted by expect_error.
const (
	ErrorTransform     = "transform"
	ErrorConfiguration = "configuration"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the spec path BEFORE validation
	if scenario.Spec != "" && !filepath.IsAbs(scenario.Spec) {
		scenario.Spec = filepath.Join(filepath.Dir(path), scenario.Spec)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file of dir, sorted by file
// name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Spec == "" {
		return fmt.Errorf("spec is required")
	}
	if _, err := os.Stat(s.Spec); os.IsNotExist(err) {
		return fmt.Errorf("spec file not found: %s", s.Spec)
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if err := validateCase(i, &c); err != nil {
			return err
		}
		if names[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		names[c.Name] = true
	}

	return nil
}

// validateCase validates a single case's expectations.
func validateCase(index int, c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("cases[%d]: name is required", index)
	}

	switch c.ExpectError {
	case "", ErrorTransform, ErrorConfiguration:
	default:
		return fmt.Errorf("cases[%d]: unknown expect_error %q", index, c.ExpectError)
	}

	if c.ExpectError != "" && (len(c.Expect) > 0 || len(c.ExpectContains) > 0) {
		return fmt.Errorf("cases[%d]: expect_error cannot be combined with expected elements", index)
	}

	if c.ExpectCount != nil && *c.ExpectCount < 0 {
		return fmt.Errorf("cases[%d]: expect_count must be non-negative", index)
	}

	return nil
}
