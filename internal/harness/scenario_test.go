package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/count_widening.yaml")
	require.NoError(t, err)

	assert.Equal(t, "count_widening", s.Name)
	assert.Equal(t, filepath.Join("testdata", "specs", "graph.cue"), s.Spec)
	assert.Len(t, s.Elements, 5)
	require.Len(t, s.Cases, 5)

	first := s.Cases[0]
	assert.Equal(t, "NEW", first.Direction)
	require.NotNil(t, first.View)
	assert.Contains(t, first.View.Entities, "entityOld")
	assert.Len(t, first.Expect, 2)

	seeded := s.Cases[3]
	assert.Equal(t, []string{"V1"}, seeded.Seeds)
	require.NotNil(t, seeded.ExpectCount)
	assert.Equal(t, 1, *seeded.ExpectCount)
	assert.Equal(t, ErrorConfiguration, s.Cases[4].ExpectError)
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "count_widening", scenarios[0].Name)
	assert.Equal(t, "narrowing_overflow", scenarios[1].Name)
}

func TestLoadScenario_Errors(t *testing.T) {
	spec, err := filepath.Abs("testdata/specs/graph.cue")
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: d\nspec: " + spec + "\ncasess: []\n",
			msg:     "field casess not found",
		},
		{
			name:    "missing name",
			content: "description: d\nspec: " + spec + "\ncases: [{name: a}]\n",
			msg:     "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nspec: " + spec + "\ncases: [{name: a}]\n",
			msg:     "description is required",
		},
		{
			name:    "missing spec",
			content: "name: x\ndescription: d\ncases: [{name: a}]\n",
			msg:     "spec is required",
		},
		{
			name:    "spec not found",
			content: "name: x\ndescription: d\nspec: nowhere.cue\ncases: [{name: a}]\n",
			msg:     "spec file not found",
		},
		{
			name:    "no cases",
			content: "name: x\ndescription: d\nspec: " + spec + "\n",
			msg:     "cases list is required",
		},
		{
			name:    "unnamed case",
			content: "name: x\ndescription: d\nspec: " + spec + "\ncases: [{direction: OLD}]\n",
			msg:     "cases[0]: name is required",
		},
		{
			name:    "duplicate case",
			content: "name: x\ndescription: d\nspec: " + spec + "\ncases: [{name: a}, {name: a}]\n",
			msg:     `cases[1]: duplicate case name "a"`,
		},
		{
			name:    "unknown error category",
			content: "name: x\ndescription: d\nspec: " + spec + "\ncases: [{name: a, expect_error: boom}]\n",
			msg:     `unknown expect_error "boom"`,
		},
		{
			name:    "error with elements",
			content: "name: x\ndescription: d\nspec: " + spec + "\ncases: [{name: a, expect_error: transform, expect: [{kind: entity, group: plain, vertex: P}]}]\n",
			msg:     "cannot be combined",
		},
		{
			name:    "negative count",
			content: "name: x\ndescription: d\nspec: " + spec + "\ncases: [{name: a, expect_count: -1}]\n",
			msg:     "expect_count must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "s.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
