package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countElements = `- {kind: entity, group: entityOld, vertex: V1, properties: {count: 4}}
- {kind: entity, group: entityNew, vertex: V2, properties: {count: 5}}
- {kind: edge, group: edgeOld, source: V1, destination: V2, directed: true, properties: {count: 1}}
`

// seededDB stores countElements in a new database and returns its path.
func seededDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	db := filepath.Join(dir, "graph.db")
	elements := writeFile(t, dir, "elements.yaml", countElements)

	_, err := execute(t, "add", "--db", db, "--spec", graphSpec, elements)
	require.NoError(t, err)
	return db
}

func TestAdd(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "graph.db")
	elements := writeFile(t, dir, "elements.yaml", countElements)

	out, err := execute(t, "add", "--db", db, "--spec", graphSpec, elements)
	require.NoError(t, err)
	assert.Equal(t, "Added 3 element(s), 3 stored\n", out)

	out, err = execute(t, "--format", "json", "add", "--db", db, "--spec", graphSpec, elements)
	require.NoError(t, err)
	var resp struct {
		Data AddResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, AddResult{Added: 3, Total: 6}, resp.Data)
}

func TestAdd_Errors(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "graph.db")

	tests := []struct {
		name     string
		args     []string
		exitCode int
		output   string
	}{
		{"missing db", []string{"add", "--spec", graphSpec, "x.yaml"}, ExitCommandError, "--db is required"},
		{"missing spec", []string{"add", "--db", db, "x.yaml"}, ExitCommandError, "--spec is required"},
		{"spec not found", []string{"add", "--db", db, "--spec", "nope.cue", "x.yaml"}, ExitCommandError, "spec not found"},
		{"elements not found", []string{"add", "--db", db, "--spec", graphSpec, filepath.Join(dir, "x.yaml")}, ExitFailure, "failed to load elements"},
		{
			"undeclared group",
			[]string{"add", "--db", db, "--spec", graphSpec, writeFile(t, dir, "bad.yaml", "- {kind: entity, group: nope, vertex: V1}\n")},
			ExitFailure,
			"failed to store elements",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, out, tt.output)
		})
	}
}
