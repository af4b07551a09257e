package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemamig/internal/compiler"
)

func TestValidateValidSpec(t *testing.T) {
	out, err := execute(t, "validate", graphSpec)
	require.NoError(t, err)

	assert.Contains(t, out, "\u2713 Spec valid")
	assert.Contains(t, out, "types: 4, entities: 3, edges: 2")
	assert.Contains(t, out, "migrations: 2, output: NEW")
}

func TestValidateValidSpecJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", graphSpec)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ValidationResult{
		Valid: true, Types: 4, Entities: 3, Edges: 2, Migrations: 2, Output: "NEW",
	}, resp.Data)
}

func TestValidateNotFound(t *testing.T) {
	out, err := execute(t, "validate", "/nonexistent/graph.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]: spec not found")
}

func TestValidateInvalidSpec(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{
			name:  "undeclared group",
			body:  "entities: a: properties: count: \"int\"\nmigrations: entities: [{old: \"a\", new: \"missing\"}]\n",
			code:  compiler.ErrUndeclaredGroup,
			field: "migrations.entities[0].new",
		},
		{
			name:  "structural",
			body:  "entities: a: properties: count: 3\n",
			code:  ErrCodeCompile,
			field: "entities.a.properties.count",
		},
		{
			name:  "self paired",
			body:  "entities: a: properties: count: \"int\"\nmigrations: entities: [{old: \"a\", new: \"a\"}]\n",
			code:  "SELF_PAIRED",
			field: "migrations.entity.a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "graph.cue", specTypes+tt.body)

			out, err := execute(t, "validate", path)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "\u2717 Validation failed")
			assert.Contains(t, out, tt.code+": "+tt.field)
		})
	}
}

func TestValidateSyntaxErrorReportsLine(t *testing.T) {
	path := writeFile(t, t.TempDir(), "graph.cue", specTypes+"entities: {\n")

	out, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.NotEmpty(t, resp.Data.Errors)
	assert.Equal(t, ErrCodeCompile, resp.Data.Errors[0].Code)
	assert.Equal(t, "cue", resp.Data.Errors[0].Field)
	assert.Positive(t, resp.Data.Errors[0].Line)
}
