package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_DefaultOutputFromSpec(t *testing.T) {
	db := seededDB(t)

	out, err := execute(t, "query", "--db", db, "--spec", graphSpec)
	require.NoError(t, err)
	assert.Contains(t, out, "entity entityNew vertex=V1 {count=4L}\n")
	assert.Contains(t, out, "entity entityNew vertex=V2 {count=5L}\n")
	assert.Contains(t, out, "edge edgeNew source=V1 destination=V2 directed=true {count=1L}\n")
	assert.Contains(t, out, "3 element(s), output NEW\n")
	assert.NotContains(t, out, "entityOld")
}

func TestQuery_OutputOld(t *testing.T) {
	db := seededDB(t)

	out, err := execute(t, "query", "--db", db, "--spec", graphSpec, "--output", "old")
	require.NoError(t, err)
	assert.Contains(t, out, "entity entityOld vertex=V1 {count=4}\n")
	assert.Contains(t, out, "entity entityOld vertex=V2 {count=5}\n")
	assert.Contains(t, out, "3 element(s), output OLD\n")
}

func TestQuery_Seeds(t *testing.T) {
	db := seededDB(t)

	out, err := execute(t, "--format", "json", "query", "--db", db, "--spec", graphSpec, "--seed", "V2", "--output", "OLD")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Count    int `json:"count"`
			Elements []struct {
				Kind       string         `json:"kind"`
				Group      string         `json:"group"`
				Vertex     string         `json:"vertex"`
				Properties map[string]any `json:"properties"`
			} `json:"elements"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Count)

	groups := make([]string, 0, len(resp.Data.Elements))
	for _, e := range resp.Data.Elements {
		groups = append(groups, e.Group)
	}
	assert.ElementsMatch(t, []string{"entityOld", "edgeOld"}, groups)
}

func TestQuery_View(t *testing.T) {
	db := seededDB(t)
	viewPath := writeFile(t, t.TempDir(), "view.yaml", "entities:\n  entityOld: {}\n")

	out, err := execute(t, "query", "--db", db, "--spec", graphSpec, "--view", viewPath)
	require.NoError(t, err)
	assert.Contains(t, out, "entity entityNew vertex=V1 {count=4L}\n")
	assert.Contains(t, out, "entity entityNew vertex=V2 {count=5L}\n")
	assert.Contains(t, out, "2 element(s), output NEW\n")
	assert.NotContains(t, out, "edge")
}

func TestQuery_Errors(t *testing.T) {
	db := seededDB(t)

	_, err := execute(t, "query", "--db", db, "--spec", graphSpec, "--output", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")

	out, err := execute(t, "query", "--db", db, "--spec", graphSpec, "--view", "missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed to load view")

	_, err = execute(t, "query", "--spec", graphSpec)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
