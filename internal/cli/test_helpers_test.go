package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const graphSpec = "../harness/testdata/specs/graph.cue"

const specTypes = `package graph

types: {
	string: {class: "string"}
	int: {class: "int", aggregate: "Sum"}
	long: {class: "long", aggregate: "Sum"}
}
`

// execute runs the root command with args and returns stdout. Stderr
// is discarded.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
