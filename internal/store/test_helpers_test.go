package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/stream"
	"github.com/roach88/schemamig/internal/testutil"
)

// createTestStore opens a store over the migration fixture schema in a
// temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, testutil.MigrationSchema())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// queryAll runs q and collects the result.
func queryAll(t *testing.T, s *Store, q Query) []ir.Element {
	t.Helper()
	it, err := s.Query(context.Background(), q)
	require.NoError(t, err)
	got, err := stream.Collect(it)
	require.NoError(t, err)
	return got
}
