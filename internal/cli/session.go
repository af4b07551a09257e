package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/roach88/schemamig/internal/compiler"
	"github.com/roach88/schemamig/internal/graph"
	"github.com/roach88/schemamig/internal/migrate"
	"github.com/roach88/schemamig/internal/store"
)

// StoreOptions holds the flags shared by commands that open a store.
type StoreOptions struct {
	*RootOptions
	DBPath   string // SQLite database path
	SpecPath string // CUE graph spec
}

// session is an open store behind a graph wired with the spec's migrations.
type session struct {
	spec  *compiler.GraphSpec
	store *store.Store
	hook  *migrate.Hook
	graph *graph.Graph
}

// openSession compiles the spec, opens the store and builds the graph.
// Failures are reported through formatter and returned as ExitErrors.
func openSession(opts *StoreOptions, formatter *OutputFormatter, logger *slog.Logger) (*session, error) {
	if opts.DBPath == "" {
		return nil, formatter.Fail(ExitCommandError, ErrCodeInvalidArg, "--db is required", nil)
	}
	if opts.SpecPath == "" {
		return nil, formatter.Fail(ExitCommandError, ErrCodeInvalidArg, "--spec is required", nil)
	}

	spec, err := compiler.LoadFile(opts.SpecPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("spec not found: %s", opts.SpecPath), nil)
		}
		return nil, formatter.Fail(ExitFailure, ErrCodeCompile, "failed to compile spec", err)
	}

	hook, err := spec.Hook(migrate.WithLogger(logger))
	if err != nil {
		return nil, formatter.Fail(ExitFailure, ErrCodeCompile, "failed to configure migrations", err)
	}

	st, err := store.Open(opts.DBPath, spec.Schema)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	formatter.VerboseLog("Opened store %s", opts.DBPath)

	return &session{
		spec:  spec,
		store: st,
		hook:  hook,
		graph: graph.New(st, graph.WithHooks(hook), graph.WithLogger(logger)),
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}
