package graph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/store"
	"github.com/roach88/schemamig/internal/stream"
)

// Store is the element store a Graph executes against.
// Implemented by *store.Store.
type Store interface {
	Query(ctx context.Context, q store.Query) (stream.Iterator, error)
	AddElements(ctx context.Context, elements []ir.Element) error
}

// Graph dispatches operations to a store through a hook chain.
//
// A Graph is safe for concurrent use if its store and hooks are.
type Graph struct {
	store  Store
	hooks  []Hook
	ids    QueryIDGenerator
	logger *slog.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithHooks appends hooks to the chain. Hooks run in the order given.
func WithHooks(hooks ...Hook) Option {
	return func(g *Graph) {
		g.hooks = append(g.hooks, hooks...)
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = l
	}
}

// WithQueryIDGenerator sets the query ID source. Default: UUIDv7Generator.
func WithQueryIDGenerator(gen QueryIDGenerator) Option {
	return func(g *Graph) {
		g.ids = gen
	}
}

// New creates a Graph over st.
func New(st Store, opts ...Option) *Graph {
	g := &Graph{
		store:  st,
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Execute runs op through the hook chain and the store.
//
// The returned iterator must be closed by the caller. Operations that
// produce no elements (AddElements) return an empty iterator.
func (g *Graph) Execute(ctx context.Context, op Operation) (stream.Iterator, error) {
	queryID := g.ids.Generate()
	name := op.OperationName()
	logger := g.logger.With("query_id", queryID, "operation", name)
	logger.DebugContext(ctx, "executing operation", "hooks", len(g.hooks))

	for _, h := range g.hooks {
		next, err := h.PreExecute(ctx, op)
		if err != nil {
			logger.DebugContext(ctx, "pre-execute hook failed", "error", err)
			return nil, &OperationError{Code: ErrCodeHookFailed, Operation: name, QueryID: queryID, Err: err}
		}
		op = next
	}

	result, err := g.run(ctx, logger, op)
	if err != nil {
		var oe *OperationError
		if errors.As(err, &oe) {
			oe.QueryID = queryID
			return nil, oe
		}
		return nil, &OperationError{Code: ErrCodeStoreFailed, Operation: name, QueryID: queryID, Err: err}
	}

	for _, h := range g.hooks {
		next, err := h.PostExecute(ctx, op, result)
		if err != nil {
			result.Close()
			logger.DebugContext(ctx, "post-execute hook failed", "error", err)
			return nil, &OperationError{Code: ErrCodeHookFailed, Operation: name, QueryID: queryID, Err: err}
		}
		result = next
	}

	return &loggingIterator{Iterator: result, ctx: ctx, logger: logger}, nil
}

// Collect executes op and drains the result.
func (g *Graph) Collect(ctx context.Context, op Operation) ([]ir.Element, error) {
	it, err := g.Execute(ctx, op)
	if err != nil {
		return nil, err
	}
	return stream.Collect(it)
}

func (g *Graph) run(ctx context.Context, logger *slog.Logger, op Operation) (stream.Iterator, error) {
	switch o := op.(type) {
	case GetElements:
		logGroups(ctx, logger, o)
		return g.store.Query(ctx, store.Query{Seeds: o.Seeds, View: o.View})
	case GetAllElements:
		logGroups(ctx, logger, o)
		return g.store.Query(ctx, store.Query{View: o.View})
	case AddElements:
		if err := g.store.AddElements(ctx, o.Elements); err != nil {
			return nil, err
		}
		logger.DebugContext(ctx, "elements added", "count", len(o.Elements))
		return stream.Empty(), nil
	default:
		return nil, &OperationError{Code: ErrCodeUnsupported, Operation: op.OperationName()}
	}
}

func logGroups(ctx context.Context, logger *slog.Logger, op ViewOperation) {
	v := op.OperationView()
	logger.DebugContext(ctx, "querying store",
		"entity_groups", len(v.Groups(ir.KindEntity)),
		"edge_groups", len(v.Groups(ir.KindEdge)),
	)
}

// loggingIterator logs how many elements were consumed when the result is
// closed.
type loggingIterator struct {
	stream.Iterator
	ctx    context.Context
	logger *slog.Logger
	count  int
	closed bool
}

func (it *loggingIterator) Next() bool {
	if it.Iterator.Next() {
		it.count++
		return true
	}
	return false
}

func (it *loggingIterator) Close() error {
	if !it.closed {
		it.closed = true
		it.logger.DebugContext(it.ctx, "operation finished", "elements", it.count, "error", it.Iterator.Err())
	}
	return it.Iterator.Close()
}
