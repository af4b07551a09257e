package graph

import (
	"context"
	"maps"

	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/stream"
	"github.com/roach88/schemamig/internal/view"
)

// Operation is a request executed by a Graph.
type Operation interface {
	OperationName() string
}

// ViewOperation is an element-bearing query that carries a view and
// free-form options. Hooks rewrite the view through WithView; the
// operation value itself is never modified.
type ViewOperation interface {
	Operation
	OperationView() *view.View
	WithView(v *view.View) Operation
	OperationOptions() map[string]string
}

// GetElements returns the elements reachable from the seed vertices:
// entities whose vertex is a seed and edges touching a seed.
// A nil View queries every schema group without filters.
type GetElements struct {
	Seeds   []string
	View    *view.View
	Options map[string]string
}

func (GetElements) OperationName() string { return "GetElements" }

func (op GetElements) OperationView() *view.View { return op.View }

func (op GetElements) OperationOptions() map[string]string { return op.Options }

// WithView returns a copy of op carrying v.
func (op GetElements) WithView(v *view.View) Operation {
	out := op
	out.Seeds = append([]string(nil), op.Seeds...)
	out.Options = maps.Clone(op.Options)
	out.View = v
	return out
}

// GetAllElements returns every element matched by the view.
type GetAllElements struct {
	View    *view.View
	Options map[string]string
}

func (GetAllElements) OperationName() string { return "GetAllElements" }

func (op GetAllElements) OperationView() *view.View { return op.View }

func (op GetAllElements) OperationOptions() map[string]string { return op.Options }

// WithView returns a copy of op carrying v.
func (op GetAllElements) WithView(v *view.View) Operation {
	out := op
	out.Options = maps.Clone(op.Options)
	out.View = v
	return out
}

// AddElements stores elements. It carries no view, so query hooks pass it
// through.
type AddElements struct {
	Elements []ir.Element
}

func (AddElements) OperationName() string { return "AddElements" }

// Hook intercepts operations around execution.
//
// PreExecute may return a replacement operation. PostExecute receives the
// operation actually executed and the raw result, and returns the result to
// hand to the next hook (or the caller).
type Hook interface {
	PreExecute(ctx context.Context, op Operation) (Operation, error)
	PostExecute(ctx context.Context, op Operation, result stream.Iterator) (stream.Iterator, error)
}
