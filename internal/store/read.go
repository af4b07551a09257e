package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/schemamig/internal/function"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/stream"
	"github.com/roach88/schemamig/internal/view"
)

// Query selects elements.
//
// With Seeds set, only entities whose vertex is a seed and edges with a
// seed at either end are returned. With no Seeds, every element of the
// viewed groups is returned. A nil or empty View views every schema group
// with no filters.
type Query struct {
	Seeds []string
	View  *view.View
}

// Query runs q and returns a lazy iterator over the aggregated elements.
//
// Elements are produced while the iterator is pulled, ordered by kind,
// group and element ID. The caller must Close the iterator; until then it
// holds the store's connection.
//
// A view naming a group the schema does not declare is rejected before any
// row is read.
func (s *Store) Query(ctx context.Context, q Query) (stream.Iterator, error) {
	v := q.View
	if v.IsEmpty() {
		v = view.ForSchema(s.schema)
	}
	if res := view.Validate(v, s.schema); !res.Valid {
		return nil, fmt.Errorf("query: invalid view: %s", strings.Join(res.Errors, "; "))
	}

	sqlText, args := buildQuery(v, q.Seeds)
	if sqlText == "" {
		return stream.Empty(), nil
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}
	return &rowIterator{
		rows:   rows,
		schema: s.schema,
		view:   v,
		ops:    make(map[string]map[string]function.BinaryOperator),
	}, nil
}

// buildQuery renders the SELECT for the viewed groups. Returns "" when the
// view names no group.
func buildQuery(v *view.View, seeds []string) (string, []any) {
	var clauses []string
	var args []any
	for _, kind := range ir.Kinds {
		groups := v.Groups(kind)
		if len(groups) == 0 {
			continue
		}
		clause := "(kind = ? AND group_name IN (" + placeholders(len(groups)) + ")"
		args = append(args, string(kind))
		for _, g := range groups {
			args = append(args, g)
		}
		if len(seeds) > 0 {
			if kind == ir.KindEdge {
				clause += " AND (source IN (" + placeholders(len(seeds)) + ") OR destination IN (" + placeholders(len(seeds)) + "))"
				args = appendStrings(args, seeds)
				args = appendStrings(args, seeds)
			} else {
				clause += " AND vertex IN (" + placeholders(len(seeds)) + ")"
				args = appendStrings(args, seeds)
			}
		}
		clauses = append(clauses, clause+")")
	}
	if len(clauses) == 0 {
		return "", nil
	}

	return "SELECT " + queryColumns + " FROM elements WHERE " + strings.Join(clauses, " OR ") +
		" ORDER BY kind ASC, group_name ASC, element_id ASC, seq ASC", args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func appendStrings(args []any, ss []string) []any {
	for _, s := range ss {
		args = append(args, s)
	}
	return args
}

// rowIterator folds adjacent rows of one logical element into one element
// and applies the view stages.
type rowIterator struct {
	rows   *sql.Rows
	schema *ir.Schema
	view   *view.View

	pending *row // first row of the next element, read ahead
	current ir.Element
	err     error
	done    bool
	closed  bool

	ops map[string]map[string]function.BinaryOperator // kind+group -> property -> operator
}

func (it *rowIterator) Next() bool {
	if it.done || it.closed {
		return false
	}
	for {
		e, ok, err := it.nextAggregate()
		if err != nil {
			it.fail(err)
			return false
		}
		if !ok {
			it.done = true
			it.rows.Close()
			return false
		}
		out, keep, err := it.finish(e)
		if err != nil {
			it.fail(err)
			return false
		}
		if keep {
			it.current = out
			return true
		}
	}
}

func (it *rowIterator) fail(err error) {
	it.err = err
	it.done = true
	it.current = ir.Element{}
	it.rows.Close()
}

// readRow returns the next raw row, or false at the end of the cursor.
func (it *rowIterator) readRow() (*row, error) {
	if it.pending != nil {
		r := it.pending
		it.pending = nil
		return r, nil
	}
	if !it.rows.Next() {
		if err := it.rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate elements: %w", err)
		}
		return nil, nil
	}
	r, err := scanRow(it.rows)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// nextAggregate folds every row of the next logical element that passes
// the pre-aggregation filter. Elements with no surviving row are skipped.
func (it *rowIterator) nextAggregate() (ir.Element, bool, error) {
	for {
		first, err := it.readRow()
		if err != nil || first == nil {
			return ir.Element{}, false, err
		}

		var (
			agg     ir.Element
			hasAgg  bool
			current = first
		)
		for current != nil {
			e, err := current.decode(it.schema)
			if err != nil {
				return ir.Element{}, false, err
			}
			def, _ := it.view.Get(e.Kind, e.Group)
			pass, err := def.PreAggregationFilter.Test(e.Properties)
			if err != nil {
				return ir.Element{}, false, fmt.Errorf("pre-aggregation filter %s %s (%s): %w", e.Kind, e.Group, e.Identity(), err)
			}
			if pass {
				if !hasAgg {
					agg, hasAgg = e, true
				} else if agg.Properties, err = it.fold(e, def.Aggregator, agg.Properties, e.Properties); err != nil {
					return ir.Element{}, false, err
				}
			}

			next, err := it.readRow()
			if err != nil {
				return ir.Element{}, false, err
			}
			if next == nil || next.key() != first.key() {
				it.pending = next
				break
			}
			current = next
		}
		if hasAgg {
			return agg, true, nil
		}
	}
}

// fold merges the properties of two rows of the same element.
func (it *rowIterator) fold(e ir.Element, override *function.Aggregator, a, b ir.Properties) (ir.Properties, error) {
	out := a.Clone()
	for _, name := range b.SortedKeys() {
		op := it.operator(e.Kind, e.Group, name, override)
		v, err := op.Apply(a.Get(name), b[name])
		if err != nil {
			return nil, fmt.Errorf("aggregate %s %s (%s) property %q: %w", e.Kind, e.Group, e.Identity(), name, err)
		}
		out[name] = v
	}
	return out, nil
}

// operator resolves the aggregation operator for a property.
func (it *rowIterator) operator(kind ir.Kind, group, prop string, override *function.Aggregator) function.BinaryOperator {
	if op, ok := override.Operator(prop); ok {
		return op
	}
	cacheKey := string(kind) + "\x00" + group
	byProp, ok := it.ops[cacheKey]
	if !ok {
		byProp = make(map[string]function.BinaryOperator)
		it.ops[cacheKey] = byProp
	}
	if op, ok := byProp[prop]; ok {
		return op
	}
	var op function.BinaryOperator = function.First{}
	if name := it.schema.AggregateFunction(kind, group, prop); name != "" {
		// Schema types are validated at compile time; an unknown name falls
		// back to keeping the first value.
		if resolved, err := function.NewOperator(name); err == nil {
			op = resolved
		}
	}
	byProp[prop] = op
	return op
}

// finish applies the post-aggregation stages. Returns false if a filter
// rejects the element.
func (it *rowIterator) finish(e ir.Element) (ir.Element, bool, error) {
	def, _ := it.view.Get(e.Kind, e.Group)

	pass, err := def.PostAggregationFilter.Test(e.Properties)
	if err != nil {
		return ir.Element{}, false, fmt.Errorf("post-aggregation filter %s %s (%s): %w", e.Kind, e.Group, e.Identity(), err)
	}
	if !pass {
		return ir.Element{}, false, nil
	}

	if !def.Transformer.IsEmpty() {
		props, err := def.Transformer.Apply(e.Properties)
		if err != nil {
			return ir.Element{}, false, fmt.Errorf("transform %s %s (%s): %w", e.Kind, e.Group, e.Identity(), err)
		}
		e = e.WithGroup(e.Group, props)
	}

	pass, err = def.PostTransformFilter.Test(e.Properties)
	if err != nil {
		return ir.Element{}, false, fmt.Errorf("post-transform filter %s %s (%s): %w", e.Kind, e.Group, e.Identity(), err)
	}
	return e, pass, nil
}

func (it *rowIterator) Element() ir.Element { return it.current }

func (it *rowIterator) Err() error { return it.err }

// Close releases the cursor. Idempotent.
func (it *rowIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.rows.Close()
}
