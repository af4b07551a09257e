package store

import (
	"database/sql"
	"fmt"

	"github.com/roach88/schemamig/internal/ir"
)

// row is one stored element row.
type row struct {
	seq         int64
	elementID   string
	kind        string
	group       string
	vertex      string
	source      string
	destination string
	directed    bool
	properties  string
}

// key identifies the logical element a row belongs to.
func (r row) key() string {
	return r.kind + "\x00" + r.group + "\x00" + r.elementID
}

// encodeRow converts an element to its stored form.
func encodeRow(e ir.Element) (row, error) {
	id, err := ir.ElementID(e)
	if err != nil {
		return row{}, err
	}
	props, err := ir.MarshalProperties(e.Properties)
	if err != nil {
		return row{}, err
	}
	r := row{
		elementID:  id,
		kind:       string(e.Kind),
		group:      e.Group,
		properties: props,
	}
	if e.Kind == ir.KindEdge {
		r.source = e.Source
		r.destination = e.Destination
		r.directed = e.Directed
	} else {
		r.vertex = e.Vertex
	}
	return r, nil
}

// scanRow reads the columns selected by queryColumns.
func scanRow(rows *sql.Rows) (row, error) {
	var r row
	var directed int
	if err := rows.Scan(
		&r.seq, &r.elementID, &r.kind, &r.group,
		&r.vertex, &r.source, &r.destination, &directed, &r.properties,
	); err != nil {
		return row{}, fmt.Errorf("scan element: %w", err)
	}
	r.directed = directed != 0
	return r, nil
}

const queryColumns = "seq, element_id, kind, group_name, vertex, source, destination, directed, properties"

// decode restores the element, typing each property by the schema.
func (r row) decode(schema *ir.Schema) (ir.Element, error) {
	kind := ir.Kind(r.kind)
	props, err := ir.UnmarshalProperties(r.properties, schema.PropertyClasses(kind, r.group))
	if err != nil {
		return ir.Element{}, fmt.Errorf("decode %s %s seq=%d: %w", kind, r.group, r.seq, err)
	}
	if kind == ir.KindEdge {
		return ir.NewEdge(r.group, r.source, r.destination, r.directed, props), nil
	}
	return ir.NewEntity(r.group, r.vertex, props), nil
}
