package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/schemamig/internal/ir"
)

// ValidationError reports an element rejected by the schema.
type ValidationError struct {
	Index    int // position in the AddElements batch
	Kind     ir.Kind
	Group    string
	Property string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("element %d: %s %q property %q: %s", e.Index, e.Kind, e.Group, e.Property, e.Message)
	}
	return fmt.Sprintf("element %d: %s %q: %s", e.Index, e.Kind, e.Group, e.Message)
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AddElements validates and appends elements in a single transaction.
// Either every element is stored or none is.
//
// Properties are serialized to canonical JSON per RFC 8785; null values are
// dropped.
func (s *Store) AddElements(ctx context.Context, elements []ir.Element) error {
	for i, e := range elements {
		if err := s.schema.ValidateElement(e); err != nil {
			var se *ir.SchemaError
			if errors.As(err, &se) {
				return &ValidationError{
					Index:    i,
					Kind:     se.Kind,
					Group:    se.Group,
					Property: se.Property,
					Message:  se.Message,
				}
			}
			return fmt.Errorf("add elements: element %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add elements: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO elements
		(element_id, kind, group_name, vertex, source, destination, directed, properties)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("add elements: prepare: %w", err)
	}
	defer stmt.Close()

	for i, e := range elements {
		r, err := encodeRow(e)
		if err != nil {
			return fmt.Errorf("add elements: element %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx,
			r.elementID, r.kind, r.group, r.vertex, r.source, r.destination, r.directed, r.properties,
		); err != nil {
			return fmt.Errorf("add elements: insert element %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("add elements: commit: %w", err)
	}
	return nil
}
