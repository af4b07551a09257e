package migrate

import (
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/stream"
)

// Normalize wraps src so every element it yields conforms to direction d.
//
// Elements are converted one at a time, as they are pulled; order is
// preserved and nothing is buffered, sorted or deduplicated. A conversion
// failure stops the sequence and is reported by Err as a *TransformError;
// elements already yielded stand. Closing the result closes src exactly
// once. An empty registry returns src itself.
func Normalize(src stream.Iterator, r *Registry, d Direction) stream.Iterator {
	if r.IsEmpty() {
		return src
	}
	return stream.Map(src, func(e ir.Element) (ir.Element, error) {
		return NormalizeElement(e, r, d)
	})
}

// NormalizeElement converts one element into direction d.
//
// Under New an element of an old group is converted with ToNew into the
// paired new group; under Old an element of a new group is converted with
// ToOld into the paired old group. Every other element is returned as is,
// without running any transformer. Identity fields are copied verbatim and
// e is never modified. A Direction that is neither Old nor New fails with a
// *ConfigurationError.
func NormalizeElement(e ir.Element, r *Registry, d Direction) (ir.Element, error) {
	var (
		entry  Entry
		found  bool
		target string
	)
	switch d {
	case Old:
		entry, found = r.byNew(e.Kind, e.Group)
		target = entry.OldGroup
	case New:
		entry, found = r.byOld(e.Kind, e.Group)
		target = entry.NewGroup
	default:
		return ir.Element{}, d.check()
	}
	if !found {
		return e, nil
	}

	pipeline := entry.ToNew
	if d == Old {
		pipeline = entry.ToOld
	}
	props, err := pipeline.Apply(e.Properties)
	if err != nil {
		return ir.Element{}, &TransformError{
			Kind:     e.Kind,
			Group:    e.Group,
			Target:   target,
			Identity: e.Identity(),
			Err:      err,
		}
	}
	return e.WithGroup(target, props), nil
}
