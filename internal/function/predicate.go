package function

import (
	"fmt"
	"strings"

	"github.com/roach88/schemamig/internal/ir"
)

// Predicate tests the selected property values of an element.
// A missing property is passed as IRNull.
type Predicate interface {
	Test(args ...ir.IRValue) (bool, error)
}

// IsMoreThan is true when the selected value is greater than Value
// (or equal, with OrEqualTo). Integers of either width compare numerically.
type IsMoreThan struct {
	Value     ir.IRValue
	OrEqualTo bool
}

func (p IsMoreThan) Test(args ...ir.IRValue) (bool, error) {
	v, err := single("IsMoreThan", args)
	if err != nil {
		return false, err
	}
	cmp, ok := compare(v, p.Value)
	if !ok {
		return false, nil
	}
	return cmp > 0 || (p.OrEqualTo && cmp == 0), nil
}

// IsLessThan is true when the selected value is less than Value
// (or equal, with OrEqualTo).
type IsLessThan struct {
	Value     ir.IRValue
	OrEqualTo bool
}

func (p IsLessThan) Test(args ...ir.IRValue) (bool, error) {
	v, err := single("IsLessThan", args)
	if err != nil {
		return false, err
	}
	cmp, ok := compare(v, p.Value)
	if !ok {
		return false, nil
	}
	return cmp < 0 || (p.OrEqualTo && cmp == 0), nil
}

// IsEqual is true when the selected value equals Value. IRInt(10) equals
// IRLong(10).
type IsEqual struct {
	Value ir.IRValue
}

func (p IsEqual) Test(args ...ir.IRValue) (bool, error) {
	v, err := single("IsEqual", args)
	if err != nil {
		return false, err
	}
	if ir.IsNull(v) || ir.IsNull(p.Value) {
		return ir.IsNull(v) && ir.IsNull(p.Value), nil
	}
	if a, ok := ir.AsInt64(v); ok {
		b, ok := ir.AsInt64(p.Value)
		return ok && a == b, nil
	}
	return v == p.Value, nil
}

// Exists is true when every selected value is present and non-null.
type Exists struct{}

func (Exists) Test(args ...ir.IRValue) (bool, error) {
	for _, v := range args {
		if ir.IsNull(v) {
			return false, nil
		}
	}
	return true, nil
}

// Not negates a predicate.
type Not struct {
	Predicate Predicate
}

func (p Not) Test(args ...ir.IRValue) (bool, error) {
	ok, err := p.Predicate.Test(args...)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// And is true when every predicate is true (empty = always true).
// All predicates receive the same selection.
type And struct {
	Predicates []Predicate
}

func (p And) Test(args ...ir.IRValue) (bool, error) {
	for _, pred := range p.Predicates {
		ok, err := pred.Test(args...)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Or is true when any predicate is true (empty = always false).
type Or struct {
	Predicates []Predicate
}

func (p Or) Test(args ...ir.IRValue) (bool, error) {
	for _, pred := range p.Predicates {
		ok, err := pred.Test(args...)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// compare orders two values. Returns false when they are not comparable
// (null, mixed types, booleans).
func compare(a, b ir.IRValue) (int, bool) {
	if ir.IsNull(a) || ir.IsNull(b) {
		return 0, false
	}
	if x, ok := ir.AsInt64(a); ok {
		y, ok := ir.AsInt64(b)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		default:
			return 0, true
		}
	}
	if x, ok := a.(ir.IRString); ok {
		y, ok := b.(ir.IRString)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(x), string(y)), true
	}
	return 0, false
}

// NewPredicate resolves a registered predicate name.
// value and orEqualTo are used by the comparison predicates.
func NewPredicate(name string, value ir.IRValue, orEqualTo bool) (Predicate, error) {
	switch name {
	case "IsMoreThan":
		return IsMoreThan{Value: value, OrEqualTo: orEqualTo}, nil
	case "IsLessThan":
		return IsLessThan{Value: value, OrEqualTo: orEqualTo}, nil
	case "IsEqual":
		return IsEqual{Value: value}, nil
	case "Exists":
		return Exists{}, nil
	default:
		return nil, fmt.Errorf("predicate %q: %w", name, ErrUnknownName)
	}
}
