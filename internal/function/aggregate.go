package function

import (
	"fmt"
	"math"

	"github.com/roach88/schemamig/internal/ir"
)

// BinaryOperator folds two values of the same property into one.
// Null operands are ignored: op(null, x) = x.
type BinaryOperator interface {
	Apply(a, b ir.IRValue) (ir.IRValue, error)
}

// Sum adds integers, preserving the width of the operands.
// Narrow sums that overflow 32 bits fail with ErrOutOfRange.
type Sum struct{}

func (Sum) Apply(a, b ir.IRValue) (ir.IRValue, error) {
	if v, done := nullFold(a, b); done {
		return v, nil
	}
	switch x := a.(type) {
	case ir.IRInt:
		if y, ok := b.(ir.IRInt); ok {
			s := int64(x) + int64(y)
			if s < math.MinInt32 || s > math.MaxInt32 {
				return nil, fmt.Errorf("Sum: %w: %d", ErrOutOfRange, s)
			}
			return ir.IRInt(s), nil
		}
	case ir.IRLong:
		if y, ok := b.(ir.IRLong); ok {
			s := int64(x) + int64(y)
			if (int64(y) > 0 && s < int64(x)) || (int64(y) < 0 && s > int64(x)) {
				return nil, fmt.Errorf("Sum: %w: overflow", ErrOutOfRange)
			}
			return ir.IRLong(s), nil
		}
	}
	return nil, fmt.Errorf("Sum: %w: %T + %T", ErrTypeMismatch, a, b)
}

// Max keeps the larger value.
type Max struct{}

func (Max) Apply(a, b ir.IRValue) (ir.IRValue, error) {
	if v, done := nullFold(a, b); done {
		return v, nil
	}
	cmp, ok := compare(a, b)
	if !ok {
		return nil, fmt.Errorf("Max: %w: %T, %T", ErrTypeMismatch, a, b)
	}
	if cmp >= 0 {
		return a, nil
	}
	return b, nil
}

// Min keeps the smaller value.
type Min struct{}

func (Min) Apply(a, b ir.IRValue) (ir.IRValue, error) {
	if v, done := nullFold(a, b); done {
		return v, nil
	}
	cmp, ok := compare(a, b)
	if !ok {
		return nil, fmt.Errorf("Min: %w: %T, %T", ErrTypeMismatch, a, b)
	}
	if cmp <= 0 {
		return a, nil
	}
	return b, nil
}

// First keeps the first non-null value.
type First struct{}

func (First) Apply(a, b ir.IRValue) (ir.IRValue, error) {
	if ir.IsNull(a) {
		return b, nil
	}
	return a, nil
}

func nullFold(a, b ir.IRValue) (ir.IRValue, bool) {
	if ir.IsNull(a) {
		if b == nil {
			return ir.IRNull{}, true
		}
		return b, true
	}
	if ir.IsNull(b) {
		return a, true
	}
	return nil, false
}

// Aggregator maps property names to the operator used to fold them.
// A view may carry an Aggregator to override the schema's defaults.
type Aggregator struct {
	Operators map[string]BinaryOperator
}

// Operator returns the operator registered for a property.
func (a *Aggregator) Operator(prop string) (BinaryOperator, bool) {
	if a == nil {
		return nil, false
	}
	op, ok := a.Operators[prop]
	return op, ok
}

// NewOperator resolves a registered operator name.
func NewOperator(name string) (BinaryOperator, error) {
	switch name {
	case "Sum":
		return Sum{}, nil
	case "Max":
		return Max{}, nil
	case "Min":
		return Min{}, nil
	case "First":
		return First{}, nil
	default:
		return nil, fmt.Errorf("operator %q: %w", name, ErrUnknownName)
	}
}
