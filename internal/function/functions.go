package function

import (
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/schemamig/internal/ir"
)

// Function converts the selected property values into one projected value.
type Function interface {
	Apply(args ...ir.IRValue) (ir.IRValue, error)
}

// ToLong widens an integer (or parses a decimal string) to IRLong.
// Null passes through as null.
type ToLong struct{}

func (ToLong) Apply(args ...ir.IRValue) (ir.IRValue, error) {
	v, err := single("ToLong", args)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case ir.IRNull:
		return val, nil
	case ir.IRInt:
		return ir.IRLong(val), nil
	case ir.IRLong:
		return val, nil
	case ir.IRString:
		n, err := strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ToLong: %w: %q is not an integer", ErrTypeMismatch, string(val))
		}
		return ir.IRLong(n), nil
	default:
		return nil, fmt.Errorf("ToLong: %w: %T", ErrTypeMismatch, v)
	}
}

// ToInteger narrows an integer (or parses a decimal string) to IRInt.
// Values outside the 32-bit range are rejected rather than truncated.
// Null passes through as null.
type ToInteger struct{}

func (ToInteger) Apply(args ...ir.IRValue) (ir.IRValue, error) {
	v, err := single("ToInteger", args)
	if err != nil {
		return nil, err
	}
	var n int64
	switch val := v.(type) {
	case ir.IRNull:
		return val, nil
	case ir.IRInt:
		return val, nil
	case ir.IRLong:
		n = int64(val)
	case ir.IRString:
		n, err = strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ToInteger: %w: %q is not an integer", ErrTypeMismatch, string(val))
		}
	default:
		return nil, fmt.Errorf("ToInteger: %w: %T", ErrTypeMismatch, v)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, fmt.Errorf("ToInteger: %w: %d", ErrOutOfRange, n)
	}
	return ir.IRInt(n), nil
}

// ToString renders the selected value as a string. Integers are rendered
// without width suffix.
type ToString struct{}

func (ToString) Apply(args ...ir.IRValue) (ir.IRValue, error) {
	v, err := single("ToString", args)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case ir.IRNull:
		return val, nil
	case ir.IRString:
		return val, nil
	case ir.IRInt:
		return ir.IRString(strconv.FormatInt(int64(val), 10)), nil
	case ir.IRLong:
		return ir.IRString(strconv.FormatInt(int64(val), 10)), nil
	case ir.IRBool:
		return ir.IRString(strconv.FormatBool(bool(val))), nil
	default:
		return nil, fmt.Errorf("ToString: %w: %T", ErrTypeMismatch, v)
	}
}

// Identity returns its single argument unchanged. Combined with a different
// projection key it renames a property.
type Identity struct{}

func (Identity) Apply(args ...ir.IRValue) (ir.IRValue, error) {
	return single("Identity", args)
}

// ReturnValue ignores its arguments and returns a constant. Used to populate
// a property that exists only on one side of a migration.
type ReturnValue struct {
	Value ir.IRValue
}

func (f ReturnValue) Apply(args ...ir.IRValue) (ir.IRValue, error) {
	if f.Value == nil {
		return ir.IRNull{}, nil
	}
	return f.Value, nil
}

func single(name string, args []ir.IRValue) (ir.IRValue, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s: %w: want 1, got %d", name, ErrArity, len(args))
	}
	if args[0] == nil {
		return ir.IRNull{}, nil
	}
	return args[0], nil
}

// NewFunction resolves a registered function name.
// arg is only used by ReturnValue.
func NewFunction(name string, arg ir.IRValue) (Function, error) {
	switch name {
	case "ToLong":
		return ToLong{}, nil
	case "ToInteger":
		return ToInteger{}, nil
	case "ToString":
		return ToString{}, nil
	case "Identity":
		return Identity{}, nil
	case "ReturnValue":
		return ReturnValue{Value: arg}, nil
	default:
		return nil, fmt.Errorf("function %q: %w", name, ErrUnknownName)
	}
}
