package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// IRValue is a sealed interface representing constrained property values.
// Only IRNull, IRString, IRInt, IRLong and IRBool implement this.
// NO IRFloat - floats are forbidden in IR (breaks determinism).
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRNull represents an absent or null property value.
// Using an explicit type ensures all IRValues satisfy the sealed interface.
type IRNull struct{}

func (IRNull) irValue() {}

// IRString represents a string value in the IR.
type IRString string

func (IRString) irValue() {}

// IRInt represents a narrow (32-bit) integer value.
type IRInt int32

func (IRInt) irValue() {}

// IRLong represents a wide (64-bit) integer value.
type IRLong int64

func (IRLong) irValue() {}

// IRBool represents a boolean value in the IR.
type IRBool bool

func (IRBool) irValue() {}

// NewIRString creates an IRString value.
func NewIRString(s string) IRString {
	return IRString(s)
}

// NewIRInt creates an IRInt value.
func NewIRInt(n int32) IRInt {
	return IRInt(n)
}

// NewIRLong creates an IRLong value.
func NewIRLong(n int64) IRLong {
	return IRLong(n)
}

// NewIRBool creates an IRBool value.
func NewIRBool(b bool) IRBool {
	return IRBool(b)
}

// TypeClass names the concrete value type a schema property is bound to.
type TypeClass string

const (
	ClassString TypeClass = "string"
	ClassInt    TypeClass = "int"
	ClassLong   TypeClass = "long"
	ClassBool   TypeClass = "bool"
)

// ValidClasses defines allowed type classes.
var ValidClasses = map[TypeClass]bool{
	ClassString: true,
	ClassInt:    true,
	ClassLong:   true,
	ClassBool:   true,
}

// ClassOf returns the type class of a value.
// Returns false for IRNull and nil.
func ClassOf(v IRValue) (TypeClass, bool) {
	switch v.(type) {
	case IRString:
		return ClassString, true
	case IRInt:
		return ClassInt, true
	case IRLong:
		return ClassLong, true
	case IRBool:
		return ClassBool, true
	default:
		return "", false
	}
}

// IsNull reports whether v is nil or IRNull.
func IsNull(v IRValue) bool {
	if v == nil {
		return true
	}
	_, ok := v.(IRNull)
	return ok
}

// AsInt64 widens an integer value of either width to int64.
// Returns false for non-integer values.
func AsInt64(v IRValue) (int64, bool) {
	switch val := v.(type) {
	case IRInt:
		return int64(val), true
	case IRLong:
		return int64(val), true
	default:
		return 0, false
	}
}

// FormatValue renders a value for human-readable output.
// Longs carry an "L" suffix so the two integer widths stay distinguishable.
func FormatValue(v IRValue) string {
	switch val := v.(type) {
	case nil, IRNull:
		return "null"
	case IRString:
		return strconv.Quote(string(val))
	case IRInt:
		return strconv.FormatInt(int64(val), 10)
	case IRLong:
		return strconv.FormatInt(int64(val), 10) + "L"
	case IRBool:
		return strconv.FormatBool(bool(val))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// MarshalIRValue marshals an IRValue to JSON bytes.
// Both integer widths encode as plain JSON numbers; the width is recovered
// from the schema on decode (see UnmarshalIRValue).
func MarshalIRValue(v IRValue) ([]byte, error) {
	switch val := v.(type) {
	case nil, IRNull:
		return []byte("null"), nil
	case IRString:
		return json.Marshal(string(val))
	case IRInt:
		return json.Marshal(int32(val))
	case IRLong:
		return json.Marshal(int64(val))
	case IRBool:
		return json.Marshal(bool(val))
	default:
		return nil, fmt.Errorf("unknown IRValue type: %T", v)
	}
}

// UnmarshalIRValue decodes a JSON value into the IRValue of the given class.
// An empty class infers the type from the JSON token (numbers become IRLong).
// Floats are rejected.
func UnmarshalIRValue(data []byte, class TypeClass) (IRValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return IRNull{}, nil
	}
	return ConvertValue(raw, class)
}

// ConvertValue converts a decoded Go value (from JSON, YAML or CUE) into an
// IRValue of the given class. An empty class infers the class from the value.
func ConvertValue(raw any, class TypeClass) (IRValue, error) {
	if raw == nil {
		return IRNull{}, nil
	}
	if class == "" {
		class = inferClass(raw)
	}

	switch class {
	case ClassString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return IRString(s), nil
	case ClassBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", raw)
		}
		return IRBool(b), nil
	case ClassInt:
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("value %d out of int range", n)
		}
		return IRInt(n), nil
	case ClassLong:
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		return IRLong(n), nil
	default:
		return nil, fmt.Errorf("unsupported type class %q", class)
	}
}

// inferClass picks the class for an untyped literal.
func inferClass(raw any) TypeClass {
	switch raw.(type) {
	case string:
		return ClassString
	case bool:
		return ClassBool
	default:
		return ClassLong
	}
}

// toInt64 accepts the integer representations produced by encoding/json
// (json.Number), yaml.v3 (int) and CUE (int64).
func toInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of long range", n)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("floats not allowed in IR: %s", n.String())
		}
		return i, nil
	case IRInt:
		return int64(n), nil
	case IRLong:
		return int64(n), nil
	case float32, float64:
		return 0, fmt.Errorf("floats not allowed in IR: %v", n)
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
}
