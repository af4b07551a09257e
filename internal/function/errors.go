package function

import "errors"

var (
	// ErrMissingProperty indicates a selected property is absent from the element.
	ErrMissingProperty = errors.New("missing property")

	// ErrTypeMismatch indicates a value of an unsupported type was passed.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrOutOfRange indicates a value does not fit the target type.
	ErrOutOfRange = errors.New("value out of range")

	// ErrArity indicates the wrong number of selected values.
	ErrArity = errors.New("wrong number of arguments")

	// ErrUnknownName indicates a function, predicate or operator name that is
	// not registered.
	ErrUnknownName = errors.New("unknown name")
)
