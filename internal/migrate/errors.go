package migrate

import (
	"errors"
	"fmt"

	"github.com/roach88/schemamig/internal/ir"
)

// ConfigurationErrorCode categorizes configuration errors.
type ConfigurationErrorCode string

const (
	// ErrCodeEmptyGroup indicates an entry with an empty old or new group.
	ErrCodeEmptyGroup ConfigurationErrorCode = "EMPTY_GROUP"

	// ErrCodeSelfPaired indicates an entry whose old and new group are equal.
	ErrCodeSelfPaired ConfigurationErrorCode = "SELF_PAIRED"

	// ErrCodeDuplicateGroup indicates a group used by more than one entry of
	// the same kind.
	ErrCodeDuplicateGroup ConfigurationErrorCode = "DUPLICATE_GROUP"

	// ErrCodeKindCollision indicates a group name migrated as both an entity
	// and an edge.
	ErrCodeKindCollision ConfigurationErrorCode = "KIND_COLLISION"

	// ErrCodeInvalidTransform indicates a malformed transform step.
	ErrCodeInvalidTransform ConfigurationErrorCode = "INVALID_TRANSFORM"

	// ErrCodeInvalidOutputType indicates a direction that is neither OLD nor NEW.
	ErrCodeInvalidOutputType ConfigurationErrorCode = "INVALID_OUTPUT_TYPE"

	// ErrCodeUndeclaredGroup indicates a migrated group the store schema
	// does not declare under the entry's kind.
	ErrCodeUndeclaredGroup ConfigurationErrorCode = "UNDECLARED_GROUP"
)

// ConfigurationError reports an invalid migration configuration. It is
// raised when a registry is built or a direction is set, never while a
// result is being consumed.
type ConfigurationError struct {
	Code    ConfigurationErrorCode
	Kind    ir.Kind
	Group   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("%s: %s (%s group %q)", e.Code, e.Message, e.Kind, e.Group)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigurationError returns true if err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// TransformError reports an element that could not be converted into the
// requested schema version. Err is the underlying pipeline failure.
type TransformError struct {
	Kind     ir.Kind
	Group    string // source group
	Target   string // group the element was being converted to
	Identity string
	Err      error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s %s -> %s (%s): %v", e.Kind, e.Group, e.Target, e.Identity, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// IsTransformError returns true if err is or wraps a TransformError.
func IsTransformError(err error) bool {
	var te *TransformError
	return errors.As(err, &te)
}
