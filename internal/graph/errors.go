package graph

import (
	"errors"
	"fmt"
)

// OperationErrorCode categorizes operation failures.
type OperationErrorCode string

const (
	// ErrCodeUnsupported indicates an operation type the graph cannot run.
	ErrCodeUnsupported OperationErrorCode = "UNSUPPORTED_OPERATION"

	// ErrCodeHookFailed indicates a hook rejected the operation or its result.
	ErrCodeHookFailed OperationErrorCode = "HOOK_FAILED"

	// ErrCodeStoreFailed indicates the store failed to run the operation.
	ErrCodeStoreFailed OperationErrorCode = "STORE_FAILED"
)

// OperationError reports a failed Execute call. Err is the underlying
// cause and is reachable through errors.Is/As.
type OperationError struct {
	Code      OperationErrorCode
	Operation string
	QueryID   string
	Err       error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s (query=%s)", e.Code, e.Operation, e.QueryID)
	}
	return fmt.Sprintf("%s: %s (query=%s): %v", e.Code, e.Operation, e.QueryID, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsHookError returns true if err is an OperationError raised by a hook.
// Uses errors.As to handle wrapped errors.
func IsHookError(err error) bool {
	var oe *OperationError
	if errors.As(err, &oe) {
		return oe.Code == ErrCodeHookFailed
	}
	return false
}

// IsUnsupportedError returns true if err reports an unsupported operation.
func IsUnsupportedError(err error) bool {
	var oe *OperationError
	if errors.As(err, &oe) {
		return oe.Code == ErrCodeUnsupported
	}
	return false
}
