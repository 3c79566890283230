package tool

import (
	"errors"
	"fmt"
)

// Sentinel errors for the tool engine. Use errors.Is to check.
var (
	ErrToolNotFound     = errors.New("tool not found")
	ErrDuplicateTool    = errors.New("tool already registered")
	ErrTimeout          = errors.New("tool execution timeout")
	ErrValidation       = errors.New("validation failed")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrTypeMismatch     = errors.New("parameter type mismatch")
	ErrShutdown         = errors.New("registry is shutting down")
)

// ClientError is a caller-correctable failure (invalid JSON, missing required
// parameter, schema violation). The message is safe to return to the caller;
// no stack traces or internal details. Err wraps a sentinel (e.g.
// ErrMissingParameter) for errors.Is/errors.As.
type ClientError struct {
	Reason string
	Err    error // wrapped sentinel for errors.Is/errors.As
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("invalid tool input: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrTypeMismatch)).
func (e *ClientError) Unwrap() error { return e.Err }

// SystemError represents an internal failure during handler execution (store
// down, panic, marshal failure). The caller should not see the underlying
// error message or stack.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal system error during tool execution"
}

func (e *SystemError) Unwrap() error { return e.Err }

// IsClientError returns true if err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// wrapJSONParseError returns a ClientError for JSON unmarshal failures.
// Used by Extractor.ParseAndValidate and the dynamic tool execute path so parse errors are consistent.
func wrapJSONParseError(err error) error {
	return &ClientError{Reason: "json parse error: " + err.Error(), Err: ErrValidation}
}
