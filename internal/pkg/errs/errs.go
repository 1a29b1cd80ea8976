package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as unwrap targets for errors.Is checks.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsOutOfRange  = errors.New("value is out of range")
	ErrValueIsRequired    = errors.New("value is required")
	ErrStaleState         = errors.New("stale state")
	ErrSchemaMismatch     = errors.New("schema mismatch")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrValidationMismatch = errors.New("validation mismatch")
)

// sanitize strips newlines from values embedded in error messages so a single
// error always renders as a single log line.
func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

// ObjectNotFoundError indicates that an object could not be located by its
// identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a value fell outside its allowed range.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %s)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a required value was missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// StaleStateError indicates that an update affected zero rows: the record
// vanished or was already mutated by another writer. Callers must not apply
// the corresponding local change.
type StaleStateError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewStaleStateError(paramName string, id any) *StaleStateError {
	return &StaleStateError{ParamName: paramName, ID: id}
}

func NewStaleStateErrorWithCause(paramName string, id any, cause error) *StaleStateError {
	return &StaleStateError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *StaleStateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrStaleState, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrStaleState, sanitize(e.ID))
}

func (e *StaleStateError) Unwrap() error {
	return ErrStaleState
}

// SchemaMismatchError indicates the backing store rejected a write because
// one of the named columns does not exist in its schema.
type SchemaMismatchError struct {
	ParamName string
	Cause     error
}

func NewSchemaMismatchError(paramName string, cause error) *SchemaMismatchError {
	return &SchemaMismatchError{ParamName: paramName, Cause: cause}
}

func (e *SchemaMismatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrSchemaMismatch, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrSchemaMismatch, e.ParamName)
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

// PermissionDeniedError indicates a device or platform permission was
// refused. It is always retryable and never fatal to the mission view.
type PermissionDeniedError struct {
	ParamName string
	Cause     error
}

func NewPermissionDeniedError(paramName string, cause error) *PermissionDeniedError {
	return &PermissionDeniedError{ParamName: paramName, Cause: cause}
}

func (e *PermissionDeniedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrPermissionDenied, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPermissionDenied, e.ParamName)
}

func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// ValidationMismatchError indicates a scanned payload did not match the
// expected confirmation literal. The expected literal is embedded so the
// driver-facing message can display it.
type ValidationMismatchError struct {
	Expected string
	Actual   string
}

func NewValidationMismatchError(expected, actual string) *ValidationMismatchError {
	return &ValidationMismatchError{Expected: expected, Actual: actual}
}

func (e *ValidationMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s",
		ErrValidationMismatch, e.Expected, sanitize(e.Actual))
}

func (e *ValidationMismatchError) Unwrap() error {
	return ErrValidationMismatch
}
