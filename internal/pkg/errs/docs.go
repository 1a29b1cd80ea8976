// Package errs provides standardized error types for the driver application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - StaleStateError: For when a write affected zero rows because the
//     record vanished or was mutated elsewhere
//   - SchemaMismatchError: For when the backing store rejects a combined
//     write because of a schema gap
//   - PermissionDeniedError: For when a device or platform permission is
//     refused (retryable, never fatal)
//   - ValidationMismatchError: For when a scanned payload does not match
//     the expected confirmation literal
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach to error handling improves error reporting,
// makes error handling more consistent, and enables better error classification
// and handling throughout the application.
package errs
