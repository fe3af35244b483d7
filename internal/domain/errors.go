// Package domain holds the shared vocabulary of the portfolio engine:
// canonical symbol handling and the error taxonomy every layer reports with.
package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports bad caller input (non-positive quantity, negative
// price, unknown symbol). It is always raised before any persisted state
// changes, so the caller can correct the input and retry.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf creates a ValidationError with a formatted message
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IntegrityError reports an unexpected storage-constraint violation. The
// condition is surfaced verbatim and is non-retryable: the store never
// attempts automatic recovery.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("storage integrity failure in %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// Integrity wraps a storage-constraint failure for operation op
func Integrity(op string, err error) *IntegrityError {
	return &IntegrityError{Op: op, Err: err}
}

// IsIntegrity reports whether err is (or wraps) an IntegrityError
func IsIntegrity(err error) bool {
	var i *IntegrityError
	return errors.As(err, &i)
}
