// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidInput = errors.New("invalid input")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyProcessed = errors.New("already processed")

	// Placement rule errors
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrNotEligible      = errors.New("not eligible")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// Infrastructure errors
	ErrLockNotAcquired = errors.New("lock not acquired")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "internship", "application", "withdrawal"
	Op      string // Operation that failed, e.g., "Approve", "ConfirmAcceptance"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Errorf builds a domain error with a formatted message.
func Errorf(domain, op string, kind error, format string, args ...any) *DomainError {
	return NewDomainError(domain, op, kind, fmt.Sprintf(format, args...))
}

// ═══════════════════════════════════════════════════════════════════════════
// Lookup errors
// ═══════════════════════════════════════════════════════════════════════════

var (
	ErrStudentNotFound     = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrInternshipNotFound  = NewDomainError("internship", "Find", ErrNotFound, "internship not found")
	ErrApplicationNotFound = NewDomainError("application", "Find", ErrNotFound, "application not found")
	ErrWithdrawalNotFound  = NewDomainError("withdrawal", "Find", ErrNotFound, "withdrawal request not found")
	ErrCompanyRepNotFound  = NewDomainError("company", "Find", ErrNotFound, "company representative not found")
	ErrStaffNotFound       = NewDomainError("staff", "Find", ErrNotFound, "career center staff not found")
)

// ═══════════════════════════════════════════════════════════════════════════
// Classification helpers
// ═══════════════════════════════════════════════════════════════════════════

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput)
}

// IsInvalidState checks if the error reports an illegal lifecycle operation.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrAlreadyProcessed)
}

// IsCapacityExceeded checks if a slot, posting or application cap was hit.
func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}

// IsForbidden checks if the actor does not own the target.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotEligible checks if the student's year does not allow the level.
func IsNotEligible(err error) bool {
	return errors.Is(err, ErrNotEligible)
}

// IsRetryable checks if the operation can be retried: the aggregate lock
// was busy, so the same command may succeed later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockNotAcquired)
}

// KindOf returns a short machine-readable name for the error category.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidation(err):
		return "validation"
	case IsNotFound(err):
		return "not_found"
	case IsAlreadyExists(err):
		return "conflict"
	case IsCapacityExceeded(err):
		return "capacity_exceeded"
	case IsNotEligible(err):
		return "not_eligible"
	case IsForbidden(err):
		return "forbidden"
	case IsInvalidState(err):
		return "invalid_state"
	case IsRetryable(err):
		return "retryable"
	default:
		return "internal"
	}
}
