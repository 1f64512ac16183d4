package service

import (
	"errors"
	"fmt"

	"github.com/mmynk/dailysplit/internal/auth"
)

// Domain errors. Callers classify with errors.Is.
var (
	ErrValidation        = errors.New("invalid input")
	ErrInvalidAccessCode = errors.New("invalid access code")
	ErrDuplicateMember   = errors.New("a member with this email already exists in the group")
	ErrUserNotFound      = errors.New("user not found, register first")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrReportGeneration  = errors.New("report generation failed")
	ErrPersistence       = errors.New("failed to save data")

	ErrNotAuthenticated = errors.New("not logged in")
	ErrNoActiveGroup    = errors.New("no active group")
	ErrGroupNotFound    = errors.New("group not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrExpenseNotFound  = errors.New("expense not found")
)

// ValidationError reports a missing or malformed field. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError wraps a storage failure. It matches ErrPersistence.
// The in-memory session has already applied the change when one is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Kind names the class of err for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvalidAccessCode):
		return "invalid_access_code"
	case errors.Is(err, ErrDuplicateMember):
		return "duplicate_member"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrNoActiveGroup):
		return "no_active_group"
	case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrExpenseNotFound):
		return "not_found"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, ErrReportGeneration):
		return "report"
	case errors.Is(err, auth.ErrAccessCodeExhausted):
		return "access_code_exhausted"
	default:
		return "internal"
	}
}

// IsUserError reports whether err was caused by the caller's input or permissions
// rather than by the system failing.
func IsUserError(err error) bool {
	switch Kind(err) {
	case "", "persistence", "report", "access_code_exhausted", "internal":
		return false
	}
	return true
}
