package types

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies failures so callers (CLI, RPC) can surface
// the category and offending field without string matching. Every error
// is raised before any partial mutation is applied.
type ErrorCategory string

const (
	CategoryValidation        ErrorCategory = "validation_error"
	CategoryInvalidTransition ErrorCategory = "invalid_transition"
	CategoryArchivedImmutable ErrorCategory = "archived_path_immutable"
	CategoryInvalidQuery      ErrorCategory = "invalid_query_parameter"
	CategoryNotFound          ErrorCategory = "not_found"
)

// Error is the common error shape for the path library core.
type Error struct {
	Category ErrorCategory `json:"category"`
	Field    string        `json:"field,omitempty"` // offending field or parameter, if any
	Message  string        `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Category, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// NewValidationError reports a malformed or missing required field.
func NewValidationError(field, msg string) *Error {
	return &Error{Category: CategoryValidation, Field: field, Message: msg}
}

// NewInvalidTransition reports a status change outside the workflow table.
func NewInvalidTransition(from, to PathStatus) *Error {
	return &Error{
		Category: CategoryInvalidTransition,
		Field:    "status",
		Message:  fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// NewArchivedPathImmutable reports a mutation attempt on a terminal path.
func NewArchivedPathImmutable(pathID string) *Error {
	return &Error{
		Category: CategoryArchivedImmutable,
		Message:  fmt.Sprintf("path %s is archived and cannot be modified", pathID),
	}
}

// NewInvalidQueryParameter reports an unrecognized filter or ordering key.
func NewInvalidQueryParameter(field, msg string) *Error {
	return &Error{Category: CategoryInvalidQuery, Field: field, Message: msg}
}

// NewNotFound reports a missing entity by kind and id.
func NewNotFound(kind, id string) *Error {
	return &Error{
		Category: CategoryNotFound,
		Message:  fmt.Sprintf("%s %s not found", kind, id),
	}
}

// CategoryOf extracts the error category, or empty if err is not a
// library error.
func CategoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return CategoryOf(err) == CategoryNotFound }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return CategoryOf(err) == CategoryValidation }

// IsInvalidTransition reports whether err is a workflow violation.
func IsInvalidTransition(err error) bool {
	return CategoryOf(err) == CategoryInvalidTransition
}

// IsArchivedImmutable reports whether err is an archived-path mutation.
func IsArchivedImmutable(err error) bool {
	return CategoryOf(err) == CategoryArchivedImmutable
}

// IsInvalidQuery reports whether err is a bad filter or ordering key.
func IsInvalidQuery(err error) bool { return CategoryOf(err) == CategoryInvalidQuery }
