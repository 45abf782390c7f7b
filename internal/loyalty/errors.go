package loyalty

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes ledger errors.
type ErrorCode string

const (
	// ErrCodeValidation indicates an empty or invalid input field.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeInsufficientStamps indicates a redeem below the reward threshold.
	ErrCodeInsufficientStamps ErrorCode = "INSUFFICIENT_STAMPS"

	// ErrCodeNotFound indicates the target customer does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeUnauthorized indicates a staff operation without an unlocked gate.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Error is returned by every update function that rejects its input.
// All codes are recoverable by the acting user; none leave a partial change.
type Error struct {
	Code    ErrorCode
	Message string

	// Field names the offending input, when there is one.
	Field string

	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return CodeOf(err) == ErrCodeValidation }

// IsInsufficientStamps reports whether err is an insufficient stamps error.
func IsInsufficientStamps(err error) bool { return CodeOf(err) == ErrCodeInsufficientStamps }

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsUnauthorized reports whether err is an unauthorized error.
func IsUnauthorized(err error) bool { return CodeOf(err) == ErrCodeUnauthorized }

// NewValidationError creates a validation error for a field.
func NewValidationError(field, message string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// NewBelowMinimumSpendError creates the validation error for a transaction
// that does not qualify for a stamp.
func NewBelowMinimumSpendError(amount, minimum float64) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("below minimum spend: min spend $%s for a stamp", formatAmount(minimum)),
		Field:   "amount",
		Details: map[string]string{
			"amount":  formatAmount(amount),
			"minimum": formatAmount(minimum),
		},
	}
}

// NewInsufficientStampsError creates an error for a redeem below threshold.
func NewInsufficientStampsError(have, need int) *Error {
	return &Error{
		Code:    ErrCodeInsufficientStamps,
		Message: fmt.Sprintf("not enough stamps (%d < %d)", have, need),
		Details: map[string]string{
			"stamps": fmt.Sprintf("%d", have),
			"needed": fmt.Sprintf("%d", need),
		},
	}
}

// NewNotFoundError creates an error for a missing customer.
func NewNotFoundError(query string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no customer matches %q", query),
	}
}

// NewUnauthorizedError creates an error for a locked staff gate.
func NewUnauthorizedError() *Error {
	return &Error{
		Code:    ErrCodeUnauthorized,
		Message: "staff access is locked; unlock with the merchant PIN",
	}
}
