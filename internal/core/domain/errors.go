package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated        = errors.New("not authenticated")
	ErrInvalidToken           = errors.New("invalid or expired session token")
	ErrForbidden              = errors.New("access forbidden")
	ErrNotFound               = errors.New("not found")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrDuplicateEmail         = errors.New("email already in use")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
	ErrSelfDeletionForbidden  = errors.New("you cannot delete your own account")
	ErrHasDependents          = errors.New("resource still has dependent records")
	ErrConflict               = errors.New("resource was modified concurrently")
	ErrLockTimeout            = errors.New("resource is busy, try again")

	ErrUserNotFound           = fmt.Errorf("user %w", ErrNotFound)
	ErrClientNotFound         = fmt.Errorf("client %w", ErrNotFound)
	ErrInvoiceNotFound        = fmt.Errorf("invoice %w", ErrNotFound)
	ErrPaymentNotFound        = fmt.Errorf("payment %w", ErrNotFound)
	ErrRecoveryActionNotFound = fmt.Errorf("recovery action %w", ErrNotFound)

	ErrInvalidAmount  = errors.New("payment amount must be greater than zero")
	ErrInvalidMethod  = errors.New("payment method must be one of: cash, check, transfer")
	ErrAlreadySettled = errors.New("invoice is already paid")
	ErrExceedsBalance = errors.New("payment amount exceeds the remaining balance")
)

// ExceedsBalanceError is returned when a payment is larger than what is still owed.
// It matches ErrExceedsBalance with errors.Is.
type ExceedsBalanceError struct {
	Remaining float64
}

func (e *ExceedsBalanceError) Error() string {
	return fmt.Sprintf("%s (remaining balance: %.2f)", ErrExceedsBalance, e.Remaining)
}

func (e *ExceedsBalanceError) Is(target error) bool {
	return target == ErrExceedsBalance
}

// ValidationError carries field-level messages for a rejected request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
