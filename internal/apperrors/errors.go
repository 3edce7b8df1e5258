package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected failure in infrastructure (database, cache).
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// UnbalancedEntryError is returned when a voucher's debit and credit totals
// differ by at least one cent after rounding.
type UnbalancedEntryError struct {
	VoucherType string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("unbalanced %s voucher: debits %s, credits %s, difference %s",
		e.VoucherType, e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2), e.Difference().StringFixed(2))
}

// Difference returns |debit - credit|.
func (e *UnbalancedEntryError) Difference() decimal.Decimal {
	return e.TotalDebit.Sub(e.TotalCredit).Abs()
}

func (e *UnbalancedEntryError) Is(target error) bool { return target == ErrValidation }

// AccountNotFoundError is returned when a posting cannot resolve one of the
// accounts it needs. Hint names what was looked for (a role, a code or an id).
type AccountNotFoundError struct {
	Hint string
}

func (e *AccountNotFoundError) Error() string {
	return "account not found: " + e.Hint
}

func (e *AccountNotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidAmountError is returned for non-positive or non-numeric monetary input.
type InvalidAmountError struct {
	Field string
	Value string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount for %s: %q must be greater than zero", e.Field, e.Value)
}

func (e *InvalidAmountError) Is(target error) bool { return target == ErrValidation }

// InvalidDateError is returned when a report date cannot be parsed.
type InvalidDateError struct {
	Input string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", e.Input)
}

func (e *InvalidDateError) Unwrap() error { return e.Err }

func (e *InvalidDateError) Is(target error) bool { return target == ErrValidation }
