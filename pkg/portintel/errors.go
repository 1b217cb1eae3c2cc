package portintel

import (
	"errors"
	"fmt"
)

// ErrorCode defines error classification codes for structured error handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeOversold         ErrorCode = "OVERSOLD"
	ErrCodePriceUnavailable ErrorCode = "PRICE_UNAVAILABLE"
	ErrCodeCalculation      ErrorCode = "CALCULATION_ERROR"
	ErrCodeStorage          ErrorCode = "STORAGE_ERROR"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// ErrPriceUnavailable indicates a live quote could not be resolved for a
// symbol. The valuation engine treats it as non-fatal and falls back to the
// last buy price. Check with errors.Is().
var ErrPriceUnavailable = errors.New("price unavailable")

// OversoldError reports that cumulative sold quantity exceeded cumulative
// bought quantity for a symbol at some point in the transaction sequence.
// It aborts aggregation entirely.
type OversoldError struct {
	Symbol string
}

// Error implements the error interface.
func (e *OversoldError) Error() string {
	return fmt.Sprintf("sold more shares than bought for %s", e.Symbol)
}

// Error represents a structured error with classification code.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with classification code and additional context.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// IsErrorCode checks if an error matches a specific error code.
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the classification code from an error. OversoldError maps
// to ErrCodeOversold; anything unclassified maps to ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var oversold *OversoldError
	if errors.As(err, &oversold) {
		return ErrCodeOversold
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, ErrPriceUnavailable) {
		return ErrCodePriceUnavailable
	}
	return ErrCodeInternal
}
