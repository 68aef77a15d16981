package payments

import (
	"errors"
	"fmt"
)

// Error codes used across the payments core. Every failure surfaced by this
// package carries one of these codes so callers can map it to a user-facing
// response without string matching.
const (
	CodeAccountInvalid            = "account_invalid"
	CodeAccountNotSettlementReady = "account_not_settlement_ready"
	CodeSignatureInvalid          = "signature_invalid"
	CodeInvalidConfiguration      = "invalid_configuration"
	CodeInvalidRequest            = "invalid_request"
	CodeAPICallFailed             = "api_call_failed"
)

// PaymentError represents a payments-specific error
type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment error [%s]: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("payment error [%s]: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// Common payment errors
var (
	ErrAccountInvalid            = &PaymentError{Code: CodeAccountInvalid, Message: "settlement account does not resolve"}
	ErrAccountNotSettlementReady = &PaymentError{Code: CodeAccountNotSettlementReady, Message: "account cannot receive transfers yet"}
	ErrSignatureInvalid          = &PaymentError{Code: CodeSignatureInvalid, Message: "webhook signature validation failed"}
	ErrInvalidConfiguration      = &PaymentError{Code: CodeInvalidConfiguration, Message: "invalid payments configuration"}
	ErrAPICallFailed             = &PaymentError{Code: CodeAPICallFailed, Message: "payment provider API call failed"}
)

// NewPaymentError creates a new PaymentError with the given code, message, and underlying error
func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode returns the payments error code carried by err, or an empty
// string if err is not a PaymentError.
func ErrorCode(err error) string {
	var pErr *PaymentError
	if errors.As(err, &pErr) {
		return pErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given payments error code.
func HasCode(err error, code string) bool {
	return ErrorCode(err) == code
}
