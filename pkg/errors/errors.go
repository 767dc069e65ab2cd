// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling for veilmarket.
// Every named failure of the system carries an ErrorCode so callers can
// distinguish known marketplace failures from unexpected underlying errors.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies veilmarket errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInitFailure indicates the vault connection could not be established.
	CodeInitFailure ErrorCode = "INIT_FAILURE"

	// CodeSchemaFailure indicates a remote schema could not be created.
	CodeSchemaFailure ErrorCode = "SCHEMA_FAILURE"

	// CodeWriteFailure indicates a record write to the vault failed.
	CodeWriteFailure ErrorCode = "WRITE_FAILURE"

	// CodeReadFailure indicates a record read from the vault failed.
	CodeReadFailure ErrorCode = "READ_FAILURE"

	// CodeInvalidInput indicates the input was malformed or failed validation.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeMissingSchema indicates an action requires a remote schema
	// identifier that has not been provisioned yet.
	CodeMissingSchema ErrorCode = "MISSING_SCHEMA"

	// CodeConfigFailure indicates the vault connection configuration was rejected.
	CodeConfigFailure ErrorCode = "CONFIG_FAILURE"

	// CodeBookingFailure indicates a booking operation failed.
	CodeBookingFailure ErrorCode = "BOOKING_FAILURE"

	// CodeFeedbackFailure indicates a feedback operation failed.
	CodeFeedbackFailure ErrorCode = "FEEDBACK_FAILURE"
)

// MarketError is a typed error with context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type MarketError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *MarketError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *MarketError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *MarketError) MarshalJSON() ([]byte, error) {
	type Alias MarketError
	return json.Marshal(&struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Err     string `json:"error,omitempty"`
		*Alias
	}{
		Message: e.Error(),
		Code:    string(e.Code),
		Err:     fmt.Sprintf("%v", e.Err),
		Alias:   (*Alias)(e),
	})
}

// New creates a new MarketError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *MarketError {
	return &MarketError{
		Code:    code,
		Message: msg,
		Err:     cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *MarketError) WithContext(key string, value interface{}) *MarketError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// AsMarketError attempts to convert an error to a MarketError.
// Returns the error as MarketError if it is one, or wraps it otherwise.
// Unknown errors lose their specific kind and surface as CodeInternal.
func AsMarketError(err error) *MarketError {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MarketError); ok {
		return me
	}
	return New(CodeInternal, "wrapped error", err)
}
