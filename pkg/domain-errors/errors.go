// Package errors provides coded application errors so transport layers can map
// failures to responses without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. Codes are part of the API surface:
// handlers translate them to HTTP statuses and clients may branch on them.
type Code string

const (
	// CodeMalformedResponse marks a ledger query response whose parallel
	// columns are missing, mismatched in length, or non-numeric.
	CodeMalformedResponse Code = "malformed_response"
	// CodeInvalidStream marks a stream rejected at construction
	// (non-positive duration or negative amount).
	CodeInvalidStream Code = "invalid_stream"
	CodeValidation    Code = "validation"
	CodeBadRequest    Code = "bad_request"
	CodeNotFound      Code = "not_found"
	CodeUnavailable   Code = "unavailable"
	CodeInternal      Code = "internal"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
		e = nil
	}
	return false
}

// CodeOf returns the outermost code attached to err, or CodeInternal when err
// carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
