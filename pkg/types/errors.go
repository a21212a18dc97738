package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an error.
type ErrorCode string

const (
	// S0xxx: syntax errors
	ErrUnexpectedEnd    ErrorCode = "S0104"
	ErrCommentNotClosed ErrorCode = "S0106"
	ErrSyntaxError      ErrorCode = "S0201"
	ErrExpectedToken    ErrorCode = "S0202"
	ErrUnexpectedChar   ErrorCode = "S0204"

	// C1xxx: compile errors
	ErrUnboundVariable  ErrorCode = "C1001"
	ErrUnknownBuiltin   ErrorCode = "C1002"
	ErrNoMainExpression ErrorCode = "C1003"

	// R2xxx: runtime faults
	ErrUnboundIndex         ErrorCode = "R2001"
	ErrInsufficientOperands ErrorCode = "R2002"
	ErrMissingPeekTarget    ErrorCode = "R2003"
	ErrEmptyResult          ErrorCode = "R2004"
	ErrExtraOperands        ErrorCode = "R2005"

	// R3xxx: resource limits
	ErrDepthExceeded ErrorCode = "R3020"
	ErrCancelled     ErrorCode = "R3030"
)

// Error is a structured error carrying a code and, when known, the source
// position it refers to.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new error. Use position -1 when there is no source
// location.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds the offending name or index to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// IsCode reports whether err, or any error it wraps, is an *Error with code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsUnbound reports whether err is an unbound variable error, raised either
// by the compiler (by name) or by the VM (by index).
func IsUnbound(err error) bool {
	return IsCode(err, ErrUnboundVariable) || IsCode(err, ErrUnboundIndex)
}
