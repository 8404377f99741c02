// Package apperr defines the error taxonomy every handler maps failures into.
// Each error carries an HTTP status and a stable business code so clients can
// branch on something sturdier than message text.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Msg    string
	err    error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.err }

// Wrap attaches an underlying cause while keeping the status and code.
func (e *Error) Wrap(err error) *Error {
	return &Error{Status: e.Status, Code: e.Code, Msg: e.Msg, err: err}
}

func New(status int, code, msg string) *Error {
	return &Error{Status: status, Code: code, Msg: msg}
}

func Validation(msg string) *Error {
	return New(http.StatusBadRequest, "VALIDATION_ERROR", msg)
}

func Conflict(msg string) *Error {
	return New(http.StatusConflict, "CONFLICT", msg)
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, "NOT_FOUND", msg)
}

var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	ErrInvalidToken       = New(http.StatusBadRequest, "INVALID_OR_EXPIRED_TOKEN", "invalid or expired token")
	ErrMailDelivery       = New(http.StatusBadGateway, "EMAIL_DELIVERY_FAILED", "failed to send email")
	ErrAlreadySubmitted   = New(http.StatusConflict, "ALREADY_SUBMITTED", "today's routine has already been entered")
)

// Internal wraps an unexpected store or IO failure.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "INTERNAL", Msg: "internal server error", err: err}
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
