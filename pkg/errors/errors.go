package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindValidation
	KindUpstream
)

// AppError carries a kind alongside a human-readable message. Handlers map
// kinds to HTTP statuses; the tool layer maps them to error-flagged text.
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Upstream(message string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: message, Err: err}
}

// IsKind reports whether err or any error it wraps is an AppError of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool   { return IsKind(err, KindConflict) }
func IsValidation(err error) bool { return IsKind(err, KindValidation) }
func IsUpstream(err error) bool   { return IsKind(err, KindUpstream) }

// StatusCode resolves the HTTP status for any error. Errors that are not
// AppErrors map to 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message safe to surface to a client. Wrapped
// causes of classified errors and all unclassified errors stay internal.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
