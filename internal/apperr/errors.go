package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInsufficientStock Kind = "insufficient_stock"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindDependency        Kind = "dependency"
	KindUpstream          Kind = "upstream"
	KindInternal          Kind = "internal"
)

// Error is what every service returns to the transport layer.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can write errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func (e *Error) StatusCode() int {
	return StatusFor(e.Kind)
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Kind markers for errors.Is.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrDependency        = &Error{Kind: KindDependency}
	ErrUpstream          = &Error{Kind: KindUpstream}
	ErrInternal          = &Error{Kind: KindInternal}
)

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...), nil)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...), nil)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...), nil)
}

func InsufficientStock(format string, args ...any) *Error {
	return New(KindInsufficientStock, fmt.Sprintf(format, args...), nil)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message, nil)
}

func Dependency(format string, args ...any) *Error {
	return New(KindDependency, fmt.Sprintf(format, args...), nil)
}

func Upstream(message string, err error) *Error {
	return New(KindUpstream, message, err)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation, KindInsufficientStock:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindDependency:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// From returns err as an *Error, treating anything unclassified as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal server error", err)
}
