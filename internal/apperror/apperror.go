package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthenticated     Kind = "unauthenticated"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindValidation          Kind = "validation"
	KindAlreadyEnrolled     Kind = "already_enrolled"
	KindInvalidKey          Kind = "invalid_key"
	KindDuplicateSubmission Kind = "duplicate_submission"
	KindWindowNotOpen       Kind = "window_not_open"
	KindWindowClosed        Kind = "window_closed"
	KindOutOfRange          Kind = "out_of_range"
	KindConflict            Kind = "conflict"
	KindInternal            Kind = "internal"
)

func (k Kind) String() string {
	return string(k)
}

// FieldError points a validation failure at a single request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
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

// Is matches any *Error of the same kind, so errors.Is(err, apperror.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is checks.
var (
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrValidation          = &Error{Kind: KindValidation}
	ErrAlreadyEnrolled     = &Error{Kind: KindAlreadyEnrolled}
	ErrInvalidKey          = &Error{Kind: KindInvalidKey}
	ErrDuplicateSubmission = &Error{Kind: KindDuplicateSubmission}
	ErrWindowNotOpen       = &Error{Kind: KindWindowNotOpen}
	ErrWindowClosed        = &Error{Kind: KindWindowClosed}
	ErrOutOfRange          = &Error{Kind: KindOutOfRange}
	ErrConflict            = &Error{Kind: KindConflict}
)

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Validation(msg string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Field is a shorthand for a single-field validation error.
func Field(field, msg string) *Error {
	return Validation(field+": "+msg, FieldError{Field: field, Message: msg})
}

func AlreadyEnrolled(msg string) *Error {
	return &Error{Kind: KindAlreadyEnrolled, Message: msg}
}

func InvalidKey(msg string) *Error {
	return &Error{Kind: KindInvalidKey, Message: msg}
}

func DuplicateSubmission(msg string) *Error {
	return &Error{Kind: KindDuplicateSubmission, Message: msg}
}

func WindowNotOpen(msg string) *Error {
	return &Error{Kind: KindWindowNotOpen, Message: msg}
}

func WindowClosed(msg string) *Error {
	return &Error{Kind: KindWindowClosed, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func OutOfRange(format string, args ...interface{}) *Error {
	return New(KindOutOfRange, format, args...)
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err; anything that is not an *Error is internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
