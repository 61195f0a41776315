package models

import (
	"errors"
	"fmt"
)

// ErrorKind tags a domain error so transports can map it without string matching
type ErrorKind string

const (
	ErrorKindNotFound     ErrorKind = "NotFound"
	ErrorKindInvalidInput ErrorKind = "InvalidInput"
	ErrorKindUnauthorized ErrorKind = "Unauthorized"
)

// Error is a tagged failure returned to callers of the service operations
type Error struct {
	Kind ErrorKind `json:"kind"`
	Msg  string    `json:"msg"`
}

// Sentinels for errors.Is; only Kind takes part in the comparison.
var (
	ErrNotFound     = &Error{Kind: ErrorKindNotFound}
	ErrInvalidInput = &Error{Kind: ErrorKindInvalidInput}
	ErrUnauthorized = &Error{Kind: ErrorKindUnauthorized}
)

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is matches any *Error carrying the same kind
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NotFound builds a NotFound error with a formatted message
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidInput builds an InvalidInput error with a formatted message
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// Unauthorized builds an Unauthorized error with a formatted message
func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a domain error anywhere in the chain, or "" for infrastructure failures
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
