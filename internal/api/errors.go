package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an API failure so callers can branch without inspecting
// raw status codes.
type Kind string

const (
	KindNetwork    Kind = "network"    // request never produced a response
	KindAuth       Kind = "auth"       // 401/403
	KindValidation Kind = "validation" // 400/422
	KindNotFound   Kind = "not_found"  // 404
	KindServer     Kind = "server"     // 5xx
	KindDecode     Kind = "decode"     // response body was not what we expected
)

// FieldError is one entry of a 422 validation detail list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the categorized failure returned by the client. Detail carries the
// server's message verbatim so forms can surface it untouched.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Fields []FieldError
	cause  error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.Status, e.Detail)
	}
	if e.cause != nil {
		return fmt.Sprintf("api: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("api: %s (%d)", e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.cause }

// FieldSummary flattens field-level errors into a single line.
func (e *Error) FieldSummary() string {
	if len(e.Fields) == 0 {
		return e.Detail
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(parts, "; ")
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		// Anything else in 4xx gets the validation treatment: the server
		// rejected the request and the detail says why.
		return KindValidation
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// IsAuth reports whether err is a 401/403 failure.
func IsAuth(err error) bool { return IsKind(err, KindAuth) }

// IsNotFound reports whether err is a 404 failure.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsValidation reports whether err is a 400/422 failure.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsNetwork reports whether err never reached the server.
func IsNetwork(err error) bool { return IsKind(err, KindNetwork) }
