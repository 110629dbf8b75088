// Package client is the Go consumer of the Ajira API: a single HTTP choke
// point with global error classification, a durable credential store, a
// session state machine and role-gated route resolution.
package client

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrorKind classifies every failure an API call can produce. Classification
// happens in exactly one place (the Client); call sites never interpret
// status codes themselves.
type ErrorKind int

const (
	// KindConnectivity means no response was received at all.
	KindConnectivity ErrorKind = iota
	// KindAuthExpired is a 401: the session has been invalidated globally.
	KindAuthExpired
	// KindPermissionDenied is a 403: authenticated but lacking a role or
	// badge gate. Session state is left intact.
	KindPermissionDenied
	// KindValidation is a 400/422 with optional field-level messages.
	KindValidation
	// KindNotFound is a 404.
	KindNotFound
	// KindServerFault is any 5xx.
	KindServerFault
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity failure"
	case KindAuthExpired:
		return "authorization expired"
	case KindPermissionDenied:
		return "permission denied"
	case KindValidation:
		return "validation failed"
	case KindNotFound:
		return "not found"
	case KindServerFault:
		return "server fault"
	}
	return "unknown"
}

// APIError is the error type returned by all Client calls.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Detail     string
	Fields     map[string]string
	cause      error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return e.Kind.String()
}

func (e *APIError) Unwrap() error { return e.cause }

// KindOf extracts the classification from an error returned by a Client
// call; ok is false for non-API errors.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func classifyStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized:
		return KindAuthExpired
	case code == http.StatusForbidden:
		return KindPermissionDenied
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return KindValidation
	case code == http.StatusNotFound:
		return KindNotFound
	default:
		return KindServerFault
	}
}
