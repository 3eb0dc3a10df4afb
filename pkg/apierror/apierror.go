package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeMalformedCredential = "MALFORMED_CREDENTIAL"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeForbidden           = "FORBIDDEN"
	CodeConflict            = "CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodeBadRequest          = "BAD_REQUEST"
	CodeUpstream            = "UPSTREAM_ERROR"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

func Unauthenticated(message string) *APIError {
	return New(CodeUnauthenticated, message, "/login", http.StatusUnauthorized)
}

func Forbidden(message string, details string) *APIError {
	return New(CodeForbidden, message, details, http.StatusForbidden)
}

func Conflict(message string, details string) *APIError {
	return New(CodeConflict, message, details, http.StatusConflict)
}

func BadRequest(message string, details string) *APIError {
	return New(CodeBadRequest, message, details, http.StatusBadRequest)
}

func NotFound(message string, details string) *APIError {
	return New(CodeNotFound, message, details, http.StatusNotFound)
}

// Upstream reports a transport failure or a 5xx from the remote API. The status
// seen by the dashboard's own clients is always 502 or 503.
func Upstream(message string, details string, status int) *APIError {
	if status != http.StatusServiceUnavailable {
		status = http.StatusBadGateway
	}
	return New(CodeUpstream, message, details, status)
}

// FromStatus maps a non-2xx status of the remote API to the error kind the
// dashboard surfaces for it.
func FromStatus(status int, message string) *APIError {
	switch {
	case status == http.StatusUnauthorized:
		return Unauthenticated(message)
	case status == http.StatusForbidden:
		return Forbidden(message, "")
	case status == http.StatusNotFound:
		return NotFound(message, "")
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return Conflict(message, "")
	case status >= 500:
		return Upstream(message, fmt.Sprintf("upstream status %d", status), http.StatusBadGateway)
	default:
		return New(CodeBadRequest, message, fmt.Sprintf("upstream status %d", status), http.StatusBadRequest)
	}
}

func Is(err error, code string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == code
}

func IsUnauthenticated(err error) bool { return Is(err, CodeUnauthenticated) }

func IsConflict(err error) bool { return Is(err, CodeConflict) }

func IsUpstream(err error) bool { return Is(err, CodeUpstream) }
