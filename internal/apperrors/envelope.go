package apperrors

import (
	"errors"
	"net/http"
)

// Fallback messages used when an error carries nothing client-safe.
const (
	DefaultHTTPMessage    = "An error occurred"
	InternalServerMessage = "Internal server error"
)

// Envelope is the body of every error response.
type Envelope struct {
	Error Body `json:"error"`
}

// Body is the inner object of an Envelope.
type Body struct {
	Message    string         `json:"message"`
	StatusCode int            `json:"status_code"`
	Details    map[string]any `json:"details,omitempty"`
}

// HTTPError is a failure produced by the router itself,
// such as an unknown route or a disallowed method.
type HTTPError struct {
	Code        int
	Description string
}

func (e *HTTPError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return http.StatusText(e.Code)
}

// Map converts any error into an envelope and status code.
// Typed errors win over HTTP errors, which win over everything else.
func Map(err error) (Envelope, int) {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.ToEnvelope(), appErr.StatusCode()
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code := httpErr.Code
		if code == 0 {
			code = http.StatusInternalServerError
		}
		msg := httpErr.Description
		if msg == "" {
			msg = DefaultHTTPMessage
		}
		return Envelope{Error: Body{Message: msg, StatusCode: code}}, code
	}

	return Envelope{Error: Body{
		Message:    InternalServerMessage,
		StatusCode: http.StatusInternalServerError,
	}}, http.StatusInternalServerError
}
