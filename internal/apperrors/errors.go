// Package apperrors defines the typed application errors and the JSON
// envelope every error response is rendered into.
package apperrors

import "net/http"

// Kind classifies an Error. The set of kinds is closed.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInternal
)

var kindStatus = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindInternal:     http.StatusInternalServerError,
}

// StatusCode returns the fixed HTTP status of the kind, or 0 for KindUnknown.
func (k Kind) StatusCode() int {
	return kindStatus[k]
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

func kindOf(status int) Kind {
	for k, s := range kindStatus {
		if s == status {
			return k
		}
	}
	return KindUnknown
}

// Error is a recoverable, classified failure with a message,
// an HTTP status code and optional structured details.
type Error struct {
	kind    Kind
	message string
	status  int
	details map[string]any
}

// New creates an Error with an arbitrary status code.
// Codes outside 100-599 are replaced by 500.
func New(message string, statusCode int, details map[string]any) *Error {
	if statusCode < 100 || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}
	return &Error{
		kind:    kindOf(statusCode),
		message: message,
		status:  statusCode,
		details: copyDetails(details),
	}
}

func newKind(kind Kind, message string, details map[string]any) *Error {
	return &Error{
		kind:    kind,
		message: message,
		status:  kind.StatusCode(),
		details: copyDetails(details),
	}
}

// Validation returns a 400 error.
func Validation(message string, details map[string]any) *Error {
	return newKind(KindValidation, message, details)
}

// Unauthorized returns a 401 error.
func Unauthorized(message string, details map[string]any) *Error {
	return newKind(KindUnauthorized, message, details)
}

// Forbidden returns a 403 error.
func Forbidden(message string, details map[string]any) *Error {
	return newKind(KindForbidden, message, details)
}

// NotFound returns a 404 error.
func NotFound(message string, details map[string]any) *Error {
	return newKind(KindNotFound, message, details)
}

// Internal returns a 500 error. Its message is sent to the client,
// so it must not carry internal detail.
func Internal(message string, details map[string]any) *Error {
	return newKind(KindInternal, message, details)
}

func (e *Error) Error() string { return e.message }

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Message() string { return e.message }

func (e *Error) StatusCode() int { return e.status }

// Details returns a copy of the details, or nil when none were supplied.
func (e *Error) Details() map[string]any { return copyDetails(e.details) }

// ToEnvelope renders the error into the response envelope.
func (e *Error) ToEnvelope() Envelope {
	return Envelope{Error: Body{
		Message:    e.message,
		StatusCode: e.status,
		Details:    copyDetails(e.details),
	}}
}

// copyDetails normalises empty details to nil.
func copyDetails(details map[string]any) map[string]any {
	if len(details) == 0 {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		out[k] = v
	}
	return out
}
