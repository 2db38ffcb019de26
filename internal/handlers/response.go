package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/bestellsystem/internal/apperrors"
	"github.com/sbilibin2017/bestellsystem/internal/logger"
)

//go:generate mockgen -source=response.go -destination=mock_response.go -package=handlers

// Logger is the subset of *zap.SugaredLogger used by the handlers.
type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// Descriptions of router-level failures.
const (
	NotFoundDescription         = "The requested URL was not found on the server."
	MethodNotAllowedDescription = "The method is not allowed for the requested URL."
)

// HandlerFunc is an HTTP handler that returns its failure instead of writing it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts h so that any returned error is rendered by WriteError.
func Handle(log Logger, h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			WriteError(w, r, log, err)
		}
	}
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError renders err as an error envelope. This is the only place
// error responses are produced; unclassified errors are logged but never sent.
func WriteError(w http.ResponseWriter, r *http.Request, log Logger, err error) {
	env, status := apperrors.Map(err)

	kv := []interface{}{
		logger.RequestIDKey, logger.RequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
	}

	var appErr *apperrors.Error
	var httpErr *apperrors.HTTPError
	switch {
	case errors.As(err, &appErr), errors.As(err, &httpErr):
		if status >= http.StatusInternalServerError {
			log.Warnw(env.Error.Message, kv...)
		} else {
			log.Infow(env.Error.Message, kv...)
		}
	default:
		log.Errorw("unhandled error", append(kv, logger.Exception(err))...)
	}

	if werr := WriteJSON(w, status, env); werr != nil {
		log.Errorw("failed to write error response", append(kv, logger.Exception(werr))...)
	}
}

// NotFoundHandler renders unknown routes as a 404 envelope.
func NotFoundHandler(log Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, log, &apperrors.HTTPError{
			Code:        http.StatusNotFound,
			Description: NotFoundDescription,
		})
	}
}

// MethodNotAllowedHandler renders disallowed methods as a 405 envelope.
func MethodNotAllowedHandler(log Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, log, &apperrors.HTTPError{
			Code:        http.StatusMethodNotAllowed,
			Description: MethodNotAllowedDescription,
		})
	}
}
