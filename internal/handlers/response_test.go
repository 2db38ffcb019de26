package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sbilibin2017/bestellsystem/internal/apperrors"
	"github.com/sbilibin2017/bestellsystem/internal/logger"
)

func TestHandle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		err          error
		mockSetup    func(m *MockLogger)
		expectedCode int
		expectedBody string
	}{
		{
			name: "validation error",
			err:  apperrors.Validation("Invalid input", map[string]any{"field": "email"}),
			mockSetup: func(m *MockLogger) {
				m.EXPECT().Infow("Invalid input", gomock.Any()).Times(1)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":{"message":"Invalid input","status_code":400,"details":{"field":"email"}}}`,
		},
		{
			name: "wrapped not found error",
			err:  fmt.Errorf("order 7: %w", apperrors.NotFound("Resource not found", nil)),
			mockSetup: func(m *MockLogger) {
				m.EXPECT().Infow("Resource not found", gomock.Any()).Times(1)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":{"message":"Resource not found","status_code":404}}`,
		},
		{
			name: "typed internal error",
			err:  apperrors.Internal("Server error", nil),
			mockSetup: func(m *MockLogger) {
				m.EXPECT().Warnw("Server error", gomock.Any()).Times(1)
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":{"message":"Server error","status_code":500}}`,
		},
		{
			name: "generic error",
			err:  errors.New("db exploded"),
			mockSetup: func(m *MockLogger) {
				m.EXPECT().Errorw("unhandled error", gomock.Any()).
					Do(func(msg string, keysAndValues ...interface{}) {
						var exception string
						for _, kv := range keysAndValues {
							if f, ok := kv.(zap.Field); ok && f.Key == logger.ExceptionKey {
								exception = f.String
							}
						}
						assert.Equal(t, "db exploded", exception)
					}).
					Times(1)
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":{"message":"Internal server error","status_code":500}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLog := NewMockLogger(ctrl)
			tt.mockSetup(mockLog)

			handler := Handle(mockLog, func(w http.ResponseWriter, r *http.Request) error {
				return tt.err
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			assert.NotContains(t, rr.Body.String(), "db exploded")
		})
	}
}

func TestHandle_NoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := Handle(NewMockLogger(ctrl), func(w http.ResponseWriter, r *http.Request) error {
		return WriteJSON(w, http.StatusCreated, map[string]string{"id": "1"})
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":"1"}`, rr.Body.String())
}

func TestRouterErrorHandlers(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		expectedCode int
		expectedMsg  string
	}{
		{"not found", NotFoundHandler(zap.NewNop().Sugar()), http.StatusNotFound, NotFoundDescription},
		{"method not allowed", MethodNotAllowedHandler(zap.NewNop().Sugar()), http.StatusMethodNotAllowed, MethodNotAllowedDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

			assert.Equal(t, tt.expectedCode, rr.Code)

			var env apperrors.Envelope
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
			assert.Equal(t, tt.expectedMsg, env.Error.Message)
			assert.Equal(t, tt.expectedCode, env.Error.StatusCode)
			assert.Nil(t, env.Error.Details)
		})
	}
}

func TestWriteError_LogsRequestID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLog := NewMockLogger(ctrl)
	mockLog.EXPECT().
		Infow("Access denied", logger.RequestIDKey, "req-1", "method", http.MethodDelete, "path", "/orders/1", "status", http.StatusForbidden).
		Times(1)

	req := httptest.NewRequest(http.MethodDelete, "/orders/1", nil)
	req = req.WithContext(logger.WithRequestID(req.Context(), "req-1"))
	rr := httptest.NewRecorder()

	WriteError(rr, req, mockLog, apperrors.Forbidden("Access denied", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
