package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpulse/internal/infrastructure"
	"adpulse/internal/shared/testutil"
)

func TestNewErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		includeStack bool
	}{
		{name: "with stack traces", includeStack: true},
		{name: "without stack traces", includeStack: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, tt.includeStack)

			require.NotNil(t, handler)
			assert.Equal(t, tt.includeStack, handler.includeStack)
			assert.NotNil(t, handler.logger)
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
	}{
		{
			name:       "nil error writes nothing",
			err:        nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantTitle:  "Request Timeout",
		},
		{
			name:       "api error",
			err:        InvalidRequestWithError(fmt.Errorf("invalid URL escape")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Bad Request",
		},
		{
			name:       "no data for selected date",
			err:        NewNoDataError("no rows dated 2024-01-06").WithContext("date", "2024-01-06"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNoDataForDate,
			wantTitle:  "No Data For Selected Date",
		},
		{
			name:       "wrapped malformed dataset",
			err:        fmt.Errorf("load dataset: %w", NewParsingError("row 4: malformed date \"32/13/2024\"", nil)),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataCorrupted,
			wantTitle:  "Malformed Dataset",
		},
		{
			name:       "source failure",
			err:        NewSourceError("read worksheet", fmt.Errorf("googleapi: 403")),
			wantStatus: http.StatusBadGateway,
			wantType:   TypeSourceUnavailable,
			wantTitle:  "Spreadsheet Source Unavailable",
		},
		{
			name:       "generic error",
			err:        fmt.Errorf("something went wrong"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logHandler := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/report", nil)
			r = r.WithContext(infrastructure.WithTraceID(r.Context(), "trace-123"))

			handler.HandleError(w, r, tt.err)

			if tt.err == nil {
				assert.Equal(t, 0, w.Body.Len())
				assert.Equal(t, 0, logHandler.Count())
				return
			}

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantTitle, body["title"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "trace-123", body["trace_id"])
			assert.True(t, logHandler.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_NoDataCarriesDate(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodGet, "/api/report", nil)

	problem := handler.ErrorToProblem(NewNoDataError("no rows").WithContext("date", "2024-01-06"), r)

	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, NoDataForDateMessage, problem.Detail)
	assert.Equal(t, "2024-01-06", problem.Extensions["date"])
}

func TestErrorHandler_NoDataWithoutDate(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodGet, "/api/report", nil)

	problem := handler.ErrorToProblem(NewNoDataError(NoDataForViewMessage).WithContext("view", "historical"), r)

	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, TypeNoData, problem.Type)
	assert.Equal(t, NoDataForViewMessage, problem.Detail)
	assert.Equal(t, "historical", problem.Extensions["view"])
	assert.NotContains(t, problem.Extensions, "date")
}

func TestErrorHandler_InternalErrorsHideContext(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodGet, "/api/report", nil)

	err := NewConfigError("bad credentials path", nil).WithContext("path", "/secret/key.json")
	problem := handler.ErrorToProblem(err, r)

	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.NotContains(t, problem.Extensions, "path")
}

func TestErrorHandler_apiErrorToProblem(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		wantType string
	}{
		{"validation", ErrValidation("view", "view is required"), TypeValidation},
		{"not found", NotFoundError(`Chart "funnel"`), TypeNotFound},
		{"rate limit", ErrRateLimitExceeded, TypeRateLimit},
		{"unknown code", New(http.StatusTeapot, "TEAPOT", "short and stout"), TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)
			r := httptest.NewRequest(http.MethodGet, "/x", nil)

			problem := handler.apiErrorToProblem(tt.apiError, r)

			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.apiError.StatusCode, problem.Status)
			assert.Equal(t, tt.apiError.ErrorCode, problem.Extensions["error_code"])
		})
	}
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/boom", nil)

	handler.HandlePanic(w, r, "kaboom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "kaboom", body["panic"])
	assert.True(t, logHandler.ContainsMessage("panic recovered"))
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/report", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "Method DELETE is not allowed")
}
