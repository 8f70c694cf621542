package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adpulse/internal/dataprocessing"
	apperrors "adpulse/internal/errors"
	"adpulse/internal/middleware"
	"adpulse/internal/services"
	"adpulse/internal/shared/testutil"
	"adpulse/pkg/contracts/domain"
)

// MockReportService is a mock implementation of ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, sel domain.ViewSelection) (*domain.Report, error) {
	args := m.Called(sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) Dates(ctx context.Context) ([]time.Time, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockReportService) Refresh(ctx context.Context) (services.SnapshotStatus, error) {
	args := m.Called()
	return args.Get(0).(services.SnapshotStatus), args.Error(1)
}

func (m *MockReportService) Status() services.SnapshotStatus {
	args := m.Called()
	return args.Get(0).(services.SnapshotStatus)
}

var jan5 = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

func testReport(sel domain.ViewSelection) *domain.Report {
	return &domain.Report{
		View:        sel,
		MonthAnchor: time.January,
		RowCount:    2,
		Spend:       domain.SpendSection{TotalCost: 150, MonthlyCost: 150},
		Revenue:     domain.RevenueSection{Revenue: 300, ROAS: 2},
		TopCampaigns: []domain.CampaignROAS{
			{CampaignName: "Winter Sale", Cost: 150, PurchaseValue: 300, ROAS: domain.Present(2)},
		},
		Charts: []domain.ChartSet{
			{
				Name:      domain.ChartCampaignReach,
				Dimension: string(domain.ColumnCampaignName),
				Series:    []string{"Reach", "Impressions"},
				Points:    []domain.ChartPoint{{Label: "Winter Sale", Values: []float64{1000, 2500}}},
			},
		},
	}
}

func newTestRouter(t *testing.T, svc ReportService) (http.Handler, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	h := NewReportHandler(svc, logger, apperrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api", h.Routes)
	return r, logs
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestReportHandler_GetReport(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setup      func(m *MockReportService)
		wantStatus int
		wantType   string
	}{
		{
			name:  "realtime report",
			query: "view=realtime&date=2024-01-05",
			setup: func(m *MockReportService) {
				m.On("Generate", domain.SingleDay(jan5)).Return(testReport(domain.SingleDay(jan5)), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "historical alias",
			query: "view=all",
			setup: func(m *MockReportService) {
				m.On("Generate", domain.AllTime()).Return(testReport(domain.AllTime()), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing date",
			query:      "view=realtime",
			setup:      func(m *MockReportService) {},
			wantStatus: http.StatusBadRequest,
			wantType:   apperrors.TypeValidation,
		},
		{
			name:  "no data for date",
			query: "view=realtime&date=2024-01-06",
			setup: func(m *MockReportService) {
				sel := domain.SingleDay(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC))
				m.On("Generate", sel).Return(nil, dataprocessing.ErrNoDataForSelection)
			},
			wantStatus: http.StatusNotFound,
			wantType:   apperrors.TypeNoDataForDate,
		},
		{
			name:  "malformed dataset",
			query: "view=historical",
			setup: func(m *MockReportService) {
				m.On("Generate", domain.AllTime()).Return(nil,
					&dataprocessing.MalformedDateError{Row: 3, Value: "32/13/2024"})
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apperrors.TypeDataCorrupted,
		},
		{
			name:  "source unavailable",
			query: "view=historical",
			setup: func(m *MockReportService) {
				m.On("Generate", domain.AllTime()).Return(nil,
					apperrors.NewSourceError("read worksheet", errors.New("403 forbidden")))
			},
			wantStatus: http.StatusBadGateway,
			wantType:   apperrors.TypeSourceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			tt.setup(svc)
			router, _ := newTestRouter(t, svc)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			if tt.wantType == "" {
				assert.Equal(t, "success", body["status"])
				data := body["data"].(map[string]interface{})
				assert.EqualValues(t, 2, data["row_count"])
			} else {
				assert.Equal(t, tt.wantType, body["type"])
				assert.NotEmpty(t, body["trace_id"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_NoDataProblem(t *testing.T) {
	svc := new(MockReportService)
	sel := domain.SingleDay(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC))
	svc.On("Generate", sel).Return(nil, dataprocessing.ErrNoDataForSelection)
	router, logs := newTestRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report?view=realtime&date=2024-01-06", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, apperrors.NoDataForDateMessage, body["detail"])
	assert.Equal(t, "2024-01-06", body["date"])
	assert.True(t, logs.ContainsMessage("no data for selection"))
}

func TestReportHandler_NoDataHistorical(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Generate", domain.AllTime()).Return(nil, dataprocessing.ErrNoDataForSelection)
	router, _ := newTestRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report?view=historical", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, apperrors.TypeNoData, body["type"])
	assert.Equal(t, apperrors.NoDataForViewMessage, body["detail"])
	assert.Equal(t, "historical", body["view"])
	assert.NotContains(t, body, "date")
}

func TestReportHandler_GetCharts(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  float64
	}{
		{name: "all charts", query: "view=historical", wantStatus: http.StatusOK, wantCount: 1},
		{name: "single chart", query: "view=historical&name=" + domain.ChartCampaignReach, wantStatus: http.StatusOK},
		{name: "unknown chart", query: "view=historical&name=pie", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			svc.On("Generate", domain.AllTime()).Return(testReport(domain.AllTime()), nil)
			router, _ := newTestRouter(t, svc)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report/charts?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			switch {
			case tt.wantStatus != http.StatusOK:
				assert.Equal(t, apperrors.TypeNotFound, body["type"])
			case tt.wantCount > 0:
				assert.Equal(t, tt.wantCount, body["count"])
			default:
				data := body["data"].(map[string]interface{})
				assert.Equal(t, domain.ChartCampaignReach, data["name"])
			}
		})
	}
}

func TestReportHandler_ExportReport(t *testing.T) {
	tests := []struct {
		name            string
		format          string
		wantContentType string
		wantFilename    string
	}{
		{"default csv", "", "text/csv", "meta-ads-report-realtime-2024-01-05.csv"},
		{"json", "json", "application/json", "meta-ads-report-realtime-2024-01-05.json"},
		{"xlsx", "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "meta-ads-report-realtime-2024-01-05.xlsx"},
		{"text", "text", "text/plain", "meta-ads-report-realtime-2024-01-05.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			svc.On("Generate", domain.SingleDay(jan5)).Return(testReport(domain.SingleDay(jan5)), nil)
			router, logs := newTestRouter(t, svc)

			url := "/api/report/export?view=realtime&date=2024-01-05"
			if tt.format != "" {
				url += "&format=" + tt.format
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), tt.wantContentType))
			assert.Contains(t, w.Header().Get("Content-Disposition"), tt.wantFilename)
			assert.NotZero(t, w.Body.Len())
			assert.True(t, logs.ContainsMessage("report exported"))
		})
	}
}

func TestReportHandler_ExportRejectsUnknownFormat(t *testing.T) {
	svc := new(MockReportService)
	router, _ := newTestRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report/export?view=historical&format=pdf", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Generate", mock.Anything)
}

func TestReportHandler_GetDates(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Dates").Return([]time.Time{jan5, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)}, nil)
	router, _ := newTestRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dates", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, []interface{}{"2024-01-05", "2024-02-10"}, body["data"])
	assert.Equal(t, float64(2), body["count"])
}

func TestReportHandler_RefreshDataset(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Refresh").Return(services.SnapshotStatus{Source: "csv:ads.csv", Loaded: true, Rows: 3}, nil)
		router, logs := newTestRouter(t, svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dataset/refresh", nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, float64(3), data["rows"])
		assert.True(t, logs.ContainsMessage("dataset refresh requested"))
	})

	t.Run("source failure", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Refresh").Return(services.SnapshotStatus{},
			apperrors.NewSourceError("read worksheet", errors.New("timeout")))
		router, logs := newTestRouter(t, svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dataset/refresh", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.True(t, logs.ContainsMessage("dataset refresh failed"))
	})
}

func TestReportHandler_GetSnapshot(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Status").Return(services.SnapshotStatus{Source: "csv:ads.csv", CacheBackend: "memory"})
	router, _ := newTestRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dataset", nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "memory", data["cache_backend"])
}
