package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpulse/internal/config"
	apperrors "adpulse/internal/errors"
	"adpulse/internal/shared/testutil"
)

func writeSampleCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ads.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(testutil.BuildTable(testutil.SampleRows()...)))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Source.Kind = config.SourceCSV
	cfg.Source.FilePath = writeSampleCSV(t)
	cfg.Source.Watch = false
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = a.Store.Close()
		_ = a.OTelProviders.Shutdown(context.Background())
	})
	return a
}

func serve(a *Application, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantType   string
	}{
		{"realtime report", http.MethodGet, "/api/report?view=realtime&date=2024-01-05", http.StatusOK, ""},
		{"historical report", http.MethodGet, "/api/report?view=historical", http.StatusOK, ""},
		{"trailing slash", http.MethodGet, "/api/report/?view=historical", http.StatusOK, ""},
		{"charts", http.MethodGet, "/api/report/charts?view=historical", http.StatusOK, ""},
		{"dates", http.MethodGet, "/api/dates", http.StatusOK, ""},
		{"health", http.MethodGet, "/api/health", http.StatusOK, ""},
		{"healthz", http.MethodGet, "/healthz", http.StatusOK, ""},
		{"ready", http.MethodGet, "/api/health/ready", http.StatusOK, ""},
		{"refresh", http.MethodPost, "/api/dataset/refresh", http.StatusOK, ""},
		{"no data", http.MethodGet, "/api/report?view=realtime&date=2024-01-06", http.StatusNotFound, apperrors.TypeNoDataForDate},
		{"bad view", http.MethodGet, "/api/report?view=weekly", http.StatusBadRequest, apperrors.TypeValidation},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound, apperrors.TypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(a, tt.method, tt.target)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			if tt.wantType != "" {
				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, tt.wantType, body["type"])
			}
		})
	}
}

func TestApplication_ReportTotals(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	w := serve(a, http.MethodGet, "/api/report?view=realtime&date=2024-01-05")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			RowCount int `json:"row_count"`
			Spend    struct {
				TotalCost float64 `json:"total_cost"`
			} `json:"spend"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 2, body.Data.RowCount)
	assert.InDelta(t, 150.0, body.Data.Spend.TotalCost, 1e-9)
}

func TestApplication_ExportAndMetrics(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	w := serve(a, http.MethodGet, "/api/report/export?view=historical&format=xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "meta-ads-report-historical.xlsx")

	metrics := serve(a, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "report_generations_total")
	assert.Contains(t, metrics.Body.String(), "http_requests_total")
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	a := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, serve(a, http.MethodGet, "/api/dates").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(a, http.MethodGet, "/api/dates").Code)
	// health endpoints sit outside the limiter
	assert.Equal(t, http.StatusOK, serve(a, http.MethodGet, "/api/health").Code)
}

func TestApplication_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.RedisURL = "redis://" + mr.Addr()
	a := newTestApp(t, cfg)

	require.Equal(t, http.StatusOK, serve(a, http.MethodGet, "/api/report?view=historical").Code)
	assert.NotEmpty(t, mr.Keys())

	w := serve(a, http.MethodGet, "/api/health/ready")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Contains(t, body["services"], "cache")
}

func TestApplication_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source.Kind = "ftp"
	logger, _ := testutil.NewTestLogger(t)

	_, err := New(context.Background(), cfg, logger)
	require.Error(t, err)
}

func TestApplication_WatcherInvalidatesSnapshot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source.Watch = true
	a := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.startWatcher(ctx))

	_, err := a.Reports.Dataset(ctx)
	require.NoError(t, err)
	require.True(t, a.Reports.Status().Loaded)

	rows := testutil.SampleRows()[:1]
	f, err := os.Create(cfg.Source.FilePath)
	require.NoError(t, err)
	require.NoError(t, csv.NewWriter(f).WriteAll(testutil.BuildTable(rows...)))
	require.NoError(t, f.Close())

	assert.Eventually(t, func() bool {
		ds, err := a.Reports.Dataset(ctx)
		return err == nil && ds.Len() == 1
	}, 5*time.Second, 50*time.Millisecond)
}
