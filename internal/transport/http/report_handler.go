package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"adpulse/internal/dataprocessing"
	apperrors "adpulse/internal/errors"
	"adpulse/internal/exporter"
	"adpulse/internal/middleware"
	"adpulse/internal/services"
	api "adpulse/pkg/contracts/api/v1"
	"adpulse/pkg/contracts/domain"
)

// ReportService defines the interface for report operations
type ReportService interface {
	Generate(ctx context.Context, sel domain.ViewSelection) (*domain.Report, error)
	Dates(ctx context.Context) ([]time.Time, error)
	Refresh(ctx context.Context) (services.SnapshotStatus, error)
	Status() services.SnapshotStatus
}

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	service      ReportService
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportService, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apperrors.NewErrorHandler(logger, false)
	}
	return &ReportHandler{
		service:      service,
		validator:    middleware.NewValidator(logger),
		logger:       logger.With(slog.String("handler", "report")),
		errorHandler: errorHandler,
	}
}

// Routes mounts the report endpoints relative to /api
func (h *ReportHandler) Routes(r chi.Router) {
	r.Route("/report", func(r chi.Router) {
		r.Get("/", h.GetReport)
		r.Get("/charts", h.GetCharts)
		r.Get("/export", h.ExportReport)
	})
	r.Get("/dates", h.GetDates)
	r.Get("/dataset", h.GetSnapshot)
	r.Post("/dataset/refresh", h.RefreshDataset)
}

// GetReport handles GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, _, ok := h.generate(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, api.Success(report))
}

// GetCharts handles GET /api/report/charts. An optional name parameter
// selects a single chart dataset.
func (h *ReportHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	report, _, ok := h.generate(w, r)
	if !ok {
		return
	}

	if name := r.URL.Query().Get("name"); name != "" {
		chart, found := report.Chart(name)
		if !found {
			h.errorHandler.HandleError(w, r, apperrors.NotFoundError(fmt.Sprintf("Chart %q", name)))
			return
		}
		render.JSON(w, r, api.Success(chart))
		return
	}

	render.JSON(w, r, api.SuccessList(report.Charts, len(report.Charts)))
}

// ExportReport handles GET /api/report/export. The report is encoded in
// full before any header is written so that encoding failures still surface
// as problem details.
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	report, query, ok := h.generate(w, r)
	if !ok {
		return
	}

	format := exporter.FormatCSV
	if query.Format != "" {
		parsed, err := exporter.ParseFormat(query.Format)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		format = parsed
	}

	writer, err := exporter.New(format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, report); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.NewExportError("encode report", err))
		return
	}

	filename := exporter.Filename(report, writer)
	h.logger.InfoContext(r.Context(), "report exported",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("format", string(format)),
		slog.String("filename", filename),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", writer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// GetDates handles GET /api/dates
func (h *ReportHandler) GetDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.service.Dates(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(domain.DateLayout)
	}

	render.JSON(w, r, api.SuccessList(out, len(out)))
}

// GetSnapshot handles GET /api/dataset
func (h *ReportHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.Success(h.service.Status()))
}

// RefreshDataset handles POST /api/dataset/refresh
func (h *ReportHandler) RefreshDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	h.logger.InfoContext(r.Context(), "dataset refresh requested",
		slog.String("request_id", reqID))

	status, err := h.service.Refresh(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dataset refresh failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.Success(status))
}

// generate validates the query and runs the report. On failure the problem
// response has already been written and ok is false.
func (h *ReportHandler) generate(w http.ResponseWriter, r *http.Request) (*domain.Report, middleware.ReportQuery, bool) {
	query, err := h.validator.ParseReportQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, query, false
	}

	sel, err := query.Selection()
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("date", err.Error()))
		return nil, query, false
	}

	report, err := h.service.Generate(r.Context(), sel)
	if err != nil {
		if errors.Is(err, dataprocessing.ErrNoDataForSelection) {
			h.logger.InfoContext(r.Context(), "no data for selection",
				slog.String("view", sel.String()),
				slog.String("request_id", middleware.GetRequestID(r.Context())))
			h.errorHandler.HandleError(w, r, noDataError(sel))
			return nil, query, false
		}
		h.errorHandler.HandleError(w, r, err)
		return nil, query, false
	}
	return report, query, true
}

// noDataError names the anchor date for a single-day view. The whole-dataset
// view has no date to blame.
func noDataError(sel domain.ViewSelection) *apperrors.AppError {
	if sel.Type == domain.ViewHistorical {
		return apperrors.NewNoDataError(apperrors.NoDataForViewMessage).
			WithContext("view", string(sel.Type))
	}
	return apperrors.NewNoDataError(apperrors.NoDataForDateMessage).
		WithContext("date", sel.Anchor.Format(domain.DateLayout))
}
