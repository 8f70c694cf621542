package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/singleflight"

	"adpulse/internal/cache"
	"adpulse/internal/dataprocessing"
	"adpulse/internal/infrastructure"
	"adpulse/internal/spreadsheet"
	"adpulse/pkg/contracts/domain"
)

// Report generation outcomes used as the metric "outcome" label
const (
	OutcomeSuccess = "success"
	OutcomeNoData  = "no_data"
	OutcomeError   = "error"
)

const datasetKey = "current"

// TableParser turns a raw worksheet into a dataset.
type TableParser interface {
	ParseTable(ctx context.Context, source string, table domain.Table) (*domain.Dataset, error)
}

// ReportServiceOptions holds the collaborators of a ReportService. Source,
// Parser and Generator are required.
type ReportServiceOptions struct {
	Source    spreadsheet.Source
	Parser    TableParser
	Generator dataprocessing.Generator
	Store     cache.Store
	Metrics   *infrastructure.ReportMetrics
	Tracer    trace.Tracer
	Logger    *slog.Logger
}

// SnapshotStatus describes the dataset the service currently serves.
type SnapshotStatus struct {
	Source       string                 `json:"source"`
	CacheBackend string                 `json:"cache_backend"`
	Loaded       bool                   `json:"loaded"`
	Rows         int                    `json:"rows"`
	LoadedAt     time.Time              `json:"loaded_at,omitempty"`
	LastError    string                 `json:"last_error,omitempty"`
	Cache        map[string]interface{} `json:"cache,omitempty"`
}

// cacheStats is implemented by stores that keep local hit counters.
type cacheStats interface {
	Stats() map[string]interface{}
}

// ReportService loads the ads dataset from its source, keeps a snapshot of
// it and runs the report pipeline against that snapshot.
type ReportService struct {
	source    spreadsheet.Source
	parser    TableParser
	generator dataprocessing.Generator
	store     cache.Store
	metrics   *infrastructure.ReportMetrics
	tracer    trace.Tracer
	logger    *slog.Logger

	loads singleflight.Group
	// publish orders a load's store write against Invalidate
	publish sync.Mutex

	mu         sync.RWMutex
	snapshot   *domain.Dataset
	lastErr    error
	generation uint64
}

// NewReportService creates a report service. A nil store falls back to an
// in-memory store without expiry.
func NewReportService(opts ReportServiceOptions) (*ReportService, error) {
	if opts.Source == nil || opts.Parser == nil || opts.Generator == nil {
		return nil, errors.New("report service requires a source, parser and generator")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Store == nil {
		opts.Store = cache.NewMemoryStore(0, cache.DefaultMaxEntries)
	}
	if opts.Tracer == nil {
		opts.Tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.ServiceName)
	}

	logger := opts.Logger.With(slog.String("service", "report"))
	logger.Info("report service initialized",
		slog.String("source", opts.Source.Name()),
		slog.String("cache_backend", opts.Store.Backend()))

	return &ReportService{
		source:    opts.Source,
		parser:    opts.Parser,
		generator: opts.Generator,
		store:     opts.Store,
		metrics:   opts.Metrics,
		tracer:    opts.Tracer,
		logger:    logger,
	}, nil
}

// Generate builds the report for sel. A view that matches no rows returns
// dataprocessing.ErrNoDataForSelection.
func (s *ReportService) Generate(ctx context.Context, sel domain.ViewSelection) (*domain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "report.generate",
		trace.WithAttributes(attribute.String("view", sel.String())))
	defer span.End()

	start := time.Now()
	ds, err := s.Dataset(ctx)
	if err != nil {
		s.metrics.RecordReport(ctx, string(sel.Type), OutcomeError, time.Since(start))
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	report, err := s.generator.Run(ctx, ds, sel)
	duration := time.Since(start)
	switch {
	case errors.Is(err, dataprocessing.ErrNoDataForSelection):
		s.metrics.RecordReport(ctx, string(sel.Type), OutcomeNoData, duration)
		s.logger.InfoContext(ctx, "no data for selected view",
			slog.String("view", sel.String()))
		return nil, err
	case err != nil:
		s.metrics.RecordReport(ctx, string(sel.Type), OutcomeError, duration)
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("generate %s report: %w", sel, err)
	}

	s.metrics.RecordReport(ctx, string(sel.Type), OutcomeSuccess, duration)
	span.SetAttributes(attribute.Int("rows", report.RowCount))
	s.logger.DebugContext(ctx, "report generated",
		slog.String("view", sel.String()),
		slog.Int("rows", report.RowCount),
		slog.Duration("duration", duration))
	return report, nil
}

// Dataset returns the current snapshot, loading it from the source when the
// cache holds none. Concurrent misses share a single source read.
func (s *ReportService) Dataset(ctx context.Context) (*domain.Dataset, error) {
	ds, ok, err := s.store.Get(ctx, datasetKey)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot cache read failed",
			slog.String("backend", s.store.Backend()),
			slog.String("error", err.Error()))
	}
	s.metrics.RecordCache(ctx, s.store.Backend(), ok)
	if ok {
		return ds, nil
	}

	ch := s.loads.DoChan(datasetKey, func() (interface{}, error) {
		// shared loads outlive the caller that started them
		return s.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Dataset), nil
	}
}

func (s *ReportService) load(ctx context.Context) (*domain.Dataset, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("source", s.source.Name())))
	defer span.End()

	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	start := time.Now()
	ds, err := s.readSource(ctx)
	s.metrics.RecordDatasetLoad(ctx, s.source.Name(), ds.Len(), time.Since(start), err)

	// a load that raced an invalidation must not publish what it read
	s.publish.Lock()
	defer s.publish.Unlock()

	s.mu.Lock()
	stale := gen != s.generation
	if !stale {
		s.lastErr = err
		if err == nil {
			s.snapshot = ds
		}
	}
	s.mu.Unlock()

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", s.source.Name()),
			slog.String("error", err.Error()))
		return nil, err
	}

	if stale {
		s.logger.InfoContext(ctx, "discarding dataset read before invalidation",
			slog.String("source", s.source.Name()),
			slog.Int("rows", ds.Len()))
		return ds, nil
	}

	if err := s.store.Set(ctx, datasetKey, ds); err != nil {
		s.logger.WarnContext(ctx, "snapshot cache write failed",
			slog.String("backend", s.store.Backend()),
			slog.String("error", err.Error()))
	}

	span.SetAttributes(attribute.Int("rows", ds.Len()))
	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", s.source.Name()),
		slog.Int("rows", ds.Len()),
		slog.Duration("duration", time.Since(start)))
	return ds, nil
}

func (s *ReportService) readSource(ctx context.Context) (*domain.Dataset, error) {
	table, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.source.Name(), err)
	}
	ds, err := s.parser.ParseTable(ctx, s.source.Name(), table)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.source.Name(), err)
	}
	return ds, nil
}

// Dates returns the distinct dates of the current snapshot in ascending
// order.
func (s *ReportService) Dates(ctx context.Context) ([]time.Time, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Dates(), nil
}

// Invalidate drops the cached snapshot. The next request reloads it.
func (s *ReportService) Invalidate(ctx context.Context) error {
	s.publish.Lock()
	defer s.publish.Unlock()

	s.mu.Lock()
	s.generation++
	s.snapshot = nil
	s.mu.Unlock()

	s.loads.Forget(datasetKey)
	if err := s.store.Delete(ctx, datasetKey); err != nil {
		return fmt.Errorf("invalidate snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "snapshot invalidated", slog.String("source", s.source.Name()))
	return nil
}

// Refresh drops the cached snapshot and reloads it from the source.
func (s *ReportService) Refresh(ctx context.Context) (SnapshotStatus, error) {
	if err := s.Invalidate(ctx); err != nil {
		return s.Status(), err
	}
	if _, err := s.Dataset(ctx); err != nil {
		return s.Status(), err
	}
	return s.Status(), nil
}

// Status reports on the last loaded snapshot.
func (s *ReportService) Status() SnapshotStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SnapshotStatus{
		Source:       s.source.Name(),
		CacheBackend: s.store.Backend(),
		Loaded:       s.snapshot != nil,
		Rows:         s.snapshot.Len(),
	}
	if s.snapshot != nil {
		status.LoadedAt = s.snapshot.LoadedAt
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	if st, ok := s.store.(cacheStats); ok {
		status.Cache = st.Stats()
	}
	return status
}
