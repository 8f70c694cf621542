package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"adpulse/internal/cache"
	"adpulse/internal/config"
	"adpulse/internal/dataprocessing"
	apperrors "adpulse/internal/errors"
	"adpulse/internal/infrastructure"
	customMiddleware "adpulse/internal/middleware"
	"adpulse/internal/services"
	"adpulse/internal/spreadsheet"
	handlers "adpulse/internal/transport/http"
	"adpulse/internal/validation"
	"adpulse/pkg/contracts"
)

// AppName is logged at startup
const AppName = "AdPulse - Meta Ads Metrics"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ReportMetrics
	Store         cache.Store
	Reports       *services.ReportService
	Health        *services.HealthService
	ErrorHandler  *apperrors.ErrorHandler
}

// NewApplication loads configuration and builds the application
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(ctx, cfg, logger)
}

// New builds the application from an already loaded configuration
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("source", cfg.Source.Kind),
		slog.String("cache", cfg.Cache.Backend))

	providers, err := infrastructure.InitializeOTel(
		infrastructure.OTelConfigFromConfig(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewReportMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create report metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  apperrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := a.initializeServices(ctx); err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

// BuildReportService wires the source, snapshot store and pipeline into a
// report service. The caller owns the returned store.
func BuildReportService(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	providers *infrastructure.OTelProviders, metrics *infrastructure.ReportMetrics) (*services.ReportService, cache.Store, error) {
	source, err := spreadsheet.New(ctx, cfg.Source, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s source: %w", cfg.Source.Kind, err)
	}

	store, err := cache.New(cfg.Cache, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s cache: %w", cfg.Cache.Backend, err)
	}

	opts := dataprocessing.DefaultOptions()
	opts.Parallel = cfg.Pipeline.Parallel
	if cfg.Pipeline.TopCampaigns > 0 {
		opts.TopCampaigns = cfg.Pipeline.TopCampaigns
	}

	svcOpts := services.ReportServiceOptions{
		Source:    source,
		Parser:    dataprocessing.NewParser(logger),
		Generator: dataprocessing.NewPipeline(opts, logger),
		Store:     store,
		Metrics:   metrics,
		Logger:    logger,
	}
	if providers != nil {
		svcOpts.Tracer = providers.Tracer
	}

	reports, err := services.NewReportService(svcOpts)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return reports, store, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices(ctx context.Context) error {
	// the export may appear later when the watcher is on
	if err := validation.NewFileValidator(a.Logger).ValidateSource(a.Config.Source); err != nil {
		a.Logger.Warn("source file not usable yet",
			slog.String("kind", a.Config.Source.Kind),
			slog.String("error", err.Error()))
	}

	reports, store, err := BuildReportService(ctx, a.Config, a.Logger, a.OTelProviders, a.Metrics)
	if err != nil {
		return err
	}
	a.Reports = reports
	a.Store = store

	// only remote backends are probed for readiness
	var pinger services.Pinger
	if p, ok := store.(services.Pinger); ok {
		pinger = p
	}
	a.Health = services.NewHealthService(reports, pinger, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.StripSlashes)
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	r.Get(config.HealthEndpoint, healthHandler.HealthCheck)
	r.Handle(config.MetricsEndpoint, handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		healthHandler.Routes(r)

		r.Group(func(r chi.Router) {
			if a.Config.Security.RateLimit.Enabled {
				r.Use(customMiddleware.NewRateLimiter(
					a.Config.Security.RateLimit.RPS,
					a.Config.Security.RateLimit.Burst,
					a.ErrorHandler,
					a.Logger,
				).Handler)
			}
			handlers.NewReportHandler(a.Reports, a.Logger, a.ErrorHandler).Routes(r)
		})
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the file watcher and the HTTP server. Server errors cancel
// the application through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	if err := a.startWatcher(ctx); err != nil {
		a.Logger.WarnContext(ctx, "source file watcher disabled", slog.String("error", err.Error()))
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// warm the snapshot so the first report does not pay for the load
	go func() {
		if _, err := a.Reports.Dataset(ctx); err != nil {
			a.Logger.WarnContext(ctx, "initial dataset load failed", slog.String("error", err.Error()))
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// startWatcher invalidates the snapshot whenever a local source file changes
func (a *Application) startWatcher(ctx context.Context) error {
	src := a.Config.Source
	if !src.Watch || (src.Kind != config.SourceXLSX && src.Kind != config.SourceCSV) {
		return nil
	}

	watcher := spreadsheet.NewFileWatcher(src.FilePath, spreadsheet.DefaultDebounce, func() {
		if err := a.Reports.Invalidate(ctx); err != nil {
			a.Logger.WarnContext(ctx, "snapshot invalidation failed", slog.String("error", err.Error()))
		}
	}, a.Logger)
	return watcher.Start(ctx)
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache close: %w", err))
		}
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("received shutdown signal")

	// the signal context is already done; shut down on a fresh one
	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
