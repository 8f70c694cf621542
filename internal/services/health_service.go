package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"adpulse/pkg/contracts"
)

// Pinger is implemented by cache backends with a remote connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	gitCommit string
	reports   *ReportService
	cache     Pinger
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service. reports and cache may be nil,
// in which case the matching readiness checks are skipped.
func NewHealthService(reports *ReportService, cache Pinger, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	info := contracts.GetVersionInfo()

	logger.Info("health service initialized",
		slog.String("version", info.Version),
		slog.String("build_time", info.BuildTime),
		slog.String("git_commit", info.GitCommit))

	return &HealthService{
		version:   info.Version,
		buildTime: info.BuildTime,
		gitCommit: info.GitCommit,
		reports:   reports,
		cache:     cache,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once the dataset can be loaded and the cache
// backend answers.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	if hs.reports != nil {
		status.Services["dataset"] = hs.checkDatasetHealth(ctx)
	}
	if hs.cache != nil {
		status.Services["cache"] = hs.checkCacheHealth(ctx)
	}

	for name, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "readiness check failed",
				slog.String("component", name),
				slog.String("message", sh.Message))
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"description":  contracts.GetFullVersionString(),
		"prerelease":   contracts.IsPrerelease(),
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" && hs.buildTime != "unknown" {
		result["build_time"] = hs.buildTime
	}
	if hs.gitCommit != "" && hs.gitCommit != "unknown" {
		result["git_commit"] = hs.gitCommit
	}

	return result
}

func (hs *HealthService) checkDatasetHealth(ctx context.Context) ServiceHealth {
	ds, err := hs.reports.Dataset(ctx)
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("dataset unavailable: %v", err),
		}
	}

	snapshot := hs.reports.Status()
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d rows from %s", ds.Len(), snapshot.Source),
		Uptime:  time.Since(hs.startTime).String(),
	}
}

func (hs *HealthService) checkCacheHealth(ctx context.Context) ServiceHealth {
	if err := hs.cache.Ping(ctx); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("cache unreachable: %v", err),
		}
	}
	return ServiceHealth{Status: "ready"}
}
