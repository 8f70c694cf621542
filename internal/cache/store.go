// Package cache keeps loaded dataset snapshots so repeated reports do not
// re-read the spreadsheet.
package cache

import (
	"context"
	"fmt"
	"log/slog"

	"adpulse/internal/config"
	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// Store holds dataset snapshots by key.
type Store interface {
	// Get returns the snapshot for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) (*domain.Dataset, bool, error)
	Set(ctx context.Context, key string, ds *domain.Dataset) error
	Delete(ctx context.Context, key string) error
	// Backend names the implementation for metrics and health output.
	Backend() string
	Close() error
}

// New builds the store selected by cfg.Backend.
func New(cfg config.CacheConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.CacheMemory, "":
		return NewMemoryStore(cfg.TTL, DefaultMaxEntries), nil
	case config.CacheRedis:
		return NewRedisStoreFromURL(cfg.RedisURL, cfg.KeyPrefix, cfg.TTL, logger)
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown cache backend %q", cfg.Backend), nil)
	}
}
