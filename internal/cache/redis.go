package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// RedisStore keeps JSON-encoded snapshots in Redis so several server
// instances share one spreadsheet read.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStoreFromURL connects using a redis:// URL.
func NewRedisStoreFromURL(url, prefix string, ttl time.Duration, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid redis url", err)
	}
	return NewRedisStore(redis.NewClient(opts), prefix, ttl, logger), nil
}

// NewRedisStore wraps an existing client. A ttl of zero stores without
// expiry.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_cache")),
	}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + "dataset:" + k
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.Dataset, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheError("failed to read snapshot", err)
	}

	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		// A snapshot written by an incompatible build is treated as a miss.
		s.logger.WarnContext(ctx, "discarding undecodable snapshot",
			slog.String("key", s.key(key)),
			slog.String("error", err.Error()))
		_ = s.client.Del(ctx, s.key(key)).Err()
		return nil, false, nil
	}
	return &ds, true, nil
}

// Set implements Store
func (s *RedisStore) Set(ctx context.Context, key string, ds *domain.Dataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return apperrors.NewCacheError("failed to encode snapshot", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return apperrors.NewCacheError("failed to write snapshot", err)
	}
	return nil
}

// Delete implements Store
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return apperrors.NewCacheError("failed to delete snapshot", err)
	}
	return nil
}

// Ping checks connectivity for readiness probes
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Backend implements Store
func (s *RedisStore) Backend() string { return "redis" }

// Close implements Store
func (s *RedisStore) Close() error {
	return s.client.Close()
}
