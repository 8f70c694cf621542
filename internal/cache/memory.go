package cache

import (
	"context"
	"sync"
	"time"

	"adpulse/pkg/contracts/domain"
)

// DefaultMaxEntries bounds the in-memory store. One entry per source is the
// normal case.
const DefaultMaxEntries = 16

type memoryEntry struct {
	dataset   *domain.Dataset
	cachedAt  time.Time
	expiresAt time.Time
}

// MemoryStore is a process-local Store with TTL expiry and oldest-first
// eviction.
type MemoryStore struct {
	entries   map[string]memoryEntry
	mutex     sync.RWMutex
	ttl       time.Duration
	maxSize   int
	hitCount  int64
	missCount int64
	stopChan  chan struct{}
	stopOnce  sync.Once
	now       func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a memory store. A ttl of zero keeps entries until
// they are deleted or evicted.
func NewMemoryStore(ttl time.Duration, maxSize int) *MemoryStore {
	s := &MemoryStore{
		entries:  make(map[string]memoryEntry),
		ttl:      ttl,
		maxSize:  maxSize,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}

	if ttl > 0 {
		go s.cleanup(ttl)
	}

	return s
}

// Get implements Store
func (s *MemoryStore) Get(_ context.Context, key string) (*domain.Dataset, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, exists := s.entries[key]
	if !exists || s.expired(entry) {
		s.missCount++
		return nil, false, nil
	}

	s.hitCount++
	return entry.dataset, true, nil
}

// Set implements Store
func (s *MemoryStore) Set(_ context.Context, key string, ds *domain.Dataset) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.maxSize <= 0 {
		return nil
	}

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	now := s.now()
	entry := memoryEntry{dataset: ds, cachedAt: now}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.entries[key] = entry
	return nil
}

// Delete implements Store
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.entries, key)
	return nil
}

// Backend implements Store
func (s *MemoryStore) Backend() string { return "memory" }

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	return nil
}

// Stats returns cache statistics
func (s *MemoryStore) Stats() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	totalRequests := s.hitCount + s.missCount
	hitRatio := float64(0)
	if totalRequests > 0 {
		hitRatio = float64(s.hitCount) / float64(totalRequests)
	}

	return map[string]interface{}{
		"entries":     len(s.entries),
		"max_size":    s.maxSize,
		"hit_count":   s.hitCount,
		"miss_count":  s.missCount,
		"hit_ratio":   hitRatio,
		"ttl_seconds": s.ttl.Seconds(),
	}
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range s.entries {
		if oldestKey == "" || entry.cachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.cachedAt
		}
	}

	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mutex.Lock()
			for key, entry := range s.entries {
				if s.expired(entry) {
					delete(s.entries, key)
				}
			}
			s.mutex.Unlock()
		case <-s.stopChan:
			return
		}
	}
}
