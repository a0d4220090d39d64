package content

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/constants"
	"github.com/shohruz/portfolio-backend-go/internal/domain"
	"github.com/shohruz/portfolio-backend-go/internal/service/cache"
)

// Store holds the published snapshot. Single writer (the save-commit path and
// reload), many readers. Replace swaps the whole pointer, so a reader sees
// either the old snapshot or the new one, never a mix.
type Store struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot
	result   *domain.LoadResult

	cache  *cache.CacheService // optional snapshot mirror
	logger *zap.Logger
}

func NewStore(snapshot *domain.Snapshot, result *domain.LoadResult, cacheSvc *cache.CacheService, logger *zap.Logger) *Store {
	s := &Store{
		snapshot: snapshot,
		result:   result,
		cache:    cacheSvc,
		logger:   logger,
	}
	s.mirror(snapshot)
	return s
}

// Current returns the published snapshot. Callers must treat it as read-only.
func (s *Store) Current() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// LastLoad reports how the current snapshot was assembled.
func (s *Store) LastLoad() *domain.LoadResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Replace publishes a new snapshot.
func (s *Store) Replace(snapshot *domain.Snapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	s.mirror(snapshot)
}

// SetLoadResult records the outcome of a reload together with its snapshot.
func (s *Store) SetLoadResult(snapshot *domain.Snapshot, result *domain.LoadResult) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.result = result
	s.mu.Unlock()
	s.mirror(snapshot)
}

// mirror writes the snapshot through to Redis so a later process can serve
// last-known content while Postgres is down. Mirror failures are logged only.
func (s *Store) mirror(snapshot *domain.Snapshot) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, s.cache.SnapshotKey(), snapshot, constants.CacheTTL.Snapshot); err != nil {
		s.logger.Warn("Failed to mirror snapshot to cache", zap.Error(err))
	}
}
