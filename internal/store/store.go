package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/MessageStats_Go/internal/concurrency"
	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/metrics"
	"github.com/osse101/MessageStats_Go/internal/repository"
)

// MutateFunc changes a group in place and reports whether anything changed.
type MutateFunc func(group *domain.GroupStore) (changed bool, err error)

// Config holds store tuning.
type Config struct {
	CacheSize int
	CacheTTL  time.Duration
}

// Stats describes the in-memory state of the store.
type Stats struct {
	CachedGroups int
	DirtyGroups  int
}

// Store owns every group's user records. Records are changed only through
// Update and read only through Snapshot copies. Changes are written to the
// repository by Flush; dirty groups stay in memory until then.
type Store struct {
	repo  repository.Groups
	locks *concurrency.LockManager
	cache *expirable.LRU[string, *domain.GroupStore]
	now   func() time.Time

	mu    sync.Mutex
	dirty map[string]*domain.GroupStore
}

// New creates a store over repo.
func New(repo repository.Groups, cfg Config) *Store {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &Store{
		repo:  repo,
		locks: concurrency.NewLockManager(),
		cache: expirable.NewLRU[string, *domain.GroupStore](cfg.CacheSize, nil, cfg.CacheTTL),
		now:   time.Now,
		dirty: make(map[string]*domain.GroupStore),
	}
}

// Update runs fn on the group's live records under the group lock, creating
// the group when it is unknown. A change marks the group for the next flush.
func (s *Store) Update(ctx context.Context, groupID string, fn MutateFunc) error {
	unlock := s.locks.Lock(groupID)
	defer unlock()

	group, err := s.load(ctx, groupID)
	created := false
	if errors.Is(err, domain.ErrGroupNotFound) {
		group = domain.NewGroupStore(groupID, "")
		created = true
	} else if err != nil {
		return err
	}

	changed, err := fn(group)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if created {
		logger.ForGroup(ctx, groupID).Info(LogMsgGroupCreated)
	}
	group.UpdatedAt = s.now()
	s.cache.Add(groupID, group)
	s.markDirty(group)
	return nil
}

// Snapshot returns a copy of the group taken at a single point in time.
func (s *Store) Snapshot(ctx context.Context, groupID string) (*domain.GroupStore, error) {
	unlock := s.locks.Lock(groupID)
	defer unlock()

	group, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group.Clone(), nil
}

// Clear removes every record of the group. It reports false when the group
// was unknown.
func (s *Store) Clear(ctx context.Context, groupID string) (bool, error) {
	unlock := s.locks.Lock(groupID)
	defer unlock()

	inMemory := s.clearDirty(groupID)
	if s.cache.Remove(groupID) {
		inMemory = true
	}

	stored, err := s.repo.DeleteGroup(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", domain.ErrStorage, ErrMsgDeleteGroupFailed, err)
	}

	existed := stored || inMemory
	if existed {
		logger.ForGroup(ctx, groupID).Info(LogMsgGroupCleared)
	}
	return existed, nil
}

// Flush writes every dirty group. Groups that fail stay dirty for the next
// attempt; the returned error joins every failure.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.dirty))
	for id := range s.dirty {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var errs []error
	flushed := 0
	for _, id := range ids {
		if err := s.flushGroup(ctx, id); err != nil {
			metrics.StoreFlushes.WithLabelValues(metrics.ResultFailure).Inc()
			logger.ForGroup(ctx, id).Error(LogMsgFlushFailed, "error", err)
			errs = append(errs, err)
			continue
		}
		flushed++
	}
	if flushed > 0 {
		metrics.StoreFlushes.WithLabelValues(metrics.ResultSuccess).Add(float64(flushed))
		logger.FromContext(ctx).Debug(LogMsgFlushCompleted, "groups", flushed)
	}
	return errors.Join(errs...)
}

func (s *Store) flushGroup(ctx context.Context, groupID string) error {
	unlock := s.locks.Lock(groupID)
	defer unlock()

	s.mu.Lock()
	group, ok := s.dirty[groupID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	if err := s.repo.SaveGroup(ctx, group); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorage, ErrMsgSaveGroupFailed, err)
	}
	s.clearDirty(groupID)
	return nil
}

// Groups lists every known group id, stored or pending.
func (s *Store) Groups(ctx context.Context) ([]string, error) {
	stored, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrStorage, ErrMsgListGroupsFailed, err)
	}

	s.mu.Lock()
	for id := range s.dirty {
		stored = append(stored, id)
	}
	s.mu.Unlock()

	slices.Sort(stored)
	return slices.Compact(stored), nil
}

// Stats reports cache and pending-write sizes.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{CachedGroups: s.cache.Len(), DirtyGroups: len(s.dirty)}
}

// load must be called with the group lock held.
func (s *Store) load(ctx context.Context, groupID string) (*domain.GroupStore, error) {
	s.mu.Lock()
	group, ok := s.dirty[groupID]
	s.mu.Unlock()
	if ok {
		return group, nil
	}

	if group, ok := s.cache.Get(groupID); ok {
		return group, nil
	}

	group, err := s.repo.LoadGroup(ctx, groupID)
	if errors.Is(err, domain.ErrGroupNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrStorage, ErrMsgLoadGroupFailed, err)
	}
	s.cache.Add(groupID, group)
	return group, nil
}

func (s *Store) markDirty(group *domain.GroupStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[group.GroupID] = group
	metrics.StoreDirtyGroups.Set(float64(len(s.dirty)))
}

func (s *Store) clearDirty(groupID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dirty[groupID]
	delete(s.dirty, groupID)
	metrics.StoreDirtyGroups.Set(float64(len(s.dirty)))
	return ok
}
