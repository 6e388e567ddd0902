// Package memrepo provides in-memory repositories for tests.
package memrepo

import (
	"context"
	"slices"
	"sync"

	"github.com/osse101/MessageStats_Go/internal/domain"
)

// Groups is an in-memory repository.Groups. Err, when set, is returned by every call.
type Groups struct {
	mu     sync.Mutex
	groups map[string]*domain.GroupStore
	Saves  int
	Err    error
}

func NewGroups(seed ...*domain.GroupStore) *Groups {
	r := &Groups{groups: make(map[string]*domain.GroupStore)}
	for _, g := range seed {
		r.groups[g.GroupID] = g.Clone()
	}
	return r
}

func (r *Groups) LoadGroup(ctx context.Context, groupID string) (*domain.GroupStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	g, ok := r.groups[groupID]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return g.Clone(), nil
}

func (r *Groups) SaveGroup(ctx context.Context, group *domain.GroupStore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Saves++
	r.groups[group.GroupID] = group.Clone()
	return nil
}

func (r *Groups) DeleteGroup(ctx context.Context, groupID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	_, ok := r.groups[groupID]
	delete(r.groups, groupID)
	return ok, nil
}

func (r *Groups) ListGroups(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	ids := make([]string, 0, len(r.groups))
	for id := range r.groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Stored returns a copy of what is persisted for groupID.
func (r *Groups) Stored(groupID string) (*domain.GroupStore, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

// Settings is an in-memory repository.Settings.
type Settings struct {
	mu    sync.Mutex
	doc   []byte
	Loads int
	Err   error
}

func (r *Settings) LoadSettings(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Loads++
	if r.Err != nil {
		return nil, r.Err
	}
	if r.doc == nil {
		return nil, domain.ErrSettingsNotFound
	}
	return slices.Clone(r.doc), nil
}

func (r *Settings) SaveSettings(ctx context.Context, document []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.doc = slices.Clone(document)
	return nil
}
