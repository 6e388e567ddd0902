package repository

import (
	"context"

	"github.com/osse101/MessageStats_Go/internal/domain"
)

// Groups persists one record collection per group.
type Groups interface {
	// LoadGroup returns domain.ErrGroupNotFound when nothing is stored for groupID.
	LoadGroup(ctx context.Context, groupID string) (*domain.GroupStore, error)
	// SaveGroup replaces everything stored for the group.
	SaveGroup(ctx context.Context, group *domain.GroupStore) error
	// DeleteGroup removes the group and reports whether anything was stored.
	DeleteGroup(ctx context.Context, groupID string) (bool, error)
	ListGroups(ctx context.Context) ([]string, error)
}

// Settings persists the shared settings document.
type Settings interface {
	// LoadSettings returns domain.ErrSettingsNotFound before the first save.
	LoadSettings(ctx context.Context) ([]byte, error)
	SaveSettings(ctx context.Context, document []byte) error
}
