package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/repository"
)

const (
	selectSettingsSQL = `SELECT document FROM message_settings WHERE settings_id = $1`

	upsertSettingsSQL = `
INSERT INTO message_settings (settings_id, document, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (settings_id) DO UPDATE
SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
)

// SettingsRepository keeps the settings document in a single jsonb row.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) repository.Settings {
	return &SettingsRepository{pool: pool}
}

// LoadSettings returns the raw settings document.
func (r *SettingsRepository) LoadSettings(ctx context.Context) ([]byte, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, selectSettingsSQL, SettingsRowID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadSettings, err)
	}
	return doc, nil
}

// SaveSettings overwrites the settings document.
func (r *SettingsRepository) SaveSettings(ctx context.Context, document []byte) error {
	if _, err := r.pool.Exec(ctx, upsertSettingsSQL, SettingsRowID, string(document)); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveSettings, err)
	}
	return nil
}
