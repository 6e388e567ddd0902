package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MessageStats_Go/internal/config"
	"github.com/osse101/MessageStats_Go/internal/database"
	"github.com/osse101/MessageStats_Go/internal/database/filestore"
	"github.com/osse101/MessageStats_Go/internal/database/postgres"
	"github.com/osse101/MessageStats_Go/internal/handler"
	"github.com/osse101/MessageStats_Go/internal/repository"
)

// Storage holds the repositories of the configured backend.
type Storage struct {
	Groups   repository.Groups
	Settings repository.Settings
	// Pool is nil for the file backend.
	Pool  *pgxpool.Pool
	Check handler.HealthCheck
}

// OpenStorage opens the backend named by cfg.StorageBackend. The postgres
// backend is migrated before use.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendFile:
		return openFileStorage(cfg.DataDir)
	case config.StorageBackendPostgres:
		return openPostgresStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownBackend, cfg.StorageBackend)
	}
}

func openFileStorage(dir string) (*Storage, error) {
	store, err := filestore.New(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgOpenFileStore, err)
	}
	slog.Info(LogMsgStorageFile, "dir", dir)
	return &Storage{
		Groups:   store,
		Settings: store,
		Check: handler.HealthCheck{Name: HealthCheckStorage, Check: func(ctx context.Context) error {
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("%s: %w", ErrMsgStorageDirMissing, err)
			}
			return nil
		}},
	}, nil
}

func openPostgresStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	connectCtx, cancel := context.WithTimeout(ctx, StoragePingTimeout)
	defer cancel()

	pool, err := database.NewPool(connectCtx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgConnectPostgres, err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgMigratePostgres, err)
	}

	slog.Info(LogMsgStoragePostgres, "host", cfg.DBHost, "db", cfg.DBName)
	return &Storage{
		Groups:   postgres.NewGroupRepository(pool),
		Settings: postgres.NewSettingsRepository(pool),
		Pool:     pool,
		Check:    handler.HealthCheck{Name: HealthCheckStorage, Check: pool.Ping},
	}, nil
}

// Close releases the connection pool, if any.
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// DiscordCheck reports the gateway connection state as a readiness check.
func DiscordCheck(connected func() bool) handler.HealthCheck {
	return handler.HealthCheck{Name: HealthCheckDiscord, Check: func(ctx context.Context) error {
		if !connected() {
			return errors.New(ErrMsgDiscordNotReady)
		}
		return nil
	}}
}
