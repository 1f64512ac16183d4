package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/dailysplit/internal/config"
	"github.com/mmynk/dailysplit/internal/storage"
	"github.com/mmynk/dailysplit/internal/storage/memory"
	"github.com/mmynk/dailysplit/internal/storage/postgres"
	"github.com/mmynk/dailysplit/internal/storage/sqlite"
)

// openStore initializes the configured storage backend.
func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Debug("Storage initialized", "backend", cfg.Backend, "database", cfg.Path)
		return store, nil
	case config.BackendPostgres:
		store, err := postgres.New(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Debug("Storage initialized", "backend", cfg.Backend)
		return store, nil
	case config.BackendMemory:
		slog.Debug("Storage initialized", "backend", cfg.Backend)
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
