package repository

import (
	"context"
	"fmt"
	"log/slog"

	"boleto-tracker/internal/common"
	"boleto-tracker/internal/repository/kv"
)

// OpenStore builds the configured key-value backend.
func OpenStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (kv.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return kv.NewMemory(), nil
	case "postgres":
		store, err := kv.OpenPostgres(ctx, kv.PostgresConfig{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := store.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("postgres health check: %w", err)
		}
		return store, nil
	case "sqlite":
		return kv.OpenSQLite(ctx, cfg.Store.Path, logger)
	default:
		return nil, common.NewAppError("CONFIG_ERROR", "unknown STORE_DRIVER "+cfg.Store.Driver, common.ErrInvalidInput)
	}
}
