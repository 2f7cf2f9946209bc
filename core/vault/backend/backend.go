// Package backend opens the vault implementation selected in the configuration.
package backend

import (
	"context"
	"fmt"

	"vault-sync/core/config"
	"vault-sync/core/database"
	"vault-sync/core/storage"
	"vault-sync/core/vault"
	"vault-sync/core/vault/memvault"
	"vault-sync/core/vault/objectstore"
	"vault-sync/core/vault/sqlvault"

	"go.uber.org/zap"
)

// Open returns the configured vault and a function releasing its resources.
func Open(ctx context.Context, cfg *config.Config, l *zap.Logger) (vault.Vault, func(), error) {
	if l == nil {
		l = zap.NewNop()
	}
	noop := func() {}

	switch cfg.Vault.Backend {
	case vault.BackendObjectStore:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage); err != nil {
			return nil, nil, err
		}
		l.Debug("Using object store vault",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("prefix", cfg.Vault.Prefix),
		)
		return objectstore.New(client, cfg.Storage.Bucket, cfg.Vault.Prefix), noop, nil

	case vault.BackendSQL:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		v, err := sqlvault.Open(db)
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		l.Debug("Using SQL vault",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name),
		)
		return v, func() { _ = sqlDB.Close() }, nil

	case vault.BackendMemory:
		l.Warn("Using in-memory vault, changes are lost on exit")
		return memvault.New(), noop, nil

	default:
		return nil, nil, fmt.Errorf("unsupported vault backend %q", cfg.Vault.Backend)
	}
}
