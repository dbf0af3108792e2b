package store

import (
	"context"
	"fmt"

	"chitfund-backend/config"
	"chitfund-backend/database"
)

// Open builds the ledger store and the matching locker for the configured driver
func Open(ctx context.Context, cfg *config.Config) (LedgerStore, Locker, error) {
	switch cfg.StoreDriver {
	case "memory":
		return NewMemoryStore(), NewLocalLocker(), nil

	case "sqlite":
		db, err := database.Initialize(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return NewSQLiteStore(db), NewLocalLocker(), nil

	case "redis":
		rs, err := NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.LockTTL)
		if err != nil {
			return nil, nil, err
		}
		return rs, rs, nil
	}

	return nil, nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
}
