package main

import (
	"context"
	"fmt"

	"rxcast/internal/config"
	"rxcast/internal/storage"
	boltstore "rxcast/internal/storage/bolt"
	chstore "rxcast/internal/storage/clickhouse"
	"rxcast/internal/storage/memory"
	"rxcast/internal/storage/migrations"
	pgstore "rxcast/internal/storage/postgres"
)

// openStore creates the inventory store for the configured driver and applies
// migrations where the backend needs them.
func openStore(ctx context.Context, cfg config.StorageConfig) (storage.InventoryStore, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewInventoryStore(), func() {}, nil

	case config.DriverBolt:
		store, err := boltstore.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt store: %w", err)
		}
		return store, func() { store.Close() }, nil

	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		return pgstore.NewInventoryStore(pool), pool.Close, nil

	case config.DriverClickhouse:
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		return chstore.NewInventoryStore(conn), func() { conn.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
