package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"solana-pool-sentinel/internal/config"
	"solana-pool-sentinel/internal/storage"
	"solana-pool-sentinel/internal/storage/clickhouse"
	"solana-pool-sentinel/internal/storage/memory"
	"solana-pool-sentinel/internal/storage/migrations"
	"solana-pool-sentinel/internal/storage/postgres"
	"solana-pool-sentinel/internal/storage/redis"
)

// sentinelStores holds all storage implementations.
type sentinelStores struct {
	hot       storage.HotWatchlist
	cold      storage.ColdWatchlist
	wallets   storage.WalletSets
	positions storage.PositionStore
	marks     storage.MarkStore
}

// createStores creates stores based on configuration.
// The returned cleanup closes every opened connection.
func createStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*sentinelStores, func(), error) {
	if cfg.General.UseMemory {
		logger.Info().Msg("using in-memory storage")
		return &sentinelStores{
			hot:       memory.NewHotWatchlist(),
			cold:      memory.NewColdWatchlist(),
			wallets:   memory.NewWalletSets(),
			positions: memory.NewPositionStore(),
			marks:     memory.NewMarkStore(),
		}, func() {}, nil
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	closers = append(closers, func() { _ = rdb.Close() })

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	closers = append(closers, pool.Close)

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	stores := &sentinelStores{
		hot:       redis.NewHotWatchlist(rdb, cfg.Redis.HotKey),
		cold:      postgres.NewColdWatchlist(pool),
		wallets:   redis.NewWalletSets(rdb),
		positions: postgres.NewPositionStore(pool),
		marks:     memory.NewMarkStore(),
	}

	if cfg.ClickHouse.DSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouse.DSN)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		closers = append(closers, func() { _ = conn.Close() })
		stores.marks = clickhouse.NewMarkStore(conn)
	}

	logger.Info().
		Str("hot_key", cfg.Redis.HotKey).
		Bool("clickhouse_marks", cfg.ClickHouse.DSN != "").
		Msg("connected to redis and postgres")

	return stores, cleanup, nil
}
