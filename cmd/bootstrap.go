package main

import (
	"context"
	"fmt"

	"moldmes/internal/caching"
	"moldmes/internal/config"
	"moldmes/internal/logging"
	"moldmes/internal/repositories"
	"moldmes/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// loadRuntime reads configuration and builds the logger every command needs.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore connects the pool, applies migrations when configured, and
// returns the transactor with pool-bound repositories.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, repositories.Transactor, *repositories.Repositories, error) {
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.URL, 0, logger); err != nil {
			return nil, nil, nil, err
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL, database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime.Duration,
	}, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	txOpts := repositories.DefaultTxOptions()
	txOpts.LockTimeout = cfg.Database.LockTimeout.Duration
	txOpts.MaxAttempts = cfg.Database.TxMaxAttempts

	return pool, repositories.NewTransactor(pool, txOpts), repositories.New(pool), nil
}

// openCache returns the Redis inventory cache, or a no-op cache when Redis
// is not configured. An unreachable Redis is logged, not fatal.
func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) caching.CacheService {
	if cfg.Redis.Addr == "" {
		return caching.NewNoopCacheService()
	}
	cache := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL.Duration)
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, inventory reads go to the database", zap.Error(err))
	}
	return cache
}
