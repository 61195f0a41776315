package storage

import (
	"context"
	"fmt"

	"sportsbook/database"

	log "github.com/sirupsen/logrus"
)

// Supported backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options selects and configures a Pool backend
type Options struct {
	Backend     string
	SQLitePath  string
	DatabaseURL string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// Open connects the configured backend. SQL backends are migrated before use.
func Open(ctx context.Context, opts Options) (Pool, error) {
	logger := log.WithField("backend", opts.Backend)

	switch opts.Backend {
	case BackendMemory:
		logger.Warn("Using in-memory storage, state will not survive a restart")
		return NewMemoryPool(), nil

	case BackendSQLite, "":
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend requires a file path")
		}
		logger.WithField("path", opts.SQLitePath).Info("Opening SQLite storage")
		pool, err := OpenSQLitePool(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return pool, nil

	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres backend requires DATABASE_URL")
		}
		logger.Info("Migrating Postgres storage")
		if err := database.RunMigrationsWithURL(opts.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to migrate postgres storage: %w", err)
		}
		db, err := database.NewConnection(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres storage: %w", err)
		}
		return NewPostgresPool(db), nil

	case BackendRedis:
		logger.WithField("addr", opts.RedisAddr).Info("Connecting to Redis storage")
		rdb, err := ConnectRedis(ctx, opts.RedisAddr, opts.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis storage: %w", err)
		}
		return NewRedisPool(rdb, opts.RedisPrefix), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
