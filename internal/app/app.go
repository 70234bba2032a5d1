// Package app opens the configured idea store and its supporting
// connections. The server and ideactl share it so both see the same board.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/studentcomputing/internal/config"
	"github.com/HammerMeetNail/studentcomputing/internal/database"
	"github.com/HammerMeetNail/studentcomputing/internal/logging"
	"github.com/HammerMeetNail/studentcomputing/internal/services"
	"github.com/HammerMeetNail/studentcomputing/internal/storage"
	"github.com/HammerMeetNail/studentcomputing/migrations"
)

// Checker is anything that can report its own health.
type Checker interface {
	Health(ctx context.Context) error
}

// Connection constructors, replaced in tests.
var (
	newBoltDB     = database.NewBoltDB
	newRedisDB    = database.NewRedisDB
	newPostgresDB = database.NewPostgresDB
	migrateUp     = func(dsn string, src fs.FS) error {
		m, err := database.NewMigrator(dsn, src)
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		return m.Up()
	}
)

// Backend owns every connection opened for one process.
type Backend struct {
	Storage storage.Storage
	// Checks name each dependency for the health endpoints.
	Checks map[string]Checker
	// Redis is set when a Redis connection is open, whether for storage or
	// for rate limiting.
	Redis *redis.Client

	closers []func()
}

// Close releases connections in reverse order of opening.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// Open connects the storage driver selected by cfg.
func Open(cfg *config.Config, logger *logging.Logger) (*Backend, error) {
	b := &Backend{Checks: map[string]Checker{}}

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		mem := storage.NewMemoryStorage()
		b.Storage = mem
		b.Checks["storage"] = mem
		logger.Warn("Using in-memory idea storage; ideas are lost on restart")

	case config.StorageBolt:
		logger.Info("Opening bolt store", logging.Fields{"path": cfg.Storage.BoltPath})
		db, err := newBoltDB(cfg.Storage.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("opening bolt: %w", err)
		}
		b.closers = append(b.closers, func() { _ = db.Close() })
		b.Storage = storage.NewBoltStorage(db.DB, database.IdeasBucket)
		b.Checks["bolt"] = db

	case config.StorageRedis:
		if err := b.connectRedis(cfg, logger); err != nil {
			return nil, err
		}
		b.Storage = storage.NewRedisStorage(b.Redis, cfg.Redis.KeyPrefix)

	case config.StoragePostgres:
		logger.Info("Connecting to PostgreSQL", logging.Fields{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
		})
		db, err := newPostgresDB(cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		b.closers = append(b.closers, db.Close)

		logger.Info("Running database migrations...")
		if err := migrateUp(cfg.Database.DSN(), migrationSource(cfg)); err != nil {
			b.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		b.Storage = storage.NewPostgresStorage(db.Pool)
		b.Checks["postgres"] = db

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return b, nil
}

// EnableRateLimitRedis connects Redis for rate limiting when cfg asks for
// it. A failure is logged and leaves limiting off.
func (b *Backend) EnableRateLimitRedis(cfg *config.Config, logger *logging.Logger) {
	if b.Redis != nil || !cfg.WantsRedis() {
		return
	}
	if err := b.connectRedis(cfg, logger); err != nil {
		logger.Warn("Redis unavailable; idea rate limiting disabled", logging.Fields{"error": err.Error()})
	}
}

func (b *Backend) connectRedis(cfg *config.Config, logger *logging.Logger) error {
	logger.Info("Connecting to Redis", logging.Fields{"addr": cfg.Redis.Addr()})
	rdb, err := newRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	b.closers = append(b.closers, func() { _ = rdb.Close() })
	b.Redis = rdb.Client
	b.Checks["redis"] = rdb
	return nil
}

// NewIdeaBoard builds the board service over b's storage.
func (b *Backend) NewIdeaBoard(cfg *config.Config, logger *logging.Logger) *services.IdeaBoardService {
	return services.NewIdeaBoardService(b.Storage, cfg.Storage.Key, services.WithLogger(logger))
}

func migrationSource(cfg *config.Config) fs.FS {
	if cfg.Storage.MigrationsDir != "" {
		return os.DirFS(cfg.Storage.MigrationsDir)
	}
	return migrations.FS
}
