package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/HammerMeetNail/studentcomputing/internal/config"
	"github.com/HammerMeetNail/studentcomputing/internal/database"
	"github.com/HammerMeetNail/studentcomputing/internal/logging"
	"github.com/HammerMeetNail/studentcomputing/internal/storage"
	"github.com/HammerMeetNail/studentcomputing/migrations"
)

var quietLogger = logging.New().SetOutput(io.Discard)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: driver, Key: config.DefaultIdeasKey},
		Redis:   config.RedisConfig{Host: "localhost", Port: 6379, KeyPrefix: "test:"},
	}
}

func stubRedis(t *testing.T, err error) *int {
	t.Helper()
	calls := 0
	orig := newRedisDB
	t.Cleanup(func() { newRedisDB = orig })
	newRedisDB = func(addr, password string, db int) (*database.RedisDB, error) {
		calls++
		return nil, err
	}
	return &calls
}

func TestOpen_Memory(t *testing.T) {
	b, err := Open(testConfig(config.StorageMemory), quietLogger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b.Close()

	if _, ok := b.Storage.(*storage.MemoryStorage); !ok {
		t.Fatalf("expected memory storage, got %T", b.Storage)
	}
	if b.Checks["storage"] == nil {
		t.Fatal("expected storage health check")
	}
}

func TestOpen_BoltRoundTripAcrossReopen(t *testing.T) {
	cfg := testConfig(config.StorageBolt)
	cfg.Storage.BoltPath = filepath.Join(t.TempDir(), "ideas.bolt")

	first, err := Open(cfg, quietLogger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	board := first.NewIdeaBoard(cfg, quietLogger)
	if _, err := board.Submit(context.Background(), "Printer in every lab"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	first.Close()

	second, err := Open(cfg, quietLogger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	ideas := second.NewIdeaBoard(cfg, quietLogger).Ideas(context.Background())
	if len(ideas) != 1 || ideas[0].Text != "Printer in every lab" {
		t.Fatalf("expected persisted idea, got %+v", ideas)
	}
	if err := second.Checks["bolt"].Health(context.Background()); err != nil {
		t.Fatalf("expected healthy bolt, got %v", err)
	}
}

func TestOpen_BoltError(t *testing.T) {
	orig := newBoltDB
	t.Cleanup(func() { newBoltDB = orig })
	newBoltDB = func(string) (*database.BoltDB, error) { return nil, errors.New("locked") }

	cfg := testConfig(config.StorageBolt)
	cfg.Storage.BoltPath = "ideas.bolt"
	if _, err := Open(cfg, quietLogger); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpen_RedisRequired(t *testing.T) {
	stubRedis(t, errors.New("connection refused"))

	if _, err := Open(testConfig(config.StorageRedis), quietLogger); err == nil {
		t.Fatal("expected redis driver to fail without redis")
	}
}

func TestOpen_PostgresError(t *testing.T) {
	orig := newPostgresDB
	t.Cleanup(func() { newPostgresDB = orig })
	newPostgresDB = func(string) (*database.PostgresDB, error) { return nil, errors.New("refused") }

	if _, err := Open(testConfig(config.StoragePostgres), quietLogger); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpen_PostgresMigrationFailureCloses(t *testing.T) {
	origDB, origMigrate := newPostgresDB, migrateUp
	t.Cleanup(func() { newPostgresDB, migrateUp = origDB, origMigrate })

	newPostgresDB = func(string) (*database.PostgresDB, error) { return &database.PostgresDB{}, nil }
	var gotSource fs.FS
	migrateUp = func(dsn string, src fs.FS) error {
		gotSource = src
		return errors.New("dirty database")
	}

	if _, err := Open(testConfig(config.StoragePostgres), quietLogger); err == nil {
		t.Fatal("expected migration error")
	}
	if gotSource != fs.FS(migrations.FS) {
		t.Fatal("expected embedded migrations by default")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(testConfig("floppy"), quietLogger); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnableRateLimitRedis(t *testing.T) {
	t.Run("failure leaves limiting off", func(t *testing.T) {
		calls := stubRedis(t, errors.New("connection refused"))
		cfg := testConfig(config.StorageMemory)
		cfg.Ideas.RateLimit = 5

		b, _ := Open(cfg, quietLogger)
		b.EnableRateLimitRedis(cfg, quietLogger)

		if *calls != 1 || b.Redis != nil {
			t.Fatalf("expected one failed attempt, got calls=%d redis=%v", *calls, b.Redis)
		}
		if _, ok := b.Checks["redis"]; ok {
			t.Fatal("expected no redis health check")
		}
	})

	t.Run("disabled skips connecting", func(t *testing.T) {
		calls := stubRedis(t, nil)
		cfg := testConfig(config.StorageMemory)

		b, _ := Open(cfg, quietLogger)
		b.EnableRateLimitRedis(cfg, quietLogger)

		if *calls != 0 {
			t.Fatalf("expected no connection attempt, got %d", *calls)
		}
	})
}

func TestMigrationSource_Override(t *testing.T) {
	cfg := testConfig(config.StoragePostgres)
	cfg.Storage.MigrationsDir = t.TempDir()
	if migrationSource(cfg) == fs.FS(migrations.FS) {
		t.Fatal("expected directory override")
	}
}
