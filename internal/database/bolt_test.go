package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"
)

func TestNewBoltDB_CreatesFileAndBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ideas.bolt")

	db, err := NewBoltDB(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected bolt file to exist: %v", err)
	}
	if err := db.Health(context.Background()); err != nil {
		t.Fatalf("expected healthy database, got %v", err)
	}
}

func TestNewBoltDB_OpenError(t *testing.T) {
	orig := openBolt
	t.Cleanup(func() { openBolt = orig })
	openBolt = func(string, os.FileMode, *bbolt.Options) (*bbolt.DB, error) {
		return nil, errors.New("locked")
	}

	if _, err := NewBoltDB(filepath.Join(t.TempDir(), "ideas.bolt")); err == nil {
		t.Fatal("expected open error")
	}
}

func TestBoltDB_HealthCancelledContext(t *testing.T) {
	db, err := NewBoltDB(filepath.Join(t.TempDir(), "ideas.bolt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := db.Health(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBoltDB_HealthNotOpen(t *testing.T) {
	db := &BoltDB{}
	if err := db.Health(context.Background()); err == nil {
		t.Fatal("expected error for unopened database")
	}
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}
