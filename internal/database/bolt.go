package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// IdeasBucket holds every key written by the bolt idea store.
const IdeasBucket = "ideas"

var openBolt = bbolt.Open

// BoltDB is the single-file store used when no external database is
// configured.
type BoltDB struct {
	DB *bbolt.DB
}

func NewBoltDB(path string) (*BoltDB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating bolt directory: %w", err)
		}
	}

	db, err := openBolt(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt file: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(IdeasBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bolt bucket: %w", err)
	}

	return &BoltDB{DB: db}, nil
}

func (b *BoltDB) Close() error {
	if b.DB != nil {
		return b.DB.Close()
	}
	return nil
}

// Health confirms the file is still open and the bucket readable.
func (b *BoltDB) Health(ctx context.Context) error {
	if b.DB == nil {
		return errors.New("bolt database not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.DB.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(IdeasBucket)) == nil {
			return fmt.Errorf("bucket %q missing", IdeasBucket)
		}
		return nil
	})
}
