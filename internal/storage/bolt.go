package storage

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

type BoltStorage struct {
	db     *bbolt.DB
	bucket []byte
}

// NewBoltStorage keeps every key in bucket, created on first write if
// database.NewBoltDB has not made it already.
func NewBoltStorage(db *bbolt.DB, bucket string) *BoltStorage {
	return &BoltStorage{db: db, bucket: []byte(bucket)}
}

func (b *BoltStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if b.db == nil {
		return "", false, ErrStorageUnavailable
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return nil
		}
		// Bytes from Get are only valid inside the transaction.
		if raw := bucket.Get([]byte(key)); raw != nil {
			value = string(raw)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading %s from bolt: %w", key, err)
	}
	return value, found, nil
}

func (b *BoltStorage) Set(ctx context.Context, key, value string) error {
	if b.db == nil {
		return ErrStorageUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(b.bucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("writing %s to bolt: %w", key, err)
	}
	return nil
}
