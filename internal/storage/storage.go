// Package storage holds the key-value backends the idea board persists to.
// Every backend stores one opaque string per key and replaces it whole on
// write.
package storage

import (
	"context"
	"errors"
)

// ErrStorageUnavailable is returned by a backend constructed without a live
// client.
var ErrStorageUnavailable = errors.New("storage unavailable")

type Storage interface {
	// Get returns the stored value. found is false when the key was never
	// written; that is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the value at key.
	Set(ctx context.Context, key, value string) error
}
