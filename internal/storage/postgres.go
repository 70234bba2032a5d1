package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PGQuerier is satisfied by *pgxpool.Pool and pgx.Tx.
type PGQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStorage keeps values in the kv_store table created by
// migrations/000001_create_kv_store.
type PostgresStorage struct {
	db PGQuerier
}

func NewPostgresStorage(db PGQuerier) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (p *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if p.db == nil {
		return "", false, ErrStorageUnavailable
	}

	var value string
	err := p.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s from postgres: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresStorage) Set(ctx context.Context, key, value string) error {
	if p.db == nil {
		return ErrStorageUnavailable
	}

	_, err := p.db.Exec(ctx,
		`INSERT INTO kv_store (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s to postgres: %w", key, err)
	}
	return nil
}
