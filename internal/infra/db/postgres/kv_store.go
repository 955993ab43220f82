package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arishali16742/SOW/internal/repository"
)

// KVStore implements kv.Store on a Postgres table.
type KVStore struct{ db *sql.DB }

func NewKVStore(db *sql.DB) *KVStore { return &KVStore{db: db} }

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sow_kv_store WHERE store_key = $1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return repository.ErrInvalidInput
	}
	const q = `
INSERT INTO sow_kv_store (store_key, payload, updated_at)
VALUES ($1,$2,$3)
ON CONFLICT (store_key) DO UPDATE SET
 payload = EXCLUDED.payload,
 updated_at = EXCLUDED.updated_at;`
	if _, err := s.db.ExecContext(ctx, q, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
