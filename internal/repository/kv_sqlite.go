package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// KVSQLite keeps counter keys in the counter_kv table.
type KVSQLite struct {
	db *sql.DB
}

func NewKVSQLite(db *sql.DB) *KVSQLite {
	return &KVSQLite{db: db}
}

var _ KVStore = (*KVSQLite)(nil)

const (
	upsertKVSQL = `
		INSERT INTO counter_kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	selectKVPrefixSQL = `SELECT key, value FROM counter_kv WHERE key IN `
	deleteKVPrefixSQL = `DELETE FROM counter_kv WHERE key IN `
)

// inClause builds "(?, ?, ?)" and the matching args for keys.
func inClause(keys []string) (string, []any) {
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		marks[i] = "?"
		args[i] = k
	}
	return "(" + strings.Join(marks, ", ") + ")", args
}

// GetAll returns the values stored for keys. Keys without a row are omitted.
func (r *KVSQLite) GetAll(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	in, args := inClause(keys)
	rows, err := r.db.QueryContext(ctx, selectKVPrefixSQL+in, args...)
	if err != nil {
		return nil, fmt.Errorf("select counter keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			value string
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan counter key: %w", err)
		}
		out[key] = []byte(value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PutAll upserts all entries in a single transaction.
func (r *KVSQLite) PutAll(ctx context.Context, entries []Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin counter write: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, upsertKVSQL, e.Key, string(e.Value), now); err != nil {
			return fmt.Errorf("upsert %q: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit counter write: %w", err)
	}
	return nil
}

// DeleteAll removes keys; missing keys are not an error.
func (r *KVSQLite) DeleteAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	in, args := inClause(keys)
	if _, err := r.db.ExecContext(ctx, deleteKVPrefixSQL+in, args...); err != nil {
		return fmt.Errorf("delete counter keys: %w", err)
	}
	return nil
}
