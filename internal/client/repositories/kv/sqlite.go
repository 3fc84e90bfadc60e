// Package kv persists string-keyed values grouped into named scopes in the
// client's SQLite database (table session_entries).
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hirehub/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, scope, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM session_entries WHERE scope = ? AND key = ?`, scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s[%s]: %w", scope, key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, scope, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_entries (scope, key, value) VALUES (?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value
	`, scope, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s[%s]: %w", scope, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, scope, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_entries WHERE scope = ? AND key = ?`, scope, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s[%s]: %w", scope, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, scope string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_entries WHERE scope = ?`, scope)
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", scope, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, scope string) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM session_entries WHERE scope = ?`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", scope, err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", scope, err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", scope, err)
	}

	return result, nil
}
