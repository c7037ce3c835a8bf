// AngelaMos | 2026
// postgres.go

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/esimphony/internal/core"
)

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		scope      TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (scope, key)
	)`

type PostgresBackend struct {
	db core.DBTX
}

func NewPostgresBackend(db core.DBTX) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (p *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("create kv schema: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Get(ctx context.Context, scope, key string) ([]byte, error) {
	query := `SELECT value::text FROM kv_entries WHERE scope = $1 AND key = $2`

	var value string
	err := p.db.GetContext(ctx, &value, query, scope, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get kv entry: %w", err)
	}

	return []byte(value), nil
}

func (p *PostgresBackend) Set(ctx context.Context, scope, key string, value []byte) error {
	if scope == "" {
		return ErrInvalidScope
	}

	query := `
		INSERT INTO kv_entries (scope, key, value)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (scope, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := p.db.ExecContext(ctx, query, scope, key, string(value)); err != nil {
		return fmt.Errorf("set kv entry: %w", err)
	}

	return nil
}

func (p *PostgresBackend) Delete(ctx context.Context, scope, key string) error {
	query := `DELETE FROM kv_entries WHERE scope = $1 AND key = $2`

	if _, err := p.db.ExecContext(ctx, query, scope, key); err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}

	return nil
}

func (p *PostgresBackend) Clear(ctx context.Context, scope string) error {
	if scope == "" {
		return ErrInvalidScope
	}

	if _, err := p.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE scope = $1`, scope); err != nil {
		return fmt.Errorf("clear kv scope: %w", err)
	}

	return nil
}

func (p *PostgresBackend) Ping(ctx context.Context) error {
	var one int
	return p.db.GetContext(ctx, &one, `SELECT 1`)
}
