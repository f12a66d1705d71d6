package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// EnsureSchema создает таблицы, если их еще нет. Одна таблица -
// полноценные миграции были бы из пушки по воробьям.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS chat_prefs (
            chat_id BIGINT PRIMARY KEY,
            default_mode TEXT NOT NULL DEFAULT 'bid',
            rows_per_page INT NOT NULL DEFAULT 30,
            lookback_days INT NOT NULL DEFAULT 7,
            updated_at TIMESTAMPTZ DEFAULT NOW()
        )
    `)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
