package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id                  UUID PRIMARY KEY,
		user_id             UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount              NUMERIC NOT NULL,
		description         TEXT NOT NULL,
		category            TEXT NOT NULL,
		date                DATE NOT NULL,
		type                TEXT NOT NULL CHECK (type IN ('income', 'expense')),
		tags                TEXT[] NOT NULL DEFAULT '{}',
		recurrence          TEXT NOT NULL DEFAULT 'none',
		recurrence_end_date DATE,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_id_idx ON transactions (user_id)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category   TEXT NOT NULL,
		amount     NUMERIC NOT NULL,
		period     TEXT NOT NULL CHECK (period IN ('monthly', 'yearly')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS budgets_user_id_idx ON budgets (user_id)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		amount     NUMERIC,
		due_date   DATE NOT NULL,
		is_paid    BOOLEAN NOT NULL DEFAULT FALSE,
		category   TEXT NOT NULL DEFAULT '',
		recurrence TEXT NOT NULL DEFAULT 'none',
		notes      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS reminders_user_id_idx ON reminders (user_id)`,
}

// Migrate creates the tables the API needs. It is safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
