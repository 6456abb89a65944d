package db

import (
	"context"
	"errors"
	"fmt"
	"slices"

	rootdb "moneymap/src/db"
	"moneymap/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository stores users and their finance records in Postgres. Every
// record query is scoped by owner id.
type Repository struct {
	pool  *pgxpool.Pool
	cache *rootdb.Cache
}

// NewRepository wraps pool. cache may be nil.
func NewRepository(pool *pgxpool.Pool, cache *rootdb.Cache) *Repository {
	return &Repository{pool: pool, cache: cache}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DeleteAllUserData removes the user's transactions, budgets and reminders
// in one database transaction. The user row is kept.
func (r *Repository) DeleteAllUserData(ctx context.Context, userID string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return deleteOwnedRecords(ctx, tx, userID)
	})
	r.cache.InvalidateUser(userID)
	if err != nil {
		return fmt.Errorf("delete user data: %w", err)
	}
	return nil
}

func deleteOwnedRecords(ctx context.Context, q querier, userID string) error {
	for _, table := range []string{"budgets", "transactions", "reminders"} {
		if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func mapNoRows(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// validID reports whether id can address a row. Malformed ids cannot be
// owned by anyone, so callers treat them as not found.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// cachedList returns a copy of a cached collection so callers never share
// the cached backing array.
func cachedList[T any](c *rootdb.Cache, kind rootdb.Kind, userID string) ([]T, bool) {
	v, ok := c.Get(kind, userID)
	if !ok {
		return nil, false
	}
	list, ok := v.([]T)
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

func storeList[T any](c *rootdb.Cache, kind rootdb.Kind, userID string, list []T) {
	c.Set(kind, userID, slices.Clone(list))
}
