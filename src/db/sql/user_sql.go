package db

import (
	"context"
	"fmt"
	"time"

	"moneymap/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateUser inserts a user. A taken email returns models.ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, created_at
	`
	var u models.User
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), email, passwordHash, time.Now().UTC()).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create user: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getUser(ctx, r.pool, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getUser(ctx, r.pool, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func getUser(ctx context.Context, q querier, query string, arg string) (*models.User, error) {
	var u models.User
	err := q.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err, "get user")
	}
	return &u, nil
}

func (r *Repository) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update password: %w", models.ErrNotFound)
	}
	return nil
}

// DeleteUser removes every owned record and then the user, atomically.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := deleteOwnedRecords(ctx, tx, id); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	r.cache.InvalidateUser(id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
