package db

import (
	"context"
	"fmt"

	rootdb "moneymap/src/db"
	"moneymap/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const budgetColumns = `id, user_id, category, amount, period`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	if list, ok := cachedList[models.Budget](r.cache, rootdb.KindBudgets, userID); ok {
		return list, nil
	}

	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	storeList(r.cache, rootdb.KindBudgets, userID, budgets)
	return budgets, nil
}

func (r *Repository) CreateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + budgetColumns
	created, err := scanBudget(r.pool.QueryRow(ctx, query, uuid.NewString(), b.UserID, b.Category, b.Amount, b.Period))
	if err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}
	r.cache.Invalidate(rootdb.KindBudgets, b.UserID)
	return created, nil
}

func (r *Repository) UpdateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	if !validID(b.ID) {
		return nil, fmt.Errorf("update budget: %w", models.ErrNotFound)
	}
	query := `
		UPDATE budgets
		SET category = $1, amount = $2, period = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + budgetColumns
	updated, err := scanBudget(r.pool.QueryRow(ctx, query, b.Category, b.Amount, b.Period, b.ID, b.UserID))
	if err != nil {
		return nil, mapNoRows(err, "update budget")
	}
	r.cache.Invalidate(rootdb.KindBudgets, b.UserID)
	return updated, nil
}

func (r *Repository) DeleteBudget(ctx context.Context, userID, id string) error {
	return r.deleteOwned(ctx, "budgets", rootdb.KindBudgets, userID, id)
}
