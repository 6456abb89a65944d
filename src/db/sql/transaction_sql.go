package db

import (
	"context"
	"fmt"
	"time"

	rootdb "moneymap/src/db"
	"moneymap/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, user_id, amount, description, category, date, type, tags, recurrence, recurrence_end_date`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		t   models.Transaction
		end *time.Time
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Description, &t.Category,
		&t.Date.Time, &t.Type, &t.Tags, &t.Recurrence, &end)
	if err != nil {
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if end != nil {
		d := models.DateOf(*end)
		t.RecurrenceEndDate = &d
	}
	return &t, nil
}

func endDateArg(d *models.Date) *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

func tagsArg(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r *Repository) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	if list, ok := cachedList[models.Transaction](r.cache, rootdb.KindTransactions, userID); ok {
		return list, nil
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY date DESC, created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	storeList(r.cache, rootdb.KindTransactions, userID, txs)
	return txs, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns
	row := r.pool.QueryRow(ctx, query, uuid.NewString(), t.UserID, t.Amount, t.Description, t.Category,
		t.Date.Time, t.Type, tagsArg(t.Tags), t.Recurrence, endDateArg(t.RecurrenceEndDate))
	created, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	r.cache.Invalidate(rootdb.KindTransactions, t.UserID)
	return created, nil
}

// UpdateTransaction replaces the stored fields of t.ID when it belongs to
// t.UserID, otherwise models.ErrNotFound.
func (r *Repository) UpdateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if !validID(t.ID) {
		return nil, fmt.Errorf("update transaction: %w", models.ErrNotFound)
	}
	query := `
		UPDATE transactions
		SET amount = $1, description = $2, category = $3, date = $4, type = $5,
			tags = $6, recurrence = $7, recurrence_end_date = $8
		WHERE id = $9 AND user_id = $10
		RETURNING ` + transactionColumns
	row := r.pool.QueryRow(ctx, query, t.Amount, t.Description, t.Category, t.Date.Time, t.Type,
		tagsArg(t.Tags), t.Recurrence, endDateArg(t.RecurrenceEndDate), t.ID, t.UserID)
	updated, err := scanTransaction(row)
	if err != nil {
		return nil, mapNoRows(err, "update transaction")
	}
	r.cache.Invalidate(rootdb.KindTransactions, t.UserID)
	return updated, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	return r.deleteOwned(ctx, "transactions", rootdb.KindTransactions, userID, id)
}

func (r *Repository) deleteOwned(ctx context.Context, table string, kind rootdb.Kind, userID, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete from %s: %w", table, models.ErrNotFound)
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete from %s: %w", table, models.ErrNotFound)
	}
	r.cache.Invalidate(kind, userID)
	return nil
}
