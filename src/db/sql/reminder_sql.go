package db

import (
	"context"
	"fmt"

	rootdb "moneymap/src/db"
	"moneymap/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const reminderColumns = `id, user_id, title, amount, due_date, is_paid, category, recurrence, notes`

func scanReminder(row pgx.Row) (*models.Reminder, error) {
	var (
		rem    models.Reminder
		amount decimal.NullDecimal
	)
	err := row.Scan(&rem.ID, &rem.UserID, &rem.Title, &amount, &rem.DueDate.Time,
		&rem.IsPaid, &rem.Category, &rem.Recurrence, &rem.Notes)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		rem.Amount = &amount.Decimal
	}
	return &rem, nil
}

func amountArg(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (r *Repository) ListReminders(ctx context.Context, userID string) ([]models.Reminder, error) {
	if list, ok := cachedList[models.Reminder](r.cache, rootdb.KindReminders, userID); ok {
		return list, nil
	}

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = $1 ORDER BY due_date ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	storeList(r.cache, rootdb.KindReminders, userID, reminders)
	return reminders, nil
}

func (r *Repository) CreateReminder(ctx context.Context, rem *models.Reminder) (*models.Reminder, error) {
	query := `
		INSERT INTO reminders (` + reminderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + reminderColumns
	created, err := scanReminder(r.pool.QueryRow(ctx, query, uuid.NewString(), rem.UserID, rem.Title,
		amountArg(rem.Amount), rem.DueDate.Time, rem.IsPaid, rem.Category, rem.Recurrence, rem.Notes))
	if err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	r.cache.Invalidate(rootdb.KindReminders, rem.UserID)
	return created, nil
}

func (r *Repository) UpdateReminder(ctx context.Context, rem *models.Reminder) (*models.Reminder, error) {
	if !validID(rem.ID) {
		return nil, fmt.Errorf("update reminder: %w", models.ErrNotFound)
	}
	query := `
		UPDATE reminders
		SET title = $1, amount = $2, due_date = $3, is_paid = $4, category = $5,
			recurrence = $6, notes = $7
		WHERE id = $8 AND user_id = $9
		RETURNING ` + reminderColumns
	updated, err := scanReminder(r.pool.QueryRow(ctx, query, rem.Title, amountArg(rem.Amount), rem.DueDate.Time,
		rem.IsPaid, rem.Category, rem.Recurrence, rem.Notes, rem.ID, rem.UserID))
	if err != nil {
		return nil, mapNoRows(err, "update reminder")
	}
	r.cache.Invalidate(rootdb.KindReminders, rem.UserID)
	return updated, nil
}

func (r *Repository) DeleteReminder(ctx context.Context, userID, id string) error {
	return r.deleteOwned(ctx, "reminders", rootdb.KindReminders, userID, id)
}
