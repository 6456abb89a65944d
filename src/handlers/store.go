package handlers

import (
	"context"

	"moneymap/src/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error
}

type TransactionStore interface {
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
}

type BudgetStore interface {
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	CreateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
}

type ReminderStore interface {
	ListReminders(ctx context.Context, userID string) ([]models.Reminder, error)
	CreateReminder(ctx context.Context, r *models.Reminder) (*models.Reminder, error)
	UpdateReminder(ctx context.Context, r *models.Reminder) (*models.Reminder, error)
	DeleteReminder(ctx context.Context, userID, id string) error
}

type ResetStore interface {
	DeleteAllUserData(ctx context.Context, userID string) error
}

// Store is everything the API persists.
type Store interface {
	UserStore
	TransactionStore
	BudgetStore
	ReminderStore
	ResetStore
}
