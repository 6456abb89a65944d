// Package storetest holds the behaviour every handlers.Store implementation
// must share. Storage packages run it from their own tests.
package storetest

import (
	"context"
	"time"

	"moneymap/src/handlers"
	"moneymap/src/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Suite exercises a fresh store from NewStore in every test.
type Suite struct {
	suite.Suite
	NewStore func() handlers.Store

	store handlers.Store
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.store = s.NewStore()
	s.ctx = context.Background()
}

func (s *Suite) newUser(email string) *models.User {
	u, err := s.store.CreateUser(s.ctx, email, "hash")
	s.Require().NoError(err)
	return u
}

func (s *Suite) newTransaction(userID string, amount int64) *models.Transaction {
	created, err := s.store.CreateTransaction(s.ctx, &models.Transaction{
		UserID:      userID,
		Amount:      decimal.NewFromInt(amount),
		Description: "Groceries",
		Category:    "Food",
		Date:        models.NewDate(2024, time.January, 10),
		Type:        models.TransactionExpense,
		Tags:        []string{"weekly"},
		Recurrence:  models.RecurrenceNone,
	})
	s.Require().NoError(err)
	return created
}

func (s *Suite) TestUsers() {
	u := s.newUser("ana@example.com")
	s.NotEmpty(u.ID)
	s.False(u.CreatedAt.IsZero())

	_, err := s.store.CreateUser(s.ctx, "ana@example.com", "other")
	s.ErrorIs(err, models.ErrConflict)

	byEmail, err := s.store.GetUserByEmail(s.ctx, "ana@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
	s.Equal("hash", byEmail.PasswordHash)

	s.Require().NoError(s.store.UpdateUserPassword(s.ctx, u.ID, "new-hash"))
	byID, err := s.store.GetUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("new-hash", byID.PasswordHash)

	_, err = s.store.GetUserByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, models.ErrNotFound)
	s.ErrorIs(s.store.UpdateUserPassword(s.ctx, uuid.NewString(), "x"), models.ErrNotFound)
}

func (s *Suite) TestTransactionsAreOwnerScoped() {
	ana := s.newUser("ana@example.com")
	ben := s.newUser("ben@example.com")
	t := s.newTransaction(ana.ID, 300)

	s.NotEmpty(t.ID)
	s.Equal(models.NewDate(2024, time.January, 10), t.Date)
	s.Equal([]string{"weekly"}, t.Tags)
	s.True(decimal.NewFromInt(300).Equal(t.Amount))

	list, err := s.store.ListTransactions(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Len(list, 1)

	list, err = s.store.ListTransactions(s.ctx, ben.ID)
	s.Require().NoError(err)
	s.Empty(list)

	s.ErrorIs(s.store.DeleteTransaction(s.ctx, ben.ID, t.ID), models.ErrNotFound)
	stolen := *t
	stolen.UserID = ben.ID
	_, err = s.store.UpdateTransaction(s.ctx, &stolen)
	s.ErrorIs(err, models.ErrNotFound)

	list, err = s.store.ListTransactions(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *Suite) TestTransactionUpdateAndDelete() {
	ana := s.newUser("ana@example.com")
	t := s.newTransaction(ana.ID, 300)

	end := models.NewDate(2024, time.June, 30)
	t.Amount = decimal.RequireFromString("42.50")
	t.Recurrence = models.RecurrenceMonthly
	t.RecurrenceEndDate = &end
	updated, err := s.store.UpdateTransaction(s.ctx, t)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("42.5").Equal(updated.Amount))
	s.Equal(models.RecurrenceMonthly, updated.Recurrence)
	s.Require().NotNil(updated.RecurrenceEndDate)
	s.Equal(end, *updated.RecurrenceEndDate)

	list, err := s.store.ListTransactions(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.True(decimal.RequireFromString("42.5").Equal(list[0].Amount))

	s.Require().NoError(s.store.DeleteTransaction(s.ctx, ana.ID, t.ID))
	s.ErrorIs(s.store.DeleteTransaction(s.ctx, ana.ID, t.ID), models.ErrNotFound)
	s.ErrorIs(s.store.DeleteTransaction(s.ctx, ana.ID, "not-a-uuid"), models.ErrNotFound)
}

func (s *Suite) TestBudgets() {
	ana := s.newUser("ana@example.com")
	b, err := s.store.CreateBudget(s.ctx, &models.Budget{
		UserID: ana.ID, Category: "Food", Amount: decimal.NewFromInt(500), Period: models.PeriodMonthly,
	})
	s.Require().NoError(err)

	b.Amount = decimal.NewFromInt(650)
	b.Period = models.PeriodYearly
	updated, err := s.store.UpdateBudget(s.ctx, b)
	s.Require().NoError(err)
	s.Equal(models.PeriodYearly, updated.Period)

	list, err := s.store.ListBudgets(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.True(decimal.NewFromInt(650).Equal(list[0].Amount))

	s.Require().NoError(s.store.DeleteBudget(s.ctx, ana.ID, b.ID))
	list, err = s.store.ListBudgets(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *Suite) TestReminders() {
	ana := s.newUser("ana@example.com")
	amount := decimal.NewFromInt(1200)
	r, err := s.store.CreateReminder(s.ctx, &models.Reminder{
		UserID: ana.ID, Title: "Rent", Amount: &amount,
		DueDate: models.NewDate(2024, time.February, 1), Recurrence: models.RecurrenceMonthly,
	})
	s.Require().NoError(err)
	s.Require().NotNil(r.Amount)

	r.IsPaid = true
	r.Amount = nil
	r.Notes = "paid early"
	updated, err := s.store.UpdateReminder(s.ctx, r)
	s.Require().NoError(err)
	s.True(updated.IsPaid)
	s.Nil(updated.Amount)
	s.Equal("paid early", updated.Notes)

	s.ErrorIs(s.store.DeleteReminder(s.ctx, uuid.NewString(), r.ID), models.ErrNotFound)
	s.Require().NoError(s.store.DeleteReminder(s.ctx, ana.ID, r.ID))
}

func (s *Suite) TestDeleteAllUserDataKeepsUser() {
	ana := s.newUser("ana@example.com")
	ben := s.newUser("ben@example.com")
	s.newTransaction(ana.ID, 10)
	s.newTransaction(ben.ID, 20)
	_, err := s.store.CreateBudget(s.ctx, &models.Budget{
		UserID: ana.ID, Category: "Food", Amount: decimal.NewFromInt(5), Period: models.PeriodMonthly,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteAllUserData(s.ctx, ana.ID))

	txs, err := s.store.ListTransactions(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Empty(txs)
	budgets, err := s.store.ListBudgets(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Empty(budgets)

	_, err = s.store.GetUserByID(s.ctx, ana.ID)
	s.NoError(err)
	txs, err = s.store.ListTransactions(s.ctx, ben.ID)
	s.Require().NoError(err)
	s.Len(txs, 1)
}

func (s *Suite) TestDeleteUserCascades() {
	ana := s.newUser("ana@example.com")
	s.newTransaction(ana.ID, 10)

	s.Require().NoError(s.store.DeleteUser(s.ctx, ana.ID))

	_, err := s.store.GetUserByID(s.ctx, ana.ID)
	s.ErrorIs(err, models.ErrNotFound)
	txs, err := s.store.ListTransactions(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Empty(txs)

	s.ErrorIs(s.store.DeleteUser(s.ctx, ana.ID), models.ErrNotFound)
}
