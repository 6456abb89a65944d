package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moneymap/src/api"
	"moneymap/src/auth"
	"moneymap/src/db/memory"
	"moneymap/src/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "Str0ng!pass"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	srv := httptest.NewServer(api.NewRouter(memory.New(), tokens, api.Options{}, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func signedIn(t *testing.T, srv *httptest.Server, email string) *Client {
	t.Helper()
	ctx := context.Background()
	c := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, c.Register(ctx, email, password))
	token, err := c.Login(ctx, email, password)
	require.NoError(t, err)
	require.Equal(t, token, c.Token())
	return c
}

func TestAuthErrors(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(srv.URL, WithHTTPClient(srv.Client()))

	_, err := c.Login(ctx, "nobody@example.com", password)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, c.Register(ctx, "ana@example.com", password))
	err = c.Register(ctx, "ana@example.com", password)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "User already exists")

	_, err = c.Login(ctx, "ana@example.com", "Wr0ng!pass")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = c.ListTransactions(ctx)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTransactionRoundTrip(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := signedIn(t, srv, "ana@example.com")

	created, err := c.CreateTransaction(ctx, models.Transaction{
		Amount: decimal.NewFromInt(300), Description: "Groceries", Category: "Food",
		Date: models.NewDate(2024, time.January, 10), Type: models.TransactionExpense,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Description = "Weekly groceries"
	updated, err := c.UpdateTransaction(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Weekly groceries", updated.Description)

	list, err := c.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, updated, list[0])

	require.NoError(t, c.DeleteTransaction(ctx, created.ID))
	assert.ErrorIs(t, c.DeleteTransaction(ctx, created.ID), models.ErrNotFound)
}

func TestRecordIDsAreEscapedInPaths(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := signedIn(t, srv, "ana@example.com")

	kept, err := c.CreateTransaction(ctx, models.Transaction{
		Amount: decimal.NewFromInt(5), Description: "Coffee", Category: "Food",
		Date: models.NewDate(2024, time.January, 10), Type: models.TransactionExpense,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, c.DeleteTransaction(ctx, kept.ID+"?force=1"), models.ErrNotFound)
	assert.ErrorIs(t, c.DeleteBudget(ctx, "../transactions/"+kept.ID), models.ErrNotFound)

	kept.Description = "Espresso"
	moved := kept
	moved.ID = kept.ID + "#x"
	_, err = c.UpdateTransaction(ctx, moved)
	assert.ErrorIs(t, err, models.ErrNotFound)

	list, err := c.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Coffee", list[0].Description)
}

func TestBudgetsRemindersAndReset(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := signedIn(t, srv, "ana@example.com")

	b, err := c.CreateBudget(ctx, models.Budget{Category: "Food", Amount: decimal.NewFromInt(400), Period: models.PeriodMonthly})
	require.NoError(t, err)
	b.Amount = decimal.NewFromInt(450)
	_, err = c.UpdateBudget(ctx, b)
	require.NoError(t, err)

	_, err = c.CreateBudget(ctx, models.Budget{Category: "Food", Amount: decimal.Zero, Period: models.PeriodMonthly})
	assert.ErrorIs(t, err, models.ErrValidation)

	r, err := c.CreateReminder(ctx, models.Reminder{Title: "Rent", DueDate: models.NewDate(2024, time.February, 1)})
	require.NoError(t, err)
	r.IsPaid = true
	_, err = c.UpdateReminder(ctx, r)
	require.NoError(t, err)

	require.NoError(t, c.ResetAll(ctx))
	budgets, err := c.ListBudgets(ctx)
	require.NoError(t, err)
	assert.Empty(t, budgets)
	reminders, err := c.ListReminders(ctx)
	require.NoError(t, err)
	assert.Empty(t, reminders)
	assert.ErrorIs(t, c.DeleteReminder(ctx, r.ID), models.ErrNotFound)
	assert.ErrorIs(t, c.DeleteBudget(ctx, b.ID), models.ErrNotFound)
}

func TestAccountLifecycle(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := signedIn(t, srv, "ana@example.com")

	assert.ErrorIs(t, c.ChangePassword(ctx, "Wr0ng!pass", "N3w!password"), models.ErrValidation)
	require.NoError(t, c.ChangePassword(ctx, password, "N3w!password"))

	assert.ErrorIs(t, c.DeleteAccount(ctx, password), models.ErrUnauthorized)
	require.NoError(t, c.DeleteAccount(ctx, "N3w!password"))
	assert.Empty(t, c.Token())

	_, err := c.Login(ctx, "ana@example.com", "N3w!password")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPlainTextErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).ResetAll(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}
