package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() Transaction {
	return Transaction{
		ID:          "t1",
		Amount:      decimal.NewFromInt(300),
		Description: "Groceries",
		Category:    "Food",
		Date:        NewDate(2024, time.January, 10),
		Type:        TransactionExpense,
		Recurrence:  RecurrenceNone,
	}
}

func TestTransactionValidate(t *testing.T) {
	require.NoError(t, validTransaction().Validate())

	before := NewDate(2023, time.December, 1)
	tests := []struct {
		name  string
		mut   func(*Transaction)
		field string
	}{
		{"missing description", func(tx *Transaction) { tx.Description = "" }, "description"},
		{"missing category", func(tx *Transaction) { tx.Category = "" }, "category"},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, "amount"},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, "type"},
		{"bad recurrence", func(tx *Transaction) { tx.Recurrence = "hourly" }, "recurrence"},
		{"missing date", func(tx *Transaction) { tx.Date = Date{} }, "date"},
		{"end before start", func(tx *Transaction) { tx.RecurrenceEndDate = &before }, "recurrenceEndDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mut(&tx)
			err := tx.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestTransactionZeroAmountIsAllowed(t *testing.T) {
	tx := validTransaction()
	tx.Amount = decimal.Zero
	assert.NoError(t, tx.Validate())
}

func TestTransactionNormalize(t *testing.T) {
	tx := Transaction{Description: "  Rent ", Category: " Housing ", Type: TransactionExpense}
	today := NewDate(2024, time.May, 1)
	tx.Normalize(today)

	assert.Equal(t, "Rent", tx.Description)
	assert.Equal(t, "Housing", tx.Category)
	assert.Equal(t, RecurrenceNone, tx.Recurrence)
	assert.Equal(t, today, tx.Date)
	assert.NotNil(t, tx.Tags)
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{Category: "Food", Amount: decimal.NewFromInt(500), Period: PeriodMonthly}
	require.NoError(t, b.Validate())

	b.Amount = decimal.Zero
	assert.ErrorIs(t, b.Validate(), ErrValidation)

	b.Amount = decimal.NewFromInt(10)
	b.Period = "weekly"
	assert.ErrorIs(t, b.Validate(), ErrValidation)
}

func TestReminderValidate(t *testing.T) {
	r := Reminder{Title: "Rent", DueDate: NewDate(2024, time.June, 1)}
	r.Normalize()
	require.NoError(t, r.Validate())
	assert.Equal(t, RecurrenceNone, r.Recurrence)

	neg := decimal.NewFromInt(-5)
	r.Amount = &neg
	assert.ErrorIs(t, r.Validate(), ErrValidation)

	r.Amount = nil
	r.DueDate = Date{}
	assert.ErrorIs(t, r.Validate(), ErrValidation)
}

func TestSettingsDefaultsAreValid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Len(t, s.Categories, 15)
	assert.Equal(t, "USD", s.Currency)
}

func TestSettingsApply(t *testing.T) {
	base := DefaultSettings()
	cur := "inr"
	day := 15
	dark := ThemeDark

	got := base.Apply(SettingsPatch{Currency: &cur, StartDayOfMonth: &day, Theme: &dark})
	require.NoError(t, got.Validate())
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, 15, got.StartDayOfMonth)
	assert.Equal(t, ThemeDark, got.Theme)
	assert.Equal(t, base.Categories, got.Categories)
	assert.Equal(t, "USD", base.Currency, "base settings must not change")
}

func TestSettingsValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		patch SettingsPatch
	}{
		{"unknown currency", SettingsPatch{Currency: ptr("ZZZ")}},
		{"start day too large", SettingsPatch{StartDayOfMonth: ptr(32)}},
		{"bad theme", SettingsPatch{Theme: ptr(Theme("neon"))}},
		{"duplicate categories", SettingsPatch{Categories: []string{"Food", "Food"}}},
		{"blank category", SettingsPatch{Categories: []string{"Food", " "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DefaultSettings().Apply(tt.patch).Validate()
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func ptr[T any](v T) *T { return &v }
