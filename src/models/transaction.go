package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID                string          `json:"id"`
	UserID            string          `json:"-"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Date              Date            `json:"date"`
	Type              TransactionType `json:"type"`
	Tags              []string        `json:"tags,omitempty"`
	Recurrence        Recurrence      `json:"recurrence"`
	RecurrenceEndDate *Date           `json:"recurrenceEndDate,omitempty"`
}

// Normalize fills defaults for fields a client may leave out.
func (t *Transaction) Normalize(today Date) {
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	if t.Recurrence == "" {
		t.Recurrence = RecurrenceNone
	}
	if t.Date.IsZero() {
		t.Date = today
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
}

func (t Transaction) Validate() error {
	switch {
	case t.Description == "":
		return invalid("description", "is required")
	case t.Category == "":
		return invalid("category", "is required")
	case t.Amount.IsNegative():
		return invalid("amount", "must not be negative")
	case !t.Type.Valid():
		return invalid("type", "must be income or expense")
	case !t.Recurrence.Valid():
		return invalid("recurrence", "must be one of none, daily, weekly, monthly, yearly")
	case t.Date.IsZero():
		return invalid("date", "is required")
	case t.RecurrenceEndDate != nil && t.RecurrenceEndDate.Before(t.Date.Time):
		return invalid("recurrenceEndDate", "must not be before date")
	}
	return nil
}

func (t Transaction) IsIncome() bool  { return t.Type == TransactionIncome }
func (t Transaction) IsExpense() bool { return t.Type == TransactionExpense }
