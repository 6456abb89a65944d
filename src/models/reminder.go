package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Reminder struct {
	ID         string           `json:"id"`
	UserID     string           `json:"-"`
	Title      string           `json:"title"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	DueDate    Date             `json:"dueDate"`
	IsPaid     bool             `json:"isPaid"`
	Category   string           `json:"category,omitempty"`
	Recurrence Recurrence       `json:"recurrence"`
	Notes      string           `json:"notes,omitempty"`
}

func (r *Reminder) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	if r.Recurrence == "" {
		r.Recurrence = RecurrenceNone
	}
}

func (r Reminder) Validate() error {
	switch {
	case r.Title == "":
		return invalid("title", "is required")
	case r.DueDate.IsZero():
		return invalid("dueDate", "is required")
	case r.Amount != nil && r.Amount.IsNegative():
		return invalid("amount", "must not be negative")
	case !r.Recurrence.Valid():
		return invalid("recurrence", "must be one of none, daily, weekly, monthly, yearly")
	}
	return nil
}
