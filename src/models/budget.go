package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID       string          `json:"id"`
	UserID   string          `json:"-"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Period   BudgetPeriod    `json:"period"`
}

func (b *Budget) Normalize() {
	b.Category = strings.TrimSpace(b.Category)
}

func (b Budget) Validate() error {
	switch {
	case b.Category == "":
		return invalid("category", "is required")
	case !b.Amount.IsPositive():
		return invalid("amount", "must be positive")
	case !b.Period.Valid():
		return invalid("period", "must be monthly or yearly")
	}
	return nil
}
