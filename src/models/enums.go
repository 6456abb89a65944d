package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// Recurring reports whether r produces repeated occurrences.
func (r Recurrence) Recurring() bool {
	return r.Valid() && r != RecurrenceNone
}

// Step returns the n-th occurrence of a rule anchored at origin. Month and
// year steps clamp to the last day of the target month.
func (r Recurrence) Step(origin Date, n int) Date {
	switch r {
	case RecurrenceDaily:
		return origin.AddDays(n)
	case RecurrenceWeekly:
		return origin.AddDays(7 * n)
	case RecurrenceMonthly:
		return addMonthsClamped(origin, n)
	case RecurrenceYearly:
		return addMonthsClamped(origin, 12*n)
	}
	return origin
}

// Label is the human readable name of the rule.
func (r Recurrence) Label() string {
	switch r {
	case RecurrenceDaily:
		return "Daily"
	case RecurrenceWeekly:
		return "Weekly"
	case RecurrenceMonthly:
		return "Monthly"
	case RecurrenceYearly:
		return "Yearly"
	}
	return "One-time"
}

func addMonthsClamped(d Date, months int) Date {
	first := time.Date(d.Year(), d.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

type BudgetPeriod string

const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	return p == PeriodMonthly || p == PeriodYearly
}

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)
