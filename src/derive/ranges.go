package derive

import (
	"time"

	"moneymap/src/models"
)

type TimeRange string

const (
	ThisMonth TimeRange = "thisMonth"
	LastMonth TimeRange = "lastMonth"
	AllTime   TimeRange = "all"
)

// FilterByDate keeps transactions dated within [start, end], inclusive.
func FilterByDate(txs []models.Transaction, start, end models.Date) []models.Transaction {
	var out []models.Transaction
	for _, t := range txs {
		if t.Date.Before(start.Time) || t.Date.After(end.Time) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func TransactionsForMonth(txs []models.Transaction, year int, month time.Month) []models.Transaction {
	start := models.NewDate(year, month, 1)
	end := models.Date{Time: start.AddDate(0, 1, -1)}
	return FilterByDate(txs, start, end)
}

// FilterByRange narrows txs to the calendar month of now, the month before
// it, or leaves them untouched for AllTime.
func FilterByRange(txs []models.Transaction, r TimeRange, now time.Time) []models.Transaction {
	switch r {
	case ThisMonth:
		return TransactionsForMonth(txs, now.Year(), now.Month())
	case LastMonth:
		prev := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		return TransactionsForMonth(txs, prev.Year(), prev.Month())
	}
	return txs
}
