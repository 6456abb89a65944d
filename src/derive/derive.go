// Package derive computes read-only aggregates over a snapshot of finance
// records. Nothing here performs I/O or mutates its inputs.
package derive

import (
	"sort"

	"moneymap/src/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalIncome sums the amounts of income transactions.
func TotalIncome(txs []models.Transaction) decimal.Decimal {
	return sumWhere(txs, models.Transaction.IsIncome)
}

// TotalExpenses sums the amounts of expense transactions.
func TotalExpenses(txs []models.Transaction) decimal.Decimal {
	return sumWhere(txs, models.Transaction.IsExpense)
}

func Balance(txs []models.Transaction) decimal.Decimal {
	return TotalIncome(txs).Sub(TotalExpenses(txs))
}

// SavingsRate is (income - expenses) / income * 100, or exactly 0 when there
// is no income.
func SavingsRate(txs []models.Transaction) float64 {
	return savingsRate(TotalIncome(txs), TotalExpenses(txs))
}

func savingsRate(income, expenses decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	return income.Sub(expenses).Div(income).Mul(hundred).InexactFloat64()
}

// CategoryTotals sums expense amounts per category. Income is ignored.
func CategoryTotals(txs []models.Transaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	return totals
}

type MonthTotal struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// MonthlyData groups transactions by the YYYY-MM of their own date, in
// ascending month order.
func MonthlyData(txs []models.Transaction) []MonthTotal {
	byMonth := make(map[string]*MonthTotal)
	for _, t := range txs {
		key := t.Date.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &MonthTotal{Month: key}
			byMonth[key] = m
		}
		if t.IsIncome() {
			m.Income = m.Income.Add(t.Amount)
		} else {
			m.Expenses = m.Expenses.Add(t.Amount)
		}
	}

	out := make([]MonthTotal, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

type Summary struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Balance     decimal.Decimal `json:"balance"`
	SavingsRate float64         `json:"savingsRate"`
}

func Summarize(txs []models.Transaction) Summary {
	income := TotalIncome(txs)
	expenses := TotalExpenses(txs)
	return Summary{
		Income:      income,
		Expenses:    expenses,
		Balance:     income.Sub(expenses),
		SavingsRate: savingsRate(income, expenses),
	}
}

func sumWhere(txs []models.Transaction, keep func(models.Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if keep(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}
