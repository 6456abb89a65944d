package derive

import (
	"sort"
	"time"

	"moneymap/src/models"

	"github.com/shopspring/decimal"
)

type BudgetStatus struct {
	Budget      models.Budget   `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Utilization float64         `json:"utilization"`
	OverBudget  bool            `json:"overBudget"`
	PeriodStart models.Date     `json:"periodStart"`
	PeriodEnd   models.Date     `json:"periodEnd"`
}

// PeriodWindow returns the inclusive date range of the budget period that
// contains now. Monthly periods begin on startDay, clamped to the month's
// length; yearly periods are calendar years.
func PeriodWindow(period models.BudgetPeriod, now time.Time, startDay int) (models.Date, models.Date) {
	today := models.DateOf(now)
	if period == models.PeriodYearly {
		start := models.NewDate(today.Year(), time.January, 1)
		return start, models.NewDate(today.Year(), time.December, 31)
	}

	if startDay < 1 {
		startDay = 1
	}
	start := monthDay(today.Year(), today.Month(), startDay)
	if today.Before(start.Time) {
		start = monthDay(today.Year(), today.Month()-1, startDay)
	}
	next := monthDay(start.Year(), start.Month()+1, startDay)
	return start, next.AddDays(-1)
}

func monthDay(year int, month time.Month, day int) models.Date {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return models.NewDate(first.Year(), first.Month(), day)
}

// BudgetProgress compares every budget with the expenses of its category in
// the current period. A budget with nothing spent reports 0% utilization.
// Results are ordered by utilization, highest first.
func BudgetProgress(budgets []models.Budget, txs []models.Transaction, now time.Time, startDay int) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		start, end := PeriodWindow(b.Period, now, startDay)
		spent := decimal.Zero
		for _, t := range FilterByDate(txs, start, end) {
			if t.IsExpense() && t.Category == b.Category {
				spent = spent.Add(t.Amount)
			}
		}

		status := BudgetStatus{
			Budget:      b,
			Spent:       spent,
			Remaining:   b.Amount.Sub(spent),
			OverBudget:  spent.GreaterThan(b.Amount),
			PeriodStart: start,
			PeriodEnd:   end,
		}
		if b.Amount.IsPositive() {
			status.Utilization = spent.Div(b.Amount).Mul(hundred).InexactFloat64()
		}
		out = append(out, status)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Utilization > out[j].Utilization })
	return out
}
