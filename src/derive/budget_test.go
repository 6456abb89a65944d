package derive

import (
	"testing"
	"time"

	"moneymap/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budget(id, category string, amount int64, period models.BudgetPeriod) models.Budget {
	return models.Budget{ID: id, Category: category, Amount: decimal.NewFromInt(amount), Period: period}
}

func TestBudgetWithoutExpensesIsZeroPercent(t *testing.T) {
	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	out := BudgetProgress([]models.Budget{budget("b1", "Travel", 400, models.PeriodMonthly)}, scenario(), now, 1)

	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].Utilization)
	assert.False(t, out[0].OverBudget)
	assertAmount(t, "400", out[0].Remaining)
}

func TestBudgetProgressSortsByUtilization(t *testing.T) {
	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	txs := append(scenario(),
		tx("flight", 600, models.TransactionExpense, "Travel", models.NewDate(2024, time.January, 12)),
		tx("old-food", 999, models.TransactionExpense, "Food", models.NewDate(2023, time.December, 12)),
	)
	budgets := []models.Budget{
		budget("food", "Food", 600, models.PeriodMonthly),
		budget("travel", "Travel", 400, models.PeriodMonthly),
	}

	out := BudgetProgress(budgets, txs, now, 1)
	require.Len(t, out, 2)
	assert.Equal(t, "travel", out[0].Budget.ID)
	assert.Equal(t, 150.0, out[0].Utilization)
	assert.True(t, out[0].OverBudget)
	assertAmount(t, "-200", out[0].Remaining)

	assert.Equal(t, "food", out[1].Budget.ID)
	assert.Equal(t, 50.0, out[1].Utilization)
}

func TestYearlyBudgetCoversCalendarYear(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx("a", 100, models.TransactionExpense, "Gifts", models.NewDate(2024, time.January, 2)),
		tx("b", 100, models.TransactionExpense, "Gifts", models.NewDate(2024, time.May, 30)),
		tx("c", 100, models.TransactionExpense, "Gifts", models.NewDate(2023, time.December, 25)),
	}
	out := BudgetProgress([]models.Budget{budget("g", "Gifts", 1000, models.PeriodYearly)}, txs, now, 1)
	require.Len(t, out, 1)
	assertAmount(t, "200", out[0].Spent)
	assert.Equal(t, models.NewDate(2024, time.January, 1), out[0].PeriodStart)
	assert.Equal(t, models.NewDate(2024, time.December, 31), out[0].PeriodEnd)
}

func TestPeriodWindowHonoursStartDay(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		startDay  int
		wantStart models.Date
		wantEnd   models.Date
	}{
		{
			name:      "calendar month",
			now:       time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			startDay:  1,
			wantStart: models.NewDate(2024, time.March, 1),
			wantEnd:   models.NewDate(2024, time.March, 31),
		},
		{
			name:      "before start day falls into previous period",
			now:       time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			startDay:  25,
			wantStart: models.NewDate(2024, time.February, 25),
			wantEnd:   models.NewDate(2024, time.March, 24),
		},
		{
			name:      "start day clamps to short month",
			now:       time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			startDay:  31,
			wantStart: models.NewDate(2024, time.February, 29),
			wantEnd:   models.NewDate(2024, time.March, 30),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PeriodWindow(models.PeriodMonthly, tt.now, tt.startDay)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestUpcomingBills(t *testing.T) {
	now := time.Date(2024, time.May, 1, 18, 0, 0, 0, time.UTC)
	reminders := []models.Reminder{
		{ID: "later", Title: "Insurance", DueDate: models.NewDate(2024, time.May, 20)},
		{ID: "soon", Title: "Rent", DueDate: models.NewDate(2024, time.May, 2)},
		{ID: "paid", Title: "Water", DueDate: models.NewDate(2024, time.May, 3), IsPaid: true},
		{ID: "past", Title: "Gas", DueDate: models.NewDate(2024, time.April, 30)},
		{ID: "far", Title: "Tax", DueDate: models.NewDate(2024, time.July, 1)},
		{ID: "today", Title: "Phone", DueDate: models.NewDate(2024, time.May, 1)},
		{ID: "week", Title: "Internet", DueDate: models.NewDate(2024, time.May, 7)},
	}

	out := UpcomingBills(reminders, now, 30, 0)
	ids := make([]string, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"today", "soon", "week", "later"}, ids)

	assert.Len(t, UpcomingBills(reminders, now, 30, 2), 2)

	assert.Equal(t, DueSoon, BillUrgency(out[1], now))
	assert.Equal(t, ThisWeek, BillUrgency(out[2], now))
	assert.Equal(t, Upcoming, BillUrgency(out[3], now))
}
