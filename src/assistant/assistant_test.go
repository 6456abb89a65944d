package assistant

import (
	"testing"
	"time"

	"moneymap/src/derive"
	"moneymap/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func expense(amount int64, category string, date models.Date) models.Transaction {
	return models.Transaction{
		ID: category, Amount: decimal.NewFromInt(amount), Description: category,
		Category: category, Date: date, Type: models.TransactionExpense, Recurrence: models.RecurrenceNone,
	}
}

func income(amount int64, date models.Date) models.Transaction {
	return models.Transaction{
		ID: "pay", Amount: decimal.NewFromInt(amount), Description: "Salary",
		Category: "Income", Date: date, Type: models.TransactionIncome, Recurrence: models.RecurrenceNone,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     Intent
	}{
		{"How much did I spend on food last month?", IntentFood},
		{"What did I spend at restaurants?", IntentFood},
		{"What's my savings rate?", IntentSavings},
		{"Do I save enough? What about saving more?", IntentSavings},
		{"Am I over budget?", IntentBudget},
		{"When is my next bill?", IntentBill},
		{"What is due soon?", IntentBill},
		{"How can I improve my finances?", IntentImprove},
		{"Any tips to do better?", IntentImprove},
		{"Tell me a joke", IntentFallback},
		{"Food facts please", IntentFallback},
		// budget is checked before bills
		{"Is my budget due for review?", IntentBudget},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.question))
		})
	}
}

func TestDetectTimeRange(t *testing.T) {
	assert.Equal(t, derive.LastMonth, DetectTimeRange("spent LAST MONTH"))
	assert.Equal(t, derive.ThisMonth, DetectTimeRange("this month so far"))
	assert.Equal(t, derive.AllTime, DetectTimeRange("ever"))
}

func TestFoodWithoutMatchesLastMonth(t *testing.T) {
	got := Answer("How much did I spend on food last month?", Input{}, now)
	assert.Equal(t, "You haven't recorded any food expenses for lastMonth.", got)
}

func TestFoodWithoutMatchesAllTime(t *testing.T) {
	got := Answer("What did I spend on groceries?", Input{}, now)
	assert.Equal(t, "You haven't recorded any food expenses yet.", got)
}

func TestFoodTotals(t *testing.T) {
	in := Input{
		Currency: "USD",
		Transactions: []models.Transaction{
			expense(1200, "Food", models.NewDate(2024, time.February, 10)),
			expense(30, "Dining Out", models.NewDate(2024, time.February, 11)),
			expense(500, "Housing", models.NewDate(2024, time.February, 12)),
			expense(70, "Food", models.NewDate(2024, time.March, 2)),
		},
	}
	assert.Equal(t, "You spent $1,230.00 on food in lastMonth.",
		Answer("How much did I spend on food last month?", in, now))
	assert.Equal(t, "You spent $70.00 on food in thisMonth.",
		Answer("food spend this month", in, now))
	assert.Equal(t, "You spent $1,300.00 on food in total.",
		Answer("How much do I spend on meals?", in, now))
}

func TestSavingsRate(t *testing.T) {
	in := Input{Transactions: []models.Transaction{
		income(1000, models.NewDate(2024, time.March, 1)),
		expense(300, "Food", models.NewDate(2024, time.March, 3)),
	}}
	assert.Equal(t, "Your savings rate in total is 70.0%.", Answer("What's my savings rate?", in, now))
	assert.Equal(t, "Your savings rate for thisMonth is 70.0%.", Answer("savings rate this month", in, now))
	assert.Equal(t, "I don't see any income recorded for lastMonth to calculate your savings rate.",
		Answer("savings rate last month", in, now))
	assert.Equal(t, "I don't see any income recorded to calculate your savings rate.",
		Answer("savings rate", Input{}, now))
}

func TestBudgetStatus(t *testing.T) {
	budgets := []models.Budget{
		{ID: "b1", Category: "Food", Amount: decimal.NewFromInt(200), Period: models.PeriodMonthly},
		{ID: "b2", Category: "Fun", Amount: decimal.NewFromInt(100), Period: models.PeriodMonthly},
	}

	assert.Equal(t, "You haven't set any budgets yet. Go to the Budgets section to create one.",
		Answer("Am I over budget?", Input{}, now))
	assert.Equal(t, "No transactions recorded for this month yet, so I can't determine if you're over budget.",
		Answer("Am I over budget?", Input{Budgets: budgets}, now))

	within := Input{Currency: "USD", Budgets: budgets, Transactions: []models.Transaction{
		expense(120, "Food", models.NewDate(2024, time.March, 4)),
		expense(5000, "Food", models.NewDate(2024, time.February, 4)),
	}}
	assert.Equal(t, "You're within budget. You still have $180.00 remaining this month.",
		Answer("budget?", within, now))

	over := Input{Currency: "EUR", Budgets: budgets, Transactions: []models.Transaction{
		expense(350, "Food", models.NewDate(2024, time.March, 4)),
	}}
	assert.Equal(t, "Yes, you're over budget this month by €50.00.", Answer("Am I over budget?", over, now))
}

func TestNextBill(t *testing.T) {
	amount := decimal.NewFromInt(1500)
	in := Input{Currency: "INR", Reminders: []models.Reminder{
		{ID: "paid", Title: "Water", DueDate: models.NewDate(2024, time.March, 16), IsPaid: true},
		{ID: "late", Title: "Insurance", DueDate: models.NewDate(2024, time.April, 2)},
		{ID: "past", Title: "Gas", DueDate: models.NewDate(2024, time.March, 1)},
		{ID: "next", Title: "Rent", DueDate: models.NewDate(2024, time.March, 20), Amount: &amount},
	}}
	assert.Equal(t, "Your next bill is Rent (₹1,500.00), due on March 20.", Answer("When is my next bill?", in, now))

	in.Reminders[3].Amount = nil
	assert.Equal(t, "Your next bill is Rent, due on March 20.", Answer("what's due?", in, now))

	assert.Equal(t, "You don't have any upcoming unpaid bills right now.", Answer("any bills?", Input{}, now))
}

func TestImprovement(t *testing.T) {
	assert.Equal(t, "I need at least one month of transaction history to give tailored suggestions.",
		Answer("How can I improve?", Input{}, now))

	onlyIncome := Input{Transactions: []models.Transaction{income(100, models.NewDate(2024, time.February, 1))}}
	assert.Equal(t, "Try categorizing your expenses so I can give you more actionable insights.",
		Answer("How can I improve?", onlyIncome, now))

	in := Input{Currency: "GBP", Transactions: []models.Transaction{
		expense(40, "Food", models.NewDate(2024, time.February, 3)),
		expense(90, "Transportation", models.NewDate(2024, time.February, 5)),
		expense(900, "Housing", models.NewDate(2024, time.March, 1)),
	}}
	assert.Equal(t, "Your top expense category last month was Transportation at £90.00. Consider setting a budget limit for this category to control your spending.",
		Answer("How can I do better?", in, now))
}

func TestFallback(t *testing.T) {
	assert.Equal(t, Fallback, Answer("hello there", Input{}, now))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatAmount(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "CHF 10.00", FormatAmount(decimal.NewFromInt(10), "CHF"))
	assert.Equal(t, "₹0.00", FormatAmount(decimal.Zero, ""))
	assert.Equal(t, "-$5.25", FormatAmount(decimal.RequireFromString("-5.25"), "USD"))
}
