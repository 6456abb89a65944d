// Package assistant answers free-text questions about a user's finances with
// a fixed set of keyword rules. The first rule that matches wins.
package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"moneymap/src/derive"
	"moneymap/src/models"

	"github.com/shopspring/decimal"
)

type Intent string

const (
	IntentFood     Intent = "food"
	IntentSavings  Intent = "savings"
	IntentBudget   Intent = "budget"
	IntentBill     Intent = "bill"
	IntentImprove  Intent = "improve"
	IntentFallback Intent = "fallback"
)

const Fallback = "I'm not sure how to answer that question. Try asking about your food spending, savings rate, budget, bills, or ways to improve."

var foodKeywords = []string{"food", "groceries", "grocery", "restaurant", "dining", "meal"}

// Input is the slice of state the assistant reads.
type Input struct {
	Transactions []models.Transaction
	Budgets      []models.Budget
	Reminders    []models.Reminder
	Currency     string
}

// Classify maps a question to the intent that would answer it.
func Classify(question string) Intent {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "spend") && containsAny(q, foodKeywords):
		return IntentFood
	case strings.Contains(q, "savings rate") || (strings.Contains(q, "save") && strings.Contains(q, "saving")):
		return IntentSavings
	case strings.Contains(q, "budget"):
		return IntentBudget
	case strings.Contains(q, "bill") || strings.Contains(q, "due"):
		return IntentBill
	case strings.Contains(q, "improve") || strings.Contains(q, "better"):
		return IntentImprove
	}
	return IntentFallback
}

// DetectTimeRange picks the range a question refers to, defaulting to all
// time.
func DetectTimeRange(question string) derive.TimeRange {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "last month"):
		return derive.LastMonth
	case strings.Contains(q, "this month"):
		return derive.ThisMonth
	}
	return derive.AllTime
}

// Answer resolves question against in as of now.
func Answer(question string, in Input, now time.Time) string {
	f := newFormatter(in.Currency)
	switch Classify(question) {
	case IntentFood:
		return foodSpending(DetectTimeRange(question), in, now, f)
	case IntentSavings:
		return savingsRate(DetectTimeRange(question), in, now)
	case IntentBudget:
		return budgetStatus(in, now, f)
	case IntentBill:
		return nextBill(in, now, f)
	case IntentImprove:
		return improvement(in, now, f)
	}
	return Fallback
}

func foodSpending(r derive.TimeRange, in Input, now time.Time, f formatter) string {
	var food []models.Transaction
	for _, t := range derive.FilterByRange(in.Transactions, r, now) {
		if t.IsExpense() && containsAny(strings.ToLower(t.Category), foodKeywords) {
			food = append(food, t)
		}
	}
	if len(food) == 0 {
		return fmt.Sprintf("You haven't recorded any food expenses %s.", rangePhrase(r, "yet", "for"))
	}
	return fmt.Sprintf("You spent %s on food %s.", f.format(derive.TotalExpenses(food)), rangePhrase(r, "in total", "in"))
}

func savingsRate(r derive.TimeRange, in Input, now time.Time) string {
	txs := derive.FilterByRange(in.Transactions, r, now)
	if !derive.TotalIncome(txs).IsPositive() {
		if r == derive.AllTime {
			return "I don't see any income recorded to calculate your savings rate."
		}
		return fmt.Sprintf("I don't see any income recorded for %s to calculate your savings rate.", r)
	}
	return fmt.Sprintf("Your savings rate %s is %.1f%%.", rangePhrase(r, "in total", "for"), derive.SavingsRate(txs))
}

func budgetStatus(in Input, now time.Time, f formatter) string {
	if len(in.Budgets) == 0 {
		return "You haven't set any budgets yet. Go to the Budgets section to create one."
	}
	current := derive.FilterByRange(in.Transactions, derive.ThisMonth, now)
	if len(current) == 0 {
		return "No transactions recorded for this month yet, so I can't determine if you're over budget."
	}

	spent := derive.TotalExpenses(current)
	limit := decimal.Zero
	for _, b := range in.Budgets {
		limit = limit.Add(b.Amount)
	}
	if spent.GreaterThan(limit) {
		return fmt.Sprintf("Yes, you're over budget this month by %s.", f.format(spent.Sub(limit)))
	}
	return fmt.Sprintf("You're within budget. You still have %s remaining this month.", f.format(limit.Sub(spent)))
}

func nextBill(in Input, now time.Time, f formatter) string {
	var upcoming []models.Reminder
	for _, r := range in.Reminders {
		if !r.IsPaid && r.DueDate.After(now) {
			upcoming = append(upcoming, r)
		}
	}
	if len(upcoming) == 0 {
		return "You don't have any upcoming unpaid bills right now."
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].DueDate.Before(upcoming[j].DueDate.Time) })

	next := upcoming[0]
	amount := ""
	if next.Amount != nil && !next.Amount.IsZero() {
		amount = fmt.Sprintf(" (%s)", f.format(*next.Amount))
	}
	return fmt.Sprintf("Your next bill is %s%s, due on %s.", next.Title, amount, next.DueDate.Format("January 2"))
}

func improvement(in Input, now time.Time, f formatter) string {
	recent := derive.FilterByRange(in.Transactions, derive.LastMonth, now)
	if len(recent) == 0 {
		return "I need at least one month of transaction history to give tailored suggestions."
	}

	totals := derive.CategoryTotals(recent)
	if len(totals) == 0 {
		return "Try categorizing your expenses so I can give you more actionable insights."
	}
	categories := make([]string, 0, len(totals))
	for c := range totals {
		categories = append(categories, c)
	}
	// Ties resolve alphabetically so the answer is stable.
	sort.Slice(categories, func(i, j int) bool {
		if c := totals[categories[i]].Cmp(totals[categories[j]]); c != 0 {
			return c > 0
		}
		return categories[i] < categories[j]
	})
	top := categories[0]
	return fmt.Sprintf("Your top expense category last month was %s at %s. Consider setting a budget limit for this category to control your spending.",
		top, f.format(totals[top]))
}

func rangePhrase(r derive.TimeRange, all, prefix string) string {
	if r == derive.AllTime {
		return all
	}
	return prefix + " " + string(r)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
