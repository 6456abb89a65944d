package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"moneymap/src/assistant"
	"moneymap/src/derive"
	"moneymap/src/finance"
	"moneymap/src/models"

	"github.com/shopspring/decimal"
)

func (a *app) summary(ctx context.Context, args []string) error {
	fs := a.subcommand("summary")
	rangeFlag := fs.String("range", string(derive.AllTime), "thisMonth, lastMonth or all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	r := derive.TimeRange(*rangeFlag)
	if r != derive.ThisMonth && r != derive.LastMonth && r != derive.AllTime {
		return fmt.Errorf("unknown range %q", *rangeFlag)
	}

	s, err := a.store(ctx)
	if err != nil {
		return err
	}
	st := s.Snapshot()
	txs := derive.FilterByRange(st.Transactions, r, now())
	sum := derive.Summarize(txs)
	code := st.Settings.Currency

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Income\t%s\n", assistant.FormatAmount(sum.Income, code))
	fmt.Fprintf(w, "Expenses\t%s\n", assistant.FormatAmount(sum.Expenses, code))
	fmt.Fprintf(w, "Balance\t%s\n", assistant.FormatAmount(sum.Balance, code))
	fmt.Fprintf(w, "Savings rate\t%.1f%%\n", sum.SavingsRate)

	totals := derive.CategoryTotals(txs)
	if len(totals) > 0 {
		fmt.Fprintln(w)
		cats := make([]string, 0, len(totals))
		for c := range totals {
			cats = append(cats, c)
		}
		sort.Slice(cats, func(i, j int) bool {
			if cmp := totals[cats[i]].Cmp(totals[cats[j]]); cmp != 0 {
				return cmp > 0
			}
			return cats[i] < cats[j]
		})
		for _, c := range cats {
			fmt.Fprintf(w, "%s\t%s\n", c, assistant.FormatAmount(totals[c], code))
		}
	}
	return w.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.subcommand("add")
	typ := fs.String("type", string(models.TransactionExpense), "income or expense")
	amount := fs.String("amount", "", "Amount")
	category := fs.String("category", "Other", "Category")
	desc := fs.String("desc", "", "Description")
	date := fs.String("date", "", "Date as YYYY-MM-DD (default today)")
	recurrence := fs.String("recurrence", string(models.RecurrenceNone), "none, daily, weekly, monthly or yearly")
	tags := fs.String("tags", "", "Comma separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}

	value, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q", *amount)
	}
	t := models.Transaction{
		Amount:      value,
		Description: *desc,
		Category:    *category,
		Type:        models.TransactionType(*typ),
		Recurrence:  models.Recurrence(*recurrence),
	}
	if *date != "" {
		if t.Date, err = models.ParseDate(*date); err != nil {
			return err
		}
	}
	for _, tag := range strings.Split(*tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			t.Tags = append(t.Tags, tag)
		}
	}

	s, err := a.store(ctx)
	if err != nil {
		return err
	}
	created, err := s.AddTransaction(ctx, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added %s %s (%s) on %s\n",
		created.Type, assistant.FormatAmount(created.Amount, s.Settings().Currency), created.Description, created.Date)
	return nil
}

func (a *app) budgets(ctx context.Context) error {
	s, err := a.store(ctx)
	if err != nil {
		return err
	}
	st := s.Snapshot()
	if len(st.Budgets) == 0 {
		fmt.Fprintln(a.stdout, "No budgets yet")
		return nil
	}
	code := st.Settings.Currency
	progress := derive.BudgetProgress(st.Budgets, st.Transactions, now(), st.Settings.StartDayOfMonth)

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPERIOD\tSPENT\tLIMIT\tUSED\t")
	for _, p := range progress {
		note := ""
		if p.OverBudget {
			note = "over budget"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f%%\t%s\n",
			p.Budget.Category, p.Budget.Period,
			assistant.FormatAmount(p.Spent, code), assistant.FormatAmount(p.Budget.Amount, code),
			p.Utilization, note)
	}
	return w.Flush()
}

func (a *app) upcoming(ctx context.Context, args []string) error {
	fs := a.subcommand("upcoming")
	days := fs.Int("days", 30, "Look ahead this many days")
	limit := fs.Int("limit", 0, "Show at most this many bills (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := a.store(ctx)
	if err != nil {
		return err
	}
	st := s.Snapshot()
	bills := derive.UpcomingBills(st.Reminders, now(), *days, *limit)
	if len(bills) == 0 {
		fmt.Fprintln(a.stdout, "No upcoming bills")
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	for _, b := range bills {
		amount := "-"
		if b.Amount != nil {
			amount = assistant.FormatAmount(*b.Amount, st.Settings.Currency)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.DueDate, b.Title, amount, derive.BillUrgency(b, now()))
	}
	return w.Flush()
}

func (a *app) calendar(ctx context.Context, args []string) error {
	fs := a.subcommand("calendar")
	month := fs.String("month", now().Format("2006-01"), "Month as YYYY-MM")
	if err := fs.Parse(args); err != nil {
		return err
	}
	first, err := time.Parse("2006-01", *month)
	if err != nil {
		return fmt.Errorf("invalid month %q", *month)
	}

	s, err := a.store(ctx)
	if err != nil {
		return err
	}
	st := s.Snapshot()
	code := st.Settings.Currency

	days := make(map[string][]string)
	txs := derive.TransactionsForMonth(derive.ExpandRecurring(st.Transactions, now()), first.Year(), first.Month())
	for _, t := range txs {
		sign := "-"
		if t.IsIncome() {
			sign = "+"
		}
		line := fmt.Sprintf("%s%s %s", sign, assistant.FormatAmount(t.Amount, code), t.Description)
		if t.Recurrence.Recurring() {
			line += " (" + t.Recurrence.Label() + ")"
		}
		key := t.Date.String()
		days[key] = append(days[key], line)
	}
	for _, r := range st.Reminders {
		if r.DueDate.Year() != first.Year() || r.DueDate.Month() != first.Month() {
			continue
		}
		status := "due"
		if r.IsPaid {
			status = "paid"
		}
		key := r.DueDate.String()
		days[key] = append(days[key], fmt.Sprintf("bill %s (%s)", r.Title, status))
	}
	if len(days) == 0 {
		fmt.Fprintf(a.stdout, "Nothing recorded for %s\n", first.Format("January 2006"))
		return nil
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintln(a.stdout, k)
		for _, line := range days[k] {
			fmt.Fprintf(a.stdout, "  %s\n", line)
		}
	}
	return nil
}

func (a *app) ask(ctx context.Context, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("usage: moneymap ask <question>")
	}
	s, err := a.store(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, s.Ask(question).Text)
	return nil
}

func (a *app) settings(ctx context.Context, args []string) error {
	fs := a.subcommand("settings")
	currency := fs.String("currency", "", "ISO 4217 currency code")
	startDay := fs.Int("start-day", 0, "Day of month budgets reset on")
	theme := fs.String("theme", "", "light, dark or system")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var patch models.SettingsPatch
	if *currency != "" {
		patch.Currency = currency
	}
	if *startDay != 0 {
		patch.StartDayOfMonth = startDay
	}
	if *theme != "" {
		th := models.Theme(*theme)
		patch.Theme = &th
	}

	state, err := a.mirror.Load(ctx)
	if err != nil {
		return err
	}
	// Settings are local only, so no session is needed.
	s := finance.NewStore(nil, finance.WithState(state), finance.WithMirror(a.mirror))
	settings, err := s.UpdateSettings(patch)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "currency\t%s\n", settings.Currency)
	fmt.Fprintf(w, "start-day\t%d\n", settings.StartDayOfMonth)
	fmt.Fprintf(w, "theme\t%s\n", settings.Theme)
	fmt.Fprintf(w, "categories\t%s\n", strings.Join(settings.Categories, ", "))
	return w.Flush()
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.subcommand("export")
	format := fs.String("format", "json", "json or csv")
	out := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "json" && *format != "csv" {
		return fmt.Errorf("unknown format %q", *format)
	}

	s, err := a.store(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = a.stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if *format == "csv" {
		return finance.WriteTransactionsCSV(w, s.Snapshot().Transactions)
	}
	data, err := s.ExportData()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (a *app) importData(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: moneymap import <file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	state, err := a.mirror.Load(ctx)
	if err != nil {
		return err
	}
	s := finance.NewStore(nil, finance.WithState(state), finance.WithMirror(a.mirror))
	if err := s.ImportData(data); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Data imported successfully")
	return nil
}

func (a *app) reset(ctx context.Context, args []string) error {
	fs := a.subcommand("reset")
	all := fs.Bool("all", false, "Also delete every record on the server")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*all {
		s := finance.NewStore(nil, finance.WithMirror(a.mirror))
		s.ResetApp()
		fmt.Fprintln(a.stdout, "Local data cleared")
		return nil
	}

	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	s := finance.NewStore(c, finance.WithMirror(a.mirror))
	if err := s.ResetAllUserData(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "All user data deleted")
	return nil
}
