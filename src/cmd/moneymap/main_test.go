package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"moneymap/src/api"
	"moneymap/src/auth"
	"moneymap/src/db/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "Str0ng!pass"

type cli struct {
	t      *testing.T
	apiURL string
	dbPath string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	srv := httptest.NewServer(api.NewRouter(memory.New(), tokens, api.Options{}, zerolog.Nop()))
	t.Cleanup(srv.Close)

	fixed := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	return &cli{t: t, apiURL: srv.URL, dbPath: filepath.Join(t.TempDir(), "moneymap.db")}
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"-api", c.apiURL, "-db", c.dbPath}, args...)
	err := run(full, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run("", args...)
	require.NoError(c.t, err, out)
	return out
}

func (c *cli) signIn() {
	c.t.Helper()
	c.mustRun("register", "-email", "ana@example.com", "-password", password)
	out, err := c.run(password+"\n", "login", "-email", "ana@example.com")
	require.NoError(c.t, err)
	require.Contains(c.t, out, "Logged in as ana@example.com")
}

func TestMissingCommand(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("")
	assert.EqualError(t, err, "missing command")

	_, err = c.run("", "frobnicate")
	assert.EqualError(t, err, `unknown command "frobnicate"`)
}

func TestCommandsRequireLogin(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "summary")
	assert.EqualError(t, err, "not logged in, run: moneymap login")
}

func TestLoginWithWrongPassword(t *testing.T) {
	c := newCLI(t)
	c.mustRun("register", "-email", "ana@example.com", "-password", password)
	_, err := c.run("", "login", "-email", "ana@example.com", "-password", "Wr0ng!pass")
	assert.Error(t, err)
}

func TestSummaryAndAssistant(t *testing.T) {
	c := newCLI(t)
	c.signIn()

	c.mustRun("add", "-type", "income", "-amount", "1000", "-category", "Income", "-desc", "Salary", "-date", "2024-03-01")
	out := c.mustRun("add", "-amount", "300", "-category", "Food", "-desc", "Groceries", "-date", "2024-03-05")
	assert.Contains(t, out, "Added expense $300.00 (Groceries) on 2024-03-05")

	out = c.mustRun("summary")
	assert.Contains(t, out, "$1,000.00")
	assert.Contains(t, out, "$700.00")
	assert.Contains(t, out, "70.0%")

	out = c.mustRun("ask", "What", "is", "my", "savings", "rate?")
	assert.Equal(t, "Your savings rate in total is 70.0%.\n", out)

	out = c.mustRun("summary", "-range", "lastMonth")
	assert.Contains(t, out, "$0.00")
}

func TestRecurringTransactionsOnlyExpandInCalendar(t *testing.T) {
	c := newCLI(t)
	c.signIn()
	c.mustRun("add", "-type", "income", "-amount", "1000", "-category", "Income", "-desc", "Salary",
		"-date", "2024-03-01", "-recurrence", "monthly")
	c.mustRun("add", "-amount", "800", "-category", "Housing", "-desc", "Rent", "-date", "2024-03-02")

	out := c.mustRun("summary")
	assert.Contains(t, out, "$200.00")
	assert.Contains(t, out, "20.0%")

	out = c.mustRun("calendar", "-month", "2024-04")
	assert.Contains(t, out, "2024-04-01\n  +$1,000.00 Salary (Monthly)")
}

func TestCalendarAndExport(t *testing.T) {
	c := newCLI(t)
	c.signIn()
	c.mustRun("add", "-amount", "12.5", "-category", "Food", "-desc", "Lunch", "-date", "2024-03-05")

	out := c.mustRun("calendar")
	assert.Contains(t, out, "2024-03-05\n  -$12.50 Lunch")

	out = c.mustRun("calendar", "-month", "2024-01")
	assert.Contains(t, out, "Nothing recorded for January 2024")

	out = c.mustRun("export", "-format", "csv")
	assert.True(t, strings.HasPrefix(out, "id,amount,description"))
	assert.Contains(t, out, `"12.5","Lunch","Food","2024-03-05","expense"`)

	path := filepath.Join(t.TempDir(), "export.json")
	c.mustRun("export", "-o", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"description": "Lunch"`)
}

func TestSettingsAndImport(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("settings", "-currency", "inr", "-start-day", "5")
	assert.Contains(t, out, "INR")

	_, err := c.run("", "settings", "-start-day", "40")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"settings": {"currency": "EUR"}}`), 0o600))
	assert.Contains(t, c.mustRun("import", path), "Data imported successfully")
	assert.Contains(t, c.mustRun("settings"), "EUR")

	require.NoError(t, os.WriteFile(path, []byte(`{"unknown": true}`), 0o600))
	_, err = c.run("", "import", path)
	assert.Error(t, err)
}

func TestResetAll(t *testing.T) {
	c := newCLI(t)
	c.signIn()
	c.mustRun("add", "-amount", "20", "-category", "Food", "-desc", "Snacks", "-date", "2024-03-02")

	assert.Contains(t, c.mustRun("reset", "-all"), "All user data deleted")
	assert.Contains(t, c.mustRun("calendar"), "Nothing recorded for March 2024")

	c.mustRun("logout")
	_, err := c.run("", "summary")
	assert.Error(t, err)
}
