// Command moneymap is a terminal client for the MoneyMap API. It keeps the
// session token and the last known state in a local SQLite file.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"moneymap/src/client"
	"moneymap/src/finance"
	"moneymap/src/logger"
	"moneymap/src/models"

	"golang.org/x/term"
)

// now is swapped by tests.
var now = time.Now

const usage = `Usage: moneymap [-api URL] [-db path] <command> [flags]

Commands:
  register   create an account
  login      sign in and remember the session
  logout     forget the session
  summary    income, expenses, balance and savings rate
  add        record a transaction
  budgets    budget progress for the current period
  upcoming   unpaid bills due soon
  calendar   transactions and bills of a month
  ask        ask the assistant a question
  settings   show or change local settings
  export     write all data as json or transactions as csv
  import     replace local data from a json export
  reset      clear local data (-all also deletes server data)`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	apiURL string
	mirror *finance.SQLiteMirror
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("moneymap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}

	apiURL := fs.String("api", envOr("MONEYMAP_API", "http://localhost:8080"), "API base URL")
	dbPath := fs.String("db", envOr("MONEYMAP_DB", "moneymap.db"), "Path to local data file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	ctx := context.Background()
	mirror, err := finance.OpenMirror(ctx, *dbPath)
	if err != nil {
		return fmt.Errorf("failed to open local data: %w", err)
	}
	defer mirror.Close()

	a := &app{apiURL: *apiURL, mirror: mirror, stdin: stdin, stdout: stdout, stderr: stderr}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "summary":
		return a.summary(ctx, rest)
	case "add":
		return a.add(ctx, rest)
	case "budgets":
		return a.budgets(ctx)
	case "upcoming":
		return a.upcoming(ctx, rest)
	case "calendar":
		return a.calendar(ctx, rest)
	case "ask":
		return a.ask(ctx, rest)
	case "settings":
		return a.settings(ctx, rest)
	case "export":
		return a.export(ctx, rest)
	case "import":
		return a.importData(ctx, rest)
	case "reset":
		return a.reset(ctx, rest)
	}
	fs.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

// subcommand returns a flag set for one command, reporting to stderr.
func (a *app) subcommand(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("moneymap "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) client(ctx context.Context) (*client.Client, error) {
	token, err := a.mirror.Get(ctx, finance.TokenKey)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errors.New("not logged in, run: moneymap login")
	}
	if err != nil {
		return nil, err
	}
	return client.New(a.apiURL, client.WithToken(token)), nil
}

// store builds a finance store seeded from the local file and refreshed from
// the API.
func (a *app) store(ctx context.Context) (*finance.Store, error) {
	c, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	state, err := a.mirror.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read local data: %w", err)
	}
	s := finance.NewStore(c,
		finance.WithState(state),
		finance.WithMirror(a.mirror),
		finance.WithLogger(logger.NewWithWriter(a.stderr).Level(logger.ParseLevel(os.Getenv("LOG_LEVEL")))),
		finance.WithClock(now),
	)
	if err := s.FetchData(ctx); err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			return nil, errors.New("session expired, run: moneymap login")
		}
		return nil, err
	}
	return s, nil
}

func (a *app) credentials(args []string, name string) (string, string, error) {
	fs := a.subcommand(name)
	email := fs.String("email", "", "Account email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if *email == "" {
		fs.PrintDefaults()
		return "", "", errors.New("missing required flags: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(a.stdout, "Password: ")
		var err error
		password, err = readPassword(a.stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(a.stdout)
	}
	if strings.TrimSpace(password) == "" {
		return "", "", errors.New("password cannot be empty")
	}
	return *email, password, nil
}

func (a *app) register(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args, "register")
	if err != nil {
		return err
	}
	if err := client.New(a.apiURL).Register(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Registered %s, now run: moneymap login -email %s\n", email, email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args, "login")
	if err != nil {
		return err
	}
	token, err := client.New(a.apiURL).Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.mirror.Put(ctx, finance.TokenKey, token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	fmt.Fprintf(a.stdout, "Logged in as %s\n", email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.mirror.Delete(ctx, finance.TokenKey); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
