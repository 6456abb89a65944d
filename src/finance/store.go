// Package finance holds one signed-in user's view of their finances: the
// records synchronised with the API plus local settings and chat history.
// Every mutation goes through the Gateway first and is folded into state
// only once the server has accepted it.
package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"moneymap/src/assistant"
	"moneymap/src/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Gateway is the remote side of the store. *client.Client satisfies it.
type Gateway interface {
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	ListBudgets(ctx context.Context) ([]models.Budget, error)
	CreateBudget(ctx context.Context, b models.Budget) (models.Budget, error)
	UpdateBudget(ctx context.Context, b models.Budget) (models.Budget, error)
	DeleteBudget(ctx context.Context, id string) error

	ListReminders(ctx context.Context) ([]models.Reminder, error)
	CreateReminder(ctx context.Context, r models.Reminder) (models.Reminder, error)
	UpdateReminder(ctx context.Context, r models.Reminder) (models.Reminder, error)
	DeleteReminder(ctx context.Context, id string) error

	ResetAll(ctx context.Context) error
}

// Mirror receives a JSON snapshot of the state after every change.
type Mirror interface {
	Save(ctx context.Context, snapshot []byte) error
}

type State struct {
	Transactions []models.Transaction `json:"transactions"`
	Budgets      []models.Budget      `json:"budgets"`
	Reminders    []models.Reminder    `json:"reminders"`
	Settings     models.Settings      `json:"settings"`
	ChatHistory  []models.ChatMessage `json:"chatHistory"`
}

// NewState is the state of a fresh install.
func NewState() State {
	return State{
		Transactions: []models.Transaction{},
		Budgets:      []models.Budget{},
		Reminders:    []models.Reminder{},
		Settings:     models.DefaultSettings(),
		ChatHistory:  []models.ChatMessage{},
	}
}

func (s State) clone() State {
	out := State{
		Transactions: make([]models.Transaction, len(s.Transactions)),
		Budgets:      slices.Clone(s.Budgets),
		Reminders:    make([]models.Reminder, len(s.Reminders)),
		Settings:     s.Settings,
		ChatHistory:  slices.Clone(s.ChatHistory),
	}
	if out.Budgets == nil {
		out.Budgets = []models.Budget{}
	}
	if out.ChatHistory == nil {
		out.ChatHistory = []models.ChatMessage{}
	}
	out.Settings.Categories = slices.Clone(s.Settings.Categories)
	for i, t := range s.Transactions {
		t.Tags = slices.Clone(t.Tags)
		if t.RecurrenceEndDate != nil {
			end := *t.RecurrenceEndDate
			t.RecurrenceEndDate = &end
		}
		out.Transactions[i] = t
	}
	for i, r := range s.Reminders {
		if r.Amount != nil {
			amount := *r.Amount
			r.Amount = &amount
		}
		out.Reminders[i] = r
	}
	return out
}

type Store struct {
	gateway Gateway
	mirror  Mirror
	log     zerolog.Logger
	now     func() time.Time

	mu    sync.Mutex
	state State
}

type Option func(*Store)

func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithState seeds the store, e.g. from a mirror snapshot.
func WithState(st State) Option {
	return func(s *Store) { s.state = st.clone() }
}

func NewStore(gateway Gateway, opts ...Option) *Store {
	s := &Store{
		gateway: gateway,
		log:     zerolog.Nop(),
		now:     time.Now,
		state:   NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) Settings() models.Settings {
	return s.Snapshot().Settings
}

// FetchData loads all three collections from the gateway. State changes only
// when every request succeeds.
func (s *Store) FetchData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		txs       []models.Transaction
		budgets   []models.Budget
		reminders []models.Reminder
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.gateway.ListTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.gateway.ListBudgets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reminders, err = s.gateway.ListReminders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Msg("Failed to fetch data")
		return fmt.Errorf("fetch data: %w", err)
	}

	s.state.Transactions = nonNil(txs)
	s.state.Budgets = nonNil(budgets)
	s.state.Reminders = nonNil(reminders)
	s.log.Debug().
		Int("transactions", len(txs)).
		Int("budgets", len(budgets)).
		Int("reminders", len(reminders)).
		Msg("Fetched data")
	s.persist(ctx)
	return nil
}

func (s *Store) AddTransaction(ctx context.Context, draft models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft.ID = ""
	draft.Normalize(models.DateOf(s.now()))
	if err := draft.Validate(); err != nil {
		return models.Transaction{}, err
	}
	created, err := s.gateway.CreateTransaction(ctx, draft)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to add transaction")
		return models.Transaction{}, err
	}
	s.state.Transactions = append(s.state.Transactions, created)
	s.persist(ctx)
	return created, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.Normalize(models.DateOf(s.now()))
	if err := t.Validate(); err != nil {
		return models.Transaction{}, err
	}
	updated, err := s.gateway.UpdateTransaction(ctx, t)
	if err != nil {
		s.log.Error().Err(err).Str("transaction_id", t.ID).Msg("Failed to update transaction")
		return models.Transaction{}, err
	}
	s.state.Transactions = replaceByID(s.state.Transactions, updated, func(x models.Transaction) string { return x.ID })
	s.persist(ctx)
	return updated, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.DeleteTransaction(ctx, id); err != nil {
		s.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		return err
	}
	s.state.Transactions = slices.DeleteFunc(s.state.Transactions, func(x models.Transaction) bool { return x.ID == id })
	s.persist(ctx)
	return nil
}

func (s *Store) AddBudget(ctx context.Context, draft models.Budget) (models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft.ID = ""
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return models.Budget{}, err
	}
	created, err := s.gateway.CreateBudget(ctx, draft)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to add budget")
		return models.Budget{}, err
	}
	s.state.Budgets = append(s.state.Budgets, created)
	s.persist(ctx)
	return created, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b models.Budget) (models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.Normalize()
	if err := b.Validate(); err != nil {
		return models.Budget{}, err
	}
	updated, err := s.gateway.UpdateBudget(ctx, b)
	if err != nil {
		s.log.Error().Err(err).Str("budget_id", b.ID).Msg("Failed to update budget")
		return models.Budget{}, err
	}
	s.state.Budgets = replaceByID(s.state.Budgets, updated, func(x models.Budget) string { return x.ID })
	s.persist(ctx)
	return updated, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.DeleteBudget(ctx, id); err != nil {
		s.log.Error().Err(err).Str("budget_id", id).Msg("Failed to delete budget")
		return err
	}
	s.state.Budgets = slices.DeleteFunc(s.state.Budgets, func(x models.Budget) bool { return x.ID == id })
	s.persist(ctx)
	return nil
}

func (s *Store) AddReminder(ctx context.Context, draft models.Reminder) (models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft.ID = ""
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return models.Reminder{}, err
	}
	created, err := s.gateway.CreateReminder(ctx, draft)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to add reminder")
		return models.Reminder{}, err
	}
	s.state.Reminders = append(s.state.Reminders, created)
	s.persist(ctx)
	return created, nil
}

func (s *Store) UpdateReminder(ctx context.Context, r models.Reminder) (models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.Normalize()
	if err := r.Validate(); err != nil {
		return models.Reminder{}, err
	}
	updated, err := s.gateway.UpdateReminder(ctx, r)
	if err != nil {
		s.log.Error().Err(err).Str("reminder_id", r.ID).Msg("Failed to update reminder")
		return models.Reminder{}, err
	}
	s.state.Reminders = replaceByID(s.state.Reminders, updated, func(x models.Reminder) string { return x.ID })
	s.persist(ctx)
	return updated, nil
}

func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.DeleteReminder(ctx, id); err != nil {
		s.log.Error().Err(err).Str("reminder_id", id).Msg("Failed to delete reminder")
		return err
	}
	s.state.Reminders = slices.DeleteFunc(s.state.Reminders, func(x models.Reminder) bool { return x.ID == id })
	s.persist(ctx)
	return nil
}

// UpdateSettings merges p into the current settings. Settings never leave the
// client.
func (s *Store) UpdateSettings(p models.SettingsPatch) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.state.Settings.Apply(p)
	if err := merged.Validate(); err != nil {
		return s.state.Settings, err
	}
	s.state.Settings = merged
	s.persist(context.Background())
	return merged, nil
}

// ExportData renders the whole state as indented JSON.
func (s *Store) ExportData() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.state, "", "  ")
}

// ImportData replaces the top-level fields present in data. Nothing is
// changed unless the whole snapshot is valid.
func (s *Store) ImportData(data []byte) error {
	snap, err := decodeSnapshot(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snap.applyTo(&s.state)
	s.log.Info().Strs("fields", snap.fields()).Msg("Imported data")
	s.persist(context.Background())
	return nil
}

// ResetApp drops local state back to a fresh install. Server data is kept.
func (s *Store) ResetApp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NewState()
	s.persist(context.Background())
}

// ResetAllUserData deletes every server-side record, then resets local state
// whatever the outcome. The gateway error, if any, is returned.
func (s *Store) ResetAllUserData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.gateway.ResetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to reset user data")
	}
	s.state = NewState()
	s.persist(ctx)
	return err
}

// Ask records question and the assistant's answer in the chat history and
// returns the answer.
func (s *Store) Ask(question string) models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	in := assistant.Input{
		Transactions: s.state.Transactions,
		Budgets:      s.state.Budgets,
		Reminders:    s.state.Reminders,
		Currency:     s.state.Settings.Currency,
	}
	answer := models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      assistant.Answer(question, in, now),
		Sender:    models.SenderAI,
		Timestamp: now,
	}
	s.state.ChatHistory = append(s.state.ChatHistory,
		models.ChatMessage{ID: uuid.NewString(), Text: question, Sender: models.SenderUser, Timestamp: now},
		answer,
	)
	s.persist(context.Background())
	return answer
}

func (s *Store) ClearChatHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ChatHistory = []models.ChatMessage{}
	s.persist(context.Background())
}

// persist writes the current state to the mirror. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	data, err := json.Marshal(s.state)
	if err == nil {
		err = s.mirror.Save(ctx, data)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to mirror state")
	}
}

func replaceByID[T any](items []T, updated T, id func(T) string) []T {
	want := id(updated)
	for i := range items {
		if id(items[i]) == want {
			items[i] = updated
			return items
		}
	}
	return append(items, updated)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// IsNotFound reports whether err means the record no longer exists on the
// server.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
