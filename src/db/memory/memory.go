// Package memory is an in-process implementation of the API's storage,
// used when STORAGE_DRIVER=memory and throughout the tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"moneymap/src/models"

	"github.com/google/uuid"
)

type entry[T any] struct {
	seq    int64
	record T
}

// Store keeps every record in maps guarded by one mutex. Records are copied
// on the way in and out so callers never share memory with the store.
type Store struct {
	mu  sync.RWMutex
	seq int64

	users        map[string]models.User
	emails       map[string]string
	transactions map[string]entry[models.Transaction]
	budgets      map[string]entry[models.Budget]
	reminders    map[string]entry[models.Reminder]
}

func New() *Store {
	return &Store{
		users:        make(map[string]models.User),
		emails:       make(map[string]string),
		transactions: make(map[string]entry[models.Transaction]),
		budgets:      make(map[string]entry[models.Budget]),
		reminders:    make(map[string]entry[models.Reminder]),
	}
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, models.ErrNotFound)
}

func (s *Store) CreateUser(_ context.Context, email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[email]; taken {
		return nil, fmt.Errorf("create user: %w", models.ErrConflict)
	}
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.emails[email] = u.ID
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, notFound("get user")
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	return &u, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return notFound("update password")
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return notFound("delete user")
	}
	s.deleteOwned(id)
	delete(s.emails, u.Email)
	delete(s.users, id)
	return nil
}

func (s *Store) DeleteAllUserData(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteOwned(userID)
	return nil
}

func (s *Store) deleteOwned(userID string) {
	for id, e := range s.transactions {
		if e.record.UserID == userID {
			delete(s.transactions, id)
		}
	}
	for id, e := range s.budgets {
		if e.record.UserID == userID {
			delete(s.budgets, id)
		}
	}
	for id, e := range s.reminders {
		if e.record.UserID == userID {
			delete(s.reminders, id)
		}
	}
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := ownedBy(s.transactions, userID, func(t models.Transaction) string { return t.UserID })
	sort.SliceStable(owned, func(i, j int) bool {
		a, b := owned[i].record, owned[j].record
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		return owned[i].seq > owned[j].seq
	})
	return records(owned, cloneTransaction), nil
}

func (s *Store) CreateTransaction(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneTransaction(*t)
	stored.ID = uuid.NewString()
	s.transactions[stored.ID] = entry[models.Transaction]{seq: s.next(), record: stored}
	out := cloneTransaction(stored)
	return &out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.transactions[t.ID]
	if !ok || e.record.UserID != t.UserID {
		return nil, notFound("update transaction")
	}
	e.record = cloneTransaction(*t)
	s.transactions[t.ID] = e
	out := cloneTransaction(e.record)
	return &out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.transactions[id]
	if !ok || e.record.UserID != userID {
		return notFound("delete transaction")
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListBudgets(_ context.Context, userID string) ([]models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := ownedBy(s.budgets, userID, func(b models.Budget) string { return b.UserID })
	sort.SliceStable(owned, func(i, j int) bool { return owned[i].seq > owned[j].seq })
	return records(owned, func(b models.Budget) models.Budget { return b }), nil
}

func (s *Store) CreateBudget(_ context.Context, b *models.Budget) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *b
	stored.ID = uuid.NewString()
	s.budgets[stored.ID] = entry[models.Budget]{seq: s.next(), record: stored}
	return &stored, nil
}

func (s *Store) UpdateBudget(_ context.Context, b *models.Budget) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.budgets[b.ID]
	if !ok || e.record.UserID != b.UserID {
		return nil, notFound("update budget")
	}
	e.record = *b
	s.budgets[b.ID] = e
	out := e.record
	return &out, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.budgets[id]
	if !ok || e.record.UserID != userID {
		return notFound("delete budget")
	}
	delete(s.budgets, id)
	return nil
}

func (s *Store) ListReminders(_ context.Context, userID string) ([]models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := ownedBy(s.reminders, userID, func(r models.Reminder) string { return r.UserID })
	sort.SliceStable(owned, func(i, j int) bool {
		a, b := owned[i].record, owned[j].record
		if !a.DueDate.Equal(b.DueDate.Time) {
			return a.DueDate.Before(b.DueDate.Time)
		}
		return owned[i].seq < owned[j].seq
	})
	return records(owned, cloneReminder), nil
}

func (s *Store) CreateReminder(_ context.Context, r *models.Reminder) (*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneReminder(*r)
	stored.ID = uuid.NewString()
	s.reminders[stored.ID] = entry[models.Reminder]{seq: s.next(), record: stored}
	out := cloneReminder(stored)
	return &out, nil
}

func (s *Store) UpdateReminder(_ context.Context, r *models.Reminder) (*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.reminders[r.ID]
	if !ok || e.record.UserID != r.UserID {
		return nil, notFound("update reminder")
	}
	e.record = cloneReminder(*r)
	s.reminders[r.ID] = e
	out := cloneReminder(e.record)
	return &out, nil
}

func (s *Store) DeleteReminder(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.reminders[id]
	if !ok || e.record.UserID != userID {
		return notFound("delete reminder")
	}
	delete(s.reminders, id)
	return nil
}

func ownedBy[T any](m map[string]entry[T], userID string, owner func(T) string) []entry[T] {
	var out []entry[T]
	for _, e := range m {
		if owner(e.record) == userID {
			out = append(out, e)
		}
	}
	return out
}

func records[T any](entries []entry[T], clone func(T) T) []T {
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		out = append(out, clone(e.record))
	}
	return out
}

func cloneTransaction(t models.Transaction) models.Transaction {
	t.Tags = slices.Clone(t.Tags)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.RecurrenceEndDate != nil {
		d := *t.RecurrenceEndDate
		t.RecurrenceEndDate = &d
	}
	return t
}

func cloneReminder(r models.Reminder) models.Reminder {
	if r.Amount != nil {
		a := *r.Amount
		r.Amount = &a
	}
	return r
}
