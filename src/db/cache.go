package db

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

// Kind names a cached collection.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindBudgets      Kind = "budgets"
	KindReminders    Kind = "reminders"
)

var kinds = []Kind{KindTransactions, KindBudgets, KindReminders}

// Cache holds per-user collection lists. Keys are tracked per kind so a
// whole kind can be dropped at once. A nil *Cache is a valid, disabled cache.
type Cache struct {
	store *ristretto.Cache[string, any]

	mu   sync.RWMutex
	keys map[Kind]map[string]struct{}
}

func NewCache() (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters:        10000, // number of keys to track frequency of
		MaxCost:            10000,
		BufferItems:        64, // number of keys per Get buffer
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize cache: %w", err)
	}
	keys := make(map[Kind]map[string]struct{}, len(kinds))
	for _, k := range kinds {
		keys[k] = make(map[string]struct{})
	}
	return &Cache{store: store, keys: keys}, nil
}

func Key(kind Kind, userID string) string {
	return string(kind) + ":" + userID
}

func (c *Cache) Get(kind Kind, userID string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.store.Get(Key(kind, userID))
}

func (c *Cache) Set(kind Kind, userID string, value any) {
	if c == nil {
		return
	}
	key := Key(kind, userID)
	c.mu.Lock()
	c.keys[kind][key] = struct{}{}
	c.mu.Unlock()
	c.store.Set(key, value, 1)
}

// Invalidate drops one user's cached collection of the given kind.
func (c *Cache) Invalidate(kind Kind, userID string) {
	if c == nil {
		return
	}
	key := Key(kind, userID)
	c.mu.Lock()
	delete(c.keys[kind], key)
	c.mu.Unlock()
	c.store.Del(key)
}

// InvalidateUser drops every cached collection of a user.
func (c *Cache) InvalidateUser(userID string) {
	for _, k := range kinds {
		c.Invalidate(k, userID)
	}
}

// ClearKind drops the cached collections of every user for one kind.
func (c *Cache) ClearKind(kind Kind) {
	if c == nil {
		return
	}
	c.mu.Lock()
	for key := range c.keys[kind] {
		c.store.Del(key)
	}
	c.keys[kind] = make(map[string]struct{})
	c.mu.Unlock()
}

// Wait blocks until pending writes are visible to Get.
func (c *Cache) Wait() {
	if c != nil {
		c.store.Wait()
	}
}

func (c *Cache) Close() {
	if c != nil {
		c.store.Close()
	}
}
