package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache()
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(t)

	c.Set(KindBudgets, "u1", []string{"a"})
	c.Wait()

	v, ok := c.Get(KindBudgets, "u1")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, v)

	_, ok = c.Get(KindBudgets, "u2")
	assert.False(t, ok)
}

func TestCacheInvalidateUser(t *testing.T) {
	c := newTestCache(t)
	for _, k := range kinds {
		c.Set(k, "u1", 1)
		c.Set(k, "u2", 2)
	}
	c.Wait()

	c.InvalidateUser("u1")
	c.Wait()

	for _, k := range kinds {
		_, ok := c.Get(k, "u1")
		assert.False(t, ok, "kind %s", k)
		_, ok = c.Get(k, "u2")
		assert.True(t, ok, "kind %s", k)
	}
}

func TestCacheClearKind(t *testing.T) {
	c := newTestCache(t)
	c.Set(KindTransactions, "u1", 1)
	c.Set(KindTransactions, "u2", 2)
	c.Set(KindReminders, "u1", 3)
	c.Wait()

	c.ClearKind(KindTransactions)
	c.Wait()

	_, ok := c.Get(KindTransactions, "u1")
	assert.False(t, ok)
	_, ok = c.Get(KindTransactions, "u2")
	assert.False(t, ok)
	_, ok = c.Get(KindReminders, "u1")
	assert.True(t, ok)
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	c.Set(KindBudgets, "u1", 1)
	c.Wait()
	_, ok := c.Get(KindBudgets, "u1")
	assert.False(t, ok)
	c.InvalidateUser("u1")
	c.ClearKind(KindBudgets)
	c.Close()
}
