package db

import (
	"context"
	"os"
	"testing"

	rootdb "moneymap/src/db"
	"moneymap/src/db/storetest"
	"moneymap/src/handlers"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TestRepository needs a disposable database; every test truncates it.
func TestRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := rootdb.Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, rootdb.Migrate(ctx, pool))

	cache, err := rootdb.NewCache()
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	suite.Run(t, &storetest.Suite{
		NewStore: func() handlers.Store {
			_, err := pool.Exec(ctx, `TRUNCATE users, transactions, budgets, reminders`)
			require.NoError(t, err)
			for _, k := range []rootdb.Kind{rootdb.KindTransactions, rootdb.KindBudgets, rootdb.KindReminders} {
				cache.ClearKind(k)
			}
			return NewRepository(pool, cache)
		},
	})
}
