package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"moneymap/src/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

const (
	// StateKey is where the state snapshot lives in the kv table.
	StateKey = "moneyMapData"
	// TokenKey holds the bearer token of the signed-in user.
	TokenKey = "token"
)

// SQLiteMirror is a small key/value file on disk holding the last known
// state and the session token.
type SQLiteMirror struct {
	conn *sql.DB
}

// OpenMirror opens (or creates) the mirror database at path.
func OpenMirror(ctx context.Context, path string) (*SQLiteMirror, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	_, err = conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteMirror{conn: conn}, nil
}

func (m *SQLiteMirror) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := m.conn.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNotFound
	}
	return value, err
}

func (m *SQLiteMirror) Put(ctx context.Context, key, value string) error {
	_, err := m.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	return err
}

func (m *SQLiteMirror) Delete(ctx context.Context, key string) error {
	_, err := m.conn.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

// Save implements Mirror.
func (m *SQLiteMirror) Save(ctx context.Context, snapshot []byte) error {
	return m.Put(ctx, StateKey, string(snapshot))
}

// Load returns the last saved state, or a fresh one when nothing was saved.
func (m *SQLiteMirror) Load(ctx context.Context) (State, error) {
	raw, err := m.Get(ctx, StateKey)
	if errors.Is(err, models.ErrNotFound) {
		return NewState(), nil
	}
	if err != nil {
		return State{}, err
	}
	return LoadState([]byte(raw))
}

func (m *SQLiteMirror) Close() error {
	return m.conn.Close()
}
