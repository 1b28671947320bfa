package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const sqliteBusyTimeout = 5000 // milliseconds

// schemaStatements are executed in order to create the database schema.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS user_states (
		user       TEXT PRIMARY KEY,
		state      TEXT NOT NULL DEFAULT '',
		data       TEXT NOT NULL DEFAULT '{}',
		expires_at INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_states_expires ON user_states(expires_at)`,
}

// SQLiteStore persists conversation state in a SQLite database, letting a
// bot resume in-flight conversations across restarts. Uses modernc.org/sqlite
// (pure Go, no CGO) with WAL mode.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time interface guard.
var _ Store = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (and creates if missing) the database at path.
// SQLite serialises writes, so the pool is limited to one connection.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("state: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("state: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state: enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", sqliteBusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state: set busy_timeout: %w", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("state: apply schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Set implements Store. The data merge happens in SQL via json_patch so two
// concurrent Sets for the same user cannot lose each other's keys.
func (s *SQLiteStore) Set(ctx context.Context, user, state string, data map[string]any, ttl time.Duration) error {
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("state: encode data for %s: %w", user, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_states (user, state, data, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user) DO UPDATE SET
			state = excluded.state,
			data = json_patch(user_states.data, excluded.data),
			expires_at = excluded.expires_at`,
		user, state, string(encoded), time.Now().Add(ttl).Unix())
	if err != nil {
		return fmt.Errorf("state: set %s: %w", user, err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, user string) (Entry, bool, error) {
	var (
		entry   = Entry{User: user}
		encoded string
		expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT state, data, expires_at FROM user_states WHERE user = ?`, user).
		Scan(&entry.State, &encoded, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("state: get %s: %w", user, err)
	}

	entry.ExpiresAt = time.Unix(expires, 0)
	if err := json.Unmarshal([]byte(encoded), &entry.Data); err != nil {
		return Entry{}, false, fmt.Errorf("state: decode data for %s: %w", user, err)
	}
	return entry, true, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, user string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_states WHERE user = ?`, user); err != nil {
		return fmt.Errorf("state: delete %s: %w", user, err)
	}
	return nil
}

// Sweep implements Store.
func (s *SQLiteStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM user_states WHERE expires_at < ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("state: sweep: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }
