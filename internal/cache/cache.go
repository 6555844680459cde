// Package cache memoizes search results on disk. It sits strictly above
// the engine: callers decide what to cache and the engine never sees it.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultExpiry is how long entries stay valid unless overridden.
const DefaultExpiry = 7 * 24 * time.Hour

// DefaultDir returns the per-user cache directory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "code-searcher"), nil
}

// Manager is a keyed byte store backed by SQLite with per-entry expiry.
type Manager struct {
	db     *sql.DB
	expiry time.Duration
}

// New opens (creating if needed) the cache database under dir. A
// non-positive expiry selects DefaultExpiry.
func New(dir string, expiry time.Duration) (*Manager, error) {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	const schema = `
		CREATE TABLE IF NOT EXISTS entries (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return &Manager{db: db, expiry: expiry}, nil
}

// Key derives a deterministic cache key from its components. Components
// must be JSON-serializable; struct fields marshal in declaration order, so
// identical inputs always hash identically.
func Key(components ...interface{}) (string, error) {
	serialized, err := json.Marshal(components)
	if err != nil {
		return "", fmt.Errorf("serialize cache key: %w", err)
	}
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the value stored under key, or ok=false on a miss. Expired
// entries count as misses and are removed on the way out.
func (m *Manager) Get(key string) ([]byte, bool) {
	var value []byte
	var expiresAt int64
	err := m.db.QueryRow(`SELECT value, expires_at FROM entries WHERE key = ?`, key).Scan(&value, &expiresAt)
	if err != nil {
		return nil, false
	}
	if time.Now().Unix() >= expiresAt {
		m.Delete(key)
		return nil, false
	}
	return value, true
}

// Set stores value under key with the manager's expiry.
func (m *Manager) Set(key string, value []byte) error {
	expiresAt := time.Now().Add(m.expiry).Unix()
	_, err := m.db.Exec(
		`INSERT OR REPLACE INTO entries (key, value, expires_at) VALUES (?, ?, ?)`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (m *Manager) Delete(key string) error {
	_, err := m.db.Exec(`DELETE FROM entries WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Clear removes every entry and reports how many were dropped.
func (m *Manager) Clear() (int64, error) {
	res, err := m.db.Exec(`DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close releases the underlying database.
func (m *Manager) Close() error {
	return m.db.Close()
}
