// Package snapshot persists store snapshots as opaque blobs in a small
// sqlite key-value table, so a project can rehydrate without a fresh fetch.
package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"

	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TEXT NOT NULL
);
`

// Cache implements domain.SnapshotCache over a sqlite database.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at dbPath.
func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Save stores the blob under the project key, replacing any previous value.
func (c *Cache) Save(projectID string, blob []byte) error {
	_, err := c.db.Exec(
		`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		projectID, blob, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the blob for the project key.
func (c *Cache) Load(projectID string) ([]byte, error) {
	var blob []byte
	err := c.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, projectID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return blob, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Encode serializes a store snapshot into the cache blob format.
func Encode(snap store.Snapshot) ([]byte, error) {
	blob, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return blob, nil
}

// Decode deserializes a cache blob back into a store snapshot.
func Decode(blob []byte) (store.Snapshot, error) {
	var snap store.Snapshot
	if err := yaml.Unmarshal(blob, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Ensure Cache implements the port.
var _ domain.SnapshotCache = (*Cache)(nil)
