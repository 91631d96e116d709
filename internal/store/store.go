// Package store persists the per-profile state blobs (quota, rotation,
// learning profile, UI preferences) as JSON documents in a key-value table.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JillVernus/learn-tube/internal/database"
)

// ErrNotFound is returned when a blob key has never been saved
var ErrNotFound = fmt.Errorf("state blob not found")

// Well-known blob keys
const (
	KeyQuotaState    = "quota_state"
	KeyRotationState = "rotation_state"
	KeyProfile       = "learning_profile"
	KeySearchHistory = "search_history"
	KeyPreferences   = "ui_preferences"
)

// BlobStore reads and writes JSON state blobs keyed by name
type BlobStore struct {
	db database.DB
}

// New creates a BlobStore and ensures the backing table exists
func New(db database.DB) (*BlobStore, error) {
	s := &BlobStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize state_blobs table: %w", err)
	}
	return s, nil
}

func (s *BlobStore) initSchema() error {
	datetimeType := "DATETIME"
	if s.db.Dialect() == database.DialectPostgreSQL {
		datetimeType = "TIMESTAMP WITH TIME ZONE"
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS state_blobs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at %s NOT NULL
	)`, datetimeType)

	_, err := s.db.Exec(schema)
	return err
}

// Load unmarshals the blob stored under key into v.
// Returns ErrNotFound if the key has never been saved.
func (s *BlobStore) Load(key string, v interface{}) error {
	var raw string
	err := s.db.QueryRow("SELECT value FROM state_blobs WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load blob %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to parse blob %q: %w", key, err)
	}
	return nil
}

// Save marshals v and upserts it under key
func (s *BlobStore) Save(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal blob %q: %w", key, err)
	}

	query := `INSERT INTO state_blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if s.db.Dialect() == database.DialectPostgreSQL {
		query = `INSERT INTO state_blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	}

	if _, err := s.db.Exec(query, key, string(raw), time.Now()); err != nil {
		return fmt.Errorf("failed to save blob %q: %w", key, err)
	}
	return nil
}

// Delete removes a blob; deleting a missing key is not an error
func (s *BlobStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM state_blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}
	return nil
}
