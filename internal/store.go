package internal

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"

	_ "modernc.org/sqlite"
)

// Bucket names for the key-value store.
const (
	BucketNotes    = "notes"
	BucketPrompts  = "prompts"
	BucketPersonas = "personas"
	BucketAuth     = "auth"
	BucketPrefs    = "prefs"
)

// Store is bucketed key-value persistence for user artifacts, credentials
// and preferences.
type Store interface {
	Get(bucket, key string) (string, bool, error)
	Set(bucket, key, value string) error
	Delete(bucket, key string) error
	List(bucket string) ([]KeyValuePair, error)
	Close() error
}

// KeyValuePair is one stored entry.
type KeyValuePair struct {
	Key   string
	Value string
}

// SQLiteStore persists entries in a single kv table keyed by bucket and key.
type SQLiteStore struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) a SQLite-backed store at path.
func OpenStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		bucket TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (bucket, key)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the value for a key, reporting whether it exists.
func (s *SQLiteStore) Get(bucket, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM kv WHERE bucket = ? AND key = ?", bucket, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	return value, true, nil
}

// Set inserts or replaces a key.
func (s *SQLiteStore) Set(bucket, key, value string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO kv (bucket, key, value, updated_at) VALUES (?, ?, ?, strftime('%s','now'))",
		bucket, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to store %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(bucket, key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE bucket = ? AND key = ?", bucket, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// List returns all entries in a bucket ordered by most recently updated.
func (s *SQLiteStore) List(bucket string) ([]KeyValuePair, error) {
	rows, err := s.db.Query(
		"SELECT key, value FROM kv WHERE bucket = ? ORDER BY updated_at DESC, key", bucket,
	)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		if err := rows.Scan(&pair.Key, &pair.Value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		pairs = append(pairs, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return pairs, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// MemoryStore is an in-process Store for tests and the replay harness.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(bucket, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.buckets[bucket][key]
	return value, ok, nil
}

func (m *MemoryStore) Set(bucket, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets[bucket] == nil {
		m.buckets[bucket] = make(map[string]string)
	}
	m.buckets[bucket][key] = value
	return nil
}

func (m *MemoryStore) Delete(bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets[bucket], key)
	return nil
}

func (m *MemoryStore) List(bucket string) ([]KeyValuePair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pairs []KeyValuePair
	for k, v := range m.buckets[bucket] {
		pairs = append(pairs, KeyValuePair{Key: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
