// Package offline is the best-effort response cache: the CLI analog of the
// service worker that caches assets in the browser build. It wraps the HTTP
// transport with a cache-first lookup for GET requests, backed by an
// in-memory LRU in front of a SQLite store. It is only wired in for
// production builds; development runs bypass it entirely and purge the store
// so stale data can never confuse local testing.
package offline

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one cached response.
type Entry struct {
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// Store persists cached responses in SQLite.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run cache migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get loads a cached response. A miss is (zero, false, nil).
func (s *Store) Get(key string) (Entry, bool, error) {
	row := s.db.QueryRow(
		`SELECT status, header, body, stored_at FROM cached_responses WHERE key = ?`, key)

	var (
		e         Entry
		rawHeader []byte
		storedAt  int64
	)
	err := row.Scan(&e.Status, &rawHeader, &e.Body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read cached response: %w", err)
	}
	if err := json.Unmarshal(rawHeader, &e.Header); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached header: %w", err)
	}
	e.StoredAt = time.Unix(storedAt, 0)
	return e, true, nil
}

// Put stores or replaces a cached response.
func (s *Store) Put(key string, e Entry) error {
	rawHeader, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO cached_responses (key, status, header, body, stored_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   status = excluded.status,
		   header = excluded.header,
		   body = excluded.body,
		   stored_at = excluded.stored_at`,
		key, e.Status, rawHeader, e.Body, e.StoredAt.Unix())
	if err != nil {
		return fmt.Errorf("store cached response: %w", err)
	}
	return nil
}

// Purge removes the entire cache database. Called for non-production runs,
// mirroring the browser build unregistering the service worker in
// development.
func Purge(dbPath string) error {
	if err := os.Remove(dbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("purge cache database: %w", err)
	}
	return nil
}
