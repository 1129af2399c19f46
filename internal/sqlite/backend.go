// Package sqlite implements the SQLite tree store for Barricade.
// Nodes are rows indexed by depth and parent; the run checkpoint is a
// single row. All level writes are discrete transactions, so the resume
// contract reduces to "last committed level wins".
// See docs/ARCHITECTURE.md § Tree Store.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

// DBFileName is the SQLite database file created inside the data directory.
const DBFileName = "barricade.db"

// Compile-time interface check: Store must implement TreeStore.
var _ types.TreeStore = (*Store)(nil)

// Store implements the TreeStore contract on a single SQLite database.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewStore creates a new SQLite store instance. The store is not
// attached; call Attach with a Config to initialize.
func NewStore() *Store {
	return &Store{}
}

// Attach opens (or creates) the database under config.DataDir and
// ensures the schema exists. Unlike a cache, the database is the source
// of truth for resumable runs, so an existing file is kept as-is.
// Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// WAL keeps committed levels durable across interruption; the busy
	// timeout covers short lock contention before our own retry kicks in.
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return fmt.Errorf("configure database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("initialize schema: %w", err)
	}

	s.db = db
	s.config = config
	s.attached = true

	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrNotAttached. Detach is idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil // idempotent
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}

	s.attached = false
	return nil
}

// Reset removes all stored nodes and runs.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrNotAttached
	}

	return s.withRetry(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM runs"); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// checkAttached returns ErrNotAttached unless the store is usable.
// The caller must hold mu (read or write).
func (s *Store) checkAttached() error {
	if !s.attached || s.db == nil {
		return types.ErrNotAttached
	}
	return nil
}

// retryAttempts bounds how often a transient busy/locked error is retried
// at batch-write granularity before it is surfaced as persistent.
const retryAttempts = 5

// withRetry re-runs fn on transient SQLite contention errors with a
// short linear backoff. Non-transient errors are returned immediately.
func (s *Store) withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return fmt.Errorf("%w: busy after %d attempts: %w", types.ErrStorage, retryAttempts, err)
}

// isTransient reports whether the error is SQLite lock contention that a
// retry can resolve.
func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "database is locked")
}

// timeFormat is the timestamp encoding for run rows.
const timeFormat = time.RFC3339Nano
