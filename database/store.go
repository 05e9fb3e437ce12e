// Package database manages the file-backed SQLite stores for posts and
// comments: the mutable user store and the read-only curated snapshot.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Store manages one SQLite database file. The connection is opened lazily
// on first use. All mutating calls are serialized through the store's
// mutex; cross-process contention is handled by the busy timeout and WAL
// journaling. Writes accumulate on a transaction that callers must commit
// explicitly after a batch.
type Store struct {
	mu          sync.Mutex
	path        string
	readOnly    bool
	db          *sql.DB
	tx          *sql.Tx
	initialized bool
}

// NewStore creates a handle for the mutable user store at path. The file
// and its schema are created on first use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewReadOnlyStore creates a handle for a curated snapshot at path. Write
// operations fail; the schema is never created or modified.
func NewReadOnlyStore(path string) *Store {
	return &Store{path: path, readOnly: true}
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// ensureConn opens the connection on first use. Callers hold s.mu.
func (s *Store) ensureConn() error {
	if s.initialized {
		return nil
	}

	dsn := s.path
	if s.readOnly {
		dsn = "file:" + s.path + "?mode=ro"
	} else {
		// Ensure the directory for the database file exists.
		dir := filepath.Dir(s.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Ping the database to verify the connection.
	if err = db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if !s.readOnly {
		pragmas := []string{
			"PRAGMA busy_timeout = 30000",
			"PRAGMA foreign_keys = ON",
			"PRAGMA journal_mode = WAL",
		}
		for _, pragma := range pragmas {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}

		if err := createTables(db); err != nil {
			db.Close()
			return err
		}
	}

	s.db = db
	s.initialized = true
	log.Println("Successfully connected to the database at", s.path)
	return nil
}

func createTables(db *sql.DB) error {
	postsTable := `
    CREATE TABLE IF NOT EXISTS posts (
        post_id TEXT PRIMARY KEY,
        content TEXT,
        author TEXT,
        source TEXT,
        created_at TEXT,
        sentiment TEXT,
        confidence REAL,
        relief_category TEXT,
        disaster_keyword TEXT
    );`

	commentsTable := `
    CREATE TABLE IF NOT EXISTS comments (
        comment_id TEXT PRIMARY KEY,
        post_id TEXT,
        content TEXT,
        author TEXT,
        created_at TEXT,
        sentiment TEXT,
        confidence REAL,
        relief_category TEXT,
        disaster_type TEXT,
        FOREIGN KEY(post_id) REFERENCES posts(post_id) ON DELETE CASCADE
    );`

	for _, query := range []string{postsTable, commentsTable} {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// writer returns the querier for mutating statements, beginning the batch
// transaction if none is open. Callers hold s.mu.
func (s *Store) writer() (querier, error) {
	if s.readOnly {
		return nil, fmt.Errorf("store is read-only: %s", s.path)
	}
	if err := s.ensureConn(); err != nil {
		return nil, err
	}
	if s.tx == nil {
		tx, err := s.db.Begin()
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

// reader returns the querier for reads. Reads see the open batch
// transaction first, so a batch can observe its own uncommitted writes.
// Callers hold s.mu.
func (s *Store) reader() (querier, error) {
	if err := s.ensureConn(); err != nil {
		return nil, err
	}
	if s.tx != nil {
		return s.tx, nil
	}
	return s.db, nil
}

// Commit makes the current batch of writes durable. A commit with no open
// batch is a no-op.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked()
}

func (s *Store) commitLocked() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Close commits any pending batch and closes the connection. It returns
// only after the underlying file handle has been released, so callers may
// delete the database file immediately afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}

	commitErr := s.commitLocked()
	closeErr := s.db.Close()
	s.db = nil
	s.initialized = false

	if commitErr != nil {
		return commitErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close database: %w", closeErr)
	}
	return nil
}

// Reset discards the cached connection, rolling back any uncommitted
// batch. The next use reopens the file and, if it was deleted externally,
// recreates the schema from scratch.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}

	if s.tx != nil {
		if err := s.tx.Rollback(); err != nil {
			log.Printf("Error rolling back transaction during reset: %v", err)
		}
		s.tx = nil
	}

	err := s.db.Close()
	s.db = nil
	s.initialized = false
	if err != nil {
		return fmt.Errorf("failed to close database during reset: %w", err)
	}
	return nil
}
