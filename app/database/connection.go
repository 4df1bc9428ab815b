package database

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// DB wraps the underlying sql.DB connection pool
type DB struct {
	*sql.DB
}

// NewConnection opens the SQLite database at the given path. Write
// transactions start with BEGIN IMMEDIATE (_txlock) so the write lock is
// acquired up front, and foreign key enforcement is switched on per
// connection.
func NewConnection(dbPath string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		url.PathEscape(dbPath))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The store is used from a single logical thread of control; one
	// connection also keeps in-memory databases stable in tests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}
