package database

import (
	"testing"
)

// newTestDB opens an in-memory database with the full schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestRunMigrations(t *testing.T) {
	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("Expected clean migration state")
	}
	if version == 0 {
		t.Error("Expected non-zero schema version")
	}

	// Applying migrations twice is a no-op
	if _, _, err := RunMigrations(db); err != nil {
		t.Errorf("Expected repeated migration run to succeed, got %v", err)
	}

	for _, table := range []string{"feeds", "entries"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}
