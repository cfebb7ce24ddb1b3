package database

import (
	"path/filepath"
	"testing"
)

// setupTestDB opens a throwaway SQLite database for repository tests.
func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(Config{Type: "sqlite", SQLitePath: dbPath})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	return db, func() {
		db.Close()
	}
}
