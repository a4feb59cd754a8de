package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// Every connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateTestDB creates an in-memory database with a small events table
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	rows := [][]string{
		{"e1", "2024-03-01T10:00:00Z", "alice", "login", "success", "high", "10.0.0.1"},
		{"e2", "2024-03-01T10:20:00Z", "alice", "file_access", "success", "", "10.0.0.1"},
		{"e3", "2024-03-01T11:00:00Z", "bob", "login", "failure", "critical", ""},
	}
	if err := insertEvents(db, "events", EventHeader, rows); err != nil {
		t.Fatalf("Failed to create events table: %v", err)
	}
	return db
}
