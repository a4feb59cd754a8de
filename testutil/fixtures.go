package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// EventHeader is the raw event log header used by the fixtures
var EventHeader = []string{"event_id", "timestamp", "user_id", "event_type", "status", "severity", "source_ip"}

// SampleEventsCSV is a small raw log with the usual defects: a duplicate
// row, a missing severity, mixed timestamp formats and non-canonical labels
const SampleEventsCSV = `event_id,timestamp,user_id,event_type,status,severity,source_ip
e1,2024-03-01T10:00:00Z,Alice,Login,SUCCESS,High,10.0.0.1
e2,2024-03-01 10:20:00,alice,file-access,ok,,10.0.0.1
e2,2024-03-01 10:20:00,alice,file-access,ok,,10.0.0.1
e3,2024-03-01T11:30:00+01:00,bob,login,Failed,CRIT,10.0.0.2
e4,1709290800,bob,Logout,success,warning,
e5,not-a-date,carol,login,success,low,10.0.0.3
`

// WriteEventsCSV writes content to name inside dir and returns the path
func WriteEventsCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
	return path
}

// CreateEventsDB creates a SQLite database with an events table holding rows
func CreateEventsDB(t *testing.T, dbPath, table string, header []string, rows [][]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := insertEvents(db, table, header, rows); err != nil {
		t.Fatalf("Failed to create events table: %v", err)
	}
}

func insertEvents(db *sql.DB, table string, header []string, rows [][]string) error {
	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, h := range header {
		cols[i] = h + " TEXT"
		marks[i] = "?"
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", "))); err != nil {
		return err
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(header, ", "), strings.Join(marks, ", "))
	for _, row := range rows {
		args := make([]interface{}, len(row))
		for i, v := range row {
			// Empty strings become NULL, as an upstream export would write them
			if v == "" {
				args[i] = nil
			} else {
				args[i] = v
			}
		}
		if _, err := db.Exec(insertSQL, args...); err != nil {
			return err
		}
	}
	return nil
}
