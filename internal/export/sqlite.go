package export

import (
	"fmt"
	"io"

	"github.com/iksnae/secpipe/internal"
)

// DefaultSQLiteTable is the table written when none is configured
const DefaultSQLiteTable = "processed_events"

// SQLiteExporter writes the table into a SQLite database file
type SQLiteExporter struct {
	Table string
}

// Export is not supported for SQLite; use ExportFile
func (e *SQLiteExporter) Export(t *internal.Table, w io.Writer) error {
	return fmt.Errorf("sqlite output needs a file path")
}

// ExportFile replaces the configured table in the database at path
func (e *SQLiteExporter) ExportFile(t *internal.Table, path string) error {
	db, err := internal.CreateDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	name := e.Table
	if name == "" {
		name = DefaultSQLiteTable
	}
	return internal.WriteEventTable(db, name, t)
}

// Extension returns the file extension for this format
func (e *SQLiteExporter) Extension() string {
	return "db"
}
