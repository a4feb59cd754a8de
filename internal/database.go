package internal

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// CreateDatabase opens a SQLite database for writing, creating the file
func CreateDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

// QueryEventTable loads every row of a table as an event Table.
// NULLs become empty values; rows keep the table's rowid order.
func QueryEventTable(db *sql.DB, name string) (*Table, error) {
	if !identifierRe.MatchString(name) {
		return nil, fmt.Errorf("invalid table name: %q", name)
	}
	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM "%s" ORDER BY rowid`, name))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns failed: %w", err)
	}

	var records [][]string
	for rows.Next() {
		raw := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		rec := make([]string, len(columns))
		for i, v := range raw {
			if v.Valid {
				rec[i] = v.String
			}
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return NewTableFromRecords(columns, records)
}

// WriteEventTable replaces table name with the contents of t, all columns as TEXT
func WriteEventTable(db *sql.DB, name string, t *Table) error {
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %q", name)
	}
	quoted := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		marks[i] = "?"
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, name)); err != nil {
		return fmt.Errorf("drop table failed: %w", err)
	}
	cols := make([]string, len(quoted))
	for i, q := range quoted {
		cols[i] = q + " TEXT"
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE "%s" (%s)`, name, strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("create table failed: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`, name, strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(t.Columns))
	for _, r := range t.Rows {
		for i, v := range r.Values {
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert line %d failed: %w", r.Line, err)
		}
	}
	return tx.Commit()
}
