// Package ingest loads raw event tables from delimited files or SQLite.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/iksnae/secpipe/internal"
)

// DefaultTable is the SQLite table read when none is given
const DefaultTable = "events"

// Options controls how an input file is read
type Options struct {
	// Delimiter overrides the delimiter inferred from the extension
	Delimiter rune
	// Table is the SQLite table to read
	Table string
}

// Load reads an event table from path. The format follows the extension:
// .db/.sqlite/.sqlite3 are SQLite, .tsv is tab separated, anything else is
// CSV. A trailing .sz means the file is snappy framed.
func Load(path string, opts Options) (*internal.Table, error) {
	if IsSQLite(path) {
		return loadSQLite(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &internal.IOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".sz") {
		r = snappy.NewReader(f)
	}

	t, err := ReadDelimited(r, delimiterFor(path, opts.Delimiter))
	if err != nil {
		var pe *internal.ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &internal.IOError{Path: path, Op: "read", Err: err}
	}
	internal.LogDebug("Loaded %d row(s) and %d column(s) from %s", t.Len(), len(t.Columns), path)
	return t, nil
}

// ReadDelimited parses a header line followed by records
func ReadDelimited(r io.Reader, delimiter rune) (*internal.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	// Ragged rows are padded or rejected by the table itself
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input is empty: no header line")
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return internal.NewTableFromRecords(header, records)
}

// IsSQLite reports whether path names a SQLite database
func IsSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func loadSQLite(path string, opts Options) (*internal.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &internal.IOError{Path: path, Op: "open", Err: err}
	}
	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, &internal.IOError{Path: path, Op: "open", Err: err}
	}
	defer db.Close()

	name := opts.Table
	if name == "" {
		name = DefaultTable
	}
	t, err := internal.QueryEventTable(db, name)
	if err != nil {
		return nil, &internal.IOError{Path: path, Op: "read", Err: err}
	}
	return t, nil
}

func delimiterFor(path string, override rune) rune {
	if override != 0 {
		return override
	}
	base := strings.TrimSuffix(strings.ToLower(path), ".sz")
	if filepath.Ext(base) == ".tsv" {
		return '\t'
	}
	return ','
}

// ParseDelimiter turns a flag value such as "," or "\t" or "tab" into a rune
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "\\t", "tab", "\t":
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return runes[0], nil
}
