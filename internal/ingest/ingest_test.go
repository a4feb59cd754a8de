package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/iksnae/secpipe/internal"
	"github.com/iksnae/secpipe/testutil"
)

func TestReadDelimited(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		delimiter rune
		wantCols  []string
		wantRows  int
		wantErr   bool
	}{
		{
			name:      "csv",
			input:     "a,b\n1,2\n3,4\n",
			delimiter: ',',
			wantCols:  []string{"a", "b"},
			wantRows:  2,
		},
		{
			name:      "tsv",
			input:     "a\tb\n1\t2\n",
			delimiter: '\t',
			wantCols:  []string{"a", "b"},
			wantRows:  1,
		},
		{
			name:      "bom and padded header",
			input:     "\uFEFFa , b\n1,2\n",
			delimiter: ',',
			wantCols:  []string{"a", "b"},
			wantRows:  1,
		},
		{
			name:      "quoted delimiter",
			input:     "a,b\n\"x,y\",2\n",
			delimiter: ',',
			wantCols:  []string{"a", "b"},
			wantRows:  1,
		},
		{
			name:      "short row padded",
			input:     "a,b,c\n1\n",
			delimiter: ',',
			wantCols:  []string{"a", "b", "c"},
			wantRows:  1,
		},
		{
			name:      "header only",
			input:     "a,b\n",
			delimiter: ',',
			wantCols:  []string{"a", "b"},
			wantRows:  0,
		},
		{
			name:      "empty input",
			input:     "",
			delimiter: ',',
			wantErr:   true,
		},
		{
			name:      "long row",
			input:     "a\n1,2\n",
			delimiter: ',',
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadDelimited(strings.NewReader(tt.input), tt.delimiter)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadDelimited() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(table.Columns, tt.wantCols) {
				t.Errorf("Columns = %v, want %v", table.Columns, tt.wantCols)
			}
			if table.Len() != tt.wantRows {
				t.Errorf("rows = %d, want %d", table.Len(), tt.wantRows)
			}
		})
	}
}

func TestLoad_CSV(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteEventsCSV(t, dir, "raw.csv", testutil.SampleEventsCSV)

	table, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 6 {
		t.Errorf("rows = %d, want 6", table.Len())
	}
	if !reflect.DeepEqual(table.Columns, testutil.EventHeader) {
		t.Errorf("Columns = %v", table.Columns)
	}
	if table.Rows[0].Line != 1 {
		t.Errorf("first Line = %d, want 1", table.Rows[0].Line)
	}
}

func TestLoad_TSVByExtension(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	tsv := strings.ReplaceAll(testutil.SampleEventsCSV, ",", "\t")
	path := testutil.WriteEventsCSV(t, dir, "raw.tsv", tsv)

	table, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(table.Columns) != 7 {
		t.Errorf("Columns = %v", table.Columns)
	}
}

func TestLoad_DelimiterOverride(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteEventsCSV(t, dir, "raw.txt", "a;b\n1;2\n")

	table, err := Load(path, Options{Delimiter: ';'})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(table.Columns, []string{"a", "b"}) {
		t.Errorf("Columns = %v", table.Columns)
	}
}

func TestLoad_Snappy(t *testing.T) {
	dir := testutil.CreateTempDir(t)

	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	if _, err := w.Write([]byte(testutil.SampleEventsCSV)); err != nil {
		t.Fatalf("snappy write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("snappy close: %v", err)
	}
	path := filepath.Join(dir, "raw.csv.sz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 6 {
		t.Errorf("rows = %d, want 6", table.Len())
	}
}

func TestLoad_SQLite(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "raw.db")
	rows := [][]string{
		{"e1", "2024-03-01T10:00:00Z", "alice", "login", "success", "high", "10.0.0.1"},
		{"e2", "2024-03-01T10:20:00Z", "alice", "login", "success", "", "10.0.0.1"},
	}
	testutil.CreateEventsDB(t, path, "raw_events", testutil.EventHeader, rows)

	table, err := Load(path, Options{Table: "raw_events"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("rows = %d, want 2", table.Len())
	}
	if got := table.Get(table.Rows[1], internal.ColSeverity); got != "" {
		t.Errorf("severity = %q, want empty", got)
	}

	if _, err := Load(path, Options{}); err == nil {
		t.Error("expected error reading the default table from a database without it")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := testutil.CreateTempDir(t)

	tests := []struct {
		name string
		path string
	}{
		{"missing csv", filepath.Join(dir, "missing.csv")},
		{"missing db", filepath.Join(dir, "missing.db")},
		{"empty file", testutil.WriteEventsCSV(t, dir, "empty.csv", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, Options{})
			var ioErr *internal.IOError
			if !errors.As(err, &ioErr) {
				t.Fatalf("expected IOError, got %v", err)
			}
			if ioErr.Path != tt.path {
				t.Errorf("IOError.Path = %q, want %q", ioErr.Path, tt.path)
			}
		})
	}
}

func TestLoad_RaggedRowIsParseError(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteEventsCSV(t, dir, "ragged.csv", "a,b\n1,2\n1,2,3\n")

	_, err := Load(path, Options{})
	var pe *internal.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input   string
		want    rune
		wantErr bool
	}{
		{"", 0, false},
		{",", ',', false},
		{";", ';', false},
		{"\\t", '\t', false},
		{"tab", '\t', false},
		{"|", '|', false},
		{"ab", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDelimiter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDelimiter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsSQLite(t *testing.T) {
	for path, want := range map[string]bool{
		"events.db":      true,
		"events.SQLITE":  true,
		"events.sqlite3": true,
		"events.csv":     false,
		"events.csv.sz":  false,
	} {
		if got := IsSQLite(path); got != want {
			t.Errorf("IsSQLite(%q) = %v, want %v", path, got, want)
		}
	}
}
