package internal

import (
	"fmt"
	"time"
)

// Required event columns
const (
	ColEventID   = "event_id"
	ColTimestamp = "timestamp"
	ColUserID    = "user_id"
	ColEventType = "event_type"
	ColStatus    = "status"
	ColSeverity  = "severity"
	ColSourceIP  = "source_ip"
)

// Engineered columns appended by the FeatureEngineer
const (
	ColSeverityScore       = "severity_score"
	ColUserEventCountTotal = "user_event_count_total"
	ColUserDailyAvgEvents  = "user_daily_avg_events"
	ColSessionID           = "session_id"
	ColSessionEventCount   = "session_event_count"
	ColSessionDuration     = "session_duration_seconds"
)

// RequiredColumns is the fixed event schema every run validates against
var RequiredColumns = []string{
	ColEventID,
	ColTimestamp,
	ColUserID,
	ColEventType,
	ColStatus,
	ColSeverity,
	ColSourceIP,
}

// FeatureColumns lists the engineered columns in output order
var FeatureColumns = []string{
	ColSeverityScore,
	ColUserEventCountTotal,
	ColUserDailyAvgEvents,
	ColSessionID,
	ColSessionEventCount,
	ColSessionDuration,
}

// Row is one event record. Values line up with Table.Columns.
type Row struct {
	Values []string
	// Line is the 1-based data row position in the input
	Line int
	// Time is set by the Normalizer once the timestamp has been parsed
	Time time.Time
}

// Table is an ordered in-memory event table with a uniform schema
type Table struct {
	Columns []string
	Rows    []*Row
	index   map[string]int
}

// NewTable creates an empty table with the given columns
func NewTable(columns []string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

// NewTableFromRecords builds a table from a header and raw records.
// Short records are padded with empty values, long ones are rejected.
func NewTableFromRecords(header []string, records [][]string) (*Table, error) {
	t := NewTable(header)
	if len(t.index) != len(t.Columns) {
		return nil, fmt.Errorf("duplicate column names in header: %v", header)
	}
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, &ParseError{Line: i + 1, Err: fmt.Errorf("record has %d fields, header has %d", len(rec), len(header))}
		}
		values := make([]string, len(header))
		copy(values, rec)
		t.Rows = append(t.Rows, &Row{Values: values, Line: i + 1})
	}
	return t, nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of a column, or -1 if absent
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// AddColumn appends a column, filling every row with value.
// Adding an existing column overwrites its values.
func (t *Table) AddColumn(name, value string) int {
	if i, ok := t.index[name]; ok {
		for _, r := range t.Rows {
			r.Values[i] = value
		}
		return i
	}
	t.Columns = append(t.Columns, name)
	t.index[name] = len(t.Columns) - 1
	for _, r := range t.Rows {
		r.Values = append(r.Values, value)
	}
	return len(t.Columns) - 1
}

// Get returns the value of a column for a row, empty if the column is absent
func (t *Table) Get(r *Row, column string) string {
	if i, ok := t.index[column]; ok {
		return r.Values[i]
	}
	return ""
}

// Set updates the value of an existing column for a row
func (t *Table) Set(r *Row, column, value string) {
	if i, ok := t.index[column]; ok {
		r.Values[i] = value
	}
}

// Filter keeps the rows for which keep returns true, preserving order
func (t *Table) Filter(keep func(*Row) bool) int {
	kept := t.Rows[:0]
	dropped := 0
	for _, r := range t.Rows {
		if keep(r) {
			kept = append(kept, r)
		} else {
			dropped++
		}
	}
	// Clear the tail so dropped rows can be collected
	for i := len(kept); i < len(t.Rows); i++ {
		t.Rows[i] = nil
	}
	t.Rows = kept
	return dropped
}

// Records returns the table values as raw records, without the header
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Values
	}
	return out
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	c := NewTable(t.Columns)
	c.Rows = make([]*Row, len(t.Rows))
	for i, r := range t.Rows {
		c.Rows[i] = &Row{
			Values: append([]string(nil), r.Values...),
			Line:   r.Line,
			Time:   r.Time,
		}
	}
	return c
}
