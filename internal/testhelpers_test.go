package internal

// eventHeader is the required schema in its usual column order
var eventHeader = []string{
	ColEventID,
	ColTimestamp,
	ColUserID,
	ColEventType,
	ColStatus,
	ColSeverity,
	ColSourceIP,
}

// newTestTable builds a table from a header and records, panicking on bad input
func newTestTable(header []string, records ...[]string) *Table {
	t, err := NewTableFromRecords(header, records)
	if err != nil {
		panic(err)
	}
	return t
}

// newEventTable builds a table with the required event columns
func newEventTable(records ...[]string) *Table {
	return newTestTable(eventHeader, records...)
}

// event is a record in eventHeader order
func event(id, ts, user, eventType, status, severity, ip string) []string {
	return []string{id, ts, user, eventType, status, severity, ip}
}

// column returns every value of a column in row order
func column(t *Table, name string) []string {
	idx := t.ColumnIndex(name)
	out := make([]string, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, r.Values[idx])
	}
	return out
}
