package internal

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaIssue is one finding of the post-processing schema check
type SchemaIssue struct {
	Check  string `json:"check" yaml:"check"`
	Detail string `json:"detail" yaml:"detail"`
}

func (i SchemaIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Check, i.Detail)
}

// ValidateSchema checks a processed table: required columns, timestamp
// completeness, and the allowed status and severity sets. An empty result
// means the table passed.
func ValidateSchema(t *Table, required []string) []SchemaIssue {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return []SchemaIssue{{Check: "missing_columns", Detail: strings.Join(missing, ", ")}}
	}

	var issues []SchemaIssue

	tsIdx := t.ColumnIndex(ColTimestamp)
	unparsed := 0
	for _, r := range t.Rows {
		if !r.Time.IsZero() {
			continue
		}
		if _, err := ParseTimestamp(r.Values[tsIdx]); err != nil {
			unparsed++
		}
	}
	if unparsed > 0 {
		issues = append(issues, SchemaIssue{Check: "timestamp_invalid_count", Detail: fmt.Sprint(unparsed)})
	}

	allowedStatus := setOf(append([]string{Unknown}, StatusValues...))
	if bad := invalidValues(t, ColStatus, allowedStatus); len(bad) > 0 {
		issues = append(issues, SchemaIssue{Check: "invalid_status_values", Detail: strings.Join(bad, ", ")})
	}

	allowedSeverity := setOf(append([]string{Unknown}, SeverityLevels...))
	if bad := invalidValues(t, ColSeverity, allowedSeverity); len(bad) > 0 {
		issues = append(issues, SchemaIssue{Check: "invalid_severity_values", Detail: strings.Join(bad, ", ")})
	}

	return issues
}

func invalidValues(t *Table, column string, allowed map[string]bool) []string {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	found := make(map[string]bool)
	for _, r := range t.Rows {
		if v := r.Values[idx]; v != "" && !allowed[v] {
			found[v] = true
		}
	}
	out := make([]string, 0, len(found))
	for v := range found {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func setOf(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
