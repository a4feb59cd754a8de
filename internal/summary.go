package internal

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// ValueCount is a value with its number of occurrences
type ValueCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Summary collects aggregate statistics about a pipeline run
type Summary struct {
	RunID               string         `json:"run_id" yaml:"run_id"`
	Mode                ValidationMode `json:"validate" yaml:"validate"`
	SessionGapMinutes   int            `json:"session_gap_minutes" yaml:"session_gap_minutes"`
	DropUnknownSeverity bool           `json:"drop_unknown_severity" yaml:"drop_unknown_severity"`

	RowsRaw   int            `json:"rows_raw" yaml:"rows_raw"`
	Clean     CleanStats     `json:"clean" yaml:"clean"`
	Normalize NormalizeStats `json:"normalize" yaml:"normalize"`
	Features  FeatureStats   `json:"features" yaml:"features"`
	Issues    []SchemaIssue  `json:"issues,omitempty" yaml:"issues,omitempty"`

	RowsOut     int          `json:"rows_out" yaml:"rows_out"`
	Columns     int          `json:"columns" yaml:"columns"`
	FirstEvent  string       `json:"first_event,omitempty" yaml:"first_event,omitempty"`
	LastEvent   string       `json:"last_event,omitempty" yaml:"last_event,omitempty"`
	EventTypes  int          `json:"event_types" yaml:"event_types"`
	TopTypes    []ValueCount `json:"top_event_types,omitempty" yaml:"top_event_types,omitempty"`
	TopStatus   []ValueCount `json:"top_status,omitempty" yaml:"top_status,omitempty"`
	TopSeverity []ValueCount `json:"top_severity,omitempty" yaml:"top_severity,omitempty"`
	EmptyCounts []ValueCount `json:"empty_counts,omitempty" yaml:"empty_counts,omitempty"`
}

// NewSummary creates a Summary for a run with a fresh run id
func NewSummary(cfg Config) *Summary {
	return &Summary{
		RunID:               uuid.NewString(),
		Mode:                cfg.Mode,
		SessionGapMinutes:   int(cfg.SessionGap.Minutes()),
		DropUnknownSeverity: cfg.DropUnknownSeverity,
	}
}

// Collect fills the output statistics from the final table
func (s *Summary) Collect(t *Table) {
	s.RowsOut = t.Len()
	s.Columns = len(t.Columns)

	if len(t.Rows) > 0 {
		first, last := t.Rows[0].Time, t.Rows[0].Time
		for _, r := range t.Rows[1:] {
			if r.Time.Before(first) {
				first = r.Time
			}
			if r.Time.After(last) {
				last = r.Time
			}
		}
		s.FirstEvent = FormatTimestamp(first)
		s.LastEvent = FormatTimestamp(last)
	}

	types := valueCounts(t, ColEventType)
	s.EventTypes = len(types)
	s.TopTypes = topN(types, 5)
	s.TopStatus = topN(valueCounts(t, ColStatus), 5)
	s.TopSeverity = topN(valueCounts(t, ColSeverity), 5)

	var empties []ValueCount
	for idx, col := range t.Columns {
		n := 0
		for _, r := range t.Rows {
			if r.Values[idx] == "" {
				n++
			}
		}
		if n > 0 {
			empties = append(empties, ValueCount{Value: col, Count: n})
		}
	}
	s.EmptyCounts = topN(empties, 8)
}

// Render writes the human-readable summary
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintln(w, sectionStyle.Render("Pipeline summary"))
	line := func(label string, value interface{}) {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(label+":"), countStyle.Render(fmt.Sprint(value)))
	}

	line("run id", s.RunID)
	line("rows raw", s.RowsRaw)
	line("rows after clean", s.Clean.RowsOut)
	line("rows after normalize", s.Normalize.RowsOut)
	line("rows out", s.RowsOut)
	line("columns", s.Columns)
	line("duplicates removed", s.Clean.DuplicatesRemoved)
	line("duplicate event ids removed", s.Clean.DuplicateIDsRemoved)
	line("dropped missing event id", s.Clean.DroppedMissingID)
	line("dropped invalid timestamp", s.Normalize.InvalidTimestamps)
	line("dropped unknown severity", s.Normalize.DroppedUnknownSeverity)
	line("users", s.Features.Users)
	line("sessions", s.Features.Sessions)
	line("event types", s.EventTypes)
	if s.FirstEvent != "" {
		line("time range", s.FirstEvent+" -> "+s.LastEvent)
	}
	if len(s.Clean.SynthesizedColumns) > 0 {
		line("synthesized columns", strings.Join(s.Clean.SynthesizedColumns, ", "))
	}

	renderCounts(w, "Empty values", s.EmptyCounts)
	renderCounts(w, "Top event types", s.TopTypes)
	renderCounts(w, "Top status", s.TopStatus)
	renderCounts(w, "Top severity", s.TopSeverity)

	if len(s.Issues) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render("Validation warnings"))
		for _, issue := range s.Issues {
			fmt.Fprintf(w, "  %s\n", warningStyle.Render(issue.String()))
		}
	}
}

func renderCounts(w io.Writer, title string, counts []ValueCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(title))
	for _, c := range counts {
		fmt.Fprintf(w, "  %-24s %s\n", c.Value, countStyle.Render(fmt.Sprint(c.Count)))
	}
}

func valueCounts(t *Table, column string) []ValueCount {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, r := range t.Rows {
		counts[r.Values[idx]]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	return out
}

// topN sorts by count descending, then value, and keeps the first n
func topN(counts []ValueCount, n int) []ValueCount {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
