package internal

import (
	"sort"

	"go.uber.org/zap"
)

// NormalizeStats records what the Normalizer changed
type NormalizeStats struct {
	RowsIn                 int            `json:"rows_in" yaml:"rows_in"`
	RowsOut                int            `json:"rows_out" yaml:"rows_out"`
	InvalidTimestamps      int            `json:"invalid_timestamps" yaml:"invalid_timestamps"`
	DroppedUnknownSeverity int            `json:"dropped_unknown_severity" yaml:"dropped_unknown_severity"`
	Coerced                map[string]int `json:"coerced,omitempty" yaml:"coerced,omitempty"`
	TyposCorrected         map[string]int `json:"typos_corrected,omitempty" yaml:"typos_corrected,omitempty"`
}

// Normalizer converts timestamps to UTC and categorical values to canonical form
type Normalizer struct {
	cfg      Config
	severity *Vocabulary
	status   *Vocabulary
}

// NewNormalizer creates a new Normalizer
func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{
		cfg:      cfg,
		severity: SeverityVocabulary(),
		status:   StatusVocabulary(),
	}
}

// Normalize standardizes timestamps, then categoricals, then applies the
// unknown-severity filter. The table is modified in place and returned.
func (n *Normalizer) Normalize(t *Table) (*Table, NormalizeStats, error) {
	stats := NormalizeStats{
		RowsIn:         t.Len(),
		Coerced:        map[string]int{},
		TyposCorrected: map[string]int{},
	}

	invalid, err := n.StandardizeTimestamps(t)
	if err != nil {
		return nil, stats, err
	}
	stats.InvalidTimestamps = invalid

	if err := n.NormalizeCategoricals(t, &stats); err != nil {
		return nil, stats, err
	}

	if n.cfg.DropUnknownSeverity {
		stats.DroppedUnknownSeverity = n.dropUnknownSeverity(t)
		if stats.DroppedUnknownSeverity > 0 {
			LogInfo("Dropped %d row(s) with unknown severity", stats.DroppedUnknownSeverity)
		}
	}

	stats.RowsOut = t.Len()
	Logger().Debug("normalize complete",
		zap.Int("rows_in", stats.RowsIn),
		zap.Int("rows_out", stats.RowsOut),
		zap.Int("invalid_timestamps", stats.InvalidTimestamps),
	)
	return t, stats, nil
}

// StandardizeTimestamps rewrites the timestamp column in the canonical UTC
// format. Unparseable rows abort under strict mode and are dropped otherwise.
func (n *Normalizer) StandardizeTimestamps(t *Table) (int, error) {
	idx := t.ColumnIndex(ColTimestamp)
	if idx < 0 {
		return 0, nil
	}

	var parseErr error
	dropped := t.Filter(func(r *Row) bool {
		if parseErr != nil {
			return true
		}
		raw := r.Values[idx]
		ts, err := ParseTimestamp(raw)
		if err != nil {
			if n.cfg.Mode == ValidateStrict {
				parseErr = &ParseError{Line: r.Line, Column: ColTimestamp, Value: raw, Err: err}
				return true
			}
			if n.cfg.Mode == ValidateWarn {
				LogWarn("Dropping line %d: invalid timestamp %q", r.Line, raw)
			}
			return false
		}
		r.Time = ts
		r.Values[idx] = FormatTimestamp(ts)
		return true
	})
	if parseErr != nil {
		return 0, parseErr
	}
	return dropped, nil
}

// NormalizeCategoricals canonicalizes event_type, status, severity,
// user_id and source_ip
func (n *Normalizer) NormalizeCategoricals(t *Table, stats *NormalizeStats) error {
	if idx := t.ColumnIndex(ColEventType); idx >= 0 {
		for _, r := range t.Rows {
			r.Values[idx] = orUnknown(NormalizeText(r.Values[idx]))
		}
	}

	if idx := t.ColumnIndex(ColUserID); idx >= 0 {
		for _, r := range t.Rows {
			r.Values[idx] = orUnknown(NormalizeText(r.Values[idx]))
		}
	}

	if idx := t.ColumnIndex(ColSourceIP); idx >= 0 {
		for _, r := range t.Rows {
			if r.Values[idx] == "" {
				r.Values[idx] = DefaultSourceIP
			}
		}
	}

	if err := n.applyVocabulary(t, n.status, false, stats); err != nil {
		return err
	}
	// Out-of-vocabulary severities are kept for the drop filter when it is on
	return n.applyVocabulary(t, n.severity, n.cfg.DropUnknownSeverity, stats)
}

// applyVocabulary maps a column through its vocabulary. Values outside the
// vocabulary are collected and handled according to the validation mode,
// unless keepViolations is set.
func (n *Normalizer) applyVocabulary(t *Table, v *Vocabulary, keepViolations bool, stats *NormalizeStats) error {
	idx := t.ColumnIndex(v.Column)
	if idx < 0 {
		return nil
	}

	violations := make(map[string]int)
	for _, r := range t.Rows {
		canonical, ok, corrected := v.Canonical(r.Values[idx])
		if corrected {
			stats.TyposCorrected[v.Column]++
		}
		if !ok {
			violations[canonical]++
			if !keepViolations {
				canonical = Unknown
			}
		}
		r.Values[idx] = canonical
	}

	if len(violations) == 0 || keepViolations {
		return nil
	}

	values := make([]string, 0, len(violations))
	total := 0
	for val, count := range violations {
		values = append(values, val)
		total += count
	}
	sort.Strings(values)

	switch n.cfg.Mode {
	case ValidateStrict:
		return &VocabularyError{Column: v.Column, Values: values}
	case ValidateWarn:
		LogWarn("Coerced %d %s value(s) outside the vocabulary to %q: %v", total, v.Column, Unknown, values)
	}
	stats.Coerced[v.Column] += total
	return nil
}

// dropUnknownSeverity removes rows whose severity is not a known level
func (n *Normalizer) dropUnknownSeverity(t *Table) int {
	idx := t.ColumnIndex(ColSeverity)
	if idx < 0 {
		return 0
	}
	return t.Filter(func(r *Row) bool {
		_, known := SeverityScores[r.Values[idx]]
		return known
	})
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
