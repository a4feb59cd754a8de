package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// CleanStats records what the Cleaner changed
type CleanStats struct {
	RowsIn              int            `json:"rows_in" yaml:"rows_in"`
	RowsOut             int            `json:"rows_out" yaml:"rows_out"`
	SynthesizedColumns  []string       `json:"synthesized_columns,omitempty" yaml:"synthesized_columns,omitempty"`
	MissingFilled       map[string]int `json:"missing_filled,omitempty" yaml:"missing_filled,omitempty"`
	DroppedMissingID    int            `json:"dropped_missing_id" yaml:"dropped_missing_id"`
	DuplicatesRemoved   int            `json:"duplicates_removed" yaml:"duplicates_removed"`
	DuplicateIDsRemoved int            `json:"duplicate_ids_removed" yaml:"duplicate_ids_removed"`
}

// Cleaner validates required columns, fills missing values and removes duplicates
type Cleaner struct {
	cfg   Config
	dedup *Deduplicator
}

// NewCleaner creates a new Cleaner
func NewCleaner(cfg Config) *Cleaner {
	return &Cleaner{cfg: cfg, dedup: NewDeduplicator()}
}

// Clean runs column validation, missing-value handling and de-duplication
// in that order. The table is modified in place and returned.
func (c *Cleaner) Clean(t *Table) (*Table, CleanStats, error) {
	stats := CleanStats{RowsIn: t.Len(), MissingFilled: map[string]int{}}

	synthesized, err := c.ValidateColumns(t)
	if err != nil {
		return nil, stats, err
	}
	stats.SynthesizedColumns = synthesized

	trimCells(t)

	stats.DroppedMissingID = c.dropMissingIDs(t)
	if stats.DroppedMissingID > 0 {
		LogWarn("Dropped %d row(s) without %s", stats.DroppedMissingID, ColEventID)
	}

	for col, n := range c.FillMissing(t) {
		stats.MissingFilled[col] = n
	}

	stats.DuplicatesRemoved = c.dedup.Deduplicate(t)
	stats.DuplicateIDsRemoved = c.dedup.DeduplicateByKey(t, ColEventID)

	stats.RowsOut = t.Len()
	Logger().Debug("clean complete",
		zap.Int("rows_in", stats.RowsIn),
		zap.Int("rows_out", stats.RowsOut),
		zap.Int("duplicates", stats.DuplicatesRemoved),
		zap.Int("duplicate_ids", stats.DuplicateIDsRemoved),
	)
	return t, stats, nil
}

// ValidateColumns checks the required columns exist. Missing columns fail
// the run under strict mode and are synthesized with defaults otherwise.
func (c *Cleaner) ValidateColumns(t *Table) ([]string, error) {
	var missing []string
	for _, col := range c.cfg.required() {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}
	if c.cfg.Mode == ValidateStrict {
		return nil, &SchemaError{Columns: missing}
	}
	if c.cfg.Mode == ValidateWarn {
		LogWarn("Missing required columns %s, synthesizing defaults", strings.Join(missing, ", "))
	}
	for _, col := range missing {
		idx := t.AddColumn(col, synthesizedDefault(col))
		if col == ColEventID {
			for _, r := range t.Rows {
				r.Values[idx] = fmt.Sprintf("evt-%d", r.Line)
			}
		}
	}
	return missing, nil
}

// FillMissing replaces empty values using the per-column policy and
// returns how many values were filled per column
func (c *Cleaner) FillMissing(t *Table) map[string]int {
	filled := make(map[string]int)
	for idx, col := range t.Columns {
		if col == ColEventID || col == ColTimestamp {
			// Missing ids are dropped, missing timestamps are the Normalizer's job
			continue
		}
		fill, ok := c.fillValue(t, idx, col)
		if !ok {
			continue
		}
		for _, r := range t.Rows {
			if r.Values[idx] == "" {
				r.Values[idx] = fill
				filled[col]++
			}
		}
	}
	return filled
}

// fillValue decides the placeholder for a column. ok is false when the
// column has nothing to fill.
func (c *Cleaner) fillValue(t *Table, idx int, col string) (string, bool) {
	var present []string
	missing := 0
	for _, r := range t.Rows {
		if v := r.Values[idx]; v == "" {
			missing++
		} else {
			present = append(present, v)
		}
	}
	if missing == 0 {
		return "", false
	}

	switch col {
	case ColSourceIP:
		return DefaultSourceIP, true
	case ColUserID, ColEventType, ColStatus, ColSeverity:
		return Unknown, true
	}

	if median, ok := numericMedian(present); ok {
		return strconv.FormatFloat(median, 'f', -1, 64), true
	}
	return Unknown, true
}

func (c *Cleaner) dropMissingIDs(t *Table) int {
	idx := t.ColumnIndex(ColEventID)
	if idx < 0 {
		return 0
	}
	return t.Filter(func(r *Row) bool {
		return r.Values[idx] != ""
	})
}

// numericMedian returns the median if every value parses as a number
func numericMedian(values []string) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		nums = append(nums, f)
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return nums[mid], true
	}
	return (nums[mid-1] + nums[mid]) / 2, true
}

func synthesizedDefault(col string) string {
	switch col {
	case ColTimestamp:
		return FormatTimestamp(unixEpoch)
	case ColSourceIP:
		return DefaultSourceIP
	default:
		return Unknown
	}
}

// missingPlaceholders are read as empty values
var missingPlaceholders = map[string]bool{
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"nil":  true,
}

func trimCells(t *Table) {
	for _, r := range t.Rows {
		for i, v := range r.Values {
			v = strings.TrimSpace(v)
			if missingPlaceholders[strings.ToLower(v)] {
				v = ""
			}
			r.Values[i] = v
		}
	}
}
