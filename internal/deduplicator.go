package internal

import (
	"slices"

	"github.com/spaolacci/murmur3"
)

// Deduplicator removes duplicate rows, keeping the first occurrence
type Deduplicator struct{}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

type fingerprint struct {
	hi, lo uint64
}

// Deduplicate removes rows that are identical across all columns.
// It returns the number of rows removed.
func (d *Deduplicator) Deduplicate(t *Table) int {
	seen := make(map[fingerprint][]*Row)
	return t.Filter(func(r *Row) bool {
		fp := d.hashValues(r.Values)
		for _, prev := range seen[fp] {
			// Fingerprints can collide, so confirm with the values
			if slices.Equal(prev.Values, r.Values) {
				return false
			}
		}
		seen[fp] = append(seen[fp], r)
		return true
	})
}

// DeduplicateByKey removes rows sharing a non-empty value in column.
// Rows with an empty key are always kept.
func (d *Deduplicator) DeduplicateByKey(t *Table, column string) int {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return 0
	}
	seen := make(map[string]bool)
	return t.Filter(func(r *Row) bool {
		key := r.Values[idx]
		if key == "" {
			return true
		}
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}

// hashValues creates a 128-bit fingerprint of a row's values
func (d *Deduplicator) hashValues(values []string) fingerprint {
	h := murmur3.New128()
	for _, v := range values {
		h.Write([]byte(v))
		// Unit separator keeps ("ab","c") and ("a","bc") apart
		h.Write([]byte{0x1f})
	}
	hi, lo := h.Sum128()
	return fingerprint{hi: hi, lo: lo}
}
