package internal

import (
	"reflect"
	"testing"
)

func TestDeduplicator_Deduplicate(t *testing.T) {
	tests := []struct {
		name        string
		records     [][]string
		wantRemoved int
		wantFirst   []string
	}{
		{
			name:        "no duplicates",
			records:     [][]string{{"1", "a"}, {"2", "b"}},
			wantRemoved: 0,
			wantFirst:   []string{"1", "2"},
		},
		{
			name:        "exact duplicates keep first",
			records:     [][]string{{"1", "a"}, {"2", "b"}, {"1", "a"}, {"1", "a"}},
			wantRemoved: 2,
			wantFirst:   []string{"1", "2"},
		},
		{
			name:        "split values are not merged",
			records:     [][]string{{"ab", "c"}, {"a", "bc"}},
			wantRemoved: 0,
			wantFirst:   []string{"ab", "a"},
		},
		{
			name:        "empty table",
			records:     nil,
			wantRemoved: 0,
			wantFirst:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTestTable([]string{"x", "y"}, tt.records...)
			d := NewDeduplicator()

			removed := d.Deduplicate(table)
			if removed != tt.wantRemoved {
				t.Errorf("Deduplicate() removed = %d, want %d", removed, tt.wantRemoved)
			}
			if got := column(table, "x"); !reflect.DeepEqual(got, tt.wantFirst) {
				t.Errorf("remaining x = %v, want %v", got, tt.wantFirst)
			}
		})
	}
}

func TestDeduplicator_DeduplicateByKey(t *testing.T) {
	table := newTestTable([]string{"id", "v"},
		[]string{"e1", "first"},
		[]string{"e2", "x"},
		[]string{"e1", "second"},
		[]string{"", "a"},
		[]string{"", "b"},
	)

	removed := NewDeduplicator().DeduplicateByKey(table, "id")

	if removed != 1 {
		t.Errorf("DeduplicateByKey() removed = %d, want 1", removed)
	}
	if got := column(table, "v"); !reflect.DeepEqual(got, []string{"first", "x", "a", "b"}) {
		t.Errorf("remaining = %v", got)
	}
}

func TestDeduplicator_DeduplicateByKey_MissingColumn(t *testing.T) {
	table := newTestTable([]string{"v"}, []string{"a"}, []string{"a"})
	if removed := NewDeduplicator().DeduplicateByKey(table, "id"); removed != 0 {
		t.Errorf("DeduplicateByKey() removed = %d, want 0", removed)
	}
}

func TestDeduplicator_HashValues(t *testing.T) {
	d := NewDeduplicator()

	a := d.hashValues([]string{"e1", "alice"})
	b := d.hashValues([]string{"e1", "alice"})
	c := d.hashValues([]string{"e1a", "lice"})

	if a != b {
		t.Error("hashValues() is not deterministic")
	}
	if a == c {
		t.Error("hashValues() ignores field boundaries")
	}
}
