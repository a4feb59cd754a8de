package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/secpipe/testutil"
)

func TestRunReport_SaveLoad(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	input := testutil.WriteEventsCSV(t, dir, "raw.csv", testutil.SampleEventsCSV)

	summary := NewSummary(DefaultConfig())
	summary.RowsRaw = 6
	summary.RowsOut = 4

	report, err := NewRunReport(input, filepath.Join(dir, "out.csv"), "csv", summary)
	if err != nil {
		t.Fatalf("NewRunReport() error = %v", err)
	}

	path := filepath.Join(dir, "reports", "run.yaml")
	if err := SaveRunReport(path, report); err != nil {
		t.Fatalf("SaveRunReport() error = %v", err)
	}

	loaded, err := LoadRunReport(path)
	if err != nil {
		t.Fatalf("LoadRunReport() error = %v", err)
	}
	if loaded.Metadata.ReportVersion != ReportVersion {
		t.Errorf("ReportVersion = %q", loaded.Metadata.ReportVersion)
	}
	if loaded.Summary.RunID != summary.RunID || loaded.Summary.RowsOut != 4 {
		t.Errorf("Summary = %+v", loaded.Summary)
	}
	if loaded.Metadata.InputSize != int64(len(testutil.SampleEventsCSV)) {
		t.Errorf("InputSize = %d", loaded.Metadata.InputSize)
	}
	if !loaded.MatchesInput(input) {
		t.Error("MatchesInput() = false for unchanged input")
	}
}

func TestRunReport_MatchesInput(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	input := testutil.WriteEventsCSV(t, dir, "raw.csv", testutil.SampleEventsCSV)

	report, err := NewRunReport(input, "out.csv", "csv", NewSummary(DefaultConfig()))
	if err != nil {
		t.Fatalf("NewRunReport() error = %v", err)
	}

	tests := []struct {
		name   string
		modify func()
		path   string
		want   bool
	}{
		{"unchanged", func() {}, input, true},
		{"other path", func() {}, filepath.Join(dir, "other.csv"), false},
		{
			name: "rewritten",
			modify: func() {
				_ = os.WriteFile(input, []byte(testutil.SampleEventsCSV+"e9,2024-03-01,x,y,success,low,1.1.1.1\n"), 0644)
				later := time.Now().Add(time.Hour)
				_ = os.Chtimes(input, later, later)
			},
			path: input,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.modify()
			if got := report.MatchesInput(tt.path); got != tt.want {
				t.Errorf("MatchesInput(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewRunReport_MissingInput(t *testing.T) {
	_, err := NewRunReport(filepath.Join(testutil.CreateTempDir(t), "gone.csv"), "out.csv", "csv", NewSummary(DefaultConfig()))
	if _, ok := err.(*IOError); !ok {
		t.Errorf("expected IOError, got %v", err)
	}
}

func TestLoadRunReport_Missing(t *testing.T) {
	if _, err := LoadRunReport(filepath.Join(testutil.CreateTempDir(t), "none.yaml")); err == nil {
		t.Error("expected error for missing report")
	}
}
