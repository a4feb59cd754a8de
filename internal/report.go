package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ReportVersion is bumped when the report layout changes
const ReportVersion = "1.0"

// ReportMetadata describes the files a run read and wrote
type ReportMetadata struct {
	InputPath     string    `yaml:"input_path"`
	InputModTime  time.Time `yaml:"input_mod_time"`
	InputSize     int64     `yaml:"input_size"`
	OutputPath    string    `yaml:"output_path"`
	OutputFormat  string    `yaml:"output_format"`
	ReportVersion string    `yaml:"report_version"`
	CreatedAt     time.Time `yaml:"created_at"`
}

// RunReport is the YAML record of one pipeline run
type RunReport struct {
	Metadata ReportMetadata `yaml:"metadata"`
	Summary  *Summary       `yaml:"summary"`
}

// NewRunReport builds a report for a finished run
func NewRunReport(inputPath, outputPath, format string, summary *Summary) (*RunReport, error) {
	report := &RunReport{
		Metadata: ReportMetadata{
			InputPath:     inputPath,
			OutputPath:    outputPath,
			OutputFormat:  format,
			ReportVersion: ReportVersion,
			CreatedAt:     time.Now().UTC(),
		},
		Summary: summary,
	}
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, &IOError{Path: inputPath, Op: "stat", Err: err}
	}
	report.Metadata.InputModTime = info.ModTime().UTC()
	report.Metadata.InputSize = info.Size()
	return report, nil
}

// SaveRunReport writes the report as YAML, creating the parent directory
func SaveRunReport(path string, report *RunReport) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Path: dir, Op: "create", Err: err}
		}
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &IOError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// LoadRunReport reads a report written by SaveRunReport
func LoadRunReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Op: "read", Err: err}
	}
	var report RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// MatchesInput reports whether the input file is unchanged since the run
func (r *RunReport) MatchesInput(inputPath string) bool {
	if r.Metadata.InputPath != inputPath {
		return false
	}
	info, err := os.Stat(inputPath)
	if err != nil {
		return false
	}
	return info.Size() == r.Metadata.InputSize && info.ModTime().UTC().Equal(r.Metadata.InputModTime)
}
