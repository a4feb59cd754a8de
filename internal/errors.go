package internal

import (
	"fmt"
	"strings"
)

// SchemaError represents missing required columns or failed schema checks
type SchemaError struct {
	Columns []string // missing columns
	Issues  []SchemaIssue
}

func (e *SchemaError) Error() string {
	if len(e.Columns) > 0 {
		return fmt.Sprintf("schema error: missing required columns: %s", strings.Join(e.Columns, ", "))
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("schema error: %s", strings.Join(parts, "; "))
}

// ParseError represents a value that could not be parsed
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error at line %d [%s] %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// VocabularyError represents categorical values outside the known vocabulary
type VocabularyError struct {
	Column string
	Values []string
}

func (e *VocabularyError) Error() string {
	return fmt.Sprintf("vocabulary violation [%s]: unknown values %s", e.Column, strings.Join(e.Values, ", "))
}

// IOError represents errors reading the input or writing the output
type IOError struct {
	Path string
	Op   string // "open", "read", "write", "create"
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// StageError names the pipeline stage a failure came from
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
