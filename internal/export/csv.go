package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/iksnae/secpipe/internal"
)

// CSVExporter exports the table as delimited text with a header line
type CSVExporter struct {
	Delimiter rune
}

// Export writes the header and every row
func (e *CSVExporter) Export(t *internal.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if e.Delimiter != 0 {
		cw.Comma = e.Delimiter
	}

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range t.Rows {
		if err := cw.Write(r.Values); err != nil {
			return fmt.Errorf("failed to write line %d: %w", r.Line, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	if e.Delimiter == '\t' {
		return "tsv"
	}
	return "csv"
}
