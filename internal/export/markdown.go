package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/secpipe/internal"
)

// MarkdownExporter exports the table as a Markdown table
type MarkdownExporter struct{}

// Export writes a header, a separator and one table line per event
func (e *MarkdownExporter) Export(t *internal.Table, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Processed events\n\n**Events:** %d  \n**Columns:** %d\n\n", t.Len(), len(t.Columns)); err != nil {
		return err
	}

	header := make([]string, len(t.Columns))
	sep := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = escapeCell(c)
		sep[i] = "---"
	}
	if _, err := fmt.Fprintf(w, "| %s |\n| %s |\n", strings.Join(header, " | "), strings.Join(sep, " | ")); err != nil {
		return err
	}

	cells := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, v := range r.Values {
			cells[i] = escapeCell(v)
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | ")); err != nil {
			return err
		}
	}
	return nil
}

// escapeCell keeps values from breaking the table layout
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "\r\n", " ")
	return strings.ReplaceAll(text, "\n", " ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
