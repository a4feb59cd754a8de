package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/secpipe/internal"
)

// JSONLExporter exports the table in JSONL format (one event per line)
type JSONLExporter struct{}

// Export writes one JSON object per row
func (e *JSONLExporter) Export(t *internal.Table, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, r := range t.Rows {
		if err := enc.Encode(rowObject(t, r)); err != nil {
			return fmt.Errorf("failed to encode line %d: %w", r.Line, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

// rowObject maps column names to values. Encoders sort the keys, which
// keeps the output deterministic.
func rowObject(t *internal.Table, r *internal.Row) map[string]string {
	obj := make(map[string]string, len(t.Columns))
	for i, c := range t.Columns {
		obj[c] = r.Values[i]
	}
	return obj
}
