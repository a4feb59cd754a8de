package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/secpipe/internal"
)

// JSONExporter exports the table as a pretty-printed JSON document
type JSONExporter struct{}

type jsonDocument struct {
	Columns []string            `json:"columns"`
	Events  []map[string]string `json:"events"`
}

// Export writes the column list and every event as an object
func (e *JSONExporter) Export(t *internal.Table, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	doc := jsonDocument{Columns: t.Columns, Events: make([]map[string]string, 0, t.Len())}
	for _, r := range t.Rows {
		doc.Events = append(doc.Events, rowObject(t, r))
	}
	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
