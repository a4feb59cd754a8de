package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iksnae/secpipe/internal"
)

// Exporter defines the interface for all stream export formats
type Exporter interface {
	Export(t *internal.Table, w io.Writer) error
	Extension() string
}

// FileExporter is implemented by formats that need a file path rather than a stream
type FileExporter interface {
	ExportFile(t *internal.Table, path string) error
	Extension() string
}

// Formats lists the supported export formats
var Formats = []string{"csv", "tsv", "jsonl", "json", "yaml", "md", "sqlite"}

// NewExporter creates a new exporter based on format. SQLite output is
// returned as a FileExporter wrapped in an Exporter that refuses streams.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "csv":
		return &CSVExporter{Delimiter: ','}, nil
	case "tsv":
		return &CSVExporter{Delimiter: '\t'}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "sqlite", "db":
		return &SQLiteExporter{Table: DefaultSQLiteTable}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// FormatFromPath infers the export format from a file extension,
// ignoring a trailing .sz. Unknown extensions fall back to csv.
func FormatFromPath(path string) string {
	base := strings.TrimSuffix(strings.ToLower(path), ".sz")
	switch filepath.Ext(base) {
	case ".tsv":
		return "tsv"
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".md", ".markdown":
		return "md"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	default:
		return "csv"
	}
}
