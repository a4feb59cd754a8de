package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/iksnae/secpipe/internal"
)

// Compression values accepted by WriteOptions
const (
	CompressNone   = "none"
	CompressSnappy = "snappy"
)

// WriteOptions controls how WriteFile writes the output
type WriteOptions struct {
	// Format is an export format name; empty means infer from the path
	Format string
	// Compress is "none" or "snappy"
	Compress string
	// Delimiter overrides the csv delimiter
	Delimiter rune
	// Table is the SQLite table for sqlite output
	Table string
}

// WriteFile exports t to path, creating the parent directory if needed.
// The output is written to a temporary file and renamed into place.
func WriteFile(t *internal.Table, path string, opts WriteOptions) error {
	format := opts.Format
	if format == "" {
		format = FormatFromPath(path)
	}
	exporter, err := NewExporter(format)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if c, ok := exporter.(*CSVExporter); ok && opts.Delimiter != 0 {
		c.Delimiter = opts.Delimiter
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &internal.IOError{Path: dir, Op: "create", Err: err}
		}
	}

	if fe, ok := exporter.(FileExporter); ok {
		if opts.Compress != "" && opts.Compress != CompressNone {
			return &internal.ExportError{Format: format, Path: path, Err: fmt.Errorf("compression is not supported for %s output", format)}
		}
		if s, ok := fe.(*SQLiteExporter); ok && opts.Table != "" {
			s.Table = opts.Table
		}
		return exportFile(fe, t, path, format)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &internal.IOError{Path: path, Op: "create", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := writeStream(exporter, t, tmp, opts.Compress); err != nil {
		tmp.Close()
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &internal.IOError{Path: path, Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &internal.IOError{Path: path, Op: "write", Err: err}
	}
	internal.LogDebug("Wrote %d row(s) to %s as %s", t.Len(), path, format)
	return nil
}

// exportFile runs a FileExporter. A new file is built under a temporary
// name and renamed into place; an existing file is updated in place.
func exportFile(fe FileExporter, t *internal.Table, path, format string) error {
	target := path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
		if err != nil {
			return &internal.IOError{Path: path, Op: "create", Err: err}
		}
		target = tmp.Name()
		_ = tmp.Close()
		defer os.Remove(target)
	}

	if err := fe.ExportFile(t, target); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if target != path {
		if err := os.Rename(target, path); err != nil {
			return &internal.IOError{Path: path, Op: "write", Err: err}
		}
	}
	internal.LogDebug("Wrote %d row(s) to %s as %s", t.Len(), path, format)
	return nil
}

// Write exports t to w, optionally snappy-compressed
func Write(t *internal.Table, w io.Writer, format, compress string) error {
	exporter, err := NewExporter(format)
	if err != nil {
		return err
	}
	if _, ok := exporter.(FileExporter); ok {
		return fmt.Errorf("%s output needs a file path", format)
	}
	return writeStream(exporter, t, w, compress)
}

func writeStream(exporter Exporter, t *internal.Table, w io.Writer, compress string) error {
	switch compress {
	case "", CompressNone:
		return exporter.Export(t, w)
	case CompressSnappy:
		sw := snappy.NewBufferedWriter(w)
		if err := exporter.Export(t, sw); err != nil {
			return err
		}
		return sw.Close()
	default:
		return fmt.Errorf("unsupported compression: %s (supported: none, snappy)", compress)
	}
}
