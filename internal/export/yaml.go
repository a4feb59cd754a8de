package export

import (
	"io"

	"github.com/iksnae/secpipe/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports the table as a YAML sequence of events
type YAMLExporter struct{}

// Export writes every event as a mapping in column order
func (e *YAMLExporter) Export(t *internal.Table, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	// Build nodes directly so keys keep the column order
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, c := range t.Columns {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Values[i]},
			)
		}
		seq.Content = append(seq.Content, m)
	}

	return enc.Encode(seq)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
