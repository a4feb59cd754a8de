package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/secpipe/internal"
	"github.com/iksnae/secpipe/internal/ingest"
	"github.com/spf13/cobra"
)

// ColumnInfo describes one raw column
type ColumnInfo struct {
	Name     string `json:"name"`
	Missing  int    `json:"missing"`
	Distinct int    `json:"distinct"`
	Required bool   `json:"required"`
}

// InspectResult is the machine-readable output of inspect
type InspectResult struct {
	Path    string                 `json:"path"`
	Rows    int                    `json:"rows"`
	Columns []ColumnInfo           `json:"columns"`
	Sample  []map[string]string    `json:"sample"`
	Issues  []internal.SchemaIssue `json:"issues"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "Inspect the columns and quality of a raw event log",
	Long: `Inspect a raw event log without processing it.

This command reports:
  • Columns, with missing and distinct value counts
  • Row count
  • Sample rows
  • Schema issues against the required event columns

Examples:
  secpipe inspect data/raw_events.csv
  secpipe inspect events.db --input-table events --format json --sample 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delimiter, err := ingest.ParseDelimiter(settings.GetString("delimiter"))
		if err != nil {
			return err
		}

		t, err := ingest.Load(args[0], ingest.Options{
			Delimiter: delimiter,
			Table:     settings.GetString("input-table"),
		})
		if err != nil {
			return err
		}

		result := inspectTable(args[0], t, settings.GetInt("sample"))

		switch settings.GetString("format") {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		case "text", "":
			renderInspect(cmd.OutOrStdout(), result)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json)", settings.GetString("format"))
		}
	},
}

func inspectTable(path string, t *internal.Table, sample int) *InspectResult {
	required := make(map[string]bool, len(internal.RequiredColumns))
	for _, c := range internal.RequiredColumns {
		required[c] = true
	}

	result := &InspectResult{
		Path:    path,
		Rows:    t.Len(),
		Columns: make([]ColumnInfo, 0, len(t.Columns)),
		Sample:  []map[string]string{},
		Issues:  internal.ValidateSchema(t, internal.RequiredColumns),
	}

	for idx, name := range t.Columns {
		info := ColumnInfo{Name: name, Required: required[name]}
		distinct := make(map[string]struct{})
		for _, r := range t.Rows {
			v := strings.TrimSpace(r.Values[idx])
			if v == "" {
				info.Missing++
				continue
			}
			distinct[v] = struct{}{}
		}
		info.Distinct = len(distinct)
		result.Columns = append(result.Columns, info)
	}

	for i := 0; i < sample && i < t.Len(); i++ {
		row := make(map[string]string, len(t.Columns))
		for idx, name := range t.Columns {
			row[name] = t.Rows[i].Values[idx]
		}
		result.Sample = append(result.Sample, row)
	}

	if result.Issues == nil {
		result.Issues = []internal.SchemaIssue{}
	}
	return result
}

func renderInspect(out io.Writer, result *InspectResult) {
	fmt.Fprintln(out, sectionStyle.Render("Event log: "+result.Path))
	fmt.Fprintf(out, "Rows: %d\nColumns: %d\n\n", result.Rows, len(result.Columns))

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "COLUMN\tMISSING\tDISTINCT\tREQUIRED\t")
	for _, c := range result.Columns {
		req := ""
		if c.Required {
			req = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\t\n", c.Name, c.Missing, c.Distinct, req)
	}
	_ = w.Flush()

	if len(result.Sample) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sectionStyle.Render("Sample rows"))
		for i, row := range result.Sample {
			parts := make([]string, 0, len(result.Columns))
			for _, c := range result.Columns {
				parts = append(parts, fmt.Sprintf("%s=%s", c.Name, row[c.Name]))
			}
			fmt.Fprintf(out, "  [%d] %s\n", i+1, strings.Join(parts, " "))
		}
	}

	fmt.Fprintln(out)
	if len(result.Issues) == 0 {
		fmt.Fprintln(out, successStyle.Render("No schema issues"))
		return
	}
	fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("%d schema issue(s)", len(result.Issues))))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "  • %s\n", issue.String())
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("format", "text", "Output format (text, json)")
	inspectCmd.Flags().Int("sample", 3, "Number of sample rows to show")
	inspectCmd.Flags().String("input-table", ingest.DefaultTable, "Table to read from SQLite input")
	inspectCmd.Flags().String("delimiter", "", "Field delimiter (default from extension)")
}
