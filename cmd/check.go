package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/secpipe/internal"
	"github.com/iksnae/secpipe/internal/ingest"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that a pipeline run can read its input and write its output",
	Long: `Check the health of a pipeline run by verifying:
  • The input file can be read
  • The required event columns are present
  • How many timestamps parse
  • The output location is writable
  • Whether a previous run report still matches the input (with --report)

Nothing is processed or written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		input := settings.GetString("input")
		output := settings.GetString("output")
		detail := settings.GetBool("detail")
		failed := false

		fmt.Fprintln(out, sectionStyle.Render("Pipeline Health Check"))
		fmt.Fprintln(out)

		// Step 1: Read the input
		fmt.Fprintln(out, infoStyle.Render("Step 1: Reading input..."))
		delimiter, err := ingest.ParseDelimiter(settings.GetString("delimiter"))
		if err != nil {
			return err
		}
		t, err := ingest.Load(input, ingest.Options{Delimiter: delimiter, Table: settings.GetString("input-table")})
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Input is not readable:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Read %d row(s) and %d column(s)", t.Len(), len(t.Columns))))
		if detail {
			fmt.Fprintf(out, "   Path: %s\n", input)
			fmt.Fprintf(out, "   Columns: %v\n", t.Columns)
		}
		fmt.Fprintln(out)

		// Step 2: Required columns
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking required columns..."))
		var missing []string
		for _, c := range internal.RequiredColumns {
			if !t.HasColumn(c) {
				missing = append(missing, c)
			}
		}
		if len(missing) == 0 {
			fmt.Fprintln(out, successStyle.Render("✅ All required columns present"))
		} else {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  Missing %d required column(s): %v", len(missing), missing)))
			fmt.Fprintln(out, "   They are synthesized under --validate warn/off and fail under strict")
		}
		fmt.Fprintln(out)

		// Step 3: Timestamp parse rate
		fmt.Fprintln(out, infoStyle.Render("Step 3: Parsing timestamps..."))
		parsed, total := timestampParseRate(t)
		switch {
		case total == 0:
			fmt.Fprintln(out, warningStyle.Render("⚠️  No timestamps to parse"))
		case parsed == total:
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %d/%d timestamp(s) parse", parsed, total)))
		default:
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  %d/%d timestamp(s) parse (%.1f%%)", parsed, total, 100*float64(parsed)/float64(total))))
			fmt.Fprintln(out, "   Unparseable rows are dropped under warn/off and fail under strict")
		}
		fmt.Fprintln(out)

		// Step 4: Output location
		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking output location..."))
		if err := checkWritable(output); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Output location is not writable:"), err)
			failed = true
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Output location is writable"))
			if detail {
				fmt.Fprintf(out, "   Path: %s\n", output)
			}
		}
		fmt.Fprintln(out)

		// Step 5: Previous run report
		if reportPath := settings.GetString("report"); reportPath != "" {
			fmt.Fprintln(out, infoStyle.Render("Step 5: Checking previous run report..."))
			checkReport(out, reportPath, input)
			fmt.Fprintln(out)
		}

		fmt.Fprintln(out, sectionStyle.Render("Summary"))
		fmt.Fprintln(out)
		if failed {
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			return fmt.Errorf("health check failed: output %s is not writable", output)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func timestampParseRate(t *internal.Table) (parsed, total int) {
	idx := t.ColumnIndex(internal.ColTimestamp)
	if idx < 0 {
		return 0, 0
	}
	for _, r := range t.Rows {
		total++
		if _, err := internal.ParseTimestamp(r.Values[idx]); err == nil {
			parsed++
		}
	}
	return parsed, total
}

// checkWritable probes the nearest existing ancestor of output with a temp
// file. Directories that do not exist yet are not created.
func checkWritable(output string) error {
	dir := filepath.Dir(output)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			break
		}
		if !os.IsNotExist(err) {
			return err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return err
		}
		dir = parent
	}

	f, err := os.CreateTemp(dir, ".secpipe-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func checkReport(out io.Writer, reportPath, input string) {
	report, err := internal.LoadRunReport(reportPath)
	if err != nil {
		fmt.Fprintln(out, warningStyle.Render("⚠️  No readable run report:"), err)
		return
	}
	if report.MatchesInput(input) {
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Report from %s matches the current input", report.Metadata.CreatedAt.Format("2006-01-02 15:04"))))
		return
	}
	fmt.Fprintln(out, warningStyle.Render("⚠️  Input changed since the last report, rerun the pipeline"))
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("input", "i", defaultInput, "Raw event log to check")
	checkCmd.Flags().StringP("output", "o", defaultOutput, "Output file to check")
	checkCmd.Flags().String("delimiter", "", "Field delimiter (default from extension)")
	checkCmd.Flags().String("input-table", ingest.DefaultTable, "Table to read from SQLite input")
	checkCmd.Flags().String("report", "", "Previous run report to compare against the input")
	checkCmd.Flags().Bool("detail", false, "Show detailed diagnostic information")
}
