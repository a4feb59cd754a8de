package cmd

import (
	"fmt"

	"github.com/iksnae/secpipe/internal"
	"github.com/iksnae/secpipe/internal/export"
	"github.com/iksnae/secpipe/internal/ingest"
	"github.com/spf13/cobra"
)

// Default file locations
const (
	defaultInput  = "data/raw_events.csv"
	defaultOutput = "data/processed_events.csv"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline on an event log",
	Long: `Run clean, normalize, feature engineering and the final schema check
on a raw event log, then write the processed table.

The input format follows the extension: .csv, .tsv, .db/.sqlite (read from
--input-table), with a trailing .sz for snappy-framed files. The output
format follows --format or the output extension.

Examples:
  secpipe run
  secpipe run --input logs.tsv --output out/events.jsonl --summary
  secpipe run --validate strict --drop-unknown-severity
  secpipe run --output out/events.csv.sz --compress snappy --report out/report.yaml`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	input := settings.GetString("input")
	output := settings.GetString("output")

	cfg, err := internal.NewConfig(
		settings.GetString("validate"),
		settings.GetInt("session-gap-minutes"),
		settings.GetBool("drop-unknown-severity"),
		settings.GetBool("summary"),
	)
	if err != nil {
		return err
	}

	delimiter, err := ingest.ParseDelimiter(settings.GetString("delimiter"))
	if err != nil {
		return err
	}

	format := settings.GetString("format")
	if format == "" {
		format = export.FormatFromPath(output)
	}

	pipeline, err := internal.NewPipeline(cfg)
	if err != nil {
		return err
	}

	raw, err := ingest.Load(input, ingest.Options{
		Delimiter: delimiter,
		Table:     settings.GetString("input-table"),
	})
	if err != nil {
		return err
	}
	internal.LogInfo("Loaded %d event(s) from %s", raw.Len(), input)

	ctx := cmd.Context()
	processed, summary, err := pipeline.Run(ctx, raw)
	if err != nil {
		return err
	}

	err = internal.ShowProgress(ctx, fmt.Sprintf("Writing %d event(s) to %s", processed.Len(), output), func() error {
		return export.WriteFile(processed, output, export.WriteOptions{
			Format:    format,
			Compress:  settings.GetString("compress"),
			Delimiter: delimiter,
			Table:     settings.GetString("output-table"),
		})
	})
	if err != nil {
		return err
	}

	if cfg.Summary {
		summary.Render(cmd.OutOrStdout())
	} else if n := len(summary.Issues); n > 0 {
		internal.PrintWarning(fmt.Sprintf("%d validation warning(s), rerun with --summary for details", n))
	}

	if reportPath := settings.GetString("report"); reportPath != "" {
		report, err := internal.NewRunReport(input, output, format, summary)
		if err != nil {
			return err
		}
		if err := internal.SaveRunReport(reportPath, report); err != nil {
			return err
		}
		internal.LogInfo("Run report written to %s", reportPath)
	}

	internal.PrintSuccess(fmt.Sprintf("Processed %d event(s) into %s (%d in)", processed.Len(), output, summary.RowsRaw))
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("input", "i", defaultInput, "Raw event log (.csv, .tsv, .db, .sqlite, optional .sz)")
	runCmd.Flags().StringP("output", "o", defaultOutput, "Processed output file")
	runCmd.Flags().StringP("format", "f", "", "Output format (csv, tsv, jsonl, json, yaml, md, sqlite); default from --output")
	runCmd.Flags().String("compress", export.CompressNone, "Output compression (none, snappy)")
	runCmd.Flags().String("delimiter", "", "Field delimiter for delimited input and csv output (default from extension)")
	runCmd.Flags().String("input-table", ingest.DefaultTable, "Table to read from SQLite input")
	runCmd.Flags().String("output-table", export.DefaultSQLiteTable, "Table to write for sqlite output")
	runCmd.Flags().Int("session-gap-minutes", int(internal.DefaultSessionGap.Minutes()), "Inactivity gap in minutes that starts a new session")
	runCmd.Flags().Bool("summary", false, "Print a summary of the run")
	runCmd.Flags().String("validate", string(internal.ValidateWarn), "Validation mode (off, warn, strict)")
	runCmd.Flags().Bool("drop-unknown-severity", false, "Drop events whose severity is not a known level")
	runCmd.Flags().String("report", "", "Write a YAML run report to this path")
}
