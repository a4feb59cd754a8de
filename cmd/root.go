package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/iksnae/secpipe/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose   bool
	cfgFile   string
	logFormat string
	version   string = "dev"
	commit    string = "unknown"
	date      string = "unknown"

	// settings holds the merged flag, env and config-file values for the current command
	settings = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "secpipe",
	Short: "Clean, normalize and enrich security event logs",
	Long: `A batch pipeline that turns raw security event logs into an
analysis-ready table.

Stages:
  • Cleaning: required columns, missing values, duplicate events
  • Normalization: UTC timestamps, canonical status and severity
  • Feature engineering: severity scores, per-user activity, sessions
  • Validation: a final schema check (off, warn or strict)

Every option can also be set through SECPIPE_<OPTION> environment
variables (dashes become underscores), a .env file, or --config.

Quick Start:
  secpipe run                                  # data/raw_events.csv -> data/processed_events.csv
  secpipe run --input in.csv --summary         # print a run summary
  secpipe inspect data/raw_events.csv          # look at a raw file
  secpipe check --input in.csv --output out.csv`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)
		switch logFormat {
		case "console", "json":
			internal.SetLogFormat(logFormat)
		default:
			return fmt.Errorf("unsupported log format: %s (supported: console, json)", logFormat)
		}
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		settings = s
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	internal.SyncLogger()
	if err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		stop()
		os.Exit(1)
	}
}

// loadSettings layers the command's flags over SECPIPE_* environment
// variables, over the optional config file
func loadSettings(cmd *cobra.Command) (*viper.Viper, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SECPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, &internal.IOError{Path: cfgFile, Op: "read", Err: err}
		}
		internal.LogDebug("Loaded config file %s", v.ConfigFileUsed())
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file with option defaults")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log encoding (console, json)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
