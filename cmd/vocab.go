package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/secpipe/internal"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// vocabCmd represents the vocab command
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Show the canonical severity and status vocabularies",
	Long: `Show the canonical severity levels with their scores, the status
values, and every synonym that maps onto them.

Values are case folded and have spaces and dashes turned into
underscores before lookup. Near misses of a known token (for example
"critcal") are corrected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, headerStyle.Render("Severity levels"))
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("LEVEL")+"\t"+titleStyle.Render("SCORE")+"\t")
		for _, level := range internal.SeverityLevels {
			_, _ = fmt.Fprintf(w, "%s\t%s\t\n", level, countStyle.Render(strconv.Itoa(internal.SeverityScores[level])))
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", internal.Unknown, "-")
		_ = w.Flush()
		fmt.Fprintln(out)

		fmt.Fprintln(out, headerStyle.Render("Status values"))
		for _, s := range internal.StatusValues {
			fmt.Fprintf(out, "%s\n", s)
		}
		fmt.Fprintln(out, internal.Unknown)
		fmt.Fprintln(out)

		if !settings.GetBool("synonyms") {
			return nil
		}

		for _, v := range []*internal.Vocabulary{internal.SeverityVocabulary(), internal.StatusVocabulary()} {
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s synonyms", v.Column)))
			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(w, titleStyle.Render("TOKEN")+"\t"+titleStyle.Render("CANONICAL")+"\t")
			for _, pair := range v.Synonyms() {
				_, _ = fmt.Fprintf(w, "%s\t%s\t\n", pair[0], pair[1])
			}
			_ = w.Flush()
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.Flags().Bool("synonyms", true, "List every synonym")
}
