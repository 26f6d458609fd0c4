package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm/prosescan/internal/readability"
)

var hardOnly bool

var sentencesCmd = &cobra.Command{
	Use:   "sentences [path|url|-]",
	Short: "List each sentence with its difficulty",
	Long: `Split a document into sentences and rate each one easy, hard or
very-hard from its Flesch score and length.

Examples:
  prosescan sentences draft.md
  prosescan sentences --hard draft.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSentences,
}

func init() {
	sentencesCmd.Flags().BoolVar(&hardOnly, "hard", false, "Only show hard and very hard sentences")
	sentencesCmd.Flags().StringVar(&stdinType, "stdin-type", "plain", "How to parse stdin (plain, markdown, html, pdf)")
	RootCmd.AddCommand(sentencesCmd)
}

func runSentences(cmd *cobra.Command, args []string) error {
	doc, err := loadSingle(cmd, args, inputOptions{stdinType: stdinType, timeout: fetchTimeout})
	if err != nil {
		return err
	}

	var all []readability.SentenceResult
	for _, b := range doc.Blocks {
		all = append(all, readability.AnalyzeSentences(b.Text)...)
	}

	shown := make([]readability.SentenceResult, 0, len(all))
	for _, r := range all {
		if r.Metrics == nil || (hardOnly && r.Tier == readability.Easy) {
			continue
		}
		shown = append(shown, r)
	}

	u := GetUI(cmd)
	if u.IsJSON() {
		enc := json.NewEncoder(u.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	}

	s := u.Styles
	for _, r := range shown {
		fmt.Fprintf(u.Writer, "%s %s\n", s.Tier(r.Tier).Render(fmt.Sprintf("%-9s", r.Tier)), strings.TrimSpace(r.Text()))
		fmt.Fprintln(u.Writer, s.Subheader.Render(fmt.Sprintf("          words %d  flesch %.1f  grade %.1f",
			r.Metrics.WordCount, r.Metrics.Flesch, r.Metrics.ColemanLiau)))
	}

	counts := readability.CountTiers(all)
	fmt.Fprintf(u.Writer, "\n%d easy, %d hard, %d very hard\n",
		counts[readability.Easy], counts[readability.Hard], counts[readability.VeryHard])
	return nil
}
