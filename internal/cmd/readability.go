package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/prosescan/internal/readability"
)

var readabilityCmd = &cobra.Command{
	Use:   "readability [path|url|-]",
	Short: "Score how hard a document is to read",
	Long: `Print the Automated Readability Index, Coleman-Liau Index, Flesch
Reading Ease and SMOG grade of a document, each with its target.

Reads stdin when no argument is given.

Examples:
  prosescan readability README.md
  prosescan readability https://example.com/post
  pbpaste | prosescan readability`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReadability,
}

func init() {
	readabilityCmd.Flags().StringVar(&stdinType, "stdin-type", "plain", "How to parse stdin (plain, markdown, html, pdf)")
	RootCmd.AddCommand(readabilityCmd)
}

type readabilityOutput struct {
	Path     string                      `json:"path"`
	Metrics  readability.DocumentMetrics `json:"metrics"`
	Verdicts []readability.Verdict       `json:"verdicts"`
}

func runReadability(cmd *cobra.Command, args []string) error {
	doc, err := loadSingle(cmd, args, inputOptions{stdinType: stdinType, timeout: fetchTimeout})
	if err != nil {
		return err
	}

	m := readability.ScoreText(doc.Text())
	verdicts := readability.Verdicts(m)

	u := GetUI(cmd)
	if u.IsJSON() {
		enc := json.NewEncoder(u.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(readabilityOutput{Path: doc.Path, Metrics: m, Verdicts: verdicts})
	}

	s := u.Styles
	w := u.Writer
	rule := s.Separator.Render("────────────────────")

	fmt.Fprintln(w, s.Header.Render("Readability Analysis"))
	fmt.Fprintln(w, rule)
	for _, v := range verdicts {
		icon, style := s.IconWarning, s.Warning
		if v.Great {
			icon, style = s.IconSuccess, s.Success
		}
		fmt.Fprintf(w, "%s %s: %.1f %s\n", style.Render(icon), v.Name, v.Score, s.Subheader.Render("("+v.Target+")"))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Word Count: %d\n", m.WordCount)
	fmt.Fprintf(w, "Sentence Count: %d\n", m.SentenceCount)
	return nil
}
