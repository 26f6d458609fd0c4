package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pthm/prosescan/internal/readability"
)

var countCmd = &cobra.Command{
	Use:   "count [path|url|-]",
	Short: "Count the words in a document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCount,
}

func init() {
	countCmd.Flags().StringVar(&stdinType, "stdin-type", "plain", "How to parse stdin (plain, markdown, html, pdf)")
	RootCmd.AddCommand(countCmd)
}

type countOutput struct {
	Path       string `json:"path"`
	Words      int    `json:"words"`
	Sentences  int    `json:"sentences"`
	Characters int    `json:"characters"`
}

func runCount(cmd *cobra.Command, args []string) error {
	doc, err := loadSingle(cmd, args, inputOptions{stdinType: stdinType, timeout: fetchTimeout})
	if err != nil {
		return err
	}

	text := doc.Text()
	m := readability.ScoreText(text)
	out := countOutput{
		Path:       doc.Path,
		Words:      readability.CountWords(text),
		Sentences:  m.SentenceCount,
		Characters: m.CharacterCount,
	}

	u := GetUI(cmd)
	if u.IsJSON() {
		enc := json.NewEncoder(u.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(u.Writer, "Word count: %d\n", out.Words)
	return nil
}
