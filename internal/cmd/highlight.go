package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm/prosescan/internal/fetch"
	"github.com/pthm/prosescan/internal/highlight"
	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/rules"
)

var (
	highlightOut      string
	highlightRemove   bool
	highlightNoStyles bool
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <in.html|url|->",
	Short: "Annotate AI writing patterns inside an HTML page",
	Long: `Wrap every finding in an HTML page in a colored span with a tooltip
naming the pattern and linking to its reference. --remove strips the
annotations again.

Examples:
  prosescan highlight post.html -o post.annotated.html
  prosescan highlight https://example.com/post > annotated.html
  prosescan highlight --remove post.annotated.html -o post.html`,
	Args: cobra.ExactArgs(1),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().StringVarP(&highlightOut, "output", "o", "", "Write the result to a file instead of stdout")
	highlightCmd.Flags().BoolVar(&highlightRemove, "remove", false, "Remove existing highlights instead of adding them")
	highlightCmd.Flags().BoolVar(&highlightNoStyles, "no-styles", false, "Do not inject the highlight stylesheet")
	highlightCmd.Flags().StringVar(&rulesName, "rules", "", "Rule table name or YAML file (default ai-writing)")
	highlightCmd.Flags().StringSliceVar(&categories, "category", nil, "Only run rules in these categories (repeatable)")
	highlightCmd.Flags().StringSliceVar(&disabled, "disable", nil, "Disable a rule by id (repeatable)")
	RootCmd.AddCommand(highlightCmd)
}

func readHTML(ctx context.Context, cmd *cobra.Command, src string) (string, error) {
	switch {
	case src == stdinSource:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case fetch.IsURL(src):
		res, err := fetch.URL(ctx, src, nil)
		if err != nil {
			return "", err
		}
		return string(res.Body), nil
	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func runHighlight(cmd *cobra.Command, args []string) error {
	src, err := readHTML(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}

	u := GetUI(cmd)
	var out string
	if highlightRemove {
		out, err = highlight.Remove(src)
		if err != nil {
			return err
		}
	} else {
		settings := resolveSettings(cmd)
		table, err := rules.Resolve(settings.rules)
		if err != nil {
			return fmt.Errorf("failed to load rules: %w", err)
		}
		selected, err := table.Filter(settings.categories, settings.disabled)
		if err != nil {
			return err
		}

		res, err := highlight.Highlight(src, selected, highlight.Options{
			ReferenceURL: table.ReferenceURL,
			NoStyles:     highlightNoStyles,
		})
		if err != nil {
			return err
		}
		out = res.HTML

		var parts []string
		for _, c := range matcher.Categories() {
			if n := res.ByCategory[c]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, c))
			}
		}
		summary := fmt.Sprintf("Highlighted %d findings", res.Total)
		if len(parts) > 0 {
			summary += " (" + strings.Join(parts, ", ") + ")"
		}
		fmt.Fprintln(u.ErrWriter, u.Styles.Info.Render(u.Styles.IconInfo+" "+summary))
	}

	if highlightOut == "" {
		_, err = io.WriteString(u.Writer, out)
		return err
	}
	if err := os.WriteFile(highlightOut, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", highlightOut, err)
	}
	logger.Printf("wrote %s", highlightOut)
	return nil
}
