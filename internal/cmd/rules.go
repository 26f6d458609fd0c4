package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules in the active table",
	Long: `List the detection rules that scan and highlight would run, in the
order they break ties.

Examples:
  prosescan rules
  prosescan rules --category Style
  prosescan rules --rules ./house-style.yaml --format json`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesName, "rules", "", "Rule table name or YAML file (default ai-writing)")
	rulesCmd.Flags().StringSliceVar(&categories, "category", nil, "Only list rules in these categories (repeatable)")
	rulesCmd.Flags().StringSliceVar(&disabled, "disable", nil, "Hide a rule by id (repeatable)")
	RootCmd.AddCommand(rulesCmd)
}

type ruleOutput struct {
	ID          string           `json:"id"`
	Category    matcher.Category `json:"category"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Pattern     string           `json:"pattern"`
	Reference   string           `json:"reference,omitempty"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	settings := resolveSettings(cmd)
	table, err := rules.Resolve(settings.rules)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	selected, err := table.Filter(settings.categories, settings.disabled)
	if err != nil {
		return err
	}

	out := make([]ruleOutput, 0, len(selected))
	for _, r := range selected {
		out = append(out, ruleOutput{
			ID:          r.ID,
			Category:    r.Category,
			Name:        r.Name,
			Description: r.Description,
			Pattern:     strings.TrimPrefix(r.Pattern.String(), "(?i)"),
			Reference:   table.ReferenceURL(r),
		})
	}

	u := GetUI(cmd)
	if u.IsJSON() {
		enc := json.NewEncoder(u.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	s := u.Styles
	fmt.Fprintf(u.Writer, "%s %s\n", s.Header.Render(table.Name), s.Subheader.Render(fmt.Sprintf("(%d of %d rules)", len(out), table.Len())))
	if table.Description != "" {
		fmt.Fprintln(u.Writer, s.Subheader.Render(table.Description))
	}
	fmt.Fprintln(u.Writer)
	for _, r := range out {
		fmt.Fprintf(u.Writer, "%s %s %s\n", s.Badge(r.Category), r.Name, s.Rule.Render("["+r.ID+"]"))
		if r.Description != "" {
			fmt.Fprintf(u.Writer, "    %s\n", r.Description)
		}
		if r.Reference != "" {
			fmt.Fprintf(u.Writer, "    %s\n", s.Path.Render(r.Reference))
		}
	}

	fmt.Fprintf(u.Writer, "\nBuiltin tables: %s\n", strings.Join(rules.Available(), ", "))
	return nil
}
