package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm/prosescan/internal/jira"
)

var (
	jiraBaseURL string
	jiraLabel   string
	jiraNow     string
)

var jiraCmd = &cobra.Command{
	Use:   "jira",
	Short: "Jira Cloud helpers",
}

var jiraFieldsCmd = &cobra.Command{
	Use:   "fields <ISSUE-KEY|issue-url>",
	Short: "Map field labels to their customfield ids",
	Long: `Fetch an issue with expand=names and print which customfield id each
field label belongs to.

Credentials come from JIRA_EMAIL and JIRA_API_TOKEN (a .env file works).
The site comes from --base-url, the jira.base_url config key, JIRA_BASE_URL,
or the issue URL itself.

Examples:
  prosescan jira fields https://acme.atlassian.net/browse/OPS-42
  prosescan jira fields OPS-42 --label "Story Points"`,
	Args: cobra.ExactArgs(1),
	RunE: runJiraFields,
}

var jiraAgeColorCmd = &cobra.Command{
	Use:   "age-color <fraction>",
	Short: "Print the row color for an age fraction between 0 and 1",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frac, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid fraction %q: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), jira.AgeColor(frac))
		return nil
	},
}

var jiraAgesCmd = &cobra.Command{
	Use:   "ages <created>...",
	Short: "Color issues by age relative to the oldest",
	Long: `Print each creation time with its age as a fraction of the oldest one
and the matching row color, from green (newest) to red (oldest).
Times are RFC 3339; unparseable ones are reported and skipped.

Example:
  prosescan jira ages 2024-05-01T09:00:00Z 2024-06-10T12:30:00Z`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJiraAges,
}

func init() {
	jiraFieldsCmd.Flags().StringVar(&jiraBaseURL, "base-url", "", "Jira site, e.g. https://acme.atlassian.net")
	jiraFieldsCmd.Flags().StringVar(&jiraLabel, "label", "", "Print only the id for this label")
	jiraAgesCmd.Flags().StringVar(&jiraNow, "now", "", "Reference time in RFC 3339 (default: current time)")
	jiraCmd.AddCommand(jiraFieldsCmd, jiraAgeColorCmd, jiraAgesCmd)
	RootCmd.AddCommand(jiraCmd)
}

// siteFor picks the Jira site for an issue argument
func siteFor(arg string) (string, error) {
	if jiraBaseURL != "" {
		return jiraBaseURL, nil
	}
	if u, err := url.Parse(arg); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Scheme + "://" + u.Host, nil
	}
	if cfg.Jira.BaseURL != "" {
		return cfg.Jira.BaseURL, nil
	}
	return "", fmt.Errorf("no Jira site: pass --base-url, set jira.base_url or JIRA_BASE_URL, or give a full issue URL")
}

func runJiraFields(cmd *cobra.Command, args []string) error {
	key, err := jira.ParseIssueKey(args[0])
	if err != nil {
		return err
	}
	site, err := siteFor(args[0])
	if err != nil {
		return err
	}
	logger.Printf("jira: %s on %s", key, site)

	client := jira.NewClient(site, cfg.Jira.Email, cfg.Jira.Token, nil)
	fields, err := client.FieldNames(cmd.Context(), key)
	if err != nil {
		return err
	}

	u := GetUI(cmd)
	if jiraLabel != "" {
		id, ok := fields.Lookup(jiraLabel)
		if !ok {
			return fmt.Errorf("no field labelled %q on %s", jiraLabel, key)
		}
		fmt.Fprintln(u.Writer, id)
		return nil
	}

	if u.IsJSON() {
		enc := json.NewEncoder(u.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	}
	for _, label := range fields.Labels() {
		fmt.Fprintln(u.Writer, fields.Annotate(label))
	}
	return nil
}

type ageOutput struct {
	Created  string   `json:"created"`
	Fraction *float64 `json:"fraction"`
	Color    string   `json:"color,omitempty"`
}

func runJiraAges(cmd *cobra.Command, args []string) error {
	now := time.Now()
	if jiraNow != "" {
		t, err := time.Parse(time.RFC3339, jiraNow)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		now = t
	}

	u := GetUI(cmd)
	created := make([]time.Time, len(args))
	for i, a := range args {
		t, err := time.Parse(time.RFC3339, a)
		if err != nil {
			u.Warn("skipping %q: not an RFC 3339 time", a)
			continue
		}
		created[i] = t
	}

	fractions := jira.AgeFractions(created, now)
	out := make([]ageOutput, len(args))
	for i, f := range fractions {
		out[i].Created = args[i]
		if math.IsNaN(f) {
			continue
		}
		out[i].Fraction = &f
		out[i].Color = jira.AgeColor(f)
	}

	if u.IsJSON() {
		enc := json.NewEncoder(u.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, o := range out {
		if o.Fraction == nil {
			fmt.Fprintf(u.Writer, "%s  -\n", o.Created)
			continue
		}
		fmt.Fprintf(u.Writer, "%s  %.2f  %s\n", o.Created, *o.Fraction, o.Color)
	}
	return nil
}
