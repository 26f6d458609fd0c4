package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm/prosescan/internal/analyzer"
	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/parser"
	"github.com/pthm/prosescan/internal/reporter"
	"github.com/pthm/prosescan/internal/review"
	"github.com/pthm/prosescan/internal/rules"
	"github.com/pthm/prosescan/internal/ui"
)

var (
	rulesName     string
	categories    []string
	disabled      []string
	withSentences bool
	failOn        int
	useBrowser    bool
	deep          bool
	workers       int
	interactive   bool
	stdinType     string
	fetchTimeout  time.Duration
	reviewModel   string
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths|urls...]",
	Short: "Scan documents for AI writing patterns and readability",
	Long: `Scan documents for phrases typical of AI-generated text and score
their readability.

Directories are searched for Markdown, HTML, PDF and text files. Glob
patterns support ** (quote them so the shell does not expand them).

Examples:
  prosescan scan README.md
  prosescan scan 'docs/**/*.md'
  prosescan scan --category Language --disable curly-quotes post.html
  prosescan scan --fail-on 1 --format json . > findings.json
  cat draft.txt | prosescan scan -
  prosescan scan --browser https://example.com/blog/post`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&rulesName, "rules", "", "Rule table name or YAML file (default ai-writing)")
	scanCmd.Flags().StringSliceVar(&categories, "category", nil, "Only run rules in these categories (repeatable)")
	scanCmd.Flags().StringSliceVar(&disabled, "disable", nil, "Disable a rule by id (repeatable)")
	scanCmd.Flags().BoolVar(&withSentences, "sentences", false, "Include per-sentence difficulty in the output")
	scanCmd.Flags().IntVar(&failOn, "fail-on", 0, "Exit non-zero when at least this many findings are reported (0 disables)")
	scanCmd.Flags().BoolVar(&useBrowser, "browser", false, "Render URLs in a headless browser before scanning")
	scanCmd.Flags().BoolVar(&deep, "deep", false, "Ask Claude for a second opinion (needs ANTHROPIC_API_KEY)")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "Documents analyzed in parallel (0 means one per CPU)")
	scanCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse results in an interactive viewer")
	scanCmd.Flags().StringVar(&stdinType, "stdin-type", "plain", "How to parse stdin (plain, markdown, html, pdf)")
	scanCmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Second, "Timeout for fetching each URL")
	scanCmd.Flags().StringVar(&reviewModel, "model", "", "Model used by --deep (default "+review.DefaultModel+")")
	RootCmd.AddCommand(scanCmd)
}

// scanSettings is the effective configuration of one command
type scanSettings struct {
	rules      string
	categories []matcher.Category
	disabled   []string
	sentences  bool
	failOn     int
	workers    int
	model      string
}

// resolveSettings merges the rule and output flags a command defines over
// the config file. Flags the command does not define keep config values.
func resolveSettings(cmd *cobra.Command) scanSettings {
	s := scanSettings{
		rules:     cfg.Rules,
		disabled:  cfg.Disable,
		sentences: cfg.Sentences,
		failOn:    cfg.FailOn,
		workers:   cfg.Workers,
		model:     cfg.Review.Model,
	}
	cats := cfg.Categories

	flags := cmd.Flags()
	if flags.Changed("rules") {
		s.rules = rulesName
	}
	if flags.Changed("category") {
		cats = categories
	}
	if flags.Changed("disable") {
		s.disabled = disabled
	}
	if flags.Changed("sentences") {
		s.sentences = withSentences
	}
	if flags.Changed("fail-on") {
		s.failOn = failOn
	}
	if flags.Changed("workers") {
		s.workers = workers
	}
	if flags.Changed("model") {
		s.model = reviewModel
	}

	for _, c := range cats {
		s.categories = append(s.categories, matcher.Category(c))
	}
	return s
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	started := time.Now()
	settings := resolveSettings(cmd)

	u := GetUI(cmd)
	if interactive && !u.IsInteractive() {
		return fmt.Errorf("--interactive requires an interactive terminal (TTY)")
	}

	progress := u.StartProgress()
	defer func() {
		progress.Done(nil)
	}()

	// Stage 1: rules
	progress.SetStage(ui.StageLoadRules)
	table, err := rules.Resolve(settings.rules)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	selected, err := table.Filter(settings.categories, settings.disabled)
	if err != nil {
		return err
	}
	logger.Printf("rules: %s (%d of %d enabled)", table.Name, len(selected), table.Len())

	// Stage 2: inputs
	progress.SetStage(ui.StageReadInputs)
	sources, err := expandInputs(args)
	if err != nil {
		return err
	}
	docs, err := loadDocuments(ctx, sources, inputOptions{
		stdin:     cmd.InOrStdin(),
		stdinType: stdinType,
		browser:   useBrowser,
		timeout:   fetchTimeout,
	}, progress)
	if err != nil {
		return err
	}

	// Stage 3: analysis
	progress.SetStage(ui.StageAnalyze)
	progress.SetOperation(fmt.Sprintf("%d documents", len(docs)))
	reports, err := analyzer.AnalyzeAll(ctx, docs, selected, analyzer.Options{Sentences: settings.sentences}, settings.workers)
	if err != nil {
		return err
	}

	// Stage 4: optional review
	if deep {
		progress.SetStage(ui.StageReview)
		reviewer := review.NewFromEnv(settings.model)
		if reviewer == nil {
			u.Warn("deep review skipped: ANTHROPIC_API_KEY is not set")
		} else {
			reviewReports(ctx, reviewer, reports, docs, progress, u)
		}
	}

	progress.Done(nil)
	progress = nil

	run := reporter.NewRun(reports, started, settings.failOn)
	logger.Printf("run %s: %d findings in %d documents", run.ID, run.Summary.Findings, run.Summary.Documents)

	if interactive {
		if err := u.Browse(reports); err != nil {
			return fmt.Errorf("error running results browser: %w", err)
		}
		if run.Failed() {
			return reporter.ErrFindings
		}
		return nil
	}

	return newReporter(u).Report(run)
}

func newReporter(u *ui.UI) reporter.Reporter {
	if u.IsJSON() {
		return reporter.NewJSONReporter(u.Writer)
	}
	return reporter.NewTerminalReporter(u.Writer, u)
}

// reviewReports attaches a model verdict to each report. Failures are
// reported as warnings and leave the report without a verdict.
func reviewReports(ctx context.Context, reviewer *review.Reviewer, reports []*analyzer.Report, docs []*parser.Document, progress *ui.ProgressController, u *ui.UI) {
	progress.SetItemCount(len(reports))
	for i, rep := range reports {
		progress.ItemStart(rep.Path)

		findings := make([]string, 0, len(rep.Findings))
		for _, f := range rep.Findings {
			findings = append(findings, fmt.Sprintf("%s (%s): %q", f.Name, f.Category, f.Text))
		}

		v, err := reviewer.Review(ctx, review.Input{
			Path:     rep.Path,
			Text:     docs[i].Text(),
			Findings: findings,
		})
		if err != nil {
			u.Warn("review of %s failed: %v", rep.Path, err)
		} else {
			rep.Review = v
		}
		progress.ItemDone()
	}
}
