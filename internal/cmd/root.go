package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/prosescan/internal/config"
	"github.com/pthm/prosescan/internal/log"
	"github.com/pthm/prosescan/internal/ui"
)

var (
	// Global flags
	verbose    bool
	format     string
	configPath string

	cfg    = config.Defaults()
	logger = &log.Logger{W: os.Stderr}
)

// RootCmd is the prosescan command tree
var RootCmd = &cobra.Command{
	Use:   "prosescan",
	Short: "Detect AI writing patterns and score readability",
	Long: `prosescan scans prose for phrases typical of machine-generated text
and scores how hard it is to read.

Inputs can be Markdown, HTML, PDF or plain text files, directories,
glob patterns, URLs, or - for stdin. Findings are grouped by category
(Content, Language, Style, Communication) and every document gets
ARI, Coleman-Liau, Flesch and SMOG scores.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().StringVarP(&format, "format", "f", "terminal", "Output format (terminal, json)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest "+config.FileName+")")
}

// loadConfig resolves the config file and environment before any command
// runs. Flags set on the command line win over the file.
func loadConfig(cmd *cobra.Command, _ []string) error {
	logger = &log.Logger{Enabled: verbose, W: cmd.ErrOrStderr()}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	c, path, err := config.Resolve(configPath, wd)
	if err != nil {
		return err
	}
	cfg = c
	if path != "" {
		logger.Printf("config: %s", path)
	}

	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		format = cfg.Format
	}
	if format != "terminal" && format != "json" {
		return fmt.Errorf("unknown format %q (want terminal or json)", format)
	}
	return nil
}

// GetUI returns a UI bound to the command's output streams
func GetUI(cmd *cobra.Command) *ui.UI {
	return ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), format)
}
