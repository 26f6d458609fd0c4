package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/pthm/prosescan/internal/fetch"
	"github.com/pthm/prosescan/internal/parser"
	"github.com/pthm/prosescan/internal/ui"
)

// documentPattern selects the files read when a directory is given.
const documentPattern = "**/*.{md,markdown,mdx,txt,html,htm,xhtml,pdf}"

// stdinSource is the argument that reads from standard input.
const stdinSource = "-"

// inputOptions controls how sources become documents.
type inputOptions struct {
	stdin     io.Reader
	stdinType string
	browser   bool
	timeout   time.Duration
}

// expandInputs turns arguments into a deduplicated list of sources.
// Globs and directories are expanded to files; stdin and URLs pass
// through unchanged.
func expandInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, arg := range args {
		switch {
		case arg == stdinSource || fetch.IsURL(arg):
			add(arg)

		case strings.ContainsAny(arg, "*?[{"):
			if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
				return nil, fmt.Errorf("invalid pattern %q", arg)
			}
			base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
			matches, err := walkMatches(filepath.FromSlash(base), pattern)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", arg)
			}
			for _, m := range matches {
				add(m)
			}

		default:
			info, err := os.Stat(arg)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				add(arg)
				continue
			}
			matches, err := walkMatches(arg, documentPattern)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
		}
	}
	return out, nil
}

// walkMatches walks base and returns the files whose slash-separated path
// relative to base matches pattern, sorted. Hidden directories are skipped.
func walkMatches(base, pattern string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// stdinFileType maps the --stdin-type flag to a parser
func stdinFileType(name string) (parser.FileType, error) {
	switch name {
	case "", "plain", "text", "txt":
		return parser.FileTypePlain, nil
	case "markdown", "md":
		return parser.FileTypeMarkdown, nil
	case "html":
		return parser.FileTypeHTML, nil
	case "pdf":
		return parser.FileTypePDF, nil
	}
	return 0, fmt.Errorf("unknown stdin type %q (want plain, markdown, html or pdf)", name)
}

// loadDocument reads and parses a single source
func loadDocument(ctx context.Context, src string, opts inputOptions) (*parser.Document, error) {
	switch {
	case src == stdinSource:
		ft, err := stdinFileType(opts.stdinType)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(opts.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return parser.ParseAs("stdin", ft, data)

	case fetch.IsURL(src):
		if opts.browser {
			return fetch.BrowserDocument(ctx, src, opts.timeout)
		}
		fo := fetch.DefaultOptions()
		if opts.timeout > 0 {
			fo.Timeout = opts.timeout
		}
		return fetch.Document(ctx, src, fo)

	default:
		return parser.Parse(src)
	}
}

// loadDocuments reads every source in order. Progress is optional.
func loadDocuments(ctx context.Context, sources []string, opts inputOptions, progress *ui.ProgressController) ([]*parser.Document, error) {
	progress.SetItemCount(len(sources))

	docs := make([]*parser.Document, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress.ItemStart(src)
		logger.Printf("reading %s", src)

		doc, err := loadDocument(ctx, src, opts)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		progress.ItemDone()
	}
	return docs, nil
}

// loadSingle reads the one source a per-document command accepts,
// defaulting to stdin
func loadSingle(cmd *cobra.Command, args []string, opts inputOptions) (*parser.Document, error) {
	src := stdinSource
	if len(args) > 0 {
		src = args[0]
	}
	opts.stdin = cmd.InOrStdin()
	return loadDocument(cmd.Context(), src, opts)
}
