// Package fetch retrieves documents from URLs so they can be scanned like
// local files.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pthm/prosescan/internal/parser"
	"github.com/pthm/prosescan/internal/version"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
var DefaultUserAgent = "Mozilla/5.0 (compatible; prosescan/" + version.Short() + ")"

// maxBody caps how much of a response is read.
const maxBody = 20 << 20

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Client    *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// IsURL reports whether s looks like an http(s) URL rather than a path
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// URL retrieves the content at urlStr. On a non-200 status the result is
// returned alongside the error.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:         urlStr,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// FileType picks a parser for the result from its Content-Type, falling
// back to the URL's extension and then to HTML.
func (r *Result) FileType() parser.FileType {
	mediaType, _, _ := mime.ParseMediaType(r.ContentType)
	switch mediaType {
	case "application/pdf":
		return parser.FileTypePDF
	case "text/markdown", "text/x-markdown":
		return parser.FileTypeMarkdown
	case "text/plain":
		if u, err := url.Parse(r.URL); err == nil {
			if t := parser.GetFileType(path.Base(u.Path)); t == parser.FileTypeMarkdown {
				return t
			}
		}
		return parser.FileTypePlain
	case "text/html", "application/xhtml+xml":
		return parser.FileTypeHTML
	}

	if u, err := url.Parse(r.URL); err == nil {
		if t := parser.GetFileType(path.Base(u.Path)); t != parser.FileTypePlain {
			return t
		}
	}
	return parser.FileTypeHTML
}

// Document fetches urlStr and parses it into a document
func Document(ctx context.Context, urlStr string, opts *Options) (*parser.Document, error) {
	res, err := URL(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}
	return parser.ParseAs(urlStr, res.FileType(), res.Body)
}
