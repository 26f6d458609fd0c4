// Package jira looks up custom field ids on Jira Cloud issues and colors
// queue rows by age.
package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNoIssueKey is returned when no issue key can be found in the input.
	ErrNoIssueKey = errors.New("no issue key found")
	// ErrUnauthorized wraps 401 and 403 responses.
	ErrUnauthorized = errors.New("jira rejected the credentials")
	// ErrNotFound wraps 404 responses.
	ErrNotFound = errors.New("issue not found")
)

var (
	browsePath = regexp.MustCompile(`^/browse/([A-Z]+-\d+)`)
	bareKey    = regexp.MustCompile(`^[A-Z]+-\d+$`)
)

// ParseIssueKey extracts an issue key from a bare key, a /browse/ path or
// a full issue URL
func ParseIssueKey(s string) (string, error) {
	s = strings.TrimSpace(s)
	if bareKey.MatchString(s) {
		return s, nil
	}

	p := s
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		p = u.Path
	}
	if m := browsePath.FindStringSubmatch(p); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w in %q", ErrNoIssueKey, s)
}

// StatusError is a non-2xx response from the Jira API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("jira API returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("jira API returned %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// FieldIndex maps a field's display label to its id, e.g.
// "Team" -> "customfield_10001".
type FieldIndex map[string]string

// Lookup returns the id for a label. Surrounding whitespace is ignored.
func (fi FieldIndex) Lookup(label string) (string, bool) {
	id, ok := fi[strings.TrimSpace(label)]
	return id, ok
}

// Labels returns every label in sorted order
func (fi FieldIndex) Labels() []string {
	labels := make([]string, 0, len(fi))
	for l := range fi {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Annotate renders the hover text shown next to a field heading, such as
// "customfield_10001: Team". It returns "" for unknown labels.
func (fi FieldIndex) Annotate(label string) string {
	label = strings.TrimSpace(label)
	id, ok := fi[label]
	if !ok {
		return ""
	}
	return id + ": " + label
}

// newFieldIndex reverses the id -> label map returned with expand=names.
// When two ids share a label the lowest id wins.
func newFieldIndex(names map[string]string) FieldIndex {
	ids := make([]string, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fi := make(FieldIndex, len(names))
	for _, id := range ids {
		label := strings.TrimSpace(names[id])
		if _, taken := fi[label]; !taken {
			fi[label] = id
		}
	}
	return fi
}

// Client talks to a single Jira Cloud site.
type Client struct {
	baseURL string
	email   string
	token   string
	http    *http.Client

	mu    sync.Mutex
	cache map[string]FieldIndex
}

// NewClient creates a client for baseURL, e.g. https://acme.atlassian.net.
// Requests use basic auth when token is set.
func NewClient(baseURL, email, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		token:   token,
		http:    httpClient,
		cache:   make(map[string]FieldIndex),
	}
}

// FieldNames fetches the field label index for an issue. Results are
// cached per issue key for the life of the client.
func (c *Client) FieldNames(ctx context.Context, issueKey string) (FieldIndex, error) {
	c.mu.Lock()
	fi, ok := c.cache[issueKey]
	c.mu.Unlock()
	if ok {
		return fi, nil
	}

	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s?expand=names", c.baseURL, url.PathEscape(issueKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.SetBasicAuth(c.email, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload struct {
		Names map[string]string `json:"names"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode jira response: %w", err)
	}

	fi = newFieldIndex(payload.Names)
	c.mu.Lock()
	c.cache[issueKey] = fi
	c.mu.Unlock()
	return fi, nil
}
