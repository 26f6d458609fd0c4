package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/prosescan/internal/reporter"
)

// resetFlags restores every flag in the tree to its default so that
// commands can be executed repeatedly within one test binary.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the command tree with an empty config file
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(RootCmd)

	cfgFile := filepath.Join(t.TempDir(), ".prosescan.yaml")
	require.NoError(t, os.WriteFile(cfgFile, nil, 0o644))

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(append(args, "--config", cfgFile))

	err := RootCmd.Execute()
	return out.String(), errOut.String(), err
}

type scanJSON struct {
	RunID   string `json:"run_id"`
	Reports []struct {
		Path     string `json:"path"`
		Findings []struct {
			Rule string `json:"rule"`
			Text string `json:"text"`
		} `json:"findings"`
		Sentences []json.RawMessage `json:"sentences"`
	} `json:"reports"`
	Summary struct {
		Documents int `json:"documents"`
		Findings  int `json:"findings"`
	} `json:"summary"`
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "prosescan "))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "", "version", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestCount(t *testing.T) {
	out, _, err := execute(t, "one two\nthree", "count")
	require.NoError(t, err)
	assert.Equal(t, "Word count: 3\n", out)

	out, _, err = execute(t, strings.Repeat("word ", 1234), "count", "-")
	require.NoError(t, err)
	assert.Equal(t, "Word count: 1,234\n", out)
}

func TestCount_JSON(t *testing.T) {
	out, _, err := execute(t, "Hello there. General Kenobi!", "count", "-f", "json")
	require.NoError(t, err)

	var got countOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "stdin", got.Path)
	assert.Equal(t, 4, got.Words)
	assert.Equal(t, 3, got.Sentences, "the piece after the last terminator counts")
}

func TestReadability(t *testing.T) {
	out, _, err := execute(t, "The cat sat on the mat. It was happy.", "readability")
	require.NoError(t, err)
	assert.Contains(t, out, "Readability Analysis")
	assert.Contains(t, out, "Flesch Reading Ease:")
	assert.Contains(t, out, "(Above 60 is Great)")
	assert.Contains(t, out, "Word Count: 9")
	assert.Contains(t, out, "Sentence Count: 3")
}

func TestReadability_JSON(t *testing.T) {
	out, _, err := execute(t, "The cat sat on the mat.", "readability", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Metrics struct {
			WordCount int `json:"word_count"`
		} `json:"metrics"`
		Verdicts []struct {
			Name string `json:"name"`
		} `json:"verdicts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 6, got.Metrics.WordCount)
	assert.Len(t, got.Verdicts, 4)
}

func TestSentences(t *testing.T) {
	out, _, err := execute(t, "The cat sat. The dog ran!", "sentences")
	require.NoError(t, err)
	assert.Contains(t, out, "The cat sat.")
	assert.Contains(t, out, "The dog ran!")
	assert.Contains(t, out, "2 easy, 0 hard, 0 very hard")

	out, _, err = execute(t, "The cat sat. The dog ran!", "sentences", "--hard")
	require.NoError(t, err)
	assert.NotContains(t, out, "The cat sat.")
}

func TestScan_Stdin(t *testing.T) {
	out, _, err := execute(t, "It was nestled in a box. I hope this helps!", "scan", "-", "--format", "json", "--sentences")
	require.NoError(t, err)

	var got scanJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.RunID)
	require.Len(t, got.Reports, 1)
	assert.Equal(t, "stdin", got.Reports[0].Path)
	assert.NotEmpty(t, got.Reports[0].Sentences)

	var rules []string
	for _, f := range got.Reports[0].Findings {
		rules = append(rules, f.Rule)
	}
	assert.Equal(t, []string{"promotional-language", "chatbot-artifacts"}, rules)
}

func TestScan_FilterAndFailOn(t *testing.T) {
	input := "It was nestled in a box. I hope this helps!"

	out, _, err := execute(t, input, "scan", "-", "-f", "json", "--category", "Communication")
	require.NoError(t, err)
	var got scanJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Summary.Findings)

	_, _, err = execute(t, input, "scan", "-", "-f", "json", "--disable", "chatbot-artifacts", "--fail-on", "1")
	assert.True(t, errors.Is(err, reporter.ErrFindings), "got %v", err)

	_, _, err = execute(t, input, "scan", "-", "--disable", "no-such-rule")
	assert.Error(t, err)
}

func TestScan_Directory(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("a.md", "# Notes\n\nA pivotal moment.\n")
	write("sub/b.txt", "Nothing to see here.")
	write(".hidden/c.md", "A pivotal moment.")
	write("data.json", `{"text": "A pivotal moment."}`)

	out, _, err := execute(t, "", "scan", dir, "--format", "json")
	require.NoError(t, err)

	var got scanJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Reports, 2)
	assert.Equal(t, filepath.Join(dir, "a.md"), got.Reports[0].Path)
	assert.Equal(t, filepath.Join(dir, "sub", "b.txt"), got.Reports[1].Path)
	assert.Equal(t, 1, got.Summary.Findings)
}

func TestScan_Terminal(t *testing.T) {
	out, _, err := execute(t, "It was nestled in a box.", "scan", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "[Content] stdin")
	assert.Contains(t, out, "[promotional-language]")
	assert.Contains(t, out, "Found 1 findings in 1 documents")
}

func TestScan_InteractiveNeedsTTY(t *testing.T) {
	_, _, err := execute(t, "text", "scan", "-", "--interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestScan_DeepWithoutKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, errOut, err := execute(t, "plain words", "scan", "-", "--deep")
	require.NoError(t, err)
	assert.Contains(t, errOut, "deep review skipped")
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"x/one.md", "x/deep/two.md", "x/three.txt"} {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("text"), 0o644))
	}

	got, err := expandInputs([]string{filepath.Join(dir, "x", "**", "*.md"), "-", "https://example.com/a"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "x", "deep", "two.md"),
		filepath.Join(dir, "x", "one.md"),
		"-",
		"https://example.com/a",
	}, got)

	got, err = expandInputs([]string{filepath.Join(dir, "x", "three.txt"), filepath.Join(dir, "x", "three.txt")})
	require.NoError(t, err)
	assert.Len(t, got, 1, "duplicates are dropped")

	_, err = expandInputs([]string{filepath.Join(dir, "*.pdf")})
	assert.Error(t, err)

	_, err = expandInputs([]string{filepath.Join(dir, "missing.md")})
	assert.Error(t, err)
}

func TestStdinFileType(t *testing.T) {
	_, err := stdinFileType("docx")
	assert.Error(t, err)
	for _, name := range []string{"", "plain", "markdown", "html", "pdf"} {
		_, err := stdinFileType(name)
		assert.NoError(t, err, name)
	}
}

func TestRules_JSON(t *testing.T) {
	out, _, err := execute(t, "", "rules", "--format", "json")
	require.NoError(t, err)

	var got []ruleOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 14)
	assert.Equal(t, "significance-inflation", got[0].ID)
	assert.NotContains(t, got[0].Pattern, "(?i)")
	assert.True(t, strings.HasPrefix(got[0].Reference, "https://en.wikipedia.org/wiki/Wikipedia:Signs_of_AI_writing#"))

	out, _, err = execute(t, "", "rules", "-f", "json", "--category", "Style")
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "em-dash-overuse", got[0].ID)
	assert.Equal(t, "curly-quotes", got[1].ID)
}

func TestRules_Terminal(t *testing.T) {
	out, _, err := execute(t, "", "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "ai-writing (14 of 14 rules)")
	assert.Contains(t, out, "[Communication] ")
	assert.Contains(t, out, "Builtin tables: ai-writing")
}

func TestHighlight(t *testing.T) {
	page := `<html><head></head><body><p>It was nestled in a box.</p></body></html>`

	out, errOut, err := execute(t, page, "highlight", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `class="ai-detect-highlight cat-Content"`)
	assert.Contains(t, errOut, "Highlighted 1 findings (1 Content)")

	annotated := filepath.Join(t.TempDir(), "annotated.html")
	require.NoError(t, os.WriteFile(annotated, []byte(out), 0o644))

	cleaned := filepath.Join(t.TempDir(), "clean.html")
	_, _, err = execute(t, "", "highlight", "--remove", annotated, "-o", cleaned)
	require.NoError(t, err)

	data, err := os.ReadFile(cleaned)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ai-detect-highlight")
	assert.Contains(t, string(data), "It was nestled in a box.")
}

func TestJiraAgeColor(t *testing.T) {
	out, _, err := execute(t, "", "jira", "age-color", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "rgba(128,128,0,0.5)\n", out)

	_, _, err = execute(t, "", "jira", "age-color", "old")
	assert.Error(t, err)
}

func TestJiraAges(t *testing.T) {
	out, errOut, err := execute(t, "", "jira", "ages",
		"2024-06-20T00:00:00Z", "2024-06-25T00:00:00Z", "yesterday",
		"--now", "2024-06-30T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t,
		"2024-06-20T00:00:00Z  1.00  rgba(255,0,0,0.5)\n"+
			"2024-06-25T00:00:00Z  0.50  rgba(128,128,0,0.5)\n"+
			"yesterday  -\n",
		out)
	assert.Contains(t, errOut, `skipping "yesterday"`)
}

func TestJiraFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/issue/OPS-42" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"names":{"customfield_10016":"Story Points","summary":"Summary"}}`))
	}))
	defer server.Close()
	t.Setenv("JIRA_API_TOKEN", "token")

	out, _, err := execute(t, "", "jira", "fields", "OPS-42", "--base-url", server.URL)
	require.NoError(t, err)
	assert.Equal(t, "customfield_10016: Story Points\nsummary: Summary\n", out)

	out, _, err = execute(t, "", "jira", "fields", server.URL+"/browse/OPS-42", "--label", "Story Points")
	require.NoError(t, err)
	assert.Equal(t, "customfield_10016\n", out)

	_, _, err = execute(t, "", "jira", "fields", "OPS-1", "--base-url", server.URL)
	assert.Error(t, err)
}
