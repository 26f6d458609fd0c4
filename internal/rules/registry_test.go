package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/prosescan/internal/matcher"
)

func TestAvailable(t *testing.T) {
	assert.Contains(t, Available(), DefaultTable)
}

func TestLoad_Builtin(t *testing.T) {
	table, err := Load(DefaultTable)
	require.NoError(t, err)

	assert.Equal(t, 14, table.Len())
	assert.Equal(t, "https://en.wikipedia.org/wiki/Wikipedia:Signs_of_AI_writing#", table.BaseURL)

	ids := make([]string, 0, table.Len())
	for _, r := range table.Rules() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{
		"significance-inflation",
		"notability-emphasis",
		"superficial-analyses",
		"promotional-language",
		"vague-attributions",
		"formulaic-challenges",
		"ai-vocabulary",
		"copula-avoidance",
		"negative-parallelisms",
		"false-ranges",
		"em-dash-overuse",
		"curly-quotes",
		"chatbot-artifacts",
		"knowledge-cutoff",
	}, ids)
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("nope")
	assert.True(t, errors.Is(err, ErrUnknownTable))
}

func TestScan_BuiltinEndToEnd(t *testing.T) {
	table, err := Load(DefaultTable)
	require.NoError(t, err)

	text := "This is nestled within a tapestry of breathtaking significance — a testament to its enduring legacy."
	matches := matcher.Scan(text, table.Rules())

	type hit struct {
		start, end int
		id, text   string
	}
	var got []hit
	for _, m := range matches {
		got = append(got, hit{m.Start, m.End, m.Rule.ID, m.Text})
	}

	assert.Equal(t, []hit{
		{8, 15, "promotional-language", "nestled"},
		{25, 33, "ai-vocabulary", "tapestry"},
		{37, 49, "promotional-language", "breathtaking"},
		{63, 66, "em-dash-overuse", "—"},
		{67, 81, "significance-inflation", "a testament to"},
		{86, 101, "significance-inflation", "enduring legacy"},
	}, got)
}

func TestScan_BuiltinPhrases(t *testing.T) {
	table, err := Load(DefaultTable)
	require.NoError(t, err)

	tests := []struct {
		text string
		ids  []string
	}{
		{"I hope this helps! Let me know if you need more.", []string{"chatbot-artifacts", "chatbot-artifacts"}},
		{"It's not just a tool, it's a revolution.", []string{"negative-parallelisms"}},
		{"The festival ran from early spring to late autumn.", []string{"false-ranges"}},
		{"As of my last knowledge update, details are limited.", []string{"knowledge-cutoff"}},
		{"He said “hello”", []string{"curly-quotes", "curly-quotes"}},
		{"CRUCIAL", []string{"ai-vocabulary"}},
		{"A plain sentence about a cat.", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var ids []string
			for _, m := range matcher.Scan(tt.text, table.Rules()) {
				ids = append(ids, m.Rule.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestReferenceURL(t *testing.T) {
	table, err := Load(DefaultTable)
	require.NoError(t, err)

	r := table.Get("false-ranges")
	require.NotNil(t, r)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Wikipedia:Signs_of_AI_writing#False_ranges", table.ReferenceURL(r))
	assert.Empty(t, table.ReferenceURL(nil))
}

func TestFilter(t *testing.T) {
	table, err := Load(DefaultTable)
	require.NoError(t, err)

	style, err := table.Filter([]matcher.Category{matcher.CategoryStyle}, nil)
	require.NoError(t, err)
	require.Len(t, style, 2)
	assert.Equal(t, "em-dash-overuse", style[0].ID)
	assert.Equal(t, "curly-quotes", style[1].ID)

	rest, err := table.Filter(nil, []string{"curly-quotes"})
	require.NoError(t, err)
	assert.Len(t, rest, 13)
	for _, r := range rest {
		assert.NotEqual(t, "curly-quotes", r.ID)
	}

	_, err = table.Filter(nil, []string{"missing"})
	assert.True(t, errors.Is(err, ErrUnknownRule))

	_, err = table.Filter([]matcher.Category{"Tone"}, nil)
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "rules: [\n"},
		{"no rules", "name: empty\nrules: []\n"},
		{"bad category", "name: t\nrules:\n  - id: a\n    pattern: x\n    category: Tone\n    name: A\n"},
		{"unknown field", "name: t\nrules:\n  - id: a\n    pattern: x\n    category: Style\n    name: A\n    weight: 3\n"},
		{"bad regex", "name: t\nrules:\n  - id: a\n    pattern: '(?=x)'\n    category: Style\n    name: A\n"},
		{"duplicate id", "name: t\nrules:\n  - id: a\n    pattern: x\n    category: Style\n    name: A\n  - id: a\n    pattern: y\n    category: Style\n    name: B\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParse_SchemaErrorFields(t *testing.T) {
	_, err := Parse([]byte("name: t\nrules:\n  - id: a\n    category: Style\n    name: A\n"))
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.NotEmpty(t, schemaErr.Errors)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := "name: custom\nrules:\n  - id: hedge\n    pattern: '\\bperhaps\\b'\n    category: Language\n    name: Hedging\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", table.Name)

	matches := matcher.Scan("Perhaps not.", table.Rules())
	require.Len(t, matches, 1)
	assert.Equal(t, "Perhaps", matches[0].Text)

	resolved, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", resolved.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
