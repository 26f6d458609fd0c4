package readability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		metrics *SentenceMetrics
		want    DifficultyTier
	}{
		{"nil", nil, Easy},
		{"flesch just under 30", &SentenceMetrics{Flesch: 29.9, WordCount: 5}, VeryHard},
		{"flesch exactly 30", &SentenceMetrics{Flesch: 30.0, WordCount: 5}, Hard},
		{"flesch 30 with 30 words", &SentenceMetrics{Flesch: 30.0, WordCount: 30}, Hard},
		{"31 words easy flesch", &SentenceMetrics{Flesch: 100, WordCount: 31}, VeryHard},
		{"flesch just under 50", &SentenceMetrics{Flesch: 49.99, WordCount: 5}, Hard},
		{"21 words", &SentenceMetrics{Flesch: 90, WordCount: 21}, Hard},
		{"20 words flesch 50", &SentenceMetrics{Flesch: 50, WordCount: 20}, Easy},
		{"both very hard clauses", &SentenceMetrics{Flesch: 10, WordCount: 40}, VeryHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDifficulty(tt.metrics))
		})
	}
}

func TestDifficultyTierString(t *testing.T) {
	assert.Equal(t, "easy", Easy.String())
	assert.Equal(t, "hard", Hard.String())
	assert.Equal(t, "very-hard", VeryHard.String())
	assert.Equal(t, "unknown", DifficultyTier(9).String())
}

func TestClassifyDifficulty_BlankSentence(t *testing.T) {
	assert.Equal(t, Easy, ClassifyDifficulty(ScoreSentence("  ")))
}

func TestSegmentSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "no terminal punctuation",
			text: "just a fragment",
			want: []Segment{{Body: "just a fragment"}},
		},
		{
			name: "two sentences",
			text: "One. Two!",
			want: []Segment{{Body: "One", Punct: "."}, {Body: " Two", Punct: "!"}},
		},
		{
			name: "trailing fragment",
			text: "Done?! and more",
			want: []Segment{{Body: "Done", Punct: "?!"}, {Body: " and more"}},
		},
		{
			name: "inner dots are not breaks",
			text: "Version 1.2 shipped. e.g.x stays",
			want: []Segment{{Body: "Version 1.2 shipped", Punct: "."}, {Body: " e.g.x stays"}},
		},
		{
			name: "ellipsis",
			text: "Wait... what",
			want: []Segment{{Body: "Wait", Punct: "..."}, {Body: " what"}},
		},
		{
			name: "newline after punctuation",
			text: "Line one.\nLine two.",
			want: []Segment{{Body: "Line one", Punct: "."}, {Body: "\nLine two", Punct: "."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentSentences(tt.text)
			assert.Equal(t, tt.want, got)

			var rebuilt strings.Builder
			for _, s := range got {
				rebuilt.WriteString(s.Text())
			}
			assert.Equal(t, tt.text, rebuilt.String())
		})
	}
}

func TestAnalyzeSentences_EndToEnd(t *testing.T) {
	text := "The cat sat. This is an extraordinarily long and needlessly verbose sentence " +
		"that rambles on past thirty words just to prove a point about difficulty " +
		"classification thresholds being exceeded."

	results := AnalyzeSentences(text)
	require.Len(t, results, 2)

	first := results[0]
	require.NotNil(t, first.Metrics)
	assert.Equal(t, "The cat sat", first.Body)
	assert.Equal(t, Easy, first.Tier)

	second := results[1]
	require.NotNil(t, second.Metrics)
	assert.Equal(t, 26, second.Metrics.WordCount)
	assert.Less(t, second.Metrics.Flesch, VeryHardFlesch)
	assert.Equal(t, VeryHard, second.Tier)

	tiers := CountTiers(results)
	assert.Equal(t, 1, tiers[Easy])
	assert.Equal(t, 1, tiers[VeryHard])
}

func TestAnalyzeSentences_HardByLength(t *testing.T) {
	words := strings.TrimSpace(strings.Repeat("the cat sat ", 8))
	results := AnalyzeSentences(words + ".")
	require.Len(t, results, 1)

	assert.Equal(t, 24, results[0].Metrics.WordCount)
	assert.Equal(t, Hard, results[0].Tier)
}

func TestCountTiers_SkipsBlank(t *testing.T) {
	results := []SentenceResult{
		{Segment: Segment{Body: " "}, Tier: Easy},
		{Segment: Segment{Body: "Hi"}, Metrics: ScoreSentence("Hi"), Tier: Easy},
	}
	assert.Equal(t, 1, CountTiers(results)[Easy])
}
