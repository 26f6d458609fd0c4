package readability

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// DifficultyTier ranks how hard a sentence is to read.
type DifficultyTier int

const (
	Easy DifficultyTier = iota
	Hard
	VeryHard
)

func (t DifficultyTier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	case VeryHard:
		return "very-hard"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (t DifficultyTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Tiers returns the tiers from easiest to hardest
func Tiers() []DifficultyTier {
	return []DifficultyTier{Easy, Hard, VeryHard}
}

// Thresholds used by ClassifyDifficulty.
const (
	VeryHardFlesch = 30.0
	VeryHardWords  = 30
	HardFlesch     = 50.0
	HardWords      = 20
)

// ClassifyDifficulty maps sentence metrics to a tier. The very-hard checks
// run first so they take precedence. A nil sentence is Easy.
func ClassifyDifficulty(m *SentenceMetrics) DifficultyTier {
	if m == nil {
		return Easy
	}
	if m.Flesch < VeryHardFlesch || m.WordCount > VeryHardWords {
		return VeryHard
	}
	if m.Flesch < HardFlesch || m.WordCount > HardWords {
		return Hard
	}
	return Easy
}

var terminalRun = regexp.MustCompile(`[.!?]+`)

// Segment is a sentence body and the terminal punctuation that followed it.
type Segment struct {
	Body  string `json:"body"`
	Punct string `json:"punct"`
}

// Text returns the body with its punctuation reattached
func (s Segment) Text() string {
	return s.Body + s.Punct
}

// SegmentSentences splits text at runs of terminal punctuation that are
// followed by whitespace or the end of the text. Bodies keep any leading
// whitespace so that concatenating every Text() gives back the input.
// A trailing fragment without punctuation gets an empty Punct.
func SegmentSentences(text string) []Segment {
	var segments []Segment
	start := 0
	for _, loc := range terminalRun.FindAllStringIndex(text, -1) {
		if loc[1] < len(text) {
			next, _ := utf8.DecodeRuneInString(text[loc[1]:])
			if !unicode.IsSpace(next) {
				continue
			}
		}
		segments = append(segments, Segment{
			Body:  text[start:loc[0]],
			Punct: text[loc[0]:loc[1]],
		})
		start = loc[1]
	}
	if start < len(text) {
		segments = append(segments, Segment{Body: text[start:]})
	}
	return segments
}

// SentenceResult is one segmented sentence with its score and tier.
// Metrics is nil for blank segments.
type SentenceResult struct {
	Segment
	Metrics *SentenceMetrics `json:"metrics,omitempty"`
	Tier    DifficultyTier   `json:"tier"`
}

// AnalyzeSentences segments text and scores and classifies each sentence
func AnalyzeSentences(text string) []SentenceResult {
	segments := SegmentSentences(text)
	results := make([]SentenceResult, 0, len(segments))
	for _, seg := range segments {
		m := ScoreSentence(seg.Body)
		results = append(results, SentenceResult{
			Segment: seg,
			Metrics: m,
			Tier:    ClassifyDifficulty(m),
		})
	}
	return results
}

// CountTiers tallies sentence results per tier, skipping blank segments
func CountTiers(results []SentenceResult) map[DifficultyTier]int {
	tiers := make(map[DifficultyTier]int)
	for _, r := range results {
		if r.Metrics == nil {
			continue
		}
		tiers[r.Tier]++
	}
	return tiers
}
