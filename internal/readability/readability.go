// Package readability computes word, sentence and syllable statistics and
// the ARI, Coleman-Liau, Flesch and SMOG indices for English text.
//
// Everything here is a heuristic. Sentence counting splits on every
// terminal punctuation mark, so abbreviations count as sentence breaks and
// text without a final period counts one extra sentence.
package readability

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackSyllables is returned for words that contain no vowel group.
const FallbackSyllables = 2

// PolysyllabicThreshold is the syllable count at which a word is polysyllabic.
const PolysyllabicThreshold = 3

var (
	silentEnding   = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	leadingY       = regexp.MustCompile(`^y`)
	vowelGroup     = regexp.MustCompile(`[aeiouy]{1,2}`)
	sentenceBreaks = regexp.MustCompile(`[.!?]`)
)

// DocumentMetrics holds counts and indices for a whole text.
type DocumentMetrics struct {
	WordCount             int     `json:"word_count"`
	SentenceCount         int     `json:"sentence_count"`
	TotalSyllables        int     `json:"total_syllables"`
	PolysyllabicWordCount int     `json:"polysyllabic_word_count"`
	CharacterCount        int     `json:"character_count"`
	ARI                   float64 `json:"ari"`
	ColemanLiau           float64 `json:"coleman_liau"`
	Flesch                float64 `json:"flesch"`
	SMOG                  float64 `json:"smog"`
}

// SentenceMetrics holds counts and indices for a single sentence.
type SentenceMetrics struct {
	Text                  string  `json:"text"`
	WordCount             int     `json:"word_count"`
	SyllableCount         int     `json:"syllable_count"`
	PolysyllabicWordCount int     `json:"polysyllabic_word_count"`
	CharacterCount        int     `json:"character_count"`
	ARI                   float64 `json:"ari"`
	ColemanLiau           float64 `json:"coleman_liau"`
	Flesch                float64 `json:"flesch"`
	SMOG                  float64 `json:"smog"`
}

// EstimateSyllables guesses the number of syllables in word. The result is
// always at least 1.
func EstimateSyllables(word string) int {
	word = strings.ToLower(word)
	if utf8.RuneCountInString(word) <= 3 {
		return 1
	}

	word = silentEnding.ReplaceAllString(word, "")
	word = leadingY.ReplaceAllString(word, "")

	groups := vowelGroup.FindAllStringIndex(word, -1)
	if len(groups) == 0 {
		return FallbackSyllables
	}
	return len(groups)
}

type counts struct {
	words        int
	syllables    int
	polysyllabic int
	characters   int
}

func countText(text string) counts {
	var c counts
	for _, word := range strings.Fields(text) {
		c.words++
		s := EstimateSyllables(word)
		c.syllables += s
		if s >= PolysyllabicThreshold {
			c.polysyllabic++
		}
	}
	c.characters = countCharacters(text)
	return c
}

// countCharacters counts non-whitespace runes
func countCharacters(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// CountSentences splits on each '.', '!' or '?' and returns the number of
// resulting pieces. It is never less than 1.
func CountSentences(text string) int {
	return len(sentenceBreaks.Split(text, -1))
}

// CountWords returns the number of whitespace-separated tokens in text
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ScoreText computes document-level metrics. Texts without words get the
// same defaults as ScoreSentence: ARI and Coleman-Liau 0, Flesch 100.
func ScoreText(text string) DocumentMetrics {
	c := countText(text)
	sentences := CountSentences(text)

	m := DocumentMetrics{
		WordCount:             c.words,
		SentenceCount:         sentences,
		TotalSyllables:        c.syllables,
		PolysyllabicWordCount: c.polysyllabic,
		CharacterCount:        c.characters,
	}
	m.ARI, m.ColemanLiau, m.Flesch = indices(c, sentences)
	m.SMOG = 3.1291 + 1.043*math.Sqrt(float64(c.polysyllabic)*(30/float64(sentences)))
	return m
}

// ScoreSentence computes metrics for sentence treated as exactly one
// sentence. It returns nil when sentence is blank.
//
// SMOG is normally defined over a 30-sentence sample. Per sentence this uses
// 3.1291 + 1.043*sqrt(polysyllables*30), which is only an approximation and
// differs from the document formula on purpose.
func ScoreSentence(sentence string) *SentenceMetrics {
	if strings.TrimSpace(sentence) == "" {
		return nil
	}

	c := countText(sentence)
	m := &SentenceMetrics{
		Text:                  sentence,
		WordCount:             c.words,
		SyllableCount:         c.syllables,
		PolysyllabicWordCount: c.polysyllabic,
		CharacterCount:        c.characters,
	}
	m.ARI, m.ColemanLiau, m.Flesch = indices(c, 1)
	m.SMOG = 3.1291 + 1.043*math.Sqrt(float64(c.polysyllabic)*30)
	return m
}

func indices(c counts, sentences int) (ari, colemanLiau, flesch float64) {
	if c.words == 0 || sentences == 0 {
		return 0, 0, 100
	}
	w := float64(c.words)
	s := float64(sentences)
	chars := float64(c.characters)

	ari = 4.71*(chars/w) + 0.5*(w/s) - 21.43
	colemanLiau = 0.0588*(chars/w*100) - 0.296*(s/w*100) - 15.8
	flesch = 206.835 - 1.015*(w/s) - 84.6*(float64(c.syllables)/w)
	return ari, colemanLiau, flesch
}
