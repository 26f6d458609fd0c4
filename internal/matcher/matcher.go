// Package matcher scans text against an ordered table of regex rules and
// returns a conflict-free, position-sorted list of matches.
package matcher

import (
	"fmt"
	"regexp"
	"sort"
)

// Category groups rules for display. The matcher passes it through untouched.
type Category string

const (
	CategoryContent       Category = "Content"
	CategoryLanguage      Category = "Language"
	CategoryStyle         Category = "Style"
	CategoryCommunication Category = "Communication"
)

// Categories returns all known categories in display order
func Categories() []Category {
	return []Category{
		CategoryContent,
		CategoryLanguage,
		CategoryStyle,
		CategoryCommunication,
	}
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Rule is a named detector. Rules are built once and never mutated.
type Rule struct {
	ID              string
	Pattern         *regexp.Regexp
	Category        Category
	Name            string
	Description     string
	ReferenceAnchor string
}

// Match is a single hit of a rule in the scanned text.
// Start and End are byte offsets; the range is half-open.
type Match struct {
	Start int
	End   int
	Text  string
	Rule  *Rule
}

// Len returns the length of the match in bytes
func (m Match) Len() int {
	return m.End - m.Start
}

// Scan runs every rule against text and resolves overlaps.
//
// Candidates are ordered by start offset; for equal offsets the rule that
// appears earlier in rules wins. A candidate is kept only when it starts at
// or after the end of the previously kept match.
func Scan(text string, rules []*Rule) []Match {
	result := make([]Match, 0)
	if text == "" {
		return result
	}

	var candidates []Match
	for _, rule := range rules {
		if rule == nil || rule.Pattern == nil {
			continue
		}
		for _, loc := range rule.Pattern.FindAllStringIndex(text, -1) {
			// FindAll already steps past empty matches; they carry no span
			if loc[1] <= loc[0] {
				continue
			}
			candidates = append(candidates, Match{
				Start: loc[0],
				End:   loc[1],
				Text:  text[loc[0]:loc[1]],
				Rule:  rule,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})

	lastEnd := 0
	for _, c := range candidates {
		if len(result) > 0 && c.Start < lastEnd {
			continue
		}
		result = append(result, c)
		lastEnd = c.End
	}

	return result
}

// ValidateTable checks a rule table for configuration errors. It is meant to
// run once when the table is loaded so that Scan never sees a broken rule.
func ValidateTable(rules []*Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("rule table is empty")
	}

	seen := make(map[string]bool, len(rules))
	for i, rule := range rules {
		if rule == nil {
			return fmt.Errorf("rule %d is nil", i)
		}
		if rule.ID == "" {
			return fmt.Errorf("rule %d has no id", i)
		}
		if seen[rule.ID] {
			return fmt.Errorf("duplicate rule id %q", rule.ID)
		}
		seen[rule.ID] = true
		if rule.Pattern == nil {
			return fmt.Errorf("rule %q has no pattern", rule.ID)
		}
		if !rule.Category.Valid() {
			return fmt.Errorf("rule %q has unknown category %q", rule.ID, rule.Category)
		}
	}
	return nil
}

// CountByCategory tallies matches per rule category
func CountByCategory(matches []Match) map[Category]int {
	counts := make(map[Category]int)
	for _, m := range matches {
		if m.Rule == nil {
			continue
		}
		counts[m.Rule.Category]++
	}
	return counts
}
