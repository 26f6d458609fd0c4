package analyzer

import (
	"sort"

	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/readability"
)

// Summary contains totals across a set of reports
type Summary struct {
	Documents  int                                `json:"documents"`
	Findings   int                                `json:"findings"`
	Words      int                                `json:"words"`
	Sentences  int                                `json:"sentences"`
	ByCategory map[matcher.Category]int           `json:"by_category"`
	ByRule     map[string]int                     `json:"by_rule"`
	Tiers      map[readability.DifficultyTier]int `json:"tiers"`
}

// Summarize computes totals for reports. Nil reports are skipped.
func Summarize(reports []*Report) Summary {
	s := Summary{
		ByCategory: make(map[matcher.Category]int),
		ByRule:     make(map[string]int),
		Tiers:      make(map[readability.DifficultyTier]int),
	}

	for _, r := range reports {
		if r == nil {
			continue
		}
		s.Documents++
		s.Findings += len(r.Findings)
		s.Words += r.Metrics.WordCount
		for _, f := range r.Findings {
			s.ByRule[f.RuleID]++
		}
		for c, n := range r.CategoryCounts {
			s.ByCategory[c] += n
		}
		for t, n := range r.TierCounts {
			s.Tiers[t] += n
			s.Sentences += n
		}
	}

	return s
}

// RuleCount is a rule id and how often it fired.
type RuleCount struct {
	RuleID string
	Count  int
}

// TopRules returns the rules that fired most, highest first, ties by id
func (s Summary) TopRules(n int) []RuleCount {
	out := make([]RuleCount, 0, len(s.ByRule))
	for id, c := range s.ByRule {
		out = append(out, RuleCount{RuleID: id, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].RuleID < out[j].RuleID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
