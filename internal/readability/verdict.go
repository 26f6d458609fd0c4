package readability

// Verdict describes one index of a DocumentMetrics against its target.
type Verdict struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Target string  `json:"target"`
	Great  bool    `json:"great"`
}

// Grade-level indices read best below 10; Flesch reading ease above 60.
const (
	GreatGradeBelow  = 10.0
	GreatFleschAbove = 60.0
)

// Verdicts returns the four indices of m in report order
func Verdicts(m DocumentMetrics) []Verdict {
	grade := func(name string, score float64) Verdict {
		return Verdict{
			Name:   name,
			Score:  score,
			Target: "Below 10 is Great",
			Great:  score < GreatGradeBelow,
		}
	}
	return []Verdict{
		grade("Automated Readability Index", m.ARI),
		grade("Coleman-Liau Index", m.ColemanLiau),
		{
			Name:   "Flesch Reading Ease",
			Score:  m.Flesch,
			Target: "Above 60 is Great",
			Great:  m.Flesch > GreatFleschAbove,
		},
		grade("SMOG Grade", m.SMOG),
	}
}
