package jira

import (
	"fmt"
	"math"
	"time"
)

// AgeColor maps a fraction of the oldest age to a translucent color from
// green (0) through yellow to red (1). Out of range values are clamped and
// NaN counts as 0.
func AgeColor(frac float64) string {
	t := frac
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))

	r := math.Round(255 * t)
	g := math.Round(255 * (1 - t))
	return fmt.Sprintf("rgba(%d,%d,0,0.5)", int(r), int(g))
}

// AgeFractions returns each creation time's age as a fraction of the
// oldest age in the set. Zero times have no age and yield NaN. When every
// valid age is zero the fractions are 0.
func AgeFractions(created []time.Time, now time.Time) []float64 {
	ages := make([]float64, len(created))
	var oldest float64
	for i, c := range created {
		if c.IsZero() {
			ages[i] = math.NaN()
			continue
		}
		ages[i] = now.Sub(c).Hours() / 24
		oldest = math.Max(oldest, ages[i])
	}

	for i, a := range ages {
		switch {
		case math.IsNaN(a):
		case oldest <= 0:
			ages[i] = 0
		default:
			ages[i] = a / oldest
		}
	}
	return ages
}
