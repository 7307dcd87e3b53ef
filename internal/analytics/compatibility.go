package analytics

import (
	"math"

	"github.com/jonathan/assessment-reports/internal/types"
)

const (
	// MinCompatibility and MaxCompatibility bound every compatibility score.
	MinCompatibility = 30.0
	MaxCompatibility = 95.0

	closeSectionDiff   = 10.0
	closeSectionBonus  = 2.0
	distantSectionDiff = 30.0
	distantPenalty     = 1.0
)

// Adjustment records the effect of one common section on the compatibility score.
type Adjustment struct {
	Section    string  `json:"section"`
	Difference float64 `json:"difference"`
	Delta      float64 `json:"delta"`
}

// Breakdown explains how a compatibility score was reached.
type Breakdown struct {
	OverallDifference float64      `json:"overallDifference"`
	Base              float64      `json:"base"`
	Adjustments       []Adjustment `json:"adjustments"`
	Raw               float64      `json:"raw"`
	Score             float64      `json:"score"`
}

// Compatibility returns the clamped pairwise compatibility score. It is symmetric in a and b.
func Compatibility(a, b types.ScoreSet) float64 {
	return CompatibilityBreakdown(a, b).Score
}

// CompatibilityBreakdown computes the compatibility score along with its components.
func CompatibilityBreakdown(a, b types.ScoreSet) Breakdown {
	diff := math.Abs(a.OverallPercentage - b.OverallPercentage)
	bd := Breakdown{
		OverallDifference: diff,
		Base:              100 - 2*diff,
		Adjustments:       []Adjustment{},
	}
	bd.Raw = bd.Base

	for _, name := range CommonSections(a, b) {
		d := math.Abs(a.Sections[name].Percentage - b.Sections[name].Percentage)
		var delta float64
		switch {
		case d < closeSectionDiff:
			delta = closeSectionBonus
		case d > distantSectionDiff:
			delta = -distantPenalty
		}
		bd.Adjustments = append(bd.Adjustments, Adjustment{Section: name, Difference: d, Delta: delta})
		bd.Raw += delta
	}

	bd.Score = clamp(bd.Raw, MinCompatibility, MaxCompatibility)
	return bd
}

// CommonSections returns the sorted names of sections present in both score sets.
func CommonSections(a, b types.ScoreSet) []string {
	out := []string{}
	for _, name := range a.SectionNames() {
		if _, ok := b.Sections[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// clamp bounds v to [lo, hi]. NaN has no meaningful position and maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
