package analytics

import (
	"math"

	"github.com/jonathan/assessment-reports/internal/types"
)

// Classification is the alignment class of one common section.
type Classification string

const (
	Aligned      Classification = "aligned"
	Divergent    Classification = "divergent"
	Unclassified Classification = ""
)

const (
	alignedMaxDiff      = 15.0
	alignedMinScore     = 60.0
	divergentMinDiff    = 25.0
	strongTierMaxDiff   = 10.0
	moderateTierMaxDiff = 20.0
)

// Tier is the narrative tier selected from a score difference.
type Tier int

const (
	TierStrong Tier = iota
	TierModerate
	TierSignificant
)

// Label is the short table label for a tier.
func (t Tier) Label() string {
	switch t {
	case TierStrong:
		return "Strong"
	case TierModerate:
		return "Moderate"
	default:
		return "Discuss"
	}
}

// Description is the narrative name of a tier.
func (t Tier) Description() string {
	switch t {
	case TierStrong:
		return "strong alignment"
	case TierModerate:
		return "moderate alignment"
	default:
		return "significant differences, discussion recommended"
	}
}

// TierFor selects the tier for an absolute difference.
func TierFor(diff float64) Tier {
	diff = math.Abs(diff)
	switch {
	case diff < strongTierMaxDiff:
		return TierStrong
	case diff < moderateTierMaxDiff:
		return TierModerate
	default:
		return TierSignificant
	}
}

// SectionComparison holds both partners' results for one common section.
type SectionComparison struct {
	Section    string         `json:"section"`
	A          float64        `json:"a"`
	B          float64        `json:"b"`
	Difference float64        `json:"difference"`
	Class      Classification `json:"class"`
	Tier       Tier           `json:"tier"`
}

// Classify compares every common section, ordered by section name.
func Classify(a, b types.ScoreSet) []SectionComparison {
	names := CommonSections(a, b)
	out := make([]SectionComparison, 0, len(names))
	for _, name := range names {
		pa := a.Sections[name].Percentage
		pb := b.Sections[name].Percentage
		out = append(out, compareSection(name, pa, pb))
	}
	return out
}

func compareSection(name string, pa, pb float64) SectionComparison {
	d := math.Abs(pa - pb)
	sc := SectionComparison{Section: name, A: pa, B: pb, Difference: d, Tier: TierFor(d)}
	switch {
	case d < alignedMaxDiff && pa > alignedMinScore && pb > alignedMinScore:
		sc.Class = Aligned
	case d > divergentMinDiff:
		sc.Class = Divergent
	default:
		sc.Class = Unclassified
	}
	return sc
}

// OverallTier selects the narrative tier for the overall score difference.
func OverallTier(a, b types.ScoreSet) Tier {
	return TierFor(a.OverallPercentage - b.OverallPercentage)
}
