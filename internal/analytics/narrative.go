package analytics

import (
	"fmt"
	"math"

	"github.com/jonathan/assessment-reports/internal/types"
)

// Band groups a single percentage into the interpretive legend used by score gauges.
type Band int

const (
	BandLow Band = iota
	BandModerate
	BandHigh
)

const (
	highBandMin     = 80.0
	moderateBandMin = 60.0
)

// BandFor returns the legend band for a percentage. Thresholds match the gauge colors.
func BandFor(pct float64) Band {
	switch {
	case pct >= highBandMin:
		return BandHigh
	case pct >= moderateBandMin:
		return BandModerate
	default:
		return BandLow
	}
}

// Label is the legend heading for the band.
func (b Band) Label() string {
	switch b {
	case BandHigh:
		return "High (80% and above)"
	case BandModerate:
		return "Moderate (60-79%)"
	default:
		return "Low (below 60%)"
	}
}

// Interpretation is the one-sentence legend text for the band.
func (b Band) Interpretation() string {
	switch b {
	case BandHigh:
		return "A clear strength. Keep investing in the habits that got you here."
	case BandModerate:
		return "A solid foundation with room to grow through intentional conversation."
	default:
		return "An area that deserves focused attention and, where helpful, outside support."
	}
}

// Pronouns holds the pronoun forms used in narrative sentences.
type Pronouns struct {
	Subject    string
	Object     string
	Possessive string
}

// PronounsFor selects pronouns from a resolved gender; unknown yields they/them.
func PronounsFor(g types.Gender) Pronouns {
	switch g {
	case types.GenderMale:
		return Pronouns{Subject: "he", Object: "him", Possessive: "his"}
	case types.GenderFemale:
		return Pronouns{Subject: "she", Object: "her", Possessive: "her"}
	default:
		return Pronouns{Subject: "they", Object: "them", Possessive: "their"}
	}
}

// Ordinal formats n with its English ordinal suffix.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// PercentileNarrative describes where an overall score stands.
func PercentileNarrative(score float64) string {
	p := Percentile(score)
	return fmt.Sprintf("An overall score of %.1f%% places you at approximately the %s percentile of respondents. "+
		"Percentiles are estimates based on broad score bands and are meant as a general guide.", score, Ordinal(p))
}

// BaselineNarrative compares a score against a stored average.
func BaselineNarrative(label string, score, baseline float64) string {
	diff := score - baseline
	switch {
	case math.Abs(diff) < 2:
		return fmt.Sprintf("%s: %.1f%%, in line with the average of %.1f%%.", label, score, baseline)
	case diff > 0:
		return fmt.Sprintf("%s: %.1f%%, %.1f points above the average of %.1f%%.", label, score, diff, baseline)
	default:
		return fmt.Sprintf("%s: %.1f%%, %.1f points below the average of %.1f%%.", label, score, -diff, baseline)
	}
}

// OverallNarrative returns tier-selected prose about the overall difference.
func OverallNarrative(tier Tier, nameA, nameB string) string {
	switch tier {
	case TierStrong:
		return fmt.Sprintf("%s and %s show strong alignment overall. Your results suggest you approach most "+
			"areas of your relationship from a similar place, which gives you a steady base to build on.", nameA, nameB)
	case TierModerate:
		return fmt.Sprintf("%s and %s show moderate alignment overall. You share a good deal of common ground, "+
			"with a few areas where your expectations differ enough to be worth talking through.", nameA, nameB)
	default:
		return fmt.Sprintf("%s and %s show significant differences overall. This is not a verdict on your "+
			"relationship; it is an invitation to discuss these areas openly, ideally with a mentor or counselor.", nameA, nameB)
	}
}

// SectionNarrative returns the narrative for a classified section, or "" when the
// section is unclassified.
func SectionNarrative(sc SectionComparison, a, b types.AssessmentRecord) string {
	nameA, nameB := a.Demographics.Name, b.Demographics.Name
	switch sc.Class {
	case Aligned:
		return fmt.Sprintf("%s: both of you score well (%.0f%% and %.0f%%) and see this area in much the same way.",
			sc.Section, sc.A, sc.B)
	case Divergent:
		lower, lowerRec := nameB, b
		if sc.B > sc.A {
			lower, lowerRec = nameA, a
		}
		p := PronounsFor(lowerRec.Demographics.ResolvedGender)
		return fmt.Sprintf("%s: %s (%.0f%%) and %s (%.0f%%) differ by %.0f points. Ask %s what shapes %s view "+
			"here before deciding who is right.", sc.Section, nameA, sc.A, nameB, sc.B, sc.Difference, lower, p.Possessive)
	default:
		return ""
	}
}
