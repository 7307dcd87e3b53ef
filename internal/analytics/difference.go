package analytics

import (
	"fmt"

	"github.com/jonathan/assessment-reports/internal/types"
)

// DeriveDifferenceAnalysis builds a DifferenceAnalysis from the section classification.
func DeriveDifferenceAnalysis(a, b types.AssessmentRecord) types.DifferenceAnalysis {
	d := types.DifferenceAnalysis{
		AlignmentAreas:         []types.DifferenceItem{},
		SignificantDifferences: []types.DifferenceItem{},
		Recommendations:        []string{},
	}
	for _, sc := range Classify(a.Scores, b.Scores) {
		narrative := SectionNarrative(sc, a, b)
		switch sc.Class {
		case Aligned:
			d.AlignmentAreas = append(d.AlignmentAreas, types.DifferenceItem{Section: sc.Section, Narrative: narrative})
		case Divergent:
			d.SignificantDifferences = append(d.SignificantDifferences, types.DifferenceItem{Section: sc.Section, Narrative: narrative})
			d.Recommendations = append(d.Recommendations,
				fmt.Sprintf("Set aside time to talk about %s, each sharing what you expect and why.", sc.Section))
		}
	}
	if OverallTier(a.Scores, b.Scores) == TierSignificant {
		d.Recommendations = append(d.Recommendations,
			"Consider working through your results with a mentor couple or counselor.")
	}
	return d
}

// MergeDifferenceAnalysis layers an externally supplied analysis over a derived one.
// External entries come first; derived entries are added only for sections the external
// analysis does not name. Recommendations are de-duplicated preserving order.
func MergeDifferenceAnalysis(external *types.DifferenceAnalysis, derived types.DifferenceAnalysis) types.DifferenceAnalysis {
	if external == nil {
		return derived
	}
	named := map[string]bool{}
	for _, item := range external.AlignmentAreas {
		named[item.Section] = true
	}
	for _, item := range external.SignificantDifferences {
		named[item.Section] = true
	}

	out := types.DifferenceAnalysis{
		AlignmentAreas:         append([]types.DifferenceItem{}, external.AlignmentAreas...),
		SignificantDifferences: append([]types.DifferenceItem{}, external.SignificantDifferences...),
		Recommendations:        []string{},
	}
	for _, item := range derived.AlignmentAreas {
		if !named[item.Section] {
			out.AlignmentAreas = append(out.AlignmentAreas, item)
		}
	}
	for _, item := range derived.SignificantDifferences {
		if !named[item.Section] {
			out.SignificantDifferences = append(out.SignificantDifferences, item)
		}
	}
	out.Recommendations = dedupe(append(append([]string{}, external.Recommendations...), derived.Recommendations...))
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
