package types

import "encoding/json"

// DifferenceItem names a section and the narrative attached to it.
type DifferenceItem struct {
	Section   string `json:"section"`
	Narrative string `json:"narrative"`
}

// DifferenceAnalysis classifies where two respondents align or diverge.
type DifferenceAnalysis struct {
	AlignmentAreas         []DifferenceItem `json:"alignmentAreas"`
	SignificantDifferences []DifferenceItem `json:"significantDifferences"`
	Recommendations        []string         `json:"recommendations"`
}

// IsZero reports whether the analysis has no content at all.
func (d DifferenceAnalysis) IsZero() bool {
	return len(d.AlignmentAreas) == 0 && len(d.SignificantDifferences) == 0 && len(d.Recommendations) == 0
}

// CoupleRecord is the normalized paired-respondent input.
type CoupleRecord struct {
	ID                 string              `json:"id"`
	Primary            AssessmentRecord    `json:"primary"`
	Spouse             AssessmentRecord    `json:"spouse"`
	CompatibilityScore float64             `json:"compatibilityScore"`
	Analysis           *DifferenceAnalysis `json:"differenceAnalysis,omitempty"`
	Recommendations    []string            `json:"recommendations"`
}

// RawCoupleRecord is a couple record as supplied by storage. Each partner is a raw
// record object or a JSON-encoded string of one.
type RawCoupleRecord struct {
	ID                 json.RawMessage `json:"id,omitempty"`
	Primary            json.RawMessage `json:"primary,omitempty"`
	Spouse             json.RawMessage `json:"spouse,omitempty"`
	CompatibilityScore json.RawMessage `json:"compatibilityScore,omitempty"`
	DifferenceAnalysis json.RawMessage `json:"differenceAnalysis,omitempty"`
	Recommendations    json.RawMessage `json:"recommendations,omitempty"`
}
