package analytics

import (
	"sort"

	"github.com/jonathan/assessment-reports/internal/types"
)

// Baseline holds stored population averages the individual report compares against.
type Baseline struct {
	Overall  float64            `json:"overall" yaml:"overall" validate:"gte=0,lte=100"`
	Sections map[string]float64 `json:"sections,omitempty" yaml:"sections,omitempty" validate:"dive,gte=0,lte=100"`
}

// DefaultBaseline is used when no averages are configured.
func DefaultBaseline() Baseline {
	return Baseline{
		Overall: 68,
		Sections: map[string]float64{
			"Communication":       66,
			"Conflict Resolution": 61,
			"Commitment":          78,
			"Finances":            63,
			"Intimacy":            70,
			"Trust":               74,
		},
	}
}

// Comparison pairs one score with its stored average.
type Comparison struct {
	Label    string
	Score    float64
	Baseline float64
}

// Narrative is the sentence describing the comparison.
func (c Comparison) Narrative() string {
	return BaselineNarrative(c.Label, c.Score, c.Baseline)
}

// Compare returns one comparison per scored section that has a stored average,
// ordered by section name. The overall comparison is not included.
func (b Baseline) Compare(s types.ScoreSet) []Comparison {
	out := []Comparison{}
	for name, sec := range s.Sections {
		if avg, ok := b.Sections[name]; ok {
			out = append(out, Comparison{Label: name, Score: sec.Percentage, Baseline: avg})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
