// Package analytics computes derived statistics for single and paired assessment results.
package analytics

// percentileBand maps a minimum score to the percentile reported for it.
type percentileBand struct {
	MinScore   float64
	Percentile int
}

// percentileBands must stay ordered by descending MinScore with non-increasing
// Percentile so that Percentile is monotonic in score.
// TODO: replace with measured population statistics once enough completed assessments exist.
var percentileBands = []percentileBand{
	{MinScore: 85, Percentile: 90},
	{MinScore: 75, Percentile: 75},
	{MinScore: 65, Percentile: 60},
	{MinScore: 55, Percentile: 45},
	{MinScore: 45, Percentile: 30},
}

const floorPercentile = 15

// Percentile estimates the percentile standing of an overall score.
func Percentile(score float64) int {
	for _, b := range percentileBands {
		if score >= b.MinScore {
			return b.Percentile
		}
	}
	return floorPercentile
}
