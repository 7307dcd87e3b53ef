package rendering

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/assessment-reports/internal/analytics"
	"github.com/jonathan/assessment-reports/internal/appendix"
	"github.com/jonathan/assessment-reports/internal/layout"
	"github.com/jonathan/assessment-reports/internal/normalize"
	"github.com/jonathan/assessment-reports/internal/types"
)

// Section titles of the couple report.
const (
	TitleCompatibility   = "Compatibility Score"
	TitleOverallScores   = "Overall Scores"
	TitleSectionCompare  = "Section Comparison"
	TitleNarrative       = "Comparative Narrative"
	TitleAlignment       = "Where You Align"
	TitleDifferences     = "Where You Differ"
	TitleRecommendations = "Recommendations"
	TitleJointNextSteps  = "Next Steps Together"
)

// RenderCouple normalizes raw and renders a paired report.
func (r *Renderer) RenderCouple(raw types.RawCoupleRecord) (*Document, error) {
	rec, warnings := r.normalizer.Couple(raw)
	return r.Couple(rec, warnings...)
}

// Couple renders an already normalized couple record. The compatibility score is
// always recomputed from both score sets.
func (r *Renderer) Couple(rec types.CoupleRecord, warnings ...normalize.Warning) (*Document, error) {
	a, b := rec.Primary, rec.Spouse
	nameA, nameB := a.Demographics.Name, b.Demographics.Name
	names := nameA + " & " + nameB
	doc := r.newDocument(KindCouple, rec.ID, names+" - Couple Report", warnings)
	e := r.newEngine(doc, "Couple assessment report", layout.CoupleTheme())
	date := formatDate(doc.CreatedAt)
	e.SetFooter(names+" | Couple Report", date)

	bd := analytics.CompatibilityBreakdown(a.Scores, b.Scores)
	if rec.CompatibilityScore != 0 && math.Abs(rec.CompatibilityScore-bd.Score) > 0.05 {
		r.log.Debug("stored compatibility differs from computed",
			"record_id", rec.ID, "stored", rec.CompatibilityScore, "computed", bd.Score)
	}

	e.Header("Couple Compatibility Report", fmt.Sprintf("%s  |  %s", names, date))
	data := copyData{Name: nameA, Partner: nameB, Date: date}
	e.Paragraph(r.copyText("couple.intro", data), layout.TextOptions{})

	e.SectionHeader(TitleCompatibility, layout.DialPoints+30)
	e.BigScore(bd.Score, "Compatibility")
	e.Paragraph(r.copyText("couple.compatibility", data), layout.TextOptions{Size: 10})

	e.SectionHeader(TitleOverallScores, 50)
	e.ScoreGaugePair(nameA, a.Scores.OverallPercentage, nameB, b.Scores.OverallPercentage)
	e.Spacer(8)

	comparisons := analytics.Classify(a.Scores, b.Scores)
	r.comparisonTable(e, comparisons, nameA, nameB)

	for _, partner := range []types.AssessmentRecord{a, b} {
		r.profileBlocks(e, possessive(partner.Demographics.Name)+" Profile", partner)
	}

	tier := analytics.OverallTier(a.Scores, b.Scores)
	e.SectionHeader(TitleNarrative, 0)
	e.Paragraph(analytics.OverallNarrative(tier, nameA, nameB), layout.TextOptions{})

	merged := analytics.MergeDifferenceAnalysis(rec.Analysis, analytics.DeriveDifferenceAnalysis(a, b))
	e.SectionHeader(TitleAlignment, 0)
	e.Bullets(itemTexts(merged.AlignmentAreas), layout.TextOptions{})
	e.SectionHeader(TitleDifferences, 0)
	e.Bullets(itemTexts(merged.SignificantDifferences), layout.TextOptions{})
	e.SectionHeader(TitleRecommendations, 0)
	e.Bullets(mergeStrings(merged.Recommendations, rec.Recommendations), layout.TextOptions{})

	e.SectionHeader(TitleJointNextSteps, 0)
	e.Bullets(items(r.copyText("nextsteps.couple", data)), layout.TextOptions{})

	e.ForcePageBreak()
	appendix.Render(e, r.opts.Catalog)
	return r.finish(e, doc)
}

func (r *Renderer) comparisonTable(e *layout.Engine, comparisons []analytics.SectionComparison, nameA, nameB string) {
	e.SectionHeader(TitleSectionCompare, 80)
	rows := make([][]string, 0, len(comparisons))
	for _, sc := range comparisons {
		rows = append(rows, []string{
			sc.Section,
			fmt.Sprintf("%.1f%%", sc.A),
			fmt.Sprintf("%.1f%%", sc.B),
			fmt.Sprintf("%.1f", sc.Difference),
			sc.Tier.Label(),
		})
	}
	e.Table([]layout.Column{
		{Title: "Section", Width: 0.32},
		{Title: nameA, Width: 0.17, Align: layout.AlignRight},
		{Title: nameB, Width: 0.17, Align: layout.AlignRight},
		{Title: "Difference", Width: 0.16, Align: layout.AlignRight},
		{Title: "Alignment", Width: 0.18, Align: layout.AlignCenter},
	}, rows)

	th := e.Theme()
	e.Paragraph(r.copyText("couple.table", copyData{}), layout.TextOptions{Size: 9, Style: layout.Italic, Color: &th.Muted, Spacing: 4})
	e.Legend([]layout.LegendItem{
		{Color: th.Success, Label: analytics.TierStrong.Label(), Text: analytics.TierStrong.Description()},
		{Color: th.Warning, Label: analytics.TierModerate.Label(), Text: analytics.TierModerate.Description()},
		{Color: th.Accent, Label: analytics.TierSignificant.Label(), Text: analytics.TierSignificant.Description()},
	})
}

// itemTexts formats difference items, prefixing the section unless the narrative
// already starts with it.
func itemTexts(list []types.DifferenceItem) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch {
		case item.Narrative == "":
			out = append(out, item.Section)
		case item.Section == "" || strings.HasPrefix(item.Narrative, item.Section):
			out = append(out, item.Narrative)
		default:
			out = append(out, item.Section+": "+item.Narrative)
		}
	}
	return out
}

// mergeStrings concatenates lists, dropping blanks and repeats.
func mergeStrings(lists ...[]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, list := range lists {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func possessive(name string) string {
	if strings.HasSuffix(name, "s") {
		return name + "'"
	}
	return name + "'s"
}
