package rendering

import (
	"fmt"

	"github.com/jonathan/assessment-reports/internal/analytics"
	"github.com/jonathan/assessment-reports/internal/appendix"
	"github.com/jonathan/assessment-reports/internal/layout"
	"github.com/jonathan/assessment-reports/internal/normalize"
	"github.com/jonathan/assessment-reports/internal/types"
)

// Section titles of the individual report.
const (
	TitleOverall      = "Overall Score"
	TitleSections     = "Section Scores"
	TitleProfile      = "Your Profile"
	TitleComparison   = "How You Compare"
	TitleStrengths    = "Strengths"
	TitleImprovements = "Areas for Growth"
	TitleNextSteps    = "Next Steps"
	TitleAbout        = "About This Assessment"
)

// RenderIndividual normalizes raw and renders a single-respondent report. Malformed
// input never fails the render; only stream failures are returned.
func (r *Renderer) RenderIndividual(raw types.RawRecord) (*Document, error) {
	rec, warnings := r.normalizer.Record(raw)
	return r.Individual(rec, warnings...)
}

// Individual renders an already normalized record.
func (r *Renderer) Individual(rec types.AssessmentRecord, warnings ...normalize.Warning) (*Document, error) {
	name := rec.Demographics.Name
	doc := r.newDocument(KindIndividual, rec.ID, name+" - Assessment Report", warnings)
	e := r.newEngine(doc, "Individual assessment report", layout.IndividualTheme())
	date := formatDate(rec.CreatedAt)
	e.SetFooter(name+" | Assessment Report", date)

	e.Header("Relationship Assessment Report", fmt.Sprintf("Prepared for %s on %s", name, date))
	for _, p := range paragraphs(r.copyText(introTemplate(rec.Demographics.RelationshipStatus), copyData{Name: name, Date: date})) {
		e.Paragraph(p, layout.TextOptions{})
	}

	scores := rec.Scores
	e.SectionHeader(TitleOverall, layout.DialPoints+30)
	e.BigScore(scores.OverallPercentage, analytics.BandFor(scores.OverallPercentage).Label())

	r.sectionGauges(e, scores)

	r.profileBlocks(e, TitleProfile, rec)

	r.comparison(e, scores)

	e.SectionHeader(TitleStrengths, 0)
	e.Bullets(scores.Strengths, layout.TextOptions{})
	e.SectionHeader(TitleImprovements, 0)
	e.Bullets(scores.ImprovementAreas, layout.TextOptions{})

	e.SectionHeader(TitleNextSteps, 0)
	e.Bullets(items(r.copyText("nextsteps.individual", copyData{Name: name})), layout.TextOptions{})

	e.SectionHeader(TitleAbout, 0)
	for _, p := range paragraphs(r.copyText("about", copyData{})) {
		e.Paragraph(p, layout.TextOptions{Size: 10})
	}

	e.ForcePageBreak()
	appendix.Render(e, r.opts.Catalog)
	return r.finish(e, doc)
}

func (r *Renderer) sectionGauges(e *layout.Engine, scores types.ScoreSet) {
	names := scores.SectionNames()
	e.SectionHeader(TitleSections, 60)
	if len(names) == 0 {
		muted := e.Theme().Muted
		e.Paragraph(layout.NotAvailable, layout.TextOptions{Style: layout.Italic, Color: &muted})
		return
	}
	e.Paragraph(r.copyText("sections.intro", copyData{}), layout.TextOptions{Size: 10})
	for _, name := range names {
		e.ScoreGauge(name, scores.Sections[name].Percentage)
	}
	e.Spacer(6)
	th := e.Theme()
	e.Legend([]layout.LegendItem{
		{Color: th.Success, Label: analytics.BandHigh.Label(), Text: analytics.BandHigh.Interpretation()},
		{Color: th.Warning, Label: analytics.BandModerate.Label(), Text: analytics.BandModerate.Interpretation()},
		{Color: th.Accent, Label: analytics.BandLow.Label(), Text: analytics.BandLow.Interpretation()},
	})
}

// comparison draws the overall and per-section scores against the stored averages,
// followed by the percentile estimate.
func (r *Renderer) comparison(e *layout.Engine, scores types.ScoreSet) {
	base := r.opts.Baseline
	e.SectionHeader(TitleComparison, 0)
	e.Paragraph(r.copyText("stats.intro", copyData{}), layout.TextOptions{Size: 10})
	e.Paragraph(analytics.BaselineNarrative("Overall", scores.OverallPercentage, base.Overall), layout.TextOptions{Style: layout.Bold})

	comparisons := base.Compare(scores)
	if len(comparisons) > 0 {
		lines := make([]string, 0, len(comparisons))
		for _, c := range comparisons {
			lines = append(lines, c.Narrative())
		}
		e.Bullets(lines, layout.TextOptions{Size: 10})
	}
	e.Paragraph(analytics.PercentileNarrative(scores.OverallPercentage), layout.TextOptions{})
}
