// Package appendix renders the profile catalog as the reference section that closes
// every report.
package appendix

import (
	"math"

	"github.com/jonathan/assessment-reports/internal/catalog"
	"github.com/jonathan/assessment-reports/internal/layout"
)

const (
	// IconSize is the placed edge length of every catalog icon.
	IconSize = 36.0
	iconGap  = 10.0
	nameSize = 13.0
	headGap  = 6.0

	titleSpacing = 12.0
	// Title heads the appendix.
	Title = "Appendix: Profile Reference"
)

// Title and explanatory paragraph printed before each catalog partition.
var partitionText = map[catalog.Gender][2]string{
	catalog.GenderNone: {
		"General Profiles",
		"General profiles describe patterns seen in respondents of any gender. Every report assigns one general profile from overall and section scores.",
	},
	catalog.GenderFemale: {
		"Profiles for Women",
		"These profiles are assigned in addition to a general profile when the respondent identifies as female.",
	},
	catalog.GenderMale: {
		"Profiles for Men",
		"These profiles are assigned in addition to a general profile when the respondent identifies as male.",
	},
}

// PartitionTitle returns the heading used for a partition.
func PartitionTitle(g catalog.Gender) string {
	return partitionText[g][0]
}

// Render draws every catalog partition and returns the number of entries drawn.
// The caller starts the page; a nil or empty catalog draws a placeholder. Each
// partition header is kept on one page with its intro and its first entry, and the
// appendix title stays with the first partition.
func Render(e *layout.Engine, c *catalog.Catalog) int {
	muted := e.Theme().Muted
	titleOpts := layout.TextOptions{Size: 18, Style: layout.Bold, Spacing: titleSpacing}

	var parts []catalog.Partition
	if c != nil {
		parts = c.Partitions()
	}
	if len(parts) == 0 {
		e.Paragraph(Title, titleOpts)
		e.Paragraph(layout.NotAvailable, layout.TextOptions{Style: layout.Italic, Color: &muted})
		return 0
	}

	_, titleH := e.Measure(Title, e.ContentWidth(), titleOpts)
	e.KeepTogether(titleH + titleSpacing + layout.SectionHeaderHeight + openingHeight(e, parts[0]))
	e.Paragraph(Title, titleOpts)

	drawn := 0
	for i, p := range parts {
		text := partitionText[p.Gender]
		if i == 0 {
			_, introH := e.Measure(text[1], e.ContentWidth(), layout.TextOptions{Size: 10})
			e.SectionHeader(text[0], introH)
		} else {
			e.SectionHeader(text[0], openingHeight(e, p))
		}
		e.Paragraph(text[1], layout.TextOptions{Size: 10, Color: &muted})
		for j, entry := range p.Entries {
			renderEntry(e, entry, j == 0)
			drawn++
		}
	}
	return drawn
}

// openingHeight is the space a partition needs below its header: the intro paragraph
// and the first entry, capped at one page.
func openingHeight(e *layout.Engine, p catalog.Partition) float64 {
	_, introH := e.Measure(partitionText[p.Gender][1], e.ContentWidth(), layout.TextOptions{Size: 10})
	h := introH + 8
	if len(p.Entries) > 0 {
		h += estimate(e, p.Entries[0])
	}
	return math.Min(h, e.Cursor().Spec().PrintableHeight()-layout.SectionHeaderHeight)
}

func nameOptions(e *layout.Engine) layout.TextOptions {
	primary := e.Theme().Primary
	return layout.TextOptions{Size: nameSize, Style: layout.Bold, Color: &primary, Spacing: -1}
}

// estimateHead is the height of the icon and name row without the body.
func estimateHead(e *layout.Engine, entry catalog.Entry) float64 {
	_, nameH := e.Measure(entry.Name, e.ContentWidth()-IconSize-iconGap, nameOptions(e))
	return math.Max(IconSize, nameH) + headGap
}

func estimate(e *layout.Engine, entry catalog.Entry) float64 {
	width := e.ContentWidth()
	h := estimateHead(e, entry)
	_, descH := e.Measure(entry.Description, width, layout.TextOptions{})
	h += descH + 8
	if entry.Criteria != "" {
		_, ch := e.Measure(criteriaText(entry), width, layout.TextOptions{Size: 9})
		h += ch + 8
	}
	for _, c := range entry.Characteristics {
		_, bh := e.Measure(c, width-8-14, layout.TextOptions{})
		h += bh + 3
	}
	return h
}

func criteriaText(entry catalog.Entry) string {
	return "Assigned when: " + entry.Criteria
}

// renderEntry places the icon at the left margin with the name centered against it,
// then starts the description below whichever of the two ends lower. A reserved entry
// was already made room for by its partition header and only its head row is checked.
func renderEntry(e *layout.Engine, entry catalog.Entry, reserved bool) {
	cur := e.Cursor()
	if reserved {
		cur.CheckPageBreak(estimateHead(e, entry))
	} else {
		e.KeepTogether(estimate(e, entry))
	}

	x, y := e.Left(), cur.Y()
	textX, textW := x, e.ContentWidth()
	iconBottom := y
	icon, hasIcon := e.Icon(entry.Icon)
	if hasIcon {
		e.DrawIcon(icon, x, y, IconSize)
		iconBottom = y + IconSize
		textX = x + IconSize + iconGap
		textW -= IconSize + iconGap
	}

	opts := nameOptions(e)
	lines, nameH := e.Measure(entry.Name, textW, opts)
	nameY := y
	if hasIcon {
		nameY = math.Max(y, y+(IconSize-nameH)/2)
	}
	e.DrawLinesAt(textX, nameY, textW, lines, opts)

	bottom := math.Max(iconBottom, nameY+nameH)
	cur.Advance(bottom - y)
	cur.Skip(headGap)

	e.Paragraph(entry.Description, layout.TextOptions{Flow: true})
	if entry.Criteria != "" {
		muted := e.Theme().Muted
		e.Paragraph(criteriaText(entry), layout.TextOptions{Size: 9, Style: layout.Italic, Color: &muted})
	}
	if len(entry.Characteristics) > 0 {
		e.Bullets(entry.Characteristics, layout.TextOptions{Indent: 8})
	}
	e.Spacer(6)
}
