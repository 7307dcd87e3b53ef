package layout

import (
	"fmt"
	"math"
	"strings"
)

// BulletGlyph is drawn in front of every bullet item.
const BulletGlyph = "•"

const (
	headerTitleSize     = 22.0
	headerSubtitleSize  = 12.0
	headerPadding       = 22.0
	headerGap           = 20.0
	sectionHeaderHeight = 32.0
	sectionTitleSize    = 14.0
	defaultMinBody      = 60.0
	bulletIndent        = 14.0
	bulletSpacing       = 3.0
	gaugeBlockHeight    = 46.0
	gaugeBarOffset      = 18.0
	gaugeBarHeight      = 10.0
	gaugeDividerOffset  = 38.0
	bigScoreSize        = 30.0
)

// Header fills a colored band across the full page width with a centered title and
// optional subtitle. At the top of a page the band starts at the page edge.
func (e *Engine) Header(title, subtitle string) {
	if strings.TrimSpace(title) == "" {
		title = "Assessment Report"
	}
	width := e.ContentWidth()

	e.surface.SetFont(Bold, headerTitleSize)
	titleLines := e.surface.SplitText(title, width)
	if len(titleLines) > 2 {
		titleLines = titleLines[:2]
	}
	titleH := float64(len(titleLines)) * LineHeight(headerTitleSize)
	subH := 0.0
	if subtitle != "" {
		subH = LineHeight(headerSubtitleSize) + 4
	}
	bandH := headerPadding*2 + titleH + subH

	top := 0.0
	if !e.cursor.AtTop() {
		e.cursor.CheckPageBreak(bandH)
		top = e.cursor.Y()
	}
	if e.cursor.AtTop() {
		top = 0
	}

	e.surface.SetFillColor(e.theme.Primary)
	e.surface.FillRect(0, top, e.cursor.spec.Width, bandH)

	e.surface.SetFont(Bold, headerTitleSize)
	e.surface.SetTextColor(e.theme.OnPrimary)
	e.surface.DrawText(e.Left(), top+headerPadding, width, LineHeight(headerTitleSize), titleLines, AlignCenter)
	if subtitle != "" {
		e.surface.SetFont(Regular, headerSubtitleSize)
		e.surface.DrawText(e.Left(), top+headerPadding+titleH+4, width, LineHeight(headerSubtitleSize),
			[]string{subtitle}, AlignCenter)
	}
	e.cursor.SetY(top + bandH + headerGap)
}

// SectionHeaderHeight is the vertical space a section header takes.
const SectionHeaderHeight = sectionHeaderHeight

// SectionHeader keeps the header together with at least minBody points of its body,
// then draws a colored bar, a rule line and the bold title. The first block drawn
// after it continues line by line rather than leaving the header behind.
func (e *Engine) SectionHeader(title string, minBody float64) {
	if minBody <= 0 {
		minBody = defaultMinBody
	}
	e.KeepTogether(sectionHeaderHeight + minBody)
	e.drawSectionHeader(title)
}

func (e *Engine) drawSectionHeader(title string) {
	y := e.cursor.Y()
	x := e.Left()
	e.surface.SetFillColor(e.theme.Primary)
	e.surface.FillRect(x, y, 4, 22)
	e.surface.SetDrawColor(e.theme.Rule)
	e.surface.SetLineWidth(0.75)
	e.surface.Line(x, y+24, x+e.ContentWidth(), y+24)

	e.surface.SetFont(Bold, sectionTitleSize)
	e.surface.SetTextColor(e.theme.Primary)
	lines := e.surface.SplitText(title, e.ContentWidth()-12)
	if len(lines) == 0 {
		lines = []string{"Section"}
	}
	e.surface.DrawText(x+12, y+2, e.ContentWidth()-12, LineHeight(sectionTitleSize), lines[:1], AlignLeft)
	e.cursor.Advance(sectionHeaderHeight)
	e.heading.page, e.heading.y = e.cursor.Page(), e.cursor.Y()
}

// Paragraph measures text at the content width, breaks the page if the block would
// not fit, draws it and advances past it plus paragraph spacing. Blocks taller than a
// whole page, Flow blocks and the first block under a section header continue line
// by line onto following pages.
func (e *Engine) Paragraph(text string, opts TextOptions) {
	opts = e.resolve(opts)
	if strings.TrimSpace(text) == "" {
		text = NotAvailable
	}
	width := e.ContentWidth()
	lines, h := e.Measure(text, width, opts)
	if h <= e.cursor.spec.PrintableHeight() && !opts.Flow && !e.afterHeading() {
		e.cursor.CheckPageBreak(h)
	}
	e.flowLines(lines, e.Left()+opts.Indent, width-opts.Indent, opts)
	e.cursor.Skip(opts.Spacing)
}

// Bullets draws one bullet per item, measuring each individually. It returns the number
// of bullets drawn; an empty list draws the not-available placeholder instead.
func (e *Engine) Bullets(items []string, opts TextOptions) int {
	opts = e.resolve(opts)
	if len(items) == 0 {
		muted := e.theme.Muted
		e.Paragraph(NotAvailable, TextOptions{Size: opts.Size, Style: Italic, Indent: opts.Indent, Color: &muted})
		return 0
	}

	x := e.Left() + opts.Indent
	width := e.ContentWidth() - opts.Indent
	lh := LineHeight(opts.Size)
	drawn := 0
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			item = NotAvailable
		}
		lines, h := e.Measure(item, width-bulletIndent, TextOptions{Size: opts.Size, Style: opts.Style})
		if h <= e.cursor.spec.PrintableHeight() && !e.afterHeading() {
			e.cursor.CheckPageBreak(h)
		} else {
			e.cursor.CheckPageBreak(lh)
		}
		e.applyText(opts)
		e.surface.DrawText(x, e.cursor.Y(), bulletIndent, lh, []string{BulletGlyph}, AlignLeft)
		e.flowLines(lines, x+bulletIndent, width-bulletIndent, opts)
		e.cursor.Skip(bulletSpacing)
		drawn++
	}
	e.cursor.Skip(opts.Spacing)
	return drawn
}

// GaugeFillWidth is the fill length for pct on a bar of the given width.
func GaugeFillWidth(pct, width float64) float64 {
	return width * math.Max(0, math.Min(100, pct)) / 100
}

// ScoreGauge draws a labelled horizontal bar for one percentage.
func (e *Engine) ScoreGauge(label string, pct float64) {
	e.cursor.CheckPageBreak(gaugeBlockHeight)
	e.drawGauge(e.Left(), e.cursor.Y(), e.ContentWidth(), label, pct)
	e.surface.SetDrawColor(e.theme.Rule)
	e.surface.SetLineWidth(0.5)
	y := e.cursor.Y() + gaugeDividerOffset
	e.surface.Line(e.Left(), y, e.Left()+e.ContentWidth(), y)
	e.cursor.Advance(gaugeBlockHeight)
}

// ScoreGaugePair draws two gauges side by side on one row.
func (e *Engine) ScoreGaugePair(labelA string, pctA float64, labelB string, pctB float64) {
	const gap = 24.0
	e.cursor.CheckPageBreak(gaugeBlockHeight)
	half := (e.ContentWidth() - gap) / 2
	y := e.cursor.Y()
	e.drawGauge(e.Left(), y, half, labelA, pctA)
	e.drawGauge(e.Left()+half+gap, y, half, labelB, pctB)
	e.surface.SetDrawColor(e.theme.Rule)
	e.surface.SetLineWidth(0.5)
	e.surface.Line(e.Left(), y+gaugeDividerOffset, e.Left()+e.ContentWidth(), y+gaugeDividerOffset)
	e.cursor.Advance(gaugeBlockHeight)
}

func (e *Engine) drawGauge(x, y, width float64, label string, pct float64) {
	if strings.TrimSpace(label) == "" {
		label = "Score"
	}
	pct = math.Max(0, math.Min(100, pct))
	lh := LineHeight(defaultFontSize)

	e.surface.SetFont(Bold, defaultFontSize)
	e.surface.SetTextColor(e.theme.Text)
	e.surface.DrawText(x, y, width*0.75, lh, e.firstLine(label, width*0.75), AlignLeft)
	e.surface.DrawText(x, y, width, lh, []string{fmt.Sprintf("%.1f%%", pct)}, AlignRight)

	e.surface.SetFillColor(e.theme.Track)
	e.surface.FillRect(x, y+gaugeBarOffset, width, gaugeBarHeight)
	e.surface.SetFillColor(e.theme.GaugeColor(pct))
	e.surface.FillRect(x, y+gaugeBarOffset, GaugeFillWidth(pct, width), gaugeBarHeight)
}

func (e *Engine) firstLine(text string, width float64) []string {
	lines := e.surface.SplitText(text, width)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines[:1]
}

// BigScore draws a large centered percentage over a score dial with a caption below.
func (e *Engine) BigScore(pct float64, caption string) {
	pct = math.Max(0, math.Min(100, pct))
	size := DialPoints
	numberLH := LineHeight(bigScoreSize)
	captionLH := LineHeight(defaultFontSize)
	block := size + 6 + captionLH
	e.cursor.CheckPageBreak(block)

	y := e.cursor.Y()
	x := e.Left() + (e.ContentWidth()-size)/2
	if png, err := RenderDial(pct, e.theme.GaugeColor(pct), e.theme.Track, DialPixels); err == nil {
		e.surface.DrawImage(e.nextImageName("dial"), png, x, y, size, size)
	}

	e.surface.SetFont(Bold, bigScoreSize)
	e.surface.SetTextColor(e.theme.Primary)
	e.surface.DrawText(e.Left(), y+(size-numberLH)/2, e.ContentWidth(), numberLH,
		[]string{fmt.Sprintf("%.1f%%", pct)}, AlignCenter)

	if caption != "" {
		e.surface.SetFont(Regular, defaultFontSize)
		e.surface.SetTextColor(e.theme.Muted)
		e.surface.DrawText(e.Left(), y+size+6, e.ContentWidth(), captionLH, e.firstLine(caption, e.ContentWidth()), AlignCenter)
	}
	e.cursor.Advance(block)
	e.cursor.Skip(paragraphSpacing)
}

// LegendItem is one row of a color legend.
type LegendItem struct {
	Color Color
	Label string
	Text  string
}

// Legend draws a swatch, bold label and wrapped explanation per item.
func (e *Engine) Legend(items []LegendItem) {
	const swatch = 10.0
	const labelWidth = 140.0
	size := 10.0
	lh := LineHeight(size)
	textX := e.Left() + swatch + 8 + labelWidth
	textW := e.ContentWidth() - swatch - 8 - labelWidth

	for _, item := range items {
		lines, h := e.Measure(item.Text, textW, TextOptions{Size: size})
		h = math.Max(h, lh) + 4
		e.cursor.CheckPageBreak(h)
		y := e.cursor.Y()

		e.surface.SetFillColor(item.Color)
		e.surface.FillRect(e.Left(), y+(lh-swatch)/2, swatch, swatch)
		e.surface.SetFont(Bold, size)
		e.surface.SetTextColor(e.theme.Text)
		e.surface.DrawText(e.Left()+swatch+8, y, labelWidth, lh, e.firstLine(item.Label, labelWidth), AlignLeft)
		e.surface.SetFont(Regular, size)
		e.surface.DrawText(textX, y, textW, lh, lines, AlignLeft)
		e.cursor.Advance(h)
	}
	e.cursor.Skip(paragraphSpacing)
}

// Spacer adds vertical whitespace.
func (e *Engine) Spacer(h float64) {
	e.cursor.Skip(h)
}
