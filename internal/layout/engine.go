package layout

import (
	"fmt"
	"io"
	"math"

	"github.com/jonathan/assessment-reports/internal/assets"
)

// NotAvailable replaces any missing content so that a primitive always draws something.
const NotAvailable = "Not available for this assessment."

const (
	defaultFontSize  = 11.0
	lineHeightFactor = 1.35
	paragraphSpacing = 8.0
)

// IconSource loads optional icons. A false result means render text only.
type IconSource interface {
	LoadIcon(ref string) (assets.Icon, bool)
}

// TextOptions controls how a block of text is measured and drawn. Zero values pick
// defaults; a negative Spacing means no spacing after the block. Flow continues the
// block line by line instead of moving it whole to the next page, for bodies whose
// enclosing block already reserved its space.
type TextOptions struct {
	Size    float64
	Style   FontStyle
	Align   Align
	Indent  float64
	Color   *Color
	Spacing float64
	Flow    bool
}

// LineHeight returns the line height for a font size.
func LineHeight(size float64) float64 {
	return size * lineHeightFactor
}

// Engine couples a Surface with a Cursor and a Theme. Every drawing primitive measures,
// checks for a page break, draws, then advances the cursor. An Engine renders one
// document and must not be shared.
type Engine struct {
	surface Surface
	cursor  *Cursor
	theme   Theme
	icons   IconSource

	footerLeft   string
	footerCenter string
	imageSeq     int

	// heading marks where the last section header ended.
	heading struct {
		page int
		y    float64
	}
}

// NewEngine opens page 1 on surface. icons may be nil.
func NewEngine(surface Surface, spec PageSpec, theme Theme, icons IconSource) *Engine {
	e := &Engine{surface: surface, theme: theme, icons: icons}
	e.cursor = NewCursor(spec, e.pageBreak)
	e.cursor.NewPage()
	return e
}

func (e *Engine) Cursor() *Cursor { return e.cursor }

func (e *Engine) Surface() Surface { return e.surface }

func (e *Engine) Theme() Theme { return e.theme }

// Left is the x coordinate of the content area.
func (e *Engine) Left() float64 { return e.cursor.spec.Margins.Left }

// ContentWidth is the width between the side margins.
func (e *Engine) ContentWidth() float64 { return e.cursor.spec.ContentWidth() }

// SetFooter sets the text drawn at the left and center of every page footer.
func (e *Engine) SetFooter(left, center string) {
	e.footerLeft = left
	e.footerCenter = center
}

func (e *Engine) pageBreak(prev, _ int) {
	if prev > 0 {
		e.drawFooter(prev)
	}
	e.surface.AddPage()
}

func (e *Engine) drawFooter(page int) {
	spec := e.cursor.spec
	top := spec.Limit() + 8
	e.surface.SetDrawColor(e.theme.Rule)
	e.surface.SetLineWidth(0.5)
	e.surface.Line(spec.Margins.Left, top, spec.Width-spec.Margins.Right, top)

	size := 8.0
	lh := LineHeight(size)
	width := spec.ContentWidth()
	e.surface.SetFont(Regular, size)
	e.surface.SetTextColor(e.theme.Muted)
	if e.footerLeft != "" {
		e.surface.DrawText(spec.Margins.Left, top+4, width, lh, []string{e.footerLeft}, AlignLeft)
	}
	if e.footerCenter != "" {
		e.surface.DrawText(spec.Margins.Left, top+4, width, lh, []string{e.footerCenter}, AlignCenter)
	}
	pageText := fmt.Sprintf("Page %d of %s", page, e.surface.TotalPagesAlias())
	e.surface.DrawText(spec.Margins.Left, top+4, width, lh, []string{pageText}, AlignRight)
}

// ForcePageBreak starts a new page unless the current one is still empty.
func (e *Engine) ForcePageBreak() {
	if !e.cursor.AtTop() {
		e.cursor.NewPage()
	}
}

// Finish draws the last footer and writes the document to w. Errors here are
// stream failures and abort the document.
func (e *Engine) Finish(w io.Writer) error {
	e.drawFooter(e.cursor.Page())
	if err := e.surface.Err(); err != nil {
		return err
	}
	return e.surface.Output(w)
}

func (e *Engine) resolve(opts TextOptions) TextOptions {
	if opts.Size <= 0 {
		opts.Size = defaultFontSize
	}
	if opts.Align == "" {
		opts.Align = AlignLeft
	}
	if opts.Color == nil {
		c := e.theme.Text
		opts.Color = &c
	}
	switch {
	case opts.Spacing < 0:
		opts.Spacing = 0
	case opts.Spacing == 0:
		opts.Spacing = paragraphSpacing
	}
	return opts
}

func (e *Engine) applyText(opts TextOptions) {
	e.surface.SetFont(opts.Style, opts.Size)
	e.surface.SetTextColor(*opts.Color)
}

// Measure wraps text to width minus the indent and returns the lines and their height.
func (e *Engine) Measure(text string, width float64, opts TextOptions) ([]string, float64) {
	opts = e.resolve(opts)
	e.surface.SetFont(opts.Style, opts.Size)
	lines := e.surface.SplitText(text, width-opts.Indent)
	return lines, float64(len(lines)) * LineHeight(opts.Size)
}

// DrawLinesAt draws lines at an absolute position without touching the cursor.
func (e *Engine) DrawLinesAt(x, y, width float64, lines []string, opts TextOptions) {
	opts = e.resolve(opts)
	e.applyText(opts)
	e.surface.DrawText(x, y, width, LineHeight(opts.Size), lines, opts.Align)
}

// flowLines draws lines at the cursor, continuing on new pages when they do not fit.
func (e *Engine) flowLines(lines []string, x, width float64, opts TextOptions) {
	lh := LineHeight(opts.Size)
	for len(lines) > 0 {
		e.cursor.CheckPageBreak(lh)
		n := int(math.Floor((e.cursor.Remaining() + epsilon) / lh))
		n = max(1, min(n, len(lines)))
		e.applyText(opts)
		e.surface.DrawText(x, e.cursor.Y(), width, lh, lines[:n], opts.Align)
		e.cursor.Advance(float64(n) * lh)
		lines = lines[n:]
	}
}

// afterHeading reports whether nothing has been drawn since the last section header.
// The header already reserved room for its body, so the next block starts beside it.
func (e *Engine) afterHeading() bool {
	return e.heading.page == e.cursor.Page() && math.Abs(e.heading.y-e.cursor.Y()) < epsilon
}

// KeepTogether breaks the page unless a block of estimated height h fits. Blocks
// taller than a page only ask for a fresh page.
func (e *Engine) KeepTogether(h float64) bool {
	return e.cursor.EnsureSectionIntegrity(math.Min(h, e.cursor.spec.PrintableHeight()))
}

// Icon loads an icon through the configured source.
func (e *Engine) Icon(ref string) (assets.Icon, bool) {
	if e.icons == nil || ref == "" {
		return assets.Icon{}, false
	}
	return e.icons.LoadIcon(ref)
}

// DrawIcon places an icon at an absolute position.
func (e *Engine) DrawIcon(icon assets.Icon, x, y, size float64) {
	e.surface.DrawImage(icon.Name, icon.PNG, x, y, size, size)
}

func (e *Engine) nextImageName(prefix string) string {
	e.imageSeq++
	return fmt.Sprintf("%s-%d", prefix, e.imageSeq)
}
