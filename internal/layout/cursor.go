package layout

import "math"

// epsilon absorbs float noise in fit comparisons.
const epsilon = 0.01

// Margins are page margins in points.
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// PageSpec describes page geometry. FooterHeight is reserved above the bottom margin.
type PageSpec struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Margins      Margins `json:"margins"`
	FooterHeight float64 `json:"footerHeight"`
}

// Letter is US Letter with half-inch-plus margins.
var Letter = PageSpec{
	Width:        612,
	Height:       792,
	Margins:      Margins{Top: 50, Bottom: 40, Left: 50, Right: 50},
	FooterHeight: 30,
}

// A4 is ISO A4 with the same margins as Letter.
var A4 = PageSpec{
	Width:        595.28,
	Height:       841.89,
	Margins:      Margins{Top: 50, Bottom: 40, Left: 50, Right: 50},
	FooterHeight: 30,
}

// Limit is the lowest y content may reach.
func (p PageSpec) Limit() float64 {
	return p.Height - p.Margins.Bottom - p.FooterHeight
}

// PrintableHeight is the usable vertical space on one page.
func (p PageSpec) PrintableHeight() float64 {
	return p.Limit() - p.Margins.Top
}

// ContentWidth is the usable horizontal space.
func (p PageSpec) ContentWidth() float64 {
	return p.Width - p.Margins.Left - p.Margins.Right
}

// BreakFunc is called whenever the cursor starts a new page. prev is 0 for the first page.
type BreakFunc func(prev, next int)

// Cursor tracks the vertical drawing position on the current page. One Cursor belongs
// to exactly one document; it is not safe for concurrent use.
type Cursor struct {
	spec    PageSpec
	y       float64
	page    int
	onBreak BreakFunc
	usage   []float64
	overrun bool
}

// NewCursor returns a cursor with no page open. The first CheckPageBreak,
// EnsureSectionIntegrity or NewPage call opens page 1.
func NewCursor(spec PageSpec, onBreak BreakFunc) *Cursor {
	return &Cursor{spec: spec, y: spec.Margins.Top, onBreak: onBreak}
}

func (c *Cursor) Spec() PageSpec { return c.spec }

// Y is the current vertical offset from the top of the page.
func (c *Cursor) Y() float64 { return c.y }

// Page is the 1-based number of the current page, counted on every break.
func (c *Cursor) Page() int { return c.page }

// Remaining is the vertical space left before the limit.
func (c *Cursor) Remaining() float64 {
	return math.Max(0, c.spec.Limit()-c.y)
}

// Fits reports whether h more points fit on the current page.
func (c *Cursor) Fits(h float64) bool {
	return c.y+h <= c.spec.Limit()+epsilon
}

// AtTop reports whether nothing has been placed on the current page yet.
func (c *Cursor) AtTop() bool {
	return c.y <= c.spec.Margins.Top+epsilon
}

// CheckPageBreak starts a new page when an element of height h would cross the limit.
// It reports whether a break happened.
func (c *Cursor) CheckPageBreak(h float64) bool {
	return c.breakUnlessFits(h)
}

// EnsureSectionIntegrity is issued once before a composite block with the block's
// estimated total height, so that a heading never sits alone at the foot of a page.
func (c *Cursor) EnsureSectionIntegrity(estimated float64) bool {
	return c.breakUnlessFits(estimated)
}

func (c *Cursor) breakUnlessFits(h float64) bool {
	if c.page == 0 {
		c.NewPage()
		return true
	}
	// A fresh page is as good as it gets; breaking again would only add a blank page.
	if c.Fits(h) || c.AtTop() {
		return false
	}
	c.NewPage()
	return true
}

// NewPage unconditionally starts a new page and resets y to the top margin.
func (c *Cursor) NewPage() {
	prev := c.page
	c.page++
	c.y = c.spec.Margins.Top
	c.usage = append(c.usage, 0)
	if c.onBreak != nil {
		c.onBreak(prev, c.page)
	}
}

// Advance moves past h points of drawn content.
func (c *Cursor) Advance(h float64) {
	c.y += h
	if c.y > c.spec.Limit()+epsilon {
		c.overrun = true
	}
	c.record()
}

// Skip adds whitespace. Whitespace never pushes past the limit.
func (c *Cursor) Skip(h float64) {
	c.y = math.Min(c.y+h, c.spec.Limit())
}

// SetY places the cursor at an absolute position, used after blocks drawn from the
// page edge such as the header band.
func (c *Cursor) SetY(y float64) {
	c.y = math.Max(c.spec.Margins.Top, y)
	if c.y > c.spec.Limit()+epsilon {
		c.overrun = true
	}
	c.record()
}

func (c *Cursor) record() {
	if c.page == 0 {
		return
	}
	used := c.y - c.spec.Margins.Top
	if used > c.usage[c.page-1] {
		c.usage[c.page-1] = used
	}
}

// PageUsage returns the drawn height recorded for each page so far.
func (c *Cursor) PageUsage() []float64 {
	return append([]float64(nil), c.usage...)
}

// Overrun reports whether any drawn block crossed the limit.
func (c *Cursor) Overrun() bool { return c.overrun }
