package layout

import (
	"strings"

	"github.com/jonathan/assessment-reports/internal/types"
)

const (
	profileBannerHeight = 34.0
	profileIconSize     = 24.0
	profileNameSize     = 14.0
	profileLabelSize    = 10.0
)

// ProfileOptions customizes a profile block.
type ProfileOptions struct {
	// Heading is an optional section header kept on the same page as the banner.
	Heading string
	// Label is an optional caption drawn above the banner.
	Label string
	// Banner overrides the banner color; nil uses the theme primary.
	Banner *Color
}

// ProfileBlock draws a named banner with an optional inset icon, the description and
// a bulleted characteristics list. Without an icon the name uses the full banner width.
// The whole block, heading included, is reserved with one integrity check; when it is
// taller than a page the description continues onto the next one.
func (e *Engine) ProfileBlock(p types.Profile, opts ProfileOptions) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "Profile"
	}
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = NotAvailable
	}
	width := e.ContentWidth()

	e.KeepTogether(e.EstimateProfile(p, opts))
	if opts.Heading != "" {
		e.drawSectionHeader(opts.Heading)
	}

	if opts.Label != "" {
		muted := e.theme.Muted
		e.Paragraph(opts.Label, TextOptions{Size: profileLabelSize, Style: Bold, Color: &muted, Spacing: 4})
	}

	e.cursor.CheckPageBreak(profileBannerHeight)
	x, y := e.Left(), e.cursor.Y()
	banner := e.theme.Primary
	if opts.Banner != nil {
		banner = *opts.Banner
	}
	e.surface.SetFillColor(banner)
	e.surface.FillRect(x, y, width, profileBannerHeight)

	textX := x + 10
	if icon, ok := e.Icon(p.Icon); ok {
		e.DrawIcon(icon, x+6, y+(profileBannerHeight-profileIconSize)/2, profileIconSize)
		textX = x + 6 + profileIconSize + 8
	}
	textW := x + width - 10 - textX
	lh := LineHeight(profileNameSize)
	e.surface.SetFont(Bold, profileNameSize)
	e.surface.SetTextColor(e.theme.OnPrimary)
	e.surface.DrawText(textX, y+(profileBannerHeight-lh)/2, textW, lh, e.firstLine(name, textW), AlignLeft)
	e.cursor.Advance(profileBannerHeight)
	e.cursor.Skip(8)

	e.Paragraph(desc, TextOptions{Flow: true})
	if len(p.Characteristics) > 0 {
		_, first := e.Measure(p.Characteristics[0], width-8-bulletIndent, TextOptions{})
		e.KeepTogether(LineHeight(defaultFontSize) + 4 + first)
		e.Paragraph("Key characteristics", TextOptions{Style: Bold, Spacing: 4})
		e.Bullets(p.Characteristics, TextOptions{Indent: 8})
	}
}

// EstimateProfile returns the height ProfileBlock needs for p, heading included.
func (e *Engine) EstimateProfile(p types.Profile, opts ProfileOptions) float64 {
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = NotAvailable
	}
	characteristics := p.Characteristics
	width := e.ContentWidth()
	h := profileBannerHeight + 8
	if opts.Heading != "" {
		h += sectionHeaderHeight
	}
	if opts.Label != "" {
		h += LineHeight(profileLabelSize) + 4
	}
	_, descH := e.Measure(desc, width, TextOptions{})
	h += descH + paragraphSpacing
	if len(characteristics) > 0 {
		h += LineHeight(defaultFontSize) + 4
		for _, c := range characteristics {
			_, ch := e.Measure(c, width-8-bulletIndent, TextOptions{})
			h += ch + bulletSpacing
		}
	}
	return h
}
