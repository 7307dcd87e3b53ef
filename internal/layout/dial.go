package layout

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
)

const (
	// DialPixels is the raster edge length of a score dial.
	DialPixels = 240
	// DialPoints is the placed edge length of a score dial on the page.
	DialPoints = 120.0
)

// RenderDial rasterizes a ring whose arc covers pct percent of the circle, starting at
// twelve o'clock and running clockwise, over a full track ring.
func RenderDial(pct float64, fill, track Color, px int) ([]byte, error) {
	if px <= 0 {
		px = DialPixels
	}
	pct = math.Max(0, math.Min(100, pct))

	dc := gg.NewContext(px, px)
	center := float64(px) / 2
	lineWidth := float64(px) * 0.09
	radius := center - lineWidth/2 - 2

	dc.SetLineWidth(lineWidth)
	dc.SetRGB255(track.R, track.G, track.B)
	dc.DrawCircle(center, center, radius)
	dc.Stroke()

	if pct > 0 {
		start := gg.Radians(-90)
		end := start + 2*math.Pi*pct/100
		dc.SetRGB255(fill.R, fill.G, fill.B)
		dc.SetLineCap(gg.LineCapButt)
		dc.DrawArc(center, center, radius, start, end)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode dial: %w", err)
	}
	return buf.Bytes(), nil
}
