// Package layout provides the page engine and drawing primitives used to assemble
// paginated reports: a vertical cursor, page-break rules, and measure-then-draw blocks.
package layout

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Color is an RGB color with 0-255 components.
type Color struct {
	R, G, B int
}

// FontStyle selects the font variant.
type FontStyle string

const (
	Regular    FontStyle = ""
	Bold       FontStyle = "B"
	Italic     FontStyle = "I"
	BoldItalic FontStyle = "BI"
)

// Align is horizontal text alignment within a box.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Surface is the drawing backend. Coordinates are points from the top-left corner.
// Implementations record the first error and turn later calls into no-ops.
type Surface interface {
	AddPage()
	SetFont(style FontStyle, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	SetLineWidth(w float64)
	FillRect(x, y, w, h float64)
	Line(x1, y1, x2, y2 float64)
	// SplitText wraps text to width using the current font.
	SplitText(text string, width float64) []string
	// DrawText draws pre-split lines top-down starting at y.
	DrawText(x, y, width, lineHeight float64, lines []string, align Align)
	// DrawImage places a PNG. Images that cannot be embedded are skipped.
	DrawImage(name string, png []byte, x, y, w, h float64)
	// TotalPagesAlias returns a placeholder replaced by the final page count on output.
	TotalPagesAlias() string
	Err() error
	Output(w io.Writer) error
}

// WrapText greedily wraps text into lines no wider than width according to measure.
// Explicit newlines start new lines; words wider than width are broken by rune.
func WrapText(text string, width float64, measure func(string) float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measure(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			if measure(word) <= width {
				current = word
				continue
			}
			pieces := breakWord(word, width, measure)
			lines = append(lines, pieces[:len(pieces)-1]...)
			current = pieces[len(pieces)-1]
		}
		lines = append(lines, current)
	}

	// Leading/trailing blank lines add height without content.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return lines
}

func breakWord(word string, width float64, measure func(string) float64) []string {
	var pieces []string
	current := ""
	for len(word) > 0 {
		r, size := utf8.DecodeRuneInString(word)
		word = word[size:]
		candidate := current + string(r)
		if current != "" && measure(candidate) > width {
			pieces = append(pieces, current)
			current = string(r)
			continue
		}
		current = candidate
	}
	return append(pieces, current)
}
