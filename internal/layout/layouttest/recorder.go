// Package layouttest provides an in-memory layout.Surface that records drawing calls.
package layouttest

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/assessment-reports/internal/layout"
)

// OpKind names a recorded drawing call.
type OpKind string

const (
	OpRect  OpKind = "rect"
	OpLine  OpKind = "line"
	OpText  OpKind = "text"
	OpImage OpKind = "image"
)

// Op is one recorded drawing call with the state active when it was made.
type Op struct {
	Kind  OpKind
	Page  int
	X, Y  float64
	W, H  float64
	Lines []string
	Name  string
	Align layout.Align
	Style layout.FontStyle
	Size  float64
	Fill  layout.Color
	Ink   layout.Color
}

// Recorder implements layout.Surface. Text width is approximated as half the font size
// per rune, which is close enough to Helvetica for wrapping tests.
type Recorder struct {
	Pages int
	Ops   []Op

	// OutputErr, when set, is returned from Output to simulate a stream failure.
	OutputErr error

	style layout.FontStyle
	size  float64
	fill  layout.Color
	ink   layout.Color
}

var _ layout.Surface = (*Recorder)(nil)

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{size: 11}
}

func (r *Recorder) AddPage() { r.Pages++ }

func (r *Recorder) SetFont(style layout.FontStyle, size float64) {
	r.style = style
	r.size = size
}

func (r *Recorder) SetTextColor(c layout.Color) { r.ink = c }
func (r *Recorder) SetFillColor(c layout.Color) { r.fill = c }
func (r *Recorder) SetDrawColor(layout.Color)   {}
func (r *Recorder) SetLineWidth(float64)        {}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.add(Op{Kind: OpRect, X: x, Y: y, W: w, H: h})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.add(Op{Kind: OpLine, X: x1, Y: y1, W: x2 - x1, H: y2 - y1})
}

func (r *Recorder) SplitText(text string, width float64) []string {
	return layout.WrapText(text, width, r.Width)
}

// Width is the approximate rendered width of s in the current font.
func (r *Recorder) Width(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * r.size * 0.5
}

func (r *Recorder) DrawText(x, y, width, lineHeight float64, lines []string, align layout.Align) {
	r.add(Op{
		Kind:  OpText,
		X:     x,
		Y:     y,
		W:     width,
		H:     lineHeight * float64(len(lines)),
		Lines: append([]string(nil), lines...),
		Align: align,
	})
}

func (r *Recorder) DrawImage(name string, _ []byte, x, y, w, h float64) {
	r.add(Op{Kind: OpImage, Name: name, X: x, Y: y, W: w, H: h})
}

func (r *Recorder) TotalPagesAlias() string { return "{nb}" }

func (r *Recorder) Err() error { return nil }

func (r *Recorder) Output(w io.Writer) error {
	if r.OutputErr != nil {
		return r.OutputErr
	}
	_, err := io.WriteString(w, "%PDF-recorded\n")
	return err
}

func (r *Recorder) add(op Op) {
	op.Page = r.Pages
	op.Style = r.style
	op.Size = r.size
	op.Fill = r.fill
	op.Ink = r.ink
	r.Ops = append(r.Ops, op)
}

// Filter returns the recorded ops of one kind in call order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Text joins every drawn line, one per output line.
func (r *Recorder) Text() string {
	var b strings.Builder
	for _, op := range r.Filter(OpText) {
		for _, line := range op.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// TextOps returns text ops whose joined lines contain substr.
func (r *Recorder) TextOps(substr string) []Op {
	var out []Op
	for _, op := range r.Filter(OpText) {
		if strings.Contains(strings.Join(op.Lines, " "), substr) {
			out = append(out, op)
		}
	}
	return out
}

// Find returns the text ops that consist of exactly the single line s.
func (r *Recorder) Find(s string) []Op {
	var out []Op
	for _, op := range r.Filter(OpText) {
		if len(op.Lines) == 1 && op.Lines[0] == s {
			out = append(out, op)
		}
	}
	return out
}

// Count returns len(Find(s)).
func (r *Recorder) Count(s string) int {
	return len(r.Find(s))
}

// OrphanedHeadings returns the text ops matched by isHeading that are the last body
// text or image on their page. Ops at or below limit belong to the footer.
func (r *Recorder) OrphanedHeadings(limit float64, isHeading func(Op) bool) []Op {
	var out []Op
	for i, op := range r.Ops {
		if op.Kind != OpText || op.Y >= limit || !isHeading(op) {
			continue
		}
		followed := false
		for _, next := range r.Ops[i+1:] {
			if next.Page != op.Page {
				break
			}
			if (next.Kind == OpText || next.Kind == OpImage) && next.Y < limit {
				followed = true
				break
			}
		}
		if !followed {
			out = append(out, op)
		}
	}
	return out
}

// SectionHeading matches the title text drawn by Engine.SectionHeader on spec.
func SectionHeading(spec layout.PageSpec) func(Op) bool {
	return func(op Op) bool {
		return op.Style == layout.Bold && op.Size == 14 && op.X == spec.Margins.Left+12
	}
}
