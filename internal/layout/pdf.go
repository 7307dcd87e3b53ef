package layout

import (
	"bytes"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// Metadata is written into the PDF info dictionary.
type Metadata struct {
	Title     string
	Author    string
	Subject   string
	CreatedAt time.Time
}

// PDFSurface draws onto an fpdf document using the built-in Helvetica family.
type PDFSurface struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	registered map[string]bool
}

// NewPDFSurface creates an empty document sized to spec. Pages are added by the engine.
func NewPDFSurface(spec PageSpec, meta Metadata) *PDFSurface {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: spec.Width, Ht: spec.Height},
	})
	pdf.SetMargins(spec.Margins.Left, spec.Margins.Top, spec.Margins.Right)
	// Page breaks are decided by the Cursor, never by fpdf.
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator("assessment-reports", true)
	if !meta.CreatedAt.IsZero() {
		pdf.SetCreationDate(meta.CreatedAt)
	}
	pdf.AliasNbPages("")
	pdf.SetFont(fontFamily, "", 11)

	return &PDFSurface{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		registered: map[string]bool{},
	}
}

func (s *PDFSurface) AddPage() {
	s.pdf.AddPage()
}

func (s *PDFSurface) SetFont(style FontStyle, size float64) {
	s.pdf.SetFont(fontFamily, string(style), size)
}

func (s *PDFSurface) SetTextColor(c Color) {
	s.pdf.SetTextColor(c.R, c.G, c.B)
}

func (s *PDFSurface) SetFillColor(c Color) {
	s.pdf.SetFillColor(c.R, c.G, c.B)
}

func (s *PDFSurface) SetDrawColor(c Color) {
	s.pdf.SetDrawColor(c.R, c.G, c.B)
}

func (s *PDFSurface) SetLineWidth(w float64) {
	s.pdf.SetLineWidth(w)
}

func (s *PDFSurface) FillRect(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	s.pdf.Rect(x, y, w, h, "F")
}

func (s *PDFSurface) Line(x1, y1, x2, y2 float64) {
	s.pdf.Line(x1, y1, x2, y2)
}

func (s *PDFSurface) SplitText(text string, width float64) []string {
	return WrapText(text, width, func(str string) float64 {
		return s.pdf.GetStringWidth(s.tr(str))
	})
}

func (s *PDFSurface) DrawText(x, y, width, lineHeight float64, lines []string, align Align) {
	for i, line := range lines {
		s.pdf.SetXY(x, y+float64(i)*lineHeight)
		s.pdf.CellFormat(width, lineHeight, s.tr(line), "", 0, string(align), false, 0, "")
	}
}

func (s *PDFSurface) DrawImage(name string, png []byte, x, y, w, h float64) {
	if s.pdf.Err() {
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	if !s.registered[name] {
		s.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		if s.pdf.Err() {
			// A bad image only costs the image, not the document.
			s.pdf.ClearError()
			return
		}
		s.registered[name] = true
	}
	s.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func (s *PDFSurface) TotalPagesAlias() string {
	return "{nb}"
}

func (s *PDFSurface) Err() error {
	return s.pdf.Error()
}

// Output closes the document and writes the finished bytes to w.
func (s *PDFSurface) Output(w io.Writer) error {
	return s.pdf.Output(w)
}
