package layout

import "strings"

const (
	tableRowHeight = 20.0
	tableFontSize  = 10.0
	tableCellPad   = 6.0
)

// Column describes one table column. Width is a fraction of the content width.
type Column struct {
	Title string
	Width float64
	Align Align
}

// Table draws a header row and one single-line row per entry. When a row does not fit,
// the table continues on a new page under a repeated header row.
func (e *Engine) Table(cols []Column, rows [][]string) {
	if len(cols) == 0 {
		return
	}
	e.cursor.CheckPageBreak(tableRowHeight * 2)
	e.tableHeader(cols)

	if len(rows) == 0 {
		e.tableRow(cols, []string{NotAvailable}, false)
	}
	for i, row := range rows {
		if !e.cursor.Fits(tableRowHeight) {
			e.cursor.NewPage()
			e.tableHeader(cols)
		}
		e.tableRow(cols, row, i%2 == 1)
	}
	e.cursor.Skip(paragraphSpacing)
}

func (e *Engine) tableHeader(cols []Column) {
	y := e.cursor.Y()
	e.surface.SetFillColor(e.theme.Primary)
	e.surface.FillRect(e.Left(), y, e.ContentWidth(), tableRowHeight)
	e.surface.SetFont(Bold, tableFontSize)
	e.surface.SetTextColor(e.theme.OnPrimary)
	e.drawCells(cols, y, func(i int) string { return cols[i].Title })
	e.cursor.Advance(tableRowHeight)
}

func (e *Engine) tableRow(cols []Column, row []string, shaded bool) {
	y := e.cursor.Y()
	if shaded {
		e.surface.SetFillColor(e.theme.Shade)
		e.surface.FillRect(e.Left(), y, e.ContentWidth(), tableRowHeight)
	}
	e.surface.SetFont(Regular, tableFontSize)
	e.surface.SetTextColor(e.theme.Text)
	e.drawCells(cols, y, func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	})
	e.surface.SetDrawColor(e.theme.Rule)
	e.surface.SetLineWidth(0.25)
	e.surface.Line(e.Left(), y+tableRowHeight, e.Left()+e.ContentWidth(), y+tableRowHeight)
	e.cursor.Advance(tableRowHeight)
}

func (e *Engine) drawCells(cols []Column, y float64, text func(int) string) {
	lh := LineHeight(tableFontSize)
	x := e.Left()
	for i, col := range cols {
		w := col.Width * e.ContentWidth()
		align := col.Align
		if align == "" {
			align = AlignLeft
		}
		if s := strings.TrimSpace(text(i)); s != "" {
			inner := w - 2*tableCellPad
			e.surface.DrawText(x+tableCellPad, y+(tableRowHeight-lh)/2, inner, lh, e.firstLine(s, inner), align)
		}
		x += w
	}
}
