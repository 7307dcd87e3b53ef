package layout

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFSurface_WritesDocument(t *testing.T) {
	s := NewPDFSurface(Letter, Metadata{Title: "Report", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)})
	e := NewEngine(s, Letter, IndividualTheme(), nil)
	e.Header("Report for Zoë", "")
	e.Paragraph("Ünïcödé text is translated for the core fonts.", TextOptions{})
	e.ScoreGauge("Trust", 81.25)
	e.BigScore(64, "Overall")

	var buf bytes.Buffer
	require.NoError(t, e.Finish(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFSurface_BadImageIsSkipped(t *testing.T) {
	s := NewPDFSurface(Letter, Metadata{})
	s.AddPage()
	s.DrawImage("broken", []byte("not a png"), 10, 10, 20, 20)
	require.NoError(t, s.Err())

	var buf bytes.Buffer
	require.NoError(t, s.Output(&buf))
	assert.NotZero(t, buf.Len())
}

func TestPDFSurface_SplitTextUsesFontMetrics(t *testing.T) {
	s := NewPDFSurface(Letter, Metadata{})
	s.SetFont(Regular, 11)
	lines := s.SplitText("one two three four five six seven eight nine ten", 60)
	assert.Greater(t, len(lines), 2)
	for _, l := range lines {
		assert.LessOrEqual(t, s.pdf.GetStringWidth(l), 60.0)
	}
}
