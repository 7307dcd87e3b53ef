// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/assessment-reports/internal/analytics"
	"github.com/jonathan/assessment-reports/internal/normalize"
	"github.com/jonathan/assessment-reports/internal/rendering"
	"github.com/jonathan/assessment-reports/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBanner(text string) {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, text)
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintRecord outputs a summary of a normalized assessment record.
func (p *Printer) PrintRecord(rec *types.AssessmentRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", rec.Demographics.Name))
	if rec.Demographics.ResolvedGender.Known() {
		sb.WriteString(fmt.Sprintf("Gender:   %s\n", rec.Demographics.ResolvedGender))
	}
	sb.WriteString(fmt.Sprintf("Overall:  %.1f%% (%s)\n", rec.Scores.OverallPercentage,
		analytics.BandFor(rec.Scores.OverallPercentage).Label()))
	if rec.Profile.Name != "" {
		sb.WriteString(fmt.Sprintf("Profile:  %s\n", rec.Profile.Name))
	}

	names := rec.Scores.SectionNames()
	if len(names) > 0 {
		sb.WriteString("\nSections:\n")
		count := min(len(names), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %-28s %5.1f%%\n", names[i], rec.Scores.Sections[names[i]].Percentage))
		}
		if len(names) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(names)-maxItemsToShow))
		}
	}

	p.printBox("ASSESSMENT RECORD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs the defaults substituted while normalizing input.
func (p *Printer) PrintWarnings(warnings []normalize.Warning) {
	if len(warnings) == 0 {
		p.printBanner("✅ NO INPUT WARNINGS")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Substituted %d defaults:\n\n", len(warnings)))
	for i, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", w.Field))
		sb.WriteString(fmt.Sprintf("  %v", w.Err))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("INPUT WARNINGS", sb.String())
}

// PrintBreakdown outputs how a compatibility score was reached.
func (p *Printer) PrintBreakdown(bd analytics.Breakdown) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall difference: %.1f\n", bd.OverallDifference))
	sb.WriteString(fmt.Sprintf("Base score:         %.1f\n", bd.Base))

	if len(bd.Adjustments) > 0 {
		sb.WriteString("\nSection adjustments:\n")
		for _, a := range bd.Adjustments {
			sb.WriteString(fmt.Sprintf("  %-26s diff %5.1f  %+.0f\n", a.Section, a.Difference, a.Delta))
		}
	}

	sb.WriteString(fmt.Sprintf("\nRaw:                %.1f\n", bd.Raw))
	sb.WriteString(fmt.Sprintf("Compatibility:      %.1f%%", bd.Score))
	if bd.Score != bd.Raw {
		sb.WriteString(fmt.Sprintf(" (clamped to %.0f-%.0f)", analytics.MinCompatibility, analytics.MaxCompatibility))
	}

	p.printBox("COMPATIBILITY BREAKDOWN", sb.String())
}

// PrintComparisons outputs the per-section classification of a couple.
func (p *Printer) PrintComparisons(nameA, nameB string, comparisons []analytics.SectionComparison) {
	if len(comparisons) == 0 {
		p.printBanner("NO SECTIONS IN COMMON")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-20s %8s %8s  %s\n", "Section", truncate(nameA, 8), truncate(nameB, 8), "Tier"))
	for _, c := range comparisons {
		mark := " "
		switch c.Class {
		case analytics.Aligned:
			mark = "="
		case analytics.Divergent:
			mark = "≠"
		}
		sb.WriteString(fmt.Sprintf("%s %-18s %7.1f%% %7.1f%%  %s\n", mark, truncate(c.Section, 18), c.A, c.B, c.Tier.Label()))
	}
	p.printBox("SECTION COMPARISON", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocument outputs the metadata of a rendered document.
func (p *Printer) PrintDocument(doc *rendering.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", doc.Title))
	sb.WriteString(fmt.Sprintf("Kind:     %s\n", doc.Kind))
	if doc.RecordID != "" {
		sb.WriteString(fmt.Sprintf("Record:   %s\n", doc.RecordID))
	}
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", doc.Pages))
	sb.WriteString(fmt.Sprintf("Size:     %s\n", formatBytes(len(doc.Bytes))))
	sb.WriteString(fmt.Sprintf("ID:       %s", doc.ID))
	if len(doc.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\nWarnings: %d", len(doc.Warnings)))
	}

	p.printBox("RENDERED DOCUMENT", sb.String())
}

// PrintBatch outputs one line per batch job.
func (p *Printer) PrintBatch(results []rendering.Result) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s: %v\n", r.Job, r.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s (%d pages, %s)\n", r.Job, r.Document.Pages, formatBytes(len(r.Document.Bytes))))
	}
	sb.WriteString(fmt.Sprintf("\n%d rendered, %d failed", len(results)-failed, failed))

	p.printBox("BATCH RESULTS", sb.String())
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
