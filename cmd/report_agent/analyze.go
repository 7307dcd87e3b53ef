package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-reports/internal/analytics"
	"github.com/jonathan/assessment-reports/internal/schemas"
	"github.com/jonathan/assessment-reports/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the analytics behind a report without rendering it",
	Long:  "Prints score bands, percentile and baseline comparison for a record, or the compatibility breakdown and section classification for a couple.",
	RunE:  runAnalyze,
}

var (
	analyzeInput       string
	analyzeRecordID    string
	analyzeCoupleID    string
	analyzeDatabaseURL string
	analyzeJSON        bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "in", "i", "", "Path to a record or couple JSON file")
	analyzeCmd.Flags().StringVar(&analyzeRecordID, "record-id", "", "Assessment record ID to load from the database")
	analyzeCmd.Flags().StringVar(&analyzeCoupleID, "couple-id", "", "Couple assessment ID to load from the database")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Write the analysis as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

// IndividualAnalysis is the analyze output for one respondent.
type IndividualAnalysis struct {
	RecordID    string                 `json:"record_id"`
	Name        string                 `json:"name"`
	Overall     float64                `json:"overall"`
	Band        string                 `json:"band"`
	Percentile  int                    `json:"percentile"`
	Comparisons []analytics.Comparison `json:"comparisons"`
}

// CoupleAnalysis is the analyze output for a couple.
type CoupleAnalysis struct {
	CoupleID    string                        `json:"couple_id"`
	PrimaryName string                        `json:"primary_name"`
	SpouseName  string                        `json:"spouse_name"`
	StoredScore float64                       `json:"stored_score,omitempty"`
	Breakdown   analytics.Breakdown           `json:"breakdown"`
	OverallTier string                        `json:"overall_tier"`
	Sections    []analytics.SectionComparison `json:"sections"`
	Differences types.DifferenceAnalysis      `json:"difference_analysis"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	set := 0
	for _, v := range []string{analyzeInput, analyzeRecordID, analyzeCoupleID} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("provide exactly one of --in, --record-id or --couple-id")
	}

	a, err := newApp(os.Stdout)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	couple := analyzeCoupleID != ""
	if analyzeInput != "" {
		data, err := os.ReadFile(analyzeInput)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		couple = detectKind(data) == schemas.KindCouple
	}

	if couple {
		raw, err := a.loadCouple(cmd.Context(), analyzeInput, analyzeCoupleID, analyzeDatabaseURL)
		if err != nil {
			return err
		}
		rec, warnings := a.renderer.Normalizer().Couple(raw)
		if a.cfg.Verbose {
			a.printer.PrintWarnings(warnings)
		}
		return a.emitCouple(os.Stdout, analyzeCouple(rec))
	}

	raw, err := a.loadRecord(cmd.Context(), analyzeInput, analyzeRecordID, analyzeDatabaseURL)
	if err != nil {
		return err
	}
	rec, warnings := a.renderer.Normalizer().Record(raw)
	if a.cfg.Verbose {
		a.printer.PrintWarnings(warnings)
	}
	return a.emitIndividual(os.Stdout, rec, analyzeIndividual(rec, a.cfg.BaselineOrDefault()))
}

func analyzeIndividual(rec types.AssessmentRecord, baseline analytics.Baseline) IndividualAnalysis {
	overall := rec.Scores.OverallPercentage
	return IndividualAnalysis{
		RecordID:    rec.ID,
		Name:        rec.Demographics.Name,
		Overall:     overall,
		Band:        analytics.BandFor(overall).Label(),
		Percentile:  analytics.Percentile(overall),
		Comparisons: baseline.Compare(rec.Scores),
	}
}

func analyzeCouple(rec types.CoupleRecord) CoupleAnalysis {
	a, b := rec.Primary, rec.Spouse
	derived := analytics.DeriveDifferenceAnalysis(a, b)
	return CoupleAnalysis{
		CoupleID:    rec.ID,
		PrimaryName: a.Demographics.Name,
		SpouseName:  b.Demographics.Name,
		StoredScore: rec.CompatibilityScore,
		Breakdown:   analytics.CompatibilityBreakdown(a.Scores, b.Scores),
		OverallTier: analytics.OverallTier(a.Scores, b.Scores).Description(),
		Sections:    analytics.Classify(a.Scores, b.Scores),
		Differences: analytics.MergeDifferenceAnalysis(rec.Analysis, derived),
	}
}

func (a *app) emitIndividual(w io.Writer, rec types.AssessmentRecord, out IndividualAnalysis) error {
	if analyzeJSON {
		return writeJSON(w, out)
	}
	a.printer.PrintRecord(&rec)
	_, _ = fmt.Fprintf(w, "Percentile: %s\n", analytics.Ordinal(out.Percentile))
	for _, c := range out.Comparisons {
		_, _ = fmt.Fprintf(w, "  • %s\n", c.Narrative())
	}
	return nil
}

func (a *app) emitCouple(w io.Writer, out CoupleAnalysis) error {
	if analyzeJSON {
		return writeJSON(w, out)
	}
	a.printer.PrintBreakdown(out.Breakdown)
	a.printer.PrintComparisons(out.PrimaryName, out.SpouseName, out.Sections)
	_, _ = fmt.Fprintf(w, "Overall: %s\n", out.OverallTier)
	for _, r := range out.Differences.Recommendations {
		_, _ = fmt.Fprintf(w, "  • %s\n", r)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	return nil
}
