package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-reports/internal/analytics"
	"github.com/jonathan/assessment-reports/internal/schemas"
	"github.com/jonathan/assessment-reports/internal/types"
)

var renderCoupleCmd = &cobra.Command{
	Use:   "render-couple",
	Short: "Render a couple compatibility report",
	Long:  "Renders the paginated PDF report for two partners from a couple JSON file or a stored couple assessment.",
	RunE:  runRenderCouple,
}

var (
	renderCoupleInput       string
	renderCoupleID          string
	renderCoupleDatabaseURL string
	renderCoupleOutput      string
)

func init() {
	renderCoupleCmd.Flags().StringVarP(&renderCoupleInput, "in", "i", "", "Path to couple record JSON file")
	renderCoupleCmd.Flags().StringVar(&renderCoupleID, "couple-id", "", "Couple assessment ID to load from the database")
	renderCoupleCmd.Flags().StringVar(&renderCoupleDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	renderCoupleCmd.Flags().StringVarP(&renderCoupleOutput, "out", "o", "", "Path to output PDF file, or - for stdout (required)")

	if err := renderCoupleCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCoupleCmd)
}

func runRenderCouple(cmd *cobra.Command, _ []string) error {
	if err := sourceFlags(renderCoupleInput, renderCoupleID, "couple-id"); err != nil {
		return err
	}

	a, err := newApp(reportWriter(renderCoupleOutput))
	if err != nil {
		return err
	}
	defer a.log.Sync()

	raw, err := a.loadCouple(cmd.Context(), renderCoupleInput, renderCoupleID, renderCoupleDatabaseURL)
	if err != nil {
		return err
	}

	rec, warnings := a.renderer.Normalizer().Couple(raw)
	if a.cfg.Verbose {
		a.printer.PrintWarnings(warnings)
		a.printer.PrintBreakdown(analytics.CompatibilityBreakdown(rec.Primary.Scores, rec.Spouse.Scores))
	}

	doc, err := a.renderer.Couple(rec, warnings...)
	if err != nil {
		return fmt.Errorf("failed to render couple report: %w", err)
	}
	if err := writeOutput(renderCoupleOutput, doc.Bytes); err != nil {
		return err
	}

	if a.cfg.Verbose {
		a.printer.PrintDocument(doc)
	}
	if renderCoupleOutput != stdoutPath {
		_, _ = fmt.Fprintf(os.Stdout, "Rendered %d-page couple report for %s and %s\n",
			doc.Pages, rec.Primary.Demographics.Name, rec.Spouse.Demographics.Name)
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", renderCoupleOutput)
	}
	return nil
}

// loadCouple reads a couple record from a file or from the database.
func (a *app) loadCouple(ctx context.Context, inFile, coupleID, dbURL string) (types.RawCoupleRecord, error) {
	if inFile != "" {
		raw, data, err := a.readRawCouple(inFile)
		if err != nil {
			return types.RawCoupleRecord{}, err
		}
		a.checkSchema(schemas.KindCouple, data, inFile)
		return raw, nil
	}

	id, err := parseID("couple-id", coupleID)
	if err != nil {
		return types.RawCoupleRecord{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := a.openDB(ctx, dbURL)
	if err != nil {
		return types.RawCoupleRecord{}, err
	}
	defer database.Close()

	raw, err := database.GetCoupleRecord(ctx, id)
	if err != nil {
		return types.RawCoupleRecord{}, fmt.Errorf("failed to load couple assessment: %w", err)
	}
	return raw, nil
}
