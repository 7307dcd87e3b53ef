package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-reports/internal/schemas"
	"github.com/jonathan/assessment-reports/internal/types"
)

var renderIndividualCmd = &cobra.Command{
	Use:   "render-individual",
	Short: "Render an individual assessment report",
	Long:  "Renders the paginated PDF report for one respondent from a record JSON file or a stored record.",
	RunE:  runRenderIndividual,
}

var (
	renderIndividualInput       string
	renderIndividualRecordID    string
	renderIndividualDatabaseURL string
	renderIndividualOutput      string
)

func init() {
	renderIndividualCmd.Flags().StringVarP(&renderIndividualInput, "in", "i", "", "Path to assessment record JSON file")
	renderIndividualCmd.Flags().StringVar(&renderIndividualRecordID, "record-id", "", "Assessment record ID to load from the database")
	renderIndividualCmd.Flags().StringVar(&renderIndividualDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	renderIndividualCmd.Flags().StringVarP(&renderIndividualOutput, "out", "o", "", "Path to output PDF file, or - for stdout (required)")

	if err := renderIndividualCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderIndividualCmd)
}

func runRenderIndividual(cmd *cobra.Command, _ []string) error {
	if err := sourceFlags(renderIndividualInput, renderIndividualRecordID, "record-id"); err != nil {
		return err
	}

	a, err := newApp(reportWriter(renderIndividualOutput))
	if err != nil {
		return err
	}
	defer a.log.Sync()

	raw, err := a.loadRecord(cmd.Context(), renderIndividualInput, renderIndividualRecordID, renderIndividualDatabaseURL)
	if err != nil {
		return err
	}

	rec, warnings := a.renderer.Normalizer().Record(raw)
	if a.cfg.Verbose {
		a.printer.PrintRecord(&rec)
		a.printer.PrintWarnings(warnings)
	}

	doc, err := a.renderer.Individual(rec, warnings...)
	if err != nil {
		return fmt.Errorf("failed to render individual report: %w", err)
	}
	if err := writeOutput(renderIndividualOutput, doc.Bytes); err != nil {
		return err
	}

	if a.cfg.Verbose {
		a.printer.PrintDocument(doc)
	}
	if renderIndividualOutput != stdoutPath {
		_, _ = fmt.Fprintf(os.Stdout, "Rendered %d-page report for %s\n", doc.Pages, rec.Demographics.Name)
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", renderIndividualOutput)
	}
	return nil
}

// loadRecord reads a record from a file or from the database.
func (a *app) loadRecord(ctx context.Context, inFile, recordID, dbURL string) (types.RawRecord, error) {
	if inFile != "" {
		raw, data, err := a.readRawRecord(inFile)
		if err != nil {
			return types.RawRecord{}, err
		}
		a.checkSchema(schemas.KindRecord, data, inFile)
		return raw, nil
	}

	id, err := parseID("record-id", recordID)
	if err != nil {
		return types.RawRecord{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := a.openDB(ctx, dbURL)
	if err != nil {
		return types.RawRecord{}, err
	}
	defer database.Close()

	raw, err := database.GetAssessmentRecord(ctx, id)
	if err != nil {
		return types.RawRecord{}, fmt.Errorf("failed to load assessment record: %w", err)
	}
	return raw, nil
}
