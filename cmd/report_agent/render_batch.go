package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-reports/internal/db"
	"github.com/jonathan/assessment-reports/internal/rendering"
	"github.com/jonathan/assessment-reports/internal/schemas"
	"github.com/jonathan/assessment-reports/internal/types"
)

var renderBatchCmd = &cobra.Command{
	Use:   "render-batch",
	Short: "Render a report for every record in a directory or the database",
	Long:  "Renders every *.json file in --in-dir, or the newest --limit records in the database with --from-db, concurrently. Couple records are detected by their primary/spouse members. One failed document does not stop the others.",
	RunE:  runRenderBatch,
}

var (
	renderBatchInputDir    string
	renderBatchOutputDir   string
	renderBatchConcurrency int
	renderBatchFromDB      bool
	renderBatchLimit       int
	renderBatchDBURL       string
)

func init() {
	renderBatchCmd.Flags().StringVar(&renderBatchInputDir, "in-dir", "", "Directory of record JSON files")
	renderBatchCmd.Flags().StringVar(&renderBatchOutputDir, "out-dir", "", "Directory for the PDF files (required)")
	renderBatchCmd.Flags().IntVarP(&renderBatchConcurrency, "concurrency", "c", 0, "Documents rendered at once (defaults to config)")
	renderBatchCmd.Flags().BoolVar(&renderBatchFromDB, "from-db", false, "Render the newest individual records stored in the database")
	renderBatchCmd.Flags().IntVar(&renderBatchLimit, "limit", 50, "Records to render with --from-db")
	renderBatchCmd.Flags().StringVar(&renderBatchDBURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")

	if err := renderBatchCmd.MarkFlagRequired("out-dir"); err != nil {
		panic(fmt.Sprintf("failed to mark out-dir flag as required: %v", err))
	}

	rootCmd.AddCommand(renderBatchCmd)
}

func runRenderBatch(cmd *cobra.Command, _ []string) error {
	a, err := newApp(os.Stdout)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	switch {
	case renderBatchFromDB && renderBatchInputDir != "":
		return fmt.Errorf("cannot use --in-dir with --from-db")
	case !renderBatchFromDB && renderBatchInputDir == "":
		return fmt.Errorf("must provide either --in-dir or --from-db")
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var jobs []rendering.Job
	if renderBatchFromDB {
		database, err := a.openDB(ctx, renderBatchDBURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if jobs, err = a.loadDBJobs(ctx, database, renderBatchLimit); err != nil {
			return err
		}
		if len(jobs) == 0 {
			return fmt.Errorf("no assessment records found in the database")
		}
	} else {
		if jobs, err = a.loadJobs(renderBatchInputDir); err != nil {
			return err
		}
		if len(jobs) == 0 {
			return fmt.Errorf("no JSON files found in %s", renderBatchInputDir)
		}
	}

	limit := renderBatchConcurrency
	if limit <= 0 {
		limit = a.cfg.Concurrency
	}

	results, batchErr := a.renderer.RenderBatch(ctx, jobs, limit)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		out := filepath.Join(renderBatchOutputDir, strings.TrimSuffix(r.Job, filepath.Ext(r.Job))+".pdf")
		if err := writeOutput(out, r.Document.Bytes); err != nil {
			return err
		}
	}

	if a.cfg.Verbose {
		a.printer.PrintBatch(results)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Rendered %d of %d documents into %s\n", len(results)-failed, len(results), renderBatchOutputDir)

	if batchErr != nil {
		return batchErr
	}
	if failed > 0 {
		return fmt.Errorf("%d documents failed", failed)
	}
	return nil
}

// loadJobs builds one job per JSON file, named by file name, in name order. A file
// that cannot be read becomes a failed job instead of stopping the batch.
func (a *app) loadJobs(dir string) ([]rendering.Job, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(paths)

	jobs := make([]rendering.Job, 0, len(paths))
	for _, path := range paths {
		jobs = append(jobs, a.loadJob(path))
	}
	return jobs, nil
}

func (a *app) loadJob(path string) rendering.Job {
	job := rendering.Job{Name: filepath.Base(path)}
	data, err := os.ReadFile(path)
	if err != nil {
		job.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return job
	}
	switch detectKind(data) {
	case schemas.KindCouple:
		raw, _, err := a.readRawCouple(path)
		if err != nil {
			job.Err = err
			return job
		}
		a.checkSchema(schemas.KindCouple, data, path)
		job.Couple = &raw
	default:
		raw, _, err := a.readRawRecord(path)
		if err != nil {
			job.Err = err
			return job
		}
		a.checkSchema(schemas.KindRecord, data, path)
		job.Individual = &raw
	}
	return job
}

// recordSource is the part of the database the batch reads.
type recordSource interface {
	ListAssessmentRecords(ctx context.Context, limit int) ([]db.RecordSummary, error)
	GetAssessmentRecord(ctx context.Context, id uuid.UUID) (types.RawRecord, error)
}

// loadDBJobs builds one job per stored record, newest first, named by record ID. A
// record that fails to load becomes a failed job.
func (a *app) loadDBJobs(ctx context.Context, src recordSource, limit int) ([]rendering.Job, error) {
	summaries, err := src.ListAssessmentRecords(ctx, limit)
	if err != nil {
		return nil, err
	}
	jobs := make([]rendering.Job, 0, len(summaries))
	for _, s := range summaries {
		job := rendering.Job{Name: s.ID.String()}
		raw, err := src.GetAssessmentRecord(ctx, s.ID)
		if err != nil {
			job.Err = fmt.Errorf("failed to load assessment record: %w", err)
		} else {
			job.Individual = &raw
		}
		jobs = append(jobs, job)
	}
	a.log.Info("loaded records from database", "count", len(jobs), "limit", limit)
	return jobs, nil
}
