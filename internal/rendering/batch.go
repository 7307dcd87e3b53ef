package rendering

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/assessment-reports/internal/types"
)

// Job is one document to render. Exactly one of Individual or Couple is set, unless
// Err records why the job's input could not be loaded; such a job is reported as
// failed without rendering.
type Job struct {
	Name       string
	Individual *types.RawRecord
	Couple     *types.RawCoupleRecord
	Err        error
}

// Result is the outcome of one Job.
type Result struct {
	Job      string
	Document *Document
	Err      error
}

// RenderBatch renders jobs with at most limit documents in flight. A job's failure
// is reported in its Result and does not stop the others. Cancelling ctx stops new
// jobs from starting; a layout already in progress runs to completion. Results are
// in job order; jobs that never started carry ctx.Err().
func (r *Renderer) RenderBatch(ctx context.Context, jobs []Job, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 1
	}
	results := make([]Result, len(jobs))
	for i, job := range jobs {
		results[i].Job = job.Name
	}

	var g errgroup.Group
	g.SetLimit(limit)
	var cancelled error
	for i, job := range jobs {
		if cancelled = ctx.Err(); cancelled != nil {
			for j := i; j < len(jobs); j++ {
				results[j].Err = cancelled
			}
			break
		}
		g.Go(func() error {
			doc, err := r.renderJob(job)
			results[i].Document = doc
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	if cancelled != nil {
		return results, fmt.Errorf("batch cancelled: %w", cancelled)
	}
	return results, nil
}

func (r *Renderer) renderJob(job Job) (*Document, error) {
	switch {
	case job.Err != nil:
		return nil, job.Err
	case job.Individual != nil && job.Couple != nil:
		return nil, fmt.Errorf("job %q sets both an individual and a couple record", job.Name)
	case job.Individual != nil:
		return r.RenderIndividual(*job.Individual)
	case job.Couple != nil:
		return r.RenderCouple(*job.Couple)
	default:
		return nil, fmt.Errorf("job %q has no record", job.Name)
	}
}
