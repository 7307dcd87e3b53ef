package rendering

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/assessment-reports/internal/types"
)

func TestRenderBatch_RendersEveryJob(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, rs := newRecordingRenderer(t, Options{})
	var jobs []Job
	for i := 0; i < 6; i++ {
		rec := sampleRecord()
		jobs = append(jobs, Job{Name: fmt.Sprintf("ind-%d", i), Individual: &rec})
	}
	couple := sampleCouple()
	jobs = append(jobs, Job{Name: "couple", Couple: &couple}, Job{Name: "empty"})

	results, err := r.RenderBatch(context.Background(), jobs, 3)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, res := range results[:7] {
		assert.Equal(t, jobs[i].Name, res.Job)
		require.NoError(t, res.Err, res.Job)
		require.NotNil(t, res.Document)
	}
	assert.Equal(t, KindCouple, results[6].Document.Kind)
	assert.Error(t, results[7].Err)
	assert.Nil(t, results[7].Document)
	assert.Len(t, rs.list, 7)

	seen := map[string]bool{}
	for _, res := range results[:7] {
		id := res.Document.ID.String()
		assert.False(t, seen[id], "document IDs are unique")
		seen[id] = true
	}
}

func TestRenderBatch_CancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, rs := newRecordingRenderer(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := sampleRecord()
	results, err := r.RenderBatch(ctx, []Job{{Name: "a", Individual: &rec}, {Name: "b", Individual: &rec}}, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, results, 2)
	for _, res := range results {
		assert.True(t, errors.Is(res.Err, context.Canceled))
		assert.Nil(t, res.Document)
	}
	assert.Empty(t, rs.list)
}

func TestRenderBatch_StreamFailureIsPerJob(t *testing.T) {
	r, rs := newRecordingRenderer(t, Options{})
	rs.err = errors.New("disk full")

	rec := sampleRecord()
	results, err := r.RenderBatch(context.Background(), []Job{{Name: "a", Individual: &rec}, {Name: "b", Couple: &types.RawCoupleRecord{}}}, 0)
	require.NoError(t, err)
	for _, res := range results {
		var re *RenderError
		assert.True(t, errors.As(res.Err, &re), res.Job)
	}
}

func TestRenderBatch_LoadErrorIsPerJob(t *testing.T) {
	r, rs := newRecordingRenderer(t, Options{})
	loadErr := errors.New("failed to read b.json")

	rec := sampleRecord()
	results, err := r.RenderBatch(context.Background(), []Job{
		{Name: "a", Individual: &rec},
		{Name: "b", Err: loadErr},
		{Name: "c", Couple: &types.RawCoupleRecord{}},
	}, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, loadErr)
	assert.Nil(t, results[1].Document)
	assert.NoError(t, results[2].Err)
	assert.Len(t, rs.list, 2)
}
