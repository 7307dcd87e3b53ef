package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/assessment-reports/internal/analytics"
	"github.com/jonathan/assessment-reports/internal/config"
	"github.com/jonathan/assessment-reports/internal/db"
	"github.com/jonathan/assessment-reports/internal/logging"
	"github.com/jonathan/assessment-reports/internal/normalize"
	"github.com/jonathan/assessment-reports/internal/schemas"
	"github.com/jonathan/assessment-reports/internal/types"
)

const sampleRecordJSON = `{
	"id": "rec-1",
	"createdAt": "2025-05-01T12:00:00Z",
	"demographics": {"name": "Dana", "gender": "female", "relationshipStatus": "married"},
	"scores": {
		"overallPercentage": 78.5,
		"sections": {"Communication": 82, "Finances": {"earned": 11, "possible": 20}, "Trust": "91%"},
		"strengths": ["Trust", "Communication"],
		"improvementAreas": "Finances"
	},
	"profile": {"name": "The Builder", "description": "Steady and practical."}
}`

const sampleCoupleJSON = `{
	"id": "couple-1",
	"primary": {"demographics": {"name": "Alex"}, "scores": {"overallPercentage": 80, "sections": {"Trust": 85, "Finances": 30}}},
	"spouse": {"demographics": "{\"name\":\"Sam\"}", "scores": {"overallPercentage": 74, "sections": {"Trust": 88, "Finances": 75}}},
	"compatibilityScore": 82,
	"recommendations": ["Schedule a budget night"]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// isolate clears global flags and configuration that leak between command runs.
func isolate(t *testing.T) {
	t.Helper()
	saved := struct {
		config, in, out, recordID string
		verbose                   bool
	}{configPath, renderIndividualInput, renderIndividualOutput, renderIndividualRecordID, verbose}
	t.Cleanup(func() {
		configPath = saved.config
		verbose = saved.verbose
		renderIndividualInput = saved.in
		renderIndividualOutput = saved.out
		renderIndividualRecordID = saved.recordID
	})
	configPath = ""
	verbose = false
	t.Setenv("REPORT_ASSET_ROOTS", t.TempDir())
	t.Setenv("REPORT_CATALOG", "")
	t.Setenv("REPORT_LOG_MODE", "prod")
}

func testApp() *app {
	return &app{cfg: config.Default(), log: logging.NewNop()}
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output should be a PDF")
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, schemas.KindCouple, detectKind([]byte(sampleCoupleJSON)))
	assert.Equal(t, schemas.KindCouple, detectKind([]byte(`{"spouse": null}`)))
	assert.Equal(t, schemas.KindRecord, detectKind([]byte(sampleRecordJSON)))
	assert.Equal(t, schemas.KindRecord, detectKind([]byte(`not json`)))
}

func TestSourceFlags(t *testing.T) {
	assert.NoError(t, sourceFlags("a.json", "", "record-id"))
	assert.NoError(t, sourceFlags("", "abc", "record-id"))
	assert.ErrorContains(t, sourceFlags("a.json", "abc", "record-id"), "cannot use --in with --record-id")
	assert.ErrorContains(t, sourceFlags("", "", "couple-id"), "must provide either --in or --couple-id")
}

func TestResolveKind(t *testing.T) {
	k, err := resolveKind("auto", []byte(sampleCoupleJSON))
	require.NoError(t, err)
	assert.Equal(t, schemas.KindCouple, k)

	k, err = resolveKind("record", []byte(sampleCoupleJSON))
	require.NoError(t, err)
	assert.Equal(t, schemas.KindRecord, k)

	_, err = resolveKind("resume", nil)
	assert.ErrorContains(t, err, "invalid --kind")
}

func TestParseID(t *testing.T) {
	_, err := parseID("record-id", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid record-id")

	id, err := parseID("record-id", "0b6f9a52-3f43-4c8e-9a0e-6f1d2b7c8e11")
	require.NoError(t, err)
	assert.Equal(t, "0b6f9a52-3f43-4c8e-9a0e-6f1d2b7c8e11", id.String())
}

func TestLoadSettings_FileEnvAndFlags(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	configPath = writeFile(t, dir, "report.yaml", "page_size: a4\nconcurrency: 2\n")
	verbose = true
	t.Setenv("DATABASE_URL", "postgres://example/reports")

	cfg, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "a4", cfg.PageSize)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, "postgres://example/reports", cfg.DatabaseURL)
	assert.True(t, cfg.Verbose)
	assert.NotZero(t, cfg.FooterHeight, "defaults fill unset fields")
}

func TestLoadSettings_InvalidConfig(t *testing.T) {
	isolate(t)
	configPath = writeFile(t, t.TempDir(), "report.json", `{"page_size": "legal"}`)

	_, err := loadSettings()
	assert.ErrorContains(t, err, "page_size")
}

func TestRunRenderIndividual_FromFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	renderIndividualInput = writeFile(t, dir, "dana.json", sampleRecordJSON)
	renderIndividualOutput = filepath.Join(dir, "out", "dana.pdf")
	renderIndividualRecordID = ""

	require.NoError(t, runRenderIndividual(renderIndividualCmd, nil))
	assertPDF(t, renderIndividualOutput)
}

func TestRunRenderIndividual_MalformedRecordStillRenders(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	renderIndividualInput = writeFile(t, dir, "broken.json", `{"scores": "{not json", "profile": 42}`)
	renderIndividualOutput = filepath.Join(dir, "broken.pdf")
	renderIndividualRecordID = ""

	require.NoError(t, runRenderIndividual(renderIndividualCmd, nil))
	assertPDF(t, renderIndividualOutput)
}

func TestRunRenderIndividual_SourceErrors(t *testing.T) {
	isolate(t)
	renderIndividualInput = ""
	renderIndividualRecordID = ""
	renderIndividualOutput = filepath.Join(t.TempDir(), "x.pdf")
	assert.ErrorContains(t, runRenderIndividual(renderIndividualCmd, nil), "must provide either")

	renderIndividualInput = filepath.Join(t.TempDir(), "missing.json")
	assert.ErrorContains(t, runRenderIndividual(renderIndividualCmd, nil), "failed to read record file")

	renderIndividualInput = ""
	renderIndividualRecordID = "not-a-uuid"
	assert.ErrorContains(t, runRenderIndividual(renderIndividualCmd, nil), "invalid record-id")
}

func TestRunRenderCouple_FromFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	savedIn, savedOut := renderCoupleInput, renderCoupleOutput
	t.Cleanup(func() { renderCoupleInput, renderCoupleOutput = savedIn, savedOut })

	renderCoupleInput = writeFile(t, dir, "couple.json", sampleCoupleJSON)
	renderCoupleOutput = filepath.Join(dir, "couple.pdf")

	require.NoError(t, runRenderCouple(renderCoupleCmd, nil))
	assertPDF(t, renderCoupleOutput)
}

func TestRunRenderBatch(t *testing.T) {
	isolate(t)
	in, out := t.TempDir(), t.TempDir()
	savedIn, savedOut, savedN := renderBatchInputDir, renderBatchOutputDir, renderBatchConcurrency
	t.Cleanup(func() { renderBatchInputDir, renderBatchOutputDir, renderBatchConcurrency = savedIn, savedOut, savedN })

	writeFile(t, in, "dana.json", sampleRecordJSON)
	writeFile(t, in, "empty.json", `{}`)
	writeFile(t, in, "couple.json", sampleCoupleJSON)
	writeFile(t, in, "notes.txt", "ignored")
	renderBatchInputDir, renderBatchOutputDir, renderBatchConcurrency = in, out, 2

	require.NoError(t, runRenderBatch(renderBatchCmd, nil))
	for _, name := range []string{"dana.pdf", "empty.pdf", "couple.pdf"} {
		assertPDF(t, filepath.Join(out, name))
	}
	_, err := os.Stat(filepath.Join(out, "notes.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunRenderBatch_CorruptFilesStillRender(t *testing.T) {
	isolate(t)
	in, out := t.TempDir(), t.TempDir()
	savedIn, savedOut := renderBatchInputDir, renderBatchOutputDir
	t.Cleanup(func() { renderBatchInputDir, renderBatchOutputDir = savedIn, savedOut })

	writeFile(t, in, "a.json", sampleRecordJSON)
	writeFile(t, in, "b.json", `{"demographics": {"name": "Da`)
	writeFile(t, in, "c.json", `{"primary": "{\"demographics\": {\"name\": \"Alex\"}}", "spouse": 42}`)
	renderBatchInputDir, renderBatchOutputDir = in, out

	require.NoError(t, runRenderBatch(renderBatchCmd, nil))
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		assertPDF(t, filepath.Join(out, name))
	}
}

func TestRunRenderBatch_SourceFlags(t *testing.T) {
	isolate(t)
	savedIn, savedOut, savedDB := renderBatchInputDir, renderBatchOutputDir, renderBatchFromDB
	t.Cleanup(func() { renderBatchInputDir, renderBatchOutputDir, renderBatchFromDB = savedIn, savedOut, savedDB })
	renderBatchOutputDir = t.TempDir()

	renderBatchInputDir, renderBatchFromDB = "", false
	assert.ErrorContains(t, runRenderBatch(renderBatchCmd, nil), "must provide either --in-dir or --from-db")

	renderBatchInputDir, renderBatchFromDB = t.TempDir(), true
	assert.ErrorContains(t, runRenderBatch(renderBatchCmd, nil), "cannot use --in-dir with --from-db")
}

func TestLoadJobs_PerFileFallbacks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", sampleRecordJSON)
	writeFile(t, dir, "b.json", `{"scores": {"overallPercentage": 7`)
	writeFile(t, dir, "c.json", `{"primary": "{\"demographics\": {\"name\": \"Alex\"}}"}`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.json"), 0o755))

	jobs, err := testApp().loadJobs(dir)
	require.NoError(t, err)
	require.Len(t, jobs, 4)

	assert.Equal(t, "a.json", jobs[0].Name)
	require.NotNil(t, jobs[0].Individual)

	require.NotNil(t, jobs[1].Individual, "a truncated file renders from defaults")
	assert.Empty(t, jobs[1].Individual.Scores)
	assert.NoError(t, jobs[1].Err)

	require.NotNil(t, jobs[2].Couple)
	rec, warnings := normalize.New(nil).Couple(*jobs[2].Couple)
	assert.Empty(t, warnings)
	assert.Equal(t, "Alex", rec.Primary.Demographics.Name)

	assert.Error(t, jobs[3].Err, "a directory cannot be read as a file")
	assert.Nil(t, jobs[3].Individual)
}

type fakeSource struct {
	records map[uuid.UUID]types.RawRecord
	order   []uuid.UUID
	listErr error
}

func (f *fakeSource) ListAssessmentRecords(_ context.Context, limit int) ([]db.RecordSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []db.RecordSummary
	for _, id := range f.order {
		if len(out) == limit {
			break
		}
		out = append(out, db.RecordSummary{ID: id})
	}
	return out, nil
}

func (f *fakeSource) GetAssessmentRecord(_ context.Context, id uuid.UUID) (types.RawRecord, error) {
	raw, ok := f.records[id]
	if !ok {
		return types.RawRecord{}, fmt.Errorf("assessment record %s: %w", id, db.ErrNotFound)
	}
	return raw, nil
}

func TestLoadDBJobs(t *testing.T) {
	found, missing, extra := uuid.New(), uuid.New(), uuid.New()
	src := &fakeSource{
		records: map[uuid.UUID]types.RawRecord{
			found: {Demographics: json.RawMessage(`{"name":"Dana"}`)},
			extra: {},
		},
		order: []uuid.UUID{found, missing, extra},
	}

	jobs, err := testApp().loadDBJobs(context.Background(), src, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, found.String(), jobs[0].Name)
	require.NotNil(t, jobs[0].Individual)
	assert.JSONEq(t, `{"name":"Dana"}`, string(jobs[0].Individual.Demographics))

	assert.Equal(t, missing.String(), jobs[1].Name)
	assert.ErrorIs(t, jobs[1].Err, db.ErrNotFound)

	src.listErr = errors.New("connection reset")
	_, err = testApp().loadDBJobs(context.Background(), src, 2)
	assert.ErrorContains(t, err, "connection reset")
}

func TestRunRenderBatch_EmptyDirectory(t *testing.T) {
	isolate(t)
	savedIn, savedOut := renderBatchInputDir, renderBatchOutputDir
	t.Cleanup(func() { renderBatchInputDir, renderBatchOutputDir = savedIn, savedOut })
	renderBatchInputDir, renderBatchOutputDir = t.TempDir(), t.TempDir()

	assert.ErrorContains(t, runRenderBatch(renderBatchCmd, nil), "no JSON files")
}

func TestAnalyzeIndividual(t *testing.T) {
	raw, _, err := testApp().readRawRecord(writeFile(t, t.TempDir(), "r.json", sampleRecordJSON))
	require.NoError(t, err)
	rec, _ := normalize.New(nil).Record(raw)

	got := analyzeIndividual(rec, analytics.DefaultBaseline())
	assert.Equal(t, "rec-1", got.RecordID)
	assert.Equal(t, "Dana", got.Name)
	assert.Equal(t, 78.5, got.Overall)
	assert.Equal(t, analytics.BandModerate.Label(), got.Band)
	assert.Equal(t, analytics.Percentile(78.5), got.Percentile)
	assert.NotEmpty(t, got.Comparisons)
}

func TestAnalyzeCouple(t *testing.T) {
	raw, _, err := testApp().readRawCouple(writeFile(t, t.TempDir(), "c.json", sampleCoupleJSON))
	require.NoError(t, err)
	rec, _ := normalize.New(nil).Couple(raw)

	got := analyzeCouple(rec)
	assert.Equal(t, "Alex", got.PrimaryName)
	assert.Equal(t, "Sam", got.SpouseName)
	assert.Equal(t, 82.0, got.StoredScore)
	assert.Equal(t, analytics.Compatibility(rec.Primary.Scores, rec.Spouse.Scores), got.Breakdown.Score)
	require.Len(t, got.Sections, 2)

	var differ []string
	for _, item := range got.Differences.SignificantDifferences {
		differ = append(differ, item.Section)
	}
	assert.Contains(t, differ, "Finances")
	assert.Contains(t, got.Differences.Recommendations, "Schedule a budget night")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, IndividualAnalysis{Name: "Dana", Comparisons: []analytics.Comparison{}}))
	assert.Contains(t, buf.String(), `"name": "Dana"`)
}

func TestRunValidateInput(t *testing.T) {
	dir := t.TempDir()
	savedFile, savedKind, savedSchema := validateInputFile, validateInputKind, validateInputSchema
	t.Cleanup(func() { validateInputFile, validateInputKind, validateInputSchema = savedFile, savedKind, savedSchema })
	validateInputKind, validateInputSchema = "auto", ""

	validateInputFile = writeFile(t, dir, "good.json", sampleRecordJSON)
	assert.NoError(t, runValidateInput(validateInputCmd, nil))

	validateInputFile = writeFile(t, dir, "couple.json", sampleCoupleJSON)
	assert.NoError(t, runValidateInput(validateInputCmd, nil))

	validateInputFile = writeFile(t, dir, "bad.json", `{"scores": {"overallPercentage": 300}}`)
	assert.ErrorContains(t, runValidateInput(validateInputCmd, nil), "does not match schema")

	validateInputKind = "couple"
	validateInputFile = writeFile(t, dir, "solo.json", sampleRecordJSON)
	assert.Error(t, runValidateInput(validateInputCmd, nil), "a single record lacks primary and spouse")
}

func TestWriteOutput_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "report.pdf")
	require.NoError(t, writeOutput(path, []byte("%PDF-1.3")))
	assertPDF(t, path)
}

func TestLoadCatalog(t *testing.T) {
	cat, err := loadCatalog("")
	require.NoError(t, err)
	_, ok := cat.Lookup("the builder")
	assert.True(t, ok)

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRenderIndividualCommand_MissingOutFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render-individual", "--in", "record.json")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required flag(s) \"out\" not set")
}

func TestRenderBatchCommand_MissingFlags(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "render-batch", "--in-dir", t.TempDir())
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required flag(s) \"out-dir\" not set")
}

