//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS assessment_records (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ,
	demographics TEXT,
	scores TEXT,
	profile TEXT,
	gender_profile TEXT
);
CREATE TABLE IF NOT EXISTS couple_assessments (
	id UUID PRIMARY KEY,
	primary_record_id UUID NOT NULL REFERENCES assessment_records(id),
	spouse_record_id UUID NOT NULL REFERENCES assessment_records(id),
	compatibility_score TEXT,
	difference_analysis TEXT,
	recommendations TEXT
);`

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if _, err := db.pool.Exec(ctx, testSchema); err != nil {
		db.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func insertRecord(t *testing.T, db *DB, demographics, scores string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.pool.Exec(context.Background(),
		`INSERT INTO assessment_records (id, created_at, demographics, scores) VALUES ($1, NOW(), $2, $3)`,
		id, demographics, scores,
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.pool.Exec(context.Background(), `DELETE FROM assessment_records WHERE id = $1`, id)
	})
	return id
}

func TestIntegration_GetAssessmentRecord(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	id := insertRecord(t, db, `{"name": "Integration"}`, `{"overallPercentage": "64.5"}`)

	raw, err := db.GetAssessmentRecord(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, raw.CreatedAt)
	assert.Nil(t, raw.Profile)

	_, err = db.GetAssessmentRecord(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIntegration_GetCoupleRecord(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	primary := insertRecord(t, db, `{"name": "A"}`, `{}`)
	spouse := insertRecord(t, db, `{"name": "B"}`, `{}`)
	coupleID := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO couple_assessments (id, primary_record_id, spouse_record_id, compatibility_score)
		 VALUES ($1, $2, $3, '77')`,
		coupleID, primary, spouse,
	)
	require.NoError(t, err)
	defer func() {
		_, _ = db.pool.Exec(ctx, `DELETE FROM couple_assessments WHERE id = $1`, coupleID)
	}()

	raw, err := db.GetCoupleRecord(ctx, coupleID)
	require.NoError(t, err)
	assert.Contains(t, string(raw.Primary), "demographics")
	assert.Contains(t, string(raw.Spouse), "demographics")
	assert.JSONEq(t, `"77"`, string(raw.CompatibilityScore))

	list, err := db.ListAssessmentRecords(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}
