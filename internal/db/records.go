package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-reports/internal/types"
)

const selectRecord = `SELECT id, created_at, demographics, scores, profile, gender_profile
	FROM assessment_records WHERE id = $1`

const selectCouple = `SELECT id, primary_record_id, spouse_record_id, compatibility_score,
	difference_analysis, recommendations
	FROM couple_assessments WHERE id = $1`

// GetAssessmentRecord loads one record as raw input for the normalizer.
func (db *DB) GetAssessmentRecord(ctx context.Context, id uuid.UUID) (types.RawRecord, error) {
	row, err := db.recordRow(ctx, id)
	if err != nil {
		return types.RawRecord{}, err
	}
	return row.raw(), nil
}

func (db *DB) recordRow(ctx context.Context, id uuid.UUID) (recordRow, error) {
	var r recordRow
	err := db.q.QueryRow(ctx, selectRecord, id).Scan(
		&r.ID, &r.CreatedAt, &r.Demographics, &r.Scores, &r.Profile, &r.GenderProfile,
	)
	if err != nil {
		return recordRow{}, notFound(err, fmt.Sprintf("assessment record %s", id))
	}
	return r, nil
}

// GetCoupleRecord loads a couple assessment with both partner records. A missing
// partner record is an error: the couple row references it by foreign key.
func (db *DB) GetCoupleRecord(ctx context.Context, id uuid.UUID) (types.RawCoupleRecord, error) {
	var c coupleRow
	err := db.q.QueryRow(ctx, selectCouple, id).Scan(
		&c.ID, &c.PrimaryID, &c.SpouseID, &c.CompatibilityScore, &c.DifferenceAnalysis, &c.Recommendations,
	)
	if err != nil {
		return types.RawCoupleRecord{}, notFound(err, fmt.Sprintf("couple assessment %s", id))
	}

	primary, err := db.recordRow(ctx, c.PrimaryID)
	if err != nil {
		return types.RawCoupleRecord{}, fmt.Errorf("primary partner: %w", err)
	}
	spouse, err := db.recordRow(ctx, c.SpouseID)
	if err != nil {
		return types.RawCoupleRecord{}, fmt.Errorf("spouse: %w", err)
	}
	return c.raw(primary.raw(), spouse.raw())
}

// ListAssessmentRecords returns the newest records first, at most limit entries.
func (db *DB) ListAssessmentRecords(ctx context.Context, limit int) ([]RecordSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.q.Query(ctx,
		`SELECT id, created_at FROM assessment_records ORDER BY created_at DESC NULLS LAST LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment records: %w", err)
	}
	defer rows.Close()

	var out []RecordSummary
	for rows.Next() {
		var s RecordSummary
		var created *time.Time
		if err := rows.Scan(&s.ID, &created); err != nil {
			return nil, fmt.Errorf("failed to scan assessment record: %w", err)
		}
		if created != nil {
			s.CreatedAt = *created
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assessment records: %w", err)
	}
	return out, nil
}
