package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-reports/internal/types"
)

// Table names. Sub-objects are stored as text so that whatever the producer wrote,
// valid or not, reaches the normalizer untouched.
const (
	TableAssessments = "assessment_records"
	TableCouples     = "couple_assessments"
)

// recordRow mirrors one assessment_records row.
type recordRow struct {
	ID            uuid.UUID
	CreatedAt     *time.Time
	Demographics  *string
	Scores        *string
	Profile       *string
	GenderProfile *string
}

// coupleRow mirrors one couple_assessments row.
type coupleRow struct {
	ID                 uuid.UUID
	PrimaryID          uuid.UUID
	SpouseID           uuid.UUID
	CompatibilityScore *string
	DifferenceAnalysis *string
	Recommendations    *string
}

// RecordSummary is a listing entry for stored assessment records.
type RecordSummary struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (r recordRow) raw() types.RawRecord {
	raw := types.RawRecord{
		ID:            quote(r.ID.String()),
		Demographics:  textColumn(r.Demographics),
		Scores:        textColumn(r.Scores),
		Profile:       textColumn(r.Profile),
		GenderProfile: textColumn(r.GenderProfile),
	}
	if r.CreatedAt != nil {
		raw.CreatedAt = quote(r.CreatedAt.UTC().Format(time.RFC3339))
	}
	return raw
}

func (c coupleRow) raw(primary, spouse types.RawRecord) (types.RawCoupleRecord, error) {
	a, err := json.Marshal(primary)
	if err != nil {
		return types.RawCoupleRecord{}, fmt.Errorf("failed to encode primary partner: %w", err)
	}
	b, err := json.Marshal(spouse)
	if err != nil {
		return types.RawCoupleRecord{}, fmt.Errorf("failed to encode spouse: %w", err)
	}
	return types.RawCoupleRecord{
		ID:                 quote(c.ID.String()),
		Primary:            a,
		Spouse:             b,
		CompatibilityScore: textColumn(c.CompatibilityScore),
		DifferenceAnalysis: textColumn(c.DifferenceAnalysis),
		Recommendations:    textColumn(c.Recommendations),
	}, nil
}

// textColumn turns a nullable text column into a JSON-encoded string, the form the
// normalizer unwraps. NULL stays absent.
func textColumn(s *string) json.RawMessage {
	if s == nil {
		return nil
	}
	return quote(*s)
}

func quote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
