package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/assessment-reports/internal/types"
)

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return New(nil).WithClock(func() time.Time { return fixedNow })
}

func TestRecord_ObjectFields(t *testing.T) {
	raw := types.RawRecord{
		ID:        json.RawMessage(`"rec-1"`),
		CreatedAt: json.RawMessage(`"2025-11-02T10:30:00Z"`),
		Demographics: json.RawMessage(`{"name": "Dana Reyes", "gender": "Female", "age": "34",
			"relationshipStatus": "Married", "church": "Grace"}`),
		Scores: json.RawMessage(`{"overallPercentage": 85, "sections": {
			"Communication": {"earned": 18, "possible": 20, "percentage": 90},
			"Finances": {"earned": 16, "possible": 20}},
			"strengths": ["Listening", "Patience"], "improvementAreas": ["Budgeting"]}`),
		Profile: json.RawMessage(`{"name": "The Harmonizer", "description": "Keeps the peace.",
			"icon": "harmonizer.png", "characteristics": ["Calm"], "traits": ["Calm", "Warm"]}`),
	}

	rec, warnings := newTestNormalizer().Record(raw)
	assert.Empty(t, warnings)

	want := types.AssessmentRecord{
		ID:        "rec-1",
		CreatedAt: time.Date(2025, 11, 2, 10, 30, 0, 0, time.UTC),
		Demographics: types.Demographics{
			Name:               "Dana Reyes",
			Gender:             "Female",
			ResolvedGender:     types.GenderFemale,
			Age:                34,
			RelationshipStatus: "married",
			Extra:              map[string]string{"church": "Grace"},
		},
		Scores: types.ScoreSet{
			OverallPercentage: 85,
			Sections: map[string]types.SectionScore{
				"Communication": {Earned: 18, Possible: 20, Percentage: 90},
				"Finances":      {Earned: 16, Possible: 20, Percentage: 80},
			},
			Strengths:        []string{"Listening", "Patience"},
			ImprovementAreas: []string{"Budgeting"},
		},
		Profile: types.Profile{
			Name:            "The Harmonizer",
			Description:     "Keeps the peace.",
			Icon:            "harmonizer.png",
			Characteristics: []string{"Calm", "Warm"},
		},
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("Record() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_StringEncodedFields(t *testing.T) {
	scores, err := json.Marshal(`{"overallPercentage": "72.5", "sections": {"Trust": 64}, "strengths": "[\"Loyalty\"]"}`)
	require.NoError(t, err)
	profile, err := json.Marshal(`{"name": "The Anchor", "description": "Steady."}`)
	require.NoError(t, err)

	rec, warnings := newTestNormalizer().Record(types.RawRecord{
		Scores:  scores,
		Profile: profile,
	})

	assert.Empty(t, warnings)
	assert.Equal(t, 72.5, rec.Scores.OverallPercentage)
	assert.Equal(t, 64.0, rec.Scores.Sections["Trust"].Percentage)
	assert.Equal(t, []string{"Loyalty"}, rec.Scores.Strengths)
	assert.Equal(t, "The Anchor", rec.Profile.Name)
	assert.Equal(t, DefaultName, rec.Demographics.Name)
	assert.Equal(t, fixedNow, rec.CreatedAt)
}

func TestRecord_MalformedFieldsBecomeDefaults(t *testing.T) {
	rec, warnings := newTestNormalizer().Record(types.RawRecord{
		Demographics:  json.RawMessage(`"{not json"`),
		Scores:        json.RawMessage(`{broken`),
		Profile:       json.RawMessage(`[1, 2, 3]`),
		GenderProfile: json.RawMessage(`"{\"name\": "`),
	})

	require.Len(t, warnings, 4)
	fields := []string{}
	for _, w := range warnings {
		fields = append(fields, w.Field)
		var pe *ParseError
		assert.ErrorAs(t, w.Err, &pe)
	}
	assert.ElementsMatch(t, []string{"demographics", "scores", "profile", "genderProfile"}, fields)

	assert.Equal(t, DefaultName, rec.Demographics.Name)
	assert.Equal(t, 0.0, rec.Scores.OverallPercentage)
	assert.NotNil(t, rec.Scores.Sections)
	assert.NotNil(t, rec.Scores.Strengths)
	assert.NotNil(t, rec.Scores.ImprovementAreas)
	assert.True(t, rec.Profile.IsZero())
	assert.Nil(t, rec.GenderProfile)
}

func TestRecord_NullAndAbsentFieldsAreSilent(t *testing.T) {
	rec, warnings := newTestNormalizer().Record(types.RawRecord{
		Demographics: json.RawMessage(`null`),
		Scores:       json.RawMessage(`"null"`),
		Profile:      json.RawMessage(`""`),
	})
	assert.Empty(t, warnings)
	assert.Empty(t, rec.Scores.Sections)
	assert.Equal(t, []string{}, rec.Scores.Strengths)
}

func TestRecord_ClampsPercentages(t *testing.T) {
	rec, _ := newTestNormalizer().Record(types.RawRecord{
		Scores: json.RawMessage(`{"overallPercentage": 140, "sections": {"A": {"percentage": -5}, "B": {"earned": 30, "possible": 20}}}`),
	})
	assert.Equal(t, 100.0, rec.Scores.OverallPercentage)
	assert.Equal(t, 0.0, rec.Scores.Sections["A"].Percentage)
	assert.Equal(t, 100.0, rec.Scores.Sections["B"].Percentage)
}

func TestRecord_BadSectionValueWarns(t *testing.T) {
	rec, warnings := newTestNormalizer().Record(types.RawRecord{
		Scores: json.RawMessage(`{"overallPercentage": "n/a", "sections": {"A": true, "B": 55}}`),
	})
	require.Len(t, warnings, 2)
	assert.Equal(t, "scores.overallPercentage", warnings[0].Field)
	assert.Equal(t, "scores.sections.A", warnings[1].Field)
	assert.Equal(t, 0.0, rec.Scores.Sections["A"].Percentage)
	assert.Equal(t, 55.0, rec.Scores.Sections["B"].Percentage)
}

func TestRecord_GenderProfileOnlyWhenPresent(t *testing.T) {
	rec, _ := newTestNormalizer().Record(types.RawRecord{
		GenderProfile: json.RawMessage(`{"name": "The Protective Provider", "description": "Guards the home."}`),
	})
	require.NotNil(t, rec.GenderProfile)
	assert.Equal(t, "The Protective Provider", rec.GenderProfile.Name)

	rec, _ = newTestNormalizer().Record(types.RawRecord{GenderProfile: json.RawMessage(`{}`)})
	assert.Nil(t, rec.GenderProfile)
}

func TestRecord_NameFromParts(t *testing.T) {
	rec, _ := newTestNormalizer().Record(types.RawRecord{
		Demographics: json.RawMessage(`{"firstName": "Sam", "last_name": "Ortiz"}`),
	})
	assert.Equal(t, "Sam Ortiz", rec.Demographics.Name)
}

func TestRecord_UnixTimestamp(t *testing.T) {
	rec, _ := newTestNormalizer().Record(types.RawRecord{CreatedAt: json.RawMessage(`1700000000000`)})
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), rec.CreatedAt)
}

func TestResolveGender(t *testing.T) {
	tests := []struct {
		in   string
		want types.Gender
	}{
		{"male", types.GenderMale},
		{" M ", types.GenderMale},
		{"Husband", types.GenderMale},
		{"FEMALE", types.GenderFemale},
		{"wife", types.GenderFemale},
		{"", types.GenderUnknown},
		{"prefer not to say", types.GenderUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveGender(tt.in), tt.in)
	}
}

func TestWarning_String(t *testing.T) {
	w := Warning{RecordID: "r1", Field: "scores", Err: &ParseError{Field: "scores", Message: "invalid JSON"}}
	assert.Equal(t, "record r1: scores: parse error: scores: invalid JSON", w.String())
}
