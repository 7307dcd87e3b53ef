package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreSet_SectionNamesSorted(t *testing.T) {
	s := ScoreSet{Sections: map[string]SectionScore{
		"Finances":      {Percentage: 70},
		"Communication": {Percentage: 80},
		"Intimacy":      {Percentage: 60},
	}}
	assert.Equal(t, []string{"Communication", "Finances", "Intimacy"}, s.SectionNames())
}

func TestScoreSet_SectionNamesEmpty(t *testing.T) {
	assert.Empty(t, ScoreSet{}.SectionNames())
}

func TestGender_Known(t *testing.T) {
	assert.True(t, GenderMale.Known())
	assert.True(t, GenderFemale.Known())
	assert.False(t, GenderUnknown.Known())
}

func TestProfile_IsZero(t *testing.T) {
	assert.True(t, Profile{}.IsZero())
	assert.True(t, Profile{Icon: "x.png"}.IsZero())
	assert.False(t, Profile{Name: "The Harmonizer"}.IsZero())
}

func TestRawRecord_KeepsSubfieldsVerbatim(t *testing.T) {
	input := `{"id": 42, "scores": "{\"overallPercentage\": 85}", "profile": null}`
	var raw RawRecord
	require.NoError(t, json.Unmarshal([]byte(input), &raw))
	assert.Equal(t, "42", string(raw.ID))
	assert.Equal(t, `"{\"overallPercentage\": 85}"`, string(raw.Scores))
	assert.Equal(t, "null", string(raw.Profile))
	assert.Nil(t, raw.Demographics)
}

func TestDifferenceAnalysis_IsZero(t *testing.T) {
	assert.True(t, DifferenceAnalysis{}.IsZero())
	assert.False(t, DifferenceAnalysis{Recommendations: []string{"talk"}}.IsZero())
}
