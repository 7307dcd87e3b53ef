package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Record(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantError bool
	}{
		{"full record", `{
			"id": "r1",
			"demographics": {"name": "Dana", "gender": "female", "age": "34"},
			"scores": {"overallPercentage": 82.5, "sections": {"Trust": {"earned": 8, "possible": 10}, "Finances": "55%"},
				"strengths": ["Trust"], "improvementAreas": "Finances"},
			"profile": {"name": "The Builder", "description": "Steady.", "traits": ["Reliable"]}
		}`, false},
		{"string encoded sub-objects", `{"demographics": "{\"name\":\"Dana\"}", "scores": "{}", "profile": null}`, false},
		{"empty object", `{}`, false},
		{"overall out of range", `{"scores": {"overallPercentage": 140}}`, true},
		{"section wrong type", `{"scores": {"sections": {"Trust": true}}}`, true},
		{"profile array", `{"profile": []}`, true},
		{"not an object", `[1, 2]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(KindRecord, []byte(tt.json))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "error should be ValidationError, got %T: %v", err, err)
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

func TestValidate_Couple(t *testing.T) {
	valid := `{
		"primary": {"demographics": {"name": "Alex"}},
		"spouse": {"scores": {"overallPercentage": 70}},
		"compatibilityScore": 81,
		"differenceAnalysis": {"significantDifferences": [{"section": "Finances", "narrative": "Different habits."}, "Faith"]}
	}`
	assert.NoError(t, Validate(KindCouple, []byte(valid)))

	err := Validate(KindCouple, []byte(`{"primary": {}}`))
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	err = Validate(KindCouple, []byte(`{"primary": {"scores": {"overallPercentage": -5}}, "spouse": {}}`))
	require.Error(t, err, "nested record schema applies to partners")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(KindRecord, []byte(`{ invalid json }`))
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "(root)", ve.Errors[0].Field)
}

func TestValidate_UnknownKind(t *testing.T) {
	err := Validate(Kind("resume"), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema kind")
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scores": {"overallPercentage": 50}}`), 0644))
	assert.NoError(t, ValidateFile(KindRecord, path))

	err := ValidateFile(KindRecord, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidateJSON_CustomSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["scores"]
	}`), 0644))
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"scores": {}}`), 0644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"profile": {}}`), 0644))

	assert.NoError(t, ValidateJSON(schemaPath, good))

	err := ValidateJSON(schemaPath, bad)
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", "testdata/nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "scores.overallPercentage", Message: "must be less than or equal to 100"},
			{Field: "profile", Message: "invalid type"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "scores.overallPercentage")
	assert.Contains(t, errorMsg, "profile")
}

func TestValidateRecordAndCouple_Shorthands(t *testing.T) {
	assert.NoError(t, ValidateRecord([]byte(`{"profile": "{\"name\":\"The Builder\"}"}`)))
	assert.Error(t, ValidateCouple([]byte(`{}`)))
}
