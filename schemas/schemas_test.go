package schemas_test

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/assessment-reports/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	files, err := fs.Glob(schemas.FS, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{schemas.AssessmentRecord, schemas.CoupleRecord}, files)

	for _, schemaFile := range files {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := schemas.FS.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.Contains(t, schemaObj["$id"], schemaFile, "$id must end in the file name so $ref resolves")
			assert.Equal(t, "object", schemaObj["type"])
		})
	}
}
