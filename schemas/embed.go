// Package schemas embeds the JSON Schemas describing report input records.
package schemas

import "embed"

// File names of the embedded schemas.
const (
	AssessmentRecord = "assessment_record.schema.json"
	CoupleRecord     = "couple_record.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
