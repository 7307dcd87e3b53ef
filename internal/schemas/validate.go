// Package schemas validates report input files against the embedded JSON Schemas.
// Validation is advisory: the normalizer accepts anything, so callers report these
// errors as warnings unless they are only checking input.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/assessment-reports/schemas"
)

// Kind selects the input schema.
type Kind string

const (
	KindRecord Kind = "record"
	KindCouple Kind = "couple"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

type compiled struct {
	record *gojsonschema.Schema
	couple *gojsonschema.Schema
}

var loadEmbedded = sync.OnceValues(func() (*compiled, error) {
	recordData, err := schemafiles.FS.ReadFile(schemafiles.AssessmentRecord)
	if err != nil {
		return nil, &SchemaLoadError{Path: schemafiles.AssessmentRecord, Message: "not embedded", Cause: err}
	}
	coupleData, err := schemafiles.FS.ReadFile(schemafiles.CoupleRecord)
	if err != nil {
		return nil, &SchemaLoadError{Path: schemafiles.CoupleRecord, Message: "not embedded", Cause: err}
	}

	record, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recordData))
	if err != nil {
		return nil, &SchemaLoadError{Path: schemafiles.AssessmentRecord, Message: "failed to compile", Cause: err}
	}

	// The couple schema references the record schema by $id.
	sl := gojsonschema.NewSchemaLoader()
	if err := sl.AddSchemas(gojsonschema.NewBytesLoader(recordData)); err != nil {
		return nil, &SchemaLoadError{Path: schemafiles.AssessmentRecord, Message: "failed to register", Cause: err}
	}
	couple, err := sl.Compile(gojsonschema.NewBytesLoader(coupleData))
	if err != nil {
		return nil, &SchemaLoadError{Path: schemafiles.CoupleRecord, Message: "failed to compile", Cause: err}
	}
	return &compiled{record: record, couple: couple}, nil
})

// Validate checks JSON document data against the embedded schema for kind.
func Validate(kind Kind, data []byte) error {
	c, err := loadEmbedded()
	if err != nil {
		return err
	}
	schema := c.record
	switch kind {
	case KindRecord:
	case KindCouple:
		schema = c.couple
	default:
		return fmt.Errorf("unknown schema kind %q", kind)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "document is not valid JSON: " + err.Error()}}}
	}
	return resultError(result)
}

// ValidateRecord checks a single-respondent record document.
func ValidateRecord(data []byte) error { return Validate(KindRecord, data) }

// ValidateCouple checks a couple record document, including both partner records.
func ValidateCouple(data []byte) error { return Validate(KindCouple, data) }

// ValidateFile checks a JSON file against the embedded schema for kind.
func ValidateFile(kind Kind, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Validate(kind, data)
}

// ValidateJSON validates a JSON file against a JSON Schema file on disk, for
// deployments that extend the embedded schemas.
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaAbsPath))
	documentLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(jsonAbsPath))

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaAbsPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
