// Package normalize turns loosely-typed assessment input into fully defaulted records.
package normalize

import "fmt"

// ParseError describes a sub-field that could not be decoded and was replaced by a default.
type ParseError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Warning is a non-fatal problem recorded while normalizing one record.
type Warning struct {
	RecordID string
	Field    string
	Err      error
}

func (w Warning) String() string {
	if w.RecordID == "" {
		return fmt.Sprintf("%s: %v", w.Field, w.Err)
	}
	return fmt.Sprintf("record %s: %s: %v", w.RecordID, w.Field, w.Err)
}
