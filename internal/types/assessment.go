// Package types provides type definitions for assessment records consumed by the report engine.
package types

import (
	"encoding/json"
	"sort"
	"time"
)

// Gender is the resolved gender used to pick gender-specific profiles and pronouns.
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// Known reports whether the gender resolved to a concrete value.
func (g Gender) Known() bool {
	return g == GenderMale || g == GenderFemale
}

// Demographics carries the respondent's identity and the context fields used to
// select narrative branches.
type Demographics struct {
	Name               string            `json:"name"`
	Gender             string            `json:"gender,omitempty"`
	ResolvedGender     Gender            `json:"resolvedGender,omitempty"`
	Age                int               `json:"age,omitempty"`
	RelationshipStatus string            `json:"relationshipStatus,omitempty"`
	Extra              map[string]string `json:"extra,omitempty"`
}

// SectionScore is the result for a single assessment section.
type SectionScore struct {
	Earned     float64 `json:"earned"`
	Possible   float64 `json:"possible"`
	Percentage float64 `json:"percentage"`
}

// ScoreSet holds overall and per-section results plus derived strength lists.
type ScoreSet struct {
	OverallPercentage float64                 `json:"overallPercentage"`
	Sections          map[string]SectionScore `json:"sections"`
	Strengths         []string                `json:"strengths"`
	ImprovementAreas  []string                `json:"improvementAreas"`
}

// SectionNames returns section names in a stable (sorted) order.
func (s ScoreSet) SectionNames() []string {
	names := make([]string, 0, len(s.Sections))
	for name := range s.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile is a named narrative description assigned from a respondent's scores.
type Profile struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Icon            string   `json:"icon,omitempty"`
	Characteristics []string `json:"characteristics,omitempty"`
}

// IsZero reports whether the profile carries no displayable content.
func (p Profile) IsZero() bool {
	return p.Name == "" && p.Description == "" && len(p.Characteristics) == 0
}

// AssessmentRecord is the fully normalized single-respondent input.
type AssessmentRecord struct {
	ID            string       `json:"id"`
	CreatedAt     time.Time    `json:"createdAt"`
	Demographics  Demographics `json:"demographics"`
	Scores        ScoreSet     `json:"scores"`
	Profile       Profile      `json:"profile"`
	GenderProfile *Profile     `json:"genderProfile,omitempty"`
}

// RawRecord is an assessment record as supplied by storage. Each sub-field may be
// an object, a JSON-encoded string, null, absent, or malformed.
type RawRecord struct {
	ID            json.RawMessage `json:"id,omitempty"`
	CreatedAt     json.RawMessage `json:"createdAt,omitempty"`
	Demographics  json.RawMessage `json:"demographics,omitempty"`
	Scores        json.RawMessage `json:"scores,omitempty"`
	Profile       json.RawMessage `json:"profile,omitempty"`
	GenderProfile json.RawMessage `json:"genderProfile,omitempty"`
}
