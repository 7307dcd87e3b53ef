package normalize

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/assessment-reports/internal/logging"
	"github.com/jonathan/assessment-reports/internal/types"
)

const (
	// DefaultName is used when a respondent has no usable name.
	DefaultName = "Participant"
	// DefaultPrimaryName and DefaultSpouseName label unnamed partners in couple records.
	DefaultPrimaryName = "Partner A"
	DefaultSpouseName  = "Partner B"
)

// Normalizer absorbs malformed input at the boundary. It never fails: every problem
// becomes a Warning plus a logged default substitution.
type Normalizer struct {
	log *logging.Logger
	now func() time.Time
}

// New creates a Normalizer. A nil logger discards warnings.
func New(log *logging.Logger) *Normalizer {
	return &Normalizer{log: logging.OrNop(log), now: time.Now}
}

// WithClock overrides the time source used when a record has no usable timestamp.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// collector gathers warnings for a single record and logs each one.
type collector struct {
	recordID string
	log      *logging.Logger
	warnings []Warning
}

func (c *collector) warn(field string, err error) {
	if err == nil {
		return
	}
	c.warnings = append(c.warnings, Warning{RecordID: c.recordID, Field: field, Err: err})
	c.log.Warn("substituted default for malformed field", "record_id", c.recordID, "field", field, "error", err)
}

// Record normalizes a single assessment record.
func (n *Normalizer) Record(raw types.RawRecord) (types.AssessmentRecord, []Warning) {
	c := &collector{log: n.log}
	rec := n.record(c, raw, DefaultName)
	return rec, c.warnings
}

func (n *Normalizer) record(c *collector, raw types.RawRecord, defaultName string) types.AssessmentRecord {
	rec := types.AssessmentRecord{ID: scalarText(raw.ID)}
	c.recordID = rec.ID

	rec.CreatedAt = n.createdAt(c, raw.CreatedAt)
	rec.Demographics = demographics(c, raw.Demographics, defaultName)
	rec.Scores = scoreSet(c, raw.Scores)

	if p, ok := profile(c, "profile", raw.Profile); ok {
		rec.Profile = p
	}
	if p, ok := profile(c, "genderProfile", raw.GenderProfile); ok && !p.IsZero() {
		rec.GenderProfile = &p
	}
	return rec
}

func (n *Normalizer) createdAt(c *collector, raw json.RawMessage) time.Time {
	v, err := decodeValue("createdAt", raw)
	if err != nil {
		c.warn("createdAt", err)
	}
	if v != nil {
		if t, ok := toTime(v); ok {
			return t
		}
		c.warn("createdAt", &ParseError{Field: "createdAt", Message: "unrecognized timestamp"})
	}
	return n.now()
}

func scalarText(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return toText(v)
}

func demographics(c *collector, raw json.RawMessage, defaultName string) types.Demographics {
	d := types.Demographics{Name: defaultName}
	m, err := decodeObject("demographics", raw)
	c.warn("demographics", err)
	if m == nil {
		return d
	}

	if v, ok := lookup(m, "name", "fullName", "full_name"); ok {
		if s := toText(v); s != "" {
			d.Name = s
		}
	} else {
		first, _ := lookup(m, "firstName", "first_name")
		last, _ := lookup(m, "lastName", "last_name")
		if s := strings.TrimSpace(toText(first) + " " + toText(last)); s != "" {
			d.Name = s
		}
	}
	if v, ok := lookup(m, "gender", "sex"); ok {
		d.Gender = toText(v)
		d.ResolvedGender = ResolveGender(d.Gender)
	}
	if v, ok := lookup(m, "age"); ok {
		if f, ok := toNumber(v); ok && f > 0 {
			d.Age = int(f)
		}
	}
	if v, ok := lookup(m, "relationshipStatus", "relationship_status", "maritalStatus", "marital_status"); ok {
		d.RelationshipStatus = strings.ToLower(toText(v))
	}

	known := map[string]bool{
		"name": true, "fullName": true, "full_name": true, "firstName": true, "first_name": true,
		"lastName": true, "last_name": true, "gender": true, "sex": true, "age": true,
		"relationshipStatus": true, "relationship_status": true, "maritalStatus": true, "marital_status": true,
	}
	for k, v := range m {
		if known[k] {
			continue
		}
		if s := toText(v); s != "" {
			if d.Extra == nil {
				d.Extra = map[string]string{}
			}
			d.Extra[k] = s
		}
	}
	return d
}

// ResolveGender maps free-form gender input onto the known values.
func ResolveGender(s string) types.Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "man", "husband", "boyfriend", "fiance":
		return types.GenderMale
	case "female", "f", "woman", "wife", "girlfriend", "fiancee":
		return types.GenderFemale
	default:
		return types.GenderUnknown
	}
}

func scoreSet(c *collector, raw json.RawMessage) types.ScoreSet {
	s := types.ScoreSet{
		Sections:         map[string]types.SectionScore{},
		Strengths:        []string{},
		ImprovementAreas: []string{},
	}
	m, err := decodeObject("scores", raw)
	c.warn("scores", err)
	if m == nil {
		return s
	}

	if v, ok := lookup(m, "overallPercentage", "overall_percentage", "overall", "percentage"); ok {
		if f, ok := toNumber(v); ok {
			s.OverallPercentage = clampPercent(f)
		} else {
			c.warn("scores.overallPercentage", &ParseError{Field: "scores.overallPercentage", Message: "not a number"})
		}
	}

	if v, ok := lookup(m, "sections"); ok {
		s.Sections = sections(c, v)
	}
	if v, ok := lookup(m, "strengths"); ok {
		list, err := toStrings("scores.strengths", v)
		c.warn("scores.strengths", err)
		s.Strengths = list
	}
	if v, ok := lookup(m, "improvementAreas", "improvement_areas", "improvements"); ok {
		list, err := toStrings("scores.improvementAreas", v)
		c.warn("scores.improvementAreas", err)
		s.ImprovementAreas = list
	}
	return s
}

func sections(c *collector, v any) map[string]types.SectionScore {
	out := map[string]types.SectionScore{}
	v, err := unwrapString("scores.sections", v)
	if err != nil {
		c.warn("scores.sections", err)
		return out
	}
	m, ok := v.(map[string]any)
	if !ok {
		if v != nil {
			c.warn("scores.sections", &ParseError{Field: "scores.sections", Message: "expected object, got " + kindOf(v)})
		}
		return out
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		field := "scores.sections." + key
		var sec types.SectionScore
		switch t := m[name].(type) {
		case map[string]any:
			sec = sectionScore(t)
		default:
			f, ok := toNumber(t)
			if !ok {
				c.warn(field, &ParseError{Field: field, Message: "expected object or number, got " + kindOf(t)})
			}
			sec = types.SectionScore{Percentage: clampPercent(f)}
		}
		out[key] = sec
	}
	return out
}

func sectionScore(m map[string]any) types.SectionScore {
	var sec types.SectionScore
	if v, ok := lookup(m, "earned", "score"); ok {
		if f, ok := toNumber(v); ok && f > 0 {
			sec.Earned = f
		}
	}
	if v, ok := lookup(m, "possible", "max", "total"); ok {
		if f, ok := toNumber(v); ok && f > 0 {
			sec.Possible = f
		}
	}
	if v, ok := lookup(m, "percentage", "percent"); ok {
		if f, ok := toNumber(v); ok {
			sec.Percentage = clampPercent(f)
			return sec
		}
	}
	if sec.Possible > 0 {
		sec.Percentage = clampPercent(sec.Earned / sec.Possible * 100)
	}
	return sec
}

// profile decodes a profile field. ok is false when the field was absent or unusable.
func profile(c *collector, field string, raw json.RawMessage) (types.Profile, bool) {
	m, err := decodeObject(field, raw)
	c.warn(field, err)
	if m == nil {
		return types.Profile{}, false
	}

	var p types.Profile
	if v, ok := lookup(m, "name", "title"); ok {
		p.Name = toText(v)
	}
	if v, ok := lookup(m, "description", "summary"); ok {
		p.Description = toText(v)
	}
	if v, ok := lookup(m, "icon", "image", "iconPath"); ok {
		p.Icon = toText(v)
	}

	seen := map[string]bool{}
	p.Characteristics = []string{}
	for _, key := range []string{"characteristics", "traits"} {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		list, err := toStrings(field+"."+key, v)
		c.warn(field+"."+key, err)
		for _, item := range list {
			if !seen[item] {
				seen[item] = true
				p.Characteristics = append(p.Characteristics, item)
			}
		}
	}
	return p, true
}
