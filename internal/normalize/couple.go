package normalize

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/assessment-reports/internal/types"
)

// Couple normalizes a paired record. Both partners are normalized independently and
// their warnings concatenated.
func (n *Normalizer) Couple(raw types.RawCoupleRecord) (types.CoupleRecord, []Warning) {
	c := &collector{log: n.log}
	out := types.CoupleRecord{
		ID:              scalarText(raw.ID),
		Recommendations: []string{},
	}

	c.recordID = out.ID
	out.Primary = n.record(c, partner(c, "primary", raw.Primary), DefaultPrimaryName)
	c.recordID = out.ID
	out.Spouse = n.record(c, partner(c, "spouse", raw.Spouse), DefaultSpouseName)
	c.recordID = out.ID

	if v, err := decodeValue("compatibilityScore", raw.CompatibilityScore); err != nil {
		c.warn("compatibilityScore", err)
	} else if v != nil {
		if f, ok := toNumber(v); ok {
			out.CompatibilityScore = f
		} else {
			c.warn("compatibilityScore", &ParseError{Field: "compatibilityScore", Message: "not a number"})
		}
	}

	if v, err := decodeValue("recommendations", raw.Recommendations); err != nil {
		c.warn("recommendations", err)
	} else if v != nil {
		list, err := toStrings("recommendations", v)
		c.warn("recommendations", err)
		out.Recommendations = list
	}

	out.Analysis = differenceAnalysis(c, raw.DifferenceAnalysis)
	return out, c.warnings
}

// partner unwraps one partner's raw record. A partner that is not an object is
// replaced by an empty record so every field falls back to its default.
func partner(c *collector, field string, raw json.RawMessage) types.RawRecord {
	m, err := decodeObject(field, raw)
	c.warn(field, err)
	if m == nil {
		return types.RawRecord{}
	}
	var rec types.RawRecord
	data, err := json.Marshal(m)
	if err == nil {
		err = json.Unmarshal(data, &rec)
	}
	if err != nil {
		c.warn(field, &ParseError{Field: field, Message: "invalid partner record", Cause: err})
		return types.RawRecord{}
	}
	return rec
}

func differenceAnalysis(c *collector, raw json.RawMessage) *types.DifferenceAnalysis {
	m, err := decodeObject("differenceAnalysis", raw)
	c.warn("differenceAnalysis", err)
	if m == nil {
		return nil
	}

	d := &types.DifferenceAnalysis{
		AlignmentAreas:         []types.DifferenceItem{},
		SignificantDifferences: []types.DifferenceItem{},
		Recommendations:        []string{},
	}
	if v, ok := lookup(m, "alignmentAreas", "alignment_areas"); ok {
		d.AlignmentAreas = differenceItems(c, "differenceAnalysis.alignmentAreas", v)
	}
	if v, ok := lookup(m, "significantDifferences", "significant_differences"); ok {
		d.SignificantDifferences = differenceItems(c, "differenceAnalysis.significantDifferences", v)
	}
	if v, ok := lookup(m, "recommendations"); ok {
		list, err := toStrings("differenceAnalysis.recommendations", v)
		c.warn("differenceAnalysis.recommendations", err)
		d.Recommendations = list
	}
	return d
}

// differenceItems accepts objects ({section, narrative}) or bare strings.
func differenceItems(c *collector, field string, v any) []types.DifferenceItem {
	out := []types.DifferenceItem{}
	v, err := unwrapString(field, v)
	if err != nil {
		c.warn(field, err)
		return out
	}
	list, ok := v.([]any)
	if !ok {
		if v != nil {
			c.warn(field, &ParseError{Field: field, Message: "expected list, got " + kindOf(v)})
		}
		return out
	}
	for _, item := range list {
		switch t := item.(type) {
		case map[string]any:
			var di types.DifferenceItem
			if s, ok := lookup(t, "section", "area", "name"); ok {
				di.Section = toText(s)
			}
			if s, ok := lookup(t, "narrative", "description", "text"); ok {
				di.Narrative = toText(s)
			}
			if di.Section != "" || di.Narrative != "" {
				out = append(out, di)
			}
		default:
			if s := strings.TrimSpace(toText(t)); s != "" {
				out = append(out, types.DifferenceItem{Narrative: s})
			}
		}
	}
	return out
}
