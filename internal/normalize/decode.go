package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// decodeObject decodes a sub-field that should hold a JSON object. The field may be
// absent, null, an object, or a string containing JSON. A nil map with a nil error
// means the field was absent.
func decodeObject(field string, raw json.RawMessage) (map[string]any, error) {
	v, err := decodeValue(field, raw)
	if err != nil || v == nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Field: field, Message: fmt.Sprintf("expected object, got %s", kindOf(v))}
	}
	return m, nil
}

// decodeValue decodes raw JSON, unwrapping one level of string encoding.
func decodeValue(field string, raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, &ParseError{Field: field, Message: "invalid JSON", Cause: err}
	}
	return unwrapString(field, v)
}

// unwrapString parses v again when it is a string that looks like JSON.
func unwrapString(field string, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "undefined" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return s, nil
	}
	var inner any
	if err := json.Unmarshal([]byte(s), &inner); err != nil {
		return nil, &ParseError{Field: field, Message: "invalid JSON in string-encoded field", Cause: err}
	}
	return inner, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// lookup returns the first present key from m.
func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// toNumber accepts JSON numbers and numeric strings such as "85.5" or "85%".
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(n), "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toText renders scalars as strings; objects and arrays yield "".
func toText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// toStrings accepts an array of scalars, a JSON-encoded array string, or a single string.
func toStrings(field string, v any) ([]string, error) {
	v, err := unwrapString(field, v)
	if err != nil {
		return []string{}, err
	}
	out := []string{}
	switch t := v.(type) {
	case nil:
		return out, nil
	case []any:
		for _, item := range t {
			if s := toText(item); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
		return out, nil
	default:
		return out, &ParseError{Field: field, Message: fmt.Sprintf("expected list, got %s", kindOf(v))}
	}
}

func clampPercent(f float64) float64 {
	return math.Max(0, math.Min(100, f))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// toTime accepts RFC 3339 and common SQL layouts, or unix seconds / milliseconds.
func toTime(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	if n, ok := toNumber(v); ok && n > 0 {
		if n > 1e12 {
			return time.UnixMilli(int64(n)).UTC(), true
		}
		return time.Unix(int64(n), 0).UTC(), true
	}
	return time.Time{}, false
}
