package rfp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Accessors over the loosely-typed extraction record. The inference backend
// returns json-decoded values, so numbers arrive as float64 and nested
// structures as map[string]any / []any.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// firstString resolves a field through a chain of alternate spellings,
// returning the first non-empty value.
func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstInt resolves an integer field through a chain of alternate spellings.
// Non-numeric values coerce to 0.
func firstInt(m map[string]any, keys ...string) int {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		if n, ok := coerceInt(v); ok {
			return n
		}
	}
	return 0
}

func firstFloat(m map[string]any, keys ...string) float64 {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", s))
	}
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if cleaned == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// stringList flattens a field that may be a list of strings, a single string,
// or a map of parameter pairs into a list of spec strings.
func stringList(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, entry := range val {
			if s := stringify(entry); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
		return nil
	case map[string]any:
		return pairList(val)
	default:
		return nil
	}
}

// pairList renders a parameter map as "key: value" spec strings.
func pairList(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		s := stringify(v)
		if s == "" {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", k, s))
	}
	return out
}

// truthy interprets the explicit yes/no flags extraction produces.
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s == "yes" || s == "true" || s == "y"
	default:
		return false
	}
}
