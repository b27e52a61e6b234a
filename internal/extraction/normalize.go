package extraction

import (
	"math"
	"strconv"
	"strings"
)

// coerceStringList normalizes a decoded JSON value into a string list.
// Models frequently return a bare string where a list was requested, so
// scalars become single-element lists. Unusable values are dropped.
func coerceStringList(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		if trimmed := strings.TrimSpace(typed); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	case []any:
		out := make([]string, 0, len(typed))
		for _, element := range typed {
			text, ok := element.(string)
			if !ok {
				continue
			}
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

// coerceMinutes best-effort parses a decoded JSON value into a
// non-negative minute count. Unparseable or negative values are
// discarded rather than carried as errors.
func coerceMinutes(value any) *int {
	switch typed := value.(type) {
	case nil:
		return nil
	case float64:
		if typed < 0 || math.IsNaN(typed) || math.IsInf(typed, 0) {
			return nil
		}
		minutes := int(math.Round(typed))
		return &minutes
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil || parsed < 0 {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

// coerceText flattens a decoded JSON value into trimmed text, accepting
// numbers where models stringify inconsistently.
func coerceText(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == math.Trunc(typed) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}
