package dates

import (
	"strings"
	"time"
)

// ISOLayout matches the ISO-8601 form produced by JavaScript's
// Date.prototype.toISOString, which the admin frontend sends and expects back.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
)

// FormatForDB converts a date-like value into the string stored in the
// database. Absent values return nil. Times are rendered in UTC with
// millisecond precision. Strings are passed through as-is without checking
// that they parse.
func FormatForDB(v any) *string {
	var s string
	switch d := v.(type) {
	case nil:
		return nil
	case string:
		s = d
	case *string:
		if d == nil {
			return nil
		}
		s = *d
	case time.Time:
		s = toISO(d)
	case *time.Time:
		if d == nil {
			return nil
		}
		s = toISO(*d)
	default:
		return nil
	}
	return &s
}

func toISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// NormalizeCourseDates returns a shallow copy of record with start_date and
// end_date run through FormatForDB. Both keys are always present in the
// result, nil when absent. Every other key is copied untouched.
func NormalizeCourseDates(record map[string]any) map[string]any {
	out := make(map[string]any, len(record)+2)
	for k, v := range record {
		out[k] = v
	}
	for _, field := range []string{FieldStartDate, FieldEndDate} {
		if formatted := FormatForDB(record[field]); formatted != nil {
			out[field] = *formatted
		} else {
			out[field] = nil
		}
	}
	return out
}

// NormalizeLearningOutcomes accepts either a newline separated string or a
// list and always returns a list. Blank lines are dropped.
func NormalizeLearningOutcomes(v any) []string {
	switch o := v.(type) {
	case nil:
		return []string{}
	case []string:
		return o
	case []any:
		outcomes := make([]string, 0, len(o))
		for _, item := range o {
			if s, ok := item.(string); ok {
				outcomes = append(outcomes, s)
			}
		}
		return outcomes
	case string:
		outcomes := []string{}
		for _, line := range strings.Split(o, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				outcomes = append(outcomes, line)
			}
		}
		return outcomes
	case *string:
		if o == nil {
			return []string{}
		}
		return NormalizeLearningOutcomes(*o)
	default:
		return []string{}
	}
}

// Parse attempts to read a stored date string. It understands the stored ISO
// form as well as plain RFC 3339 and YYYY-MM-DD values.
func Parse(s string) (time.Time, bool) {
	for _, layout := range []string{ISOLayout, time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
