package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForDB(t *testing.T) {
	t.Parallel()

	t.Run("nil returns nil", func(t *testing.T) {
		assert.Nil(t, FormatForDB(nil))
	})

	t.Run("nil pointers return nil", func(t *testing.T) {
		var s *string
		var tm *time.Time
		assert.Nil(t, FormatForDB(s))
		assert.Nil(t, FormatForDB(tm))
	})

	t.Run("unix epoch renders with milliseconds", func(t *testing.T) {
		got := FormatForDB(time.Unix(0, 0))
		require.NotNil(t, got)
		assert.Equal(t, "1970-01-01T00:00:00.000Z", *got)
	})

	t.Run("non-UTC times are converted", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		got := FormatForDB(time.Date(2026, 3, 1, 10, 30, 0, 250_000_000, loc))
		require.NotNil(t, got)
		assert.Equal(t, "2026-03-01T08:30:00.250Z", *got)
	})

	t.Run("strings pass through unvalidated", func(t *testing.T) {
		got := FormatForDB("next tuesday")
		require.NotNil(t, got)
		assert.Equal(t, "next tuesday", *got)
	})

	t.Run("unsupported types return nil", func(t *testing.T) {
		assert.Nil(t, FormatForDB(42))
	})
}

func TestNormalizeCourseDates(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	record := map[string]any{
		"title":      "Intro to Go",
		"start_date": start,
		"end_date":   "2026-02-01",
	}

	got := NormalizeCourseDates(record)

	assert.Equal(t, "Intro to Go", got["title"])
	assert.Equal(t, "2026-01-05T09:00:00.000Z", got["start_date"])
	assert.Equal(t, "2026-02-01", got["end_date"])
	// the input record is not modified
	assert.Equal(t, start, record["start_date"])
}

func TestNormalizeCourseDates_MissingAndNil(t *testing.T) {
	t.Parallel()

	got := NormalizeCourseDates(map[string]any{"title": "Pottery", "end_date": nil})

	assert.Len(t, got, 3)
	assert.Equal(t, "Pottery", got["title"])
	for _, field := range []string{"start_date", "end_date"} {
		v, ok := got[field]
		assert.True(t, ok, field)
		assert.Nil(t, v, field)
	}
}

func TestNormalizeLearningOutcomes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, NormalizeLearningOutcomes(nil))
	assert.Equal(t, []string{"a", "b"}, NormalizeLearningOutcomes("a\n\nb\n"))
	assert.Equal(t, []string{"a", "b"}, NormalizeLearningOutcomes("  a  \n   \n b"))
	assert.Equal(t, []string{"x", " y "}, NormalizeLearningOutcomes([]string{"x", " y "}))
	assert.Equal(t, []string{"x", "y"}, NormalizeLearningOutcomes([]any{"x", 3, "y"}))
	assert.Equal(t, []string{}, NormalizeLearningOutcomes(""))
}

func TestParse(t *testing.T) {
	t.Parallel()

	got, ok := Parse("2026-01-05T09:00:00.000Z")
	require.True(t, ok)
	assert.Equal(t, 2026, got.Year())

	_, ok = Parse("2026-01-05")
	assert.True(t, ok)

	_, ok = Parse("soon")
	assert.False(t, ok)
}
