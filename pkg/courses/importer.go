package courses

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/lecternhq/lectern/pkg/dates"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
)

// LoadCatalog reads the "courses" list of a YAML catalog file. Each entry is
// returned as a raw record.
func LoadCatalog(path string) ([]map[string]any, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog: %s", path)
	}
	if !k.Exists("courses") {
		return nil, errors.Errorf("catalog %s has no courses list", path)
	}

	entries := k.Slices("courses")
	records := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		records = append(records, entry.Raw())
	}
	return records, nil
}

// RecordToCourse converts a raw catalog record into a course. Dates may be
// strings or timestamps and learning outcomes a list or a multi-line string.
func RecordToCourse(record map[string]any) (*models.Course, error) {
	record = dates.NormalizeCourseDates(record)

	title := strings.TrimSpace(stringField(record, "title"))
	if title == "" {
		return nil, errors.New("title is required")
	}
	format := strings.TrimSpace(stringField(record, "format"))
	if format == "" {
		return nil, errors.Errorf("%q: format is required", title)
	}

	course := &models.Course{
		Title:            title,
		Slug:             stringField(record, "slug"),
		Summary:          optionalString(record, "summary"),
		Description:      optionalString(record, "description"),
		Format:           format,
		StartDate:        optionalString(record, dates.FieldStartDate),
		EndDate:          optionalString(record, dates.FieldEndDate),
		LearningOutcomes: dates.NormalizeLearningOutcomes(record["learning_outcomes"]),
		Published:        boolField(record, "published"),
	}

	if v, ok := record["price_cents"]; ok && v != nil {
		price, err := toInt(v)
		if err != nil {
			return nil, errors.Wrapf(err, "%q: price_cents", title)
		}
		course.PriceCents = &price
	}

	patch := ImageSettingsPatch{
		ImageURL:         optionalString(record, "image_url"),
		ImageAspectRatio: optionalString(record, "image_aspect_ratio"),
		ImageLayout:      optionalString(record, "image_layout"),
	}
	if v, ok := record["image_size"]; ok && v != nil {
		size, err := toInt(v)
		if err != nil {
			return nil, errors.Wrapf(err, "%q: image_size", title)
		}
		patch.ImageSize = &size
	}
	applyToCourse(course, ApplyImageSettings(nil, patch))

	return course, nil
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Created []string
	Skipped []string
}

// ImportOptions controls how records are imported.
type ImportOptions struct {
	// KnownFormat reports whether a format value may be used.
	KnownFormat  func(value string) bool
	SkipExisting bool
	DryRun       bool
}

// Import creates a course for every record. Records whose slug already exists
// are skipped when SkipExisting is set. The first invalid record aborts the
// run before anything is written.
func (svc *Service) Import(ctx context.Context, records []map[string]any, opts ImportOptions) (*ImportResult, error) {
	courses := make([]*models.Course, 0, len(records))
	for i, record := range records {
		course, err := RecordToCourse(record)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i+1)
		}
		if opts.KnownFormat != nil && !opts.KnownFormat(course.Format) {
			return nil, errors.Errorf("record %d: unknown format %q", i+1, course.Format)
		}
		courses = append(courses, course)
	}

	result := &ImportResult{}
	for _, course := range courses {
		if opts.SkipExisting {
			s := course.Slug
			if s == "" {
				s = slug.Make(course.Title)
			}
			if _, err := svc.RetrieveCourse(ctx, RetrieveCourseOptions{Slug: &s}); err == nil {
				result.Skipped = append(result.Skipped, course.Title)
				continue
			}
		}
		if opts.DryRun {
			result.Created = append(result.Created, course.Title)
			continue
		}
		if err := svc.CreateCourse(ctx, course); err != nil {
			return result, errors.Wrapf(err, "failed to create %q", course.Title)
		}
		result.Created = append(result.Created, course.Title)
	}
	return result, nil
}

func stringField(record map[string]any, key string) string {
	switch v := record[key].(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	case nil:
	default:
		return fmt.Sprint(v)
	}
	return ""
}

func optionalString(record map[string]any, key string) *string {
	v, ok := record[key]
	if !ok || v == nil {
		return nil
	}
	if p, ok := v.(*string); ok {
		return p
	}
	s := stringField(record, key)
	return &s
}

func boolField(record map[string]any, key string) bool {
	switch v := record[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, errors.WithStack(err)
	}
	return 0, errors.Errorf("expected a number, got %T", v)
}
