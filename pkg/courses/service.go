package courses

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveCourseOptions struct {
	ID   *int
	Slug *string
}

type ListCoursesOptions struct {
	Limit         *int
	Offset        *int
	Format        *string
	Search        *string
	PublishedOnly bool

	includeTotal bool
}

type UpdateCourseOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateCourse(ctx context.Context, course *models.Course) error {
	now := time.Now()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = course.CreatedAt
	if course.LearningOutcomes == nil {
		course.LearningOutcomes = []string{}
	}
	applyImageDefaults(course)

	s, err := svc.uniqueSlug(ctx, course.Slug, course.Title, 0)
	if err != nil {
		return err
	}
	course.Slug = s

	_, err = svc.db.
		NewInsert().
		Model(course).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveCourse(ctx context.Context, opts RetrieveCourseOptions) (*models.Course, error) {
	course := &models.Course{}

	q := svc.db.
		NewSelect().
		Model(course)

	if opts.ID != nil {
		q = q.Where("c.id = ?", *opts.ID)
	}
	if opts.Slug != nil {
		q = q.Where("c.slug = ? COLLATE NOCASE", *opts.Slug)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Course")
		}
		return nil, errors.WithStack(err)
	}

	return course, nil
}

func (svc *Service) ListCourses(ctx context.Context, opts ListCoursesOptions) ([]*models.Course, error) {
	c, _, err := svc.listCoursesWithTotal(ctx, opts)
	return c, errors.WithStack(err)
}

func (svc *Service) ListCoursesWithTotal(ctx context.Context, opts ListCoursesOptions) ([]*models.Course, int, error) {
	opts.includeTotal = true
	return svc.listCoursesWithTotal(ctx, opts)
}

func (svc *Service) listCoursesWithTotal(ctx context.Context, opts ListCoursesOptions) ([]*models.Course, int, error) {
	var courses []*models.Course
	var total int
	var err error

	// Undated courses sort last.
	q := svc.db.
		NewSelect().
		Model(&courses).
		OrderExpr("c.start_date IS NULL, c.start_date ASC, c.title ASC")

	if opts.Format != nil {
		q = q.Where("c.format = ?", *opts.Format)
	}
	if opts.PublishedOnly {
		q = q.Where("c.published = ?", true)
	}
	if opts.Search != nil && *opts.Search != "" {
		pattern := "%" + escapeLike(*opts.Search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("c.title LIKE ? ESCAPE '\\'", pattern).
				WhereOr("c.summary LIKE ? ESCAPE '\\'", pattern)
		})
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return courses, total, nil
}

func (svc *Service) UpdateCourse(ctx context.Context, course *models.Course, opts UpdateCourseOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "slug" {
			s, err := svc.uniqueSlug(ctx, course.Slug, course.Title, course.ID)
			if err != nil {
				return err
			}
			course.Slug = s
			break
		}
	}
	if course.LearningOutcomes == nil {
		course.LearningOutcomes = []string{}
	}

	course.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(course).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Course")
	}
	return nil
}

func (svc *Service) DeleteCourse(ctx context.Context, courseID int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Course)(nil)).
		Where("id = ?", courseID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Course")
	}
	return nil
}

// uniqueSlug derives a slug from the requested one (or the title) and
// appends a numeric suffix until no other course uses it.
func (svc *Service) uniqueSlug(ctx context.Context, requested, title string, excludeID int) (string, error) {
	base := slug.Make(requested)
	if base == "" {
		base = slug.Make(title)
	}
	if base == "" {
		base = "course"
	}

	candidate := base
	for i := 2; ; i++ {
		q := svc.db.
			NewSelect().
			Model((*models.Course)(nil)).
			Where("c.slug = ? COLLATE NOCASE", candidate)
		if excludeID != 0 {
			q = q.Where("c.id != ?", excludeID)
		}
		exists, err := q.Exists(ctx)
		if err != nil {
			return "", errors.WithStack(err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

func applyImageDefaults(course *models.Course) {
	if course.ImageAspectRatio == "" {
		course.ImageAspectRatio = models.DefaultImageAspectRatio
	}
	if course.ImageLayout == "" {
		course.ImageLayout = models.DefaultImageLayout
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
