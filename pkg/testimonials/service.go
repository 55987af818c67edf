package testimonials

import (
	"context"
	"database/sql"
	"time"

	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListTestimonialsOptions struct {
	CourseID      *int
	PublishedOnly bool
}

type UpdateTestimonialOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateTestimonial appends the testimonial after the current last one unless
// a sort order was given.
func (svc *Service) CreateTestimonial(ctx context.Context, testimonial *models.Testimonial) error {
	now := time.Now()
	if testimonial.CreatedAt.IsZero() {
		testimonial.CreatedAt = now
	}
	testimonial.UpdatedAt = testimonial.CreatedAt

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if testimonial.SortOrder == 0 {
			var maxOrder sql.NullInt64
			err := tx.NewSelect().
				Model((*models.Testimonial)(nil)).
				ColumnExpr("MAX(t.sort_order)").
				Scan(ctx, &maxOrder)
			if err != nil {
				return errors.WithStack(err)
			}
			testimonial.SortOrder = int(maxOrder.Int64) + 1
		}

		_, err := tx.NewInsert().
			Model(testimonial).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrieveTestimonial(ctx context.Context, id int) (*models.Testimonial, error) {
	testimonial := &models.Testimonial{}

	err := svc.db.
		NewSelect().
		Model(testimonial).
		Where("t.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Testimonial")
		}
		return nil, errors.WithStack(err)
	}

	return testimonial, nil
}

func (svc *Service) ListTestimonials(ctx context.Context, opts ListTestimonialsOptions) ([]*models.Testimonial, error) {
	var testimonials []*models.Testimonial

	q := svc.db.
		NewSelect().
		Model(&testimonials).
		Order("t.sort_order ASC", "t.id ASC")

	if opts.CourseID != nil {
		q = q.Where("t.course_id = ?", *opts.CourseID)
	}
	if opts.PublishedOnly {
		q = q.Where("t.published = ?", true)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return testimonials, nil
}

func (svc *Service) UpdateTestimonial(ctx context.Context, testimonial *models.Testimonial, opts UpdateTestimonialOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	testimonial.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(testimonial).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Testimonial")
	}
	return nil
}

// Reorder sets sort_order to each ID's position in ids. Testimonials not
// listed keep their order but move after the listed ones.
func (svc *Service) Reorder(ctx context.Context, ids []int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*models.Testimonial)(nil)).
			Where("t.id IN (?)", bun.In(ids)).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if count != len(ids) {
			return errcodes.NotFound("Testimonial")
		}

		_, err = tx.NewUpdate().
			Model((*models.Testimonial)(nil)).
			Set("sort_order = sort_order + ?", len(ids)).
			Where("id NOT IN (?)", bun.In(ids)).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		now := time.Now()
		for i, id := range ids {
			_, err := tx.NewUpdate().
				Model((*models.Testimonial)(nil)).
				Set("sort_order = ?", i+1).
				Set("updated_at = ?", now).
				Where("id = ?", id).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
}

func (svc *Service) DeleteTestimonial(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Testimonial)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Testimonial")
	}
	return nil
}

// CourseExists reports whether a course with the given ID exists.
func (svc *Service) CourseExists(ctx context.Context, courseID int) (bool, error) {
	exists, err := svc.db.
		NewSelect().
		Model((*models.Course)(nil)).
		Where("c.id = ?", courseID).
		Exists(ctx)
	return exists, errors.WithStack(err)
}
