package events

import (
	"context"
	"database/sql"
	"time"

	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListEventsOptions struct {
	Limit         *int
	Offset        *int
	PublishedOnly bool
	// UpcomingFrom keeps events that haven't ended before this time.
	UpcomingFrom *time.Time

	includeTotal bool
}

type UpdateEventOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateEvent(ctx context.Context, event *models.Event) error {
	now := time.Now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = event.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(event).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveEvent(ctx context.Context, id int) (*models.Event, error) {
	event := &models.Event{}

	err := svc.db.
		NewSelect().
		Model(event).
		Where("e.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Event")
		}
		return nil, errors.WithStack(err)
	}

	return event, nil
}

func (svc *Service) ListEventsWithTotal(ctx context.Context, opts ListEventsOptions) ([]*models.Event, int, error) {
	opts.includeTotal = true
	return svc.listEventsWithTotal(ctx, opts)
}

func (svc *Service) listEventsWithTotal(ctx context.Context, opts ListEventsOptions) ([]*models.Event, int, error) {
	var events []*models.Event
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&events).
		OrderExpr("e.start_date IS NULL, e.start_date ASC, e.id ASC")

	if opts.PublishedOnly {
		q = q.Where("e.published = ?", true)
	}
	if opts.UpcomingFrom != nil {
		// Dates are stored as ISO-8601 text, which sorts chronologically.
		q = q.Where("COALESCE(e.end_date, e.start_date) >= ?", opts.UpcomingFrom.UTC().Format(time.DateOnly))
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

	return events, total, nil
}

func (svc *Service) UpdateEvent(ctx context.Context, event *models.Event, opts UpdateEventOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	event.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(event).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Event")
	}
	return nil
}

func (svc *Service) DeleteEvent(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Event")
	}
	return nil
}
