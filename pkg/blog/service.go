package blog

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrievePostOptions struct {
	ID   *int
	Slug *string
}

type ListPostsOptions struct {
	Limit         *int
	Offset        *int
	Author        *string
	PublishedOnly bool

	includeTotal bool
}

type UpdatePostOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreatePost(ctx context.Context, post *models.BlogPost) error {
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = post.CreatedAt

	s, err := svc.uniqueSlug(ctx, post.Slug, post.Title, 0)
	if err != nil {
		return err
	}
	post.Slug = s

	_, err = svc.db.
		NewInsert().
		Model(post).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrievePost(ctx context.Context, opts RetrievePostOptions) (*models.BlogPost, error) {
	post := &models.BlogPost{}

	q := svc.db.
		NewSelect().
		Model(post)

	if opts.ID != nil {
		q = q.Where("bp.id = ?", *opts.ID)
	}
	if opts.Slug != nil {
		q = q.Where("bp.slug = ? COLLATE NOCASE", *opts.Slug)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Blog post")
		}
		return nil, errors.WithStack(err)
	}

	return post, nil
}

func (svc *Service) ListPostsWithTotal(ctx context.Context, opts ListPostsOptions) ([]*models.BlogPost, int, error) {
	opts.includeTotal = true
	return svc.listPostsWithTotal(ctx, opts)
}

func (svc *Service) listPostsWithTotal(ctx context.Context, opts ListPostsOptions) ([]*models.BlogPost, int, error) {
	var posts []*models.BlogPost
	var total int
	var err error

	// Unpublished drafts have no published_at and sort first.
	q := svc.db.
		NewSelect().
		Model(&posts).
		OrderExpr("bp.published_at IS NOT NULL, bp.published_at DESC, bp.id DESC")

	if opts.PublishedOnly {
		q = q.Where("bp.published = ?", true)
	}
	if opts.Author != nil {
		q = q.Where("bp.author = ? COLLATE NOCASE", *opts.Author)
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

	return posts, total, nil
}

func (svc *Service) UpdatePost(ctx context.Context, post *models.BlogPost, opts UpdatePostOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "slug" {
			s, err := svc.uniqueSlug(ctx, post.Slug, post.Title, post.ID)
			if err != nil {
				return err
			}
			post.Slug = s
			break
		}
	}

	post.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(post).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Blog post")
	}
	return nil
}

func (svc *Service) DeletePost(ctx context.Context, postID int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.BlogPost)(nil)).
		Where("id = ?", postID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Blog post")
	}
	return nil
}

func (svc *Service) uniqueSlug(ctx context.Context, requested, title string, excludeID int) (string, error) {
	base := slug.Make(requested)
	if base == "" {
		base = slug.Make(title)
	}
	if base == "" {
		base = "post"
	}

	candidate := base
	for i := 2; ; i++ {
		q := svc.db.
			NewSelect().
			Model((*models.BlogPost)(nil)).
			Where("bp.slug = ? COLLATE NOCASE", candidate)
		if excludeID != 0 {
			q = q.Where("bp.id != ?", excludeID)
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
