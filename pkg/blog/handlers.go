package blog

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/auth"
	"github.com/lecternhq/lectern/pkg/cachebust"
	"github.com/lecternhq/lectern/pkg/dates"
	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/htmlutil"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// excerptLength is the rune limit of generated excerpts.
const excerptLength = 200

type handler struct {
	postService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListPostsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	posts, total, err := h.postService.ListPostsWithTotal(ctx, ListPostsOptions{
		Limit:         &params.Limit,
		Offset:        &params.Offset,
		Author:        params.Author,
		PublishedOnly: !auth.CanEditFromContext(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"posts": posts,
		"total": total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := h.lookup(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if !post.Published && !auth.CanEditFromContext(c) {
		return errcodes.NotFound("Blog post")
	}

	return errors.WithStack(c.JSON(http.StatusOK, post))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(c.Request().Context())

	params := CreatePostPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	post := &models.BlogPost{
		Title:         params.Title,
		Slug:          params.Slug,
		Author:        params.Author,
		Excerpt:       params.Excerpt,
		Content:       params.Content,
		CoverImageURL: cachebust.ApplyToURL(params.CoverImageURL),
		Published:     params.Published,
	}
	if post.Excerpt == "" {
		post.Excerpt = htmlutil.Excerpt(post.Content, excerptLength)
	}
	if params.PublishedAt != nil && *params.PublishedAt != "" {
		post.PublishedAt = dates.FormatForDB(params.PublishedAt)
	} else if post.Published {
		post.PublishedAt = dates.FormatForDB(time.Now())
	}

	if err := h.postService.CreatePost(ctx, post); err != nil {
		return errors.WithStack(err)
	}

	log.Info("blog post created", logger.Data{"post_id": post.ID, "slug": post.Slug})
	return errors.WithStack(c.JSON(http.StatusCreated, post))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdatePostPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	post, err := h.lookup(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	var columns []string
	if params.Title != nil && *params.Title != post.Title {
		post.Title = *params.Title
		columns = append(columns, "title")
	}
	if params.Slug != nil && *params.Slug != post.Slug {
		post.Slug = *params.Slug
		columns = append(columns, "slug")
	}
	if params.Author != nil {
		post.Author = params.Author
		columns = append(columns, "author")
	}
	if params.Content != nil && *params.Content != post.Content {
		post.Content = *params.Content
		columns = append(columns, "content")
		// a generated excerpt follows the content
		if params.Excerpt == nil {
			post.Excerpt = htmlutil.Excerpt(post.Content, excerptLength)
			columns = append(columns, "excerpt")
		}
	}
	if params.Excerpt != nil {
		post.Excerpt = *params.Excerpt
		if post.Excerpt == "" {
			post.Excerpt = htmlutil.Excerpt(post.Content, excerptLength)
		}
		columns = append(columns, "excerpt")
	}
	if params.CoverImageURL != nil && *params.CoverImageURL != post.CoverImageURL {
		post.CoverImageURL = cachebust.ApplyToURL(*params.CoverImageURL)
		columns = append(columns, "cover_image_url")
	}
	if params.PublishedAt != nil {
		post.PublishedAt = nil
		if *params.PublishedAt != "" {
			post.PublishedAt = dates.FormatForDB(params.PublishedAt)
		}
		columns = append(columns, "published_at")
	}
	if params.Published != nil && *params.Published != post.Published {
		post.Published = *params.Published
		columns = append(columns, "published")
		if post.Published && post.PublishedAt == nil {
			post.PublishedAt = dates.FormatForDB(time.Now())
			columns = append(columns, "published_at")
		}
	}

	if err := h.postService.UpdatePost(ctx, post, UpdatePostOptions{Columns: columns}); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, post))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Blog post")
	}

	if err := h.postService.DeletePost(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) lookup(ctx context.Context, idOrSlug string) (*models.BlogPost, error) {
	opts := RetrievePostOptions{}
	if id, err := strconv.Atoi(idOrSlug); err == nil {
		opts.ID = &id
	} else {
		opts.Slug = &idOrSlug
	}
	return h.postService.RetrievePost(ctx, opts)
}
