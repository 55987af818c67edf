package testimonials

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/auth"
	"github.com/lecternhq/lectern/pkg/cachebust"
	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	testimonialService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListTestimonialsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	testimonials, err := h.testimonialService.ListTestimonials(ctx, ListTestimonialsOptions{
		CourseID:      params.CourseID,
		PublishedOnly: !auth.CanEditFromContext(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"testimonials": testimonials,
		"total":        len(testimonials),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateTestimonialPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if params.CourseID != nil {
		if err := h.checkCourse(ctx, *params.CourseID); err != nil {
			return err
		}
	}

	testimonial := &models.Testimonial{
		AuthorName:  params.AuthorName,
		AuthorTitle: params.AuthorTitle,
		Quote:       params.Quote,
		AvatarURL:   cachebust.ApplyToURL(params.AvatarURL),
		Rating:      params.Rating,
		CourseID:    params.CourseID,
		SortOrder:   params.SortOrder,
		Published:   params.Published,
	}

	if err := h.testimonialService.CreateTestimonial(ctx, testimonial); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, testimonial))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateTestimonialPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	testimonial, err := h.lookup(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	var columns []string
	if params.AuthorName != nil && *params.AuthorName != testimonial.AuthorName {
		testimonial.AuthorName = *params.AuthorName
		columns = append(columns, "author_name")
	}
	if params.AuthorTitle != nil {
		testimonial.AuthorTitle = params.AuthorTitle
		columns = append(columns, "author_title")
	}
	if params.Quote != nil && *params.Quote != testimonial.Quote {
		testimonial.Quote = *params.Quote
		columns = append(columns, "quote")
	}
	if params.AvatarURL != nil && *params.AvatarURL != testimonial.AvatarURL {
		testimonial.AvatarURL = cachebust.ApplyToURL(*params.AvatarURL)
		columns = append(columns, "avatar_url")
	}
	if params.Rating != nil {
		testimonial.Rating = params.Rating
		columns = append(columns, "rating")
	}
	if params.CourseID != nil {
		if *params.CourseID == 0 {
			testimonial.CourseID = nil
		} else {
			if err := h.checkCourse(ctx, *params.CourseID); err != nil {
				return err
			}
			testimonial.CourseID = params.CourseID
		}
		columns = append(columns, "course_id")
	}
	if params.SortOrder != nil {
		testimonial.SortOrder = *params.SortOrder
		columns = append(columns, "sort_order")
	}
	if params.Published != nil && *params.Published != testimonial.Published {
		testimonial.Published = *params.Published
		columns = append(columns, "published")
	}

	if err := h.testimonialService.UpdateTestimonial(ctx, testimonial, UpdateTestimonialOptions{Columns: columns}); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, testimonial))
}

func (h *handler) reorder(c echo.Context) error {
	ctx := c.Request().Context()

	params := ReorderTestimonialsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.testimonialService.Reorder(ctx, params.IDs); err != nil {
		return errors.WithStack(err)
	}

	testimonials, err := h.testimonialService.ListTestimonials(ctx, ListTestimonialsOptions{})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"testimonials": testimonials,
		"total":        len(testimonials),
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Testimonial")
	}

	if err := h.testimonialService.DeleteTestimonial(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) lookup(ctx context.Context, param string) (*models.Testimonial, error) {
	id, err := strconv.Atoi(param)
	if err != nil {
		return nil, errcodes.NotFound("Testimonial")
	}
	return h.testimonialService.RetrieveTestimonial(ctx, id)
}

func (h *handler) checkCourse(ctx context.Context, courseID int) error {
	exists, err := h.testimonialService.CourseExists(ctx, courseID)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.ValidationError("\"course_id\" doesn't match a course")
	}
	return nil
}
