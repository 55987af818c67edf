package courses

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/auth"
	"github.com/lecternhq/lectern/pkg/dates"
	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/formats"
	"github.com/lecternhq/lectern/pkg/media"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	courseService *Service
	formatService *formats.Service
	mediaStore    *media.Store
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListCoursesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	courses, total, err := h.courseService.ListCoursesWithTotal(ctx, ListCoursesOptions{
		Limit:         &params.Limit,
		Offset:        &params.Offset,
		Format:        params.Format,
		Search:        params.Search,
		PublishedOnly: !auth.CanEditFromContext(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"courses": courses,
		"total":   total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	course, err := h.lookup(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if !course.Published && !auth.CanEditFromContext(c) {
		return errcodes.NotFound("Course")
	}

	return errors.WithStack(c.JSON(http.StatusOK, course))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(c.Request().Context())

	params := CreateCoursePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.checkFormat(params.Format); err != nil {
		return err
	}

	course := &models.Course{
		Title:            params.Title,
		Slug:             params.Slug,
		Summary:          params.Summary,
		Description:      params.Description,
		Format:           params.Format,
		PriceCents:       params.PriceCents,
		StartDate:        normalizeDate(params.StartDate),
		EndDate:          normalizeDate(params.EndDate),
		LearningOutcomes: dates.NormalizeLearningOutcomes(params.LearningOutcomes),
		Published:        params.Published,
	}
	applyToCourse(course, ApplyImageSettings(nil, ImageSettingsPatch{
		ImageURL:         params.ImageURL,
		ImageAspectRatio: params.ImageAspectRatio,
		ImageSize:        params.ImageSize,
		ImageLayout:      params.ImageLayout,
	}))

	if err := h.courseService.CreateCourse(ctx, course); err != nil {
		return errors.WithStack(err)
	}

	log.Info("course created", logger.Data{"course_id": course.ID, "slug": course.Slug})
	return errors.WithStack(c.JSON(http.StatusCreated, course))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateCoursePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	course, err := h.lookup(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	var columns []string
	if params.Title != nil && *params.Title != course.Title {
		course.Title = *params.Title
		columns = append(columns, "title")
	}
	if params.Slug != nil && *params.Slug != course.Slug {
		course.Slug = *params.Slug
		columns = append(columns, "slug")
	}
	if params.Summary != nil {
		course.Summary = params.Summary
		columns = append(columns, "summary")
	}
	if params.Description != nil {
		course.Description = params.Description
		columns = append(columns, "description")
	}
	if params.Format != nil && *params.Format != course.Format {
		if err := h.checkFormat(*params.Format); err != nil {
			return err
		}
		course.Format = *params.Format
		columns = append(columns, "format")
	}
	if params.PriceCents != nil {
		course.PriceCents = params.PriceCents
		columns = append(columns, "price_cents")
	}
	if params.StartDate != nil {
		course.StartDate = normalizeDate(params.StartDate)
		columns = append(columns, "start_date")
	}
	if params.EndDate != nil {
		course.EndDate = normalizeDate(params.EndDate)
		columns = append(columns, "end_date")
	}
	if params.LearningOutcomes != nil {
		course.LearningOutcomes = dates.NormalizeLearningOutcomes(params.LearningOutcomes)
		columns = append(columns, "learning_outcomes")
	}
	if params.Published != nil && *params.Published != course.Published {
		course.Published = *params.Published
		columns = append(columns, "published")
	}

	if err := h.courseService.UpdateCourse(ctx, course, UpdateCourseOptions{Columns: columns}); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, course))
}

func (h *handler) updateImage(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateImagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	course, err := h.lookup(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	settings := ApplyImageSettings(imageSettingsOf(course), params.patch())
	if err := h.saveImageSettings(ctx, course, settings); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, settings))
}

func (h *handler) uploadImage(c echo.Context) error {
	ctx := c.Request().Context()

	course, err := h.lookup(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	params := UploadImagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	f, err := params.File.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	upload, err := h.mediaStore.Save(ctx, f)
	if err != nil {
		return errors.WithStack(err)
	}

	settings := ApplyImageSettings(imageSettingsOf(course), ImageSettingsPatch{
		ImageURL:         &upload.URL,
		ImageAspectRatio: &upload.AspectRatio,
		ImageSize:        params.ImageSize,
		ImageLayout:      params.ImageLayout,
	})
	if err := h.saveImageSettings(ctx, course, settings); err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		ImageSettings
		Upload *media.Upload `json:"upload"`
	}{settings, upload}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Course")
	}

	if err := h.courseService.DeleteCourse(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// lookup accepts either a numeric ID or a slug.
func (h *handler) lookup(ctx context.Context, idOrSlug string) (*models.Course, error) {
	opts := RetrieveCourseOptions{}
	if id, err := strconv.Atoi(idOrSlug); err == nil {
		opts.ID = &id
	} else {
		opts.Slug = &idOrSlug
	}
	return h.courseService.RetrieveCourse(ctx, opts)
}

func (h *handler) saveImageSettings(ctx context.Context, course *models.Course, settings ImageSettings) error {
	applyToCourse(course, settings)
	return h.courseService.UpdateCourse(ctx, course, UpdateCourseOptions{Columns: imageColumns})
}

func (h *handler) checkFormat(value string) error {
	registry := h.formatService.Registry()
	if registry.State() != formats.StateInitialized {
		return errcodes.NotReady("Course formats")
	}
	if !registry.Has(value) {
		return errcodes.ValidationError("\"format\" must be one of the configured course formats")
	}
	return nil
}

// normalizeDate treats an empty string as a cleared date.
func normalizeDate(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return dates.FormatForDB(s)
}
