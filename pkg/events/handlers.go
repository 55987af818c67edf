package events

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
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	eventService *Service
	now          func() time.Time
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListEventsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListEventsOptions{
		Limit:         &params.Limit,
		Offset:        &params.Offset,
		PublishedOnly: !auth.CanEditFromContext(c),
	}
	if params.Upcoming {
		now := h.now()
		opts.UpcomingFrom = &now
	}

	events, total, err := h.eventService.ListEventsWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"events": events,
		"total":  total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	event, err := h.lookup(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	if !event.Published && !auth.CanEditFromContext(c) {
		return errcodes.NotFound("Event")
	}

	return errors.WithStack(c.JSON(http.StatusOK, event))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(c.Request().Context())

	params := CreateEventPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	event := &models.Event{
		Title:           params.Title,
		Description:     params.Description,
		Location:        params.Location,
		StartDate:       normalizeDate(params.StartDate),
		EndDate:         normalizeDate(params.EndDate),
		ImageURL:        cachebust.ApplyToURL(params.ImageURL),
		RegistrationURL: params.RegistrationURL,
		Published:       params.Published,
	}
	if err := checkDateOrder(event.StartDate, event.EndDate); err != nil {
		return err
	}

	if err := h.eventService.CreateEvent(ctx, event); err != nil {
		return errors.WithStack(err)
	}

	log.Info("event created", logger.Data{"event_id": event.ID})
	return errors.WithStack(c.JSON(http.StatusCreated, event))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateEventPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	event, err := h.lookup(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	var columns []string
	if params.Title != nil && *params.Title != event.Title {
		event.Title = *params.Title
		columns = append(columns, "title")
	}
	if params.Description != nil {
		event.Description = params.Description
		columns = append(columns, "description")
	}
	if params.Location != nil {
		event.Location = params.Location
		columns = append(columns, "location")
	}
	if params.StartDate != nil {
		event.StartDate = normalizeDate(params.StartDate)
		columns = append(columns, "start_date")
	}
	if params.EndDate != nil {
		event.EndDate = normalizeDate(params.EndDate)
		columns = append(columns, "end_date")
	}
	if params.ImageURL != nil && *params.ImageURL != event.ImageURL {
		event.ImageURL = cachebust.ApplyToURL(*params.ImageURL)
		columns = append(columns, "image_url")
	}
	if params.RegistrationURL != nil {
		event.RegistrationURL = params.RegistrationURL
		columns = append(columns, "registration_url")
	}
	if params.Published != nil && *params.Published != event.Published {
		event.Published = *params.Published
		columns = append(columns, "published")
	}

	if err := checkDateOrder(event.StartDate, event.EndDate); err != nil {
		return err
	}

	if err := h.eventService.UpdateEvent(ctx, event, UpdateEventOptions{Columns: columns}); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, event))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Event")
	}

	if err := h.eventService.DeleteEvent(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) lookup(ctx context.Context, param string) (*models.Event, error) {
	id, err := strconv.Atoi(param)
	if err != nil {
		return nil, errcodes.NotFound("Event")
	}
	return h.eventService.RetrieveEvent(ctx, id)
}

func normalizeDate(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return dates.FormatForDB(s)
}

// checkDateOrder rejects an end before the start. When either side is a bare
// date, only the calendar days are compared.
func checkDateOrder(start, end *string) error {
	if start == nil || end == nil {
		return nil
	}
	s, ok := dates.Parse(*start)
	if !ok {
		return nil
	}
	e, ok := dates.Parse(*end)
	if !ok {
		return nil
	}
	if len(*start) == len(time.DateOnly) || len(*end) == len(time.DateOnly) {
		s = s.Truncate(24 * time.Hour)
		e = e.Truncate(24 * time.Hour)
	}
	if e.Before(s) {
		return errcodes.ValidationError("\"end_date\" can't be before \"start_date\"")
	}
	return nil
}
