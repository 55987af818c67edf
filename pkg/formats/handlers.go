package formats

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	formatService *Service
}

func (h *handler) list(c echo.Context) error {
	registry := h.formatService.Registry()
	response := map[string]any{
		"formats":     registry.Formats(),
		"initialized": registry.State() == StateInitialized,
	}
	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateFormatPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	format, err := h.formatService.Add(ctx, params.Label)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, format))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.formatService.Remove(ctx, c.Param("value")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
