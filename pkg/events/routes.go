package events

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/auth"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		eventService: NewService(db),
		now:          time.Now,
	}

	g := e.Group("/events")

	g.GET("", h.list, authMiddleware.AuthenticateOptional)
	g.GET("/:id", h.retrieve, authMiddleware.AuthenticateOptional)
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.PATCH("/:id", h.update, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.DELETE("/:id", h.delete, authMiddleware.Authenticate, authMiddleware.RequireEditor)
}
