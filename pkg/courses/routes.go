package courses

import (
	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/auth"
	"github.com/lecternhq/lectern/pkg/formats"
	"github.com/lecternhq/lectern/pkg/media"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, formatService *formats.Service, mediaStore *media.Store, authMiddleware *auth.Middleware) {
	h := &handler{
		courseService: NewService(db),
		formatService: formatService,
		mediaStore:    mediaStore,
	}

	g := e.Group("/courses")

	g.GET("", h.list, authMiddleware.AuthenticateOptional)
	g.GET("/:id", h.retrieve, authMiddleware.AuthenticateOptional)

	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.PATCH("/:id", h.update, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.DELETE("/:id", h.delete, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.PATCH("/:id/image", h.updateImage, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.POST("/:id/image", h.uploadImage, authMiddleware.Authenticate, authMiddleware.RequireEditor)
}
