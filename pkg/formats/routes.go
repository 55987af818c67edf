package formats

import (
	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/auth"
)

func RegisterRoutes(e *echo.Echo, formatService *Service, authMiddleware *auth.Middleware) {
	h := &handler{formatService: formatService}

	g := e.Group("/formats")
	g.GET("", h.list)
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.DELETE("/:value", h.delete, authMiddleware.Authenticate, authMiddleware.RequireEditor)
}
