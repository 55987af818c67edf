package settings

import (
	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/auth"
)

func RegisterRoutes(e *echo.Echo, store *Store, authMiddleware *auth.Middleware) {
	h := &handler{store: store}

	g := e.Group("/settings")
	g.Use(authMiddleware.Authenticate)
	g.Use(authMiddleware.RequireAdmin)

	g.GET("", h.retrieve)
	g.PUT("", h.update)
}
