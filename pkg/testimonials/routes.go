package testimonials

import (
	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/auth"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{testimonialService: NewService(db)}

	g := e.Group("/testimonials")

	g.GET("", h.list, authMiddleware.AuthenticateOptional)
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.PUT("/order", h.reorder, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.PATCH("/:id", h.update, authMiddleware.Authenticate, authMiddleware.RequireEditor)
	g.DELETE("/:id", h.delete, authMiddleware.Authenticate, authMiddleware.RequireEditor)
}
