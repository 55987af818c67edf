package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all auth routes and returns the middleware that
// other route groups use.
func RegisterRoutes(e *echo.Echo, db *bun.DB, jwtSecret string, secureCookie bool) *Middleware {
	authService := NewService(db, jwtSecret)
	authMiddleware := NewMiddleware(authService)

	h := &handler{
		authService:  authService,
		secureCookie: secureCookie,
	}

	g := e.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/status", h.status)
	g.POST("/setup", h.setup)
	g.GET("/me", h.me, authMiddleware.Authenticate)
	g.POST("/users", h.createUser, authMiddleware.Authenticate, authMiddleware.RequireAdmin)

	return authMiddleware
}
