package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lecternhq/lectern/pkg/auth"
	"github.com/lecternhq/lectern/pkg/binder"
	"github.com/lecternhq/lectern/pkg/blog"
	"github.com/lecternhq/lectern/pkg/config"
	"github.com/lecternhq/lectern/pkg/courses"
	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/events"
	"github.com/lecternhq/lectern/pkg/formats"
	"github.com/lecternhq/lectern/pkg/media"
	"github.com/lecternhq/lectern/pkg/settings"
	"github.com/lecternhq/lectern/pkg/testimonials"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

// Dependencies are the long-lived services shared by the route packages.
type Dependencies struct {
	DB            *bun.DB
	SettingsStore *settings.Store
	FormatService *formats.Service
	MediaStore    *media.Store
}

func New(cfg *config.Config, deps Dependencies) (*http.Server, error) {
	e, err := newEcho(cfg, deps)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, deps Dependencies) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	if cfg.FrontendURL != "" {
		// session cookies need an explicit origin
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{cfg.FrontendURL},
			AllowCredentials: true,
		}))
	} else {
		e.Use(middleware.CORS())
	}

	health.RegisterRoutes(e)

	e.Static(media.URLPrefix, deps.MediaStore.Dir())

	authMiddleware := auth.RegisterRoutes(e, deps.DB, cfg.JWTSecret, cfg.SessionCookieSecure)

	settings.RegisterRoutes(e, deps.SettingsStore, authMiddleware)
	formats.RegisterRoutes(e, deps.FormatService, authMiddleware)
	courses.RegisterRoutes(e, deps.DB, deps.FormatService, deps.MediaStore, authMiddleware)
	blog.RegisterRoutes(e, deps.DB, authMiddleware)
	events.RegisterRoutes(e, deps.DB, authMiddleware)
	testimonials.RegisterRoutes(e, deps.DB, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
