package main

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/lecternhq/lectern/pkg/config"
	"github.com/lecternhq/lectern/pkg/database"
	"github.com/lecternhq/lectern/pkg/formats"
	"github.com/lecternhq/lectern/pkg/media"
	"github.com/lecternhq/lectern/pkg/migrations"
	"github.com/lecternhq/lectern/pkg/server"
	"github.com/lecternhq/lectern/pkg/settings"
	"github.com/lecternhq/lectern/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := logger.New()

	log.Info("starting lectern", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	mediaStore := media.NewStore(cfg)
	if err := mediaStore.Init(); err != nil {
		log.Err(err).Fatal("media directory error")
	}
	log.Info("media directory initialized", logger.Data{"path": mediaStore.Dir()})

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	settingsService := settings.NewService(db)
	if err := settingsService.EnsureDefaults(ctx); err != nil {
		log.Err(err).Fatal("site settings error")
	}

	// The format service subscribes before the first load so it sees it.
	settingsStore := settings.NewStore(settingsService)
	formatService := formats.NewService(settingsStore, log)
	go formatService.Run(ctx)

	go func() {
		if err := settingsStore.Load(ctx); err != nil {
			log.Err(err).Error("failed to load site settings")
			return
		}
		log.Info("site settings loaded", logger.Data{"course_formats": formatService.Registry().State().String()})
	}()

	srv, err := server.New(cfg, server.Dependencies{
		DB:            db,
		SettingsStore: settingsStore,
		FormatService: formatService,
		MediaStore:    mediaStore,
	})
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		log.Info("server started", logger.Data{"addr": listener.Addr().String()})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(context.Background())
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	cancel()
	formatService.Close()
	log.Info("format service stopped")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
