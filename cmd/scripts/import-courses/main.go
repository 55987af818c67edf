package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lecternhq/lectern/pkg/config"
	"github.com/lecternhq/lectern/pkg/courses"
	"github.com/lecternhq/lectern/pkg/database"
	"github.com/lecternhq/lectern/pkg/formats"
	"github.com/lecternhq/lectern/pkg/migrations"
	"github.com/lecternhq/lectern/pkg/settings"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		DryRun       bool `short:"n" long:"dry-run" description:"Validate the catalog without writing anything"`
		SkipExisting bool `short:"s" long:"skip-existing" description:"Skip courses whose slug already exists"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/import-courses [--dry-run] [--skip-existing] <path/to/catalog.yaml>")
		os.Exit(1)
	}

	records, err := courses.LoadCatalog(args[0])
	if err != nil {
		log.Err(err).Fatal("catalog error")
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	settingsService := settings.NewService(db)
	if err := settingsService.EnsureDefaults(ctx); err != nil {
		log.Err(err).Fatal("site settings error")
	}
	store := settings.NewStore(settingsService)
	formatService := formats.NewService(store, log)
	defer formatService.Close()

	if err := store.Load(ctx); err != nil {
		log.Err(err).Fatal("site settings error")
	}
	if !opts.DryRun {
		if err := formatService.PersistPendingDefaults(ctx); err != nil {
			log.Err(err).Fatal("course formats error")
		}
	}

	result, err := courses.NewService(db).Import(ctx, records, courses.ImportOptions{
		KnownFormat:  formatService.Registry().Has,
		SkipExisting: opts.SkipExisting,
		DryRun:       opts.DryRun,
	})
	if err != nil {
		log.Err(err).Fatal("import error")
	}

	log.Info("import finished", logger.Data{
		"created": len(result.Created),
		"skipped": len(result.Skipped),
		"dry_run": opts.DryRun,
	})
	for _, title := range result.Created {
		fmt.Printf("+ %s\n", title)
	}
	for _, title := range result.Skipped {
		fmt.Printf("= %s\n", title)
	}
}
