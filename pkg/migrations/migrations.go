package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations collects every schema change registered by the files in this
// package.
var Migrations = migrate.NewMigrations()

// NewMigrator returns a migrator bound to db whose bookkeeping tables already
// exist.
func NewMigrator(ctx context.Context, db *bun.DB) (*migrate.Migrator, error) {
	m := migrate.NewMigrator(db, Migrations)
	if err := m.Init(ctx); err != nil {
		return nil, errors.Wrap(err, "init migration tables")
	}
	return m, nil
}

// BringUpToDate applies every pending migration as one group. The returned
// group has a zero ID when nothing was pending.
func BringUpToDate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	m, err := NewMigrator(ctx, db)
	if err != nil {
		return nil, err
	}
	group, err := m.Migrate(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "apply migrations")
	}
	return group, nil
}

// Pending lists the names of registered migrations that have not been applied.
func Pending(ctx context.Context, db *bun.DB) ([]string, error) {
	m, err := NewMigrator(ctx, db)
	if err != nil {
		return nil, err
	}
	ms, err := m.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	names := []string{}
	for _, mig := range ms.Unapplied() {
		names = append(names, mig.Name)
	}
	return names, nil
}
