package settings

import (
	"context"
	"time"

	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// All returns every stored setting keyed by name.
func (svc *Service) All(ctx context.Context) (map[string]string, error) {
	var rows []*models.SiteSetting
	err := svc.db.NewSelect().
		Model(&rows).
		Order("ss.key ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// Upsert writes the given settings, creating missing keys and overwriting
// existing ones, in a single transaction.
func (svc *Service) Upsert(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*models.SiteSetting, 0, len(values))
	for key, value := range values {
		rows = append(rows, &models.SiteSetting{Key: key, Value: value, UpdatedAt: now})
	}

	_, err := svc.db.NewInsert().
		Model(&rows).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return errors.WithStack(err)
}

// Delete removes a setting. Deleting a missing key is not an error.
func (svc *Service) Delete(ctx context.Context, key string) error {
	_, err := svc.db.NewDelete().
		Model((*models.SiteSetting)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	return errors.WithStack(err)
}

// DefaultSiteTitle seeds the site title on a fresh database.
const DefaultSiteTitle = `"Lectern"`

// EnsureDefaults writes the baseline settings that are missing without
// touching existing values. A fresh install therefore loads a non-empty
// settings object.
func (svc *Service) EnsureDefaults(ctx context.Context) error {
	row := &models.SiteSetting{
		Key:       models.SettingSiteTitle,
		Value:     DefaultSiteTitle,
		UpdatedAt: time.Now(),
	}
	_, err := svc.db.NewInsert().
		Model(row).
		On("CONFLICT (key) DO NOTHING").
		Exec(ctx)
	return errors.WithStack(err)
}
