package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lecternhq/lectern/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestService_UpsertAndAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	err := svc.Upsert(ctx, map[string]string{"site_title": `"Lectern"`, "contact_email": `"hi@example.com"`})
	require.NoError(t, err)

	err = svc.Upsert(ctx, map[string]string{"site_title": `"Lectern Academy"`})
	require.NoError(t, err)

	values, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"site_title":    `"Lectern Academy"`,
		"contact_email": `"hi@example.com"`,
	}, values)

	require.NoError(t, svc.Delete(ctx, "contact_email"))
	values, err = svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, values, 1)
}

func TestService_EnsureDefaults(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	require.NoError(t, svc.EnsureDefaults(ctx))
	values, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"site_title": DefaultSiteTitle}, values)

	require.NoError(t, svc.Upsert(ctx, map[string]string{"site_title": `"Custom"`}))
	require.NoError(t, svc.EnsureDefaults(ctx))
	values, err = svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, `"Custom"`, values["site_title"])
}

func TestStore_SubscribeSeesLoadingThenLoaded(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)
	require.NoError(t, svc.Upsert(ctx, map[string]string{"site_title": `"Lectern"`}))

	store := NewStore(svc)

	var seen []Snapshot
	unsubscribe := store.Subscribe(func(s Snapshot) {
		seen = append(seen, s)
	})

	require.NoError(t, store.Load(ctx))

	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsLoading)
	assert.Empty(t, seen[0].Settings)
	assert.False(t, seen[1].IsLoading)
	assert.Equal(t, `"Lectern"`, seen[1].Settings["site_title"])

	require.NoError(t, store.Update(ctx, map[string]string{"contact_email": `"a@b.c"`}))
	require.Len(t, seen, 3)
	assert.Len(t, seen[2].Settings, 2)

	unsubscribe()
	require.NoError(t, store.Update(ctx, map[string]string{"site_title": `"Other"`}))
	assert.Len(t, seen, 3)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(NewService(db))
	require.NoError(t, store.Load(context.Background()))

	snap := store.Snapshot()
	snap.Settings["site_title"] = "mutated"

	assert.Empty(t, store.Snapshot().Settings)
}
