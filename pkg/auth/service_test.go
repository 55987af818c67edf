package auth

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/migrations"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *bun.DB {
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

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(newTestDB(t), "test-secret")
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func TestService_CreateFirstAdminOnlyOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateFirstAdmin(ctx, "admin", nil, "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NotZero(t, user.ID)

	_, err = svc.CreateFirstAdmin(ctx, "second", nil, "password123")
	var e *errcodes.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusForbidden, e.HTTPCode)
}

func TestService_CreateUserDuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "editor", nil, "password123", models.RoleEditor)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "EDITOR", nil, "password123", models.RoleEditor)
	var e *errcodes.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusConflict, e.HTTPCode)
}

func TestService_AuthenticateAndTokens(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "editor", nil, "password123", models.RoleEditor)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "editor", "wrong-password")
	require.Error(t, err)

	user, err := svc.Authenticate(ctx, "Editor", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleEditor, claims.Role)

	other := NewService(svc.db, "another-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, CheckPassword("password123", string(hash)))
	assert.False(t, CheckPassword("password124", string(hash)))
}
