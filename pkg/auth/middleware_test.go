package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestMiddleware_Authenticate(t *testing.T) {
	svc := newTestService(t)
	m := NewMiddleware(svc)
	e := echo.New()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "editor", nil, "password123", models.RoleEditor)
	require.NoError(t, err)
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		err := m.Authenticate(okHandler)(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Authentication required")
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-jwt"})
		c := e.NewContext(req, httptest.NewRecorder())
		err := m.Authenticate(okHandler)(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid or expired token")
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, m.Authenticate(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		userID, ok := GetUserIDFromContext(c)
		assert.True(t, ok)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("deactivated user", func(t *testing.T) {
		_, err := svc.db.NewUpdate().Model((*models.User)(nil)).Set("is_active = ?", false).Where("id = ?", user.ID).Exec(ctx)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		c := e.NewContext(req, httptest.NewRecorder())
		err = m.Authenticate(okHandler)(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inactive")
	})
}

func TestMiddleware_Roles(t *testing.T) {
	m := NewMiddleware(nil)
	e := echo.New()

	run := func(mw echo.MiddlewareFunc, user *models.User) error {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if user != nil {
			c.Set("user", user)
		}
		return mw(okHandler)(c)
	}

	admin := &models.User{Role: models.RoleAdmin}
	editor := &models.User{Role: models.RoleEditor}
	viewer := &models.User{Role: "viewer"}

	assert.NoError(t, run(m.RequireAdmin, admin))
	assert.Error(t, run(m.RequireAdmin, editor))
	assert.Error(t, run(m.RequireAdmin, nil))

	assert.NoError(t, run(m.RequireEditor, admin))
	assert.NoError(t, run(m.RequireEditor, editor))
	assert.Error(t, run(m.RequireEditor, viewer))
}

func TestMiddleware_AuthenticateOptional(t *testing.T) {
	svc := newTestService(t)
	m := NewMiddleware(svc)
	e := echo.New()

	user, err := svc.CreateUser(context.Background(), "writer", nil, "password123", models.RoleEditor)
	require.NoError(t, err)
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	require.NoError(t, m.AuthenticateOptional(okHandler)(c))
	assert.False(t, CanEditFromContext(c))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-jwt"})
	c = e.NewContext(req, httptest.NewRecorder())
	require.NoError(t, m.AuthenticateOptional(okHandler)(c))
	assert.False(t, CanEditFromContext(c))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	c = e.NewContext(req, httptest.NewRecorder())
	require.NoError(t, m.AuthenticateOptional(okHandler)(c))
	assert.True(t, CanEditFromContext(c))
}
