package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/binder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHandler(t *testing.T) (*handler, *echo.Echo) {
	t.Helper()
	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	return &handler{authService: newTestService(t)}, e
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestHandler_SetupThenLogin(t *testing.T) {
	h, e := setupTestHandler(t)

	rec := httptest.NewRecorder()
	require.NoError(t, h.status(e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/status", nil), rec)))
	assert.JSONEq(t, `{"needs_setup":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	err := h.setup(e.NewContext(jsonRequest(http.MethodPost, "/auth/setup", `{"username":"admin","password":"password123"}`), rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, CookieName, rec.Result().Cookies()[0].Name)

	var me MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.True(t, me.IsAdmin)
	assert.True(t, me.CanEdit)

	rec = httptest.NewRecorder()
	err = h.login(e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"username":"admin","password":"password123"}`), rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	err = h.login(e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"username":"admin","password":"not-the-password"}`), rec))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid username or password")
}

func TestHandler_CreateUserDefaultsToEditor(t *testing.T) {
	h, e := setupTestHandler(t)

	rec := httptest.NewRecorder()
	err := h.createUser(e.NewContext(jsonRequest(http.MethodPost, "/auth/users", `{"username":"writer","password":"password123"}`), rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var me MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "editor", me.Role)
	assert.False(t, me.IsAdmin)
}

func TestHandler_Logout(t *testing.T) {
	h, e := setupTestHandler(t)

	rec := httptest.NewRecorder()
	require.NoError(t, h.logout(e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)))
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}
