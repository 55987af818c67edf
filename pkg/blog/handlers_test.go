package blog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/binder"
	"github.com/lecternhq/lectern/pkg/cachebust"
	"github.com/lecternhq/lectern/pkg/dates"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHandler(t *testing.T) (*echo.Echo, *handler) {
	t.Helper()
	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	return e, &handler{postService: NewService(setupTestDB(t))}
}

func jsonContext(e *echo.Echo, method, body string, id int) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/blog", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != 0 {
		c.SetParamNames("id")
		c.SetParamValues(strconv.Itoa(id))
	}
	return c, rec
}

func TestHandler_CreateGeneratesExcerptAndPublishedAt(t *testing.T) {
	e, h := setupTestHandler(t)

	body := `{
		"title": "Spring term",
		"content": "<h1>Spring</h1><p>Enrolment is <strong>open</strong> &amp; filling fast.</p>",
		"cover_image_url": "https://cdn.example.com/spring.jpg?w=800",
		"published": true
	}`
	c, rec := jsonContext(e, http.MethodPost, body, 0)
	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var post models.BlogPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "spring-term", post.Slug)
	assert.Equal(t, "Spring Enrolment is open & filling fast.", post.Excerpt)
	assert.Equal(t, "https://cdn.example.com/spring.jpg?v="+cachebust.Global(), post.CoverImageURL)
	require.NotNil(t, post.PublishedAt)
	_, ok := dates.Parse(*post.PublishedAt)
	assert.True(t, ok)
}

func TestHandler_CreateDraftHasNoPublishedAt(t *testing.T) {
	e, h := setupTestHandler(t)

	c, rec := jsonContext(e, http.MethodPost, `{"title":"Draft","content":"<p>soon</p>","excerpt":"Custom"}`, 0)
	require.NoError(t, h.create(c))

	var post models.BlogPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, "Custom", post.Excerpt)
}

func TestHandler_UpdatePublishes(t *testing.T) {
	e, h := setupTestHandler(t)

	c, rec := jsonContext(e, http.MethodPost, `{"title":"Draft","content":"<p>soon</p>"}`, 0)
	require.NoError(t, h.create(c))
	var created models.BlogPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	c, rec = jsonContext(e, http.MethodPatch, `{"published":true,"content":"<p>now live</p>"}`, created.ID)
	require.NoError(t, h.update(c))

	var updated models.BlogPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Published)
	assert.NotNil(t, updated.PublishedAt)
	assert.Equal(t, "now live", updated.Excerpt)
}

func TestHandler_RetrieveBySlugHidesDrafts(t *testing.T) {
	e, h := setupTestHandler(t)

	c, _ := jsonContext(e, http.MethodPost, `{"title":"Hidden","content":"<p>x</p>"}`, 0)
	require.NoError(t, h.create(c))

	req := httptest.NewRequest(http.MethodGet, "/blog/hidden", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("hidden")
	require.Error(t, h.retrieve(c))

	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("hidden")
	c.Set("user", &models.User{Role: models.RoleEditor, IsActive: true})
	require.NoError(t, h.retrieve(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
