package testimonials

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/binder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHandler(t *testing.T) (*echo.Echo, *handler) {
	t.Helper()
	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	return e, &handler{testimonialService: NewService(setupTestDB(t))}
}

func jsonContext(e *echo.Echo, method, body string, id int) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/testimonials", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != 0 {
		c.SetParamNames("id")
		c.SetParamValues(strconv.Itoa(id))
	}
	return c, rec
}

func TestHandler_CreateValidatesRating(t *testing.T) {
	e, h := setupTestHandler(t)

	c, _ := jsonContext(e, http.MethodPost, `{"author_name":"Ada","quote":"Great","rating":6}`, 0)
	err := h.create(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"rating"`)

	c, rec := jsonContext(e, http.MethodPost, `{"author_name":"Ada","quote":"Great","rating":5}`, 0)
	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandler_CreateRejectsUnknownCourse(t *testing.T) {
	e, h := setupTestHandler(t)

	c, _ := jsonContext(e, http.MethodPost, `{"author_name":"Ada","quote":"Great","course_id":42}`, 0)
	err := h.create(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"course_id" doesn't match a course`)
}

func TestHandler_ReorderRejectsDuplicates(t *testing.T) {
	e, h := setupTestHandler(t)

	c, _ := jsonContext(e, http.MethodPut, `{"ids":[1,1]}`, 0)
	require.Error(t, h.reorder(c))
}
