package binder

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json and application/x-www-form-urlencoded", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

type imageParams struct {
	AspectRatio string `json:"aspect_ratio" validate:"aspectratio"`
	URL         string `json:"url" validate:"url"`
	StartDate   string `json:"start_date" validate:"date"`
	Slug        string `json:"slug" validate:"slug"`
}

func TestBind_CustomValidators(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	cases := []struct {
		name    string
		payload string
		errMsg  string
	}{
		{"valid values", `{"aspect_ratio":"4/3","url":"/media/a.jpg","start_date":"2026-04-01T09:00:00.000Z"}`, ""},
		{"empty values", `{"aspect_ratio":"","url":"","start_date":""}`, ""},
		{"bad ratio", `{"aspect_ratio":"16:9"}`, `"aspect_ratio" should be a ratio like 16/9`},
		{"zero ratio", `{"aspect_ratio":"0/9"}`, `"aspect_ratio" should be a ratio like 16/9`},
		{"protocol relative url", `{"url":"//evil.example.com/a.jpg"}`, `"url" should be an http(s) URL`},
		{"ftp url", `{"url":"ftp://example.com/a.jpg"}`, `"url" should be an http(s) URL`},
		{"bad date", `{"start_date":"tomorrow"}`, `"start_date" should be a date`},
		{"valid slug", `{"slug":"intro-to-go-2"}`, ""},
		{"bad slug", `{"slug":"Intro To Go"}`, `"slug" should only contain lowercase letters`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(tt.payload, echo.MIMEApplicationJSON)
			p := imageParams{}
			err := b.Bind(&p, c)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

type uploadParams struct {
	Caption string                `form:"caption" json:"caption" mod:"trim" validate:"max=20"`
	File    *multipart.FileHeader `form:"-" json:"file" validate:"required"`
}

func (p *uploadParams) ReceiveFile(field string, fh *multipart.FileHeader) {
	if field == "file" {
		p.File = fh
	}
}

func newMultipartContext(t *testing.T, fields map[string]string, file string) echo.Context {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != "" {
		fw, err := mw.CreateFormFile(file, "upload.bin")
		require.NoError(t, err)
		_, err = fw.Write([]byte("payload"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBind_Multipart(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("hands files to the payload", func(tt *testing.T) {
		c := newMultipartContext(tt, map[string]string{"caption": " hero "}, "file")
		p := uploadParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "hero", p.Caption)
		require.NotNil(tt, p.File)
		assert.Equal(tt, "upload.bin", p.File.Filename)
	})

	t.Run("validates a missing file", func(tt *testing.T) {
		c := newMultipartContext(tt, map[string]string{"caption": "hero"}, "")
		p := uploadParams{}
		err := b.Bind(&p, c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"file" is required`)
	})

	t.Run("ignores files under other names", func(tt *testing.T) {
		c := newMultipartContext(tt, nil, "attachment")
		p := uploadParams{}
		err := b.Bind(&p, c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"file" is required`)
	})

	t.Run("rejects unknown text fields", func(tt *testing.T) {
		c := newMultipartContext(tt, map[string]string{"title": "x"}, "file")
		p := uploadParams{}
		err := b.Bind(&p, c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `Unknown Parameter "title"`)
	})
}

func TestBind_EmptyBody(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	p := params{}
	err = b.Bind(&p, c)
	require.Error(t, err)

	c = echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	c.Set(DisallowEmptyBodyKey, false)
	assert.NoError(t, b.Bind(&p, c))
}
