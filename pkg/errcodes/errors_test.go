package errcodes

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsAndAs(t *testing.T) {
	t.Parallel()

	err := errors.WithStack(Conflict("Format already exists."))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusConflict, e.HTTPCode)
	assert.Equal(t, "conflict", e.Code)
	assert.True(t, errors.Is(err, Conflict("Format already exists.")))
	assert.False(t, errors.Is(err, NotFound("Format")))
}
