package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/lecternhq/lectern/pkg/models"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// managedKeys are owned by other endpoints and can't be written here.
var managedKeys = map[string]string{
	models.SettingCourseFormats: "/formats",
}

type handler struct {
	store *Store
}

func (h *handler) retrieve(c echo.Context) error {
	snap := h.store.Snapshot()
	return errors.WithStack(c.JSON(http.StatusOK, toResponse(snap.Settings)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateSettingsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	values := make(map[string]string, len(params.Settings))
	for key, raw := range params.Settings {
		if key == "" || len(key) > 64 {
			return errcodes.ValidationError("setting keys must be between 1 and 64 characters")
		}
		if endpoint, ok := managedKeys[key]; ok {
			return errcodes.ValidationError("\"" + key + "\" is managed through " + endpoint)
		}
		if !json.Valid(raw) {
			return errcodes.ValidationTypeError("\"" + key + "\" must be valid JSON")
		}
		values[key] = string(raw)
	}

	if err := h.store.Update(ctx, values); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, toResponse(h.store.Snapshot().Settings)))
}

func toResponse(values map[string]string) SettingsResponse {
	out := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		if json.Valid([]byte(v)) {
			out[k] = json.RawMessage(v)
			continue
		}
		// Values written outside the API may be bare strings.
		encoded, _ := json.Marshal(v)
		out[k] = encoded
	}
	return SettingsResponse{Settings: out}
}
