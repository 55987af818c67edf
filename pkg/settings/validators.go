package settings

import "github.com/segmentio/encoding/json"

type UpdateSettingsPayload struct {
	Settings map[string]json.RawMessage `json:"settings" validate:"required,min=1"`
}

// SettingsResponse renders stored values as raw JSON so structured settings
// round-trip without double encoding.
type SettingsResponse struct {
	Settings map[string]json.RawMessage `json:"settings"`
}
