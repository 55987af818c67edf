package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Well-known site setting keys.
const (
	SettingCourseFormats = "course_formats"
	SettingSiteTitle     = "site_title"
	SettingContactEmail  = "contact_email"
)

// SiteSetting is a single key/value pair. Values are stored as JSON text so
// that structured settings (like the course format list) share the table with
// plain strings.
type SiteSetting struct {
	bun.BaseModel `bun:"table:site_settings,alias:ss" tstype:"-"`

	Key       string    `bun:",pk" json:"key"`
	Value     string    `bun:",notnull" json:"value"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
