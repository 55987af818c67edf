package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e" tstype:"-"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `bun:",nullzero" json:"title"`
	Description     *string   `json:"description"`
	Location        *string   `json:"location"`
	StartDate       *string   `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	ImageURL        string    `bun:",notnull" json:"image_url"`
	RegistrationURL *string   `json:"registration_url"`
	Published       bool      `bun:",notnull" json:"published"`
}
