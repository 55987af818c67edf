package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	//tygo:emit export type ImageLayout = typeof ImageLayoutStandard | typeof ImageLayoutWide | typeof ImageLayoutFull;
	ImageLayoutStandard = "standard"
	ImageLayoutWide     = "wide"
	ImageLayoutFull     = "full"
)

const (
	DefaultImageAspectRatio = "16/9"
	DefaultImageSize        = 100
	DefaultImageLayout      = ImageLayoutStandard
)

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c" tstype:"-"`

	ID               int       `bun:",pk,nullzero" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Title            string    `bun:",nullzero" json:"title"`
	Slug             string    `bun:",nullzero" json:"slug"`
	Summary          *string   `json:"summary"`
	Description      *string   `json:"description"`
	Format           string    `bun:",nullzero" json:"format"`
	PriceCents       *int      `json:"price_cents"`
	StartDate        *string   `json:"start_date"`
	EndDate          *string   `json:"end_date"`
	LearningOutcomes []string  `bun:",notnull" json:"learning_outcomes"`
	ImageURL         string    `bun:",notnull" json:"image_url"`
	ImageAspectRatio string    `bun:",notnull" json:"image_aspect_ratio"`
	ImageSize        int       `bun:",notnull" json:"image_size"`
	ImageLayout      string    `bun:",notnull" json:"image_layout" tstype:"ImageLayout"`
	Published        bool      `bun:",notnull" json:"published"`
}
