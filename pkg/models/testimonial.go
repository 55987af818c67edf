package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Testimonial struct {
	bun.BaseModel `bun:"table:testimonials,alias:t" tstype:"-"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AuthorName  string    `bun:",nullzero" json:"author_name"`
	AuthorTitle *string   `json:"author_title"`
	Quote       string    `bun:",nullzero" json:"quote"`
	AvatarURL   string    `bun:",notnull" json:"avatar_url"`
	Rating      *int      `json:"rating"`
	CourseID    *int      `json:"course_id"`
	SortOrder   int       `bun:",notnull" json:"sort_order"`
	Published   bool      `bun:",notnull" json:"published"`
}
