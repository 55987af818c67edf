package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BlogPost struct {
	bun.BaseModel `bun:"table:blog_posts,alias:bp" tstype:"-"`

	ID            int       `bun:",pk,nullzero" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Title         string    `bun:",nullzero" json:"title"`
	Slug          string    `bun:",nullzero" json:"slug"`
	Author        *string   `json:"author"`
	Excerpt       string    `bun:",notnull" json:"excerpt"`
	Content       string    `bun:",notnull" json:"content"`
	CoverImageURL string    `bun:",notnull" json:"cover_image_url"`
	PublishedAt   *string   `json:"published_at"`
	Published     bool      `bun:",notnull" json:"published"`
}
