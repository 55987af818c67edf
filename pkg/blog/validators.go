package blog

type ListPostsQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"10" validate:"min=1,max=50"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Author *string `query:"author" json:"author,omitempty" validate:"omitempty,max=100" tstype:"string"`
}

type CreatePostPayload struct {
	Title         string  `json:"title" mod:"trim" validate:"required,max=200"`
	Slug          string  `json:"slug,omitempty" mod:"trim" validate:"slug,max=200"`
	Author        *string `json:"author,omitempty" validate:"omitempty,max=100"`
	Excerpt       string  `json:"excerpt,omitempty" mod:"trim" validate:"max=500"`
	Content       string  `json:"content" validate:"required,max=200000"`
	CoverImageURL string  `json:"cover_image_url,omitempty" mod:"trim" validate:"url"`
	PublishedAt   *string `json:"published_at,omitempty" validate:"omitempty,date"`
	Published     bool    `json:"published,omitempty"`
}

type UpdatePostPayload struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,ne=,max=200"`
	Slug          *string `json:"slug,omitempty" validate:"omitempty,ne=,slug,max=200"`
	Author        *string `json:"author,omitempty" validate:"omitempty,max=100"`
	Excerpt       *string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Content       *string `json:"content,omitempty" validate:"omitempty,ne=,max=200000"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	PublishedAt   *string `json:"published_at,omitempty" validate:"omitempty,date"`
	Published     *bool   `json:"published,omitempty"`
}
