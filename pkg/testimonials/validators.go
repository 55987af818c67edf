package testimonials

type ListTestimonialsQuery struct {
	CourseID *int `query:"course_id" json:"course_id,omitempty" validate:"omitempty,min=1" tstype:"number"`
}

type CreateTestimonialPayload struct {
	AuthorName  string  `json:"author_name" mod:"trim" validate:"required,max=100"`
	AuthorTitle *string `json:"author_title,omitempty" validate:"omitempty,max=150"`
	Quote       string  `json:"quote" mod:"trim" validate:"required,max=2000"`
	AvatarURL   string  `json:"avatar_url,omitempty" mod:"trim" validate:"url"`
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	CourseID    *int    `json:"course_id,omitempty" validate:"omitempty,min=1"`
	SortOrder   int     `json:"sort_order,omitempty" validate:"min=0"`
	Published   bool    `json:"published,omitempty"`
}

type UpdateTestimonialPayload struct {
	AuthorName  *string `json:"author_name,omitempty" validate:"omitempty,ne=,max=100"`
	AuthorTitle *string `json:"author_title,omitempty" validate:"omitempty,max=150"`
	Quote       *string `json:"quote,omitempty" validate:"omitempty,ne=,max=2000"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	// CourseID 0 detaches the testimonial from its course.
	CourseID    *int    `json:"course_id,omitempty" validate:"omitempty,min=0"`
	SortOrder   *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	Published   *bool   `json:"published,omitempty"`
}

type ReorderTestimonialsPayload struct {
	IDs []int `json:"ids" validate:"required,min=1,max=500,unique,dive,min=1"`
}
