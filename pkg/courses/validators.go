package courses

import "mime/multipart"

type ListCoursesQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Format *string `query:"format" json:"format,omitempty" validate:"omitempty,max=64" tstype:"string"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100" tstype:"string"`
}

type CreateCoursePayload struct {
	Title            string  `json:"title" mod:"trim" validate:"required,max=200"`
	Slug             string  `json:"slug,omitempty" mod:"trim" validate:"slug,max=200"`
	Summary          *string `json:"summary,omitempty" validate:"omitempty,max=500"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=20000"`
	Format           string  `json:"format" mod:"trim" validate:"required,max=64"`
	PriceCents       *int    `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	StartDate        *string `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate          *string `json:"end_date,omitempty" validate:"omitempty,date"`
	LearningOutcomes any     `json:"learning_outcomes,omitempty" tstype:"string | string[]"`
	ImageURL         *string `json:"image_url,omitempty" validate:"omitempty,url"`
	ImageAspectRatio *string `json:"image_aspect_ratio,omitempty" validate:"omitempty,aspectratio"`
	ImageSize        *int    `json:"image_size,omitempty" validate:"omitempty,min=0,max=100"`
	ImageLayout      *string `json:"image_layout,omitempty" validate:"omitempty,oneof=standard wide full"`
	Published        bool    `json:"published,omitempty"`
}

// UpdateCoursePayload changes only the fields that are present. An empty
// start_date or end_date clears it.
type UpdateCoursePayload struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,ne=,max=200"`
	Slug             *string `json:"slug,omitempty" validate:"omitempty,ne=,slug,max=200"`
	Summary          *string `json:"summary,omitempty" validate:"omitempty,max=500"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=20000"`
	Format           *string `json:"format,omitempty" validate:"omitempty,ne=,max=64"`
	PriceCents       *int    `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	StartDate        *string `json:"start_date,omitempty" validate:"omitempty,date"`
	EndDate          *string `json:"end_date,omitempty" validate:"omitempty,date"`
	LearningOutcomes any     `json:"learning_outcomes,omitempty" tstype:"string | string[]"`
	Published        *bool   `json:"published,omitempty"`
}

type UpdateImagePayload struct {
	ImageURL         *string `json:"image_url,omitempty" validate:"omitempty,url"`
	ImageAspectRatio *string `json:"image_aspect_ratio,omitempty" validate:"omitempty,aspectratio"`
	ImageSize        *int    `json:"image_size,omitempty" validate:"omitempty,min=0,max=100"`
	ImageLayout      *string `json:"image_layout,omitempty" validate:"omitempty,oneof=standard wide full"`
}

func (p UpdateImagePayload) patch() ImageSettingsPatch {
	return ImageSettingsPatch{
		ImageURL:         p.ImageURL,
		ImageAspectRatio: p.ImageAspectRatio,
		ImageSize:        p.ImageSize,
		ImageLayout:      p.ImageLayout,
	}
}

// UploadImagePayload is the multipart body of an image upload. Layout and size
// may ride along with the file.
type UploadImagePayload struct {
	ImageSize   *int                  `form:"image_size" json:"image_size,omitempty" validate:"omitempty,min=0,max=100"`
	ImageLayout *string               `form:"image_layout" json:"image_layout,omitempty" validate:"omitempty,oneof=standard wide full"`
	File        *multipart.FileHeader `form:"-" json:"file" validate:"required"`
}

func (p *UploadImagePayload) ReceiveFile(field string, fh *multipart.FileHeader) {
	if field == "file" {
		p.File = fh
	}
}
