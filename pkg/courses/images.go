package courses

import (
	"github.com/lecternhq/lectern/pkg/cachebust"
	"github.com/lecternhq/lectern/pkg/models"
)

// ImageSettings is the presentation of a course's hero image.
type ImageSettings struct {
	ImageURL         string `json:"image_url"`
	ImageAspectRatio string `json:"image_aspect_ratio"`
	ImageSize        int    `json:"image_size"`
	ImageLayout      string `json:"image_layout"`
}

// ImageSettingsPatch carries only the fields being changed. A nil field is
// absent; a non-nil zero value is an explicit change.
type ImageSettingsPatch struct {
	ImageURL         *string
	ImageAspectRatio *string
	ImageSize        *int
	ImageLayout      *string
}

// ApplyImageSettings merges patch over current. A new image URL that differs
// from the current one gets the process cache-bust token so clients refetch
// it. Missing values fall back to current and then to the defaults. current
// may be nil and is never modified.
func ApplyImageSettings(current *ImageSettings, patch ImageSettingsPatch) ImageSettings {
	cur := ImageSettings{}
	if current != nil {
		cur = *current
	}

	var out ImageSettings

	switch {
	case patch.ImageURL != nil && *patch.ImageURL != cur.ImageURL:
		out.ImageURL = cachebust.ApplyToURL(*patch.ImageURL)
	case patch.ImageURL != nil:
		out.ImageURL = *patch.ImageURL
	default:
		out.ImageURL = cur.ImageURL
	}

	switch {
	case patch.ImageSize != nil:
		out.ImageSize = *patch.ImageSize
	case current != nil:
		out.ImageSize = cur.ImageSize
	default:
		out.ImageSize = models.DefaultImageSize
	}

	out.ImageAspectRatio = firstNonEmpty(patch.ImageAspectRatio, cur.ImageAspectRatio, models.DefaultImageAspectRatio)
	out.ImageLayout = firstNonEmpty(patch.ImageLayout, cur.ImageLayout, models.DefaultImageLayout)

	return out
}

func firstNonEmpty(patch *string, current, fallback string) string {
	if patch != nil && *patch != "" {
		return *patch
	}
	if current != "" {
		return current
	}
	return fallback
}

func imageSettingsOf(course *models.Course) *ImageSettings {
	return &ImageSettings{
		ImageURL:         course.ImageURL,
		ImageAspectRatio: course.ImageAspectRatio,
		ImageSize:        course.ImageSize,
		ImageLayout:      course.ImageLayout,
	}
}

func applyToCourse(course *models.Course, settings ImageSettings) {
	course.ImageURL = settings.ImageURL
	course.ImageAspectRatio = settings.ImageAspectRatio
	course.ImageSize = settings.ImageSize
	course.ImageLayout = settings.ImageLayout
}

var imageColumns = []string{"image_url", "image_aspect_ratio", "image_size", "image_layout"}
