package courses

import (
	"testing"

	"github.com/lecternhq/lectern/pkg/cachebust"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestApplyImageSettings_Defaults(t *testing.T) {
	t.Parallel()

	got := ApplyImageSettings(nil, ImageSettingsPatch{})
	assert.Equal(t, ImageSettings{
		ImageURL:         "",
		ImageAspectRatio: "16/9",
		ImageSize:        100,
		ImageLayout:      "standard",
	}, got)
}

func TestApplyImageSettings_SizeUsesPresence(t *testing.T) {
	t.Parallel()

	current := &ImageSettings{ImageSize: 60}

	assert.Equal(t, 0, ApplyImageSettings(current, ImageSettingsPatch{ImageSize: intPtr(0)}).ImageSize)
	assert.Equal(t, 60, ApplyImageSettings(current, ImageSettingsPatch{}).ImageSize)
	assert.Equal(t, 80, ApplyImageSettings(current, ImageSettingsPatch{ImageSize: intPtr(80)}).ImageSize)
	assert.Equal(t, 0, ApplyImageSettings(&ImageSettings{ImageSize: 0}, ImageSettingsPatch{}).ImageSize)
	assert.Equal(t, 100, ApplyImageSettings(nil, ImageSettingsPatch{}).ImageSize)
}

func TestApplyImageSettings_CacheBustsChangedURL(t *testing.T) {
	t.Parallel()

	current := &ImageSettings{ImageURL: "/media/old.jpg"}
	got := ApplyImageSettings(current, ImageSettingsPatch{ImageURL: strPtr("/media/new.jpg?v=1")})
	assert.Equal(t, "/media/new.jpg?v="+cachebust.Global(), got.ImageURL)
}

func TestApplyImageSettings_KeepsUnchangedURL(t *testing.T) {
	t.Parallel()

	current := &ImageSettings{ImageURL: "/media/same.jpg?v=123"}

	got := ApplyImageSettings(current, ImageSettingsPatch{ImageURL: strPtr("/media/same.jpg?v=123")})
	assert.Equal(t, "/media/same.jpg?v=123", got.ImageURL)

	got = ApplyImageSettings(current, ImageSettingsPatch{})
	assert.Equal(t, "/media/same.jpg?v=123", got.ImageURL)
}

func TestApplyImageSettings_ClearingURL(t *testing.T) {
	t.Parallel()

	current := &ImageSettings{ImageURL: "/media/old.jpg"}
	got := ApplyImageSettings(current, ImageSettingsPatch{ImageURL: strPtr("")})
	assert.Equal(t, "", got.ImageURL)
}

func TestApplyImageSettings_FallsBackLeftToRight(t *testing.T) {
	t.Parallel()

	current := &ImageSettings{ImageAspectRatio: "4/3", ImageLayout: "wide"}

	got := ApplyImageSettings(current, ImageSettingsPatch{ImageLayout: strPtr("full")})
	assert.Equal(t, "4/3", got.ImageAspectRatio)
	assert.Equal(t, "full", got.ImageLayout)

	got = ApplyImageSettings(&ImageSettings{}, ImageSettingsPatch{})
	assert.Equal(t, "16/9", got.ImageAspectRatio)
	assert.Equal(t, "standard", got.ImageLayout)
}

func TestApplyImageSettings_DoesNotMutateCurrent(t *testing.T) {
	t.Parallel()

	current := &ImageSettings{ImageURL: "/media/a.jpg", ImageAspectRatio: "1/1", ImageSize: 40, ImageLayout: "wide"}
	before := *current

	ApplyImageSettings(current, ImageSettingsPatch{
		ImageURL:         strPtr("/media/b.jpg"),
		ImageAspectRatio: strPtr("3/2"),
		ImageSize:        intPtr(90),
		ImageLayout:      strPtr("full"),
	})
	assert.Equal(t, before, *current)
}
