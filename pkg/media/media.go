package media

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"

	// decoders for image.Decode
	_ "image/gif"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/lecternhq/lectern/pkg/cachebust"
	"github.com/lecternhq/lectern/pkg/config"
	"github.com/lecternhq/lectern/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// URLPrefix is where the server mounts the media directory.
const URLPrefix = "/media"

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Upload describes a stored image.
type Upload struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	MimeType     string `json:"mime_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AspectRatio  string `json:"aspect_ratio"`
}

// Store writes uploaded images to a directory served under URLPrefix.
type Store struct {
	dir            string
	maxBytes       int64
	maxPixels      int64
	thumbnailWidth int
}

func NewStore(cfg *config.Config) *Store {
	return &Store{
		dir:            cfg.MediaDir,
		maxBytes:       cfg.MediaMaxUploadBytes,
		maxPixels:      cfg.MediaMaxImagePixels,
		thumbnailWidth: cfg.MediaThumbnailWidth,
	}
}

// Dir returns the directory uploads are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Init creates the media directory and verifies it's writable.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create media directory: %s", s.dir)
	}

	testFile := filepath.Join(s.dir, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return errors.Wrapf(err, "media directory is not writable: %s", s.dir)
	}
	f.Close()

	return errors.WithStack(os.Remove(testFile))
}

// Save sniffs, decodes and stores an image along with a JPEG thumbnail.
func (s *Store) Save(ctx context.Context, r io.Reader) (*Upload, error) {
	log := logger.FromContext(ctx)

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, errcodes.ValidationError("Image must be at most " + strconv.FormatInt(s.maxBytes, 10) + " bytes.")
	}

	mtype := mimetype.Detect(data)
	if _, ok := allowedTypes[mtype.String()]; !ok {
		return nil, errcodes.UnsupportedImageType(mtype.String())
	}

	// Headers are checked before decoding, since a tiny file can declare a
	// canvas large enough to exhaust memory.
	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Warn("image header decode failed", logger.Data{"mime_type": mtype.String(), "error": err.Error()})
		return nil, errcodes.ValidationError("Image could not be decoded.")
	}
	if imgCfg.Width <= 0 || imgCfg.Height <= 0 || int64(imgCfg.Width)*int64(imgCfg.Height) > s.maxPixels {
		return nil, errcodes.ValidationError("Image must be at most " + strconv.FormatInt(s.maxPixels, 10) + " pixels.")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn("image decode failed", logger.Data{"mime_type": mtype.String(), "error": err.Error()})
		return nil, errcodes.ValidationError("Image could not be decoded.")
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	name := id.String() + mtype.Extension()
	thumbName := id.String() + "_thumb.jpg"

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil { //nolint:gosec
		return nil, errors.WithStack(err)
	}

	thumb := Thumbnail(img, s.thumbnailWidth)
	if err := writeJPEG(filepath.Join(s.dir, thumbName), thumb); err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return nil, err
	}

	bounds := img.Bounds()
	upload := &Upload{
		URL:          cachebust.ApplyToURL(path.Join(URLPrefix, name)),
		ThumbnailURL: cachebust.ApplyToURL(path.Join(URLPrefix, thumbName)),
		MimeType:     mtype.String(),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		AspectRatio:  AspectRatio(bounds.Dx(), bounds.Dy()),
	}
	log.Info("stored image", logger.Data{"name": name, "width": upload.Width, "height": upload.Height})
	return upload, nil
}

func writeJPEG(dst string, img image.Image) error {
	f, err := os.Create(dst)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 80}); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}

// Thumbnail scales img down to width, keeping its aspect ratio. Images that
// are already narrower are returned unchanged.
func Thumbnail(img image.Image, width int) image.Image {
	srcBounds := img.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if width <= 0 || srcW <= width {
		return img
	}

	height := srcH * width / srcW
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, srcBounds, draw.Over, nil)
	return dst
}

// AspectRatio reduces width and height to their simplest "w/h" form.
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	d := gcd(width, height)
	return strconv.Itoa(width/d) + "/" + strconv.Itoa(height/d)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
