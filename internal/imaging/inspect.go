// Package imaging validates uploaded photo bytes before they reach the
// classifier or the photo store.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
	"xplore/pkg/utils"
)

const MaxImageBytes = 10 << 20

var supported = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Info struct {
	MIME      string
	Extension string
	Width     int
	Height    int
	Size      int
}

// Inspect sniffs the real content type and decodes the image header. The
// declared type of the upload is never trusted on its own.
func Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("%w: empty image", utils.ErrInvalidImage)
	}
	if len(data) > MaxImageBytes {
		return Info{}, utils.ErrImageTooLarge
	}

	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	ext, ok := supported[mime]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", utils.ErrUnsupportedImage, mime)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", utils.ErrInvalidImage, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return Info{}, fmt.Errorf("%w: zero dimension", utils.ErrInvalidImage)
	}

	return Info{
		MIME:      mime,
		Extension: ext,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Size:      len(data),
	}, nil
}

// IsImageContentType reports whether a declared content type is image/*.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
