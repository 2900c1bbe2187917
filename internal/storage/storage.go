// Package storage persists uploaded photos and builds their public URLs.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PhotoStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// NewKey returns a unique object key of the form photos/<user>/<yyyy>/<mm>/<uuid><ext>.
func NewKey(userID uuid.UUID, ext string, now time.Time) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(
		"photos",
		userID.String(),
		fmt.Sprintf("%04d", now.UTC().Year()),
		fmt.Sprintf("%02d", int(now.UTC().Month())),
		uuid.NewString()+ext,
	)
}

func validKey(key string) error {
	clean := path.Clean("/" + key)
	if key == "" || strings.HasSuffix(key, "/") || clean != "/"+key {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
