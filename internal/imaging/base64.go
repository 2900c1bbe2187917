package imaging

import (
	"encoding/base64"
	"fmt"
	"strings"

	"xplore/pkg/utils"
)

// DecodeBase64 decodes an image sent as base64 text. A data URL prefix such
// as "data:image/jpeg;base64," and embedded line breaks are accepted.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.HasSuffix(s[:comma], ";base64") {
			return nil, fmt.Errorf("%w: malformed data url", utils.ErrInvalidImage)
		}
		s = s[comma+1:]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty image", utils.ErrInvalidImage)
	}
	if base64.StdEncoding.DecodedLen(len(s)) > MaxImageBytes+3 {
		return nil, utils.ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64", utils.ErrInvalidImage)
	}
	if len(data) > MaxImageBytes {
		return nil, utils.ErrImageTooLarge
	}
	return data, nil
}
