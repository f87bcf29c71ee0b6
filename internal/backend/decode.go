package backend

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

// DecodeImage sniffs data and decodes PNG, JPEG or WebP payloads.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyResponse
	}
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		mime := kind.MIME.Value
		if mime == "" {
			mime = "unknown"
		}
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
