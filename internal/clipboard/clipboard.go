// Package clipboard moves sketches and results between copainter and the
// desktop clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/h2non/filetype"

	// decoders for pasted images
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

var (
	errNoDisplay   = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errUnsupported = errors.New("clipboard operations are not supported on this platform")
	// ErrEmpty is returned when the clipboard holds nothing in the requested format.
	ErrEmpty = errors.New("clipboard does not contain the requested data")
)

type format int

const (
	formatText format = iota
	formatImage
)

func (f format) String() string {
	if f == formatImage {
		return "image"
	}
	return "text"
}

// provider is one platform clipboard implementation.
type provider interface {
	write(f format, data []byte) error
	read(f format) ([]byte, error)
}

var (
	initOnce sync.Once
	initErr  error
	active   provider
)

func ensureInit() error {
	initOnce.Do(func() {
		active, initErr = newProvider()
	})
	return initErr
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return active.write(formatImage, buf.Bytes())
}

// ReadImage decodes the clipboard image. PNG, JPEG and WebP are accepted.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := active.read(formatImage)
	if err != nil {
		return nil, err
	}
	return decodeImage(data)
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image", ErrEmpty)
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("clipboard data is not an image")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		kind, _ := filetype.Match(data)
		return nil, fmt.Errorf("decode clipboard %s: %w", kind.Extension, err)
	}
	return img, nil
}

// WriteText writes text to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return active.write(formatText, []byte(text))
}

// ReadText returns UTF-8 text from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := active.read(formatText)
	if err != nil {
		return "", err
	}
	// some applications include a trailing NUL in STRING responses
	data = bytes.TrimSuffix(data, []byte{0})
	if len(data) == 0 {
		return "", fmt.Errorf("%w: text", ErrEmpty)
	}
	return string(data), nil
}
