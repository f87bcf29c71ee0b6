//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"fmt"

	"golang.design/x/clipboard"
)

type designProvider struct{}

func newProvider() (provider, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return designProvider{}, nil
}

func designFormat(f format) clipboard.Format {
	if f == formatImage {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}

func (designProvider) write(f format, data []byte) error {
	clipboard.Write(designFormat(f), data)
	return nil
}

func (designProvider) read(f format) ([]byte, error) {
	data := clipboard.Read(designFormat(f))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, f)
	}
	return data, nil
}
