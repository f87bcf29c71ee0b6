package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"runtime"
	"sync"
	"testing"
)

func resetInit() {
	initOnce = sync.Once{}
	initErr = nil
	active = nil
}

func TestEnsureInitWithoutDisplay(t *testing.T) {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
	default:
		t.Skip("display check only applies to X11/Wayland platforms")
	}
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	resetInit()
	t.Cleanup(resetInit)

	err := WriteText("hello world")
	if !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
	if _, err := ReadImage(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay from ReadImage, got %v", err)
	}
}

type memProvider map[format][]byte

func (m memProvider) write(f format, data []byte) error {
	m[f] = append([]byte(nil), data...)
	return nil
}

func (m memProvider) read(f format) ([]byte, error) {
	if len(m[f]) == 0 {
		return nil, ErrEmpty
	}
	return m[f], nil
}

func useMem(t *testing.T) memProvider {
	t.Helper()
	m := memProvider{}
	resetInit()
	initOnce.Do(func() { active = m })
	t.Cleanup(resetInit)
	return m
}

func TestImageRoundTrip(t *testing.T) {
	useMem(t)
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(1, 1, color.RGBA{10, 20, 30, 255})

	if err := WriteImage(src); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	got, err := ReadImage()
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Fatalf("bounds %v, want %v", got.Bounds(), src.Bounds())
	}
	r, g, b, _ := got.At(1, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Fatalf("pixel mismatch: %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestTextTrimsNul(t *testing.T) {
	m := useMem(t)
	m[formatText] = []byte("sketch\x00")
	got, err := ReadText()
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got != "sketch" {
		t.Fatalf("ReadText = %q", got)
	}
}

func TestDecodeImageRejectsText(t *testing.T) {
	if _, err := decodeImage([]byte("definitely not a picture")); err == nil {
		t.Fatal("expected error for text payload")
	}
	if _, err := decodeImage(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	if _, err := decodeImage(buf.Bytes()); err != nil {
		t.Fatalf("decode png: %v", err)
	}
}
