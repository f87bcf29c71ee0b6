package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/h2non/filetype"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// incrChunk is the largest property written in one request. Larger payloads
// go through the INCR protocol.
const incrChunk = 128 << 10

// maxPasteBytes bounds an incoming INCR transfer.
const maxPasteBytes = 64 << 20

// jpegQuality is used when a requestor asks for image/jpeg.
const jpegQuality = 92

// atomSet holds the interned atoms used for selection negotiation.
type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	incr      xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	jpeg      xproto.Atom
	webp      xproto.Atom
	property  xproto.Atom
}

// atomNames lists the names interned into an atomSet, in field order.
var atomNames = []string{
	"CLIPBOARD", "TARGETS", "INCR", "UTF8_STRING", "text/plain;charset=utf-8",
	"image/png", "image/jpeg", "image/webp", "COPAINTER_CLIPBOARD",
}

func (a *atomSet) fields() []*xproto.Atom {
	return []*xproto.Atom{&a.clipboard, &a.targets, &a.incr, &a.utf8, &a.textPlain, &a.png, &a.jpeg, &a.webp, &a.property}
}

// imagePreference orders the image targets tried when pasting a sketch.
// PNG is lossless; WebP and JPEG are what browsers commonly offer.
func (a atomSet) imagePreference() []xproto.Atom {
	return []xproto.Atom{a.png, a.webp, a.jpeg}
}

func (a atomSet) textPreference() []xproto.Atom {
	return []xproto.Atom{a.utf8, a.textPlain, xproto.AtomString}
}

// selection is the content offered while copainter owns CLIPBOARD.
type selection struct {
	mu   sync.Mutex
	text []byte
	png  []byte
	jpeg []byte
}

func (s *selection) setText(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = append([]byte(nil), data...)
	s.png, s.jpeg = nil, nil
}

// setImage stores a PNG payload. A JPEG rendition is produced on demand.
func (s *selection) setImage(data []byte) error {
	if kind, _ := filetype.Match(data); kind.MIME.Value != "image/png" {
		return fmt.Errorf("clipboard image must be PNG, got %q", kind.MIME.Value)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.png = append([]byte(nil), data...)
	s.text, s.jpeg = nil, nil
	return nil
}

func (s *selection) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.png, s.jpeg = nil, nil, nil
}

// offer returns the TARGETS list for the current content.
func (s *selection) offer(a atomSet) []xproto.Atom {
	s.mu.Lock()
	defer s.mu.Unlock()
	targets := []xproto.Atom{a.targets}
	if len(s.text) > 0 {
		targets = append(targets, a.textPreference()...)
	}
	if len(s.png) > 0 {
		targets = append(targets, a.png, a.jpeg)
	}
	return targets
}

// convert returns the payload for target and the property type to store
// it under. ok is false when the target cannot be served.
func (s *selection) convert(a atomSet, target xproto.Atom) (payload []byte, typ xproto.Atom, format byte, ok bool) {
	if target == a.targets {
		return atomsToBytes(s.offer(a)), xproto.AtomAtom, 32, true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch target {
	case a.utf8, a.textPlain, xproto.AtomString:
		if len(s.text) == 0 {
			return nil, 0, 0, false
		}
		return s.text, target, 8, true
	case a.png:
		if len(s.png) == 0 {
			return nil, 0, 0, false
		}
		return s.png, a.png, 8, true
	case a.jpeg:
		if len(s.png) == 0 {
			return nil, 0, 0, false
		}
		if s.jpeg == nil {
			data, err := pngToJPEG(s.png)
			if err != nil {
				return nil, 0, 0, false
			}
			s.jpeg = data
		}
		return s.jpeg, a.jpeg, 8, true
	}
	return nil, 0, 0, false
}

func pngToJPEG(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	// JPEG has no alpha; flatten onto white like the canvas background.
	flat := image.NewRGBA(img.Bounds())
	for i := range flat.Pix {
		flat.Pix[i] = 0xff
	}
	draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pickTarget returns the first of prefs that the owner offers.
func pickTarget(offered, prefs []xproto.Atom) (xproto.Atom, bool) {
	for _, want := range prefs {
		for _, have := range offered {
			if have == want && want != xproto.AtomNone {
				return want, true
			}
		}
	}
	return xproto.AtomNone, false
}

func atomsToBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, atom := range atoms {
		xgb.Put32(buf[i*4:], uint32(atom))
	}
	return buf
}

func bytesToAtoms(buf []byte) []xproto.Atom {
	atoms := make([]xproto.Atom, 0, len(buf)/4)
	for i := 0; i+4 <= len(buf); i += 4 {
		atoms = append(atoms, xproto.Atom(xgb.Get32(buf[i:])))
	}
	return atoms
}

// propertyLength converts a byte length into the item count ChangeProperty
// expects for format.
func propertyLength(n int, format byte) uint32 {
	switch format {
	case 16:
		return uint32(n / 2)
	case 32:
		return uint32(n / 4)
	}
	return uint32(n)
}

// outgoing is an INCR transfer to one requestor property.
type outgoing struct {
	requestor xproto.Window
	property  xproto.Atom
	typ       xproto.Atom
	data      []byte
	off       int
	done      bool
}

type transferKey struct {
	requestor xproto.Window
	property  xproto.Atom
}

// next returns the next chunk to write. The chunk after the last data
// chunk is empty and ends the transfer; after that ok is false.
func (t *outgoing) next() (chunk []byte, ok bool) {
	if t.done {
		return nil, false
	}
	end := min(t.off+incrChunk, len(t.data))
	chunk = t.data[t.off:end]
	t.off = end
	if len(chunk) == 0 {
		t.done = true
	}
	return chunk, true
}

var errPasteTooLarge = errors.New("clipboard transfer exceeds size limit")

// incoming assembles an INCR transfer from another client.
type incoming struct {
	buf   bytes.Buffer
	limit int
}

// add appends chunk and reports whether the transfer is complete.
func (in *incoming) add(chunk []byte) (bool, error) {
	if len(chunk) == 0 {
		return true, nil
	}
	if in.buf.Len()+len(chunk) > in.limit {
		return false, fmt.Errorf("%w (%d bytes)", errPasteTooLarge, in.limit)
	}
	in.buf.Write(chunk)
	return false, nil
}
