package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"slices"
	"testing"

	"github.com/h2non/filetype"
	"github.com/jezek/xgb/xproto"
)

var testAtoms = atomSet{
	clipboard: 100,
	targets:   101,
	incr:      102,
	utf8:      103,
	textPlain: 104,
	png:       105,
	jpeg:      106,
	webp:      107,
	property:  108,
}

// halfTransparentPNG is transparent on the left and opaque red on the right.
func halfTransparentPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAtomNamesMatchFields(t *testing.T) {
	var a atomSet
	if len(a.fields()) != len(atomNames) {
		t.Fatalf("%d atom fields, %d names", len(a.fields()), len(atomNames))
	}
}

func TestOfferListsTargetsForContent(t *testing.T) {
	var s selection
	if got := s.offer(testAtoms); !slices.Equal(got, []xproto.Atom{testAtoms.targets}) {
		t.Fatalf("empty offer = %v", got)
	}

	s.setText([]byte("a cat"))
	want := []xproto.Atom{testAtoms.targets, testAtoms.utf8, testAtoms.textPlain, xproto.AtomString}
	if got := s.offer(testAtoms); !slices.Equal(got, want) {
		t.Fatalf("text offer = %v, want %v", got, want)
	}

	if err := s.setImage(halfTransparentPNG(t)); err != nil {
		t.Fatalf("setImage: %v", err)
	}
	want = []xproto.Atom{testAtoms.targets, testAtoms.png, testAtoms.jpeg}
	if got := s.offer(testAtoms); !slices.Equal(got, want) {
		t.Fatalf("image offer = %v, want %v", got, want)
	}
}

func TestConvertTargets(t *testing.T) {
	var s selection
	if err := s.setImage(halfTransparentPNG(t)); err != nil {
		t.Fatal(err)
	}
	payload, typ, format, ok := s.convert(testAtoms, testAtoms.targets)
	if !ok || typ != xproto.AtomAtom || format != 32 {
		t.Fatalf("TARGETS conversion: ok=%v type=%d format=%d", ok, typ, format)
	}
	if got := bytesToAtoms(payload); !slices.Contains(got, testAtoms.jpeg) {
		t.Fatalf("TARGETS %v does not list image/jpeg", got)
	}
}

func TestConvertImageFormats(t *testing.T) {
	var s selection
	src := halfTransparentPNG(t)
	if err := s.setImage(src); err != nil {
		t.Fatal(err)
	}

	payload, typ, format, ok := s.convert(testAtoms, testAtoms.png)
	if !ok || typ != testAtoms.png || format != 8 || !bytes.Equal(payload, src) {
		t.Fatalf("png conversion: ok=%v type=%d format=%d", ok, typ, format)
	}

	payload, typ, _, ok = s.convert(testAtoms, testAtoms.jpeg)
	if !ok || typ != testAtoms.jpeg {
		t.Fatalf("jpeg conversion: ok=%v type=%d", ok, typ)
	}
	if kind, _ := filetype.Match(payload); kind.MIME.Value != "image/jpeg" {
		t.Fatalf("jpeg payload sniffed as %q", kind.MIME.Value)
	}
	img, err := decodeImage(payload)
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("jpeg bounds %v", img.Bounds())
	}
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Fatalf("transparent area not flattened to white: %d %d %d", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(13, 8).RGBA()
	if r>>8 < 200 || g>>8 > 60 || b>>8 > 60 {
		t.Fatalf("opaque area not red: %d %d %d", r>>8, g>>8, b>>8)
	}

	again, _, _, _ := s.convert(testAtoms, testAtoms.jpeg)
	if &again[0] != &payload[0] {
		t.Fatal("jpeg rendition was re-encoded")
	}

	if _, _, _, ok := s.convert(testAtoms, testAtoms.utf8); ok {
		t.Fatal("text target served while holding an image")
	}
	if _, _, _, ok := s.convert(testAtoms, testAtoms.webp); ok {
		t.Fatal("webp target should not be served")
	}
}

func TestConvertText(t *testing.T) {
	var s selection
	s.setText([]byte("a cat"))
	for _, target := range []xproto.Atom{testAtoms.utf8, testAtoms.textPlain, xproto.AtomString} {
		payload, typ, format, ok := s.convert(testAtoms, target)
		if !ok || typ != target || format != 8 || string(payload) != "a cat" {
			t.Fatalf("target %d: ok=%v type=%d payload=%q", target, ok, typ, payload)
		}
	}
	if _, _, _, ok := s.convert(testAtoms, testAtoms.png); ok {
		t.Fatal("png target served while holding text")
	}

	s.clear()
	if _, _, _, ok := s.convert(testAtoms, testAtoms.utf8); ok {
		t.Fatal("text served after selection was cleared")
	}
}

func TestSetImageRejectsNonPNG(t *testing.T) {
	var s selection
	if err := s.setImage([]byte("not an image")); err == nil {
		t.Fatal("expected error for non-PNG data")
	}
	if got := s.offer(testAtoms); len(got) != 1 {
		t.Fatalf("rejected image still offered: %v", got)
	}
}

func TestPickTarget(t *testing.T) {
	prefs := testAtoms.imagePreference()
	tests := []struct {
		name    string
		offered []xproto.Atom
		want    xproto.Atom
		ok      bool
	}{
		{"png first", []xproto.Atom{testAtoms.jpeg, testAtoms.png, testAtoms.webp}, testAtoms.png, true},
		{"webp over jpeg", []xproto.Atom{testAtoms.jpeg, testAtoms.webp}, testAtoms.webp, true},
		{"jpeg only", []xproto.Atom{testAtoms.targets, testAtoms.jpeg}, testAtoms.jpeg, true},
		{"text only", []xproto.Atom{testAtoms.targets, testAtoms.utf8}, xproto.AtomNone, false},
		{"nothing", nil, xproto.AtomNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickTarget(tt.offered, prefs)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("pickTarget = %d, %v; want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAtomBytes(t *testing.T) {
	atoms := []xproto.Atom{testAtoms.targets, testAtoms.png, xproto.AtomString}
	buf := atomsToBytes(atoms)
	if len(buf) != 12 {
		t.Fatalf("encoded %d bytes", len(buf))
	}
	if got := bytesToAtoms(buf); !slices.Equal(got, atoms) {
		t.Fatalf("bytesToAtoms = %v, want %v", got, atoms)
	}
	if got := bytesToAtoms(buf[:7]); len(got) != 1 {
		t.Fatalf("partial atom decoded: %v", got)
	}
}

func TestPropertyLength(t *testing.T) {
	if got := propertyLength(12, 8); got != 12 {
		t.Fatalf("format 8: %d", got)
	}
	if got := propertyLength(12, 16); got != 6 {
		t.Fatalf("format 16: %d", got)
	}
	if got := propertyLength(12, 32); got != 3 {
		t.Fatalf("format 32: %d", got)
	}
}

func TestOutgoingChunks(t *testing.T) {
	data := bytes.Repeat([]byte{7}, incrChunk*2+10)
	tr := &outgoing{data: data}
	var got []byte
	var chunks int
	for {
		chunk, ok := tr.next()
		if !ok {
			break
		}
		chunks++
		if len(chunk) > incrChunk {
			t.Fatalf("chunk of %d bytes", len(chunk))
		}
		if len(chunk) == 0 && !tr.done {
			t.Fatal("empty chunk did not end the transfer")
		}
		got = append(got, chunk...)
	}
	if chunks != 4 {
		t.Fatalf("%d chunks, want 3 data chunks and a terminator", chunks)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("reassembled data differs")
	}
}

func TestIncomingAssembly(t *testing.T) {
	in := &incoming{limit: 10}
	for _, chunk := range [][]byte{[]byte("abcd"), []byte("efgh")} {
		done, err := in.add(chunk)
		if err != nil || done {
			t.Fatalf("add %q: done=%v err=%v", chunk, done, err)
		}
	}
	if done, err := in.add(nil); err != nil || !done {
		t.Fatalf("terminator: done=%v err=%v", done, err)
	}
	if in.buf.String() != "abcdefgh" {
		t.Fatalf("assembled %q", in.buf.String())
	}

	if _, err := in.add([]byte("xyz")); !errors.Is(err, errPasteTooLarge) {
		t.Fatalf("expected errPasteTooLarge, got %v", err)
	}
}
