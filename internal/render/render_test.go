package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/copainter/internal/studio"
	"github.com/example/copainter/internal/theme"
)

func filled(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	Fill(img, img.Bounds(), c)
	return img
}

func TestFitRect(t *testing.T) {
	cases := []struct {
		name string
		size image.Point
		area image.Rectangle
		want image.Rectangle
	}{
		{"square in wide", image.Pt(600, 600), image.Rect(0, 0, 400, 200), image.Rect(100, 0, 300, 200)},
		{"wide in square", image.Pt(200, 100), image.Rect(10, 10, 110, 110), image.Rect(10, 35, 110, 85)},
		{"tall in square", image.Pt(100, 400), image.Rect(0, 0, 100, 100), image.Rect(37, 0, 62, 100)},
		{"upscale", image.Pt(10, 10), image.Rect(0, 0, 50, 50), image.Rect(0, 0, 50, 50)},
		{"empty source", image.Pt(0, 10), image.Rect(0, 0, 50, 50), image.Rectangle{}},
		{"empty area", image.Pt(10, 10), image.Rect(5, 5, 5, 50), image.Rectangle{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FitRect(tc.size, tc.area); got != tc.want {
				t.Fatalf("FitRect(%v, %v) = %v, want %v", tc.size, tc.area, got, tc.want)
			}
		})
	}
}

func TestFitRectPreservesAspect(t *testing.T) {
	area := image.Rect(0, 0, 640, 480)
	for _, size := range []image.Point{{600, 600}, {1024, 512}, {300, 900}} {
		r := FitRect(size, area)
		if !r.In(area) {
			t.Fatalf("%v not inside %v", r, area)
		}
		want := float64(size.X) / float64(size.Y)
		got := float64(r.Dx()) / float64(r.Dy())
		if d := want - got; d > 0.02 || d < -0.02 {
			t.Errorf("size %v: aspect %.3f, want %.3f", size, got, want)
		}
		if r.Dx() != area.Dx() && r.Dy() != area.Dy() {
			t.Errorf("size %v: %v touches neither edge of %v", size, r, area)
		}
	}
}

func TestCanvasDrawsBufferAndBorder(t *testing.T) {
	th := theme.Default()
	dst := image.NewRGBA(image.Rect(0, 0, 120, 120))
	panel := image.Rect(10, 10, 110, 110)
	buf := filled(96, 96, color.RGBA{255, 255, 255, 255})
	buf.SetRGBA(5, 5, color.RGBA{A: 255})

	Canvas(dst, panel, buf, false, th)

	if got := dst.RGBAAt(10, 10); got != th.Accent {
		t.Errorf("border pixel = %v, want accent %v", got, th.Accent)
	}
	p := panel.Min.Add(image.Pt(BorderWidth+5, BorderWidth+5))
	if got := dst.RGBAAt(p.X, p.Y); got != (color.RGBA{A: 255}) {
		t.Errorf("mark not drawn 1:1 at %v, got %v", p, got)
	}
	if got := CanvasPoint(panel, p); got != image.Pt(5, 5) {
		t.Errorf("CanvasPoint = %v, want (5,5)", got)
	}
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("wrote outside rect: %v", got)
	}
}

func TestCanvasPlaceholderOnlyWhenEmpty(t *testing.T) {
	th := theme.Default()
	panel := image.Rect(0, 0, 300, 200)
	buf := filled(296, 196, color.RGBA{255, 255, 255, 255})

	count := func(empty bool) int {
		dst := image.NewRGBA(panel)
		Canvas(dst, panel, buf, empty, th)
		n := 0
		for y := 20; y < 180; y++ {
			for x := 20; x < 280; x++ {
				if dst.RGBAAt(x, y) != (color.RGBA{255, 255, 255, 255}) {
					n++
				}
			}
		}
		return n
	}
	if n := count(false); n != 0 {
		t.Errorf("non-empty canvas shows %d placeholder pixels", n)
	}
	if n := count(true); n == 0 {
		t.Error("empty canvas shows no placeholder")
	}
}

func TestOutputResultFits(t *testing.T) {
	th := theme.Default()
	red := color.RGBA{255, 0, 0, 255}
	dst := image.NewRGBA(image.Rect(0, 0, 404, 204))
	v := studio.View{Output: studio.OutputResult, Result: filled(600, 600, red)}

	Output(dst, dst.Bounds(), v, 0, th)

	inner := dst.Bounds().Inset(BorderWidth)
	fit := FitRect(image.Pt(600, 600), inner)
	if got := dst.RGBAAt(fit.Min.X+fit.Dx()/2, fit.Min.Y+fit.Dy()/2); got.R < 250 || got.G > 5 || got.B > 5 {
		t.Errorf("centre = %v, want red", got)
	}
	if got := dst.RGBAAt(inner.Min.X+2, inner.Min.Y+inner.Dy()/2); got != th.PanelBackground {
		t.Errorf("letterbox = %v, want panel background", got)
	}
}

func TestOutputLoadingAnimates(t *testing.T) {
	th := theme.Default()
	rect := image.Rect(0, 0, 200, 200)
	a := image.NewRGBA(rect)
	b := image.NewRGBA(rect)
	v := studio.View{Output: studio.OutputLoading}
	Output(a, rect, v, 0, th)
	Output(b, rect, v, 3, th)

	same := true
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("spinner frames 0 and 3 are identical")
	}
}

func TestStatusUsesErrorColour(t *testing.T) {
	th := theme.Default()
	rect := image.Rect(0, 0, 300, 24)
	dst := image.NewRGBA(rect)
	Status(dst, rect, studio.View{Status: "generation failed: boom", Err: errTest}, th)

	found := false
	for y := 0; y < 24 && !found; y++ {
		for x := 0; x < 300; x++ {
			if c := dst.RGBAAt(x, y); c.R > c.G+60 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("expected error coloured text")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")
