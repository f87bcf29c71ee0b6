// Package render paints the studio's panels into RGBA buffers. Nothing
// here holds state; every function writes only into dst.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/copainter/internal/studio"
	"github.com/example/copainter/internal/theme"
)

const (
	CanvasPlaceholder = "Start drawing!"
	OutputPlaceholder = "Result"
	BorderWidth       = 2

	spinnerDots = 12
)

// CanvasRect is where a canvas of size is drawn inside panel: anchored at
// the panel's top-left inside the border so canvas pixels map 1:1.
func CanvasRect(panel image.Rectangle, size image.Point) image.Rectangle {
	origin := panel.Min.Add(image.Pt(BorderWidth, BorderWidth))
	return image.Rectangle{Min: origin, Max: origin.Add(size)}.Intersect(panel.Inset(BorderWidth))
}

// CanvasPoint maps a window point to canvas coordinates.
func CanvasPoint(panel image.Rectangle, p image.Point) image.Point {
	return p.Sub(panel.Min.Add(image.Pt(BorderWidth, BorderWidth)))
}

// Canvas draws buf into rect with an accent border and, when empty, the
// placeholder label.
func Canvas(dst *image.RGBA, rect image.Rectangle, buf *image.RGBA, empty bool, th *theme.Theme) {
	if rect.Empty() {
		return
	}
	Fill(dst, rect, th.PanelBackground)
	if buf != nil {
		r := CanvasRect(rect, buf.Bounds().Size())
		draw.Draw(dst, r, buf, buf.Bounds().Min, draw.Src)
	}
	Border(dst, rect, th.Accent, BorderWidth)
	if empty {
		CenteredText(dst, rect, CanvasPlaceholder, PlaceholderFace, th.Muted)
	}
}

// Output draws the output panel for v. frame advances the spinner.
func Output(dst *image.RGBA, rect image.Rectangle, v studio.View, frame int, th *theme.Theme) {
	if rect.Empty() {
		return
	}
	Fill(dst, rect, th.PanelBackground)
	inner := rect.Inset(BorderWidth)
	switch v.Output {
	case studio.OutputResult:
		if v.Result != nil {
			ScaleFit(dst, inner, v.Result)
		}
	case studio.OutputLoading:
		Spinner(dst, inner, frame, th.Accent)
	default:
		CenteredText(dst, inner, OutputPlaceholder, PlaceholderFace, th.Muted)
	}
	Border(dst, rect, th.PanelBorder, BorderWidth)
}

// Spinner draws a ring of dots centred in rect. The brightest dot moves one
// step per frame.
func Spinner(dst *image.RGBA, rect image.Rectangle, frame int, col color.RGBA) {
	if rect.Empty() {
		return
	}
	c := image.Pt(rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2)
	radius := min(rect.Dx(), rect.Dy()) / 8
	if radius < 6 {
		radius = 6
	}
	dot := radius / 4
	if dot < 2 {
		dot = 2
	}
	head := ((frame % spinnerDots) + spinnerDots) % spinnerDots
	for i := 0; i < spinnerDots; i++ {
		angle := 2*math.Pi*float64(i)/spinnerDots - math.Pi/2
		p := image.Pt(
			c.X+int(math.Round(float64(radius)*math.Cos(angle))),
			c.Y+int(math.Round(float64(radius)*math.Sin(angle))),
		)
		age := (head - i + spinnerDots) % spinnerDots
		Disc(dst, p, dot, color.NRGBA{R: col.R, G: col.G, B: col.B, A: uint8(255 - age*200/spinnerDots)})
	}
}

// Status draws the status line. Errors use the theme's error colour.
func Status(dst *image.RGBA, rect image.Rectangle, v studio.View, th *theme.Theme) {
	Fill(dst, rect, th.ToolbarBackground)
	col := th.Foreground
	if v.Err != nil {
		col = th.Error
	}
	base := rect.Min.Y + (rect.Dy()+LabelFace.Metrics().Ascent.Ceil())/2 - 1
	Text(dst, image.Pt(rect.Min.X+6, base), v.Status, LabelFace, col)
}
