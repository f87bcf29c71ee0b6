package render

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// FitRect returns the largest rectangle with the aspect ratio of size that
// fits inside area, centred. It is empty when either input is empty.
func FitRect(size image.Point, area image.Rectangle) image.Rectangle {
	if size.X <= 0 || size.Y <= 0 || area.Empty() {
		return image.Rectangle{}
	}
	aw, ah := area.Dx(), area.Dy()
	w, h := aw, aw*size.Y/size.X
	if h > ah {
		w, h = ah*size.X/size.Y, ah
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x := area.Min.X + (aw-w)/2
	y := area.Min.Y + (ah-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// ScaleFit draws src scaled into area with its aspect ratio preserved and
// returns the rectangle it occupies.
func ScaleFit(dst draw.Image, area image.Rectangle, src image.Image) image.Rectangle {
	r := FitRect(src.Bounds().Size(), area)
	if r.Empty() {
		return r
	}
	if r.Size() == src.Bounds().Size() {
		draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
		return r
	}
	xdraw.CatmullRom.Scale(dst, r, src, src.Bounds(), draw.Over, nil)
	return r
}
