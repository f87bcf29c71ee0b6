package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Fill paints rect with col.
func Fill(dst draw.Image, rect image.Rectangle, col color.Color) {
	draw.Draw(dst, rect, image.NewUniform(col), image.Point{}, draw.Src)
}

// Border outlines rect with lines thick pixels wide, inside rect.
func Border(dst draw.Image, rect image.Rectangle, col color.Color, thick int) {
	if thick <= 0 || rect.Empty() {
		return
	}
	u := image.NewUniform(col)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

// Disc paints a filled circle of radius r centred at c, blended over dst.
func Disc(dst draw.Image, c image.Point, r int, col color.Color) {
	clip := dst.Bounds()
	u := image.NewUniform(col)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			p := c.Add(image.Pt(dx, dy))
			if !p.In(clip) {
				continue
			}
			draw.Draw(dst, image.Rect(p.X, p.Y, p.X+1, p.Y+1), u, image.Point{}, draw.Over)
		}
	}
}
