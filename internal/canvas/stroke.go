package canvas

import (
	"image"
	"image/color"
)

// drawSegment walks the Bresenham path from a to b stamping a disc of the
// given diameter at every step, which yields round caps and round joins.
func drawSegment(img *image.RGBA, a, b image.Point, col color.RGBA, width int) {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		stampDisc(img, x0, y0, width, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// stampDisc fills every pixel whose centre lies within width/2 of (cx, cy).
func stampDisc(img *image.RGBA, cx, cy, width int, col color.RGBA) {
	if width <= 1 {
		if image.Pt(cx, cy).In(img.Bounds()) {
			img.SetRGBA(cx, cy, col)
		}
		return
	}
	r := (width + 1) / 2
	limit := width * width
	b := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		py := cy + dy
		if py < b.Min.Y || py >= b.Max.Y {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			px := cx + dx
			if px < b.Min.X || px >= b.Max.X {
				continue
			}
			if 4*(dx*dx+dy*dy) <= limit {
				img.SetRGBA(px, py, col)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
