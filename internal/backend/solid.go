package backend

import (
	"context"
	"image"
	"image/color"
	"image/draw"
)

// Solid is an offline engine that answers every request with a flat colour
// at the sketch's size. It is useful without network access.
type Solid struct {
	Color color.RGBA
}

// NewSolid returns a Solid engine using the accent green.
func NewSolid() *Solid {
	return &Solid{Color: color.RGBA{0x29, 0xbe, 0x46, 0xff}}
}

// Name implements Engine.
func (s *Solid) Name() string { return EngineSolid }

// Render implements Engine.
func (s *Solid) Render(ctx context.Context, sketch image.Image, _ Request) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := sketch.Bounds()
	out := image.NewRGBA(image.Rectangle{Max: b.Size()})
	draw.Draw(out, out.Bounds(), &image.Uniform{s.Color}, image.Point{}, draw.Src)
	return out, nil
}

var _ Engine = (*Solid)(nil)
