package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	// LabelFace is used for buttons and the status line.
	LabelFace font.Face = basicfont.Face7x13
	// PlaceholderFace is used for the large centred panel labels.
	PlaceholderFace font.Face = basicfont.Face7x13
)

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return
	}
	if face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingFull}); err == nil {
		LabelFace = face
	}
	if face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull}); err == nil {
		PlaceholderFace = face
	}
}

// Text draws s with its baseline-left corner at dot.
func Text(dst draw.Image, dot image.Point, s string, face font.Face, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face, Dot: fixed.P(dot.X, dot.Y)}
	d.DrawString(s)
}

// CenteredText draws s centred in rect.
func CenteredText(dst draw.Image, rect image.Rectangle, s string, face font.Face, col color.Color) {
	d := &font.Drawer{Face: face}
	w := d.MeasureString(s).Ceil()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	x := rect.Min.X + (rect.Dx()-w)/2
	y := rect.Min.Y + (rect.Dy()-ascent-descent)/2 + ascent
	Text(dst, image.Pt(x, y), s, face, col)
}

// TextWidth measures s in face.
func TextWidth(s string, face font.Face) int {
	return (&font.Drawer{Face: face}).MeasureString(s).Ceil()
}
