// Package canvas holds the freehand raster the user sketches on.
//
// A Canvas is owned by the interactive goroutine. It is not safe for
// concurrent use; background work must operate on a Snapshot.
package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"
)

const (
	DefaultWidth       = 600
	DefaultHeight      = 600
	DefaultPencilWidth = 2
	DefaultEraserWidth = 10
)

var (
	DefaultBackground = color.RGBA{255, 255, 255, 255}
	DefaultForeground = color.RGBA{0, 0, 0, 255}
)

// Tool selects how strokes are painted.
type Tool int

const (
	Pencil Tool = iota
	Eraser
)

func (t Tool) String() string {
	switch t {
	case Pencil:
		return "pencil"
	case Eraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// ToolState is the colour and width strokes are currently painted with.
type ToolState struct {
	Tool  Tool
	Color color.RGBA
	Width int
}

// Canvas is a fixed-format RGBA raster with stroke state.
type Canvas struct {
	img         *image.RGBA
	background  color.RGBA
	foreground  color.RGBA
	pencilWidth int
	eraserWidth int

	tool    ToolState
	drawing bool
	cursor  image.Point
	empty   bool
}

// Option modifies a Canvas during creation.
type Option func(*Canvas)

// WithBackground sets the fill colour used by Clear, Resize and the eraser.
func WithBackground(c color.RGBA) Option { return func(cv *Canvas) { cv.background = opaque(c) } }

// WithForeground sets the pencil colour.
func WithForeground(c color.RGBA) Option { return func(cv *Canvas) { cv.foreground = opaque(c) } }

// WithPencilWidth sets the pencil stroke width in pixels.
func WithPencilWidth(w int) Option { return func(cv *Canvas) { cv.pencilWidth = w } }

// WithEraserWidth sets the eraser stroke width in pixels.
func WithEraserWidth(w int) Option { return func(cv *Canvas) { cv.eraserWidth = w } }

// New creates a canvas of the given size filled with the background colour.
// A degenerate size falls back to DefaultWidth x DefaultHeight.
func New(size image.Point, opts ...Option) *Canvas {
	c := &Canvas{
		background:  DefaultBackground,
		foreground:  DefaultForeground,
		pencilWidth: DefaultPencilWidth,
		eraserWidth: DefaultEraserWidth,
		empty:       true,
	}
	for _, o := range opts {
		o(c)
	}
	if c.pencilWidth < 1 {
		c.pencilWidth = 1
	}
	if c.eraserWidth < 1 {
		c.eraserWidth = 1
	}
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(DefaultWidth, DefaultHeight)
	}
	c.img = image.NewRGBA(image.Rectangle{Max: size})
	c.fill()
	c.SetTool(Pencil)
	return c
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}

func (c *Canvas) fill() {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{c.background}, image.Point{}, draw.Src)
}

// Size returns the buffer dimensions.
func (c *Canvas) Size() image.Point { return c.img.Bounds().Size() }

// Background returns the fill colour.
func (c *Canvas) Background() color.RGBA { return c.background }

// Image exposes the live buffer for rendering on the owning goroutine.
// Callers must not modify it or hand it to another goroutine.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Empty reports whether nothing has been drawn since creation or the last Clear.
func (c *Canvas) Empty() bool { return c.empty }

// Drawing reports whether a stroke is in progress.
func (c *Canvas) Drawing() bool { return c.drawing }

// ToolState returns the current tool with its colour and width.
func (c *Canvas) ToolState() ToolState { return c.tool }

// SetTool switches between pencil and eraser. Unknown tools select the pencil.
func (c *Canvas) SetTool(t Tool) {
	switch t {
	case Eraser:
		c.tool = ToolState{Tool: Eraser, Color: c.background, Width: c.eraserWidth}
	default:
		c.tool = ToolState{Tool: Pencil, Color: c.foreground, Width: c.pencilWidth}
	}
}

// Resize replaces the buffer with one of the new size. Existing content is
// kept anchored at the top-left corner, clipped or padded with background.
// Zero or negative sizes are ignored.
func (c *Canvas) Resize(size image.Point) {
	if size.X <= 0 || size.Y <= 0 || size == c.Size() {
		return
	}
	old := c.img
	c.img = image.NewRGBA(image.Rectangle{Max: size})
	c.fill()
	draw.Draw(c.img, old.Bounds(), old, image.Point{}, draw.Src)
}

// BeginStroke starts a stroke at p. Nothing is painted until the stroke is extended.
func (c *Canvas) BeginStroke(p image.Point) {
	c.drawing = true
	c.cursor = p
	c.empty = false
}

// ExtendStroke paints a segment from the previous point to p with the
// current tool. It does nothing when no stroke is in progress.
func (c *Canvas) ExtendStroke(p image.Point) {
	if !c.drawing {
		return
	}
	drawSegment(c.img, c.cursor, p, c.tool.Color, c.tool.Width)
	c.cursor = p
}

// EndStroke finishes the current stroke.
func (c *Canvas) EndStroke() {
	c.drawing = false
}

// Clear fills the buffer with the background colour and marks the canvas empty.
func (c *Canvas) Clear() {
	c.fill()
	c.drawing = false
	c.empty = true
}

// Load pastes img onto a cleared buffer at the top-left corner.
// Transparent areas of img show the background.
func (c *Canvas) Load(img image.Image) {
	if img == nil {
		return
	}
	c.fill()
	b := img.Bounds()
	draw.Draw(c.img, image.Rectangle{Max: b.Size()}, img, b.Min, draw.Over)
	c.drawing = false
	c.empty = false
}

// Snapshot returns an independent copy of the buffer.
func (c *Canvas) Snapshot() *image.RGBA {
	return clone.AsRGBA(c.img)
}
