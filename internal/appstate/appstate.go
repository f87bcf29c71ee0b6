package appstate

import (
	"context"
	"image"

	"go.uber.org/zap"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/copainter/internal/canvas"
	"github.com/example/copainter/internal/logging"
	"github.com/example/copainter/internal/render"
	"github.com/example/copainter/internal/studio"
	"github.com/example/copainter/internal/theme"
)

const (
	toolbarHeight = 32
	statusHeight  = 24
	gap           = 8
	buttonPad     = 10
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// Layout holds the window regions.
type Layout struct {
	Toolbar image.Rectangle
	Canvas  image.Rectangle
	Output  image.Rectangle
	Status  image.Rectangle
}

// ComputeLayout splits a width×height window into a toolbar, two equal
// panels side by side and a status line. Panels may be empty for tiny windows.
func ComputeLayout(width, height int) Layout {
	l := Layout{
		Toolbar: image.Rect(0, 0, width, toolbarHeight),
		Status:  image.Rect(0, height-statusHeight, width, height),
	}
	top := toolbarHeight + gap
	bottom := height - statusHeight - gap
	panelW := (width - 3*gap) / 2
	if panelW <= 0 || bottom <= top {
		return l
	}
	l.Canvas = image.Rect(gap, top, gap+panelW, bottom)
	l.Output = image.Rect(2*gap+panelW, top, 2*gap+2*panelW, bottom)
	return l
}

// CanvasSize is the drawable area of the canvas panel.
func (l Layout) CanvasSize() image.Point {
	return l.Canvas.Inset(render.BorderWidth).Size()
}

// WindowSize is the window size whose canvas panel holds exactly size.
func WindowSize(size image.Point) image.Point {
	panel := size.Add(image.Pt(2*render.BorderWidth, 2*render.BorderWidth))
	return image.Pt(2*panel.X+3*gap, toolbarHeight+panel.Y+statusHeight+2*gap)
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive toolbar element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState, th *theme.Theme)
	Label() string
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Enabled() bool
	Activate()
}

// ActionButton runs an action when clicked. enabled and selected are
// consulted at draw time so the button follows studio state.
type ActionButton struct {
	label    func() string
	rect     image.Rectangle
	accent   bool
	enabled  func() bool
	selected func() bool
	action   func()
}

var _ Button = (*ActionButton)(nil)

func (b *ActionButton) Label() string {
	if b.label == nil {
		return ""
	}
	return b.label()
}

func (b *ActionButton) Enabled() bool { return b.enabled == nil || b.enabled() }

func (b *ActionButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	bg := th.ButtonBackground
	fg := th.ButtonText
	switch {
	case !b.Enabled():
		bg, fg = th.ButtonDisabled, th.ButtonTextDisabled
	case state == StatePressed:
		bg = th.ButtonBackgroundPress
	case state == StateHover:
		bg = th.ButtonBackgroundHover
	case b.accent:
		bg, fg = th.Accent, th.PanelBackground
	case b.selected != nil && b.selected():
		bg = th.ButtonBackgroundPress
	}
	render.Fill(dst, b.rect, bg)
	render.Border(dst, b.rect, th.ButtonBorder, 1)
	render.CenteredText(dst, b.rect, b.Label(), render.LabelFace, fg)
}

func (b *ActionButton) Rect() image.Rectangle { return b.rect }

func (b *ActionButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *ActionButton) Activate() {
	if b.Enabled() && b.action != nil {
		b.action()
	}
}

// layoutButtons places buttons left to right in bar, sized to their labels.
// Buttons with a minimum width keep it so changing labels do not shift the row.
func layoutButtons(buttons []Button, bar image.Rectangle, minWidth map[Button]int) {
	x := bar.Min.X + gap/2
	for _, b := range buttons {
		w := render.TextWidth(b.Label(), render.LabelFace) + 2*buttonPad
		if mw := minWidth[b]; mw > w {
			w = mw
		}
		b.SetRect(image.Rect(x, bar.Min.Y+4, x+w, bar.Max.Y-4))
		x += w + gap/2
	}
}

// hitButton returns the index of the button under p, or -1.
func hitButton(buttons []Button, p image.Point) int {
	for i, b := range buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}

// paintState is an immutable copy of everything a frame needs.
type paintState struct {
	width, height int
	layout        Layout
	buttons       []Button
	hover         int
	pressed       int
	sketch        *image.RGBA
	empty         bool
	tool          canvas.ToolState
	view          studio.View
	message       string
	frame         int
	theme         *theme.Theme
}

func paintInto(dst *image.RGBA, st paintState) {
	th := st.theme
	render.Fill(dst, dst.Bounds(), th.Background)
	render.Fill(dst, st.layout.Toolbar, th.ToolbarBackground)
	for i, b := range st.buttons {
		state := StateDefault
		switch i {
		case st.pressed:
			state = StatePressed
		case st.hover:
			state = StateHover
		}
		b.Draw(dst, state, th)
	}
	render.Canvas(dst, st.layout.Canvas, st.sketch, st.empty, th)
	render.Output(dst, st.layout.Output, st.view, st.frame, th)
	v := st.view
	if st.message != "" {
		v.Status, v.Err = st.message, nil
	}
	render.Status(dst, st.layout.Status, v, th)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, logger *zap.Logger) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		logger.Error("new buffer", logging.Error(err))
		return
	}
	defer b.Release()

	if ctx.Err() != nil {
		return
	}
	paintInto(b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
