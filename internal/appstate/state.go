// Package appstate runs the copainter window: a sketch canvas beside the
// generated output, driven by shiny's event loop.
package appstate

import (
	"context"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/copainter/internal/canvas"
	"github.com/example/copainter/internal/clipboard"
	"github.com/example/copainter/internal/job"
	"github.com/example/copainter/internal/logging"
	"github.com/example/copainter/internal/render"
	"github.com/example/copainter/internal/studio"
	"github.com/example/copainter/internal/theme"
)

const (
	spinnerInterval = 80 * time.Millisecond
	messageDuration = 2 * time.Second
)

// tickEvent advances the loading spinner.
type tickEvent struct{}

// AppState wires the canvas, studio and orchestrator to a window.
type AppState struct {
	Title string

	canvas *canvas.Canvas
	studio *studio.Studio
	orch   *job.Orchestrator
	theme  *theme.Theme
	logger *zap.Logger

	poster *windowPoster

	readClipboard func() (image.Image, error)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTheme sets the palette.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.theme = t } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(a *AppState) { a.logger = l } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState. Attach the orchestrator and studio with Bind
// before Run; the orchestrator must post through Poster.
func New(cv *canvas.Canvas, opts ...Option) *AppState {
	a := &AppState{
		Title:         "Copainter",
		canvas:        cv,
		theme:         theme.Default(),
		logger:        logging.Nop(),
		poster:        &windowPoster{},
		readClipboard: clipboard.ReadImage,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Poster returns the job.Poster that forwards events into the window's
// event queue.
func (a *AppState) Poster() job.Poster { return a.poster }

// Bind attaches the orchestrator delivering job events and the studio
// drawn in the output panel.
func (a *AppState) Bind(orch *job.Orchestrator, st *studio.Studio) {
	a.orch = orch
	a.studio = st
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		a.poster.attach(nil)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window on s until it is closed.
func (a *AppState) Main(s screen.Screen) {
	initial := WindowSize(a.canvas.Size())
	width, height := initial.X, initial.Y
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		a.logger.Error("new window", logging.Error(err))
		return
	}
	defer w.Release()
	defer a.notifyClose()

	a.poster.attach(w)

	layout := ComputeLayout(width, height)
	var (
		hover, pressed = -1, -1
		message        string
		messageUntil   time.Time
		confirmClear   bool
		frame          int
		ticker         *time.Ticker
		tickerDone     chan struct{}
	)

	setMessage := func(m string) {
		message = m
		messageUntil = time.Now().Add(messageDuration)
		a.logger.Info(m)
	}

	stopSpinner := func() {
		if ticker != nil {
			ticker.Stop()
			close(tickerDone)
			ticker, tickerDone = nil, nil
		}
	}
	defer stopSpinner()
	syncSpinner := func() {
		loading := a.studio.View().Loading()
		switch {
		case loading && ticker == nil:
			ticker = time.NewTicker(spinnerInterval)
			tickerDone = make(chan struct{})
			go func(t *time.Ticker, done chan struct{}) {
				for {
					select {
					case <-t.C:
						w.Send(tickEvent{})
					case <-done:
						return
					}
				}
			}(ticker, tickerDone)
		case !loading && ticker != nil:
			stopSpinner()
		}
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st, a.logger)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	generate := func() {
		if _, err := a.studio.Generate(); err != nil {
			a.logger.Info("generate rejected", logging.Error(err))
		}
		syncSpinner()
	}

	buttons := []Button{
		&ActionButton{label: func() string { return "<" }, action: func() { a.studio.CycleStyle(-1) }},
		&ActionButton{label: func() string { return a.studio.Style() }, action: func() { a.studio.CycleStyle(1) }},
		&ActionButton{label: func() string { return ">" }, action: func() { a.studio.CycleStyle(1) }},
		&ActionButton{
			label:    func() string { return "P:Pencil" },
			selected: func() bool { return a.canvas.ToolState().Tool == canvas.Pencil },
			action:   func() { a.canvas.SetTool(canvas.Pencil) },
		},
		&ActionButton{
			label:    func() string { return "E:Eraser" },
			selected: func() bool { return a.canvas.ToolState().Tool == canvas.Eraser },
			action:   func() { a.canvas.SetTool(canvas.Eraser) },
		},
		&ActionButton{label: func() string { return "C:Clear" }, action: func() { a.canvas.Clear() }},
		&ActionButton{
			label:   func() string { return "G:Generate" },
			accent:  true,
			enabled: func() bool { return a.studio.GenerateEnabled() },
			action:  generate,
		},
		&ActionButton{
			label:   func() string { return "^C:Copy" },
			enabled: func() bool { return a.studio.Result() != nil },
			action: func() {
				if err := a.studio.CopyResult(); err != nil {
					setMessage("copy: " + err.Error())
				}
			},
		},
	}
	// the style name button keeps the width of the longest style
	styleWidth := 0
	for _, name := range a.studio.Styles() {
		styleWidth = max(styleWidth, render.TextWidth(name, render.LabelFace))
	}
	minWidth := map[Button]int{buttons[1]: styleWidth + 2*buttonPad}
	layoutButtons(buttons, layout.Toolbar, minWidth)

	actions := map[string]func(){
		actionPencil:   func() { a.canvas.SetTool(canvas.Pencil) },
		actionEraser:   func() { a.canvas.SetTool(canvas.Eraser) },
		actionGenerate: generate,
		actionPrev:     func() { a.studio.CycleStyle(-1) },
		actionNext:     func() { a.studio.CycleStyle(1) },
		actionCopy:     buttons[7].Activate,
		actionPaste: func() {
			img, err := a.readClipboard()
			if err != nil {
				setMessage("paste: " + err.Error())
				return
			}
			a.canvas.Load(img)
			setMessage("pasted sketch from clipboard")
		},
		actionCancel: func() { message = "" },
		actionClear: func() {
			if !confirmClear {
				confirmClear = true
				setMessage("press C again to clear")
				return
			}
			a.canvas.Clear()
			message = ""
		},
	}
	km := newKeymap(defaultShortcuts())

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case job.Event:
			a.orch.Deliver(e)
			syncSpinner()
			w.Send(paint.Event{})
		case tickEvent:
			frame++
			w.Send(paint.Event{})
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			layout = ComputeLayout(width, height)
			layoutButtons(buttons, layout.Toolbar, minWidth)
			a.canvas.Resize(layout.CanvasSize())
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			if message != "" && time.Now().After(messageUntil) {
				message = ""
				confirmClear = false
			}
			st := paintState{
				width:   width,
				height:  height,
				layout:  layout,
				buttons: buttons,
				hover:   hover,
				pressed: pressed,
				sketch:  a.canvas.Snapshot(),
				empty:   a.canvas.Empty(),
				tool:    a.canvas.ToolState(),
				view:    a.studio.View(),
				message: message,
				frame:   frame,
				theme:   a.theme,
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if p.In(layout.Toolbar) && !a.canvas.Drawing() {
				idx := hitButton(buttons, p)
				switch {
				case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
					pressed = idx
				case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
					if idx >= 0 && idx == pressed {
						buttons[idx].Activate()
					}
					pressed = -1
				}
				if idx != hover || e.Direction != mouse.DirNone {
					hover = idx
					w.Send(paint.Event{})
				}
				continue
			}
			if hover != -1 || pressed != -1 {
				hover, pressed = -1, -1
				w.Send(paint.Event{})
			}
			if e.Button == mouse.ButtonLeft || e.Button == mouse.ButtonNone {
				if a.handleCanvasMouse(layout, e) {
					w.Send(paint.Event{})
				}
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			action, ok := km.lookup(e)
			if !ok {
				continue
			}
			if action != actionClear {
				confirmClear = false
			}
			if action == actionQuit {
				return
			}
			if fn := actions[action]; fn != nil {
				fn()
			}
			w.Send(paint.Event{})
		case error:
			a.logger.Error("window", logging.Error(e))
		}
	}
}

// handleCanvasMouse maps pointer events in the canvas panel to strokes and
// reports whether a repaint is needed.
func (a *AppState) handleCanvasMouse(l Layout, e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	cp := render.CanvasPoint(l.Canvas, p)
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft || !p.In(l.Canvas) {
			return false
		}
		a.canvas.BeginStroke(cp)
		return true
	case mouse.DirNone:
		if !a.canvas.Drawing() {
			return false
		}
		a.canvas.ExtendStroke(cp)
		return true
	case mouse.DirRelease:
		if !a.canvas.Drawing() {
			return false
		}
		a.canvas.ExtendStroke(cp)
		a.canvas.EndStroke()
		return true
	}
	return false
}
