// Package studio turns job lifecycle callbacks into the state the window
// draws: whether generate is enabled, what the output area shows and the
// status line.
//
// A Studio is owned by the interactive goroutine, like the canvas. Its
// Listener methods are invoked by job.Orchestrator.Deliver on that same
// goroutine.
package studio

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/example/copainter/internal/job"
	"github.com/example/copainter/internal/logging"
	"github.com/example/copainter/internal/notify"
	"github.com/example/copainter/internal/style"
)

// Output is what the output area shows.
type Output int

const (
	OutputPlaceholder Output = iota
	OutputLoading
	OutputResult
)

func (o Output) String() string {
	switch o {
	case OutputPlaceholder:
		return "placeholder"
	case OutputLoading:
		return "loading"
	case OutputResult:
		return "result"
	default:
		return "unknown"
	}
}

const (
	StatusReady     = "ready"
	StatusDone      = "done"
	MessageNoStyle  = "please select a style"
	MessageNoResult = "nothing to copy yet"
)

// Submitter starts a generation. job.Orchestrator implements it.
type Submitter interface {
	Submit(sketch *image.RGBA, style string) (*job.Handle, error)
}

// Sketch provides the image to generate from. canvas.Canvas implements it.
type Sketch interface {
	Snapshot() *image.RGBA
}

// PromptSink receives the user's prompt text. backend.Pipeline implements it.
type PromptSink interface {
	SetPrompt(positive, negative string) error
}

// View is an immutable copy of the presentation state.
type View struct {
	Style           string
	GenerateEnabled bool
	Output          Output
	Result          image.Image
	Status          string
	Err             error
	Job             *job.Handle
}

// Loading reports whether the loading indicator is shown.
func (v View) Loading() bool { return v.Output == OutputLoading }

// Studio holds presentation state for one window.
type Studio struct {
	catalog  *style.Catalog
	submit   Submitter
	sketch   Sketch
	prompts  PromptSink
	notifier *notify.Notifier
	copyImg  func(image.Image) error
	logger   *zap.Logger

	style    string
	positive string
	negative string
	enabled  bool
	output   Output
	result   image.Image
	status   string
	err      error
	current  *job.Handle
	onChange func()
}

// Option configures a Studio.
type Option func(*Studio)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Studio) { s.logger = l } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(s *Studio) { s.notifier = n } }

// WithPromptSink forwards SetPrompt to p.
func WithPromptSink(p PromptSink) Option { return func(s *Studio) { s.prompts = p } }

// WithClipboard sets the function CopyResult writes through.
func WithClipboard(f func(image.Image) error) Option { return func(s *Studio) { s.copyImg = f } }

// WithOnChange registers a callback run after every state change, typically
// to schedule a repaint.
func WithOnChange(f func()) Option { return func(s *Studio) { s.onChange = f } }

// New creates a Studio with the style selector on the catalog default.
func New(catalog *style.Catalog, submit Submitter, sketch Sketch, opts ...Option) *Studio {
	s := &Studio{
		catalog: catalog,
		submit:  submit,
		sketch:  sketch,
		logger:  logging.Nop(),
		style:   catalog.Default().Name,
		enabled: true,
		status:  StatusReady,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Styles returns the catalog's style names in order.
func (s *Studio) Styles() []string { return s.catalog.Names() }

// Style returns the selected style name.
func (s *Studio) Style() string { return s.style }

// SelectStyle sets the selected style. Names are checked on Generate.
func (s *Studio) SelectStyle(name string) {
	s.style = name
	s.changed()
}

// CycleStyle moves the selection by delta through the catalog, wrapping.
func (s *Studio) CycleStyle(delta int) {
	names := s.catalog.Names()
	idx := 0
	for i, n := range names {
		if n == s.style {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(names) + len(names)) % len(names)
	s.SelectStyle(names[idx])
}

// SetPrompt stores extra prompt text applied through the style template.
func (s *Studio) SetPrompt(positive, negative string) error {
	if s.prompts != nil {
		if err := s.prompts.SetPrompt(positive, negative); err != nil {
			ve := &ValidationError{Field: "prompt", Message: err.Error()}
			s.fail(ve)
			return ve
		}
	}
	s.positive, s.negative = positive, negative
	return nil
}

// Prompt returns the stored prompt text.
func (s *Studio) Prompt() (string, string) { return s.positive, s.negative }

// Generate validates the selection and submits a snapshot of the sketch.
// Validation failures are returned as *ValidationError and shown in the
// status line; no job is created for them.
func (s *Studio) Generate() (*job.Handle, error) {
	if !s.enabled {
		return nil, ErrGenerateDisabled
	}
	if err := s.validate(); err != nil {
		s.fail(err)
		return nil, err
	}

	s.enabled = false
	s.output = OutputLoading
	s.err = nil
	s.status = job.StatusGenerating
	s.changed()

	h, err := s.submit.Submit(s.sketch.Snapshot(), s.style)
	if err != nil {
		s.enabled = true
		s.output = s.restingOutput()
		s.fail(err)
		return nil, err
	}
	s.current = h
	return h, nil
}

func (s *Studio) validate() error {
	if s.catalog.IsDefault(s.style) {
		return &ValidationError{Field: "style", Message: MessageNoStyle}
	}
	if !s.catalog.Has(s.style) {
		ve := &ValidationError{Field: "style", Message: fmt.Sprintf("unknown style %q", s.style)}
		if sug, ok := s.catalog.Suggest(s.style); ok && !s.catalog.IsDefault(sug) {
			ve.Suggestion = sug
		}
		return ve
	}
	return nil
}

func (s *Studio) restingOutput() Output {
	if s.result != nil {
		return OutputResult
	}
	return OutputPlaceholder
}

// JobProgress implements job.Listener.
func (s *Studio) JobProgress(h *job.Handle, status string) {
	if !s.owns(h) {
		return
	}
	if status != "" {
		s.status = status
	}
	s.changed()
}

// JobSucceeded implements job.Listener.
func (s *Studio) JobSucceeded(h *job.Handle, img image.Image) {
	if !s.owns(h) {
		return
	}
	s.result = img
	s.output = OutputResult
	s.status = StatusDone
	s.err = nil
	s.notifier.Generated(h.Style, img)
	s.changed()
}

// JobFailed implements job.Listener.
func (s *Studio) JobFailed(h *job.Handle, err error) {
	if !s.owns(h) {
		return
	}
	s.output = s.restingOutput()
	s.logger.Error("generation failed",
		zap.String("job", h.ID),
		zap.String("style", h.Style),
		logging.Error(err))
	s.notifier.Failed(err)
	s.fail(err)
}

// JobFinished implements job.Listener. It always re-enables generate.
func (s *Studio) JobFinished(h *job.Handle) {
	if !s.owns(h) {
		return
	}
	s.enabled = true
	if s.output == OutputLoading {
		s.output = s.restingOutput()
	}
	s.current = nil
	s.changed()
}

func (s *Studio) owns(h *job.Handle) bool {
	return s.current == nil || s.current == h
}

// CopyResult writes the last result to the clipboard.
func (s *Studio) CopyResult() error {
	if s.result == nil {
		return errors.New(MessageNoResult)
	}
	if s.copyImg == nil {
		return errors.New("clipboard is not available")
	}
	if err := s.copyImg(s.result); err != nil {
		s.logger.Warn("copy result", logging.Error(err))
		return err
	}
	s.status = "copied to clipboard"
	s.notifier.Copy("image")
	s.changed()
	return nil
}

// Result returns the last generated image, or nil.
func (s *Studio) Result() image.Image { return s.result }

// GenerateEnabled reports whether the generate control accepts clicks.
func (s *Studio) GenerateEnabled() bool { return s.enabled }

// View returns a copy of the presentation state.
func (s *Studio) View() View {
	return View{
		Style:           s.style,
		GenerateEnabled: s.enabled,
		Output:          s.output,
		Result:          s.result,
		Status:          s.status,
		Err:             s.err,
		Job:             s.current,
	}
}

func (s *Studio) fail(err error) {
	s.err = err
	s.status = logging.Redact(err.Error())
	if !IsValidation(err) {
		s.status = "generation failed: " + s.status
	}
	s.changed()
}

func (s *Studio) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
