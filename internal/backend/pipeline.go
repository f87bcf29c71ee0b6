package backend

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
	"go.uber.org/zap"

	"github.com/example/copainter/internal/logging"
	"github.com/example/copainter/internal/style"
)

const (
	DefaultInputSize  = 1024
	DefaultOutputSize = 600
)

// Pipeline prepares a sketch, applies a style and runs an engine.
// It is safe for concurrent use as long as the engine is.
type Pipeline struct {
	engine  Engine
	catalog *style.Catalog
	logger  *zap.Logger

	mu     sync.Mutex
	params Params

	// InputSize is the square edge the sketch is resized to. Zero keeps the sketch size.
	InputSize int
	// OutputSize is the square edge of the returned image. Zero keeps the engine's size.
	OutputSize int
	// Invert turns dark-on-light sketches into light-on-dark scribbles.
	Invert bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithParams sets the base parameters. Prompt and NegativePrompt are the
// user's text before the style template is applied.
func WithParams(p Params) PipelineOption { return func(pl *Pipeline) { pl.params = p } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) PipelineOption { return func(pl *Pipeline) { pl.logger = l } }

// WithSizes sets the input and output edge lengths.
func WithSizes(in, out int) PipelineOption {
	return func(pl *Pipeline) { pl.InputSize, pl.OutputSize = in, out }
}

// WithInvert toggles sketch inversion.
func WithInvert(v bool) PipelineOption { return func(pl *Pipeline) { pl.Invert = v } }

// NewPipeline creates a pipeline around engine using catalog for style lookup.
func NewPipeline(engine Engine, catalog *style.Catalog, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		engine:     engine,
		catalog:    catalog,
		params:     DefaultParams(),
		logger:     logging.Nop(),
		InputSize:  DefaultInputSize,
		OutputSize: DefaultOutputSize,
		Invert:     true,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Engine returns the wrapped engine.
func (p *Pipeline) Engine() Engine { return p.engine }

// SetPrompt replaces the user's prompt text for later generations. The text
// must stay valid once expanded through every style in the catalog.
func (p *Pipeline) SetPrompt(positive, negative string) error {
	if err := ValidatePrompt(positive); err != nil {
		return err
	}
	if err := ValidatePrompt(negative); err != nil {
		return fmt.Errorf("negative prompt: %w", err)
	}
	for _, name := range p.catalog.Names() {
		pos, neg := p.catalog.Apply(name, positive, negative)
		if err := ValidatePrompt(pos); err != nil {
			return fmt.Errorf("with style %q: %w", name, err)
		}
		if err := ValidatePrompt(neg); err != nil {
			return fmt.Errorf("negative prompt with style %q: %w", name, err)
		}
	}
	p.mu.Lock()
	p.params.Prompt, p.params.NegativePrompt = positive, negative
	p.mu.Unlock()
	return nil
}

// Params returns a copy of the base parameters.
func (p *Pipeline) Params() Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// Prompt returns the positive and negative prompts sent for styleName.
func (p *Pipeline) Prompt(styleName string) (string, string) {
	params := p.Params()
	return p.catalog.Apply(styleName, params.Prompt, params.NegativePrompt)
}

// Request builds the engine request for styleName without running it.
func (p *Pipeline) Request(styleName string) (Request, error) {
	params := p.Params()
	params.Prompt, params.NegativePrompt = p.catalog.Apply(styleName, params.Prompt, params.NegativePrompt)
	params.Seed = ResolveSeed(params.Seed)
	if err := ValidateParams(params); err != nil {
		return Request{}, err
	}
	return Request{Params: params, StyleName: styleName}, nil
}

// Prepare resizes and optionally inverts the sketch.
func (p *Pipeline) Prepare(sketch image.Image) image.Image {
	var img image.Image = sketch
	if p.InputSize > 0 {
		img = transform.Resize(img, p.InputSize, p.InputSize, transform.Linear)
	}
	if p.Invert {
		img = effect.Invert(img)
	}
	return img
}

// Generate runs the full pipeline. Every failure wraps ErrGenerationFailed.
func (p *Pipeline) Generate(ctx context.Context, sketch *image.RGBA, styleName string) (image.Image, error) {
	if sketch == nil {
		return nil, fmt.Errorf("%w: no sketch", ErrGenerationFailed)
	}
	req, err := p.Request(styleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	start := time.Now()
	p.logger.Debug("render started",
		zap.String("engine", p.engine.Name()),
		zap.String("style", styleName),
		zap.Int64("seed", req.Seed),
		zap.Int("steps", req.Steps))

	out, err := p.engine.Render(ctx, p.Prepare(sketch), req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s: %w", ErrGenerationFailed, time.Since(start).Round(time.Millisecond), err)
		}
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if out == nil || out.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, ErrEmptyResponse)
	}
	if p.OutputSize > 0 {
		out = transform.Resize(out, p.OutputSize, p.OutputSize, transform.Linear)
	}
	p.logger.Debug("render finished",
		zap.String("engine", p.engine.Name()),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}
