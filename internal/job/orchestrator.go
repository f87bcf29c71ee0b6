package job

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/copainter/internal/logging"
)

// Orchestrator owns the single job slot.
type Orchestrator struct {
	gen      Generator
	post     Poster
	listener Listener
	logger   *zap.Logger
	timeout  time.Duration

	busy    atomic.Bool
	current atomic.Pointer[Handle]
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(o *Orchestrator) { o.logger = l } }

// WithTimeout bounds each generation. Zero means no limit.
func WithTimeout(d time.Duration) Option { return func(o *Orchestrator) { o.timeout = d } }

// WithListener sets the callback target.
func WithListener(l Listener) Option { return func(o *Orchestrator) { o.listener = l } }

// New creates an orchestrator posting events through post.
func New(gen Generator, post Poster, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:    gen,
		post:   post,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetListener replaces the callback target. Call it before the first Submit.
func (o *Orchestrator) SetListener(l Listener) { o.listener = l }

// Busy reports whether a job holds the slot.
func (o *Orchestrator) Busy() bool { return o.busy.Load() }

// Current returns the running job, or nil.
func (o *Orchestrator) Current() *Handle { return o.current.Load() }

// Submit starts generating from a copy of sketch. It fails with ErrBusy
// while a previous job has not had its finished callback delivered.
func (o *Orchestrator) Submit(sketch *image.RGBA, style string) (*Handle, error) {
	if sketch == nil {
		return nil, ErrNilSketch
	}
	if !o.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	h := &Handle{ID: uuid.NewString(), Style: style, Submitted: time.Now()}
	h.state.Store(int32(Running))
	o.current.Store(h)

	img := clone.AsRGBA(sketch)
	o.logger.Info("generation submitted",
		zap.String("job", h.ID),
		zap.String("style", style),
		zap.Stringer("size", img.Bounds().Size()))
	go o.run(h, img)
	return h, nil
}

func (o *Orchestrator) run(h *Handle, sketch *image.RGBA) {
	o.post.Send(Event{Job: h, Kind: KindProgress, Status: StatusGenerating})
	img, err := o.generate(h, sketch)
	if err != nil {
		o.post.Send(Event{Job: h, Kind: KindError, Err: err})
	} else {
		o.post.Send(Event{Job: h, Kind: KindResult, Image: img})
	}
	o.post.Send(Event{Job: h, Kind: KindFinished})
}

func (o *Orchestrator) generate(h *Handle, sketch *image.RGBA) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	ctx := context.Background()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	img, err = o.gen.Generate(ctx, sketch, h.Style)
	if err == nil && img == nil {
		err = ErrNoImage
	}
	return img, err
}

// Deliver routes a posted event to the listener. It must run on the
// interactive goroutine. Events out of order or repeated for a job are
// dropped and false is returned. The slot is released before JobFinished
// runs so the listener may submit again from that callback.
func (o *Orchestrator) Deliver(ev Event) bool {
	h := ev.Job
	if h == nil {
		return false
	}
	switch ev.Kind {
	case KindProgress:
		if h.seen != 0 {
			return false
		}
		h.seen |= sawProgress
		if o.listener != nil {
			o.listener.JobProgress(h, ev.Status)
		}
	case KindResult, KindError:
		if h.seen&(sawOutcome|sawFinished) != 0 {
			return false
		}
		h.seen |= sawOutcome
		o.deliverOutcome(h, ev)
	case KindFinished:
		if h.seen&sawFinished != 0 {
			return false
		}
		if h.seen&sawOutcome == 0 {
			h.seen |= sawOutcome
			o.deliverOutcome(h, Event{Job: h, Kind: KindError, Err: ErrNoImage})
		}
		h.seen |= sawFinished
		h.mu.Lock()
		h.finished = time.Now()
		h.mu.Unlock()
		h.done.Store(true)
		if o.current.CompareAndSwap(h, nil) {
			o.busy.Store(false)
		}
		o.logger.Debug("generation finished",
			zap.String("job", h.ID),
			zap.Stringer("state", h.State()),
			zap.Duration("elapsed", h.Duration()))
		if o.listener != nil {
			o.listener.JobFinished(h)
		}
	default:
		return false
	}
	return true
}

func (o *Orchestrator) deliverOutcome(h *Handle, ev Event) {
	if ev.Kind == KindResult && ev.Image != nil {
		h.state.Store(int32(Succeeded))
		o.logger.Info("generation succeeded",
			zap.String("job", h.ID),
			zap.Stringer("size", ev.Image.Bounds().Size()))
		if o.listener != nil {
			o.listener.JobSucceeded(h, ev.Image)
		}
		return
	}
	err := ev.Err
	if err == nil {
		err = ErrNoImage
	}
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	h.state.Store(int32(Failed))
	o.logger.Error("generation failed", zap.String("job", h.ID), logging.Error(err))
	if o.listener != nil {
		o.listener.JobFailed(h, err)
	}
}
