// Package job runs one image generation at a time off the interactive
// goroutine and reports back through posted events.
//
// The worker never calls listeners directly. It posts Events to a Poster
// (the window's event queue, or a Mailbox) and the interactive goroutine
// hands each one to Orchestrator.Deliver, which invokes the Listener. For
// every job the listener sees JobProgress, then exactly one of JobSucceeded
// or JobFailed, then JobFinished.
package job

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrBusy is returned by Submit while another job holds the slot.
	ErrBusy = errors.New("job: a generation is already running")
	// ErrNilSketch is returned by Submit when no image is supplied.
	ErrNilSketch = errors.New("job: sketch is required")
	// ErrNoImage reports a generator that returned neither image nor error.
	ErrNoImage = errors.New("job: generator returned no image")
	// ErrPanic wraps a recovered generator panic.
	ErrPanic = errors.New("job: generator panicked")
)

// StatusGenerating is the progress text posted when work starts.
const StatusGenerating = "generating…"

// State is the lifecycle of a job.
type State int32

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Generator produces an image from a sketch and a style name.
type Generator interface {
	Generate(ctx context.Context, sketch *image.RGBA, style string) (image.Image, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, sketch *image.RGBA, style string) (image.Image, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, sketch *image.RGBA, style string) (image.Image, error) {
	return f(ctx, sketch, style)
}

// Poster queues an event for the interactive goroutine. shiny's
// screen.Window satisfies it.
type Poster interface {
	Send(event interface{})
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(event interface{})

// Send implements Poster.
func (f PosterFunc) Send(event interface{}) { f(event) }

// Listener receives job callbacks on the interactive goroutine.
type Listener interface {
	JobProgress(h *Handle, status string)
	JobSucceeded(h *Handle, img image.Image)
	JobFailed(h *Handle, err error)
	JobFinished(h *Handle)
}

// Kind identifies an Event.
type Kind int

const (
	KindProgress Kind = iota
	KindResult
	KindError
	KindFinished
)

func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindResult:
		return "result"
	case KindError:
		return "error"
	case KindFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is posted by the worker and consumed by Orchestrator.Deliver.
type Event struct {
	Job    *Handle
	Kind   Kind
	Status string
	Image  image.Image
	Err    error
}

const (
	sawProgress uint8 = 1 << iota
	sawOutcome
	sawFinished
)

// Handle identifies a submitted job.
type Handle struct {
	ID        string
	Style     string
	Submitted time.Time

	state atomic.Int32
	done  atomic.Bool

	mu       sync.Mutex
	err      error
	finished time.Time

	// seen is only touched by Deliver on the interactive goroutine.
	seen uint8
}

// State returns the job's current state as last delivered.
func (h *Handle) State() State { return State(h.state.Load()) }

// Done reports whether the finished callback has been delivered.
func (h *Handle) Done() bool { return h.done.Load() }

// Err returns the failure delivered for the job, if any.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Duration is the time from submission to finish, or to now while running.
func (h *Handle) Duration() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished.IsZero() {
		return time.Since(h.Submitted)
	}
	return h.finished.Sub(h.Submitted)
}
