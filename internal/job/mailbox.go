package job

import (
	"context"
)

// DefaultMailboxSize holds every event of one job without blocking the worker.
const DefaultMailboxSize = 16

// Mailbox is a channel-backed Poster for programs without a window event
// loop. The owner drains it with Next or Poll and passes job events to
// Orchestrator.Deliver.
type Mailbox struct {
	ch chan interface{}
}

// NewMailbox creates a mailbox buffering size events.
func NewMailbox(size int) *Mailbox {
	if size <= 0 {
		size = DefaultMailboxSize
	}
	return &Mailbox{ch: make(chan interface{}, size)}
}

// Send implements Poster. It blocks while the mailbox is full.
func (m *Mailbox) Send(event interface{}) { m.ch <- event }

// Next waits for the next event.
func (m *Mailbox) Next(ctx context.Context) (interface{}, error) {
	select {
	case ev := <-m.ch:
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Poll returns a queued event without waiting.
func (m *Mailbox) Poll() (interface{}, bool) {
	select {
	case ev := <-m.ch:
		return ev, true
	default:
		return nil, false
	}
}

// Wait delivers events from m until h has finished or ctx ends.
// Events that are not job events are discarded.
func (o *Orchestrator) Wait(ctx context.Context, m *Mailbox, h *Handle) error {
	for !h.Done() {
		ev, err := m.Next(ctx)
		if err != nil {
			return err
		}
		if e, ok := ev.(Event); ok {
			o.Deliver(e)
		}
	}
	return nil
}
