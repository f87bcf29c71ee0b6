package appstate

import (
	"sync"

	"golang.org/x/exp/shiny/screen"
)

// windowPoster forwards job events to the window once it exists. Events
// posted before then are queued; events after close are dropped.
type windowPoster struct {
	mu      sync.Mutex
	w       screen.Window
	closed  bool
	pending []interface{}
}

func (p *windowPoster) Send(event interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.w != nil:
		p.w.Send(event)
	case !p.closed:
		p.pending = append(p.pending, event)
	}
}

// attach starts forwarding to w and flushes queued events. A nil w closes
// the poster.
func (p *windowPoster) attach(w screen.Window) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.w = w
	if w == nil {
		p.closed = true
		p.pending = nil
		return
	}
	for _, ev := range p.pending {
		w.Send(ev)
	}
	p.pending = nil
}
