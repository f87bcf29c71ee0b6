// Package notify sends desktop notifications for generation outcomes.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/copainter/internal/logging"
	"github.com/example/copainter/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventGenerated fires when a generation produced an image.
	EventGenerated Event = "generated"
	// EventFailed fires when a generation failed.
	EventFailed Event = "failed"
	// EventCopy fires when an image is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Events: map[Event]EventPreference{
			EventGenerated: {Template: "Generated %s"},
			EventFailed:    {Template: "Generation failed: %s"},
			EventCopy:      {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads overrides from COPAINTER_NOTIFY_* variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("COPAINTER_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("COPAINTER_NOTIFY_GENERATED_TEXT", EventGenerated)
	apply("COPAINTER_NOTIFY_FAILED_TEXT", EventFailed)
	apply("COPAINTER_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts platform.Options) error

// DefaultPreviewTTL is how long a preview file outlives its notification
// being sent. Servers may read image-path after the send call returns.
const DefaultPreviewTTL = 30 * time.Second

// Notifier sends OS-level notifications for enabled events. Sends run on
// their own goroutines so callers on the UI loop never wait on the bus.
type Notifier struct {
	prefs      Preferences
	enabled    map[Event]bool
	send       SendFunc
	logger     *zap.Logger
	previewTTL time.Duration

	wg       sync.WaitGroup
	mu       sync.Mutex
	previews map[string]*time.Timer
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the platform sender.
func WithSender(s SendFunc) Option { return func(n *Notifier) { n.send = s } }

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *zap.Logger) Option { return func(n *Notifier) { n.logger = l } }

// WithPreviewTTL sets how long preview files are kept after sending.
func WithPreviewTTL(d time.Duration) Option { return func(n *Notifier) { n.previewTTL = d } }

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences, opts ...Option) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	n := &Notifier{
		prefs:      cloned,
		enabled:    make(map[Event]bool),
		send:       platform.Notify,
		logger:     logging.Nop(),
		previewTTL: DefaultPreviewTTL,
		previews:   make(map[string]*time.Timer),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Generated announces a finished image, with a preview where supported.
// img must not be modified afterwards; the preview is encoded in the
// background.
func (n *Notifier) Generated(style string, img image.Image) {
	if !n.enabledFor(EventGenerated) {
		return
	}
	n.async(func() {
		opts := platform.Options{Urgency: platform.UrgencyNormal}
		if img != nil {
			if path, err := createPreview(img); err != nil {
				n.logger.Warn("notification preview", logging.Error(err))
			} else {
				opts.IconPath = path
				defer n.expire(path)
			}
		}
		n.deliver(EventGenerated, style, opts)
	})
}

// Failed announces a failed generation.
func (n *Notifier) Failed(err error) {
	if !n.enabledFor(EventFailed) || err == nil {
		return
	}
	detail := logging.Redact(err.Error())
	n.async(func() {
		n.deliver(EventFailed, detail, platform.Options{Urgency: platform.UrgencyCritical})
	})
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.async(func() {
		n.deliver(EventCopy, detail, platform.Options{Urgency: platform.UrgencyLow})
	})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) async(fn func()) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		fn()
	}()
}

// Wait blocks until every notification started so far has been sent.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

// Close waits for pending sends and removes preview files still kept
// alive.
func (n *Notifier) Close() {
	if n == nil {
		return
	}
	n.wg.Wait()
	n.mu.Lock()
	defer n.mu.Unlock()
	for path, timer := range n.previews {
		timer.Stop()
		_ = os.Remove(path)
		delete(n.previews, path)
	}
}

// expire removes the preview at path once the TTL has passed.
func (n *Notifier) expire(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.previews[path] = time.AfterFunc(n.previewTTL, func() {
		n.mu.Lock()
		delete(n.previews, path)
		n.mu.Unlock()
		_ = os.Remove(path)
	})
}

func (n *Notifier) deliver(event Event, detail string, opts platform.Options) {
	pref, ok := n.prefs.Events[event]
	template := strings.TrimSpace(pref.Template)
	if !ok || template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.logger.Warn("notification", zap.String("event", string(event)), logging.Error(err))
	}
}

func createPreview(img image.Image) (string, error) {
	f, err := os.CreateTemp("", "copainter-preview-*.png")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
