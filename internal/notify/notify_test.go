package notify

import (
	"errors"
	"image"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/example/copainter/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func capture(out *[]sent) SendFunc {
	var mu sync.Mutex
	return func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		mu.Lock()
		*out = append(*out, s)
		mu.Unlock()
		return nil
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got)))
	n.Generated("Anime", nil)
	n.Failed(errors.New("boom"))
	n.Copy("")
	n.Wait()
	if len(got) != 0 {
		t.Fatalf("expected no notifications, got %+v", got)
	}
}

func TestGeneratedWithPreview(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got)))
	n.Enable(EventGenerated, true)
	n.Generated("Anime", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	n.Wait()
	if len(got) != 1 {
		t.Fatalf("expected one notification, got %d", len(got))
	}
	if got[0].title != platform.AppName || got[0].body != "Generated Anime" {
		t.Errorf("unexpected notification %+v", got[0])
	}
	if !got[0].iconExisted {
		t.Error("expected preview file to exist during send")
	}
	if _, err := os.Stat(got[0].opts.IconPath); err != nil {
		t.Errorf("preview should outlive the send call: %v", err)
	}
	n.Close()
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Errorf("expected Close to remove the preview, stat err = %v", err)
	}
}

func TestPreviewRemovedAfterTTL(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got)), WithPreviewTTL(10*time.Millisecond))
	n.Enable(EventGenerated, true)
	n.Generated("Manga", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	n.Wait()
	if len(got) != 1 {
		t.Fatalf("expected one notification, got %d", len(got))
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(got[0].opts.IconPath); os.IsNotExist(err) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("preview %s was not removed", got[0].opts.IconPath)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSendDoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	n := New(DefaultPreferences(), WithSender(func(string, string, platform.Options) error {
		started <- struct{}{}
		<-release
		return nil
	}))
	n.Enable(EventGenerated, true)

	returned := make(chan struct{})
	go func() {
		n.Generated("Anime", image.NewRGBA(image.Rect(0, 0, 8, 8)))
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Generated blocked on a slow sender")
	}
	<-started
	close(release)
	n.Close()
}

func TestFailedRedactsAndIsCritical(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got)))
	n.Enable(EventFailed, true)
	n.Failed(errors.New("401 for key sk-abcdefghijklmnopqrstuvwxyz"))
	n.Wait()
	if len(got) != 1 {
		t.Fatalf("expected one notification, got %d", len(got))
	}
	if got[0].opts.Urgency != platform.UrgencyCritical {
		t.Errorf("expected critical urgency, got %v", got[0].opts.Urgency)
	}
	if want := "Generation failed: 401 for key [REDACTED]"; got[0].body != want {
		t.Errorf("body = %q, want %q", got[0].body, want)
	}
}

func TestCopyDefaultDetail(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got)))
	n.Enable(EventCopy, true)
	n.Copy("  ")
	n.Wait()
	if len(got) != 1 || got[0].body != "Copied image to clipboard" {
		t.Fatalf("unexpected notifications %+v", got)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("COPAINTER_NOTIFY_TITLE", "Sketchbook")
	t.Setenv("COPAINTER_NOTIFY_GENERATED_TEXT", "Done: %s")
	prefs := LoadPreferences()
	if prefs.Title != "Sketchbook" {
		t.Errorf("title = %q", prefs.Title)
	}
	if prefs.Events[EventGenerated].Template != "Done: %s" {
		t.Errorf("template = %q", prefs.Events[EventGenerated].Template)
	}
	if prefs.Events[EventFailed].Template == "" {
		t.Error("failed template lost")
	}
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	n.Enable(EventCopy, true)
	n.Copy("image")
	n.Failed(errors.New("x"))
	n.Wait()
	n.Close()
}
