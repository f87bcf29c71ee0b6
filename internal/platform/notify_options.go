// Package platform sends desktop notifications through the host's
// notification service.
package platform

import "time"

// AppName identifies the application to notification centres.
const AppName = "Copainter"

// Urgency is the freedesktop urgency level of a notification.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown with the
	// notification where supported.
	IconPath string
	// Urgency is honoured by freedesktop servers only.
	Urgency Urgency
	// Expire is how long the notification stays up. Zero uses five seconds.
	Expire time.Duration
}

func (o Options) expireMillis() int32 {
	if o.Expire <= 0 {
		return 5000
	}
	return int32(o.Expire / time.Millisecond)
}
