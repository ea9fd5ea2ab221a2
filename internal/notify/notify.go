// Package notify sends desktop notifications over the freedesktop D-Bus
// interface.
package notify

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop notification.
type Notification struct {
	Title   string
	Body    string
	Icon    string  // image path or icon name
	Timeout int32   // ms; -1 server default, 0 never expires
	Urgency Urgency

	// Tag groups notifications: a new one replaces the last one shown
	// with the same tag. Empty means never replace.
	Tag string
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its server id, 0 when nothing was shown.
	Notify(n Notification) (uint32, error)
	// Close withdraws a notification.
	Close(id uint32) error
}

// nop is the Notifier used where no notification server is reachable.
type nop struct{}

func (nop) Notify(Notification) (uint32, error) { return 0, nil }

func (nop) Close(uint32) error { return nil }
