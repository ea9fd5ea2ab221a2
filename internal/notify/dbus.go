//go:build linux

package notify

import (
	"sync"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	busMethod = busName + ".Notify"
	busClose  = busName + ".CloseNotification"

	appName = "Wavestream"
)

type dbusNotifier struct {
	obj dbus.BusObject

	mu     sync.Mutex
	byTag  map[string]uint32 // last id shown per tag
	caller func(method string, args ...any) *dbus.Call
}

// New connects to the session bus. Without one it returns a notifier that
// drops everything.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		log.WithError(err).Info("desktop notifications unavailable")
		return nop{}, nil //nolint:nilerr // notifications are optional
	}
	obj := conn.Object(busName, busPath)
	return newDBusNotifier(func(method string, args ...any) *dbus.Call {
		return obj.Call(method, 0, args...)
	}), nil
}

func newDBusNotifier(caller func(method string, args ...any) *dbus.Call) *dbusNotifier {
	return &dbusNotifier{byTag: make(map[string]uint32), caller: caller}
}

// Notify calls Notify(app_name, replaces_id, app_icon, summary, body,
// actions, hints, expire_timeout).
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var replaces uint32
	if notif.Tag != "" {
		replaces = n.byTag[notif.Tag]
	}
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant("wavestream"),
	}

	call := n.caller(busMethod,
		appName, replaces, notif.Icon, notif.Title, notif.Body,
		[]string{}, hints, notif.Timeout)
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	if notif.Tag != "" {
		n.byTag[notif.Tag] = id
	}
	return id, nil
}

// Close withdraws the notification with the given id.
func (n *dbusNotifier) Close(id uint32) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for tag, shown := range n.byTag {
		if shown == id {
			delete(n.byTag, tag)
		}
	}
	return n.caller(busClose, id).Err
}
