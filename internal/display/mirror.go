package display

import (
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/statusstrip/statusstrip/internal/model"
	"github.com/statusstrip/statusstrip/internal/overlay"
)

const (
	notifyDest      = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyInterface = "org.freedesktop.Notifications"
)

// urgency levels per the freedesktop notification spec.
const (
	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

// Notifier sends a desktop notification and returns its ID.
type Notifier interface {
	Notify(summary, body string, urgency byte, replacesID uint32) (uint32, error)
}

// Mirror forwards Finish and Error announcements to the desktop notification
// service. Activity messages and all other presenter traffic are ignored.
// A consecutive announcement replaces the previous one instead of stacking.
type Mirror struct {
	overlay.NopPresenter

	notifier Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	lastID uint32
}

// NewMirror creates a Mirror on the session bus. When the bus is unavailable
// the mirror degrades to a no-op rather than failing.
func NewMirror(logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		logger.Warn("session bus unavailable, desktop mirror disabled", "error", err)
		return &Mirror{notifier: stubNotifier{}, logger: logger}
	}

	return &Mirror{
		notifier: &dbusNotifier{obj: conn.Object(notifyDest, notifyPath)},
		logger:   logger,
	}
}

// NewMirrorWithNotifier creates a Mirror using the given notifier.
func NewMirrorWithNotifier(n Notifier, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{notifier: n, logger: logger}
}

// RenderMessage mirrors terminal announcements. The bus call runs off the
// caller's goroutine; presenter methods must not block.
func (m *Mirror) RenderMessage(text string, style overlay.Style, _ bool) {
	var summary string
	var urgency byte
	switch style.Kind {
	case model.KindFinish:
		summary = "Done"
		urgency = urgencyNormal
	case model.KindError:
		summary = "Error"
		urgency = urgencyCritical
	default:
		return
	}

	go m.send(summary, text, urgency)
}

func (m *Mirror) send(summary, body string, urgency byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.notifier.Notify(summary, body, urgency, m.lastID)
	if err != nil {
		m.logger.Warn("failed to mirror notification", "summary", summary, "error", err)
		return
	}
	m.lastID = id
}

// dbusNotifier talks to org.freedesktop.Notifications.
type dbusNotifier struct {
	obj dbus.BusObject
}

func (n *dbusNotifier) Notify(summary, body string, urgency byte, replacesID uint32) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(urgency),
		"desktop-entry": dbus.MakeVariant("statusstrip"),
	}

	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
	call := n.obj.Call(
		notifyInterface+".Notify",
		0,
		"statusstrip",
		replacesID,
		"",
		summary,
		body,
		[]string{},
		hints,
		int32(-1),
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// stubNotifier is used when the session bus is unavailable.
type stubNotifier struct{}

func (stubNotifier) Notify(string, string, byte, uint32) (uint32, error) {
	return 0, nil
}
