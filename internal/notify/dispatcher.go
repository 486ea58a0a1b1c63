package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Dispatcher delivers events to some notification surface. Delivery is
// fire-and-forget: implementations must not block on retries and no
// delivery confirmation is consumed.
type Dispatcher interface {
	Deliver(event Event)
}

// DesktopDispatcher shows OS desktop notifications.
type DesktopDispatcher struct{}

// NewDesktopDispatcher creates a desktop notification dispatcher.
func NewDesktopDispatcher() *DesktopDispatcher {
	return &DesktopDispatcher{}
}

// Deliver shows the event as a desktop notification. Failures are logged
// and dropped.
func (*DesktopDispatcher) Deliver(event Event) {
	if err := beeep.Notify(event.Title(), event.Body(), ""); err != nil {
		slog.Warn("Failed to deliver desktop notification",
			"event", event.ID(),
			"error", err)
	}
}

// LogDispatcher writes events to the structured log. It is the fallback
// for headless environments.
type LogDispatcher struct{}

// NewLogDispatcher creates a log-backed dispatcher.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

// Deliver logs the event.
func (*LogDispatcher) Deliver(event Event) {
	slog.Info("Deployment event",
		"type", string(event.Type),
		"project", event.Project.Name,
		"service", string(event.Project.Service),
		"body", event.Body(),
		"url", event.TargetURL())
}

// Preferences gates which event types are delivered.
type Preferences struct {
	Enabled        bool
	OnBuildStart   bool
	OnBuildSuccess bool
	OnBuildFailure bool
}

// FilteredDispatcher wraps a Dispatcher and drops events the user has
// disabled.
type FilteredDispatcher struct {
	next  Dispatcher
	prefs Preferences
}

// NewFilteredDispatcher wraps next with the given preferences.
func NewFilteredDispatcher(next Dispatcher, prefs Preferences) *FilteredDispatcher {
	return &FilteredDispatcher{next: next, prefs: prefs}
}

// Deliver forwards the event unless its type is disabled.
func (d *FilteredDispatcher) Deliver(event Event) {
	if !d.prefs.Enabled {
		return
	}
	switch event.Type {
	case EventBuildStarted:
		if !d.prefs.OnBuildStart {
			return
		}
	case EventBuildSucceeded:
		if !d.prefs.OnBuildSuccess {
			return
		}
	case EventBuildFailed:
		if !d.prefs.OnBuildFailure {
			return
		}
	}
	d.next.Deliver(event)
}
