package overlay

import (
	"fmt"

	"github.com/statusstrip/statusstrip/internal/model"
)

// Phase is the scheduler's position in the display lifecycle.
type Phase int

const (
	// PhaseIdle means no message is active. The queue may be non-empty.
	PhaseIdle Phase = iota
	// PhaseShowing means a message is visibly presented.
	PhaseShowing
	// PhasePendingAutoHide means a Finish/Error message is shown and the
	// hide timer is armed.
	PhasePendingAutoHide
	// PhaseForcedHidden means the overlay is externally suspended. Posts are
	// still accepted but nothing renders.
	PhaseForcedHidden
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShowing:
		return "showing"
	case PhasePendingAutoHide:
		return "pending-auto-hide"
	case PhaseForcedHidden:
		return "forced-hidden"
	default:
		return "unknown"
	}
}

// DisplayMode selects how user interaction maps onto the collapsed form and
// the detail panel.
type DisplayMode string

const (
	// ModeNone disables interaction; the detail panel is always closed.
	ModeNone DisplayMode = "none"
	// ModeCollapseOnTouch keeps the detail panel closed and lets a tap
	// toggle the collapsed (shrunk) form.
	ModeCollapseOnTouch DisplayMode = "collapse-on-touch"
	// ModeDetailOnTouch forces the collapsed form off and lets a tap toggle
	// the detail panel.
	ModeDetailOnTouch DisplayMode = "detail-on-touch"
)

// ParseDisplayMode converts a config string into a DisplayMode.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(s) {
	case ModeNone, ModeCollapseOnTouch, ModeDetailOnTouch:
		return DisplayMode(s), nil
	default:
		return "", fmt.Errorf("invalid display mode %q, must be one of: %v",
			s, []DisplayMode{ModeNone, ModeCollapseOnTouch, ModeDetailOnTouch})
	}
}

// Gesture is a user-interaction event forwarded from the presenter.
type Gesture int

const (
	// GestureTap is a single tap/click on the strip.
	GestureTap Gesture = iota
)

// String returns the string representation of Gesture.
func (g Gesture) String() string {
	switch g {
	case GestureTap:
		return "tap"
	default:
		return "unknown"
	}
}

// OverlayState is the scheduler-owned mutable display state. It is created
// once and lives for the process lifetime; Snapshot returns copies of it.
type OverlayState struct {
	// Active is the message currently being shown, nil when idle.
	Active *model.Message

	// Busy reports whether the activity indicator is visible.
	Busy bool

	// Shrunk reports the collapsed display form. Seeded from the settings
	// store at startup and persisted on change.
	Shrunk bool

	// DetailVisible reports whether the detail panel is open.
	DetailVisible bool

	// ForcedHidden reports external suspension.
	ForcedHidden bool

	// Progress is the current progress fraction in [0,1]. Monotonically
	// non-decreasing except when explicitly reset to exactly 0.
	Progress float64

	// LastShownText is the text most recently handed to the presenter.
	LastShownText string
}

// clone returns a copy safe to hand out, with Active deep-copied.
func (s OverlayState) clone() OverlayState {
	if s.Active != nil {
		active := *s.Active
		s.Active = &active
	}
	return s
}
