package overlay

import (
	"github.com/statusstrip/statusstrip/internal/model"
)

// Style carries the rendering context for a message. The presenter decides
// what the style means visually; the scheduler only decides what it is.
type Style struct {
	Kind          model.Kind
	Shrunk        bool
	DetailVisible bool
}

// Presenter renders whatever the scheduler decides. Implementations must not
// block; all methods are invoked from the scheduler's control goroutine.
type Presenter interface {
	// Appear makes the strip visible.
	Appear(animated bool)
	// Disappear hides the strip.
	Disappear(animated bool)
	// RenderMessage displays the given text with the given style.
	RenderMessage(text string, style Style, animated bool)
	// SetProgress updates the progress fraction in [0,1].
	SetProgress(fraction float64)
	// SetBusyIndicatorVisible toggles the activity indicator.
	SetBusyIndicatorVisible(visible bool)
	// SetFinishedGlyph shows the terminal glyph for a Finish/Error message.
	SetFinishedGlyph(kind model.Kind)
	// SetLayout communicates collapsed-form and detail-panel changes that
	// happen independently of message flow.
	SetLayout(shrunk, detailVisible bool)
}

// Delegate observes scheduler lifecycle events. Implementations must not
// block; all methods are invoked from the scheduler's control goroutine.
type Delegate interface {
	// GestureRecognized is called for every user gesture, before the
	// display-mode policy is applied.
	GestureRecognized(gesture Gesture)
	// Hidden is called after the strip has been hidden and the scheduler
	// returned to idle.
	Hidden()
	// MessageSwitched is called after a visible message was replaced by a
	// new one. oldText is empty when nothing was previously shown.
	MessageSwitched(oldText, newText string)
	// QueueCleared reports messages dropped by immediate-post preemption,
	// in removal order. These are data, not errors.
	QueueCleared(dropped []model.Message)
}

// NopPresenter is a Presenter that does nothing. Useful for headless use
// and tests.
type NopPresenter struct{}

func (NopPresenter) Appear(bool)                            {}
func (NopPresenter) Disappear(bool)                         {}
func (NopPresenter) RenderMessage(string, Style, bool)      {}
func (NopPresenter) SetProgress(float64)                    {}
func (NopPresenter) SetBusyIndicatorVisible(bool)           {}
func (NopPresenter) SetFinishedGlyph(model.Kind)            {}
func (NopPresenter) SetLayout(bool, bool)                   {}

// NopDelegate is a Delegate that ignores every event.
type NopDelegate struct{}

func (NopDelegate) GestureRecognized(Gesture)        {}
func (NopDelegate) Hidden()                          {}
func (NopDelegate) MessageSwitched(string, string)   {}
func (NopDelegate) QueueCleared([]model.Message)     {}

// SettingsStore persists the collapsed-form flag across restarts. It is the
// only state that survives process exit.
type SettingsStore interface {
	// Shrunk returns the persisted collapsed-form flag.
	Shrunk() bool
	// SetShrunk persists a new collapsed-form flag.
	SetShrunk(shrunk bool)
}

// nopSettings is the default in-memory SettingsStore.
type nopSettings struct {
	shrunk bool
}

func (s *nopSettings) Shrunk() bool          { return s.shrunk }
func (s *nopSettings) SetShrunk(shrunk bool) { s.shrunk = shrunk }
