// Package overlay implements the display-scheduling state machine that
// drives the status strip.
//
// The scheduler pulls messages from the pending queue, decides which one is
// currently shown and for how long, enforces a minimum-visible-time floor
// during bursts, and archives finished texts into the history log. Rendering
// is delegated to a Presenter and lifecycle observation to a Delegate; both
// are called strictly outside the scheduler's lock, on the control goroutine.
package overlay
