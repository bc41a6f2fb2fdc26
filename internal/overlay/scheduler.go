package overlay

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/statusstrip/statusstrip/internal/history"
	"github.com/statusstrip/statusstrip/internal/model"
	"github.com/statusstrip/statusstrip/internal/queue"
)

// Config holds the scheduler's timing knobs.
type Config struct {
	// MinimumVisibleTime is the floor a message must remain visible before
	// the next one may be shown. Prevents illegible flicker during bursts.
	MinimumVisibleTime time.Duration

	// CrossfadeDuration is the transition interval after a message switch,
	// after which the replaced text is archived and the delegate notified.
	CrossfadeDuration time.Duration
}

// DefaultConfig returns the default timing configuration.
func DefaultConfig() Config {
	return Config{
		MinimumVisibleTime: 400 * time.Millisecond,
		CrossfadeDuration:  300 * time.Millisecond,
	}
}

// withDefaults fills unset or invalid fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MinimumVisibleTime <= 0 {
		c.MinimumVisibleTime = def.MinimumVisibleTime
	}
	if c.CrossfadeDuration <= 0 {
		c.CrossfadeDuration = def.CrossfadeDuration
	}
	return c
}

// switchRecord is a message switch whose crossfade has not elapsed yet. The
// old text is archived and the delegate notified when it completes.
type switchRecord struct {
	oldText string
	newText string
}

// Scheduler is the display-scheduling state machine. It owns the pending
// queue, the history log, and the overlay state, and decides which message
// is shown and for how long.
//
// All state transitions and all queue mutations run on one control
// goroutine; Post and PostImmediate marshal their work onto it and return
// immediately. The invariant throughout is that the
// actively shown message remains the queue head until it finishes, so the
// immediate-post purge never removes what is on screen.
type Scheduler struct {
	logger    *slog.Logger
	presenter Presenter
	delegate  Delegate
	settings  SettingsStore

	queue   *queue.Queue
	history *history.Log

	mu             sync.Mutex
	cfg            Config
	phase          Phase
	ov             OverlayState
	mode           DisplayMode
	visible        bool
	historyEnabled bool
	lastSwitch     time.Time
	pendingSwitch  *switchRecord
	started        bool
	stopped        bool

	// pendingClearSeq is the Seq of the message whose history-clear deadline
	// is outstanding, zero when none. Timer dispatches carry the Seq they
	// were armed for and are re-verified against it on the control
	// goroutine, so a callback superseded while in flight never acts on a
	// successor message.
	pendingClearSeq uint64

	// One handle per timer role; arming supersedes, never stacks.
	hideTimer   timer
	clearTimer  timer
	floorTimer  timer
	switchTimer timer

	callCh chan func()
	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a Scheduler. A nil presenter renders nowhere, a nil logger
// falls back to slog.Default. Delegate and settings store default to no-ops
// and can be replaced before Start.
func New(cfg Config, presenter Presenter, logger *slog.Logger) *Scheduler {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		logger:         logger,
		presenter:      presenter,
		delegate:       NopDelegate{},
		settings:       &nopSettings{},
		queue:          queue.New(),
		history:        history.New(),
		cfg:            cfg.withDefaults(),
		mode:           ModeCollapseOnTouch,
		historyEnabled: true,
		callCh:         make(chan func(), 64),
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// SetPresenter replaces the rendering target. Must be called before Start;
// hosts that build their presenter around a running event loop construct the
// scheduler first and bind the presenter here.
func (s *Scheduler) SetPresenter(p Presenter) {
	if p == nil {
		p = NopPresenter{}
	}
	s.presenter = p
}

// SetDelegate sets the lifecycle observer. Must be called before Start.
func (s *Scheduler) SetDelegate(d Delegate) {
	if d == nil {
		d = NopDelegate{}
	}
	s.delegate = d
}

// SetSettingsStore sets the persistence for the collapsed-form flag. Must be
// called before Start; the flag is read once at Start to seed the state.
func (s *Scheduler) SetSettingsStore(store SettingsStore) {
	if store == nil {
		store = &nopSettings{}
	}
	s.settings = store
}

// Start seeds persisted state and launches the control goroutine.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.ov.Shrunk = s.settings.Shrunk()
	shrunk, mode := s.ov.Shrunk, s.mode
	s.mu.Unlock()

	go s.loop()
	s.logger.Debug("scheduler started", "shrunk", shrunk, "mode", mode)
}

// Stop cancels all pending timers and stops the control goroutine.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.hideTimer.Cancel()
	s.clearTimer.Cancel()
	s.floorTimer.Cancel()
	s.switchTimer.Cancel()

	close(s.stopCh)
	<-s.doneCh
	s.logger.Debug("scheduler stopped")
}

// Queue returns the pending-message queue.
func (s *Scheduler) Queue() *queue.Queue { return s.queue }

// History returns the history log.
func (s *Scheduler) History() *history.Log { return s.history }

// Snapshot returns a copy of the current overlay state.
func (s *Scheduler) Snapshot() OverlayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ov.clone()
}

// Phase returns the scheduler's current lifecycle phase.
func (s *Scheduler) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ov.ForcedHidden {
		return PhaseForcedHidden
	}
	return s.phase
}

// Visible reports whether the strip is outwardly visible.
func (s *Scheduler) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Post enqueues a message for display. It validates non-empty text and
// otherwise always succeeds; the caller never blocks on display completion.
// The enqueue itself runs on the control goroutine, so the queue is only
// ever mutated there.
func (s *Scheduler) Post(text string, kind model.Kind, duration time.Duration, animated bool) {
	msg, err := model.New(text, kind, duration, animated)
	if err != nil {
		s.logger.Warn("dropping message", "error", err)
		return
	}
	if err := msg.Validate(); err != nil {
		// Silently ignored input per the error taxonomy.
		s.logger.Debug("dropping invalid message", "error", err)
		return
	}

	s.dispatch(func() {
		s.queue.Enqueue(msg)
		s.onPosted()
	})
}

// PostImmediate preempts the pending queue before enqueueing. Entries behind
// the head are removed if canRemoveImmediate is true or if they are not
// themselves immediate; removals are reported to the delegate as data. Like
// Post, the purge and enqueue run on the control goroutine: a preempt can
// never interleave with an in-flight dequeue decision.
func (s *Scheduler) PostImmediate(text string, kind model.Kind, duration time.Duration, animated, canRemoveImmediate bool) {
	msg, err := model.New(text, kind, duration, animated)
	if err != nil {
		s.logger.Warn("dropping message", "error", err)
		return
	}
	if err := msg.Validate(); err != nil {
		s.logger.Debug("dropping invalid message", "error", err)
		return
	}

	s.dispatch(func() {
		removed := s.queue.Preempt(msg, canRemoveImmediate)
		if len(removed) > 0 {
			s.logger.Debug("immediate post purged queue", "removed", len(removed))
			s.delegate.QueueCleared(removed)
		}
		s.onPosted()
	})
}

// SetProgress updates the progress fraction. Values are clamped to [0,1];
// exactly 0 always takes effect as a new-task reset, any other value only
// when it exceeds the current one.
func (s *Scheduler) SetProgress(fraction float64) {
	s.dispatch(func() { s.applyProgress(fraction) })
}

// Show makes the strip visible again after an explicit hide.
func (s *Scheduler) Show() {
	s.dispatch(s.applyShow)
}

// Hide dismisses the current message, cancels any pending auto-hide and
// history-clear timers, and hides the strip.
func (s *Scheduler) Hide() {
	s.dispatch(func() {
		var calls []func()
		s.mu.Lock()
		calls = s.finishActiveLocked(true, false)
		s.mu.Unlock()
		run(calls)
		s.advance()
	})
}

// ForceHide suspends the visual presentation without altering the queue.
// Pending auto-hide timers keep running; posts are still accepted.
func (s *Scheduler) ForceHide() {
	s.dispatch(s.applyForceHide)
}

// Resume lifts a forced hide. If the intended message still has visible
// text the presenter is told to reappear.
func (s *Scheduler) Resume() {
	s.dispatch(s.applyResume)
}

// SetHistoryEnabled toggles whether finished messages are archived.
func (s *Scheduler) SetHistoryEnabled(enabled bool) {
	s.dispatch(func() {
		s.mu.Lock()
		s.historyEnabled = enabled
		s.mu.Unlock()
	})
}

// SetDisplayMode switches the interaction policy and applies its forced
// layout consequences.
func (s *Scheduler) SetDisplayMode(mode DisplayMode) {
	s.dispatch(func() { s.applyDisplayMode(mode) })
}

// HandleGesture forwards a user gesture to the delegate and applies the
// display-mode policy. Gestures never alter queue contents.
func (s *Scheduler) HandleGesture(gesture Gesture) {
	s.dispatch(func() {
		s.delegate.GestureRecognized(gesture)
		switch s.displayMode() {
		case ModeCollapseOnTouch:
			s.applyToggleShrunk()
		case ModeDetailOnTouch:
			s.applyToggleDetail()
		case ModeNone:
			// interaction disabled
		}
	})
}

// ToggleShrunk toggles the collapsed form. Honored only in collapse-on-touch
// mode; entering the collapsed form closes the detail panel.
func (s *Scheduler) ToggleShrunk() {
	s.dispatch(s.applyToggleShrunk)
}

// ToggleDetail toggles the detail panel. Honored only in detail-on-touch
// mode; opening the panel forces the collapsed form off.
func (s *Scheduler) ToggleDetail() {
	s.dispatch(s.applyToggleDetail)
}

// UpdateConfig replaces the timing configuration. Applied to subsequent
// scheduling decisions; used by config hot reload.
func (s *Scheduler) UpdateConfig(cfg Config) {
	s.dispatch(func() {
		s.mu.Lock()
		s.cfg = cfg.withDefaults()
		s.mu.Unlock()
		s.logger.Debug("scheduler config updated",
			"minimum_visible", s.cfg.MinimumVisibleTime,
			"crossfade", s.cfg.CrossfadeDuration,
		)
	})
}

// dispatch marshals fn onto the control goroutine.
func (s *Scheduler) dispatch(fn func()) {
	select {
	case s.callCh <- fn:
	case <-s.stopCh:
	}
}

// loop is the control goroutine. All state transitions execute here.
func (s *Scheduler) loop() {
	defer close(s.doneCh)
	for {
		select {
		case fn := <-s.callCh:
			fn()
		case <-s.stopCh:
			return
		}
	}
}

// run invokes the presenter/delegate calls collected under the lock.
func run(calls []func()) {
	for _, call := range calls {
		call()
	}
}

// onPosted handles a freshly enqueued message: any pending auto-hide and
// history-clear deadlines are superseded, then the queue is advanced. The
// clear deadline is dropped even when the hide already ran, so a post always
// rescues the history.
func (s *Scheduler) onPosted() {
	s.mu.Lock()
	s.hideTimer.Cancel()
	s.clearTimer.Cancel()
	s.pendingClearSeq = 0
	if s.phase == PhasePendingAutoHide {
		s.phase = PhaseShowing
	}
	s.mu.Unlock()
	s.advance()
}

// advance drives dequeue attempts until the machine settles. Duplicate
// drops recurse on the same tick rather than via a new timer.
func (s *Scheduler) advance() {
	for s.step() {
	}
}

// step performs one dequeue attempt. It returns true when another attempt
// should run immediately.
func (s *Scheduler) step() bool {
	var calls []func()
	cont := false

	s.mu.Lock()
	switch {
	case s.ov.ForcedHidden:
		// Suspended: the queue accepts posts but nothing renders.

	case s.ov.Active == nil:
		head, ok := s.queue.PeekHead()
		if !ok {
			break
		}
		if s.visible && head.Text == s.ov.LastShownText {
			// Already rendered: drop without re-rendering or re-entering
			// history, then retry on the same tick.
			s.queue.Dequeue()
			cont = true
			break
		}
		calls = s.beginShowingLocked(head, "")
		cont = true

	default:
		next, ok := s.queue.PeekNext()
		if !ok {
			break
		}
		if s.visible && next.Text == s.ov.LastShownText {
			// Duplicates are dropped on the same tick, never made to wait
			// out the visibility floor.
			s.queue.PopNext()
			cont = true
			break
		}
		if wait := s.cfg.MinimumVisibleTime - time.Since(s.lastSwitch); wait > 0 {
			// Floor not yet met; the next dequeue attempt is deferred.
			s.floorTimer.Arm(wait, func() { s.dispatch(s.advance) })
			break
		}
		old, ok := s.queue.Dequeue()
		if !ok || old.Seq != s.ov.Active.Seq {
			panic(fmt.Sprintf("overlay: active message (seq %d) is not the queue head", s.ov.Active.Seq))
		}
		calls = s.beginShowingLocked(next, old.Text)
		cont = true
	}
	s.mu.Unlock()

	run(calls)
	return cont
}

// beginShowingLocked makes msg the active message. oldText is the text it
// replaces, empty on a fresh show. Caller must hold the lock; the returned
// calls run after release.
func (s *Scheduler) beginShowingLocked(msg model.Message, oldText string) []func() {
	calls := s.flushSwitchLocked()

	active := msg
	s.ov.Active = &active
	s.ov.LastShownText = msg.Text
	s.lastSwitch = time.Now()

	if !s.visible {
		s.visible = true
		// The collapsed form appears instantaneously.
		appearAnimated := msg.Animated && !s.ov.Shrunk
		calls = append(calls, func() { s.presenter.Appear(appearAnimated) })
	}

	switch msg.Kind {
	case model.KindActivity:
		s.ov.Busy = true
		calls = append(calls, func() { s.presenter.SetBusyIndicatorVisible(true) })
	case model.KindFinish, model.KindError:
		s.ov.Busy = false
		s.ov.Progress = 1.0
		kind := msg.Kind
		calls = append(calls,
			func() { s.presenter.SetBusyIndicatorVisible(false) },
			func() { s.presenter.SetProgress(1.0) },
			func() { s.presenter.SetFinishedGlyph(kind) },
		)
	default:
		panic(fmt.Sprintf("overlay: unknown message kind %d", msg.Kind))
	}

	style := s.styleLocked(msg.Kind)
	calls = append(calls, func() { s.presenter.RenderMessage(msg.Text, style, msg.Animated) })

	if msg.Kind.AutoHides() && msg.Duration > 0 {
		s.phase = PhasePendingAutoHide
		seq := msg.Seq
		s.pendingClearSeq = seq
		s.hideTimer.Arm(msg.Duration, func() { s.dispatch(func() { s.onHideTimer(seq) }) })
		s.clearTimer.Arm(msg.Duration, func() { s.dispatch(func() { s.onClearTimer(seq) }) })
	} else {
		s.phase = PhaseShowing
		s.hideTimer.Cancel()
		s.clearTimer.Cancel()
		s.pendingClearSeq = 0
	}

	if oldText != "" {
		s.pendingSwitch = &switchRecord{oldText: oldText, newText: msg.Text}
		s.switchTimer.Arm(s.cfg.CrossfadeDuration, func() { s.dispatch(s.onSwitchTimer) })
	}

	s.logger.Debug("showing message",
		"text", msg.Text,
		"kind", msg.Kind,
		"seq", msg.Seq,
		"phase", s.phase,
	)

	return calls
}

// flushSwitchLocked completes an outstanding message switch: the replaced
// text is archived and the delegate notified. Caller must hold the lock.
func (s *Scheduler) flushSwitchLocked() []func() {
	rec := s.pendingSwitch
	if rec == nil {
		return nil
	}
	s.pendingSwitch = nil
	s.switchTimer.Cancel()

	var calls []func()
	if s.historyEnabled {
		calls = append(calls, func() { s.history.Append(rec.oldText) })
	}
	calls = append(calls, func() { s.delegate.MessageSwitched(rec.oldText, rec.newText) })
	return calls
}

// finishActiveLocked retires the active message: archives it, clears the
// indicators, cancels pending timers, and hides the strip. keepClear leaves
// the history-clear deadline armed; the auto-hide path uses it so the clear
// tied to the same duration still fires. Caller must hold the lock.
func (s *Scheduler) finishActiveLocked(animated, keepClear bool) []func() {
	calls := s.flushSwitchLocked()

	retired := false
	if s.ov.Active != nil {
		head, ok := s.queue.Dequeue()
		if !ok || head.Seq != s.ov.Active.Seq {
			panic(fmt.Sprintf("overlay: active message (seq %d) is not the queue head", s.ov.Active.Seq))
		}
		if s.historyEnabled {
			text := s.ov.Active.Text
			calls = append(calls, func() { s.history.Append(text) })
		}
		s.ov.Active = nil
		retired = true
	}

	s.ov.Busy = false
	s.hideTimer.Cancel()
	if !keepClear {
		s.clearTimer.Cancel()
		s.pendingClearSeq = 0
	}
	s.floorTimer.Cancel()
	s.phase = PhaseIdle

	hid := false
	if s.visible {
		s.visible = false
		anim := animated && !s.ov.Shrunk
		calls = append(calls,
			func() { s.presenter.SetBusyIndicatorVisible(false) },
			func() { s.presenter.Disappear(anim) },
		)
		hid = true
	}
	if retired || hid {
		calls = append(calls, func() { s.delegate.Hidden() })
	}
	return calls
}

// onHideTimer fires when a Finish/Error message's visible time elapses. seq
// identifies the arming; a dispatch that outlived its message is ignored.
// The clear deadline for the same seq stays armed.
func (s *Scheduler) onHideTimer(seq uint64) {
	var calls []func()
	s.mu.Lock()
	if s.phase != PhasePendingAutoHide || s.ov.Active == nil || s.ov.Active.Seq != seq {
		// Stale dispatch: the arming was superseded while this sat in the
		// call channel.
		s.mu.Unlock()
		return
	}
	calls = s.finishActiveLocked(true, true)
	s.mu.Unlock()

	run(calls)
	s.advance()
}

// onClearTimer fires alongside the hide timer. seq must still be the
// outstanding clear deadline; if the sibling hide dispatch has not run yet
// the message is finalized first, so the net result does not depend on
// firing order.
func (s *Scheduler) onClearTimer(seq uint64) {
	var calls []func()
	s.mu.Lock()
	if s.pendingClearSeq != seq {
		// Stale dispatch, or the deadline was rescued by a newer post.
		s.mu.Unlock()
		return
	}
	s.pendingClearSeq = 0
	if s.phase == PhasePendingAutoHide && s.ov.Active != nil && s.ov.Active.Seq == seq {
		calls = s.finishActiveLocked(true, false)
	}
	s.mu.Unlock()
	run(calls)

	s.history.Clear()
	s.logger.Debug("history auto-cleared")
	s.advance()
}

// onSwitchTimer fires when the crossfade interval after a switch elapses.
func (s *Scheduler) onSwitchTimer() {
	s.mu.Lock()
	calls := s.flushSwitchLocked()
	s.mu.Unlock()
	run(calls)
}

func (s *Scheduler) applyProgress(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	s.mu.Lock()
	apply := fraction == 0 || fraction > s.ov.Progress
	if apply {
		s.ov.Progress = fraction
	}
	s.mu.Unlock()

	if apply {
		s.presenter.SetProgress(fraction)
	}
}

func (s *Scheduler) applyShow() {
	var calls []func()
	s.mu.Lock()
	if s.ov.ForcedHidden {
		s.mu.Unlock()
		return
	}
	if !s.visible {
		s.visible = true
		calls = append(calls, func() { s.presenter.Appear(true) })
		if s.ov.Active != nil {
			active := *s.ov.Active
			style := s.styleLocked(active.Kind)
			calls = append(calls, func() { s.presenter.RenderMessage(active.Text, style, false) })
		}
	}
	s.mu.Unlock()

	run(calls)
	s.advance()
}

func (s *Scheduler) applyForceHide() {
	var calls []func()
	s.mu.Lock()
	if s.ov.ForcedHidden {
		s.mu.Unlock()
		return
	}
	s.ov.ForcedHidden = true
	if s.visible {
		s.visible = false
		calls = append(calls, func() { s.presenter.Disappear(false) })
	}
	s.mu.Unlock()

	run(calls)
	s.logger.Debug("overlay force-hidden")
}

func (s *Scheduler) applyResume() {
	var calls []func()
	s.mu.Lock()
	if !s.ov.ForcedHidden {
		s.mu.Unlock()
		return
	}
	s.ov.ForcedHidden = false
	if s.ov.Active != nil && strings.TrimSpace(s.ov.Active.Text) != "" {
		s.visible = true
		active := *s.ov.Active
		style := s.styleLocked(active.Kind)
		calls = append(calls,
			func() { s.presenter.Appear(false) },
			func() { s.presenter.RenderMessage(active.Text, style, false) },
		)
	}
	s.mu.Unlock()

	run(calls)
	s.logger.Debug("overlay resumed")
	s.advance()
}

func (s *Scheduler) applyDisplayMode(mode DisplayMode) {
	var calls []func()
	s.mu.Lock()
	s.mode = mode
	changed := false
	switch mode {
	case ModeNone, ModeCollapseOnTouch:
		// Detail panel is always closed in these modes.
		if s.ov.DetailVisible {
			s.ov.DetailVisible = false
			changed = true
		}
	case ModeDetailOnTouch:
		// Collapsed form is forced off.
		if s.ov.Shrunk {
			s.ov.Shrunk = false
			changed = true
			calls = append(calls, func() { s.settings.SetShrunk(false) })
		}
	}
	if changed {
		calls = append(calls, s.layoutCallLocked())
	}
	s.mu.Unlock()
	run(calls)
}

func (s *Scheduler) applyToggleShrunk() {
	var calls []func()
	s.mu.Lock()
	if s.mode != ModeCollapseOnTouch {
		s.mu.Unlock()
		return
	}
	s.ov.Shrunk = !s.ov.Shrunk
	if s.ov.Shrunk && s.ov.DetailVisible {
		// Entering the collapsed form closes the detail panel.
		s.ov.DetailVisible = false
	}
	shrunk := s.ov.Shrunk
	calls = append(calls, func() { s.settings.SetShrunk(shrunk) })
	calls = append(calls, s.layoutCallLocked())
	s.mu.Unlock()
	run(calls)
}

func (s *Scheduler) applyToggleDetail() {
	var calls []func()
	s.mu.Lock()
	if s.mode != ModeDetailOnTouch {
		s.mu.Unlock()
		return
	}
	s.ov.DetailVisible = !s.ov.DetailVisible
	if s.ov.DetailVisible && s.ov.Shrunk {
		// Opening the detail panel forces the collapsed form off.
		s.ov.Shrunk = false
		calls = append(calls, func() { s.settings.SetShrunk(false) })
	}
	calls = append(calls, s.layoutCallLocked())
	s.mu.Unlock()
	run(calls)
}

// layoutCallLocked captures the current layout flags for the presenter.
// Caller must hold the lock.
func (s *Scheduler) layoutCallLocked() func() {
	shrunk, detail := s.ov.Shrunk, s.ov.DetailVisible
	return func() { s.presenter.SetLayout(shrunk, detail) }
}

// styleLocked builds the rendering style for a kind. Caller must hold the
// lock.
func (s *Scheduler) styleLocked(kind model.Kind) Style {
	return Style{
		Kind:          kind,
		Shrunk:        s.ov.Shrunk,
		DetailVisible: s.ov.DetailVisible,
	}
}

// displayMode reads the current mode under the lock.
func (s *Scheduler) displayMode() DisplayMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}
