package touch

import "time"

// DefaultThreshold is how long hands must stay on the face before the alert
// fires.
const DefaultThreshold = time.Second

// State identifies where the tracker is in the touch/alert lifecycle.
type State int

const (
	// StateClear means no touch is in progress.
	StateClear State = iota
	// StateTouching means a touch is in progress but has not yet reached
	// the alert threshold.
	StateTouching
	// StateAlerting means a touch has lasted at least the threshold and the
	// alert is latched active.
	StateAlerting
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateClear:
		return "clear"
	case StateTouching:
		return "touching"
	case StateAlerting:
		return "alerting"
	default:
		return "unknown"
	}
}

// EventKind identifies the transition produced by a tracker update.
type EventKind int

const (
	// NoChange means the update left the lifecycle where it was.
	NoChange EventKind = iota
	// TouchStarted means a touch began this frame.
	TouchStarted
	// AlertStarted means the touch crossed the threshold this frame.
	// Emitted at most once per touch.
	AlertStarted
	// TouchEnded means the touch ended this frame. Any active alert ends
	// with it.
	TouchEnded
)

// String returns a human-readable event kind name.
func (k EventKind) String() string {
	switch k {
	case NoChange:
		return "no_change"
	case TouchStarted:
		return "touch_started"
	case AlertStarted:
		return "alert_started"
	case TouchEnded:
		return "touch_ended"
	default:
		return "unknown"
	}
}

// Event is the transition produced by one tracker update. Elapsed carries
// the touch duration so far for AlertStarted and the final duration for
// TouchEnded; it is zero otherwise.
type Event struct {
	Kind    EventKind
	Elapsed time.Duration
}

// Session is the single long-lived record of the current touch and alert
// state. Start is the zero time whenever Touching is false.
type Session struct {
	Touching    bool
	Start       time.Time
	AlertActive bool
}

// Tracker aggregates per-frame touching signals into the timed alert
// lifecycle. It is not safe for concurrent use; the frame pipeline is its
// single owner and calls Update exactly once per processed frame.
type Tracker struct {
	threshold time.Duration
	session   Session
}

// NewTracker creates a Tracker with the given alert threshold. A threshold
// of zero or less falls back to DefaultThreshold.
func NewTracker(threshold time.Duration) *Tracker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Tracker{threshold: threshold}
}

// Update consumes the aggregated touching signal for one frame and advances
// the lifecycle. Updates must arrive in frame order; a clock that steps
// backward is clamped so that elapsed time never goes negative and never
// flips state on its own.
func (t *Tracker) Update(touchingNow bool, now time.Time) Event {
	if touchingNow {
		if !t.session.Touching {
			t.session.Touching = true
			t.session.Start = now
			t.session.AlertActive = false
			return Event{Kind: TouchStarted}
		}

		elapsed := t.elapsed(now)
		if elapsed >= t.threshold && !t.session.AlertActive {
			t.session.AlertActive = true
			return Event{Kind: AlertStarted, Elapsed: elapsed}
		}
		return Event{Kind: NoChange}
	}

	if !t.session.Touching {
		return Event{Kind: NoChange}
	}

	final := t.elapsed(now)
	t.session.Touching = false
	t.session.Start = time.Time{}
	t.session.AlertActive = false
	return Event{Kind: TouchEnded, Elapsed: final}
}

// elapsed returns the time since the touch started, clamped at zero for a
// non-monotonic clock.
func (t *Tracker) elapsed(now time.Time) time.Duration {
	d := now.Sub(t.session.Start)
	if d < 0 {
		return 0
	}
	return d
}

// State derives the current lifecycle state from the session record.
func (t *Tracker) State() State {
	switch {
	case t.session.AlertActive:
		return StateAlerting
	case t.session.Touching:
		return StateTouching
	default:
		return StateClear
	}
}

// Session returns a copy of the current session record.
func (t *Tracker) Session() Session {
	return t.session
}

// Threshold returns the current alert threshold.
func (t *Tracker) Threshold() time.Duration {
	return t.threshold
}

// SetThreshold changes the alert threshold. Values of zero or less are
// ignored. The new threshold applies from the next update.
func (t *Tracker) SetThreshold(threshold time.Duration) {
	if threshold <= 0 {
		return
	}
	t.threshold = threshold
}

// Elapsed returns how long the current touch has been going at the given
// time, or zero when no touch is in progress.
func (t *Tracker) Elapsed(now time.Time) time.Duration {
	if !t.session.Touching {
		return 0
	}
	return t.elapsed(now)
}
