// Package quota guards the metered sentiment backend with a sliding-window
// request budget over the last minute and the last day.
package quota

import (
	"sync"
	"time"
)

const (
	minuteWindow = time.Minute
	dayWindow    = 24 * time.Hour
)

// Decision is the outcome of a quota check.
type Decision int

const (
	// Allowed permits a call to the primary backend.
	Allowed Decision = iota
	// AllowedDegraded permits a call but routes it to the fallback backend
	// because usage is near a limit.
	AllowedDegraded
	// MinuteExceeded denies the call; the per-minute budget is spent.
	MinuteExceeded
	// DayExceeded denies the call; the daily budget is spent.
	DayExceeded
	// ThrottledWarning denies the call; usage is near a limit and fallback
	// routing is disabled by configuration.
	ThrottledWarning
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "ALLOWED"
	case AllowedDegraded:
		return "ALLOWED_DEGRADED"
	case MinuteExceeded:
		return "MINUTE_EXCEEDED"
	case DayExceeded:
		return "DAY_EXCEEDED"
	case ThrottledWarning:
		return "THROTTLED_WARNING"
	}
	return "UNKNOWN"
}

// Granted reports whether the decision permits an external call.
func (d Decision) Granted() bool { return d == Allowed || d == AllowedDegraded }

// Limits configures the tracker.
type Limits struct {
	MaxPerMinute  int
	MaxPerDay     int
	AllowFallback bool
}

// Tracker counts successful classifier calls inside sliding windows. It is
// the only shared mutable state in the pipeline; one mutex covers the whole
// prune-count-decide-reserve sequence so two concurrent checks can never both
// claim the last remaining slot.
type Tracker struct {
	mu      sync.Mutex
	limits  Limits
	stamps  []time.Time // committed calls, ascending
	pending int         // reservations awaiting commit or release
	now     func() time.Time
}

// NewTracker creates a tracker with the given limits.
func NewTracker(limits Limits) *Tracker {
	return &Tracker{limits: limits, now: time.Now}
}

// Reservation is a provisionally claimed budget slot. Exactly one of Commit
// or Release must be called once the external call settles.
type Reservation struct {
	t    *Tracker
	done bool
}

// Commit records the reserved call as a successful request. Only committed
// calls persist in the window; failed calls release instead so they never
// consume budget.
func (r *Reservation) Commit() {
	if r == nil || r.done {
		return
	}
	r.done = true
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	r.t.pending--
	r.t.stamps = append(r.t.stamps, r.t.now())
}

// Release frees the reserved slot without recording a request.
func (r *Reservation) Release() {
	if r == nil || r.done {
		return
	}
	r.done = true
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	r.t.pending--
}

// CheckAndReserve evaluates the budget and, when the call is permitted,
// reserves a slot. The returned reservation is nil unless the decision
// grants the call.
func (t *Tracker) CheckAndReserve() (Decision, *Reservation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)

	requestsToday := len(t.stamps) + t.pending
	requestsLastMinute := t.countSince(now.Add(-minuteWindow)) + t.pending

	if requestsToday >= t.limits.MaxPerDay {
		return DayExceeded, nil
	}
	if requestsLastMinute >= t.limits.MaxPerMinute {
		return MinuteExceeded, nil
	}

	degraded := requestsToday > t.limits.MaxPerDay-10 ||
		requestsLastMinute >= t.limits.MaxPerMinute-1
	if degraded && !t.limits.AllowFallback {
		return ThrottledWarning, nil
	}

	t.pending++
	if degraded {
		return AllowedDegraded, &Reservation{t: t}
	}
	return Allowed, &Reservation{t: t}
}

// Usage returns the committed request counts for both windows.
func (t *Tracker) Usage() (lastMinute, today int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.prune(now)
	return t.countSince(now.Add(-minuteWindow)), len(t.stamps)
}

// prune drops committed stamps older than the day window. Caller holds mu.
func (t *Tracker) prune(now time.Time) {
	cutoff := now.Add(-dayWindow)
	i := 0
	for i < len(t.stamps) && !t.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		t.stamps = append(t.stamps[:0], t.stamps[i:]...)
	}
}

// countSince counts committed stamps newer than the cutoff. Caller holds mu.
func (t *Tracker) countSince(cutoff time.Time) int {
	n := 0
	for i := len(t.stamps) - 1; i >= 0; i-- {
		if !t.stamps[i].After(cutoff) {
			break
		}
		n++
	}
	return n
}
