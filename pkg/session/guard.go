// Package session implements the liveness rules for issued bearer tokens:
// a sliding 30-minute inactivity window, a throttled activity heartbeat, and
// the one-way active -> revoked/timed-out state machine. The decision logic
// is pure so it can be exercised with fixed clocks; callers apply the
// returned mutation to storage.
package session

import "time"

const (
	// InactivityLimit is how long a session may sit idle before any further
	// request on its token is rejected.
	InactivityLimit = 30 * time.Minute

	// RefreshThrottle bounds write amplification: last-activity timestamps
	// are only persisted when at least this much time has passed since the
	// previously persisted value. Must stay well below InactivityLimit.
	RefreshThrottle = time.Minute
)

// Terminal reasons recorded on a session row when it goes inactive.
const (
	ReasonRevoked = "revoked"
	ReasonTimeout = "timeout"
)

// Snapshot is the slice of a session row the guard needs to decide.
type Snapshot struct {
	CreatedAt    time.Time
	LastActivity *time.Time
	Active       bool
}

// Verdict is the guard's decision for one request.
type Verdict int

const (
	// Allow lets the request through to its handler.
	Allow Verdict = iota
	// RejectRevoked means the session was already inactive.
	RejectRevoked
	// RejectTimedOut means the session exceeded InactivityLimit and must be
	// transitioned to inactive as a side effect of this evaluation.
	RejectTimedOut
)

// Decision couples the verdict with the mutation the caller must persist.
type Decision struct {
	Verdict Verdict

	// MarkInactive is set on RejectTimedOut: flip is_active to false with
	// ReasonTimeout before responding.
	MarkInactive bool

	// TouchActivity is set on Allow when the heartbeat is due; persist
	// ActivityAt as the new last_activity.
	TouchActivity bool
	ActivityAt    time.Time
}

// Evaluate decides whether a request on the given session may proceed at
// time now. It never touches storage; the caller owns persistence.
func Evaluate(s Snapshot, now time.Time) Decision {
	if !s.Active {
		return Decision{Verdict: RejectRevoked}
	}

	last := s.CreatedAt
	if s.LastActivity != nil && s.LastActivity.After(last) {
		last = *s.LastActivity
	}
	if now.Sub(last) > InactivityLimit {
		return Decision{Verdict: RejectTimedOut, MarkInactive: true}
	}

	d := Decision{Verdict: Allow, ActivityAt: now}
	if s.LastActivity == nil {
		d.TouchActivity = true
	} else {
		d.TouchActivity = ShouldPersist(*s.LastActivity, now, RefreshThrottle)
	}
	return d
}

// ShouldPersist reports whether a new heartbeat timestamp is worth a write,
// given the last persisted value and the minimum interval between writes.
func ShouldPersist(lastPersisted, now time.Time, minInterval time.Duration) bool {
	return now.Sub(lastPersisted) >= minInterval
}
