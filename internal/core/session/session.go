// Package session tracks whether the workstation session is locked and for
// how long.
package session

import (
	"sync"
	"time"
)

// Mode is the strategy the lock monitor uses to observe the session.
type Mode string

const (
	ModeEventDriven     Mode = "event_driven"
	ModePollingFallback Mode = "polling_fallback"
)

// State is a snapshot of the session. LockedAt is set if and only if Locked.
type State struct {
	Locked   bool
	LockedAt time.Time
}

// TransitionKind names the direction of a lock change.
type TransitionKind string

const (
	TransitionLocked   TransitionKind = "locked"
	TransitionUnlocked TransitionKind = "unlocked"
)

// Transition is a single observed lock change. Duration is the length of the
// lock that just ended and is only set for unlocks.
type Transition struct {
	Kind     TransitionKind
	At       time.Time
	Duration time.Duration
}

// Tracker guards the session state. Lock and Unlock are atomic with respect
// to each other so an unlock always sees the start time of its own lock.
type Tracker struct {
	mu    sync.Mutex
	state State
}

// NewTracker returns a tracker in the unlocked state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Lock records a lock beginning at the given time. It reports false and
// keeps the original start time if the session was already locked.
func (tracker *Tracker) Lock(at time.Time) (Transition, bool) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if tracker.state.Locked {
		return Transition{}, false
	}
	tracker.state = State{Locked: true, LockedAt: at}
	return Transition{Kind: TransitionLocked, At: at}, true
}

// Unlock ends the current lock and returns its duration. A missing start time
// or a clock that went backwards yields a zero duration.
func (tracker *Tracker) Unlock(at time.Time) (Transition, bool) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if !tracker.state.Locked {
		return Transition{}, false
	}
	duration := time.Duration(0)
	if !tracker.state.LockedAt.IsZero() {
		duration = at.Sub(tracker.state.LockedAt)
	}
	if duration < 0 {
		duration = 0
	}
	tracker.state = State{}
	return Transition{Kind: TransitionUnlocked, At: at, Duration: duration}, true
}

// Snapshot returns a copy of the current state.
func (tracker *Tracker) Snapshot() State {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.state
}
