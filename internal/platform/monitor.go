package platform

import (
	"sync"
	"time"

	"biodaemon/internal/core/clock"
	"biodaemon/internal/core/session"

	"github.com/sirupsen/logrus"
)

const transitionBuffer = 16

// MonitorOptions adjusts how the monitor chooses its mode.
type MonitorOptions struct {
	// ForcePolling skips the event-driven hook entirely.
	ForcePolling bool
}

// Monitor is the session lock monitor. In event-driven mode the host thread
// is the only writer of the session state; in polling mode the caller of
// Poll is.
type Monitor struct {
	host        Host
	prober      Prober
	clock       clock.Clock
	options     MonitorOptions
	tracker     *session.Tracker
	transitions chan session.Transition
	logger      *logrus.Entry

	// publishMu makes a session change and its queued transition visible
	// together: once Snapshot shows an unlock, its transition is queued.
	publishMu sync.Mutex

	mu       sync.Mutex
	mode     session.Mode
	started  bool
	stopOnce sync.Once
}

// NewMonitor creates a monitor in polling mode until Start decides otherwise.
func NewMonitor(host Host, prober Prober, clk clock.Clock, options MonitorOptions, logger *logrus.Entry) *Monitor {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Monitor{
		host:        host,
		prober:      prober,
		clock:       clk,
		options:     options,
		tracker:     session.NewTracker(),
		transitions: make(chan session.Transition, transitionBuffer),
		logger:      logger.WithField("component", "lock-monitor"),
		mode:        session.ModePollingFallback,
	}
}

// Start attempts event-driven installation once. Failure is never fatal: the
// monitor stays in polling mode for the rest of the process.
func (monitor *Monitor) Start() session.Mode {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	if monitor.started {
		return monitor.mode
	}
	monitor.started = true

	switch {
	case monitor.options.ForcePolling:
		monitor.logger.Info("event-driven detection disabled, polling")
	case monitor.host == nil:
		monitor.logger.Info("no message host, polling")
	default:
		if err := monitor.host.Start(monitor.handleSession); err != nil {
			monitor.logger.WithError(err).Warn("session hook unavailable, polling")
		} else {
			monitor.mode = session.ModeEventDriven
		}
	}
	monitor.logger.WithField("mode", monitor.mode).Info("lock monitor started")
	return monitor.mode
}

// Mode returns the detection strategy in use.
func (monitor *Monitor) Mode() session.Mode {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	return monitor.mode
}

// Snapshot returns the current session state.
func (monitor *Monitor) Snapshot() session.State {
	monitor.publishMu.Lock()
	defer monitor.publishMu.Unlock()
	return monitor.tracker.Snapshot()
}

// Transitions delivers event-driven lock changes to the tick loop.
func (monitor *Monitor) Transitions() <-chan session.Transition {
	return monitor.transitions
}

// Poll probes the lock state once. It returns a transition when the observed
// state differs from the tracked one; an unknown probe result changes nothing.
// The lock start is approximated by the poll at which the lock was first seen.
// Poll is inert in event-driven mode.
func (monitor *Monitor) Poll(now time.Time) (session.Transition, bool) {
	if monitor.Mode() != session.ModePollingFallback {
		return session.Transition{}, false
	}
	if monitor.prober == nil {
		return session.Transition{}, false
	}
	switch monitor.prober.Probe() {
	case LockLocked:
		return monitor.tracker.Lock(now)
	case LockUnlocked:
		return monitor.tracker.Unlock(now)
	default:
		return session.Transition{}, false
	}
}

// Stop tears down the host if it was installed. Idempotent.
func (monitor *Monitor) Stop() {
	monitor.stopOnce.Do(func() {
		if monitor.Mode() == session.ModeEventDriven && monitor.host != nil {
			monitor.host.Stop()
		}
		monitor.logger.Info("lock monitor stopped")
	})
}

// handleSession runs on the host thread for every session-change message.
func (monitor *Monitor) handleSession(reason uint32) {
	now := monitor.clock.Now()
	var (
		transition session.Transition
		ok         bool
	)
	monitor.publishMu.Lock()
	defer monitor.publishMu.Unlock()
	switch reason {
	case wtsSessionLock:
		transition, ok = monitor.tracker.Lock(now)
	case wtsSessionUnlock:
		transition, ok = monitor.tracker.Unlock(now)
	default:
		return
	}
	if !ok {
		return
	}

	monitor.logger.WithFields(logrus.Fields{
		"transition": transition.Kind,
		"duration":   transition.Duration,
	}).Debug("session changed")

	select {
	case monitor.transitions <- transition:
	default:
		monitor.logger.WithField("transition", transition.Kind).Warn("transition queue full, dropping")
	}
}
