// Package orchestrator drives the fatigue clock: it routes lock monitor
// output into the fatigue engine once per tick and carries UI commands.
package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"biodaemon/internal/core/clock"
	"biodaemon/internal/core/fatigue"
	"biodaemon/internal/core/session"

	"github.com/sirupsen/logrus"
)

// LockMonitor is the part of the session lock monitor the tick loop reads.
type LockMonitor interface {
	Mode() session.Mode
	Snapshot() session.State
	Poll(now time.Time) (session.Transition, bool)
	Transitions() <-chan session.Transition
}

// Engine is the part of the fatigue engine the tick loop mutates.
type Engine interface {
	Accrue() bool
	Heal(duration time.Duration) fatigue.HealingResult
	Refresh()
}

// Config contains runtime options for the Orchestrator.
type Config struct {
	TickPeriod    time.Duration
	CommandBuffer int
}

// Orchestrator is the timer context. It is the only caller of Accrue and
// Heal, so engine mutations from the clock never race each other.
type Orchestrator struct {
	engine   Engine
	monitor  LockMonitor
	clock    clock.Clock
	options  Config
	logger   *logrus.Entry
	commands chan Command
	running  atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an Orchestrator with the provided collaborators.
func New(engine Engine, monitor LockMonitor, clk clock.Clock, options Config, logger *logrus.Entry) *Orchestrator {
	if options.TickPeriod <= 0 {
		options.TickPeriod = time.Minute
	}
	if options.CommandBuffer <= 0 {
		options.CommandBuffer = defaultCommandBuffer
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	orchestrator := &Orchestrator{
		engine:   engine,
		monitor:  monitor,
		clock:    clk,
		options:  options,
		logger:   logger.WithField("component", "orchestrator"),
		commands: make(chan Command, options.CommandBuffer),
	}
	orchestrator.running.Store(true)
	return orchestrator
}

// Running reports whether the process is still meant to be alive.
func (orchestrator *Orchestrator) Running() bool {
	return orchestrator.running.Load()
}

// Start launches the ticking loop.
func (orchestrator *Orchestrator) Start(ctx context.Context) {
	orchestrator.mu.Lock()
	defer orchestrator.mu.Unlock()
	if orchestrator.done != nil || !orchestrator.running.Load() {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	orchestrator.cancel = cancel
	orchestrator.done = make(chan struct{})

	orchestrator.logger.WithFields(logrus.Fields{
		"tick_period": orchestrator.options.TickPeriod,
		"mode":        orchestrator.monitor.Mode(),
	}).Info("starting tick loop")

	go orchestrator.run(runCtx, orchestrator.done)
}

// Stop clears the running flag and waits for the loop to exit.
func (orchestrator *Orchestrator) Stop() {
	orchestrator.running.Store(false)

	orchestrator.mu.Lock()
	cancel := orchestrator.cancel
	done := orchestrator.done
	orchestrator.cancel = nil
	orchestrator.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	orchestrator.logger.Info("tick loop stopped")
}

func (orchestrator *Orchestrator) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := orchestrator.clock.NewTicker(orchestrator.options.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case transition := <-orchestrator.monitor.Transitions():
			orchestrator.handleTransition(transition)
		case <-ticker.C:
			if !orchestrator.running.Load() {
				return
			}
			orchestrator.tick(orchestrator.clock.Now())
		}
	}
}

// tick runs one step of the clock. Event-driven mode only accrues because
// transitions arrive through handleTransition; polling mode detects and
// heals here.
func (orchestrator *Orchestrator) tick(now time.Time) {
	if orchestrator.monitor.Mode() == session.ModePollingFallback {
		if transition, ok := orchestrator.monitor.Poll(now); ok {
			orchestrator.applyTransition(transition)
		}
	}
	// An unlock visible in the snapshot already has its transition queued;
	// healing it before accruing keeps a break from being lost at the cap.
	locked := orchestrator.monitor.Snapshot().Locked
	orchestrator.drainTransitions()
	if !locked {
		orchestrator.engine.Accrue()
	}
	orchestrator.engine.Refresh()
}

func (orchestrator *Orchestrator) drainTransitions() {
	for {
		select {
		case transition := <-orchestrator.monitor.Transitions():
			orchestrator.applyTransition(transition)
		default:
			return
		}
	}
}

func (orchestrator *Orchestrator) handleTransition(transition session.Transition) {
	orchestrator.applyTransition(transition)
	orchestrator.engine.Refresh()
}

func (orchestrator *Orchestrator) applyTransition(transition session.Transition) {
	logger := orchestrator.logger.WithField("transition", transition.Kind)
	if transition.Kind != session.TransitionUnlocked {
		logger.Debug("session locked")
		return
	}
	result := orchestrator.engine.Heal(transition.Duration)
	logger.WithFields(logrus.Fields{
		"duration": transition.Duration,
		"healing":  result.Kind.String(),
	}).Debug("session unlocked")
}
