package orchestrator

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"biodaemon/internal/core/clock"
	"biodaemon/internal/core/fatigue"
	"biodaemon/internal/core/model"
	"biodaemon/internal/core/session"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMonitor is a LockMonitor whose lock state is set by the test. In
// polling mode Poll reports transitions the way the real monitor does.
type fakeMonitor struct {
	mu          sync.Mutex
	mode        session.Mode
	locked      bool
	tracker     *session.Tracker
	polls       int
	transitions chan session.Transition
}

func newFakeMonitor(mode session.Mode) *fakeMonitor {
	return &fakeMonitor{
		mode:        mode,
		tracker:     session.NewTracker(),
		transitions: make(chan session.Transition, 4),
	}
}

func (monitor *fakeMonitor) Mode() session.Mode {
	return monitor.mode
}

func (monitor *fakeMonitor) Snapshot() session.State {
	return monitor.tracker.Snapshot()
}

func (monitor *fakeMonitor) Poll(now time.Time) (session.Transition, bool) {
	monitor.mu.Lock()
	monitor.polls++
	locked := monitor.locked
	monitor.mu.Unlock()
	if locked {
		return monitor.tracker.Lock(now)
	}
	return monitor.tracker.Unlock(now)
}

func (monitor *fakeMonitor) Transitions() <-chan session.Transition {
	return monitor.transitions
}

func (monitor *fakeMonitor) setLocked(locked bool) {
	monitor.mu.Lock()
	monitor.locked = locked
	monitor.mu.Unlock()
}

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func newTestOrchestrator(mode session.Mode) (*Orchestrator, *fakeMonitor, *fatigue.Engine, *clock.Mock) {
	monitor := newFakeMonitor(mode)
	engine := fatigue.New(model.DefaultFatigueConfig(false), quietLogger())
	clk := clock.NewMock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	orchestrator := New(engine, monitor, clk, Config{TickPeriod: time.Minute}, quietLogger())
	return orchestrator, monitor, engine, clk
}

func TestTick_EventDrivenAccruesWhileUnlocked(t *testing.T) {
	orchestrator, monitor, engine, clk := newTestOrchestrator(session.ModeEventDriven)

	for i := 0; i < 10; i++ {
		clk.Advance(time.Minute)
		orchestrator.tick(clk.Now())
	}

	assert.Equal(t, 10, engine.Snapshot().Score)
	assert.Zero(t, monitor.polls)
}

func TestTick_EventDrivenNoAccrualWhileLocked(t *testing.T) {
	orchestrator, monitor, engine, clk := newTestOrchestrator(session.ModeEventDriven)
	monitor.tracker.Lock(clk.Now())

	for i := 0; i < 10; i++ {
		orchestrator.tick(clk.Now())
	}

	assert.Equal(t, 0, engine.Snapshot().Score)
}

func TestTick_AccrualCapsAtDeath(t *testing.T) {
	orchestrator, _, engine, clk := newTestOrchestrator(session.ModeEventDriven)

	for i := 0; i < 120; i++ {
		orchestrator.tick(clk.Now())
	}

	assert.Equal(t, 80, engine.Snapshot().Score)
}

func TestTick_QueuedUnlockHealsBeforeAccrual(t *testing.T) {
	orchestrator, monitor, engine, clk := newTestOrchestrator(session.ModeEventDriven)
	for i := 0; i < 79; i++ {
		engine.Accrue()
	}

	monitor.tracker.Lock(clk.Now())
	clk.Advance(20 * time.Minute)
	transition, ok := monitor.tracker.Unlock(clk.Now())
	require.True(t, ok)
	monitor.transitions <- transition

	orchestrator.tick(clk.Now())

	assert.Equal(t, 1, engine.Snapshot().Score)
	assert.Empty(t, monitor.transitions)
}

func TestTick_RefreshesEveryTick(t *testing.T) {
	orchestrator, _, engine, clk := newTestOrchestrator(session.ModeEventDriven)
	events := engine.Subscribe(10)

	orchestrator.tick(clk.Now())
	orchestrator.tick(clk.Now())

	var refreshes int
	for len(events) > 0 {
		if event := <-events; event.Type == fatigue.EventRefresh {
			refreshes++
		}
	}
	assert.Equal(t, 2, refreshes)
}

func TestTick_PollingLockHealCycle(t *testing.T) {
	orchestrator, monitor, engine, clk := newTestOrchestrator(session.ModePollingFallback)

	for i := 0; i < 50; i++ {
		clk.Advance(time.Minute)
		orchestrator.tick(clk.Now())
	}
	require.Equal(t, 50, engine.Snapshot().Score)

	monitor.setLocked(true)
	clk.Advance(time.Minute)
	orchestrator.tick(clk.Now())
	assert.True(t, monitor.Snapshot().Locked)
	assert.Equal(t, 50, engine.Snapshot().Score)

	clk.Advance(time.Minute)
	orchestrator.tick(clk.Now())
	clk.Advance(time.Minute)
	orchestrator.tick(clk.Now())
	assert.Equal(t, 50, engine.Snapshot().Score)

	monitor.setLocked(false)
	clk.Advance(time.Minute)
	orchestrator.tick(clk.Now())

	// 3 minutes locked heals 6, then the unlocked tick accrues 1.
	snapshot := engine.Snapshot()
	assert.Equal(t, 45, snapshot.Score)
	assert.False(t, monitor.Snapshot().Locked)
}

func TestTick_PollingDeadIsNotHealed(t *testing.T) {
	orchestrator, monitor, engine, clk := newTestOrchestrator(session.ModePollingFallback)
	for i := 0; i < 80; i++ {
		engine.Accrue()
	}

	monitor.setLocked(true)
	orchestrator.tick(clk.Now())
	clk.Advance(20 * time.Minute)
	monitor.setLocked(false)
	orchestrator.tick(clk.Now())

	assert.Equal(t, 80, engine.Snapshot().Score)
}

func TestHandleTransition_HealsUnlock(t *testing.T) {
	orchestrator, _, engine, _ := newTestOrchestrator(session.ModeEventDriven)
	for i := 0; i < 50; i++ {
		engine.Accrue()
	}

	orchestrator.handleTransition(session.Transition{Kind: session.TransitionLocked})
	assert.Equal(t, 50, engine.Snapshot().Score)

	orchestrator.handleTransition(session.Transition{Kind: session.TransitionUnlocked, Duration: 3 * time.Minute})
	snapshot := engine.Snapshot()
	assert.Equal(t, 44, snapshot.Score)
	assert.Equal(t, fatigue.StateRound, snapshot.State)
}

func TestRun_DeliversTransitionsAndStops(t *testing.T) {
	monitor := newFakeMonitor(session.ModeEventDriven)
	monitor.tracker.Lock(time.Now())
	engine := fatigue.New(model.DefaultFatigueConfig(false), quietLogger())
	for i := 0; i < 30; i++ {
		engine.Accrue()
	}
	orchestrator := New(engine, monitor, clock.Real{}, Config{TickPeriod: time.Hour}, quietLogger())

	orchestrator.Start(context.Background())
	monitor.transitions <- session.Transition{Kind: session.TransitionUnlocked, Duration: 20 * time.Minute}

	require.Eventually(t, func() bool {
		return engine.Snapshot().Score == 0
	}, time.Second, 5*time.Millisecond)

	orchestrator.Stop()
	orchestrator.Stop()
	assert.False(t, orchestrator.Running())
}

func TestRun_TicksOnTheClock(t *testing.T) {
	monitor := newFakeMonitor(session.ModeEventDriven)
	engine := fatigue.New(model.DefaultFatigueConfig(true), quietLogger())
	orchestrator := New(engine, monitor, clock.Real{}, Config{TickPeriod: 2 * time.Millisecond}, quietLogger())

	orchestrator.Start(context.Background())
	require.Eventually(t, func() bool {
		return engine.Snapshot().Score >= 3
	}, time.Second, 2*time.Millisecond)
	orchestrator.Stop()

	score := engine.Snapshot().Score
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, score, engine.Snapshot().Score)
}

func TestRun_ContextCancelEndsLoop(t *testing.T) {
	orchestrator, _, _, _ := newTestOrchestrator(session.ModeEventDriven)
	ctx, cancel := context.WithCancel(context.Background())

	orchestrator.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		orchestrator.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancel")
	}
}
