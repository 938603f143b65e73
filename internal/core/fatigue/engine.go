package fatigue

import (
	"sync"
	"time"

	"biodaemon/internal/core/model"

	"github.com/sirupsen/logrus"
)

// Engine owns the fatigue score. All mutations are serialized by one mutex
// and every mutation re-derives the state, emitting EventStateChange when it
// moves.
type Engine struct {
	mu     sync.Mutex
	config model.FatigueConfig
	score  int
	state  State
	events []chan Event
	closed bool
	logger *logrus.Entry
}

// New creates an Engine at score zero.
func New(config model.FatigueConfig, logger *logrus.Entry) *Engine {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		config: config,
		state:  StateFor(0, config.Thresholds),
		logger: logger.WithField("component", "fatigue"),
	}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	if engine.closed {
		close(ch)
	} else {
		engine.events = append(engine.events, ch)
	}
	engine.mu.Unlock()
	return ch
}

// Close closes all observer channels. Mutations after Close still apply but
// are no longer published.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns the current score and state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Accrue adds one minute of fatigue unless the score is already capped.
func (engine *Engine) Accrue() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.score >= engine.config.Thresholds.Death {
		return false
	}
	engine.setScoreLocked(engine.score + 1)
	return true
}

// Heal applies the recovery earned by a break of the given length. Once the
// score reaches the cap breaks no longer heal; only Reset revives.
func (engine *Engine) Heal(duration time.Duration) HealingResult {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	minutes := BreakMinutes(duration, engine.config.Timescale.Minute)
	if engine.score >= engine.config.Thresholds.Death {
		engine.logger.WithField("minutes", minutes).Debug("break ignored, fatigue at cap")
		return HealingResult{Kind: HealNone, Minutes: minutes}
	}

	result := HealingFor(minutes, engine.config.Healing)
	switch result.Kind {
	case HealFullReset:
		engine.setScoreLocked(0)
	case HealPartial:
		engine.setScoreLocked(engine.score - result.Amount)
	default:
		return result
	}

	engine.logger.WithFields(logrus.Fields{
		"minutes": minutes,
		"kind":    result.Kind.String(),
		"amount":  result.Amount,
		"score":   engine.score,
	}).Info("break healed fatigue")
	engine.emitLocked(Event{
		Type:     EventHealed,
		Snapshot: engine.snapshotLocked(),
		Healing:  result,
	})
	return result
}

// Reset zeroes the score regardless of the healing rules.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.setScoreLocked(0)
	engine.logger.Info("fatigue reset manually")
	engine.emitLocked(Event{
		Type:     EventReset,
		Snapshot: engine.snapshotLocked(),
	})
}

// Refresh publishes the current snapshot so observers can redraw.
func (engine *Engine) Refresh() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.emitLocked(Event{
		Type:     EventRefresh,
		Snapshot: engine.snapshotLocked(),
	})
}

func (engine *Engine) setScoreLocked(score int) {
	engine.score = Clamp(score, engine.config.Thresholds.Death)
	next := StateFor(engine.score, engine.config.Thresholds)
	if next == engine.state {
		return
	}
	previous := engine.state
	engine.state = next
	engine.logger.WithFields(logrus.Fields{
		"from":  previous,
		"to":    next,
		"score": engine.score,
	}).Info("fatigue state changed")
	engine.emitLocked(Event{
		Type:     EventStateChange,
		Snapshot: engine.snapshotLocked(),
		From:     previous,
	})
}

func (engine *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Score: engine.score,
		State: engine.state,
		Death: engine.config.Thresholds.Death,
		Round: engine.config.Thresholds.Round,
	}
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
