package fatigue

// State is the visual fatigue level derived from the score.
type State string

const (
	StateRound     State = "round"
	StateSlouch    State = "slouch"
	StateMelt      State = "melt"
	StateFlat      State = "flat"
	StateTombstone State = "tombstone"
)

// States lists every state in ascending order of fatigue.
var States = []State{StateRound, StateSlouch, StateMelt, StateFlat, StateTombstone}

// EventType defines the type of Engine event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventHealed      EventType = "healed"
	EventReset       EventType = "reset"
	EventRefresh     EventType = "refresh"
)

// Snapshot is the observable score and state pair.
type Snapshot struct {
	Score int
	State State
	Death int
	Round int
}

// Dead reports whether the score sits at the cap.
func (snapshot Snapshot) Dead() bool {
	return snapshot.Score >= snapshot.Death
}

// HealthyMinutesLeft returns the minutes of work left before leaving Round.
func (snapshot Snapshot) HealthyMinutesLeft() int {
	return max(0, snapshot.Round-snapshot.Score)
}

// OverdueMinutes returns how far past the healthy window the score is.
func (snapshot Snapshot) OverdueMinutes() int {
	return max(0, snapshot.Score-snapshot.Round)
}

// Event represents an Engine update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	From     State
	Healing  HealingResult
}
