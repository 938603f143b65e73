package tray

import (
	"testing"

	"biodaemon/internal/core/fatigue"
	"biodaemon/internal/core/session"

	"github.com/stretchr/testify/assert"
)

func snapshotAt(score int) fatigue.Snapshot {
	state := fatigue.StateRound
	switch {
	case score >= 80:
		state = fatigue.StateTombstone
	case score >= 45:
		state = fatigue.StateSlouch
	}
	return fatigue.Snapshot{Score: score, State: state, Death: 80, Round: 45}
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "Healthy: 45m left", StatusLine(snapshotAt(0)))
	assert.Equal(t, "Healthy: 1m left", StatusLine(snapshotAt(44)))
	assert.Equal(t, "Warning: Overdue by 0m", StatusLine(snapshotAt(45)))
	assert.Equal(t, "Warning: Overdue by 12m", StatusLine(snapshotAt(57)))
}

func TestModeLine(t *testing.T) {
	assert.Contains(t, ModeLine(session.ModeEventDriven), "Lock Screen")
	assert.Contains(t, ModeLine(session.ModePollingFallback), "Polling")
}

func TestItems_DeadMenuOffersRitual(t *testing.T) {
	var resurrected, exited bool
	manager := New(nil, session.ModeEventDriven, snapshotAt(80), Callbacks{
		OnResurrect: func() { resurrected = true },
		OnExit:      func() { exited = true },
	})

	items := manager.items()
	assert.Equal(t, "DIED OF NEGLECT", items[0].Label)
	assert.True(t, items[0].Disabled)

	items[1].Action()
	items[len(items)-1].Action()
	assert.True(t, resurrected)
	assert.True(t, exited)
}

func TestItems_LivingMenu(t *testing.T) {
	manager := New(nil, session.ModePollingFallback, snapshotAt(12), Callbacks{})

	items := manager.items()
	assert.Equal(t, "Healthy: 33m left", items[0].Label)
	assert.Equal(t, "Fatigue: 12/80", items[1].Label)
	assert.Equal(t, "Exit", items[len(items)-1].Label)
	assert.NotPanics(t, items[len(items)-1].Action)
}
