package tray

import (
	"testing"

	"biodaemon/internal/core/fatigue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotification_FullReset(t *testing.T) {
	notification, ok := Notification(fatigue.Event{
		Type:     fatigue.EventHealed,
		Snapshot: snapshotAt(0),
		Healing:  fatigue.HealingResult{Kind: fatigue.HealFullReset, Minutes: 20},
	})

	require.True(t, ok)
	assert.Equal(t, "Perfect Break", notification.Title)
	assert.Contains(t, notification.Content, "45 mins")
}

func TestNotification_Partial(t *testing.T) {
	notification, ok := Notification(fatigue.Event{
		Type:     fatigue.EventHealed,
		Snapshot: snapshotAt(44),
		Healing:  fatigue.HealingResult{Kind: fatigue.HealPartial, Amount: 6, Minutes: 3},
	})

	require.True(t, ok)
	assert.Equal(t, "Welcome Back", notification.Title)
	assert.Equal(t, "Recovered 6 HP. You have 1 mins of healthy work.", notification.Content)
}

func TestNotification_QuietEvents(t *testing.T) {
	for _, event := range []fatigue.Event{
		{Type: fatigue.EventRefresh, Snapshot: snapshotAt(10)},
		{Type: fatigue.EventReset, Snapshot: snapshotAt(0)},
		{Type: fatigue.EventStateChange, Snapshot: snapshotAt(50), From: fatigue.StateRound},
		{Type: fatigue.EventHealed, Snapshot: snapshotAt(10)},
		{Type: fatigue.EventStateChange, Snapshot: snapshotAt(80), From: fatigue.StateFlat},
	} {
		_, ok := Notification(event)
		assert.False(t, ok, event.Type)
	}
}

func TestDeathWatch_AnnouncesOncePerLife(t *testing.T) {
	var watch DeathWatch

	_, ok := watch.Observe(snapshotAt(79))
	assert.False(t, ok)

	notification, ok := watch.Observe(snapshotAt(80))
	require.True(t, ok)
	assert.Equal(t, "RIP", notification.Title)

	_, ok = watch.Observe(snapshotAt(80))
	assert.False(t, ok)

	_, ok = watch.Observe(snapshotAt(0))
	assert.False(t, ok)
	_, ok = watch.Observe(snapshotAt(80))
	assert.True(t, ok)
}

func TestDeathWatch_RefreshCoversDroppedStateChange(t *testing.T) {
	var watch DeathWatch
	watch.Observe(snapshotAt(78))

	// Only the refresh after the state change reaches the UI.
	refresh := fatigue.Event{Type: fatigue.EventRefresh, Snapshot: snapshotAt(80)}
	_, ok := Notification(refresh)
	assert.False(t, ok)

	notification, ok := watch.Observe(refresh.Snapshot)
	require.True(t, ok)
	assert.Equal(t, "RIP", notification.Title)
}
