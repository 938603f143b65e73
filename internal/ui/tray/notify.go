package tray

import (
	"fmt"

	"biodaemon/internal/core/fatigue"

	"fyne.io/fyne/v2"
)

// Notification turns a healing event into a desktop notification. Deaths are
// announced by DeathWatch.
func Notification(event fatigue.Event) (*fyne.Notification, bool) {
	switch event.Type {
	case fatigue.EventHealed:
		switch event.Healing.Kind {
		case fatigue.HealFullReset:
			return fyne.NewNotification("Perfect Break",
				fmt.Sprintf("Fully Rested! You have %d mins of healthy work.", event.Snapshot.Round)), true
		case fatigue.HealPartial:
			return fyne.NewNotification("Welcome Back",
				fmt.Sprintf("Recovered %d HP. You have %d mins of healthy work.",
					event.Healing.Amount, event.Snapshot.HealthyMinutesLeft())), true
		}
	}
	return nil, false
}

// DeathWatch announces the pet's death once per life. It looks at every
// snapshot rather than at state-change events, so a dropped event only
// delays the notice until the next refresh. Not safe for concurrent use.
type DeathWatch struct {
	dead bool
}

// Observe returns the death notice on the first dead snapshot after a living one.
func (watch *DeathWatch) Observe(snapshot fatigue.Snapshot) (*fyne.Notification, bool) {
	dead := snapshot.State == fatigue.StateTombstone
	announce := dead && !watch.dead
	watch.dead = dead
	if !announce {
		return nil, false
	}
	return fyne.NewNotification("RIP", "Pixel has died of neglect."), true
}
