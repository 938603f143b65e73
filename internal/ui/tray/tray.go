package tray

import (
	"fmt"

	"biodaemon/internal/core/fatigue"
	"biodaemon/internal/core/session"
	"biodaemon/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "BioDaemon"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnResurrect func()
	OnExit      func()
}

// Manager renders the fatigue snapshot into the system tray.
type Manager struct {
	app       desktop.App
	callbacks Callbacks
	mode      session.Mode
	snapshot  fatigue.Snapshot
	drawn     fatigue.State
}

// New creates a tray manager and draws the initial menu.
func New(app desktop.App, mode session.Mode, snapshot fatigue.Snapshot, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		mode:      mode,
	}
	manager.Update(snapshot)
	return manager
}

// Update redraws the menu and swaps the icon when the state moved. It must
// run on the fyne thread.
func (manager *Manager) Update(snapshot fatigue.Snapshot) {
	manager.snapshot = snapshot
	if manager.app == nil {
		return
	}
	if snapshot.State != manager.drawn {
		manager.app.SetSystemTrayIcon(resources.MustStateIcon(snapshot.State))
		manager.drawn = snapshot.State
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle, manager.items()...))
}

func (manager *Manager) items() []*fyne.MenuItem {
	exit := fyne.NewMenuItem("Exit", manager.exit)
	exit.IsQuit = true

	if manager.snapshot.Dead() {
		return []*fyne.MenuItem{
			disabled("DIED OF NEGLECT"),
			fyne.NewMenuItem("PERFORM RITUAL", manager.resurrect),
			fyne.NewMenuItemSeparator(),
			exit,
		}
	}

	return []*fyne.MenuItem{
		disabled(StatusLine(manager.snapshot)),
		disabled(fmt.Sprintf("Fatigue: %d/%d", manager.snapshot.Score, manager.snapshot.Death)),
		fyne.NewMenuItemSeparator(),
		disabled(ModeLine(manager.mode)),
		exit,
	}
}

func (manager *Manager) resurrect() {
	if manager.callbacks.OnResurrect != nil {
		manager.callbacks.OnResurrect()
	}
}

func (manager *Manager) exit() {
	if manager.callbacks.OnExit != nil {
		manager.callbacks.OnExit()
	}
}

// StatusLine summarises how much healthy work time is left.
func StatusLine(snapshot fatigue.Snapshot) string {
	if snapshot.State == fatigue.StateRound {
		return fmt.Sprintf("Healthy: %dm left", snapshot.HealthyMinutesLeft())
	}
	return fmt.Sprintf("Warning: Overdue by %dm", snapshot.OverdueMinutes())
}

// ModeLine names how breaks are being detected.
func ModeLine(mode session.Mode) string {
	if mode == session.ModeEventDriven {
		return "Auto-Heal Active (Lock Screen)"
	}
	return "Auto-Heal Active (Polling)"
}

func disabled(label string) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, nil)
	item.Disabled = true
	return item
}
