// Package prompt shows the confirmation needed to revive a dead pet.
package prompt

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const (
	resurrectTitle   = "RESURRECTION"
	resurrectMessage = "Manual Override Required.\nDo 20 Jumping Jacks to revive Pixel."
)

// Resurrect owns the window the confirmation dialog is parented to.
type Resurrect struct {
	window   fyne.Window
	onRevive func()
	open     bool
}

// NewResurrect creates the hidden prompt window. onRevive runs when the user
// confirms.
func NewResurrect(app fyne.App, onRevive func()) *Resurrect {
	window := app.NewWindow(resurrectTitle)
	window.SetContent(widget.NewLabel("Pixel is waiting."))
	window.Resize(fyne.NewSize(360, 200))
	window.SetCloseIntercept(window.Hide)

	return &Resurrect{window: window, onRevive: onRevive}
}

// Show raises the confirmation. A second call while it is open is ignored.
// It must run on the fyne thread.
func (prompt *Resurrect) Show() {
	if prompt.open {
		return
	}
	prompt.open = true
	prompt.window.Show()
	prompt.window.RequestFocus()

	dialog.ShowConfirm(resurrectTitle, resurrectMessage, func(confirmed bool) {
		prompt.open = false
		prompt.window.Hide()
		if confirmed && prompt.onRevive != nil {
			prompt.onRevive()
		}
	}, prompt.window)
}
