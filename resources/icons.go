// Package resources renders the tray icons, one per fatigue state.
package resources

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"

	"biodaemon/internal/core/fatigue"

	"fyne.io/fyne/v2"
	"github.com/pkg/errors"
)

const iconSize = 64

// shape describes the pet for one state: an ellipse squashed as fatigue grows.
type shape struct {
	fill    color.NRGBA
	radiusX float64
	radiusY float64
	cross   bool
}

var shapes = map[fatigue.State]shape{
	fatigue.StateRound:     {fill: color.NRGBA{R: 76, G: 175, B: 80, A: 255}, radiusX: 26, radiusY: 26},
	fatigue.StateSlouch:    {fill: color.NRGBA{R: 205, G: 220, B: 57, A: 255}, radiusX: 28, radiusY: 21},
	fatigue.StateMelt:      {fill: color.NRGBA{R: 255, G: 152, B: 0, A: 255}, radiusX: 30, radiusY: 15},
	fatigue.StateFlat:      {fill: color.NRGBA{R: 229, G: 57, B: 53, A: 255}, radiusX: 31, radiusY: 8},
	fatigue.StateTombstone: {fill: color.NRGBA{R: 120, G: 120, B: 120, A: 255}, radiusX: 20, radiusY: 28, cross: true},
}

var iconCache sync.Map

// StateIcon returns the tray icon for a state.
func StateIcon(state fatigue.State) (fyne.Resource, error) {
	if cached, ok := iconCache.Load(state); ok {
		return cached.(fyne.Resource), nil
	}
	art, ok := shapes[state]
	if !ok {
		return nil, errors.Errorf("no icon for state %q", state)
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, render(art)); err != nil {
		return nil, errors.Wrapf(err, "encode icon %s", state)
	}
	resource := fyne.NewStaticResource(string(state)+".png", buffer.Bytes())
	iconCache.Store(state, resource)
	return resource, nil
}

// MustStateIcon returns the icon or panics on error.
func MustStateIcon(state fatigue.State) fyne.Resource {
	resource, err := StateIcon(state)
	if err != nil {
		panic(err)
	}
	return resource
}

func render(art shape) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	centerX := float64(iconSize) / 2
	// Squashed shapes sit on the floor instead of floating.
	centerY := float64(iconSize) - 2 - art.radiusY
	ink := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx := (float64(x) + 0.5 - centerX) / art.radiusX
			dy := (float64(y) + 0.5 - centerY) / art.radiusY
			if dx*dx+dy*dy > 1 {
				continue
			}
			canvas.SetNRGBA(x, y, art.fill)
			if art.cross && onCross(x, y, int(centerX), int(centerY)) {
				canvas.SetNRGBA(x, y, ink)
			}
		}
	}
	return canvas
}

func onCross(x, y, centerX, centerY int) bool {
	vertical := x >= centerX-2 && x <= centerX+1 && y >= centerY-16 && y <= centerY+10
	horizontal := y >= centerY-8 && y <= centerY-5 && x >= centerX-9 && x <= centerX+8
	return vertical || horizontal
}
