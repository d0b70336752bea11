package app

import (
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/windflag/internal/engine/input"
)

// Wind control range and step, matching the slider the flag was designed for.
const (
	WindStep = 0.1
	MaxWind  = 5.0
)

// DefaultOverlayText is the text toggled onto the flag.
const DefaultOverlayText = "HANUMATRIX"

// TextureOptions are the sources cycled through at runtime. The empty
// string means no texture.
var TextureOptions = []string{
	"/flag.png",
	"",
	"https://example.com/flag.png",
}

// Action is something the user asked for.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionWindUp
	ActionWindDown
	ActionNextTexture
	ActionToggleText
	ActionCapture
	ActionOrbit
	ActionZoom
	ActionResize
)

// Command is an action plus its arguments.
type Command struct {
	Action Action
	DX, DY float32 // Orbit drag in pixels
	Zoom   float32 // Wheel steps, positive moves closer
	Width  int
	Height int
}

// DefaultBindings maps keys to actions.
var DefaultBindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_UP:     ActionWindUp,
	sdl.SCANCODE_EQUALS: ActionWindUp,
	sdl.SCANCODE_DOWN:   ActionWindDown,
	sdl.SCANCODE_MINUS:  ActionWindDown,
	sdl.SCANCODE_T:      ActionNextTexture,
	sdl.SCANCODE_O:      ActionToggleText,
	sdl.SCANCODE_F12:    ActionCapture,
	sdl.SCANCODE_P:      ActionCapture,
}

// Controls turns input events into commands. Dragging with the left mouse
// button orbits the camera; the wheel zooms.
type Controls struct {
	Bindings map[sdl.Scancode]Action
	dragging bool
}

// NewControls returns controls with the default bindings.
func NewControls() *Controls {
	return &Controls{Bindings: DefaultBindings}
}

// Handle maps one event to a command. Events with no meaning return
// ActionNone.
func (c *Controls) Handle(ev input.Event) Command {
	switch ev.Type {
	case input.EventQuit:
		return Command{Action: ActionQuit}

	case input.EventWindowResize:
		return Command{Action: ActionResize, Width: ev.Width, Height: ev.Height}

	case input.EventKeyDown:
		action := c.Bindings[ev.Key]
		// Holding a key repeats wind steps but not one-shot toggles
		if ev.Repeat && action != ActionWindUp && action != ActionWindDown {
			return Command{}
		}
		return Command{Action: action}

	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			c.dragging = true
		}

	case input.EventMouseUp:
		if ev.Button == sdl.BUTTON_LEFT {
			c.dragging = false
		}

	case input.EventMouseMove:
		if c.dragging {
			return Command{Action: ActionOrbit, DX: float32(ev.DeltaX), DY: float32(ev.DeltaY)}
		}

	case input.EventMouseWheel:
		if ev.WheelY != 0 {
			return Command{Action: ActionZoom, Zoom: ev.WheelY}
		}
	}
	return Command{}
}

// Dragging reports whether an orbit drag is in progress.
func (c *Controls) Dragging() bool {
	return c.dragging
}

// StepWind moves w by delta, clamps it to [0, MaxWind] and snaps it to the
// slider grid so repeated steps do not accumulate float error.
func StepWind(w, delta float32) float32 {
	v := math.Round(float64(w+delta)/WindStep) * WindStep
	v = math.Min(math.Max(v, 0), MaxWind)
	return float32(v)
}

// NextTexture returns the option after current, wrapping around. An
// unknown source restarts the cycle.
func NextTexture(current string) string {
	for i, opt := range TextureOptions {
		if opt == current {
			return TextureOptions[(i+1)%len(TextureOptions)]
		}
	}
	return TextureOptions[0]
}

// ToggleText switches between no overlay text and DefaultOverlayText.
func ToggleText(current string) string {
	if current == "" {
		return DefaultOverlayText
	}
	return ""
}
