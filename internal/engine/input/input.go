// Package input turns SDL2 events into viewer actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionFaceBack
	ActionFaceRight
	ActionFaceFront
	ActionFaceLeft
	ActionToggleWalk
	ActionToggleSwim
	ActionReload
	ActionNextHair
	ActionCycleColor
	ActionSave
)

var bindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_UP:     ActionFaceBack,
	sdl.SCANCODE_RIGHT:  ActionFaceRight,
	sdl.SCANCODE_DOWN:   ActionFaceFront,
	sdl.SCANCODE_LEFT:   ActionFaceLeft,
	sdl.SCANCODE_W:      ActionToggleWalk,
	sdl.SCANCODE_S:      ActionToggleSwim,
	sdl.SCANCODE_R:      ActionReload,
	sdl.SCANCODE_H:      ActionNextHair,
	sdl.SCANCODE_C:      ActionCycleColor,
	sdl.SCANCODE_F5:     ActionSave,
}

// ActionFor returns the action bound to a key.
func ActionFor(key sdl.Scancode) Action {
	return bindings[key]
}

// Input collects the actions triggered since the last Update.
type Input struct {
	actions []Action
	width   int
	height  int
	resized bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		actions: make([]Action, 0, 8),
	}
}

// Update polls SDL events. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.actions = i.actions[:0]
	i.resized = false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.width, i.height = int(e.Data1), int(e.Data2)
				i.resized = true
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			a := ActionFor(e.Keysym.Scancode)
			if a == ActionQuit {
				return true
			}
			if a != ActionNone {
				i.actions = append(i.actions, a)
			}
		}
	}

	return false
}

// Actions returns the actions from the last Update, in event order.
func (i *Input) Actions() []Action {
	return i.actions
}

// Resized returns the new window size if the window was resized during the
// last Update.
func (i *Input) Resized() (int, int, bool) {
	return i.width, i.height, i.resized
}
