package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scened/internal/editor"
	"github.com/Faultbox/scened/internal/engine/input"
	"github.com/Faultbox/scened/internal/scene"
)

type action int

const (
	actionNone action = iota
	actionSpawnPyramid
	actionSpawnCube
	actionSpawnSphere
	actionSpawnLight
	actionDelete
	actionDeleteAll
	actionDuplicate
	actionSave
	actionReload
	actionEscape
	actionScreenshot
	actionQuit
	actionSlotAmbient
	actionSlotDiffuse
	actionSlotSpecular
	actionRaiseRed
	actionRaiseGreen
	actionRaiseBlue
	actionLowerRed
	actionLowerGreen
	actionLowerBlue
)

// colorStep is how far one key press moves a color channel.
const colorStep = 0.1

// keyAction maps a key press to an editor action.
func keyAction(key sdl.Scancode, mods input.Mods) action {
	if mods.Ctrl {
		switch key {
		case sdl.SCANCODE_S:
			return actionSave
		case sdl.SCANCODE_L:
			return actionReload
		case sdl.SCANCODE_D:
			return actionDuplicate
		case sdl.SCANCODE_Q:
			return actionQuit
		}
		return actionNone
	}

	switch key {
	case sdl.SCANCODE_1:
		return actionSpawnPyramid
	case sdl.SCANCODE_2:
		return actionSpawnCube
	case sdl.SCANCODE_3:
		return actionSpawnSphere
	case sdl.SCANCODE_4:
		return actionSpawnLight
	case sdl.SCANCODE_DELETE, sdl.SCANCODE_BACKSPACE:
		if mods.Shift {
			return actionDeleteAll
		}
		return actionDelete
	case sdl.SCANCODE_ESCAPE:
		return actionEscape
	case sdl.SCANCODE_F12:
		return actionScreenshot
	case sdl.SCANCODE_Z:
		return actionSlotAmbient
	case sdl.SCANCODE_X:
		return actionSlotDiffuse
	case sdl.SCANCODE_C:
		return actionSlotSpecular
	case sdl.SCANCODE_R:
		if mods.Shift {
			return actionLowerRed
		}
		return actionRaiseRed
	case sdl.SCANCODE_G:
		if mods.Shift {
			return actionLowerGreen
		}
		return actionRaiseGreen
	case sdl.SCANCODE_B:
		if mods.Shift {
			return actionLowerBlue
		}
		return actionRaiseBlue
	}
	return actionNone
}

// colorSlot returns the color slot a slot action selects.
func (a action) colorSlot() (editor.ColorSlot, bool) {
	switch a {
	case actionSlotAmbient:
		return editor.SlotAmbient, true
	case actionSlotDiffuse:
		return editor.SlotDiffuse, true
	case actionSlotSpecular:
		return editor.SlotSpecular, true
	}
	return 0, false
}

// colorChange returns the channel and delta a color step action applies.
func (a action) colorChange() (channel int, delta float32, ok bool) {
	switch a {
	case actionRaiseRed:
		return 0, colorStep, true
	case actionRaiseGreen:
		return 1, colorStep, true
	case actionRaiseBlue:
		return 2, colorStep, true
	case actionLowerRed:
		return 0, -colorStep, true
	case actionLowerGreen:
		return 1, -colorStep, true
	case actionLowerBlue:
		return 2, -colorStep, true
	}
	return 0, 0, false
}

// spawnKind returns the entity kind a spawn action creates.
func (a action) spawnKind() (scene.Kind, bool) {
	switch a {
	case actionSpawnPyramid:
		return scene.KindPyramid, true
	case actionSpawnCube:
		return scene.KindCube, true
	case actionSpawnSphere:
		return scene.KindSphere, true
	case actionSpawnLight:
		return scene.KindLight, true
	}
	return 0, false
}

func editorMods(m input.Mods) editor.Modifiers {
	var out editor.Modifiers
	if m.Shift {
		out |= editor.ModShift
	}
	if m.Ctrl {
		out |= editor.ModCtrl
	}
	if m.Alt {
		out |= editor.ModAlt
	}
	return out
}
