package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scened/internal/editor"
	"github.com/Faultbox/scened/internal/engine/input"
	"github.com/Faultbox/scened/internal/scene"
)

func TestKeyAction(t *testing.T) {
	ctrl := input.Mods{Ctrl: true}
	shift := input.Mods{Shift: true}

	tests := []struct {
		name string
		key  sdl.Scancode
		mods input.Mods
		want action
	}{
		{"spawn pyramid", sdl.SCANCODE_1, input.Mods{}, actionSpawnPyramid},
		{"spawn light", sdl.SCANCODE_4, input.Mods{}, actionSpawnLight},
		{"delete", sdl.SCANCODE_DELETE, input.Mods{}, actionDelete},
		{"delete all", sdl.SCANCODE_DELETE, shift, actionDeleteAll},
		{"save", sdl.SCANCODE_S, ctrl, actionSave},
		{"plain s does nothing", sdl.SCANCODE_S, input.Mods{}, actionNone},
		{"reload", sdl.SCANCODE_L, ctrl, actionReload},
		{"duplicate", sdl.SCANCODE_D, ctrl, actionDuplicate},
		{"ctrl+1 is not spawn", sdl.SCANCODE_1, ctrl, actionNone},
		{"escape", sdl.SCANCODE_ESCAPE, input.Mods{}, actionEscape},
		{"quit", sdl.SCANCODE_Q, ctrl, actionQuit},
		{"screenshot", sdl.SCANCODE_F12, input.Mods{}, actionScreenshot},
		{"diffuse slot", sdl.SCANCODE_X, input.Mods{}, actionSlotDiffuse},
		{"raise red", sdl.SCANCODE_R, input.Mods{}, actionRaiseRed},
		{"lower blue", sdl.SCANCODE_B, shift, actionLowerBlue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyAction(tt.key, tt.mods))
		})
	}
}

func TestSpawnKind(t *testing.T) {
	kinds := map[action]scene.Kind{
		actionSpawnPyramid: scene.KindPyramid,
		actionSpawnCube:    scene.KindCube,
		actionSpawnSphere:  scene.KindSphere,
		actionSpawnLight:   scene.KindLight,
	}
	for a, want := range kinds {
		got, ok := a.spawnKind()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := actionSave.spawnKind()
	assert.False(t, ok)
}

func TestColorActions(t *testing.T) {
	slot, ok := actionSlotSpecular.colorSlot()
	assert.True(t, ok)
	assert.Equal(t, editor.SlotSpecular, slot)
	_, ok = actionRaiseRed.colorSlot()
	assert.False(t, ok)

	channel, delta, ok := actionLowerGreen.colorChange()
	assert.True(t, ok)
	assert.Equal(t, 1, channel)
	assert.InDelta(t, -colorStep, delta, 1e-6)

	_, _, ok = actionSave.colorChange()
	assert.False(t, ok)
}

func TestEditorMods(t *testing.T) {
	assert.Equal(t, editor.Modifiers(0), editorMods(input.Mods{}))
	assert.Equal(t, editor.ModShift|editor.ModAlt, editorMods(input.Mods{Shift: true, Alt: true}))
	assert.True(t, editorMods(input.Mods{Ctrl: true}).Has(editor.ModCtrl))
}
