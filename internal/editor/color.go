package editor

import (
	"github.com/Faultbox/scened/internal/scene"
	"github.com/Faultbox/scened/pkg/math"
)

// ColorSlot selects which color of the target is edited.
type ColorSlot int

// Color slots.
const (
	SlotAmbient ColorSlot = iota
	SlotDiffuse
	SlotSpecular
)

// ColorTarget exposes the editable colors of the selected entity: the light
// parameters for a light, the material otherwise.
type ColorTarget struct {
	scene *scene.Scene
	h     scene.Handle
	bound bool
}

func (t *ColorTarget) bind(h scene.Handle) {
	t.h = h
	t.bound = true
}

func (t *ColorTarget) unbind() {
	t.h = scene.Nil
	t.bound = false
}

// Bound reports whether the target refers to a live entity.
func (t *ColorTarget) Bound() bool {
	if !t.bound {
		return false
	}
	_, ok := t.scene.Entity(t.h)
	return ok
}

// IsLight reports whether the bound entity is a light.
func (t *ColorTarget) IsLight() bool {
	if !t.bound {
		return false
	}
	e, ok := t.scene.Entity(t.h)
	if !ok {
		return false
	}
	_, isLight := e.Light()
	return isLight
}

func (t *ColorTarget) slot(slot ColorSlot) *math.Color {
	if !t.bound {
		return nil
	}
	e, ok := t.scene.Entity(t.h)
	if !ok {
		return nil
	}

	if l, ok := e.Light(); ok {
		switch slot {
		case SlotAmbient:
			return &l.Ambient
		case SlotDiffuse:
			return &l.Diffuse
		case SlotSpecular:
			return &l.Specular
		}
		return nil
	}

	switch slot {
	case SlotAmbient:
		return &e.Material.Ambient
	case SlotDiffuse:
		return &e.Material.Diffuse
	case SlotSpecular:
		return &e.Material.Specular
	}
	return nil
}

// Color returns the color in slot.
func (t *ColorTarget) Color(slot ColorSlot) (math.Color, bool) {
	c := t.slot(slot)
	if c == nil {
		return math.Color{}, false
	}
	return *c, true
}

// SetColor replaces the color in slot, clamped to [0, 1].
func (t *ColorTarget) SetColor(slot ColorSlot, v math.Color) bool {
	c := t.slot(slot)
	if c == nil {
		return false
	}
	*c = v.Clamp()
	return true
}

// SetComponent sets one channel (0=r, 1=g, 2=b, 3=a) of the color in slot,
// clamped to [0, 1].
func (t *ColorTarget) SetComponent(slot ColorSlot, channel int, value float32) bool {
	c := t.slot(slot)
	if c == nil {
		return false
	}
	v := *c
	switch channel {
	case 0:
		v.R = value
	case 1:
		v.G = value
	case 2:
		v.B = value
	case 3:
		v.A = value
	default:
		return false
	}
	*c = v.Clamp()
	return true
}

// Adjust adds delta to one channel of the color in slot and returns the
// clamped result.
func (t *ColorTarget) Adjust(slot ColorSlot, channel int, delta float32) (math.Color, bool) {
	c := t.slot(slot)
	if c == nil {
		return math.Color{}, false
	}
	var cur float32
	switch channel {
	case 0:
		cur = c.R
	case 1:
		cur = c.G
	case 2:
		cur = c.B
	case 3:
		cur = c.A
	default:
		return math.Color{}, false
	}
	t.SetComponent(slot, channel, cur+delta)
	return *c, true
}

func (s ColorSlot) String() string {
	switch s {
	case SlotAmbient:
		return "ambient"
	case SlotDiffuse:
		return "diffuse"
	case SlotSpecular:
		return "specular"
	}
	return "unknown"
}
