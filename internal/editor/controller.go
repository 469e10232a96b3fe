// Package editor turns mouse input into selection and move, scale and
// rotate edits on scene entities.
package editor

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/scened/internal/engine/picking"
	"github.com/Faultbox/scened/internal/logger"
	"github.com/Faultbox/scened/internal/scene"
	"github.com/Faultbox/scened/pkg/math"
)

// Mode is the manipulation in progress.
type Mode int

// Manipulation modes.
const (
	ModeIdle Mode = iota
	ModeMove
	ModeScale
	ModeRotate
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeScale:
		return "scale"
	case ModeRotate:
		return "rotate"
	default:
		return "idle"
	}
}

// Modifiers are the keyboard modifiers held during a mouse event.
type Modifiers uint8

// Modifier flags.
const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether all flags in m2 are set.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// Limits applied while editing.
const (
	MinScale  = 0.1
	MinRadius = 0.1
	// RotateDeadZone is the offset below which a rotate drag changes nothing.
	RotateDeadZone = 1e-4
	// flatEpsilon is the smallest horizontal extent of the camera forward
	// vector that still defines a vertical drag plane.
	flatEpsilon = 1e-3
)

type snapshot struct {
	position math.Vec3
	rotation math.Vec3
	scale    math.Vec3
}

// Controller owns the selection and the drag state machine:
// Idle, then Move, Scale or Rotate while the button is held, then Idle.
type Controller struct {
	scene *scene.Scene
	log   *zap.Logger

	selected scene.Handle
	has      bool

	mode     Mode
	vertical bool
	anchor   math.Vec2
	offset   math.Vec3
	start    snapshot

	colors ColorTarget
}

// NewController returns a controller editing s.
func NewController(s *scene.Scene) *Controller {
	c := &Controller{
		scene: s,
		log:   logger.Named("editor"),
	}
	c.colors.scene = s
	return c
}

// Mode returns the current manipulation mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Colors returns the color edit target bound to the selection.
func (c *Controller) Colors() *ColorTarget {
	return &c.colors
}

// Selected returns the selected entity. A selection whose entity was
// destroyed elsewhere is dropped here.
func (c *Controller) Selected() (scene.Handle, bool) {
	if !c.has {
		return scene.Nil, false
	}
	if _, ok := c.scene.Entity(c.selected); !ok {
		c.clearSelection()
		return scene.Nil, false
	}
	return c.selected, true
}

func (c *Controller) entity() (*scene.Entity, bool) {
	h, ok := c.Selected()
	if !ok {
		return nil, false
	}
	return c.scene.Entity(h)
}

// Select makes h the selection, highlighting it and binding the color target.
func (c *Controller) Select(h scene.Handle) bool {
	e, ok := c.scene.Entity(h)
	if !ok {
		return false
	}
	if cur, ok := c.entity(); ok && c.selected != h {
		cur.Selected = false
	}
	c.selected = h
	c.has = true
	e.Selected = true
	c.colors.bind(h)
	c.log.Debug("selected", zap.Stringer("handle", h), zap.Stringer("kind", e.Kind()))
	return true
}

// Unselect clears the selection and any drag in progress.
func (c *Controller) Unselect() {
	if e, ok := c.entity(); ok {
		e.Selected = false
	}
	c.clearSelection()
}

func (c *Controller) clearSelection() {
	c.selected = scene.Nil
	c.has = false
	c.mode = ModeIdle
	c.colors.unbind()
}

// MouseDown picks at ndc. A hit selects the entity and starts the mode
// chosen by mods: none moves, Shift scales, Ctrl rotates, Alt constrains
// to the vertical axis. A miss clears the selection.
func (c *Controller) MouseDown(ndc math.Vec2, mods Modifiers, cam scene.Camera) bool {
	h, ok := c.scene.SelectEntity(ndc, cam)
	if !ok {
		c.Unselect()
		return false
	}
	c.Select(h)
	e, _ := c.scene.Entity(h)

	switch {
	case mods.Has(ModShift):
		c.mode = ModeScale
	case mods.Has(ModCtrl):
		c.mode = ModeRotate
	default:
		c.mode = ModeMove
	}
	c.vertical = mods.Has(ModAlt)
	c.anchor = ndc
	c.start = snapshot{position: e.Position, rotation: e.Rotation, scale: e.Scale}

	// Remember where on the drag plane the click landed relative to the
	// origin so the entity does not jump under the cursor.
	c.offset = math.Zero3
	var hit math.Vec3
	if c.vertical || c.mode == ModeRotate {
		hit, ok = verticalHit(ndc, cam, e.Position)
	} else {
		hit, ok = horizontalHit(ndc, cam, e.Position.Y)
	}
	if ok {
		c.offset = e.Position.Sub(hit)
	}

	c.log.Debug("drag started", zap.Stringer("mode", c.mode), zap.Bool("vertical", c.vertical))
	return true
}

// MouseMove applies the active drag. Degenerate plane intersections leave
// the entity unchanged for this event.
func (c *Controller) MouseMove(ndc math.Vec2, mods Modifiers, cam scene.Camera) {
	if c.mode == ModeIdle {
		return
	}
	e, ok := c.entity()
	if !ok {
		return
	}

	switch c.mode {
	case ModeMove:
		c.move(e, ndc, cam)
	case ModeScale:
		c.scale(e, ndc, cam)
	case ModeRotate:
		c.rotate(e, ndc, cam)
	}
}

// MouseUp ends the drag. The selection stays.
func (c *Controller) MouseUp() {
	if c.mode != ModeIdle {
		c.log.Debug("drag finished", zap.Stringer("mode", c.mode))
	}
	c.mode = ModeIdle
}

// Cancel ends the drag and restores the transform from when it started.
func (c *Controller) Cancel() {
	if c.mode == ModeIdle {
		return
	}
	if e, ok := c.entity(); ok {
		e.Position = c.start.position
		e.Rotation = c.start.rotation
		e.Scale = c.start.scale
	}
	c.mode = ModeIdle
}

func (c *Controller) move(e *scene.Entity, ndc math.Vec2, cam scene.Camera) {
	if c.vertical {
		hit, ok := verticalHit(ndc, cam, e.Position)
		if !ok {
			return
		}
		e.Position.Y = hit.Y + c.offset.Y
		return
	}

	hit, ok := horizontalHit(ndc, cam, e.Position.Y)
	if !ok {
		return
	}
	e.Position.X = hit.X + c.offset.X
	e.Position.Z = hit.Z + c.offset.Z
}

func (c *Controller) scale(e *scene.Entity, ndc math.Vec2, cam scene.Camera) {
	if c.vertical && e.Kind() != scene.KindLight && e.Kind() != scene.KindSphere {
		hit, ok := verticalHit(ndc, cam, e.Position)
		if !ok {
			return
		}
		e.Scale.Y = math32.Max(2*math32.Abs(hit.Y-e.Position.Y), MinScale)
		return
	}

	hit, ok := horizontalHit(ndc, cam, e.Position.Y)
	if !ok {
		return
	}
	delta := hit.Sub(e.Position)

	switch body := e.Body.(type) {
	case *scene.Light:
		body.Radius = math32.Max(delta.Length(), MinRadius)
	case *scene.Solid:
		if body.Shape == scene.KindSphere {
			// Unit-diameter mesh: the cursor distance is the new radius.
			s := math32.Max(2*delta.Length(), MinScale)
			e.Scale = math.Vec3{X: s, Y: s, Z: s}
			return
		}
		e.Scale.X = math32.Max(2*math32.Abs(delta.X), MinScale)
		e.Scale.Z = math32.Max(2*math32.Abs(delta.Z), MinScale)
	}
}

func (c *Controller) rotate(e *scene.Entity, ndc math.Vec2, cam scene.Camera) {
	hit, ok := verticalHit(ndc, cam, e.Position)
	if !ok {
		return
	}
	delta := hit.Sub(e.Position)
	if delta.Length() < RotateDeadZone {
		return
	}
	e.Rotation.X = WrapAngle(delta.X)
	e.Rotation.Y = WrapAngle(delta.Z)
}

// Spawn creates an entity where the cursor meets the ground plane. If the
// cursor misses the ground the entity stays at the origin.
func (c *Controller) Spawn(kind scene.Kind, ndc math.Vec2, cam scene.Camera) (scene.Handle, error) {
	h, err := c.scene.CreateEntity(kind)
	if err != nil {
		return scene.Nil, fmt.Errorf("spawn %s: %w", kind, err)
	}
	if p, ok := c.scene.ToWorld(ndc, cam, 0); ok {
		e, _ := c.scene.Entity(h)
		e.Position = p
	}
	return h, nil
}

// DeleteSelected destroys the selected entity and clears the selection in
// the same step.
func (c *Controller) DeleteSelected() bool {
	h, ok := c.Selected()
	if !ok {
		return false
	}
	c.clearSelection()
	return c.scene.DestroyEntity(h)
}

// DeleteAll destroys every entity except the floor and clears the selection.
func (c *Controller) DeleteAll() {
	c.clearSelection()
	c.scene.DestroyAllEntities()
}

// DuplicateSelected copies the selection and selects the copy.
func (c *Controller) DuplicateSelected() (scene.Handle, error) {
	h, ok := c.Selected()
	if !ok {
		return scene.Nil, scene.ErrInvalidHandle
	}
	dup, err := c.scene.DuplicateEntity(h)
	if err != nil {
		return scene.Nil, err
	}
	c.Select(dup)
	return dup, nil
}

// WrapAngle maps a into [0, 2π).
func WrapAngle(a float32) float32 {
	const twoPi = 2 * math32.Pi
	r := a - twoPi*math32.Floor(a/twoPi)
	if r >= twoPi || r < 0 {
		return 0
	}
	return r
}

// horizontalHit intersects the ray through ndc with the plane y = height.
// Hits behind the camera count as misses.
func horizontalHit(ndc math.Vec2, cam scene.Camera, height float32) (math.Vec3, bool) {
	return picking.Unproject(ndc, cam).IntersectPlaneY(height)
}

// verticalHit intersects the ray through ndc with the vertical plane through
// origin that faces the camera horizontally.
func verticalHit(ndc math.Vec2, cam scene.Camera, origin math.Vec3) (math.Vec3, bool) {
	n := math.Vec3{X: cam.Direction.X, Z: cam.Direction.Z}
	if n.Length() < flatEpsilon {
		return math.Vec3{}, false
	}
	n = n.Normalize()
	return picking.Unproject(ndc, cam).IntersectPlane(n, -n.Dot(origin))
}
