package scene

import (
	"fmt"

	"github.com/Faultbox/scened/internal/engine/device"
	"github.com/Faultbox/scened/internal/engine/primitive"
	"github.com/Faultbox/scened/pkg/math"
)

// Kind identifies what an entity is. The numeric values are the type tags
// stored in scene files.
type Kind int

// Entity kinds.
const (
	KindPyramid Kind = iota
	KindCube
	KindSphere
	KindLight
)

var kindNames = [...]string{"pyramid", "cube", "sphere", "light"}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= KindPyramid && k <= KindLight
}

// Material holds the lighting colors and shader of an entity.
type Material struct {
	Ambient  math.Color
	Diffuse  math.Color
	Specular math.Color
	Shader   device.Shader
}

// Body is the kind-specific part of an entity: *Solid or *Light.
type Body interface {
	Kind() Kind
	clone() Body
}

// Solid is a plain mesh entity.
type Solid struct {
	Shape Kind
}

// Kind returns the solid's shape.
func (s *Solid) Kind() Kind { return s.Shape }

func (s *Solid) clone() Body {
	c := *s
	return &c
}

// Light is a point light. Its colors drive the lighting, not the marker mesh.
type Light struct {
	Ambient  math.Color
	Diffuse  math.Color
	Specular math.Color
	Radius   float32 // attenuation radius
}

// Kind returns KindLight.
func (l *Light) Kind() Kind { return KindLight }

func (l *Light) clone() Body {
	c := *l
	return &c
}

// DefaultLight returns the parameters of a freshly created light.
func DefaultLight() Light {
	return Light{
		Ambient:  math.Black,
		Diffuse:  math.White,
		Specular: math.White,
		Radius:   5,
	}
}

// Entity is a placeable scene object.
type Entity struct {
	Body     Body                `copier:"-"`
	Mesh     primitive.Primitive `copier:"-"`
	Material Material
	Position math.Vec3
	Rotation math.Vec3 // head, pitch, roll in radians
	Scale    math.Vec3
	Selected bool `copier:"-"`
}

// Kind returns the entity kind.
func (e *Entity) Kind() Kind {
	return e.Body.Kind()
}

// Light returns the light parameters if the entity is a light.
func (e *Entity) Light() (*Light, bool) {
	l, ok := e.Body.(*Light)
	return l, ok
}

// BoundingRadius returns the picking sphere radius with scale applied.
func (e *Entity) BoundingRadius() float32 {
	return e.Scale.MaxComponent() * e.Mesh.BoundingRadius
}

// Model returns the entity transform: translate, then scale, then rotate.
func (e *Entity) Model() math.Mat4 {
	return math.TranslateVec(e.Position).
		Mul(math.ScaleVec(e.Scale)).
		Mul(math.RotateXYZ(e.Rotation.X, e.Rotation.Y, e.Rotation.Z))
}
