// Package scene owns the editor's entities: creation, destruction, picking,
// rendering and persistence.
package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/Faultbox/scened/internal/engine/lighting"
	"github.com/Faultbox/scened/internal/engine/primitive"
	"github.com/Faultbox/scened/internal/logger"
	"github.com/Faultbox/scened/pkg/math"
)

// Mesh dimensions of the built-in kinds.
const (
	SolidSize         = 1.0
	SphereRadius      = 0.5
	LightMarkerRadius = 0.15
)

// FloorSize is the X/Z extent of the floor plane.
var FloorSize = math.Vec2{X: 25, Y: 25}

// FloorHeight is the Y position of the floor plane.
const FloorHeight = -0.5

// PrimitiveFactory creates and destroys entity meshes.
type PrimitiveFactory interface {
	CreatePyramid(size float32) primitive.Primitive
	CreateCube(size float32) primitive.Primitive
	CreateSphere(radius float32) primitive.Primitive
	CreatePlane(size math.Vec2) primitive.Primitive
	Destroy(p primitive.Primitive)
}

// Option configures a Scene.
type Option func(*Scene)

// WithRand sets the source used to tint new solids.
func WithRand(r *rand.Rand) Option {
	return func(s *Scene) {
		s.rng = r
	}
}

// Scene is the entity store. It is not safe for concurrent use.
type Scene struct {
	factory  PrimitiveFactory
	template Material
	rng      *rand.Rand
	log      *zap.Logger

	entities arena
	lights   []Handle
	floor    *Entity

	block lighting.Block
}

// New creates a scene with only the floor. Every new entity starts from a
// copy of template.
func New(factory PrimitiveFactory, template Material, opts ...Option) *Scene {
	s := &Scene{
		factory:  factory,
		template: template,
		log:      logger.Named("scene"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	floorMat := template
	floorMat.Diffuse = math.Grey(0.4)
	floorMat.Specular = math.Grey(0.4)
	s.floor = &Entity{
		Body:     &Solid{Shape: KindCube},
		Mesh:     factory.CreatePlane(FloorSize),
		Material: floorMat,
		Position: math.Vec3{Y: FloorHeight},
		Scale:    math.One3,
	}

	return s
}

// Floor returns the floor entity. It is never part of Entities.
func (s *Scene) Floor() *Entity {
	return s.floor
}

// CreateEntity adds an entity of the given kind with the default transform.
func (s *Scene) CreateEntity(kind Kind) (Handle, error) {
	if !kind.Valid() {
		return Nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if kind == KindLight && len(s.lights) >= lighting.MaxLights {
		return Nil, ErrLightLimit
	}

	e := &Entity{
		Position: math.Zero3,
		Rotation: math.Zero3,
		Scale:    math.One3,
		Material: s.template,
	}

	switch kind {
	case KindPyramid:
		e.Mesh = s.factory.CreatePyramid(SolidSize)
	case KindCube:
		e.Mesh = s.factory.CreateCube(SolidSize)
	case KindSphere:
		e.Mesh = s.factory.CreateSphere(SphereRadius)
	case KindLight:
		e.Mesh = s.factory.CreateSphere(LightMarkerRadius)
	}

	if kind == KindLight {
		l := DefaultLight()
		e.Body = &l
		e.Material = lightMarkerMaterial(s.template)
	} else {
		e.Body = &Solid{Shape: kind}
		e.Material.Diffuse = math.Color{
			R: float32(s.rng.IntN(255)) / 255,
			G: float32(s.rng.IntN(255)) / 255,
			B: float32(s.rng.IntN(255)) / 255,
			A: 1,
		}
		e.Material.Specular = e.Material.Diffuse
	}

	h := s.insert(e)
	s.log.Debug("entity created", zap.Stringer("kind", kind), zap.Stringer("handle", h))
	return h, nil
}

// lightMarkerMaterial is the fixed material of a light's marker mesh.
func lightMarkerMaterial(template Material) Material {
	return Material{
		Ambient:  math.White,
		Diffuse:  math.White,
		Specular: math.Black,
		Shader:   template.Shader,
	}
}

func (s *Scene) insert(e *Entity) Handle {
	h := s.entities.insert(e)
	if e.Kind() == KindLight {
		s.lights = append(s.lights, h)
	}
	return h
}

// Entity resolves a handle. It returns false for stale handles.
func (s *Scene) Entity(h Handle) (*Entity, bool) {
	return s.entities.get(h)
}

// DestroyEntity removes an entity and releases its mesh. Every handle to
// it becomes invalid. Returns false if h was already invalid.
func (s *Scene) DestroyEntity(h Handle) bool {
	e, ok := s.entities.remove(h)
	if !ok {
		return false
	}
	if e.Kind() == KindLight {
		for i, lh := range s.lights {
			if lh == h {
				s.lights = append(s.lights[:i], s.lights[i+1:]...)
				break
			}
		}
	}
	s.factory.Destroy(e.Mesh)
	s.log.Debug("entity destroyed", zap.Stringer("kind", e.Kind()), zap.Stringer("handle", h))
	return true
}

// DestroyAllEntities removes everything except the floor.
func (s *Scene) DestroyAllEntities() {
	for _, h := range s.entities.handles() {
		s.DestroyEntity(h)
	}
	s.lights = s.lights[:0]
	s.entities.sortFree()
}

// DuplicateEntity copies an entity with a fresh mesh, offset by one unit
// on X. Lights respect the light limit.
func (s *Scene) DuplicateEntity(h Handle) (Handle, error) {
	src, ok := s.entities.get(h)
	if !ok {
		return Nil, ErrInvalidHandle
	}

	dup, err := s.CreateEntity(src.Kind())
	if err != nil {
		return Nil, err
	}
	dst, _ := s.entities.get(dup)

	if err := copier.Copy(dst, src); err != nil {
		s.DestroyEntity(dup)
		return Nil, fmt.Errorf("duplicate entity %s: %w", h, err)
	}
	dst.Body = src.Body.clone()
	dst.Position = dst.Position.Add(math.Vec3{X: 1})

	return dup, nil
}

// Entities returns handles to all entities except the floor.
func (s *Scene) Entities() []Handle {
	return s.entities.handles()
}

// Len returns the number of entities, floor excluded.
func (s *Scene) Len() int {
	return s.entities.live
}

// Lights returns handles to the light entities in creation order.
func (s *Scene) Lights() []Handle {
	return append([]Handle(nil), s.lights...)
}

// Each calls fn for every entity except the floor.
func (s *Scene) Each(fn func(Handle, *Entity)) {
	for _, h := range s.entities.handles() {
		e, _ := s.entities.get(h)
		fn(h, e)
	}
}

// Close destroys every entity and the floor mesh.
func (s *Scene) Close() {
	s.DestroyAllEntities()
	if s.floor != nil {
		s.factory.Destroy(s.floor.Mesh)
		s.floor = nil
	}
}
