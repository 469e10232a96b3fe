// Package picking provides ray casting and object picking utilities.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scened/pkg/math"
)

// ParallelEpsilon is the smallest |dot(direction, normal)| for which a ray
// is considered to cross a plane. Below it the ray runs parallel.
const ParallelEpsilon = 1e-6

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Camera is the per-frame view state used to turn screen points into rays.
type Camera struct {
	Projection math.Mat4
	View       math.Mat4
	Position   math.Vec3
	Direction  math.Vec3 // unit forward vector
}

// NewCamera builds a camera looking from position at target with +Y up.
func NewCamera(projection math.Mat4, position, target math.Vec3) Camera {
	return Camera{
		Projection: projection,
		View:       math.LookAt(position, target, math.UnitY),
		Position:   position,
		Direction:  target.Sub(position).Normalize(),
	}
}

// ScreenToNDC converts pixel coordinates to normalized device coordinates
// in [-1, 1]. Y is flipped so +Y points up.
func ScreenToNDC(px, py, width, height float32) math.Vec2 {
	if width <= 0 || height <= 0 {
		return math.Vec2{}
	}
	return math.Vec2{
		X: 2*px/width - 1,
		Y: 1 - 2*py/height,
	}
}

// Unproject casts a world-space ray from the camera through an NDC point.
// The near-plane point is taken back through the inverse projection into
// view space, treated as a direction and rotated into world space by the
// inverse view matrix.
func Unproject(ndc math.Vec2, cam Camera) Ray {
	clip := math.Vec4{X: ndc.X, Y: ndc.Y, Z: -1, W: 1}
	eye := cam.Projection.Inverse().MulVec4(clip)

	viewDir := math.Vec4{X: eye.X, Y: eye.Y, Z: -1, W: 0}
	world := cam.View.Inverse().MulVec4(viewDir)

	return Ray{
		Origin:    cam.Position,
		Direction: world.XYZ().Normalize(),
	}
}

// RaySphereIntersect reports whether the ray hits the sphere. Only presence
// is computed; callers that need the nearest hit test candidates sorted by
// distance.
func RaySphereIntersect(origin, direction, center math.Vec3, radius float32) bool {
	oc := origin.Sub(center)
	b := direction.Dot(oc)
	c := oc.Dot(oc) - radius*radius
	return b*b-c >= 0
}

// RayPlaneIntersect solves the ray against the plane dot(p, normal) + d = 0.
// It returns ok=false when the ray is parallel to the plane or the result
// is not finite.
func RayPlaneIntersect(origin, direction, normal math.Vec3, d float32) (math.Vec3, bool) {
	denom := direction.Dot(normal)
	if math32.Abs(denom) < ParallelEpsilon {
		return math.Vec3{}, false
	}

	t := -(origin.Dot(normal) + d) / denom
	p := origin.Add(direction.Scale(t))
	if !p.IsFinite() {
		return math.Vec3{}, false
	}
	return p, true
}

// IntersectPlane intersects the ray with the plane dot(p, normal) + d = 0.
// Hits behind the ray origin are rejected.
func (r Ray) IntersectPlane(normal math.Vec3, d float32) (math.Vec3, bool) {
	p, ok := RayPlaneIntersect(r.Origin, r.Direction, normal, d)
	if !ok {
		return math.Vec3{}, false
	}
	if p.Sub(r.Origin).Dot(r.Direction) < 0 {
		return math.Vec3{}, false
	}
	return p, true
}

// IntersectPlaneY intersects the ray with the horizontal plane y = height.
func (r Ray) IntersectPlaneY(height float32) (math.Vec3, bool) {
	return r.IntersectPlane(math.UnitY, -height)
}

// IntersectSphere reports whether the ray hits a sphere at center.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) bool {
	return RaySphereIntersect(r.Origin, r.Direction, center, radius)
}
