package picking

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scened/pkg/math"
)

const eps = 1e-4

func TestRaySphereIntersectTangentAtRadius(t *testing.T) {
	// Origin sits exactly r away from the center, aimed at it.
	origin := math.Vec3{Z: 5}
	dir := math.Vec3{Z: -1}
	assert.True(t, RaySphereIntersect(origin, dir, math.Zero3, 5))
}

func TestRaySphereIntersectMiss(t *testing.T) {
	origin := math.Vec3{Y: 2, Z: 5}
	dir := math.Vec3{Z: -1}
	// Closest approach is 2, radius is 1.
	assert.False(t, RaySphereIntersect(origin, dir, math.Zero3, 1))
	assert.True(t, RaySphereIntersect(origin, dir, math.Zero3, 2.5))
}

func TestRayPlaneIntersectGround(t *testing.T) {
	origin := math.Vec3{X: 1, Y: 5, Z: 2}
	dir := math.Vec3{X: 1, Y: -1}.Normalize()

	p, ok := RayPlaneIntersect(origin, dir, math.UnitY, 0)
	require.True(t, ok)
	assert.InDelta(t, 0, p.Y, eps)
	assert.InDelta(t, 6, p.X, eps)
	assert.InDelta(t, 2, p.Z, eps)
}

func TestRayPlaneIntersectOffsetPlane(t *testing.T) {
	// Plane y = 3 is dot(p, +Y) - 3 = 0.
	p, ok := RayPlaneIntersect(math.Vec3{Y: 10}, math.Vec3{Y: -1}, math.UnitY, -3)
	require.True(t, ok)
	assert.InDelta(t, 3, p.Y, eps)
}

func TestRayPlaneIntersectParallel(t *testing.T) {
	_, ok := RayPlaneIntersect(math.Vec3{Y: 1}, math.Vec3{X: 1}, math.UnitY, 0)
	assert.False(t, ok)

	_, ok = RayPlaneIntersect(math.Vec3{Y: 1}, math.Vec3{X: 1, Y: 1e-8}, math.UnitY, 0)
	assert.False(t, ok, "near-parallel rays fall under the epsilon")
}

func TestRayPlaneIntersectNonFinite(t *testing.T) {
	inf := math32.Inf(1)
	_, ok := RayPlaneIntersect(math.Vec3{X: inf, Y: 1}, math.Vec3{Y: -1}, math.UnitY, 0)
	assert.False(t, ok)
}

func TestIntersectPlaneYRejectsBehind(t *testing.T) {
	r := Ray{Origin: math.Vec3{Y: 5}, Direction: math.UnitY}
	_, ok := r.IntersectPlaneY(0)
	assert.False(t, ok)

	r.Direction = math.Vec3{Y: -1}
	p, ok := r.IntersectPlaneY(0)
	require.True(t, ok)
	assert.InDelta(t, 0, p.Y, eps)
}

func TestIntersectPlaneRejectsBehind(t *testing.T) {
	r := Ray{Origin: math.Zero3, Direction: math.Vec3{Z: -1}}
	n := math.Vec3{Z: 1}

	p, ok := r.IntersectPlane(n, 5) // z = -5
	require.True(t, ok)
	assert.InDelta(t, -5, p.Z, eps)

	_, ok = r.IntersectPlane(n, -5) // z = 5
	assert.False(t, ok)
}

func TestScreenToNDC(t *testing.T) {
	ndc := ScreenToNDC(0, 0, 800, 600)
	assert.InDelta(t, -1, ndc.X, eps)
	assert.InDelta(t, 1, ndc.Y, eps)

	ndc = ScreenToNDC(400, 300, 800, 600)
	assert.InDelta(t, 0, ndc.X, eps)
	assert.InDelta(t, 0, ndc.Y, eps)

	ndc = ScreenToNDC(800, 600, 800, 600)
	assert.InDelta(t, 1, ndc.X, eps)
	assert.InDelta(t, -1, ndc.Y, eps)

	assert.Equal(t, math.Vec2{}, ScreenToNDC(10, 10, 0, 0))
}

func TestUnprojectCenterLooksForward(t *testing.T) {
	proj := math.Perspective(math32.Pi/4, 4.0/3.0, 0.1, 100)
	cam := NewCamera(proj, math.Vec3{Z: 10}, math.Zero3)

	r := Unproject(math.Vec2{}, cam)
	assert.True(t, r.Origin.ApproxEqual(cam.Position, eps))
	assert.True(t, r.Direction.ApproxEqual(math.Vec3{Z: -1}, eps), "got %v", r.Direction)
}

func TestUnprojectEdgeMatchesFieldOfView(t *testing.T) {
	// A 90 degree square frustum puts the right edge at 45 degrees.
	proj := math.Perspective(math32.Pi/2, 1, 0.1, 100)
	cam := NewCamera(proj, math.Zero3, math.Vec3{Z: -1})

	r := Unproject(math.Vec2{X: 1}, cam)
	want := math.Vec3{X: 1, Z: -1}.Normalize()
	assert.True(t, r.Direction.ApproxEqual(want, eps), "got %v want %v", r.Direction, want)
}

func TestUnprojectHitsGroundUnderCursor(t *testing.T) {
	proj := math.Perspective(math32.Pi/4, 1, 0.1, 100)
	cam := NewCamera(proj, math.Vec3{Y: 10, Z: 10}, math.Zero3)

	r := Unproject(math.Vec2{}, cam)
	p, ok := r.IntersectPlaneY(0)
	require.True(t, ok)
	assert.True(t, p.ApproxEqual(math.Zero3, 1e-3), "got %v", p)

	assert.True(t, r.IntersectSphere(math.Zero3, 0.5))
	assert.False(t, r.IntersectSphere(math.Vec3{X: 5}, 0.5))
}
