// Package primitive builds the simple meshes the editor places in a scene.
package primitive

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scened/internal/engine/device"
	"github.com/Faultbox/scened/pkg/math"
)

// Sphere tessellation.
const (
	SphereStacks = 16
	SphereSlices = 24
)

// Primitive is the renderable payload of an entity.
type Primitive struct {
	Call device.DrawCall
	// BoundingRadius is the radius of a sphere around the local origin that
	// encloses every vertex, before entity scale.
	BoundingRadius float32
}

// Valid reports whether the primitive has geometry.
func (p Primitive) Valid() bool {
	return p.Call.VertexBuffer != device.NoBuffer
}

// Factory creates and destroys primitives on a device.
type Factory struct {
	dev device.Device
}

// NewFactory returns a factory uploading to dev.
func NewFactory(dev device.Device) *Factory {
	return &Factory{dev: dev}
}

// CreatePyramid builds a square pyramid of the given base size and height,
// centered on the origin.
func (f *Factory) CreatePyramid(size float32) Primitive {
	var m mesh
	h := size / 2
	apex := math.Vec3{Y: h}
	base := [4]math.Vec3{
		{X: -h, Y: -h, Z: -h},
		{X: h, Y: -h, Z: -h},
		{X: h, Y: -h, Z: h},
		{X: -h, Y: -h, Z: h},
	}
	for i := range base {
		a, b := base[i], base[(i+1)%4]
		n := b.Sub(a).Cross(apex.Sub(a)).Normalize()
		if n.Dot(a.Add(b).Add(apex)) < 0 {
			n = n.Scale(-1)
		}
		m.triangle(a, b, apex, n)
	}
	m.quad(base[0], base[1], base[2], base[3], math.Vec3{Y: -1})

	return f.upload(m, h*math32.Sqrt(3))
}

// CreateCube builds an axis-aligned cube of the given edge length.
func (f *Factory) CreateCube(size float32) Primitive {
	var m mesh
	h := size / 2
	faces := []struct {
		n    math.Vec3
		u, v math.Vec3
	}{
		{math.Vec3{X: 1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
	}
	for _, face := range faces {
		c := face.n.Scale(h)
		u, v := face.u.Scale(h), face.v.Scale(h)
		m.quad(
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
			face.n,
		)
	}

	return f.upload(m, h*math32.Sqrt(3))
}

// CreateSphere builds a UV sphere of the given radius.
func (f *Factory) CreateSphere(radius float32) Primitive {
	var m mesh
	for i := 0; i <= SphereStacks; i++ {
		phi := math32.Pi * float32(i) / SphereStacks
		sp, cp := math32.Sincos(phi)
		for j := 0; j <= SphereSlices; j++ {
			theta := 2 * math32.Pi * float32(j) / SphereSlices
			st, ct := math32.Sincos(theta)
			n := math.Vec3{X: sp * ct, Y: cp, Z: sp * st}
			m.vertex(n.Scale(radius), n)
		}
	}

	row := SphereSlices + 1
	for i := 0; i < SphereStacks; i++ {
		for j := 0; j < SphereSlices; j++ {
			a := uint16(i*row + j)
			b := uint16((i+1)*row + j)
			c := uint16((i+1)*row + j + 1)
			d := uint16(i*row + j + 1)
			if i != 0 {
				m.orientedTriangle(a, d, b)
			}
			if i != SphereStacks-1 {
				m.orientedTriangle(d, c, b)
			}
		}
	}

	return f.upload(m, radius)
}

// CreatePlane builds a horizontal plane facing +Y with the given X/Z extent.
func (f *Factory) CreatePlane(size math.Vec2) Primitive {
	var m mesh
	hx, hz := size.X/2, size.Y/2
	m.quad(
		math.Vec3{X: -hx, Z: -hz},
		math.Vec3{X: hx, Z: -hz},
		math.Vec3{X: hx, Z: hz},
		math.Vec3{X: -hx, Z: hz},
		math.UnitY,
	)

	return f.upload(m, size.Scale(0.5).Length())
}

// Destroy releases the primitive's buffers. Destroying an empty primitive
// is a no-op.
func (f *Factory) Destroy(p Primitive) {
	if p.Call.VertexBuffer != device.NoBuffer {
		f.dev.ReleaseHardwareBuffer(p.Call.VertexBuffer)
	}
	if p.Call.IndexBuffer != device.NoBuffer {
		f.dev.ReleaseHardwareBuffer(p.Call.IndexBuffer)
	}
}

func (f *Factory) upload(m mesh, radius float32) Primitive {
	return Primitive{
		Call: device.DrawCall{
			Mode:         device.Triangles,
			VertexBuffer: f.dev.CreateVertexBuffer(m.vertices),
			IndexBuffer:  f.dev.CreateIndexBuffer(m.indices),
			VertexCount:  m.vertexCount(),
			IndexCount:   len(m.indices),
			Format:       device.FormatPositionNormal,
		},
		BoundingRadius: radius,
	}
}
