package primitive

import "github.com/Faultbox/scened/pkg/math"

// mesh accumulates interleaved position/normal vertices and triangle indices.
// Triangles are wound counter-clockwise seen from outside.
type mesh struct {
	vertices []float32
	indices  []uint16
}

// stride matches device.FormatPositionNormal.
const stride = 6

func (m *mesh) vertexCount() int {
	return len(m.vertices) / stride
}

func (m *mesh) vertex(p, n math.Vec3) uint16 {
	idx := uint16(m.vertexCount())
	m.vertices = append(m.vertices, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
	return idx
}

func (m *mesh) position(i uint16) math.Vec3 {
	o := int(i) * stride
	return math.Vec3{X: m.vertices[o], Y: m.vertices[o+1], Z: m.vertices[o+2]}
}

func (m *mesh) normal(i uint16) math.Vec3 {
	o := int(i)*stride + 3
	return math.Vec3{X: m.vertices[o], Y: m.vertices[o+1], Z: m.vertices[o+2]}
}

// orientedTriangle appends a, b, c, flipping the order if the face would
// point against the averaged vertex normals.
func (m *mesh) orientedTriangle(a, b, c uint16) {
	pa, pb, pc := m.position(a), m.position(b), m.position(c)
	face := pb.Sub(pa).Cross(pc.Sub(pa))
	want := m.normal(a).Add(m.normal(b)).Add(m.normal(c))
	if face.Dot(want) < 0 {
		b, c = c, b
	}
	m.indices = append(m.indices, a, b, c)
}

// triangle appends a flat-shaded triangle with normal n.
func (m *mesh) triangle(a, b, c, n math.Vec3) {
	ia := m.vertex(a, n)
	ib := m.vertex(b, n)
	ic := m.vertex(c, n)
	m.orientedTriangle(ia, ib, ic)
}

// quad appends a flat-shaded quad a-b-c-d (in order around the edge) as two
// triangles with normal n.
func (m *mesh) quad(a, b, c, d, n math.Vec3) {
	ia := m.vertex(a, n)
	ib := m.vertex(b, n)
	ic := m.vertex(c, n)
	id := m.vertex(d, n)
	m.orientedTriangle(ia, ib, ic)
	m.orientedTriangle(ia, ic, id)
}
