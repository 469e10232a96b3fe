// Package device defines the render device the scene draws through and an
// OpenGL implementation of it.
package device

import "github.com/Faultbox/scened/pkg/math"

// Shader is an opaque handle to a linked shader program.
type Shader uint32

// NoShader unbinds the current program when passed to BindShader.
const NoShader Shader = 0

// Buffer is an opaque handle to a vertex or index buffer.
type Buffer uint32

// NoBuffer marks an unused buffer slot in a DrawCall.
const NoBuffer Buffer = 0

// Mode is the primitive topology of a draw call.
type Mode int

// Draw modes.
const (
	Triangles Mode = iota
	TriangleStrip
	Lines
)

// VertexFormat describes the interleaved layout of a vertex buffer.
type VertexFormat int

// Vertex formats.
const (
	// FormatPosition is x, y, z.
	FormatPosition VertexFormat = iota
	// FormatPositionNormal is x, y, z, nx, ny, nz.
	FormatPositionNormal
)

// Stride returns the number of floats per vertex.
func (f VertexFormat) Stride() int {
	switch f {
	case FormatPositionNormal:
		return 6
	default:
		return 3
	}
}

// DrawCall is everything needed to issue one draw.
type DrawCall struct {
	Mode         Mode
	VertexBuffer Buffer
	IndexBuffer  Buffer // NoBuffer draws unindexed
	VertexCount  int
	IndexCount   int
	VertexOffset int
	Format       VertexFormat
}

// Indexed reports whether the call uses an index buffer.
func (d DrawCall) Indexed() bool {
	return d.IndexBuffer != NoBuffer && d.IndexCount > 0
}

// Device is the render device contract used by the scene and mesh factory.
// Uniform setters apply to the currently bound shader; with no shader bound
// they are ignored.
type Device interface {
	CreateShader(vertexSrc, fragmentSrc string) (Shader, error)
	ReleaseShader(s Shader)

	CreateVertexBuffer(data []float32) Buffer
	CreateIndexBuffer(indices []uint16) Buffer
	ReleaseHardwareBuffer(b Buffer)

	BindShader(s Shader)

	SetUniform1f(name string, v float32)
	SetUniform3f(name string, v math.Vec3)
	SetUniform4f(name string, v math.Vec4)
	SetUniformMatrix4f(name string, m math.Mat4)

	Draw(call DrawCall)
}
