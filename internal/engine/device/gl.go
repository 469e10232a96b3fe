package device

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/scened/internal/engine/shader"
	"github.com/Faultbox/scened/internal/logger"
	"github.com/Faultbox/scened/pkg/math"
)

type glBuffer struct {
	id     uint32
	target uint32
}

// GL is the OpenGL 4.1 core implementation of Device.
// IMPORTANT: Must be created AFTER the OpenGL context exists and used only
// from the thread that owns it.
type GL struct {
	log *zap.Logger

	vao     uint32
	current Shader

	buffers  map[Buffer]glBuffer
	programs map[Shader]uint32
	nextID   uint32

	// Per-program uniform location cache; -1 for names the program lacks.
	locations map[Shader]map[string]int32
}

// NewGL initializes OpenGL and sets up default state.
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &GL{
		log:       logger.Named("device"),
		buffers:   make(map[Buffer]glBuffer),
		programs:  make(map[Shader]uint32),
		locations: make(map[Shader]map[string]int32),
	}

	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	// Core profile requires a bound VAO; one is shared and re-pointed per draw.
	gl.GenVertexArrays(1, &d.vao)

	return d, nil
}

// Close releases every remaining GL object.
func (d *GL) Close() {
	d.log.Info("closing device",
		zap.Int("buffers", len(d.buffers)),
		zap.Int("programs", len(d.programs)),
	)
	for h := range d.buffers {
		d.ReleaseHardwareBuffer(h)
	}
	for h := range d.programs {
		d.ReleaseShader(h)
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

// Resize updates the viewport.
func (d *GL) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	d.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// BeginFrame clears color and depth.
func (d *GL) BeginFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *GL) allocID() uint32 {
	d.nextID++
	return d.nextID
}

// CreateShader compiles and links a program.
func (d *GL) CreateShader(vertexSrc, fragmentSrc string) (Shader, error) {
	program, err := shader.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return NoShader, fmt.Errorf("create shader: %w", err)
	}
	h := Shader(d.allocID())
	d.programs[h] = program
	d.locations[h] = make(map[string]int32)
	d.log.Debug("shader created", zap.Uint32("handle", uint32(h)), zap.Uint32("program", program))
	return h, nil
}

// ReleaseShader deletes a program. Unknown handles are ignored.
func (d *GL) ReleaseShader(s Shader) {
	program, ok := d.programs[s]
	if !ok {
		return
	}
	if d.current == s {
		d.BindShader(NoShader)
	}
	gl.DeleteProgram(program)
	delete(d.programs, s)
	delete(d.locations, s)
}

// CreateVertexBuffer uploads vertex data.
func (d *GL) CreateVertexBuffer(data []float32) Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	h := Buffer(d.allocID())
	d.buffers[h] = glBuffer{id: id, target: gl.ARRAY_BUFFER}
	return h
}

// CreateIndexBuffer uploads 16-bit indices.
func (d *GL) CreateIndexBuffer(indices []uint16) Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)

	h := Buffer(d.allocID())
	d.buffers[h] = glBuffer{id: id, target: gl.ELEMENT_ARRAY_BUFFER}
	return h
}

// ReleaseHardwareBuffer deletes a buffer. Unknown handles are ignored.
func (d *GL) ReleaseHardwareBuffer(b Buffer) {
	buf, ok := d.buffers[b]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &buf.id)
	delete(d.buffers, b)
}

// BindShader makes s current. NoShader unbinds.
func (d *GL) BindShader(s Shader) {
	if s == NoShader {
		gl.UseProgram(0)
		d.current = NoShader
		return
	}
	program, ok := d.programs[s]
	if !ok {
		d.log.Warn("bind of unknown shader", zap.Uint32("handle", uint32(s)))
		return
	}
	gl.UseProgram(program)
	d.current = s
}

// location resolves a uniform on the bound program. Missing uniforms are
// logged once per program and cached as -1, which GL ignores on upload.
func (d *GL) location(name string) (int32, bool) {
	if d.current == NoShader {
		d.log.Debug("uniform set with no shader bound", zap.String("name", name))
		return -1, false
	}
	cache := d.locations[d.current]
	if loc, ok := cache[name]; ok {
		return loc, loc >= 0
	}
	loc := shader.GetUniform(d.programs[d.current], name)
	cache[name] = loc
	if loc < 0 {
		d.log.Debug("uniform not found", zap.String("name", name), zap.Uint32("shader", uint32(d.current)))
	}
	return loc, loc >= 0
}

// SetUniform1f sets a float uniform.
func (d *GL) SetUniform1f(name string, v float32) {
	if loc, ok := d.location(name); ok {
		gl.Uniform1f(loc, v)
	}
}

// SetUniform3f sets a vec3 uniform.
func (d *GL) SetUniform3f(name string, v math.Vec3) {
	if loc, ok := d.location(name); ok {
		gl.Uniform3f(loc, v.X, v.Y, v.Z)
	}
}

// SetUniform4f sets a vec4 uniform.
func (d *GL) SetUniform4f(name string, v math.Vec4) {
	if loc, ok := d.location(name); ok {
		gl.Uniform4f(loc, v.X, v.Y, v.Z, v.W)
	}
}

// SetUniformMatrix4f sets a mat4 uniform.
func (d *GL) SetUniformMatrix4f(name string, m math.Mat4) {
	if loc, ok := d.location(name); ok {
		gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
	}
}

// Draw issues a draw call against the bound shader.
func (d *GL) Draw(call DrawCall) {
	vb, ok := d.buffers[call.VertexBuffer]
	if !ok {
		d.log.Warn("draw with unknown vertex buffer", zap.Uint32("buffer", uint32(call.VertexBuffer)))
		return
	}

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)

	stride := int32(call.Format.Stride() * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	if call.Format == FormatPositionNormal {
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
		gl.EnableVertexAttribArray(1)
	} else {
		gl.DisableVertexAttribArray(1)
		gl.VertexAttrib3f(1, 0, 1, 0)
	}

	mode := glMode(call.Mode)
	if call.Indexed() {
		ib, ok := d.buffers[call.IndexBuffer]
		if !ok {
			d.log.Warn("draw with unknown index buffer", zap.Uint32("buffer", uint32(call.IndexBuffer)))
			gl.BindVertexArray(0)
			return
		}
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
		gl.DrawElementsBaseVertex(mode, int32(call.IndexCount), gl.UNSIGNED_SHORT, nil, int32(call.VertexOffset))
	} else {
		gl.DrawArrays(mode, int32(call.VertexOffset), int32(call.VertexCount))
	}

	gl.BindVertexArray(0)
}

// ReadPixels returns the RGBA contents of the default framebuffer, bottom row first.
func (d *GL) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}

func glMode(m Mode) uint32 {
	switch m {
	case TriangleStrip:
		return gl.TRIANGLE_STRIP
	case Lines:
		return gl.LINES
	default:
		return gl.TRIANGLES
	}
}
