// Package devicetest provides an in-memory device.Device for tests.
package devicetest

import (
	"fmt"

	"github.com/Faultbox/scened/internal/engine/device"
	"github.com/Faultbox/scened/pkg/math"
)

// Uniform is a recorded uniform write.
type Uniform struct {
	Shader device.Shader
	Name   string
	Value  any
}

// Draw is a recorded draw call with the shader bound at the time.
type Draw struct {
	Shader device.Shader
	Call   device.DrawCall
	// Uniforms holds the last value written to each name on the bound
	// shader before this draw.
	Uniforms map[string]any
}

// Recorder implements device.Device and records every call.
type Recorder struct {
	// FailShader makes CreateShader return an error.
	FailShader bool

	nextID   uint32
	current  device.Shader
	shaders  map[device.Shader]bool
	buffers  map[device.Buffer][]float32
	indices  map[device.Buffer][]uint16
	state    map[device.Shader]map[string]any
	Uniforms []Uniform
	Draws    []Draw
	Released []device.Buffer
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		shaders: make(map[device.Shader]bool),
		buffers: make(map[device.Buffer][]float32),
		indices: make(map[device.Buffer][]uint16),
		state:   make(map[device.Shader]map[string]any),
	}
}

var _ device.Device = (*Recorder)(nil)

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// CreateShader returns a fresh shader handle.
func (r *Recorder) CreateShader(vertexSrc, fragmentSrc string) (device.Shader, error) {
	if r.FailShader {
		return device.NoShader, fmt.Errorf("shader compilation disabled")
	}
	h := device.Shader(r.id())
	r.shaders[h] = true
	r.state[h] = make(map[string]any)
	return h, nil
}

// ReleaseShader forgets a shader.
func (r *Recorder) ReleaseShader(s device.Shader) {
	delete(r.shaders, s)
	delete(r.state, s)
	if r.current == s {
		r.current = device.NoShader
	}
}

// CreateVertexBuffer stores a copy of data.
func (r *Recorder) CreateVertexBuffer(data []float32) device.Buffer {
	h := device.Buffer(r.id())
	r.buffers[h] = append([]float32(nil), data...)
	return h
}

// CreateIndexBuffer stores a copy of indices.
func (r *Recorder) CreateIndexBuffer(idx []uint16) device.Buffer {
	h := device.Buffer(r.id())
	r.indices[h] = append([]uint16(nil), idx...)
	return h
}

// ReleaseHardwareBuffer forgets a buffer.
func (r *Recorder) ReleaseHardwareBuffer(b device.Buffer) {
	if _, ok := r.buffers[b]; ok {
		delete(r.buffers, b)
		r.Released = append(r.Released, b)
		return
	}
	if _, ok := r.indices[b]; ok {
		delete(r.indices, b)
		r.Released = append(r.Released, b)
	}
}

// BindShader records the current shader.
func (r *Recorder) BindShader(s device.Shader) {
	r.current = s
}

// Current returns the bound shader.
func (r *Recorder) Current() device.Shader {
	return r.current
}

func (r *Recorder) set(name string, v any) {
	if r.current == device.NoShader {
		return
	}
	r.Uniforms = append(r.Uniforms, Uniform{Shader: r.current, Name: name, Value: v})
	if st, ok := r.state[r.current]; ok {
		st[name] = v
	}
}

// SetUniform1f records a float uniform.
func (r *Recorder) SetUniform1f(name string, v float32) { r.set(name, v) }

// SetUniform3f records a vec3 uniform.
func (r *Recorder) SetUniform3f(name string, v math.Vec3) { r.set(name, v) }

// SetUniform4f records a vec4 uniform.
func (r *Recorder) SetUniform4f(name string, v math.Vec4) { r.set(name, v) }

// SetUniformMatrix4f records a mat4 uniform.
func (r *Recorder) SetUniformMatrix4f(name string, m math.Mat4) { r.set(name, m) }

// Draw records the call with a snapshot of the bound shader's uniforms.
func (r *Recorder) Draw(call device.DrawCall) {
	snap := make(map[string]any)
	for k, v := range r.state[r.current] {
		snap[k] = v
	}
	r.Draws = append(r.Draws, Draw{Shader: r.current, Call: call, Uniforms: snap})
}

// LiveBuffers returns the number of buffers not yet released.
func (r *Recorder) LiveBuffers() int {
	return len(r.buffers) + len(r.indices)
}

// VertexData returns the stored vertex data of b.
func (r *Recorder) VertexData(b device.Buffer) []float32 {
	return r.buffers[b]
}

// IndexData returns the stored indices of b.
func (r *Recorder) IndexData(b device.Buffer) []uint16 {
	return r.indices[b]
}

// Reset clears recorded uniforms and draws but keeps resources.
func (r *Recorder) Reset() {
	r.Uniforms = nil
	r.Draws = nil
}
