package matrixstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scened/pkg/math"
)

type recorder struct {
	uniforms map[string]math.Mat4
	calls    int
}

func (r *recorder) SetUniformMatrix4f(name string, m math.Mat4) {
	if r.uniforms == nil {
		r.uniforms = make(map[string]math.Mat4)
	}
	r.uniforms[name] = m
	r.calls++
}

func TestNewStartsWithIdentityFrame(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, math.Identity(), s.Model())
	assert.Equal(t, math.Identity(), s.View())
	assert.Equal(t, math.Identity(), s.Projection())
}

func TestPushPopRestoresModel(t *testing.T) {
	s := New()
	s.Translate3f(math.Vec3{X: 1})
	before := s.Model()

	s.Push()
	s.Translate3f(math.Vec3{X: 2, Y: 3, Z: 4})
	assert.NotEqual(t, before, s.Model())
	assert.Equal(t, 2, s.Depth())
	s.Pop()

	assert.Equal(t, before, s.Model())
	assert.Equal(t, 1, s.Depth())
}

func TestPushDuplicatesAllMatrices(t *testing.T) {
	s := New()
	view := math.Translate(0, 0, -5)
	proj := math.Perspective(1, 1, 0.1, 10)
	s.SetViewMatrix(view)
	s.SetProjectionMatrix(proj)

	s.Push()
	assert.Equal(t, view, s.View())
	assert.Equal(t, proj, s.Projection())

	s.SetViewMatrix(math.Identity())
	s.Pop()
	assert.Equal(t, view, s.View())
}

func TestPopLastFramePanics(t *testing.T) {
	s := New()
	assert.Panics(t, func() { s.Pop() })

	s.Push()
	assert.NotPanics(t, func() { s.Pop() })
	assert.Panics(t, func() { s.Pop() })
}

func TestTransformsComposeInCallOrder(t *testing.T) {
	s := New()
	s.Translate3f(math.Vec3{X: 10})
	s.Scale3f(math.Vec3{X: 2, Y: 2, Z: 2})
	s.Rotate3f(0, 0, 0)

	// Scale applies first to the point, then translation.
	p := s.Model().TransformPoint(math.Vec3{X: 1})
	assert.True(t, p.ApproxEqual(math.Vec3{X: 12}, 1e-5), "got %v", p)

	want := math.Translate(10, 0, 0).Mul(math.Scale(2, 2, 2)).Mul(math.RotateXYZ(0, 0, 0))
	assert.True(t, s.Model().ApproxEqual(want, 1e-6))
}

func TestApplyUploadsCompositeMatrices(t *testing.T) {
	s := New()
	view := math.LookAt(math.Vec3{Z: 5}, math.Zero3, math.UnitY)
	proj := math.Perspective(0.8, 1.5, 0.1, 100)
	s.SetViewMatrix(view)
	s.SetProjectionMatrix(proj)
	s.Translate3f(math.Vec3{Y: 1})
	require.True(t, s.Dirty())

	var r recorder
	s.Apply(&r)

	model := math.Translate(0, 1, 0)
	assert.Equal(t, 2, r.calls)
	assert.True(t, r.uniforms[UniformModelView].ApproxEqual(view.Mul(model), 1e-6))
	assert.True(t, r.uniforms[UniformModelViewProjection].ApproxEqual(proj.Mul(view.Mul(model)), 1e-6))
	assert.False(t, s.Dirty())
}
