// Package matrixstack composes model, view and projection transforms with
// push/pop scoping, the way a fixed-function pipeline did.
package matrixstack

import "github.com/Faultbox/scened/pkg/math"

// Uniform names written by Apply.
const (
	UniformModelView           = "model_view"
	UniformModelViewProjection = "model_view_projection"
)

// UniformSetter receives the matrices uploaded by Apply.
type UniformSetter interface {
	SetUniformMatrix4f(name string, m math.Mat4)
}

type frame struct {
	model      math.Mat4
	view       math.Mat4
	projection math.Mat4
}

// Stack is a push-down stack of model/view/projection frames. It always
// holds at least one frame.
type Stack struct {
	frames []frame
	dirty  bool
}

// New returns a stack with a single identity frame.
func New() *Stack {
	id := math.Identity()
	return &Stack{
		frames: []frame{{model: id, view: id, projection: id}},
		dirty:  true,
	}
}

func (s *Stack) top() *frame {
	return &s.frames[len(s.frames)-1]
}

// Push duplicates the top frame.
func (s *Stack) Push() {
	s.frames = append(s.frames, *s.top())
}

// Pop discards the top frame and restores the one below.
// Popping the last frame is a programming error and panics.
func (s *Stack) Pop() {
	if len(s.frames) <= 1 {
		panic("matrixstack: Pop without matching Push")
	}
	s.frames = s.frames[:len(s.frames)-1]
	s.dirty = true
}

// Depth returns the number of frames on the stack.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Dirty reports whether the top frame changed since the last Apply.
func (s *Stack) Dirty() bool {
	return s.dirty
}

// SetViewMatrix replaces the view matrix of the top frame.
func (s *Stack) SetViewMatrix(m math.Mat4) {
	s.top().view = m
	s.dirty = true
}

// SetProjectionMatrix replaces the projection matrix of the top frame.
func (s *Stack) SetProjectionMatrix(m math.Mat4) {
	s.top().projection = m
	s.dirty = true
}

// SetModelMatrix replaces the model matrix of the top frame.
func (s *Stack) SetModelMatrix(m math.Mat4) {
	s.top().model = m
	s.dirty = true
}

// Translate3f right-multiplies the model matrix by a translation.
func (s *Stack) Translate3f(v math.Vec3) {
	s.mulModel(math.TranslateVec(v))
}

// Rotate3f right-multiplies the model matrix by the head/pitch/roll rotation.
func (s *Stack) Rotate3f(head, pitch, roll float32) {
	s.mulModel(math.RotateXYZ(head, pitch, roll))
}

// Scale3f right-multiplies the model matrix by a scale.
func (s *Stack) Scale3f(v math.Vec3) {
	s.mulModel(math.ScaleVec(v))
}

func (s *Stack) mulModel(m math.Mat4) {
	t := s.top()
	t.model = t.model.Mul(m)
	s.dirty = true
}

// Model returns the model matrix of the top frame.
func (s *Stack) Model() math.Mat4 { return s.top().model }

// View returns the view matrix of the top frame.
func (s *Stack) View() math.Mat4 { return s.top().view }

// Projection returns the projection matrix of the top frame.
func (s *Stack) Projection() math.Mat4 { return s.top().projection }

// ModelView returns view * model.
func (s *Stack) ModelView() math.Mat4 {
	t := s.top()
	return t.view.Mul(t.model)
}

// ModelViewProjection returns projection * view * model.
func (s *Stack) ModelViewProjection() math.Mat4 {
	t := s.top()
	return t.projection.Mul(t.view.Mul(t.model))
}

// Apply uploads model_view and model_view_projection for the top frame.
func (s *Stack) Apply(u UniformSetter) {
	u.SetUniformMatrix4f(UniformModelView, s.ModelView())
	u.SetUniformMatrix4f(UniformModelViewProjection, s.ModelViewProjection())
	s.dirty = false
}
