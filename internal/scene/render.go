package scene

import (
	"github.com/Faultbox/scened/internal/engine/device"
	"github.com/Faultbox/scened/internal/engine/lighting"
	"github.com/Faultbox/scened/internal/engine/matrixstack"
)

// Uniform names written per entity.
const (
	UniformView             = "view"
	UniformMaterialAmbient  = "material_ambient"
	UniformMaterialDiffuse  = "material_diffuse"
	UniformMaterialSpecular = "material_specular"
	UniformSelected         = "selected"
)

// Render draws the floor and then every entity. Entities without a shader
// are skipped.
func (s *Scene) Render(dev device.Device, ms *matrixstack.Stack) {
	s.collectLights()

	if s.floor != nil {
		s.renderEntity(dev, ms, s.floor)
	}
	for _, h := range s.entities.handles() {
		e, _ := s.entities.get(h)
		s.renderEntity(dev, ms, e)
	}
}

func (s *Scene) collectLights() {
	s.block.Reset()
	for _, h := range s.lights {
		e, ok := s.entities.get(h)
		if !ok {
			continue
		}
		l, _ := e.Light()
		s.block.Add(lighting.Light{
			Position: e.Position,
			Ambient:  l.Ambient,
			Diffuse:  l.Diffuse,
			Specular: l.Specular,
			Radius:   l.Radius,
		})
	}
}

func (s *Scene) renderEntity(dev device.Device, ms *matrixstack.Stack, e *Entity) {
	if e.Material.Shader == device.NoShader || !e.Mesh.Valid() {
		return
	}

	dev.BindShader(e.Material.Shader)
	dev.SetUniformMatrix4f(UniformView, ms.View())
	s.block.Upload(dev)
	bindMaterial(dev, e)

	ms.Push()
	ms.Translate3f(e.Position)
	ms.Scale3f(e.Scale)
	ms.Rotate3f(e.Rotation.X, e.Rotation.Y, e.Rotation.Z)
	ms.Apply(dev)

	dev.Draw(e.Mesh.Call)

	ms.Pop()
}

func bindMaterial(dev device.Device, e *Entity) {
	dev.SetUniform4f(UniformMaterialAmbient, e.Material.Ambient.Vec4())
	dev.SetUniform4f(UniformMaterialDiffuse, e.Material.Diffuse.Vec4())
	dev.SetUniform4f(UniformMaterialSpecular, e.Material.Specular.Vec4())
	var selected float32
	if e.Selected {
		selected = 1
	}
	dev.SetUniform1f(UniformSelected, selected)
}
