// Package lighting provides the fixed-size point light block shared by the
// lit shader.
package lighting

import (
	"fmt"

	"github.com/Faultbox/scened/pkg/math"
)

// MaxLights is the number of light slots declared by the shader.
const MaxLights = 16

// UniformLightCount holds the number of occupied slots.
const UniformLightCount = "light_count"

// Uniforms is the part of the render device the block writes to.
type Uniforms interface {
	SetUniform1f(name string, v float32)
	SetUniform3f(name string, v math.Vec3)
	SetUniform4f(name string, v math.Vec4)
}

// Light is one point light as seen by the shader.
type Light struct {
	Position math.Vec3
	Ambient  math.Color
	Diffuse  math.Color
	Specular math.Color
	Radius   float32 // attenuation radius
}

type slotNames struct {
	position, ambient, diffuse, specular, radius string
}

// Uniform names for every slot, built once.
var names [MaxLights]slotNames

func init() {
	for i := range names {
		prefix := fmt.Sprintf("lights[%d].", i)
		names[i] = slotNames{
			position: prefix + "position",
			ambient:  prefix + "ambient",
			diffuse:  prefix + "diffuse",
			specular: prefix + "specular",
			radius:   prefix + "radius",
		}
	}
}

// SlotUniform returns the uniform name of a field ("position", "ambient",
// "diffuse", "specular" or "radius") in slot i.
func SlotUniform(i int, field string) string {
	n := names[i]
	switch field {
	case "position":
		return n.position
	case "ambient":
		return n.ambient
	case "diffuse":
		return n.diffuse
	case "specular":
		return n.specular
	case "radius":
		return n.radius
	}
	return ""
}

// Block collects the lights for one frame.
type Block struct {
	lights [MaxLights]Light
	count  int
}

// Reset empties the block.
func (b *Block) Reset() {
	b.count = 0
}

// Add appends a light. Returns false if every slot is taken.
func (b *Block) Add(l Light) bool {
	if b.count >= MaxLights {
		return false
	}
	b.lights[b.count] = l
	b.count++
	return true
}

// Len returns the number of lights in the block.
func (b *Block) Len() int {
	return b.count
}

// At returns light i.
func (b *Block) At(i int) Light {
	return b.lights[i]
}

// Upload writes every slot to the bound shader. Unused slots are zeroed so
// lights from a previous draw never leak.
func (b *Block) Upload(u Uniforms) {
	u.SetUniform1f(UniformLightCount, float32(b.count))

	var zero Light
	for i := 0; i < MaxLights; i++ {
		l := zero
		if i < b.count {
			l = b.lights[i]
		}
		n := &names[i]
		u.SetUniform3f(n.position, l.Position)
		u.SetUniform4f(n.ambient, l.Ambient.Vec4())
		u.SetUniform4f(n.diffuse, l.Diffuse.Vec4())
		u.SetUniform4f(n.specular, l.Specular.Vec4())
		u.SetUniform1f(n.radius, l.Radius)
	}
}
