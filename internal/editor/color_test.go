package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scened/internal/scene"
	"github.com/Faultbox/scened/pkg/math"
)

func TestColorTargetEditsMaterial(t *testing.T) {
	s := newTestScene(t)
	h, e := spawnAt(t, s, scene.KindCube, math.Zero3)
	c := NewController(s)
	target := c.Colors()

	assert.False(t, target.Bound())
	assert.False(t, target.SetComponent(SlotDiffuse, 0, 0.5))

	require.True(t, c.Select(h))
	require.True(t, target.Bound())
	assert.False(t, target.IsLight())

	require.True(t, target.SetComponent(SlotDiffuse, 0, 1.5))
	require.True(t, target.SetComponent(SlotDiffuse, 1, -2))
	assert.Equal(t, float32(1), e.Material.Diffuse.R, "clamped high")
	assert.Equal(t, float32(0), e.Material.Diffuse.G, "clamped low")

	require.True(t, target.SetColor(SlotAmbient, math.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}))
	got, ok := target.Color(SlotAmbient)
	require.True(t, ok)
	assert.Equal(t, math.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}, got)

	assert.False(t, target.SetComponent(SlotDiffuse, 4, 1), "bad channel")
}

func TestColorTargetEditsLightParams(t *testing.T) {
	s := newTestScene(t)
	h, e := spawnAt(t, s, scene.KindLight, math.Zero3)
	c := NewController(s)
	require.True(t, c.Select(h))

	target := c.Colors()
	require.True(t, target.IsLight())
	markerBefore := e.Material

	require.True(t, target.SetComponent(SlotSpecular, 2, 0.25))
	l, _ := e.Light()
	assert.Equal(t, float32(0.25), l.Specular.B)
	assert.Equal(t, markerBefore, e.Material, "marker material untouched")
}

func TestColorTargetUnboundAfterDelete(t *testing.T) {
	s := newTestScene(t)
	h, _ := spawnAt(t, s, scene.KindSphere, math.Zero3)
	c := NewController(s)
	require.True(t, c.Select(h))

	require.True(t, s.DestroyEntity(h))
	assert.False(t, c.Colors().Bound())
	_, ok := c.Colors().Color(SlotDiffuse)
	assert.False(t, ok)
}

func TestColorTargetAdjust(t *testing.T) {
	s := newTestScene(t)
	h, e := spawnAt(t, s, scene.KindCube, math.Zero3)
	c := NewController(s)
	target := c.Colors()

	_, ok := target.Adjust(SlotDiffuse, 0, 0.1)
	assert.False(t, ok, "nothing selected")

	require.True(t, c.Select(h))
	require.True(t, target.SetColor(SlotDiffuse, math.Color{R: 0.5, G: 0.95, B: 0.05, A: 1}))

	got, ok := target.Adjust(SlotDiffuse, 0, 0.1)
	require.True(t, ok)
	assert.InDelta(t, 0.6, got.R, 1e-6)

	got, _ = target.Adjust(SlotDiffuse, 1, 0.1)
	assert.Equal(t, float32(1), got.G, "clamped high")
	got, _ = target.Adjust(SlotDiffuse, 2, -0.1)
	assert.Equal(t, float32(0), got.B, "clamped low")
	assert.Equal(t, got, e.Material.Diffuse)

	_, ok = target.Adjust(SlotDiffuse, 7, 0.1)
	assert.False(t, ok, "bad channel")
}
