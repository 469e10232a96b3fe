package math

// Color is an RGBA color with components nominally in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
)

// Grey returns an opaque grey of the given intensity.
func Grey(v float32) Color {
	return Color{v, v, v, 1}
}

// Vec4 returns the color as a homogeneous vector (for uniform upload).
func (c Color) Vec4() Vec4 {
	return Vec4{c.R, c.G, c.B, c.A}
}

// Array returns the components as [r, g, b, a].
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// ColorFromArray builds a Color from [r, g, b, a].
func ColorFromArray(a [4]float32) Color {
	return Color{a[0], a[1], a[2], a[3]}
}

// Clamp limits every component to [0, 1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
