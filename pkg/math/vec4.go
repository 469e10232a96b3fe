package math

import "github.com/chewxy/math32"

// Vec4 is a homogeneous 4-component vector.
type Vec4 struct {
	X, Y, Z, W float32
}

// XYZ drops the W component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Length returns the magnitude over all four components.
func (v Vec4) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

// Normalize returns a unit vector, or the zero vector if v has no length.
func (v Vec4) Normalize() Vec4 {
	l := v.Length()
	if l == 0 {
		return Vec4{}
	}
	return Vec4{v.X / l, v.Y / l, v.Z / l, v.W / l}
}

// PerspectiveDivide divides X, Y and Z by W. W values of zero are left alone.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.XYZ()
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}
