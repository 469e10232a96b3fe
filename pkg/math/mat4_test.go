package math

import (
	"math"
	"testing"
)

const eps = 1e-4

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestTranslateOrigin(t *testing.T) {
	vectors := []Vec3{
		{0, 0, 0},
		{5, 10, 15},
		{-3.5, 0.25, 1000},
	}
	for _, v := range vectors {
		got := TranslateVec(v).TransformPoint(Vec3{})
		if got != v {
			t.Errorf("translate(%v) applied to origin = %v", v, got)
		}
	}
}

func TestTranslateColumn(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}

	got := m.TransformPoint(Vec3{1, 2, 3})
	if got != (Vec3{2, 6, 12}) {
		t.Errorf("TransformPoint with scale: got %v", got)
	}
}

func TestMulVec3IgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.MulVec3(Vec3{1, 0, 0})
	if got != (Vec3{1, 0, 0}) {
		t.Errorf("direction should not be translated, got %v", got)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if !result.ApproxEqual(Vec3{0, 0, -1}, eps) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestRotateXOrthogonal(t *testing.T) {
	for _, deg := range []float64{0, 15, 45, 90, 137, 180, 270, -33} {
		theta := float32(deg * math.Pi / 180)
		r := RotateX(theta)

		if !r.Transpose().ApproxEqual(r.Inverse(), eps) {
			t.Errorf("RotateX(%v): transpose != inverse", deg)
		}
		if !r.Mul(RotateX(-theta)).ApproxEqual(Identity(), eps) {
			t.Errorf("RotateX(%v) * RotateX(-%v) != I", deg, deg)
		}
	}
}

func TestRotateXYZOrder(t *testing.T) {
	head, pitch, roll := float32(0.3), float32(-0.7), float32(1.1)
	want := RotateZ(roll).Mul(RotateX(pitch)).Mul(RotateY(head))
	if got := RotateXYZ(head, pitch, roll); !got.ApproxEqual(want, eps) {
		t.Errorf("RotateXYZ = %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	m := Perspective(fov, 2, 0.1, 100)

	tanHalf := float32(math.Tan(math.Pi / 8))
	if d := m[0] - 1/(tanHalf*2); d > eps || d < -eps {
		t.Errorf("Perspective [0] = %f", m[0])
	}
	if d := m[5] - 1/tanHalf; d > eps || d < -eps {
		t.Errorf("Perspective [5] = %f", m[5])
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}

	// Near plane maps to -1, far plane to +1
	near := m.TransformPoint(Vec3{0, 0, -0.1})
	far := m.TransformPoint(Vec3{0, 0, -100})
	if near.Z < -1-eps || near.Z > -1+eps {
		t.Errorf("near plane depth = %f, want -1", near.Z)
	}
	if far.Z < 1-eps*10 || far.Z > 1+eps*10 {
		t.Errorf("far plane depth = %f, want 1", far.Z)
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{3, 4, 5}
	target := Vec3{0, 0, 0}

	m := LookAt(eye, target, UnitY)

	// Eye maps to the origin of view space
	if got := m.TransformPoint(eye); !got.ApproxEqual(Vec3{}, eps) {
		t.Errorf("LookAt eye -> %v, want origin", got)
	}
	// Target sits straight ahead on -Z
	got := m.TransformPoint(target)
	if !got.ApproxEqual(Vec3{0, 0, -eye.Length()}, eps) {
		t.Errorf("LookAt target -> %v", got)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	matrices := map[string]Mat4{
		"translate":   Translate(1, -2, 3),
		"scale":       Scale(2, 0.5, 4),
		"rotate":      RotateXYZ(0.4, 1.2, -0.3),
		"view":        LookAt(Vec3{4, 6, 10}, Vec3{0, 1, 0}, UnitY),
		"perspective": Perspective(float32(math.Pi/4), 4.0/3.0, 0.1, 1000),
		"composite":   Translate(1, 2, 3).Mul(Scale(2, 2, 2)).Mul(RotateY(0.5)),
	}

	for name, m := range matrices {
		t.Run(name, func(t *testing.T) {
			inv, ok := m.InverseOK()
			if !ok {
				t.Fatal("matrix should be invertible")
			}
			if !m.Mul(inv).ApproxEqual(Identity(), 1e-3) {
				t.Errorf("M * M^-1 != I: %v", m.Mul(inv))
			}
			if !inv.Inverse().ApproxEqual(m, 1e-2) {
				t.Errorf("Inverse(Inverse(M)) != M")
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	m := Scale(1, 0, 1)
	if _, ok := m.InverseOK(); ok {
		t.Error("expected singular matrix")
	}
	if m.Inverse() != Identity() {
		t.Error("Inverse of singular matrix should be identity")
	}
}

func TestMulVec4(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.MulVec4(Vec4{1, 1, 1, 1})
	if got != (Vec4{2, 3, 4, 1}) {
		t.Errorf("MulVec4 point = %v", got)
	}
	got = m.MulVec4(Vec4{1, 1, 1, 0})
	if got != (Vec4{1, 1, 1, 0}) {
		t.Errorf("MulVec4 direction = %v", got)
	}
}
