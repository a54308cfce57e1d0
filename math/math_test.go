package math

import (
	"testing"

	"github.com/chewxy/math32"
)

const epsilon = 1e-4

func floatEq(a, b float32) bool {
	return math32.Abs(a-b) < epsilon
}

func vec3Eq(a, b Vec3) bool {
	return floatEq(a.X, b.X) && floatEq(a.Y, b.Y) && floatEq(a.Z, b.Z)
}

func TestVec3Operations(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: 5, Z: 6}

	if got := a.Add(b); !vec3Eq(got, Vec3{X: 5, Y: 7, Z: 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Dot(b); !floatEq(got, 32) {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := a.Cross(b); !vec3Eq(got, Vec3{X: -3, Y: 6, Z: -3}) {
		t.Errorf("Cross = %v", got)
	}
	if got := (Vec3{X: 3, Y: 4, Z: 0}).Length(); !floatEq(got, 5) {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := Vec3Zero.Normalize(); !vec3Eq(got, Vec3Zero) {
		t.Errorf("Normalize of zero = %v, want zero", got)
	}
}

func TestVec4Operations(t *testing.T) {
	if got := NewVec4(2, 0, 0, 0).Length(); !floatEq(got, 2) {
		t.Errorf("Length = %v, want 2", got)
	}
	n := NewVec4(0, 3, 0, 4).Normalize()
	if !floatEq(n.Length(), 1) {
		t.Errorf("normalized length = %v, want 1", n.Length())
	}

	m := Mat4Translation(Vec3{X: 1, Y: 2, Z: 3})
	p := NewVec4(1, 1, 1, 1).MulMat(m)
	if !vec3Eq(p.ToVec3(), Vec3{X: 2, Y: 3, Z: 4}) {
		t.Errorf("point transformed to %v, want (2,3,4)", p.ToVec3())
	}
	// W of zero marks a direction: no translation, no perspective divide.
	d := NewVec4(1, 0, 0, 0).MulMat(m)
	if !vec3Eq(d.ToVec3DivW(), Vec3Right) {
		t.Errorf("direction transformed to %v, want (1,0,0)", d.ToVec3DivW())
	}
}

func TestMat4TranslationOnly(t *testing.T) {
	m := Mat4EulerTRS(Vec3{X: 2, Y: -3, Z: 5}, Vec3Zero, Vec3One)
	got := m.MulVec3(Vec3Zero)
	if !vec3Eq(got, Vec3{X: 2, Y: -3, Z: 5}) {
		t.Errorf("origin transformed to %v, want (2,-3,5)", got)
	}
	// With no rotation or scale the upper 3x3 stays identity.
	got = m.MulVec3(Vec3{X: 1, Y: 1, Z: 1})
	if !vec3Eq(got, Vec3{X: 3, Y: -2, Z: 6}) {
		t.Errorf("(1,1,1) transformed to %v, want (3,-2,6)", got)
	}
}

func TestMat4ScaleOnly(t *testing.T) {
	m := Mat4EulerTRS(Vec3Zero, Vec3Zero, Vec3{X: 2, Y: 3, Z: 4})
	got := m.MulVec3(Vec3{X: 1, Y: 1, Z: 1})
	if !vec3Eq(got, Vec3{X: 2, Y: 3, Z: 4}) {
		t.Errorf("scaled point = %v, want (2,3,4)", got)
	}
}

func TestMat4RotationZOnly(t *testing.T) {
	// 90 degrees about Z takes +X to +Y.
	m := Mat4EulerTRS(Vec3Zero, Vec3{Z: 90}, Vec3One)
	got := m.MulVec3(Vec3Right)
	if !vec3Eq(got, Vec3Up) {
		t.Errorf("Rz(90)*(1,0,0) = %v, want (0,1,0)", got)
	}
}

func TestMat4EulerOrderXThenYThenZ(t *testing.T) {
	// Rotation is applied X first, then Y, then Z. With rx=90 and rz=90:
	// (0,1,0) -X90-> (0,0,1) -Z90-> (0,0,1) stays on the Z axis.
	m := Mat4EulerTRS(Vec3Zero, Vec3{X: 90, Z: 90}, Vec3One)
	got := m.MulVec3(Vec3Up)
	if !vec3Eq(got, Vec3Front) {
		t.Errorf("rotated up = %v, want (0,0,1)", got)
	}
	// The reverse order (Z first) would give (−1,0,0) here instead.
	got = m.MulVec3(Vec3Right)
	if !vec3Eq(got, Vec3Up) {
		t.Errorf("rotated right = %v, want (0,1,0)", got)
	}
}

func TestMat4TRSComposition(t *testing.T) {
	// Scale then rotate then translate: (1,0,0) *2 -> (2,0,0),
	// Rz(90) -> (0,2,0), +T -> (1,3,0).
	m := Mat4EulerTRS(Vec3{X: 1, Y: 1, Z: 0}, Vec3{Z: 90}, Vec3{X: 2, Y: 2, Z: 2})
	got := m.MulVec3(Vec3Right)
	if !vec3Eq(got, Vec3{X: 1, Y: 3, Z: 0}) {
		t.Errorf("TRS point = %v, want (1,3,0)", got)
	}
}

func TestMat4MulComposesLeftToRight(t *testing.T) {
	move := Mat4Translation(Vec3{X: 1})
	spin := Mat4RotationZ(DegToRad(90))

	// move.Mul(spin): translate first, then rotate about the origin.
	got := move.Mul(spin).MulVec3(Vec3Zero)
	if !vec3Eq(got, Vec3Up) {
		t.Errorf("translate-then-rotate = %v, want (0,1,0)", got)
	}
	// spin.Mul(move): rotation of the origin is a no-op, then translate.
	got = spin.Mul(move).MulVec3(Vec3Zero)
	if !vec3Eq(got, Vec3Right) {
		t.Errorf("rotate-then-translate = %v, want (1,0,0)", got)
	}
}

func TestMat3InverseRoundTrip(t *testing.T) {
	m := Mat3FromMat4(Mat4EulerTRS(Vec3Zero, Vec3{X: 30, Y: 45, Z: 60}, Vec3{X: 2, Y: 3, Z: 0.5}))
	inv := m.Inverse()
	// m * m^-1 applied to a vector must round-trip.
	v := Vec3{X: 1.5, Y: -2, Z: 0.25}
	got := inv.MulVec(m.MulVec(v))
	if !vec3Eq(got, v) {
		t.Errorf("inverse round trip = %v, want %v", got, v)
	}
}

func TestMat3InverseSingular(t *testing.T) {
	m := Mat3FromMat4(Mat4Scale(Vec3{X: 1, Y: 0, Z: 1}))
	if got := m.Inverse(); got != Mat3Identity() {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}

func TestNormalMatrixUniformScale(t *testing.T) {
	// Under rotation plus uniform scale the normal matrix preserves
	// directions: a rotated normal matches the rotated geometry.
	model := Mat4EulerTRS(Vec3{X: 5, Y: 1, Z: -2}, Vec3{Y: 90}, Vec3{X: 3, Y: 3, Z: 3})
	n := NormalMatrix(model).MulVec(Vec3Up).Normalize()
	if !vec3Eq(n, Vec3Up) {
		t.Errorf("normal under uniform scale = %v, want (0,1,0)", n)
	}
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	// A 45-degree slope squashed 4x in Y: the plain model matrix would tilt
	// the normal toward the surface; the inverse-transpose keeps it
	// perpendicular.
	model := Mat4EulerTRS(Vec3Zero, Vec3Zero, Vec3{X: 1, Y: 0.25, Z: 1})

	tangent := Mat3FromMat4(model).MulVec(Vec3{X: 1, Y: 1, Z: 0})
	normal := NormalMatrix(model).MulVec(Vec3{X: -1, Y: 1, Z: 0}).Normalize()

	if dot := tangent.Normalize().Dot(normal); !floatEq(dot, 0) {
		t.Errorf("normal not perpendicular to surface, dot = %v", dot)
	}
	naive := Mat3FromMat4(model).MulVec(Vec3{X: -1, Y: 1, Z: 0}).Normalize()
	if vec3Eq(naive, normal) {
		t.Error("normal matrix should differ from model matrix under non-uniform scale")
	}
}

func TestMat4Flatten(t *testing.T) {
	m := Mat4Translation(Vec3{X: 7, Y: 8, Z: 9})
	f := m.Flatten()
	// Column-major upload order puts the translation in elements 12..14.
	if f[12] != 7 || f[13] != 8 || f[14] != 9 || f[15] != 1 {
		t.Errorf("flatten translation column = %v", f[12:16])
	}
	if f[0] != 1 || f[5] != 1 || f[10] != 1 {
		t.Errorf("flatten diagonal = %v %v %v", f[0], f[5], f[10])
	}
}

func TestMat4LookAtViewsTarget(t *testing.T) {
	view := Mat4LookAt(Vec3{Z: 5}, Vec3Zero, Vec3Up)
	// The target must land on the negative Z axis in view space.
	got := view.MulVec3(Vec3Zero)
	if !vec3Eq(got, Vec3{Z: -5}) {
		t.Errorf("target in view space = %v, want (0,0,-5)", got)
	}
}
