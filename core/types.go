package core

import (
	"scene-editor/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBlack  = Color{0, 0, 0, 1}
	ColorRed    = Color{1, 0, 0, 1}
	ColorGreen  = Color{0, 1, 0, 1}
	ColorBlue   = Color{0, 0, 1, 1}
	ColorYellow = Color{1, 1, 0, 1}
)

// Transform places an entity in world space. Rotation is Euler angles in
// degrees, applied X, then Y, then Z.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.Vec3Zero,
		Scale:    math.Vec3One,
	}
}

// Matrix returns the model matrix, composed T * Rz * Ry * Rx * S.
func (t Transform) Matrix() math.Mat4 {
	return math.Mat4EulerTRS(t.Position, t.Rotation, t.Scale)
}

// NormalMatrix returns the inverse-transpose of the model matrix's upper
// 3x3, correct for normals under non-uniform scale.
func (t Transform) NormalMatrix() math.Mat3 {
	return math.NormalMatrix(t.Matrix())
}
