package scene

import (
	"scene-editor/core"
	"scene-editor/math"
)

// Light is a directional light. Direction is a unit vector pointing from
// the light toward the scene; shaders negate it at use.
type Light struct {
	Direction math.Vec3
	Color     core.Color
	Enabled   bool
}

// LightDirection derives a light's direction from its entity's Euler
// rotation in degrees: the unrotated light shines down -Z, rotated by the
// same convention the model matrix uses (X, then Y, then Z).
func LightDirection(rotationDeg math.Vec3) math.Vec3 {
	m := math.Mat4EulerTRS(math.Vec3Zero, rotationDeg, math.Vec3One)
	return math.Mat3FromMat4(m).MulVec(math.Vec3Back).Normalize()
}

// NewDirectionalLight creates an enabled white light shining along dir.
func NewDirectionalLight(dir math.Vec3) *Light {
	return &Light{
		Direction: dir.Normalize(),
		Color:     core.ColorWhite,
		Enabled:   true,
	}
}
