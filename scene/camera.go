package scene

import (
	"github.com/chewxy/math32"

	"scene-editor/math"
)

// Camera is a perspective view camera. Matrices are cached and rebuilt
// lazily after any setter.
type Camera struct {
	position    math.Vec3
	target      math.Vec3
	up          math.Vec3
	FOV         float32 // radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	viewMatrix     math.Mat4
	projMatrix     math.Mat4
	viewProjMatrix math.Mat4
	dirty          bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		target:      math.Vec3Zero,
		up:          math.Vec3Up,
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

func (c *Camera) SetPosition(pos math.Vec3) {
	c.position = pos
	c.dirty = true
}

func (c *Camera) LookAt(target math.Vec3) {
	c.target = target
	c.dirty = true
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) Position() math.Vec3 {
	return c.position
}

func (c *Camera) ViewMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) ProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projMatrix
}

func (c *Camera) ViewProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewProjMatrix
}

// ScreenRay returns the world-space picking ray through a screen pixel,
// with (0,0) at the top-left corner.
func (c *Camera) ScreenRay(x, y, width, height float32) Ray {
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height

	forward := c.target.Sub(c.position).Normalize()
	right := forward.Cross(c.up).Normalize()
	up := right.Cross(forward)

	halfH := math32.Tan(c.FOV / 2)
	halfW := halfH * c.AspectRatio

	dir := forward.
		Add(right.Mul(ndcX * halfW)).
		Add(up.Mul(ndcY * halfH)).
		Normalize()
	return Ray{Origin: c.position, Direction: dir}
}

func (c *Camera) updateMatrices() {
	c.viewMatrix = math.Mat4LookAt(c.position, c.target, c.up)
	c.projMatrix = math.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.viewProjMatrix = c.viewMatrix.Mul(c.projMatrix)
	c.dirty = false
}
