package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	OrthoWidth  float32 = 2.0
	OrthoHeight float32 = 2.0
	OrthoNear   float32 = 0.003
	OrthoFar    float32 = 1000.0
)

// Camera is the frame-global camera uniform. Field order matches the
// shader's binding layout exactly: four vec4s followed by the combined
// view-projection matrix.
type Camera struct {
	Up        mgl32.Vec4
	Right     mgl32.Vec4
	Position  mgl32.Vec4
	Direction mgl32.Vec4
	ViewProj  mgl32.Mat4
}

// NewIsometricCamera builds the fixed orthographic camera looking down the
// (1,-1,1) diagonal, with the horizontal extent scaled by aspect.
func NewIsometricCamera(aspect float32) Camera {
	position := mgl32.Vec3{-9.5, 10.0, -9.5}
	direction := mgl32.Vec3{1, -1, 1}.Normalize()
	return LookCamera(position, direction, aspect)
}

// LookCamera derives the full camera state from a position and view
// direction. ViewProj already combines view and projection so the vertex
// stage performs a single multiply to reach clip space.
func LookCamera(position, direction mgl32.Vec3, aspect float32) Camera {
	worldUp := mgl32.Vec3{0, 1, 0}
	right := direction.Cross(worldUp).Normalize()
	up := right.Cross(direction).Normalize()

	proj := mgl32.Ortho(
		-OrthoWidth*aspect/2.0, OrthoWidth*aspect/2.0,
		-OrthoHeight/2.0, OrthoHeight/2.0,
		OrthoNear, OrthoFar,
	)
	view := mgl32.LookAtV(position, position.Add(direction), worldUp)

	return Camera{
		Up:        up.Vec4(0),
		Right:     right.Vec4(0),
		Position:  position.Vec4(1),
		Direction: direction.Vec4(0),
		ViewProj:  proj.Mul4(view),
	}
}

// GroundFocus intersects the view ray with the y=0 plane. Reports false
// when the camera looks away from the ground.
func (c Camera) GroundFocus() (mgl32.Vec3, bool) {
	dir := c.Direction.Vec3()
	pos := c.Position.Vec3()
	denom := -dir.Y()
	if denom <= 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := -pos.Y() / denom
	return pos.Sub(dir.Mul(t)), true
}

// Raw flattens the camera into its uniform upload layout.
func (c Camera) Raw() [32]float32 {
	var out [32]float32
	copy(out[0:4], c.Up[:])
	copy(out[4:8], c.Right[:])
	copy(out[8:12], c.Position[:])
	copy(out[12:16], c.Direction[:])
	copy(out[16:32], c.ViewProj[:])
	return out
}
