package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the decomposed per-instance placement. Scene code mutates
// these and rebuilds the matrix pair each frame; the shading core only
// ever sees the finished Instance.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) objectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

func (t Transform) worldToObject() mgl32.Mat4 {
	// inv(M) = inv(S) * inv(R) * inv(T), all cheap given the components.
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())
	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// Instance carries a model matrix and its precomputed inverse. The core
// never inverts a matrix itself; the inverse arrives from the caller.
type Instance struct {
	Model    mgl32.Mat4
	InvModel mgl32.Mat4
}

// Instance freezes the transform into the matrix pair the shaders consume.
func (t Transform) Instance() Instance {
	return Instance{
		Model:    t.objectToWorld(),
		InvModel: t.worldToObject(),
	}
}

// NewInstance is a convenience for callers that already hold a model
// matrix with a true inverse.
func NewInstance(model, invModel mgl32.Mat4) Instance {
	return Instance{Model: model, InvModel: invModel}
}

// ScaleVec recovers the per-axis scale magnitudes as the lengths of the
// model matrix basis columns. Affine-only transforms round-trip exactly;
// shear does not, and a zero-length basis yields zero scale rather than
// a fault.
func (in Instance) ScaleVec() mgl32.Vec3 {
	m := in.Model
	return mgl32.Vec3{
		math32.Sqrt(m[0]*m[0] + m[1]*m[1] + m[2]*m[2]),
		math32.Sqrt(m[4]*m[4] + m[5]*m[5] + m[6]*m[6]),
		math32.Sqrt(m[8]*m[8] + m[9]*m[9] + m[10]*m[10]),
	}
}

// Raw flattens the pair into the per-instance vertex buffer layout: the
// model's four columns, then the inverse's four columns.
func (in Instance) Raw() [32]float32 {
	var out [32]float32
	copy(out[0:16], in.Model[:])
	copy(out[16:32], in.InvModel[:])
	return out
}
