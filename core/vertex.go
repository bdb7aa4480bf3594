package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the per-vertex input: local position, local normal, and a
// scalar age. Age is conceptually [0,1] but arrives unclamped.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Age      float32
}

// Varyings are the per-vertex outputs the rasterizer interpolates across
// a primitive before the fragment variants run.
type Varyings struct {
	ClipPosition  mgl32.Vec4
	Normal        mgl32.Vec3
	Age           float32
	WorldPosition mgl32.Vec3
	Scale         mgl32.Vec3
}

// Raw flattens a vertex into its buffer layout: position, normal, age.
func (v Vertex) Raw() [7]float32 {
	return [7]float32{
		v.Position.X(), v.Position.Y(), v.Position.Z(),
		v.Normal.X(), v.Normal.Y(), v.Normal.Z(),
		v.Age,
	}
}

// TransformVertex is the vertex stage: one pure invocation per vertex.
//
// The normal goes through the transpose of the inverse model matrix with a
// homogeneous w of 1, not 0. That is how the shipped shader behaves, so it
// stays; correcting it would shift every normal under translation.
func TransformVertex(v Vertex, inst Instance, camera Camera, rd RenderData, noise *Texture) Varyings {
	world := inst.Model.Mul4x1(v.Position.Vec4(1))

	normal := inst.InvModel.Transpose().Mul4x1(v.Normal.Vec4(1)).Vec3().Normalize()

	scale := inst.ScaleVec()

	wind := Wind(world.X(), world.Z(), rd, noise)
	heightRatio := mgl32.Clamp(world.Y()/0.1, 0.0, 1.0)
	ageFalloff := AgeFalloff(v.Age)

	// 2.5D sway: only the world z coordinate bends.
	world[2] += wind * ageFalloff * heightRatio

	return Varyings{
		ClipPosition:  camera.ViewProj.Mul4x1(world),
		Normal:        normal,
		Age:           v.Age,
		WorldPosition: world.Vec3(),
		Scale:         scale,
	}
}

// AgeFalloff anchors young geometry against the wind: clamp(age,0,1)².
func AgeFalloff(age float32) float32 {
	a := mgl32.Clamp(age, 0.0, 1.0)
	return a * a
}
