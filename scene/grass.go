package scene

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/meadow3d/meadow/core"
)

const (
	GrassRange      float32 = 2.75
	GrassIterations         = 12
	GrassHeight     float32 = 0.1
	GrassWidth      float32 = 0.0075

	// Blades inside this radius of the world origin shrink away to keep a
	// clearing around the centerpiece plant.
	grassClearing float32 = 3.0
)

// GrassField owns the blade transforms and recycles blades that drift out
// of range of the camera's ground focus.
type GrassField struct {
	Transforms []core.Transform

	heightmap *Heightmap
	rng       *rand.Rand
}

func NewGrassField(count int, heightmap *Heightmap, rng *rand.Rand) *GrassField {
	f := &GrassField{
		Transforms: make([]core.Transform, count),
		heightmap:  heightmap,
		rng:        rng,
	}
	for i := range f.Transforms {
		dist := rng.Float32()
		f.Transforms[i] = f.spawn(mgl32.Vec2{}, dist)
	}
	return f
}

// spawn places one blade at a polar offset from center, climbs it onto
// the heightmap, and scales it by the local noise.
func (f *GrassField) spawn(center mgl32.Vec2, dist float32) core.Transform {
	angle := f.rng.Float32() * 2.0 * math32.Pi
	offset := mgl32.Vec2{math32.Cos(angle), math32.Sin(angle)}.Mul(dist * GrassRange)

	pos := mgl32.Vec3{center.X() + offset.X(), 0, center.Y() + offset.Y()}
	pos = f.heightmap.Climb(pos, GrassIterations, f.rng)
	pos[1] = 0

	scaleMod := 0.7 + f.heightmap.Sample(pos.X(), pos.Z())*0.6
	scale := mgl32.Vec3{GrassWidth, GrassHeight, 1}.Mul(scaleMod)
	if pos.Len() < grassClearing {
		scale = scale.Mul(0.01)
	}

	tr := core.NewTransform()
	tr.Position = pos
	tr.Scale = scale
	return tr
}

// Update recycles blades farther than GrassRange from the focus point.
// Recycled blades come back near the rim so the churn is not visible.
func (f *GrassField) Update(focus mgl32.Vec3) int {
	center := mgl32.Vec2{focus.X(), focus.Z()}
	recycled := 0
	for i := range f.Transforms {
		pos2d := mgl32.Vec2{f.Transforms[i].Position.X(), f.Transforms[i].Position.Z()}
		if pos2d.Sub(center).Len() > GrassRange {
			dist := 0.9 + f.rng.Float32()*0.1
			f.Transforms[i] = f.spawn(center, dist)
			recycled++
		}
	}
	return recycled
}

// Instances freezes the field into the per-instance matrix pairs.
func (f *GrassField) Instances() []core.Instance {
	out := make([]core.Instance, len(f.Transforms))
	for i, tr := range f.Transforms {
		out[i] = tr.Instance()
	}
	return out
}
