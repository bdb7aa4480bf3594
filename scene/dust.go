package scene

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/meadow3d/meadow/core"
)

const (
	DustScale float32 = 0.0085

	// Motes respawn when they leave this radius around the focus point.
	dustRange float32 = 7.0
)

// DustField simulates slow-rising, shrinking, spinning motes. A mote that
// shrinks below zero or drifts out of range respawns near the focus.
type DustField struct {
	Transforms []core.Transform

	rng *rand.Rand
}

func NewDustField(count int, rng *rand.Rand) *DustField {
	f := &DustField{
		Transforms: make([]core.Transform, count),
		rng:        rng,
	}
	for i := range f.Transforms {
		// Parked far away; the first Update respawns everything in view.
		tr := core.NewTransform()
		tr.Position = mgl32.Vec3{-1000, -1000, -1000}
		tr.Scale = mgl32.Vec3{DustScale, DustScale, DustScale}
		f.Transforms[i] = tr
	}
	return f
}

func (f *DustField) respawn(tr *core.Transform, center mgl32.Vec2) {
	dist := f.rng.Float32() * dustRange
	angle := f.rng.Float32() * 2.0 * math32.Pi
	offset := mgl32.Vec2{math32.Cos(angle), math32.Sin(angle)}.Mul(dist)

	tr.Position = mgl32.Vec3{
		center.X() + offset.X(),
		-0.5 + f.rng.Float32()*0.5,
		center.Y() + offset.Y(),
	}
	tr.Scale = mgl32.Vec3{DustScale, DustScale, DustScale}
	spin := f.rng.Float32() * 2.0 * math32.Pi
	tr.Rotation = tr.Rotation.Mul(mgl32.QuatRotate(spin, mgl32.Vec3{0, 1, 0}))
}

// Update advances every mote by dt seconds around the given focus point.
func (f *DustField) Update(dt float32, focus mgl32.Vec3) {
	center := mgl32.Vec2{focus.X(), focus.Z()}
	idleSpin := mgl32.QuatRotate(3.0*dt, mgl32.Vec3{0, 1, 0})

	for i := range f.Transforms {
		tr := &f.Transforms[i]
		pos2d := mgl32.Vec2{tr.Position.X(), tr.Position.Z()}
		if pos2d.Sub(center).Len() > dustRange || tr.Scale.X() < 0 {
			f.respawn(tr, center)
		}

		tr.Rotation = tr.Rotation.Mul(idleSpin)
		tr.Position[1] += 0.1 * dt
		shrink := DustScale * dt * 0.2
		tr.Scale = tr.Scale.Sub(mgl32.Vec3{shrink, shrink, shrink})
	}
}

// Instances freezes the field into the per-instance matrix pairs.
func (f *DustField) Instances() []core.Instance {
	out := make([]core.Instance, len(f.Transforms))
	for i, tr := range f.Transforms {
		out[i] = tr.Instance()
	}
	return out
}
