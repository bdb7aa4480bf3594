// Package scene owns the CPU-side world: the density heightmap, grass
// and dust fields, the plant grid, and the floor, flattened each frame
// into draw batches for the gpu manager.
package scene

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/meadow3d/meadow/core"
	"github.com/meadow3d/meadow/lsystem"
)

const (
	floorExtent = 100.0

	// DefaultGrassCount and DefaultDustCount size the instance pools
	// the renderer allocates up front.
	DefaultGrassCount = 5000
	DefaultDustCount  = 60
)

type Scene struct {
	Heightmap *Heightmap
	Grass     *GrassField
	Dust      *DustField
	Plants    *PlantGrid

	floorBatch *Batch
	grassBatch *Batch
	dustBatch  *Batch
}

func NewScene(heightmap *Heightmap, config *lsystem.Config, rng *rand.Rand) *Scene {
	grass := NewGrassField(DefaultGrassCount, heightmap, rng)
	dust := NewDustField(DefaultDustCount, rng)

	floor := core.NewTransform()
	floor.Scale = mgl32.Vec3{floorExtent, floorExtent, 1}
	floor.Rotation = mgl32.QuatRotate(-math32.Pi/2, mgl32.Vec3{1, 0, 0})

	grassBatch := NewBatch(core.VariantGrass, BladeQuad(0), grass.Instances())
	grassBatch.LinearLut = true

	return &Scene{
		Heightmap:  heightmap,
		Grass:      grass,
		Dust:       dust,
		Plants:     NewPlantGrid(config, rng),
		floorBatch: NewBatch(core.VariantFloor, Quad(0), []core.Instance{floor.Instance()}),
		grassBatch: grassBatch,
		dustBatch:  NewBatch(core.VariantDust, Quad(0), dust.Instances()),
	}
}

// Advance steps the simulation. Fields recenter on where the camera ray
// meets the ground, so panning drags the populated region along.
func (s *Scene) Advance(dt float32, camera *core.Camera) {
	focus, ok := camera.GroundFocus()
	if !ok {
		focus = mgl32.Vec3{}
	}

	if recycled := s.Grass.Update(focus); recycled > 0 {
		s.grassBatch.Instances = s.Grass.Instances()
		s.grassBatch.InstancesDirty = true
	}

	s.Dust.Update(dt, focus)
	s.dustBatch.Instances = s.Dust.Instances()
	s.dustBatch.InstancesDirty = true

	s.Plants.Update(focus)
}

// Batches returns every draw batch back to front: floor first, then
// plants, dust, and finally the grass on the linear LUT.
func (s *Scene) Batches() []*Batch {
	batches := make([]*Batch, 0, 3+len(s.Plants.plants))
	batches = append(batches, s.floorBatch)
	batches = append(batches, s.Plants.Batches()...)
	batches = append(batches, s.dustBatch, s.grassBatch)
	return batches
}
