package scene

import (
	"math/rand"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/meadow3d/meadow/core"
	"github.com/meadow3d/meadow/lsystem"
)

const (
	// PlantSpacing is the world-space distance between grid cells.
	PlantSpacing = 3.0
	// PlantGridSize is the side length of the tracked cell window.
	PlantGridSize = 4

	branchResolution = 3
	branchRadius     = 0.01
)

type plantCell struct {
	I int
	J int
}

func (c plantCell) center() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.I) * PlantSpacing, 0, float32(c.J) * PlantSpacing}
}

// PlantGrid keeps one generated plant per grid cell inside a window
// around the camera focus. Plants outside the window are dropped and
// regrown fresh when the focus returns, so every visit looks different.
type PlantGrid struct {
	config *lsystem.Config
	rng    *rand.Rand
	plants map[plantCell]*Batch
}

func NewPlantGrid(config *lsystem.Config, rng *rand.Rand) *PlantGrid {
	return &PlantGrid{
		config: config,
		rng:    rng,
		plants: make(map[plantCell]*Batch),
	}
}

// Update drops plants outside the cell window around focus and grows
// plants for cells that entered it. Reports how many were grown.
func (g *PlantGrid) Update(focus mgl32.Vec3) int {
	centerI := int(math32.Round(focus.X() / PlantSpacing))
	centerJ := int(math32.Round(focus.Z() / PlantSpacing))
	half := PlantGridSize / 2

	for cell := range g.plants {
		if cell.I < centerI-half || cell.I > centerI+half ||
			cell.J < centerJ-half || cell.J > centerJ+half {
			delete(g.plants, cell)
		}
	}

	grown := 0
	for i := centerI - half; i <= centerI+half; i++ {
		for j := centerJ - half; j <= centerJ+half; j++ {
			cell := plantCell{I: i, J: j}
			if _, ok := g.plants[cell]; ok {
				continue
			}
			g.plants[cell] = g.grow(cell)
			grown++
		}
	}
	return grown
}

func (g *PlantGrid) grow(cell plantCell) *Batch {
	g.config.RandomizeRuleSets(1, g.rng)
	shapes := lsystem.Build(g.config, g.rng)
	mesh := PlantMesh(shapes, g.config.Rules.Iterations)

	tr := core.NewTransform()
	tr.Position = cell.center()
	return NewBatch(core.VariantColorObject, mesh, []core.Instance{tr.Instance()})
}

// Batches lists the live plants ordered by cell so draw order is stable
// across frames.
func (g *PlantGrid) Batches() []*Batch {
	cells := make([]plantCell, 0, len(g.plants))
	for cell := range g.plants {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(a, b int) bool {
		if cells[a].I != cells[b].I {
			return cells[a].I < cells[b].I
		}
		return cells[a].J < cells[b].J
	})

	batches := make([]*Batch, len(cells))
	for i, cell := range cells {
		batches[i] = g.plants[cell]
	}
	return batches
}

// PlantMesh turns expansion shapes into one mesh. Line segments become
// thin cylinders whose ring ages step by generation, so the LUT ramps
// continuously from trunk to tip; circles become leaf icospheres.
func PlantMesh(shapes []lsystem.RenderShape, iterations int) Mesh {
	var mesh Mesh
	if iterations < 1 {
		iterations = 1
	}
	ageStep := 1.0 / float32(iterations)

	for _, s := range shapes {
		age := float32(s.Age) * ageStep
		switch s.Kind {
		case lsystem.ShapeLine:
			dir := s.End.Sub(s.Start)
			length := dir.Len()
			if length == 0 {
				continue
			}
			mid := s.Start.Add(dir.Mul(0.5))
			radius := s.Width * length * branchRadius
			mat := mgl32.Translate3D(mid.X(), mid.Y(), mid.Z()).
				Mul4(mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, dir.Mul(1 / length)).Mat4()).
				Mul4(mgl32.Scale3D(radius, length, radius))
			mesh.Append(Cylinder(branchResolution, age-ageStep, age, mat))
		case lsystem.ShapeCircle:
			mat := mgl32.Translate3D(s.Pos.X(), s.Pos.Y(), s.Pos.Z()).
				Mul4(mgl32.Scale3D(s.Size, s.Size, s.Size))
			mesh.Append(Icosphere(age, mat))
		}
	}
	return mesh
}
