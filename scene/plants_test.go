package scene

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/meadow3d/meadow/core"
	"github.com/meadow3d/meadow/lsystem"
)

func TestPlantGridFillsWindow(t *testing.T) {
	g := NewPlantGrid(lsystem.DefaultConfig(), rand.New(rand.NewSource(1)))

	grown := g.Update(mgl32.Vec3{})
	want := (PlantGridSize + 1) * (PlantGridSize + 1)
	if grown != want {
		t.Fatalf("grew %d plants, want %d", grown, want)
	}
	if again := g.Update(mgl32.Vec3{}); again != 0 {
		t.Fatalf("second update grew %d plants at the same focus", again)
	}
}

func TestPlantGridFollowsFocus(t *testing.T) {
	g := NewPlantGrid(lsystem.DefaultConfig(), rand.New(rand.NewSource(1)))
	g.Update(mgl32.Vec3{})

	// Shift by one cell: one row and one column leave, one row and one
	// column arrive.
	grown := g.Update(mgl32.Vec3{PlantSpacing, 0, 0})
	if grown != PlantGridSize+1 {
		t.Fatalf("grew %d plants after a one-cell pan, want %d", grown, PlantGridSize+1)
	}

	for _, b := range g.Batches() {
		if len(b.Instances) != 1 {
			t.Fatalf("plant batch has %d instances, want 1", len(b.Instances))
		}
		if b.Variant != core.VariantColorObject {
			t.Fatalf("plant batch variant = %v", b.Variant)
		}
	}
	if got := len(g.Batches()); got != (PlantGridSize+1)*(PlantGridSize+1) {
		t.Fatalf("window holds %d plants after pan", got)
	}
}

func TestPlantGridBatchesStableOrder(t *testing.T) {
	g := NewPlantGrid(lsystem.DefaultConfig(), rand.New(rand.NewSource(2)))
	g.Update(mgl32.Vec3{})

	a := g.Batches()
	b := g.Batches()
	for i := range a {
		if a[i].Id != b[i].Id {
			t.Fatalf("batch order changed between calls at index %d", i)
		}
	}
}

func TestPlantMeshAges(t *testing.T) {
	shapes := []lsystem.RenderShape{
		{Kind: lsystem.ShapeLine, Start: mgl32.Vec3{}, End: mgl32.Vec3{0, 0.5, 0}, Width: 1, Age: 1},
		{Kind: lsystem.ShapeCircle, Pos: mgl32.Vec3{0, 0.5, 0}, Size: 0.1, Age: 4},
	}
	mesh := PlantMesh(shapes, 4)

	// Cylinder ring ages bracket the generation, leaf carries its own.
	cyl := mesh.Vertices[:2*branchResolution]
	for i, v := range cyl[:branchResolution] {
		if v.Age != 0 {
			t.Errorf("bottom ring vertex %d age = %v, want 0", i, v.Age)
		}
	}
	for i, v := range cyl[branchResolution:] {
		if v.Age != 0.25 {
			t.Errorf("top ring vertex %d age = %v, want 0.25", i, v.Age)
		}
	}
	for i, v := range mesh.Vertices[2*branchResolution:] {
		if v.Age != 1 {
			t.Errorf("leaf vertex %d age = %v, want 1", i, v.Age)
		}
	}
}

func TestPlantMeshSkipsDegenerateSegment(t *testing.T) {
	shapes := []lsystem.RenderShape{
		{Kind: lsystem.ShapeLine, Start: mgl32.Vec3{1, 1, 1}, End: mgl32.Vec3{1, 1, 1}, Width: 1, Age: 1},
	}
	mesh := PlantMesh(shapes, 4)
	if len(mesh.Vertices) != 0 {
		t.Fatalf("degenerate segment produced %d vertices", len(mesh.Vertices))
	}
}

func TestPlantMeshSegmentSpan(t *testing.T) {
	shapes := []lsystem.RenderShape{
		{Kind: lsystem.ShapeLine, Start: mgl32.Vec3{}, End: mgl32.Vec3{0, 1, 0}, Width: 1, Age: 1},
	}
	mesh := PlantMesh(shapes, 1)

	for i, v := range mesh.Vertices[:branchResolution] {
		if mgl32.Abs(v.Position.Y()) > 1e-6 {
			t.Errorf("bottom vertex %d at y=%v, want 0", i, v.Position.Y())
		}
	}
	for i, v := range mesh.Vertices[branchResolution:] {
		if mgl32.Abs(v.Position.Y()-1) > 1e-6 {
			t.Errorf("top vertex %d at y=%v, want 1", i, v.Position.Y())
		}
	}
}
