package scene

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGrassFieldSpawnsInRange(t *testing.T) {
	h := flatHeightmap(0.5)
	f := NewGrassField(200, h, rand.New(rand.NewSource(1)))

	for i, tr := range f.Transforms {
		pos2d := mgl32.Vec2{tr.Position.X(), tr.Position.Z()}
		// Climb and jitter can push a blade slightly past the spawn radius.
		if pos2d.Len() > GrassRange+0.5 {
			t.Errorf("blade %d spawned at distance %v", i, pos2d.Len())
		}
		if tr.Position.Y() != 0 {
			t.Errorf("blade %d not rooted at ground level: %v", i, tr.Position)
		}
	}
}

func TestGrassFieldClearing(t *testing.T) {
	h := flatHeightmap(0.5)
	f := NewGrassField(200, h, rand.New(rand.NewSource(1)))

	for i, tr := range f.Transforms {
		if tr.Position.Len() < grassClearing && tr.Scale.Y() > GrassHeight*0.02 {
			t.Errorf("blade %d inside the clearing kept scale %v", i, tr.Scale)
		}
	}
}

func TestGrassFieldRecyclesOnPan(t *testing.T) {
	h := flatHeightmap(0.5)
	f := NewGrassField(100, h, rand.New(rand.NewSource(2)))

	// Everything spawned around the origin, so a distant focus recycles
	// the whole field near its rim.
	focus := mgl32.Vec3{50, 0, 50}
	recycled := f.Update(focus)
	if recycled != 100 {
		t.Fatalf("recycled %d blades, want all 100", recycled)
	}
	center := mgl32.Vec2{focus.X(), focus.Z()}
	for i, tr := range f.Transforms {
		d := mgl32.Vec2{tr.Position.X(), tr.Position.Z()}.Sub(center).Len()
		if d < GrassRange*0.8 || d > GrassRange+0.5 {
			t.Errorf("blade %d recycled at distance %v, want near the rim", i, d)
		}
	}

	// A second pass over an already covered focus leaves the field alone
	// except for blades the rim jitter pushed out.
	if again := f.Update(focus); again > 20 {
		t.Errorf("second update recycled %d blades", again)
	}
}

func TestDustFieldRespawnsIntoRange(t *testing.T) {
	f := NewDustField(60, rand.New(rand.NewSource(4)))
	focus := mgl32.Vec3{}

	f.Update(0.016, focus)
	for i, tr := range f.Transforms {
		d := mgl32.Vec2{tr.Position.X(), tr.Position.Z()}.Len()
		if d > dustRange {
			t.Errorf("mote %d still parked at %v after update", i, tr.Position)
		}
		if tr.Position.Y() < -0.5 || tr.Position.Y() > 0.1 {
			t.Errorf("mote %d spawned at height %v", i, tr.Position.Y())
		}
	}
}

func TestDustFieldRisesAndShrinks(t *testing.T) {
	f := NewDustField(10, rand.New(rand.NewSource(4)))
	f.Update(0.016, mgl32.Vec3{})

	before := make([]mgl32.Vec3, len(f.Transforms))
	scales := make([]float32, len(f.Transforms))
	for i, tr := range f.Transforms {
		before[i] = tr.Position
		scales[i] = tr.Scale.X()
	}

	f.Update(1.0, mgl32.Vec3{})
	for i, tr := range f.Transforms {
		if got := tr.Position.Y() - before[i].Y(); mgl32.Abs(got-0.1) > 1e-5 {
			t.Errorf("mote %d rose %v in one second, want 0.1", i, got)
		}
		if got := scales[i] - tr.Scale.X(); mgl32.Abs(got-DustScale*0.2) > 1e-6 {
			t.Errorf("mote %d shrank %v in one second, want %v", i, got, DustScale*0.2)
		}
	}
}

func TestDustFieldRespawnsAfterShrinkingAway(t *testing.T) {
	f := NewDustField(5, rand.New(rand.NewSource(4)))
	f.Update(0.016, mgl32.Vec3{})

	// Shrinking 20% of base scale per second, a mote is gone within
	// seconds; step far past that and check the field recovered.
	for i := 0; i < 8; i++ {
		f.Update(1.0, mgl32.Vec3{})
	}
	recovered := 0
	for _, tr := range f.Transforms {
		if tr.Scale.X() > 0 {
			recovered++
		}
	}
	if recovered == 0 {
		t.Fatal("no motes respawned after shrinking away")
	}
}
