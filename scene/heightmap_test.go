package scene

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func flatHeightmap(val float32) *Heightmap {
	values := make([]float32, 8*8)
	for i := range values {
		values[i] = val
	}
	return NewHeightmapFromValues(values, 8, 8, 1)
}

func TestHeightmapSampleFlat(t *testing.T) {
	h := flatHeightmap(0.5)
	for _, p := range [][2]float32{{0, 0}, {3.2, 4.7}, {-1, -1}, {100, 100}} {
		got := h.Sample(p[0], p[1])
		if got < 0.49 || got > 0.51 {
			t.Errorf("Sample(%v, %v) = %v, want 0.5", p[0], p[1], got)
		}
	}
}

func TestHeightmapSampleZero(t *testing.T) {
	h := flatHeightmap(0)
	if got := h.Sample(2, 2); got != 0 {
		t.Fatalf("Sample over zero field = %v, want 0", got)
	}
}

func TestHeightmapSampleWraps(t *testing.T) {
	values := make([]float32, 4*4)
	values[0] = 1
	h := NewHeightmapFromValues(values, 4, 4, 1)

	a := h.Sample(0, 0)
	b := h.Sample(4, 0)
	if a != b {
		t.Fatalf("sample at 0 (%v) and period 4 (%v) differ", a, b)
	}
	if a == 0 {
		t.Fatal("peak texel did not contribute")
	}
}

func TestClimbMovesUphill(t *testing.T) {
	// A ramp rising toward -x; climbing from the middle should walk up it.
	values := make([]float32, 16*16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			values[y*16+x] = 1.0 - float32(x)/16.0
		}
	}
	h := NewHeightmapFromValues(values, 16, 16, 1)
	rng := rand.New(rand.NewSource(3))

	start := mgl32.Vec3{0.5, 0, 0.5}
	startVal := h.Sample(start.X(), start.Z())
	end := h.Climb(start, 40, rng)
	endVal := h.Sample(end.X(), end.Z())

	if end.X() >= start.X() {
		t.Fatalf("climb did not move uphill: x %v -> %v", start.X(), end.X())
	}
	if endVal <= startVal {
		t.Fatalf("climb dropped from %v to %v", startVal, endVal)
	}
}

func TestClimbDisplacementBounded(t *testing.T) {
	h := flatHeightmap(0.5)
	rng := rand.New(rand.NewSource(9))

	start := mgl32.Vec3{1, 0, 1}
	end := h.Climb(start, 12, rng)
	// 13 passes of 0.01 steps plus the 0.05 jitter per axis.
	limit := float32(13*0.01 + 0.05 + 1e-4)
	if d := end.Sub(start); mgl32.Abs(d.X()) > limit || mgl32.Abs(d.Z()) > limit {
		t.Fatalf("climb moved %v, beyond per-axis limit %v", d, limit)
	}
}
