package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func almostEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestScaleRecovery(t *testing.T) {
	cases := []mgl32.Vec3{
		{2, 1, 1},
		{1, 3.5, 1},
		{1, 1, 0.25},
		{0.0075, 0.1, 1},
		{2, 3, 4},
	}
	rot := mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0}.Normalize()).
		Mul(mgl32.QuatRotate(0.3, mgl32.Vec3{1, 0, 0}))

	for _, scale := range cases {
		tr := NewTransform()
		tr.Scale = scale
		tr.Rotation = rot
		tr.Position = mgl32.Vec3{5, -2, 8}

		got := tr.Instance().ScaleVec()
		for i := 0; i < 3; i++ {
			if !almostEqual(got[i], scale[i], 1e-4) {
				t.Errorf("scale %v axis %d: got %f, want %f", scale, i, got[i], scale[i])
			}
		}
	}
}

func TestScaleRecoveryZeroBasis(t *testing.T) {
	// A collapsed basis is degenerate but defined: zero scale, no fault.
	tr := NewTransform()
	tr.Scale = mgl32.Vec3{0, 1, 1}
	got := tr.Instance().ScaleVec()
	if got.X() != 0 {
		t.Errorf("expected zero x scale, got %f", got.X())
	}
}

// Shear is not representable as per-axis basis lengths: a sheared matrix
// reports longer bases than the scale metadata that produced it. Callers
// carrying explicit scale must not mix the two approaches under shear.
func TestScaleRecoveryDivergesUnderShear(t *testing.T) {
	sheared := mgl32.Ident4()
	sheared[4] = 0.5 // y basis leans into x

	inst := Instance{Model: sheared, InvModel: sheared.Inv()}
	got := inst.ScaleVec()
	if almostEqual(got.Y(), 1.0, 1e-4) {
		t.Errorf("expected sheared y basis length to diverge from 1, got %f", got.Y())
	}
}

func TestInstanceInverseRoundTrip(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Rotation = mgl32.QuatRotate(1.1, mgl32.Vec3{0, 0, 1})
	tr.Scale = mgl32.Vec3{2, 0.5, 3}

	inst := tr.Instance()
	ident := inst.Model.Mul4(inst.InvModel)
	want := mgl32.Ident4()
	for i := range ident {
		if !almostEqual(ident[i], want[i], 1e-5) {
			t.Fatalf("model * invModel not identity at %d: %f", i, ident[i])
		}
	}
}
