package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIsometricCameraBasis(t *testing.T) {
	cam := NewIsometricCamera(16.0 / 9.0)

	dir := cam.Direction.Vec3()
	if !dir.ApproxEqual(mgl32.Vec3{1, -1, 1}.Normalize()) {
		t.Fatalf("direction = %v", dir)
	}
	if w := cam.Direction.W(); w != 0 {
		t.Fatalf("direction w = %v, want 0", w)
	}
	if w := cam.Position.W(); w != 1 {
		t.Fatalf("position w = %v, want 1", w)
	}

	right := cam.Right.Vec3()
	up := cam.Up.Vec3()
	if d := right.Dot(dir); mgl32.Abs(d) > 1e-6 {
		t.Fatalf("right not orthogonal to direction: %v", d)
	}
	if d := up.Dot(dir); mgl32.Abs(d) > 1e-6 {
		t.Fatalf("up not orthogonal to direction: %v", d)
	}
}

func TestGroundFocusLandsOnGround(t *testing.T) {
	cam := NewIsometricCamera(1.0)

	focus, ok := cam.GroundFocus()
	if !ok {
		t.Fatal("expected a ground intersection")
	}
	if mgl32.Abs(focus.Y()) > 1e-4 {
		t.Fatalf("focus y = %v, want 0", focus.Y())
	}
	// Walking from the camera toward the focus must follow the view
	// direction.
	toFocus := focus.Sub(cam.Position.Vec3()).Normalize()
	if !toFocus.ApproxEqualThreshold(cam.Direction.Vec3(), 1e-5) {
		t.Fatalf("focus not along view direction: %v", toFocus)
	}
}

func TestGroundFocusMissesWhenLookingUp(t *testing.T) {
	cam := LookCamera(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 0}.Normalize(), 1.0)
	if _, ok := cam.GroundFocus(); ok {
		t.Fatal("expected no intersection looking up")
	}
}

func TestCameraRawLayout(t *testing.T) {
	cam := NewIsometricCamera(2.0)
	raw := cam.Raw()

	for i := 0; i < 4; i++ {
		if raw[i] != cam.Up[i] {
			t.Fatalf("raw[%d] = %v, want up %v", i, raw[i], cam.Up[i])
		}
		if raw[4+i] != cam.Right[i] {
			t.Fatalf("raw[%d] = %v, want right %v", 4+i, raw[4+i], cam.Right[i])
		}
		if raw[8+i] != cam.Position[i] {
			t.Fatalf("raw[%d] = %v, want position %v", 8+i, raw[8+i], cam.Position[i])
		}
		if raw[12+i] != cam.Direction[i] {
			t.Fatalf("raw[%d] = %v, want direction %v", 12+i, raw[12+i], cam.Direction[i])
		}
	}
	for i := 0; i < 16; i++ {
		if raw[16+i] != cam.ViewProj[i] {
			t.Fatalf("raw[%d] = %v, want view_proj %v", 16+i, raw[16+i], cam.ViewProj[i])
		}
	}
}
