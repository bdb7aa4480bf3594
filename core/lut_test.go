package core

import (
	"testing"
)

func TestParseColorLut(t *testing.T) {
	data := []byte(`[
		{"color": {"rgb": [0.1, 0.6, 0.2]}, "age": 0},
		{"color": {"hsl": [120, 0.5, 0.4]}, "age": 30},
		{"color": {"rgb": [0.8, 0.7, 0.3]}, "age": 60}
	]`)
	lut, err := ParseColorLut(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(lut.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(lut.Stops))
	}

	// Stepped ramp: exactly one texel per age unit from 0 through 60.
	texels := len(lut.ToRGBA()) / 4
	if texels != 61 {
		t.Errorf("stepped ramp texel count: got %d, want 61", texels)
	}

	if got := len(lut.ToRGBALinear()) / 4; got != 3 {
		t.Errorf("linear ramp texel count: got %d, want 3", got)
	}
}

func TestSteppedRampEmitsStopsOnce(t *testing.T) {
	lut := &ColorLut{Stops: []LutStop{
		{Color: ColorValue{RGB: &[3]float32{0, 0, 0}}, Age: 0},
		{Color: ColorValue{RGB: &[3]float32{1, 1, 1}}, Age: 2},
	}}
	out := lut.ToRGBA()
	if len(out) != 3*4 {
		t.Fatalf("texel count: got %d, want 3", len(out)/4)
	}
	for i, want := range []uint8{0, 127, 255} {
		if got := out[i*4]; got != want {
			t.Errorf("texel %d red channel: got %d, want %d", i, got, want)
		}
	}
}

func TestParseColorLutRejectsEmptyColor(t *testing.T) {
	if _, err := ParseColorLut([]byte(`[{"color": {}, "age": 5}]`)); err == nil {
		t.Fatal("expected error for colorless stop")
	}
}

func TestHSLConversion(t *testing.T) {
	cases := []struct {
		h, s, l float32
		want    [3]float32
	}{
		{0, 1, 0.5, [3]float32{1, 0, 0}},
		{120, 1, 0.5, [3]float32{0, 1, 0}},
		{240, 1, 0.5, [3]float32{0, 0, 1}},
		{0, 0, 0.5, [3]float32{0.5, 0.5, 0.5}},
	}
	for _, c := range cases {
		got := hslToRGB(c.h, c.s, c.l)
		for i := 0; i < 3; i++ {
			if !almostEqual(got[i], c.want[i], 1e-5) {
				t.Errorf("hsl(%v,%v,%v) channel %d: got %f, want %f", c.h, c.s, c.l, i, got[i], c.want[i])
			}
		}
	}
}

func TestRotateHueWraps(t *testing.T) {
	lut := DefaultColorLut()
	start := lut.Stops[0].Color.HSL[0]
	lut.RotateHue(400)
	got := lut.Stops[0].Color.HSL[0]
	if got < 0 || got >= 360 {
		t.Fatalf("hue out of range after rotation: %f", got)
	}
	if almostEqual(got, start, 1e-3) {
		t.Fatalf("hue did not move")
	}
}

func TestEmptyLutStillYieldsTexture(t *testing.T) {
	lut := &ColorLut{}
	tex := lut.Texture()
	if tex.Width < 1 {
		t.Fatal("empty lut must still produce a sampleable texture")
	}
	tex.Sample(0.5, 0.5)
}
