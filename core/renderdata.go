package core

import (
	"github.com/chewxy/math32"
)

// RenderData is the frame-global animation uniform: eight 32-bit floats in
// fixed order. Padding exists purely for 32-byte alignment of the uniform
// block. WindDirection is reserved; nothing consumes it yet.
type RenderData struct {
	Time              float32
	WindStrength      float32
	WindScale         float32
	WindSpeed         float32
	WindDirection     float32
	WindNoiseScale    float32
	WindNoiseStrength float32
	Padding           float32
}

func DefaultRenderData() RenderData {
	return RenderData{
		Time:              0.0,
		WindStrength:      0.21,
		WindScale:         1.0,
		WindSpeed:         5.0,
		WindDirection:     0.0,
		WindNoiseScale:    0.05,
		WindNoiseStrength: 5.0,
	}
}

// Advance moves the clock and pulses the wind strength, so the meadow
// mostly rests with occasional gusts.
func (rd *RenderData) Advance(time float32) {
	rd.Time = time
	s := math32.Sin(time * 0.2)
	rd.WindStrength = 0.002 + math32.Pow(s, 4.0)*0.01
}

// Raw flattens the uniform into its upload layout.
func (rd RenderData) Raw() [8]float32 {
	return [8]float32{
		rd.Time,
		rd.WindStrength,
		rd.WindScale,
		rd.WindSpeed,
		rd.WindDirection,
		rd.WindNoiseScale,
		rd.WindNoiseStrength,
		rd.Padding,
	}
}
