package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Variant selects one of the four fragment entry points. The caller picks
// the variant per draw call; the core never dispatches on geometry itself.
type Variant int

const (
	VariantColorObject Variant = iota
	VariantDust
	VariantFloor
	VariantGrass
)

func (v Variant) String() string {
	switch v {
	case VariantColorObject:
		return "color_object"
	case VariantDust:
		return "dust"
	case VariantFloor:
		return "floor"
	case VariantGrass:
		return "grass"
	}
	return "unknown"
}

// Wind evaluates the scalar wind field at a horizontal world position.
// The noise sample scrolls with time and perturbs the phase of a sine
// over (x+z); WindDirection is reserved and takes no part in this.
func Wind(x, z float32, rd RenderData, noise *Texture) float32 {
	localTime := rd.Time * rd.WindSpeed
	n := noise.SampleLevel(
		x*rd.WindNoiseScale+localTime*0.01,
		z*rd.WindNoiseScale+localTime*0.01,
	).X()
	phase := (x + z) + n*rd.WindNoiseStrength
	return math32.Sin(phase*rd.WindScale+localTime) * rd.WindStrength
}

// GroundColor samples the shared texture as a ground mask and attenuates
// the LUT base tint with it. The red channel scaled by 0.01 is the ground
// amount; the tint always comes from the LUT's left edge.
func GroundColor(world mgl32.Vec3, noise, lut *Texture) mgl32.Vec3 {
	ground := noise.Sample(world.X()*0.1, world.Z()*0.1).X() * 0.01
	base := lut.Sample(0.0, 0.5).Vec3()
	return base.Mul(1.0 - ground)
}

var shadowDir = mgl32.Vec3{-1, -1, -1}.Normalize()

// Shade is the fragment stage: one pure invocation per covered pixel.
// All four variants run through here so their shared ground/LUT sampling
// cannot drift apart.
func Shade(variant Variant, in Varyings, noise, lut *Texture) mgl32.Vec4 {
	switch variant {
	case VariantColorObject:
		ground := GroundColor(in.WorldPosition, noise, lut)
		t := mgl32.Clamp(in.WorldPosition.Y()/0.1, 0.0, 1.0)
		tint := lut.Sample(in.Age, 0.5).Vec3()
		shadow := 1.0 - 0.05*math32.Max(shadowDir.Dot(in.Normal), 0.0)
		// Blend order matters: the sum is not energy-normalized.
		color := tint.Mul(t * shadow).Add(ground.Mul(1.0 - t))
		return color.Vec4(1)

	case VariantDust:
		// Larger motes key lower into the ramp.
		t := 1.0 - in.Scale.X()/0.01
		return lut.Sample(t, 0.5).Vec3().Vec4(1)

	case VariantFloor:
		return GroundColor(in.WorldPosition, noise, lut).Vec4(1)

	case VariantGrass:
		// Not clamped below: sub-ground blades read outside the ramp and
		// resolve by the sampler's addressing mode.
		t := math32.Min(in.WorldPosition.Y()/0.1, 1.0)
		// The ground sample is currently unused in the grass output; it
		// stays to keep this path in lockstep with the shader.
		_ = GroundColor(in.WorldPosition, noise, lut)
		return lut.Sample(t, 0.5).Vec3().Vec4(1)
	}

	return mgl32.Vec4{0, 0, 0, 1}
}
