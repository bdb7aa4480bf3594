package core

import (
	"encoding/json"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ColorValue is one LUT color, given either as RGB in [0,1] or as HSL
// with hue in degrees and saturation/lightness in [0,1].
type ColorValue struct {
	RGB *[3]float32 `json:"rgb,omitempty"`
	HSL *[3]float32 `json:"hsl,omitempty"`
}

func (c ColorValue) RGBVec() mgl32.Vec3 {
	if c.RGB != nil {
		return mgl32.Vec3{c.RGB[0], c.RGB[1], c.RGB[2]}
	}
	if c.HSL != nil {
		return hslToRGB(c.HSL[0], c.HSL[1], c.HSL[2])
	}
	return mgl32.Vec3{}
}

// LutStop pins a color at an age along the ramp.
type LutStop struct {
	Color ColorValue `json:"color"`
	Age   uint32     `json:"age"`
}

// ColorLut builds the 1D color-lookup texture the fragment variants index
// by age, height, or scale ratio.
type ColorLut struct {
	Stops []LutStop
}

func ParseColorLut(data []byte) (*ColorLut, error) {
	var stops []LutStop
	if err := json.Unmarshal(data, &stops); err != nil {
		return nil, fmt.Errorf("parsing lut stops: %w", err)
	}
	for i, stop := range stops {
		if stop.Color.RGB == nil && stop.Color.HSL == nil {
			return nil, fmt.Errorf("lut stop %d has no color", i)
		}
	}
	return &ColorLut{Stops: stops}, nil
}

// DefaultColorLut is a green-to-straw meadow ramp.
func DefaultColorLut() *ColorLut {
	return &ColorLut{Stops: []LutStop{
		{Color: ColorValue{HSL: &[3]float32{95, 0.55, 0.22}}, Age: 0},
		{Color: ColorValue{HSL: &[3]float32{85, 0.50, 0.35}}, Age: 20},
		{Color: ColorValue{HSL: &[3]float32{65, 0.45, 0.50}}, Age: 40},
		{Color: ColorValue{HSL: &[3]float32{48, 0.55, 0.62}}, Age: 60},
	}}
}

// RotateHue drifts every HSL stop's hue by delta degrees. RGB stops are
// left alone.
func (l *ColorLut) RotateHue(delta float32) {
	for i := range l.Stops {
		if hsl := l.Stops[i].Color.HSL; hsl != nil {
			hsl[0] = math32.Mod(hsl[0]+delta, 360.0)
			if hsl[0] < 0 {
				hsl[0] += 360.0
			}
		}
	}
}

// ToRGBA renders the stepped ramp: exactly one texel per age unit, each
// segment interpolated from the previous stop's color to its own. A stop
// boundary belongs to the segment it closes, so interior stops emit once.
func (l *ColorLut) ToRGBA() []uint8 {
	var out []uint8
	prevAge := uint32(0)
	for i, stop := range l.Stops {
		startAge := prevAge
		this := stop.Color.RGBVec()
		prev := l.Stops[maxInt(i-1, 0)].Color.RGBVec()

		ageDiff := uint32(0)
		if stop.Age > startAge {
			ageDiff = stop.Age - startAge
		}
		first := uint32(0)
		if i > 0 {
			first = 1
		}
		for j := first; j <= ageDiff; j++ {
			t := float32(j) / float32(maxUint(ageDiff, 1))
			c := this.Mul(t).Add(prev.Mul(1.0 - t))
			out = append(out,
				uint8(c.X()*255.0),
				uint8(c.Y()*255.0),
				uint8(c.Z()*255.0),
				255,
			)
		}
		prevAge = stop.Age
	}
	return out
}

// ToRGBALinear renders one texel per stop, leaving the interpolation to
// the sampler's linear filter.
func (l *ColorLut) ToRGBALinear() []uint8 {
	out := make([]uint8, 0, len(l.Stops)*4)
	for _, stop := range l.Stops {
		c := stop.Color.RGBVec()
		out = append(out,
			uint8(c.X()*255.0),
			uint8(c.Y()*255.0),
			uint8(c.Z()*255.0),
			255,
		)
	}
	return out
}

// Texture bakes the stepped ramp into a clamped 1D-style texture.
func (l *ColorLut) Texture() *Texture {
	return rampTexture(l.ToRGBA())
}

// TextureLinear bakes the per-stop ramp.
func (l *ColorLut) TextureLinear() *Texture {
	return rampTexture(l.ToRGBALinear())
}

func rampTexture(data []uint8) *Texture {
	if len(data) == 0 {
		data = []uint8{0, 0, 0, 255}
	}
	return NewTexture(data, len(data)/4, 1, AddressClamp)
}

func hslToRGB(h, s, lum float32) mgl32.Vec3 {
	h = math32.Mod(h, 360.0)
	if h < 0 {
		h += 360.0
	}
	c := (1.0 - math32.Abs(2.0*lum-1.0)) * s
	x := c * (1.0 - math32.Abs(math32.Mod(h/60.0, 2.0)-1.0))
	m := lum - c/2.0

	var r, g, b float32
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return mgl32.Vec3{r + m, g + m, b + m}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxUint(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
