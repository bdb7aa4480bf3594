package core

import (
	"image"
	"image/draw"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AddressMode controls how texture coordinates outside [0,1] resolve.
// This mirrors the sampler configuration the GPU side uses: the noise
// texture repeats, the LUT clamps.
type AddressMode int

const (
	AddressClamp AddressMode = iota
	AddressRepeat
)

// Texture is a CPU-side RGBA8 texture with bilinear sampling. It backs the
// software evaluator; the same bytes are what gpu uploads to the device.
type Texture struct {
	Pixels  []uint8
	Width   int
	Height  int
	Address AddressMode
}

func NewTexture(pixels []uint8, width, height int, address AddressMode) *Texture {
	return &Texture{Pixels: pixels, Width: width, Height: height, Address: address}
}

// NewTextureFromImage converts any image into an RGBA8 texture.
func NewTextureFromImage(img image.Image, address AddressMode) *Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return NewTexture(rgba.Pix, bounds.Dx(), bounds.Dy(), address)
}

func (t *Texture) texel(x, y int) mgl32.Vec4 {
	switch t.Address {
	case AddressRepeat:
		x = ((x % t.Width) + t.Width) % t.Width
		y = ((y % t.Height) + t.Height) % t.Height
	default:
		x = min(max(x, 0), t.Width-1)
		y = min(max(y, 0), t.Height-1)
	}
	i := (y*t.Width + x) * 4
	return mgl32.Vec4{
		float32(t.Pixels[i]) / 255.0,
		float32(t.Pixels[i+1]) / 255.0,
		float32(t.Pixels[i+2]) / 255.0,
		float32(t.Pixels[i+3]) / 255.0,
	}
}

// Sample fetches the texture at normalized coordinates with bilinear
// filtering, matching textureSample with a linear-filter sampler.
func (t *Texture) Sample(u, v float32) mgl32.Vec4 {
	x := u*float32(t.Width) - 0.5
	y := v*float32(t.Height) - 0.5
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	fx := x - x0
	fy := y - y0
	ix := int(x0)
	iy := int(y0)

	c00 := t.texel(ix, iy)
	c10 := t.texel(ix+1, iy)
	c01 := t.texel(ix, iy+1)
	c11 := t.texel(ix+1, iy+1)

	top := c00.Mul(1 - fx).Add(c10.Mul(fx))
	bot := c01.Mul(1 - fx).Add(c11.Mul(fx))
	return top.Mul(1 - fy).Add(bot.Mul(fy))
}

// SampleLevel is the base-mip equivalent of textureSampleLevel. The CPU
// evaluator keeps no mip chain, so it resolves to a plain sample.
func (t *Texture) SampleLevel(u, v float32) mgl32.Vec4 {
	return t.Sample(u, v)
}
