package scene

import (
	"image"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// heightmapGrid is the resolution the noise image is resampled to before
// CPU sampling. Placement only needs coarse hills, not the full texture.
const heightmapGrid = 256

// Heightmap is the CPU view of the noise texture, used to push grass onto
// local maxima so blades cluster on ridges.
type Heightmap struct {
	values []float32
	width  int
	height int
	scale  float32
}

// NewHeightmap resamples the red channel of img into a fixed grid. The
// scale maps world units onto the [0,1] texture span, matching the ground
// sampler's 0.1 coordinate scale.
func NewHeightmap(img image.Image, scale float32) *Heightmap {
	resized := image.NewRGBA(image.Rect(0, 0, heightmapGrid, heightmapGrid))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Src, nil)

	values := make([]float32, heightmapGrid*heightmapGrid)
	for i := range values {
		values[i] = float32(resized.Pix[i*4]) / 255.0
	}
	return &Heightmap{
		values: values,
		width:  heightmapGrid,
		height: heightmapGrid,
		scale:  scale,
	}
}

// NewHeightmapFromValues wraps raw values directly; tests use this.
func NewHeightmapFromValues(values []float32, width, height int, scale float32) *Heightmap {
	return &Heightmap{values: values, width: width, height: height, scale: scale}
}

func (h *Heightmap) at(x, y int) float32 {
	x = wrapInt(x, 0, h.width-1)
	y = wrapInt(y, 0, h.height-1)
	return h.values[y*h.width+x]
}

// Sample reads the heightmap at world coordinates with a 3x3 kernel whose
// weights fall off with distance to the sample point and are normalized
// against the weighted values themselves. Flat zero regions sample to 0.
func (h *Heightmap) Sample(u, v float32) float32 {
	u = wrapFloat(u*h.scale, 0.0, 1.0) * float32(h.width)
	v = wrapFloat(v*h.scale, 0.0, 1.0) * float32(h.height)
	x := int(u)
	y := int(v)
	fu := u - math32.Trunc(u)
	fv := v - math32.Trunc(v)

	var weighted [9]float32
	var vals [9]float32
	var sum float32
	n := 0
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			val := h.at(x+j, y+i)
			dist := mgl32.Vec2{float32(j) * 0.5, float32(i) * 0.5}.
				Sub(mgl32.Vec2{fu, fv}).Len()
			w := (1.0 - math32.Min(dist, 1.0)) * val
			weighted[n] = w
			vals[n] = val
			sum += w
			n++
		}
	}
	if sum == 0 {
		return 0
	}

	var out float32
	for i := 0; i < 9; i++ {
		out += (weighted[i] / sum) * vals[i]
	}
	return out
}

// Climb walks a position uphill on the heightmap for a fixed number of
// iterations and jitters the result so blades don't stack on one texel.
func (h *Heightmap) Climb(pos mgl32.Vec3, iterations int, rng *rand.Rand) mgl32.Vec3 {
	for it := 0; it <= iterations; it++ {
		highest := h.Sample(pos.X(), pos.Z())
		for i := -1; i < 1; i++ {
			for j := -1; j < 1; j++ {
				candidate := pos.Add(mgl32.Vec3{float32(j) * 0.01, 0, float32(i) * 0.01})
				val := h.Sample(candidate.X(), candidate.Z())
				if val > highest {
					highest = val
					pos = candidate
				}
			}
		}
	}
	return pos.Add(mgl32.Vec3{
		rng.Float32()*0.1 - 0.05,
		0,
		rng.Float32()*0.1 - 0.05,
	})
}

func wrapFloat(val, lo, hi float32) float32 {
	if val < lo {
		return hi + math32.Mod(val-lo, hi-lo)
	}
	if val > hi {
		return lo + math32.Mod(val-hi, hi-lo)
	}
	return val
}

func wrapInt(val, lo, hi int) int {
	if val < lo {
		return hi + (val-lo)%(hi-lo)
	}
	if val > hi {
		return lo + (val-hi)%(hi-lo)
	}
	return val
}
