package app

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/chewxy/math32"
)

const (
	noiseSize    = 256
	noiseOctaves = 3
)

// GenerateNoise builds a tileable value-noise image. The red channel
// drives both the wind sampling and the ground tint, so only grayscale
// is written.
func GenerateNoise(rng *rand.Rand) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, noiseSize, noiseSize))

	lattice := 8
	amplitude := float32(0.5)
	values := make([]float32, noiseSize*noiseSize)
	for oct := 0; oct < noiseOctaves; oct++ {
		grid := make([]float32, lattice*lattice)
		for i := range grid {
			grid[i] = rng.Float32()
		}
		for y := 0; y < noiseSize; y++ {
			for x := 0; x < noiseSize; x++ {
				u := float32(x) / noiseSize * float32(lattice)
				v := float32(y) / noiseSize * float32(lattice)
				values[y*noiseSize+x] += amplitude * latticeSample(grid, lattice, u, v)
			}
		}
		lattice *= 2
		amplitude *= 0.5
	}

	for y := 0; y < noiseSize; y++ {
		for x := 0; x < noiseSize; x++ {
			val := math32.Clamp(values[y*noiseSize+x], 0, 1)
			c := uint8(val * 255)
			img.SetRGBA(x, y, color.RGBA{R: c, G: c, B: c, A: 255})
		}
	}
	return img
}

// latticeSample bilinearly interpolates the wrapping lattice with a
// smoothstep fade so octave seams don't show.
func latticeSample(grid []float32, size int, u, v float32) float32 {
	x0 := int(u) % size
	y0 := int(v) % size
	x1 := (x0 + 1) % size
	y1 := (y0 + 1) % size
	fu := fade(u - math32.Trunc(u))
	fv := fade(v - math32.Trunc(v))

	top := mix(grid[y0*size+x0], grid[y0*size+x1], fu)
	bottom := mix(grid[y1*size+x0], grid[y1*size+x1], fu)
	return mix(top, bottom, fv)
}

func fade(t float32) float32 {
	return t * t * (3 - 2*t)
}

func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}
