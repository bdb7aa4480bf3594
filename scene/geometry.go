package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/meadow3d/meadow/core"
)

// Mesh is CPU-side indexed geometry ready for upload.
type Mesh struct {
	Vertices []core.Vertex
	Indices  []uint32
}

// Append merges another mesh, offsetting its indices.
func (m *Mesh) Append(other Mesh) {
	offset := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+offset)
	}
}

// Quad is a unit quad centered at the origin in the XY plane, facing +Z.
// The floor instances rotate it flat.
func Quad(age float32) Mesh {
	normal := mgl32.Vec3{0, 0, 1}
	return Mesh{
		Vertices: []core.Vertex{
			{Position: mgl32.Vec3{-0.5, -0.5, 0}, Normal: normal, Age: age},
			{Position: mgl32.Vec3{0.5, -0.5, 0}, Normal: normal, Age: age},
			{Position: mgl32.Vec3{0.5, 0.5, 0}, Normal: normal, Age: age},
			{Position: mgl32.Vec3{-0.5, 0.5, 0}, Normal: normal, Age: age},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// BladeQuad is a quad rooted at y=0 reaching to y=1, so instance scale.y
// is the blade height and the height-based wind falloff anchors the root.
func BladeQuad(age float32) Mesh {
	normal := mgl32.Vec3{0, 0, 1}
	return Mesh{
		Vertices: []core.Vertex{
			{Position: mgl32.Vec3{-0.5, 0, 0}, Normal: normal, Age: age},
			{Position: mgl32.Vec3{0.5, 0, 0}, Normal: normal, Age: age},
			{Position: mgl32.Vec3{0.5, 1, 0}, Normal: normal, Age: age},
			{Position: mgl32.Vec3{-0.5, 1, 0}, Normal: normal, Age: age},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Cylinder is an open tube from y=-0.5 to y=0.5 with radial normals.
// Bottom-ring vertices take ageBottom, top-ring ageTop; branch segments
// use this to blend the LUT along their length. Every vertex is
// transformed by mat.
func Cylinder(resolution int, ageBottom, ageTop float32, mat mgl32.Mat4) Mesh {
	var mesh Mesh
	res := uint32(resolution)

	for i := 0; i < resolution; i++ {
		ratio := float32(i) / float32(resolution)
		r := ratio * 2.0 * math32.Pi
		x := math32.Cos(r)
		z := math32.Sin(r)

		mesh.Vertices = append(mesh.Vertices, core.Vertex{
			Position: mat.Mul4x1(mgl32.Vec4{x, -0.5, z, 1}).Vec3(),
			Normal:   mat.Mul4x1(mgl32.Vec4{x, 0, z, 0}).Vec3().Normalize(),
			Age:      ageBottom,
		})
	}
	for i := 0; i < resolution; i++ {
		ratio := float32(i) / float32(resolution)
		r := ratio * 2.0 * math32.Pi
		x := math32.Cos(r)
		z := math32.Sin(r)

		mesh.Vertices = append(mesh.Vertices, core.Vertex{
			Position: mat.Mul4x1(mgl32.Vec4{x, 0.5, z, 1}).Vec3(),
			Normal:   mat.Mul4x1(mgl32.Vec4{x, 0, z, 0}).Vec3().Normalize(),
			Age:      ageTop,
		})
	}

	for i := uint32(0); i < res; i++ {
		bottom := i
		top := res + i
		nextBottom := (i + 1) % res
		nextTop := res + (i+1)%res
		mesh.Indices = append(mesh.Indices,
			bottom, top, nextBottom,
			top, nextTop, nextBottom,
		)
	}
	return mesh
}

// icosahedron basis, the classic golden-ratio construction.
const (
	icoX float32 = 0.5257311
	icoZ float32 = 0.8506508
)

var icoVertices = [12]mgl32.Vec3{
	{-icoX, 0, icoZ}, {icoX, 0, icoZ}, {-icoX, 0, -icoZ}, {icoX, 0, -icoZ},
	{0, icoZ, icoX}, {0, icoZ, -icoX}, {0, -icoZ, icoX}, {0, -icoZ, -icoX},
	{icoZ, icoX, 0}, {-icoZ, icoX, 0}, {icoZ, -icoX, 0}, {-icoZ, -icoX, 0},
}

var icoTriangles = [20][3]uint32{
	{0, 4, 1}, {0, 9, 4}, {9, 5, 4}, {4, 5, 8}, {4, 8, 1},
	{8, 10, 1}, {8, 3, 10}, {5, 3, 8}, {5, 2, 3}, {2, 7, 3},
	{7, 10, 3}, {7, 6, 10}, {7, 11, 6}, {11, 0, 6}, {0, 1, 6},
	{6, 1, 10}, {9, 0, 11}, {9, 11, 2}, {9, 2, 5}, {7, 2, 11},
}

// Icosphere is a single-subdivision icosahedron used for leaf/fruit blobs.
func Icosphere(age float32, mat mgl32.Mat4) Mesh {
	var mesh Mesh
	for _, v := range icoVertices {
		mesh.Vertices = append(mesh.Vertices, core.Vertex{
			Position: mat.Mul4x1(v.Vec4(1)).Vec3(),
			Normal:   mat.Mul4x1(v.Vec4(0)).Vec3().Normalize(),
			Age:      age,
		})
	}
	for _, tri := range icoTriangles {
		mesh.Indices = append(mesh.Indices, tri[0], tri[1], tri[2])
	}
	return mesh
}
