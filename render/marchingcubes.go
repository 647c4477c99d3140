package render

import (
	"fmt"
	"math"

	"github.com/soypat/isosurface"
	"gonum.org/v1/gonum/spatial/r3"
)

// marchingCubesMaxTriangles is the most triangles a single cube cell can yield.
const marchingCubesMaxTriangles = 5

// interpEpsilon is the tolerance below which an edge endpoint is considered
// to lie on the isosurface, or an edge is considered flat.
const interpEpsilon = 1e-5

// Cube corner lattice offsets. Corners 3,2,6,7 sit on the k face and
// 0,1,5,4 on the k+1 face:
//
//	   4---------5
//	  /|        /|
//	 / |       / |
//	7---------6  |
//	|  |      |  |
//	|  0------|--1
//	| /       | /
//	|/        |/
//	3---------2
var mcCornerOffsets = [8]isosurface.V3i{
	0: {0, 0, 1},
	1: {1, 0, 1},
	2: {1, 0, 0},
	3: {0, 0, 0},
	4: {0, 1, 1},
	5: {1, 1, 1},
	6: {1, 1, 0},
	7: {0, 1, 0},
}

// mcEdgeCorners lists the two corners joined by each of the 12 cube edges.
// Bit e of an mcEdgeTable entry refers to edge e.
var mcEdgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Options configures the extraction pass.
type Options struct {
	// IsoLevel is the field value of the extracted surface.
	IsoLevel float64 `yaml:"iso_level" json:"isoLevel"`
	// InvertNormals flips triangle winding and normals so the front face
	// points into the surface.
	InvertNormals bool `yaml:"invert_normals" json:"invertNormals"`
	// Alpha is the vertex color alpha in (0, 1]. Zero and negative values
	// select DefaultAlpha, so an alpha of exactly 0 is only reachable
	// through Mesh.Paint.
	Alpha float32 `yaml:"alpha" json:"alpha"`
	// Workers is the number of goroutines used. Values <= 1 run single threaded.
	Workers int `yaml:"workers" json:"workers"`
}

// Polygonize samples s over dom and extracts the isosurface at opts.IsoLevel.
func Polygonize(s isosurface.Implicit3, dom Domain, opts Options) (*Mesh, error) {
	field, err := Sample(s, dom, opts.Workers)
	if err != nil {
		return nil, err
	}
	return Extract(field, s, opts), nil
}

// Extract walks every cube cell of field and returns the triangle soup
// approximating the isosurface at opts.IsoLevel. s is used to compute vertex
// normals and should be the function the field was sampled from.
//
// With opts.Workers > 1 cells are processed concurrently in slabs along k.
// Slab results are joined in lattice order so the output does not depend on
// the number of workers.
func Extract(field *Field, s isosurface.Implicit3, opts Options) *Mesh {
	if field == nil || s == nil {
		panic("nil field or implicit function")
	}
	cells := field.Cells()
	parts := make([]*Mesh, slabCount(cells, opts.Workers))
	_ = forEachSlab(cells, opts.Workers, func(slab, k0, k1 int) error {
		mb := NewMeshBuilder(s, field.dom.Resolution, opts)
		for k := k0; k < k1; k++ {
			for j := 0; j < cells; j++ {
				for i := 0; i < cells; i++ {
					mb.marchCell(field, isosurface.V3i{i, j, k}, opts.IsoLevel)
				}
			}
		}
		parts[slab] = mb.Mesh()
		return nil
	})
	if len(parts) == 1 {
		return parts[0]
	}
	var m Mesh
	for _, part := range parts {
		m.Append(part)
	}
	return &m
}

// marchCell fetches the eight corners of the cell at lattice index cell and
// polygonizes it. It returns the number of triangles emitted.
func (mb *MeshBuilder) marchCell(f *Field, cell isosurface.V3i, iso float64) int {
	var corners [8]ScalarPoint
	for c, off := range mcCornerOffsets {
		idx := cell.Add(off)
		sp, ok := f.At(idx)
		if !ok {
			panic(fmt.Sprintf("bug: lattice node %v of cell %v missing from sampled field", idx, cell))
		}
		corners[c] = sp
	}
	return mb.polygonize(&corners, iso)
}

// cubeIndex sets bit i when corner i lies below the iso-level.
func cubeIndex(corners *[8]ScalarPoint, iso float64) uint8 {
	var index uint8
	for i := range corners {
		if corners[i].Value < iso {
			index |= 1 << i
		}
	}
	return index
}

// polygonize emits the triangles of a single cube cell.
func (mb *MeshBuilder) polygonize(corners *[8]ScalarPoint, iso float64) (triangles int) {
	index := cubeIndex(corners, iso)
	edges := mcEdgeTable[index]
	if edges == 0 {
		return 0 // Surface does not cross this cell.
	}
	var verts [12]r3.Vec
	for e, ends := range mcEdgeCorners {
		if edges&(1<<e) != 0 {
			verts[e] = interpolateEdge(iso, corners[ends[0]], corners[ends[1]])
		}
	}
	table := &mcTriangleTable[index]
	for t := 0; table[t] != -1; t += 3 {
		mb.AddTriangle(verts[table[t]], verts[table[t+1]], verts[table[t+2]])
		triangles++
	}
	return triangles
}

// interpolateEdge returns the point where the isosurface crosses the edge a-b.
// Endpoints within interpEpsilon of the iso-level are returned as is, which
// also avoids dividing by a vanishing difference on flat edges.
func interpolateEdge(iso float64, a, b ScalarPoint) r3.Vec {
	switch {
	case math.Abs(iso-a.Value) < interpEpsilon:
		return a.Pos
	case math.Abs(iso-b.Value) < interpEpsilon:
		return b.Pos
	case math.Abs(a.Value-b.Value) < interpEpsilon:
		return a.Pos
	}
	t := (iso - a.Value) / (b.Value - a.Value)
	return r3.Vec{
		X: a.Pos.X + t*(b.Pos.X-a.Pos.X),
		Y: a.Pos.Y + t*(b.Pos.Y-a.Pos.Y),
		Z: a.Pos.Z + t*(b.Pos.Z-a.Pos.Z),
	}
}
