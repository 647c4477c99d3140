package render

import (
	"math"

	"github.com/soypat/isosurface/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = kdVertices{}
	_ kdtree.Bounder    = kdVertices{}
	_ kdtree.Comparable = kdVertex{}
)

// IndexedMesh is a mesh whose coincident vertices have been merged so that
// triangles share vertices through Indices.
type IndexedMesh struct {
	Positions []float32
	Normals   []float32
	Colors    []float32
	Indices   []uint32
}

// Weld merges the vertices of m that lie within tol of each other. The
// attributes of the lowest numbered vertex of each cluster are kept.
// Triangles that collapse to fewer than three distinct vertices are kept in
// Indices; IsClosed ignores them.
func Weld(m *Mesh, tol float64) *IndexedMesh {
	nv := m.VertexCount()
	out := &IndexedMesh{Indices: make([]uint32, nv)}
	if nv == 0 {
		return out
	}
	verts := make(kdVertices, nv)
	for i := range verts {
		v := m.Vertex(i)
		verts[i] = kdVertex{
			pos: r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)},
			idx: i,
		}
	}
	// Tree construction reorders its input.
	tree := kdtree.New(append(kdVertices(nil), verts...), true)
	remap := make([]int, nv)
	for i := range remap {
		remap[i] = -1
	}
	for i, v := range verts {
		if remap[i] >= 0 {
			continue
		}
		next := out.vertexCount()
		keep := kdtree.NewDistKeeper(tol * tol)
		tree.NearestSet(keep, v)
		for _, cd := range keep.Heap {
			if cd.Comparable == nil {
				continue // DistKeeper sentinel.
			}
			j := cd.Comparable.(kdVertex).idx
			if remap[j] < 0 {
				remap[j] = next
			}
		}
		remap[i] = next
		out.Positions = append(out.Positions, m.Positions[3*i:3*i+3]...)
		out.Normals = append(out.Normals, m.Normals[3*i:3*i+3]...)
		out.Colors = append(out.Colors, m.Colors[4*i:4*i+4]...)
	}
	for i, r := range remap {
		out.Indices[i] = uint32(r)
	}
	return out
}

func (im *IndexedMesh) vertexCount() int { return len(im.Positions) / 3 }

// VertexCount returns the number of distinct vertices.
func (im *IndexedMesh) VertexCount() int { return im.vertexCount() }

// TriangleCount returns the number of triangles, degenerate ones included.
func (im *IndexedMesh) TriangleCount() int { return len(im.Indices) / 3 }

// OpenEdges returns the number of undirected edges not shared by exactly two
// non degenerate triangles.
func (im *IndexedMesh) OpenEdges() int {
	type edge struct{ a, b uint32 }
	counts := make(map[edge]int, len(im.Indices))
	for t := 0; t+2 < len(im.Indices); t += 3 {
		tri := im.Indices[t : t+3]
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			continue
		}
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			if a > b {
				a, b = b, a
			}
			counts[edge{a, b}]++
		}
	}
	open := 0
	for _, c := range counts {
		if c != 2 {
			open++
		}
	}
	return open
}

// IsClosed reports whether every edge of the mesh is shared by exactly two
// triangles, that is, the mesh is watertight.
func (im *IndexedMesh) IsClosed() bool {
	return im.TriangleCount() > 0 && im.OpenEdges() == 0
}

type kdVertices []kdVertex

type kdVertex struct {
	pos r3.Vec
	idx int
}

func (k kdVertices) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdVertices) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdVertices) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), vertices: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdVertices) Slice(start, end int) kdtree.Interface { return k[start:end] }

func (k kdVertices) Bounds() *kdtree.Bounding {
	min := r3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	max := r3.Vec{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}
	for _, v := range k {
		min = d3.MinElem(min, v.pos)
		max = d3.MaxElem(max, v.pos)
	}
	return &kdtree.Bounding{
		Min: kdVertex{pos: min},
		Max: kdVertex{pos: max},
	}
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdVertex) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdVertex), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdVertex) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdVertex) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.pos, b.(kdVertex).pos))
}

// c = a.dim - b.dim
func kdComp(a, b kdVertex, dim int) (c float64) {
	switch dim {
	case 0:
		c = a.pos.X - b.pos.X
	case 1:
		c = a.pos.Y - b.pos.Y
	case 2:
		c = a.pos.Z - b.pos.Z
	}
	return c
}

type kdPlane struct {
	dim      int
	vertices kdVertices
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.vertices[i], p.vertices[j], p.dim) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
}
func (p kdPlane) Len() int {
	return len(p.vertices)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.vertices = p.vertices[start:end]
	return p
}
