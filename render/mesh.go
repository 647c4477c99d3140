package render

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isosurface"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultAlpha is the vertex color alpha used when Options.Alpha is zero or
// negative. Options.Alpha cannot request a fully transparent mesh; use
// Mesh.Paint with a zero alpha for that.
const DefaultAlpha = 0.2

// normalStep is the half-width of the central difference used for vertex
// normals. It is one world unit regardless of lattice resolution.
const normalStep = 1

// Mesh is a triangle soup in the flat buffer layout graphics APIs upload
// directly. Every three consecutive vertices form a triangle.
type Mesh struct {
	Positions []float32 `json:"positions"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32 `json:"normals"`   // [nx0,ny0,nz0, ...]
	Colors    []float32 `json:"colors"`    // [r0,g0,b0,a0, ...]
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return m.VertexCount() / 3 }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Positions) == 0 }

// Vertex returns the position of the ith vertex.
func (m *Mesh) Vertex(i int) ms3.Vec {
	return ms3.Vec{X: m.Positions[3*i], Y: m.Positions[3*i+1], Z: m.Positions[3*i+2]}
}

// Normal returns the normal of the ith vertex.
func (m *Mesh) Normal(i int) ms3.Vec {
	return ms3.Vec{X: m.Normals[3*i], Y: m.Normals[3*i+1], Z: m.Normals[3*i+2]}
}

// Color returns the RGBA color of the ith vertex.
func (m *Mesh) Color(i int) [4]float32 {
	return [4]float32{m.Colors[4*i], m.Colors[4*i+1], m.Colors[4*i+2], m.Colors[4*i+3]}
}

// Triangle returns the ith triangle in emission order.
func (m *Mesh) Triangle(i int) ms3.Triangle {
	return ms3.Triangle{m.Vertex(3 * i), m.Vertex(3*i + 1), m.Vertex(3*i + 2)}
}

// Triangles returns all triangles of the mesh.
func (m *Mesh) Triangles() []ms3.Triangle {
	out := make([]ms3.Triangle, m.TriangleCount())
	for i := range out {
		out[i] = m.Triangle(i)
	}
	return out
}

// Bounds returns the axis aligned box containing every vertex. The zero Box
// is returned for an empty mesh.
func (m *Mesh) Bounds() ms3.Box {
	if m.IsEmpty() {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: m.Vertex(0), Max: m.Vertex(0)}
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		bb.Min = ms3.Vec{X: math32.Min(bb.Min.X, v.X), Y: math32.Min(bb.Min.Y, v.Y), Z: math32.Min(bb.Min.Z, v.Z)}
		bb.Max = ms3.Vec{X: math32.Max(bb.Max.X, v.X), Y: math32.Max(bb.Max.Y, v.Y), Z: math32.Max(bb.Max.Z, v.Z)}
	}
	return bb
}

// Append adds the vertices of other to the end of m.
func (m *Mesh) Append(other *Mesh) {
	m.Positions = append(m.Positions, other.Positions...)
	m.Normals = append(m.Normals, other.Normals...)
	m.Colors = append(m.Colors, other.Colors...)
}

// Paint overrides the color of every vertex. The light indicator sphere is
// painted (200, 200, 200, 1) so it renders saturated white.
func (m *Mesh) Paint(r, g, b, a float32) {
	for i := 0; i+3 < len(m.Colors); i += 4 {
		m.Colors[i] = r
		m.Colors[i+1] = g
		m.Colors[i+2] = b
		m.Colors[i+3] = a
	}
}

// Validate checks that the buffers describe whole triangles of equal vertex
// count and contain no NaN or infinite values.
func (m *Mesh) Validate() error {
	nv := m.VertexCount()
	switch {
	case len(m.Positions)%9 != 0:
		return fmt.Errorf("position buffer length %d is not a whole number of triangles", len(m.Positions))
	case len(m.Normals) != 3*nv:
		return fmt.Errorf("normal buffer has %d values, want %d", len(m.Normals), 3*nv)
	case len(m.Colors) != 4*nv:
		return fmt.Errorf("color buffer has %d values, want %d", len(m.Colors), 4*nv)
	}
	if badF32(m.Positions) {
		return errors.New("inf/NaN vertex position")
	}
	if badF32(m.Normals) {
		return errors.New("inf/NaN vertex normal")
	}
	if badF32(m.Colors) {
		return errors.New("inf/NaN vertex color")
	}
	return nil
}

func badF32(buf []float32) bool {
	for _, f := range buf {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return true
		}
	}
	return false
}

// MeshBuilder accumulates triangles with per vertex normals and colors
// derived from an implicit function.
type MeshBuilder struct {
	s          isosurface.Implicit3
	resolution float64
	invert     bool
	alpha      float32
	mesh       Mesh
}

// NewMeshBuilder returns a builder that computes normals of s with the
// central difference scaled by resolution. opts.InvertNormals and opts.Alpha
// are honored, with opts.Alpha <= 0 selecting DefaultAlpha. The remaining
// options are ignored.
func NewMeshBuilder(s isosurface.Implicit3, resolution float64, opts Options) *MeshBuilder {
	if s == nil {
		panic("nil implicit function")
	}
	alpha := opts.Alpha
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	return &MeshBuilder{
		s:          s,
		resolution: resolution,
		invert:     opts.InvertNormals,
		alpha:      alpha,
	}
}

// AddTriangle appends the triangle p1,p2,p3. Vertices are stored in the
// order p3,p2,p1 so the front face points along the field gradient, or
// p1,p2,p3 when normals are inverted.
func (mb *MeshBuilder) AddTriangle(p1, p2, p3 r3.Vec) {
	if mb.invert {
		mb.addVertex(p1)
		mb.addVertex(p2)
		mb.addVertex(p3)
		return
	}
	mb.addVertex(p3)
	mb.addVertex(p2)
	mb.addVertex(p1)
}

func (mb *MeshBuilder) addVertex(p r3.Vec) {
	n := VertexNormal(mb.s, p, mb.resolution)
	sign := 1.0
	if mb.invert {
		sign = -1
	}
	m := &mb.mesh
	m.Positions = append(m.Positions, float32(p.X), float32(p.Y), float32(p.Z))
	m.Normals = append(m.Normals, float32(sign*n.X), float32(sign*n.Y), float32(sign*n.Z))
	// Color follows the outward normal even when normals are inverted.
	m.Colors = append(m.Colors, float32(1-n.X), float32(1-n.Y), float32(1-n.Z), mb.alpha)
}

// Mesh returns the mesh built so far. The builder must not be used afterwards.
func (mb *MeshBuilder) Mesh() *Mesh {
	m := mb.mesh
	mb.mesh = Mesh{}
	return &m
}

// VertexNormal returns the unit gradient of s at p approximated by
//
//	0.5*(s(p+e_i) - s(p-e_i)) / resolution
//
// with unit offsets e_i. The resolution factor cancels out once the
// gradient is normalized. Where the gradient vanishes the zero vector is
// returned unnormalized.
func VertexNormal(s isosurface.Implicit3, p r3.Vec, resolution float64) r3.Vec {
	if resolution <= 0 {
		panic("resolution must be positive")
	}
	return isosurface.Normal3(s, p, normalStep)
}
