// Package render extracts triangle meshes from implicit scalar fields with
// the marching cubes algorithm and exports them.
//
// A pass has two phases. Sample evaluates the implicit function on every
// node of a regular lattice, then Extract walks the lattice cells and emits
// a triangle soup with per vertex normals and colors. Polygonize runs both.
package render

import (
	"io"

	"github.com/soypat/glgl/math/ms3"
)

// Renderer streams triangles. ReadTriangles returns io.EOF once every
// triangle has been read.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle) (n int, err error)
}

// Reader returns a Renderer that streams the triangles of m in emission order.
func (m *Mesh) Reader() Renderer {
	return &meshReader{m: m}
}

type meshReader struct {
	m    *Mesh
	next int // index of next triangle to read.
}

func (r *meshReader) ReadTriangles(dst []ms3.Triangle) (n int, err error) {
	if len(dst) == 0 {
		return 0, io.ErrShortBuffer
	}
	total := r.m.TriangleCount()
	for n < len(dst) && r.next < total {
		dst[n] = r.m.Triangle(r.next)
		n++
		r.next++
	}
	if r.next == total {
		return n, io.EOF
	}
	return n, nil
}
