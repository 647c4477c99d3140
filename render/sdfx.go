package render

import (
	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isosurface"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ sdf.SDF3 = sdfxAdapter{}

// sdfxAdapter presents an implicit function over a domain as an sdfx solid.
// Inside is where the function is negative, matching sdfx's convention.
type sdfxAdapter struct {
	s   isosurface.Implicit3
	iso float64
	bb  sdf.Box3
}

// SDFX wraps s so that its isosurface at iso can be processed by the
// github.com/deadsy/sdfx toolchain. The solid's bounding box is the domain cube.
func SDFX(s isosurface.Implicit3, dom Domain, iso float64) (sdf.SDF3, error) {
	if err := dom.Validate(); err != nil {
		return nil, err
	}
	box := dom.Box()
	return sdfxAdapter{
		s:   s,
		iso: iso,
		bb: sdf.Box3{
			Min: v3.Vec{X: box.Min.X, Y: box.Min.Y, Z: box.Min.Z},
			Max: v3.Vec{X: box.Max.X, Y: box.Max.Y, Z: box.Max.Z},
		},
	}, nil
}

func (a sdfxAdapter) Evaluate(p v3.Vec) float64 {
	return a.s.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z}) - a.iso
}

func (a sdfxAdapter) BoundingBox() sdf.Box3 { return a.bb }

// RenderSDFX tessellates the isosurface of s with sdfx's uniform marching
// cubes using cells cells along the longest axis. It is an independent
// mesher useful to cross check Extract.
func RenderSDFX(s isosurface.Implicit3, dom Domain, iso float64, cells int) ([]ms3.Triangle, error) {
	solid, err := SDFX(s, dom, iso)
	if err != nil {
		return nil, err
	}
	triangles := sdfxrender.ToTriangles(solid, sdfxrender.NewMarchingCubesUniform(cells))
	out := make([]ms3.Triangle, 0, len(triangles))
	for _, tri := range triangles {
		var t ms3.Triangle
		for j := 0; j < 3; j++ {
			v := tri[j]
			t[j] = ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
		}
		out = append(out, t)
	}
	return out, nil
}
