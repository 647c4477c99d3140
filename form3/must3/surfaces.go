// Package must3 provides the reference implicit surfaces. Constructors
// panic on invalid arguments; package form3 wraps them with error returns.
package must3

import (
	"github.com/soypat/isosurface"
	"gonum.org/v1/gonum/spatial/r3"
)

// goursat is Goursat's surface in its general quartic form
//
//	x⁴+y⁴+z⁴ + a(x²+y²+z²)² + b(x²+y²+z²) + c
type goursat struct {
	a, b, c float64
}

// Goursat returns Goursat's surface with the coefficients a=-1, b=0, c=0.5,
// which gives x⁴+y⁴+z⁴ - d² + 0.5 where d = x²+y²+z².
func Goursat() isosurface.Implicit3 {
	return goursat{a: -1, b: 0, c: 0.5}
}

// Evaluate returns the Goursat quartic at p.
func (s goursat) Evaluate(p r3.Vec) float64 {
	x2 := p.X * p.X
	y2 := p.Y * p.Y
	z2 := p.Z * p.Z
	d := x2 + y2 + z2
	return x2*x2 + y2*y2 + z2*z2 + s.a*d*d + s.b*d + s.c
}

// heart is the Taubin heart surface with the y and z axes swapped so the
// heart stands upright along y.
type heart struct{}

// TaubinHeart returns the Taubin heart surface
//
//	a³ - x²y³ - (9/80)z²y³,  a = x² + (9/4)z² + y² - 1
func TaubinHeart() isosurface.Implicit3 { return heart{} }

// Evaluate returns the Taubin heart sextic at p.
func (heart) Evaluate(p r3.Vec) float64 {
	x2 := p.X * p.X
	y2 := p.Y * p.Y
	z2 := p.Z * p.Z
	y3 := y2 * p.Y
	a := x2 + (9.0/4.0)*z2 + y2 - 1
	return a*a*a - x2*y3 - (9.0/80.0)*z2*y3
}

// sphere is the squared-distance implicit |p-c|² - r².
type sphere struct {
	center r3.Vec
	radius float64
}

// Sphere returns a sphere implicit centered at center.
func Sphere(center r3.Vec, radius float64) isosurface.Implicit3 {
	if radius <= 0 {
		panic("radius <= 0")
	}
	return sphere{center: center, radius: radius}
}

// Evaluate returns the squared distance to the center minus the squared radius.
func (s sphere) Evaluate(p r3.Vec) float64 {
	d := r3.Sub(p, s.center)
	return r3.Dot(d, d) - s.radius*s.radius
}
