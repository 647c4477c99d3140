package isosurface

import "gonum.org/v1/gonum/spatial/r3"

// Gradient3 approximates the gradient of s at p with central differences
// of half-width step along each axis. The result is not normalized.
func Gradient3(s Implicit3, p r3.Vec, step float64) r3.Vec {
	return r3.Vec{
		X: 0.5 * (s.Evaluate(r3.Add(p, r3.Vec{X: step})) - s.Evaluate(r3.Add(p, r3.Vec{X: -step}))),
		Y: 0.5 * (s.Evaluate(r3.Add(p, r3.Vec{Y: step})) - s.Evaluate(r3.Add(p, r3.Vec{Y: -step}))),
		Z: 0.5 * (s.Evaluate(r3.Add(p, r3.Vec{Z: step})) - s.Evaluate(r3.Add(p, r3.Vec{Z: -step}))),
	}
}

// Normal3 returns the normal of an implicit field at a point (doesn't need to be on the surface).
// Computed by sampling it several times inside a box of side 2*eps centered on p.
// The zero vector is returned where the gradient vanishes.
func Normal3(s Implicit3, p r3.Vec, eps float64) r3.Vec {
	g := Gradient3(s, p, eps)
	length := r3.Norm(g)
	if length == 0 {
		return g
	}
	return r3.Vec{X: g.X / length, Y: g.Y / length, Z: g.Z / length}
}
