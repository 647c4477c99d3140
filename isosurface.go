// Package isosurface defines the implicit scalar fields that the render
// package polygonizes with marching cubes.
package isosurface

import "gonum.org/v1/gonum/spatial/r3"

// Implicit3 is the interface to a 3D implicit scalar field. The isosurface
// of interest is the set of points where Evaluate equals an iso-level,
// commonly zero.
type Implicit3 interface {
	// Evaluate returns the field value at p. Implementations must be pure:
	// the same p always yields the same value, and Evaluate must be safe
	// for concurrent use.
	Evaluate(p r3.Vec) float64
}

// Func3 adapts an ordinary function to the Implicit3 interface.
type Func3 func(x, y, z float64) float64

// Evaluate calls f(p.X, p.Y, p.Z).
func (f Func3) Evaluate(p r3.Vec) float64 {
	return f(p.X, p.Y, p.Z)
}
