/*

Integer 3D lattice indices

*/

package isosurface

import "gonum.org/v1/gonum/spatial/r3"

// V3i is a 3D integer vector. It indexes nodes of a sampling lattice.
type V3i [3]int

// Add adds two vectors. Return v = a + b.
func (a V3i) Add(b V3i) V3i {
	return V3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// ToV3 converts V3i (integer) to r3.Vec (float).
func (a V3i) ToV3() r3.Vec {
	return r3.Vec{X: float64(a[0]), Y: float64(a[1]), Z: float64(a[2])}
}

// InCube reports whether every component lies in [0, n).
func (a V3i) InCube(n int) bool {
	return a[0] >= 0 && a[0] < n &&
		a[1] >= 0 && a[1] < n &&
		a[2] >= 0 && a[2] < n
}
