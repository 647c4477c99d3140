package isosurface

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestFunc3(t *testing.T) {
	f := Func3(func(x, y, z float64) float64 { return x + 2*y + 3*z })
	got := f.Evaluate(r3.Vec{X: 1, Y: 1, Z: 1})
	if got != 6 {
		t.Errorf("got %g, want 6", got)
	}
}

func TestGradient3(t *testing.T) {
	plane := Func3(func(x, y, z float64) float64 { return 2*x - y + 4*z })
	g := Gradient3(plane, r3.Vec{X: 0.3, Y: -2, Z: 7}, 1)
	want := r3.Vec{X: 2, Y: -1, Z: 4}
	if r3.Norm(r3.Sub(g, want)) > 1e-12 {
		t.Errorf("got gradient %v, want %v", g, want)
	}
	n := Normal3(plane, r3.Vec{}, 1)
	if math.Abs(r3.Norm(n)-1) > 1e-12 {
		t.Errorf("normal not unit length: %v", n)
	}
}

func TestNormal3ZeroGradient(t *testing.T) {
	flat := Func3(func(x, y, z float64) float64 { return 1 })
	n := Normal3(flat, r3.Vec{X: 1}, 1)
	if n != (r3.Vec{}) {
		t.Errorf("want zero normal for constant field, got %v", n)
	}
}

func TestV3i(t *testing.T) {
	a := V3i{1, 2, 3}
	if got := a.Add(V3i{1, 1, 1}); got != (V3i{2, 3, 4}) {
		t.Errorf("Add mismatch: %v", got)
	}
	if !a.InCube(4) || a.InCube(3) || (V3i{-1, 0, 0}).InCube(4) {
		t.Error("InCube bounds wrong")
	}
	if a.ToV3() != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Error("ToV3 mismatch")
	}
}
