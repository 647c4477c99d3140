package must3

import (
	"testing"

	"github.com/soypat/isosurface"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSurfaces(t *testing.T) {
	for _, test := range []struct {
		name string
		s    isosurface.Implicit3
		p    r3.Vec
		want float64
	}{
		{name: "goursat", s: Goursat(), p: r3.Vec{Z: 1}, want: 0.5},
		{name: "heart", s: TaubinHeart(), p: r3.Vec{Y: 1}, want: 0},
		{name: "sphere", s: Sphere(r3.Vec{X: 1}, 2), p: r3.Vec{X: 3}, want: 0},
		{name: "sphereInside", s: Sphere(r3.Vec{X: 1}, 2), p: r3.Vec{X: 1}, want: -4},
	} {
		if got := test.s.Evaluate(test.p); got != test.want {
			t.Errorf("%s(%v): got %g, want %g", test.name, test.p, got, test.want)
		}
	}
}

func TestSpherePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero radius")
		}
	}()
	Sphere(r3.Vec{}, 0)
}
