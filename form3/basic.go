// Package form3 provides the reference isosurfaces: Goursat's surface, the
// Taubin heart and a sphere. Shape constructors return an error instead of
// panicking on bad arguments.
package form3

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Goursat returns Goursat's surface x⁴+y⁴+z⁴ - (x²+y²+z²)² + 0.5.
func Goursat() isosurface.Implicit3 {
	return must3.Goursat()
}

// TaubinHeart returns the Taubin heart surface standing upright along y.
func TaubinHeart() isosurface.Implicit3 {
	return must3.TaubinHeart()
}

// Sphere returns the implicit |p-center|² - radius².
func Sphere(center r3.Vec, radius float64) (s isosurface.Implicit3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Sphere(center, radius), err
}

// Named resolves one of the reference surface names: "goursat", "heart"
// (or "taubin") and "sphere" (radius 0.5 at the origin).
func Named(name string) (isosurface.Implicit3, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "goursat":
		return Goursat(), nil
	case "heart", "taubin":
		return TaubinHeart(), nil
	case "sphere":
		return Sphere(r3.Vec{}, 0.5)
	}
	return nil, ErrMsg(fmt.Sprintf("unknown surface %q", name))
}
