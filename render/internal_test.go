package render

import (
	"errors"
	"sync"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/form3"
	"github.com/soypat/isosurface/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMarchingCubes(t *testing.T) {
	max := 0
	for _, tri := range mcTriangleTable {
		n := 0
		for n < len(tri) && tri[n] != -1 {
			n++
		}
		if n%3 != 0 {
			t.Errorf("triangle table row %v not a multiple of 3", tri)
		}
		if n > max {
			max = n
		}
	}
	got := max / 3
	if got != marchingCubesMaxTriangles {
		t.Errorf("mismatch marching cubes max triangles. got %d. want %d", got, marchingCubesMaxTriangles)
	}
}

func TestEdgeTable(t *testing.T) {
	if mcEdgeTable[1] != 0x109 {
		t.Errorf("edge table entry 1: got %#x, want 0x109", mcEdgeTable[1])
	}
	for index := 0; index < 256; index++ {
		// An edge is cut when its two corners are on opposite sides.
		var want uint16
		for e, ends := range mcEdgeCorners {
			in0 := index&(1<<ends[0]) != 0
			in1 := index&(1<<ends[1]) != 0
			if in0 != in1 {
				want |= 1 << e
			}
		}
		if mcEdgeTable[index] != want {
			t.Errorf("edge table entry %d: got %#x, want %#x", index, mcEdgeTable[index], want)
		}
		// Triangles only reference cut edges and use all of them.
		var used uint16
		for _, e := range mcTriangleTable[index] {
			if e == -1 {
				break
			}
			used |= 1 << e
		}
		if used != want {
			t.Errorf("triangle table entry %d uses edges %#x, want %#x", index, used, want)
		}
	}
}

func TestEmptyCells(t *testing.T) {
	s := form3.Goursat()
	mb := NewMeshBuilder(s, 0.1, Options{})
	for _, value := range []float64{-1, 1} {
		var corners [8]ScalarPoint
		for i := range corners {
			corners[i] = ScalarPoint{
				Index: mcCornerOffsets[i],
				Pos:   mcCornerOffsets[i].ToV3(),
				Value: value,
			}
		}
		if n := mb.polygonize(&corners, 0); n != 0 {
			t.Errorf("cell with all corners at %g produced %d triangles", value, n)
		}
	}
	if !mb.Mesh().IsEmpty() {
		t.Error("expected empty mesh")
	}
}

func TestSingleCornerCell(t *testing.T) {
	s := isosurface.Func3(func(x, y, z float64) float64 { return x + y - z })
	mb := NewMeshBuilder(s, 1, Options{})
	var corners [8]ScalarPoint
	for i := range corners {
		corners[i] = ScalarPoint{Index: mcCornerOffsets[i], Pos: mcCornerOffsets[i].ToV3(), Value: 1}
	}
	corners[0].Value = -1
	if cubeIndex(&corners, 0) != 1 {
		t.Fatal("expected cube index 1")
	}
	if n := mb.polygonize(&corners, 0); n != 1 {
		t.Fatalf("expected 1 triangle, got %d", n)
	}
	m := mb.Mesh()
	// Corner 0 sits at (0,0,1); its three edges are cut at the midpoint.
	want := map[r3.Vec]bool{
		{X: 0.5, Y: 0, Z: 1}: true,
		{X: 0, Y: 0.5, Z: 1}: true,
		{X: 0, Y: 0, Z: 0.5}: true,
	}
	for i := 0; i < 3; i++ {
		v := m.Vertex(i)
		got := r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
		if !want[got] {
			t.Errorf("unexpected vertex %v", got)
		}
		delete(want, got)
	}
	// Front face points away from the inside corner.
	n := faceNormal(m.Triangle(0))
	if n.X <= 0 || n.Y <= 0 || n.Z >= 0 {
		t.Errorf("triangle faces the wrong way: %v", n)
	}
}

func TestInterpolateEdge(t *testing.T) {
	a := ScalarPoint{Pos: r3.Vec{X: 0}, Value: -1}
	b := ScalarPoint{Pos: r3.Vec{X: 1}, Value: 3}
	for _, test := range []struct {
		name string
		iso  float64
		a, b ScalarPoint
		want r3.Vec
	}{
		{name: "linear", iso: 0, a: a, b: b, want: r3.Vec{X: 0.25}},
		{name: "snapA", iso: -1 + interpEpsilon/2, a: a, b: b, want: a.Pos},
		{name: "snapB", iso: 3 - interpEpsilon/2, a: a, b: b, want: b.Pos},
		{name: "flat", iso: 0.5, a: ScalarPoint{Pos: a.Pos, Value: 1}, b: ScalarPoint{Pos: b.Pos, Value: 1 + interpEpsilon/2}, want: a.Pos},
		// Both endpoints on the iso-level snap to a.
		{name: "bothOnIso", iso: 2, a: ScalarPoint{Pos: a.Pos, Value: 2}, b: ScalarPoint{Pos: b.Pos, Value: 2}, want: a.Pos},
	} {
		got := interpolateEdge(test.iso, test.a, test.b)
		if r3.Norm(r3.Sub(got, test.want)) > 1e-12 {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestFieldKeys(t *testing.T) {
	dom := Domain{Min: -2, Max: 2, Resolution: 0.2}
	s, _ := form3.Sphere(r3.Vec{}, 0.5)
	f, err := Sample(s, dom, 3)
	if err != nil {
		t.Fatal(err)
	}
	if f.Nodes() != 21 || f.Len() != 21*21*21 {
		t.Fatalf("got %d nodes per axis, %d total", f.Nodes(), f.Len())
	}
	for _, idx := range []isosurface.V3i{{0, 0, 0}, {20, 20, 20}, {3, 17, 9}, {10, 10, 10}} {
		sp, ok := f.At(idx)
		if !ok {
			t.Fatalf("missing node %v", idx)
		}
		if sp.Index != idx {
			t.Errorf("node %v stored with index %v", idx, sp.Index)
		}
		if key := f.Key(sp.Pos); key != idx {
			t.Errorf("key of %v: got %v, want %v", sp.Pos, key, idx)
		}
		if sp.Value != s.Evaluate(sp.Pos) {
			t.Errorf("node %v value mismatch", idx)
		}
	}
	if _, ok := f.At(isosurface.V3i{21, 0, 0}); ok {
		t.Error("index outside lattice reported present")
	}
	last, _ := f.At(isosurface.V3i{20, 20, 20})
	if !d3.EqualWithin(last.Pos, d3.Elem(2), 1e-12) {
		t.Errorf("last node at %v, want (2,2,2)", last.Pos)
	}
}

func TestForEachSlab(t *testing.T) {
	for _, test := range []struct{ n, workers, slabs int }{
		{n: 21, workers: 0, slabs: 1},
		{n: 21, workers: 1, slabs: 1},
		{n: 21, workers: 4, slabs: 4},
		{n: 3, workers: 8, slabs: 3},
		{n: 1, workers: 8, slabs: 1},
	} {
		if got := slabCount(test.n, test.workers); got != test.slabs {
			t.Errorf("slabCount(%d,%d)=%d, want %d", test.n, test.workers, got, test.slabs)
		}
		var mu sync.Mutex
		seen := make([]int, test.n)
		err := forEachSlab(test.n, test.workers, func(slab, k0, k1 int) error {
			mu.Lock()
			defer mu.Unlock()
			for k := k0; k < k1; k++ {
				seen[k]++
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		for k, c := range seen {
			if c != 1 {
				t.Errorf("n=%d workers=%d: plane %d visited %d times", test.n, test.workers, k, c)
			}
		}
	}
}

func TestSTLTriangleValidate(t *testing.T) {
	tri := stlTriangle{
		Vertex1: [3]float32{0, 0, 0},
		Vertex2: [3]float32{1, 0, 0},
		Vertex3: [3]float32{0, 1, 0},
	}
	for _, test := range []struct {
		normal [3]float32
		want   error
	}{
		{normal: [3]float32{0, 0, 1}},
		{normal: [3]float32{0, 0, -1}},
		{normal: [3]float32{0.01, -0.01, 0.99}},
		{normal: [3]float32{1, 0, 0}, want: ErrNormalMismatch},
		{normal: [3]float32{0, 0, 0.5}, want: ErrNormalMismatch},
	} {
		tri.Normal = test.normal
		if err := tri.validate(); !errors.Is(err, test.want) {
			t.Errorf("normal %v: got %v, want %v", test.normal, err, test.want)
		}
	}
	if !equalWithin(ms3.Vec{X: 1, Y: 2, Z: 3}, ms3.Vec{X: 1.05, Y: 1.95, Z: 3}, 0.06) {
		t.Error("vectors within tolerance reported different")
	}
	if equalWithin(ms3.Vec{X: 1, Y: 2, Z: 3}, ms3.Vec{X: 1, Y: 2, Z: 3.1}, 0.06) {
		t.Error("vectors outside tolerance reported equal")
	}
}

// faceNormal returns the unnormalized normal of t given by its winding.
func faceNormal(t ms3.Triangle) ms3.Vec {
	return ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
}
