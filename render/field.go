package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/internal/d3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// cellEpsilon absorbs floating point error when counting how many
// resolution steps fit in a domain, so that (2-(-2))/0.2 yields 20 cells and not 21.
const cellEpsilon = 1e-9

// MaxNodes is the largest lattice, in nodes, that a Domain may describe.
const MaxNodes = 1 << 28

// Domain is a cubic region [Min, Max] applied on all three axes and sampled
// on a regular lattice with spacing Resolution. The lattice grows with the
// cube of (Max-Min)/Resolution and may hold at most MaxNodes nodes.
type Domain struct {
	Min        float64 `yaml:"min" json:"min"`
	Max        float64 `yaml:"max" json:"max"`
	Resolution float64 `yaml:"resolution" json:"resolution"`
}

// Validate returns a descriptive error if the domain cannot be sampled.
func (d Domain) Validate() error {
	switch {
	case !finite(d.Min) || !finite(d.Max):
		return fmt.Errorf("domain bounds must be finite, got [%g, %g]", d.Min, d.Max)
	case !finite(d.Resolution) || d.Resolution <= 0:
		return fmt.Errorf("resolution must be positive, got %g", d.Resolution)
	case d.Min >= d.Max:
		return fmt.Errorf("domain min %g must be less than max %g", d.Min, d.Max)
	}
	steps := (d.Max - d.Min) / d.Resolution
	if !finite(steps) {
		return fmt.Errorf("domain [%g, %g] spans too many %g resolution steps", d.Min, d.Max, d.Resolution)
	}
	// Checked in floating point so huge lattices cannot overflow int.
	nodes := math.Max(math.Ceil(steps-cellEpsilon), 1) + 1
	if nodes*nodes*nodes > MaxNodes {
		return fmt.Errorf("lattice of %g³ nodes exceeds limit of %d nodes", nodes, MaxNodes)
	}
	return nil
}

// Cells returns the number of cube cells along each axis. The last cell may
// extend past Max by less than one Resolution step.
func (d Domain) Cells() int {
	n := math.Ceil((d.Max-d.Min)/d.Resolution - cellEpsilon)
	if n < 1 {
		return 1
	}
	return int(n)
}

// Box returns the region covered by the domain's cube cells.
func (d Domain) Box() r3.Box {
	return r3.Box{
		Min: d3.Elem(d.Min),
		Max: d3.Elem(d.Min + float64(d.Cells())*d.Resolution),
	}
}

// ScalarPoint is one lattice sample. Index is its identity within a Field.
type ScalarPoint struct {
	Index isosurface.V3i
	Pos   r3.Vec
	Value float64
}

// Field is a sampled scalar field over the nodes of a Domain's lattice.
// Nodes are addressed by integer index; there is one more node than cells
// along each axis so that every cube cell has its eight corners.
type Field struct {
	dom    Domain
	nodes  int // nodes per axis
	points []ScalarPoint
}

// Sample evaluates s on every lattice node of dom. If workers > 1 the
// lattice is split in slabs along the k (z) axis and sampled concurrently.
// The returned field is complete. Sample is deterministic for pure s.
func Sample(s isosurface.Implicit3, dom Domain, workers int) (*Field, error) {
	if s == nil {
		return nil, errors.New("nil implicit function")
	}
	if err := dom.Validate(); err != nil {
		return nil, err
	}
	n := dom.Cells() + 1
	f := &Field{
		dom:    dom,
		nodes:  n,
		points: make([]ScalarPoint, n*n*n),
	}
	err := forEachSlab(n, workers, func(_, k0, k1 int) error {
		f.sampleSlab(s, k0, k1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Field) sampleSlab(s isosurface.Implicit3, k0, k1 int) {
	n := f.nodes
	for k := k0; k < k1; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				idx := isosurface.V3i{i, j, k}
				p := f.Position(idx)
				f.points[f.offset(idx)] = ScalarPoint{
					Index: idx,
					Pos:   p,
					Value: s.Evaluate(p),
				}
			}
		}
	}
}

// Domain returns the domain the field was sampled over.
func (f *Field) Domain() Domain { return f.dom }

// Nodes returns the number of lattice nodes along each axis.
func (f *Field) Nodes() int { return f.nodes }

// Cells returns the number of cube cells along each axis.
func (f *Field) Cells() int { return f.nodes - 1 }

// Len returns the total number of sampled nodes.
func (f *Field) Len() int { return len(f.points) }

// At returns the scalar point at lattice index idx. ok is false if idx
// lies outside the lattice.
func (f *Field) At(idx isosurface.V3i) (sp ScalarPoint, ok bool) {
	if !idx.InCube(f.nodes) {
		return ScalarPoint{}, false
	}
	return f.points[f.offset(idx)], true
}

// Position returns the world coordinate of lattice index idx. Coordinates
// are computed from the index so no error accumulates along an axis.
func (f *Field) Position(idx isosurface.V3i) r3.Vec {
	return r3.Add(d3.Elem(f.dom.Min), r3.Scale(f.dom.Resolution, idx.ToV3()))
}

// Key returns the lattice index nearest to world coordinate p. It is the
// inverse of Position for lattice nodes.
func (f *Field) Key(p r3.Vec) isosurface.V3i {
	inv := 1 / f.dom.Resolution
	return isosurface.V3i{
		int(math.Round((p.X - f.dom.Min) * inv)),
		int(math.Round((p.Y - f.dom.Min) * inv)),
		int(math.Round((p.Z - f.dom.Min) * inv)),
	}
}

func (f *Field) offset(idx isosurface.V3i) int {
	return (idx[2]*f.nodes+idx[1])*f.nodes + idx[0]
}

// slabCount returns how many slabs forEachSlab splits n planes into.
func slabCount(n, workers int) int {
	if workers <= 1 || n < 2 {
		return 1
	}
	if workers > n {
		return n
	}
	return workers
}

// forEachSlab splits the planes [0, n) in contiguous slabs and calls fn
// once per slab, concurrently when more than one slab results. Slab numbers
// increase with k so callers can reassemble results in lattice order.
func forEachSlab(n, workers int, fn func(slab, k0, k1 int) error) error {
	slabs := slabCount(n, workers)
	if slabs == 1 {
		return fn(0, 0, n)
	}
	var g errgroup.Group
	for slab := 0; slab < slabs; slab++ {
		slab := slab
		k0 := slab * n / slabs
		k1 := (slab + 1) * n / slabs
		g.Go(func() error {
			return fn(slab, k0, k1)
		})
	}
	return g.Wait()
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
