package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View describes the camera and lighting of a preview render.
type View struct {
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	Supersample int        `yaml:"supersample"` // render at this multiple of the size, then downsample.
	Eye         r3.Vec     `yaml:"eye"`
	Center      r3.Vec     `yaml:"center"`
	Up          r3.Vec     `yaml:"up"`
	Fovy        float64    `yaml:"fovy"` // vertical field of view in degrees.
	Near        float64    `yaml:"near"`
	Far         float64    `yaml:"far"`
	Light       r3.Vec     `yaml:"light"` // direction towards the light.
	Background  [4]float64 `yaml:"background"`
}

// DefaultView returns a view looking at the origin from the +z side, with
// the light placed up and to the right of the camera.
func DefaultView() View {
	return View{
		Width:       640,
		Height:      480,
		Supersample: 2,
		Eye:         r3.Vec{X: 0, Y: 0, Z: 5},
		Center:      r3.Vec{},
		Up:          r3.Vec{Y: 1},
		Fovy:        45,
		Near:        0.1,
		Far:         100,
		Light:       r3.Vec{X: 1, Y: 1, Z: 1},
		Background:  [4]float64{0.123, 0.154, 0.182, 1},
	}
}

// PreviewItem is one mesh placed in a preview scene.
type PreviewItem struct {
	Mesh   *Mesh
	Offset r3.Vec
	// Color is the shading color. The zero value uses the mean vertex color
	// of Mesh clamped to [0,1].
	Color [4]float64
}

// Preview draws items with Phong shading and returns the downsampled image.
func Preview(items []PreviewItem, view View) (image.Image, error) {
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	if view.Near <= 0 || view.Far <= view.Near {
		return nil, errors.New("preview clip planes must satisfy 0 < near < far")
	}
	scale := view.Supersample
	if scale < 1 {
		scale = 1
	}
	var (
		eye    = fauxVec(view.Eye)
		center = fauxVec(view.Center)
		up     = fauxVec(view.Up)
		light  = fauxVec(view.Light).Normalize()
	)
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxColor(view.Background))
	context.Cull = fauxgl.CullNone
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	for _, item := range items {
		if item.Mesh == nil || item.Mesh.IsEmpty() {
			continue
		}
		color := item.Color
		if color == ([4]float64{}) {
			color = meanColor(item.Mesh)
		}
		shader := fauxgl.NewPhongShader(matrix, light, eye)
		shader.ObjectColor = fauxColor(color)
		context.Shader = shader
		context.DrawMesh(fauxMesh(item.Mesh, item.Offset))
	}
	img := context.Image()
	if scale > 1 {
		// downsample image for antialiasing
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	return fauxgl.SavePNG(path, img)
}

func fauxMesh(m *Mesh, offset r3.Vec) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, m.TriangleCount())
	vertex := func(i int) fauxgl.Vertex {
		p, n := m.Vertex(i), m.Normal(i)
		return fauxgl.Vertex{
			Position: fauxgl.V(float64(p.X)+offset.X, float64(p.Y)+offset.Y, float64(p.Z)+offset.Z),
			Normal:   fauxgl.V(float64(n.X), float64(n.Y), float64(n.Z)),
		}
	}
	for t := range tris {
		tris[t] = &fauxgl.Triangle{
			V1: vertex(3 * t),
			V2: vertex(3*t + 1),
			V3: vertex(3*t + 2),
		}
	}
	return fauxgl.NewTriangleMesh(tris)
}

func meanColor(m *Mesh) (c [4]float64) {
	nv := m.VertexCount()
	for i := 0; i < nv; i++ {
		vc := m.Color(i)
		for k := range c {
			c[k] += float64(vc[k])
		}
	}
	for k := range c {
		c[k] = clamp01(c[k] / float64(nv))
	}
	c[3] = 1
	return c
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

func fauxVec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }

func fauxColor(c [4]float64) fauxgl.Color {
	return fauxgl.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}
