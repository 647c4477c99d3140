package render_test

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/soypat/isosurface/form3"
	"github.com/soypat/isosurface/render"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

// imgDelta a normalized imgDelta parameter to describe how close the matching
// should be performed (imgDelta=0: perfect match, imgDelta=1, loose match)
const imgDelta = 0.02

func previewScene(t testing.TB) []render.PreviewItem {
	heart, err := render.Polygonize(form3.TaubinHeart(), render.Domain{Min: -1.5, Max: 1.5, Resolution: 0.15}, render.Options{})
	if err != nil {
		t.Fatal(err)
	}
	light := sphereMesh(t, render.Options{})
	light.Paint(200, 200, 200, 1)
	return []render.PreviewItem{
		{Mesh: heart},
		{Mesh: light, Offset: r3.Vec{X: 1.5, Y: 1.5}},
	}
}

func smallView() render.View {
	view := render.DefaultView()
	view.Width, view.Height = 64, 48
	return view
}

func encodePNG(t testing.TB, img image.Image) []byte {
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func TestPreview(t *testing.T) {
	items := previewScene(t)
	view := smallView()
	img1, err := render.Preview(items, view)
	if err != nil {
		t.Fatal(err)
	}
	if got := img1.Bounds().Size(); got != image.Pt(view.Width, view.Height) {
		t.Fatalf("got image size %v", got)
	}
	img2, err := render.Preview(items, view)
	if err != nil {
		t.Fatal(err)
	}
	equal, err := cmpimg.EqualApprox("png", encodePNG(t, img1), encodePNG(t, img2), imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("repeated preview renders differ")
	}
	empty, err := render.Preview(nil, view)
	if err != nil {
		t.Fatal(err)
	}
	equal, err = cmpimg.EqualApprox("png", encodePNG(t, img1), encodePNG(t, empty), 0)
	if err != nil {
		t.Fatal(err)
	}
	if equal {
		t.Error("scene render is indistinguishable from background")
	}
	// Heart sits at the center of the view.
	bg := view.Background
	r, g, b, _ := img1.At(view.Width/2, view.Height/2).RGBA()
	if r>>8 == uint32(bg[0]*255) && g>>8 == uint32(bg[1]*255) && b>>8 == uint32(bg[2]*255) {
		t.Error("center pixel is background")
	}
	if err := render.SavePNG(filepath.Join(t.TempDir(), "preview.png"), img1); err != nil {
		t.Fatal(err)
	}
}

func TestPreviewBadView(t *testing.T) {
	view := smallView()
	view.Width = 0
	if _, err := render.Preview(nil, view); err == nil {
		t.Error("expected error for zero width")
	}
	view = smallView()
	view.Near, view.Far = 1, 1
	if _, err := render.Preview(nil, view); err == nil {
		t.Error("expected error for empty clip range")
	}
}
