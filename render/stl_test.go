package render_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isosurface/render"
)

func TestSTLCreateWriteRead(t *testing.T) {
	m := sphereMesh(t, render.Options{})
	filename := filepath.Join(t.TempDir(), "sphere.stl")
	err := render.CreateSTL(filename, m.Reader())
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(m.Reader())
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	n, err := render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if n != 84+50*len(model) {
		t.Errorf("WriteSTL reported %d bytes for %d triangles", n, len(model))
	}
	if b.Len() != len(bfile) {
		t.Fatal("WriteSTL and CreateSTL output length mismatch")
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
}

func TestSTLWriteReadback(t *testing.T) {
	m := sphereMesh(t, render.Options{})
	model := m.Triangles()
	var b bytes.Buffer
	_, err := render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	got, err := render.ReadSTL(&b)
	if err != nil && !errors.Is(err, render.ErrNormalMismatch) {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(model))
	}
	for i := range got {
		if got[i] != model[i] {
			t.Fatalf("triangle %d: got %v, want %v", i, got[i], model[i])
		}
	}
}

func TestSTLErrors(t *testing.T) {
	if _, err := render.WriteSTL(io.Discard, nil); err == nil {
		t.Error("expected error writing empty model")
	}
	var empty render.Mesh
	emptyName := filepath.Join(t.TempDir(), "empty.stl")
	if err := render.CreateSTL(emptyName, empty.Reader()); err == nil {
		t.Error("expected error creating STL of empty mesh")
	}
	if _, err := os.Stat(emptyName); !os.IsNotExist(err) {
		t.Errorf("empty STL file left behind: %v", err)
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("expected error reading truncated header")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 84))); err == nil {
		t.Error("expected error reading zero triangle count")
	}
	// Header announces two triangles but only one follows.
	var b bytes.Buffer
	render.WriteSTL(&b, []ms3.Triangle{{{X: 0}, {X: 1}, {Y: 1}}, {{X: 0}, {Y: 1}, {Z: 1}}})
	if _, err := render.ReadSTL(bytes.NewReader(b.Bytes()[:84+50])); err == nil {
		t.Error("expected error reading truncated STL")
	}
}
