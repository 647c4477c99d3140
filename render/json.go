package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// meshJSON is the on-disk layout of a mesh. vertexCount is redundant with
// the buffer lengths and lets consumers preallocate.
type meshJSON struct {
	Positions   []float32 `json:"positions"`
	Normals     []float32 `json:"normals"`
	Colors      []float32 `json:"colors"`
	VertexCount int       `json:"vertexCount"`
}

// WriteJSON encodes m as a JSON object with flat positions, normals and
// colors arrays, ready to be uploaded as vertex attributes.
func WriteJSON(w io.Writer, m *Mesh) error {
	if m == nil {
		return errors.New("nil mesh")
	}
	if err := m.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	return enc.Encode(meshJSON{
		Positions:   nonNil(m.Positions),
		Normals:     nonNil(m.Normals),
		Colors:      nonNil(m.Colors),
		VertexCount: m.VertexCount(),
	})
}

// ReadJSON decodes a mesh written by WriteJSON.
func ReadJSON(r io.Reader) (*Mesh, error) {
	var mj meshJSON
	if err := json.NewDecoder(r).Decode(&mj); err != nil {
		return nil, err
	}
	m := &Mesh{Positions: mj.Positions, Normals: mj.Normals, Colors: mj.Colors}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.VertexCount() != mj.VertexCount {
		return nil, fmt.Errorf("vertexCount %d does not match %d decoded vertices", mj.VertexCount, m.VertexCount())
	}
	return m, nil
}

// nonNil makes empty buffers encode as [] instead of null.
func nonNil(buf []float32) []float32 {
	if buf == nil {
		return []float32{}
	}
	return buf
}
