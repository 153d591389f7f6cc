// Package mesh provides engine mesh geometry: vertex layout, procedural
// generators and the OBJ importer.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/tachyon/pkg/math"
)

// Vertex is the interleaved vertex layout uploaded to the GPU.
// Field order and sizes define the attribute offsets used by the renderer.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Tangent  math.Vec3
	UV       math.Vec2
}

// VertexSize is the size of Vertex in bytes.
const VertexSize = 11 * 4

// Attribute byte offsets within Vertex.
const (
	OffsetPosition = 0
	OffsetNormal   = 3 * 4
	OffsetTangent  = 6 * 4
	OffsetUV       = 9 * 4
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the center of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

var (
	// ErrEmptyMesh is returned for meshes without vertices or indices.
	ErrEmptyMesh = errors.New("mesh has no geometry")
	// ErrBadIndices is returned when the index list is not a valid triangle list.
	ErrBadIndices = errors.New("mesh has invalid indices")
)

// Validate checks that m is a non-empty triangle list whose indices
// reference existing vertices.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("%s: %w", m.Name, ErrEmptyMesh)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%s: %d indices is not a multiple of 3: %w", m.Name, len(m.Indices), ErrBadIndices)
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%s: index %d references vertex %d of %d: %w",
				m.Name, i, idx, len(m.Vertices), ErrBadIndices)
		}
	}
	return nil
}

// Bounds computes the bounding box of the mesh vertices.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		b.Min = b.Min.Min(v.Position)
		b.Max = b.Max.Max(v.Position)
	}
	return b
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}
