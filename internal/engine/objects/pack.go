package objects

import "github.com/Faultbox/tachyon/internal/engine/mesh"

// Pack holds the concatenated geometry of every registered mesh.
// It only grows; a record's ranges never move once assigned.
type Pack struct {
	Vertices []mesh.Vertex
	Indices  []uint32
	Records  []Record
}

// Record locates one mesh inside the pack and owns its object group.
// Indices stay mesh-local; VertexStart is applied as the base vertex
// at draw time.
type Record struct {
	Name        string
	VertexStart int
	VertexEnd   int
	IndexStart  int
	IndexEnd    int
	Group       Group
}

// VertexCount returns the number of vertices in the record.
func (r *Record) VertexCount() int {
	return r.VertexEnd - r.VertexStart
}

// IndexCount returns the number of indices in the record.
func (r *Record) IndexCount() int {
	return r.IndexEnd - r.IndexStart
}

// add appends m to the pack and returns the new record index.
func (p *Pack) add(m *mesh.Mesh, capacity int) MeshIndex {
	rec := Record{
		Name:        m.Name,
		VertexStart: len(p.Vertices),
		IndexStart:  len(p.Indices),
		Group:       Group{Capacity: capacity, Enabled: true},
	}
	p.Vertices = append(p.Vertices, m.Vertices...)
	p.Indices = append(p.Indices, m.Indices...)
	rec.VertexEnd = len(p.Vertices)
	rec.IndexEnd = len(p.Indices)

	p.Records = append(p.Records, rec)
	return MeshIndex(len(p.Records) - 1)
}
