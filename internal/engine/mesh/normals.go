package mesh

import "github.com/Faultbox/tachyon/pkg/math"

// ComputeNormals replaces vertex normals with area-weighted face normals
// accumulated per vertex.
func ComputeNormals(m *Mesh) {
	acc := make([]math.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := m.Vertices[i0].Position
		e1 := m.Vertices[i1].Position.Sub(p0)
		e2 := m.Vertices[i2].Position.Sub(p0)
		// Unnormalized cross product is proportional to triangle area
		n := e1.Cross(e2)
		acc[i0] = acc[i0].Add(n)
		acc[i1] = acc[i1].Add(n)
		acc[i2] = acc[i2].Add(n)
	}
	for i := range m.Vertices {
		n := acc[i].Normalize()
		if n == (math.Vec3{}) {
			n = math.Vec3{Y: 1}
		}
		m.Vertices[i].Normal = n
	}
}

// SmoothNormals averages normals of vertices that share a position,
// hiding seams where UV splits duplicated a vertex.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		p := vertices[i].Position
		key := [3]int32{int32(p.X / epsilon), int32(p.Y / epsilon), int32(p.Z / epsilon)}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(vertices[idx].Normal)
		}
		avg := sum.Normalize()
		if avg == (math.Vec3{}) {
			continue
		}
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// ComputeTangents derives per-vertex tangents from positions and UVs,
// orthogonalized against the vertex normal. Vertices whose UVs are
// degenerate get an arbitrary tangent perpendicular to the normal.
func ComputeTangents(m *Mesh) {
	acc := make([]math.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.UV.X-v0.UV.X, v1.UV.Y-v0.UV.Y
		du2, dv2 := v2.UV.X-v0.UV.X, v2.UV.Y-v0.UV.Y

		det := du1*dv2 - du2*dv1
		if det > -1e-8 && det < 1e-8 {
			continue
		}
		r := 1 / det
		t := e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(r)

		acc[i0] = acc[i0].Add(t)
		acc[i1] = acc[i1].Add(t)
		acc[i2] = acc[i2].Add(t)
	}

	for i := range m.Vertices {
		n := m.Vertices[i].Normal
		t := acc[i].Sub(n.Scale(n.Dot(acc[i]))).Normalize()
		if t == (math.Vec3{}) {
			t = perpendicular(n)
		}
		m.Vertices[i].Tangent = t
	}
}

// perpendicular returns a unit vector orthogonal to n.
func perpendicular(n math.Vec3) math.Vec3 {
	axis := math.Vec3{X: 1}
	if n.X > 0.9 || n.X < -0.9 {
		axis = math.Vec3{Y: 1}
	}
	p := axis.Sub(n.Scale(n.Dot(axis))).Normalize()
	if p == (math.Vec3{}) {
		return math.Vec3{X: 1}
	}
	return p
}
