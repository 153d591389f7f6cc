package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/tachyon/pkg/math"
)

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func approx(a, b math.Vec3) bool {
	return abs(a.X-b.X) < 1e-3 && abs(a.Y-b.Y) < 1e-3 && abs(a.Z-b.Z) < 1e-3
}

// checkWinding verifies every triangle's geometric normal points the same
// way as its vertex normals.
func checkWinding(t *testing.T, m *Mesh) {
	t.Helper()
	for i := 0; i < len(m.Indices); i += 3 {
		v0 := m.Vertices[m.Indices[i]]
		v1 := m.Vertices[m.Indices[i+1]]
		v2 := m.Vertices[m.Indices[i+2]]
		face := v1.Position.Sub(v0.Position).Cross(v2.Position.Sub(v0.Position))
		if face.Length() < 1e-6 {
			continue
		}
		avg := v0.Normal.Add(v1.Normal).Add(v2.Normal)
		if face.Dot(avg) <= 0 {
			t.Fatalf("%s: triangle %d winds against its normals", m.Name, i/3)
		}
	}
}

func TestPlane(t *testing.T) {
	m := Plane(4, 2, 2, 1)

	if len(m.Vertices) != 6 {
		t.Errorf("vertex count = %d, want 6", len(m.Vertices))
	}
	if m.TriangleCount() != 4 {
		t.Errorf("triangle count = %d, want 4", m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	b := m.Bounds()
	if !approx(b.Min, math.Vec3{X: -2, Z: -1}) || !approx(b.Max, math.Vec3{X: 2, Z: 1}) {
		t.Errorf("bounds = %+v, want (-2,0,-1)..(2,0,1)", b)
	}
	checkWinding(t, m)
}

func TestPlaneClampsSegments(t *testing.T) {
	m := Plane(1, 1, 0, -3)
	if m.TriangleCount() != 2 {
		t.Errorf("triangle count = %d, want 2", m.TriangleCount())
	}
}

func TestCube(t *testing.T) {
	m := Cube(2)

	if len(m.Vertices) != 24 || len(m.Indices) != 36 {
		t.Fatalf("cube has %d vertices / %d indices, want 24 / 36", len(m.Vertices), len(m.Indices))
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	b := m.Bounds()
	if !approx(b.Min, math.Vec3{X: -1, Y: -1, Z: -1}) || !approx(b.Max, math.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("bounds = %+v, want unit cube of size 2", b)
	}

	for i, v := range m.Vertices {
		if d := v.Normal.Dot(v.Tangent); abs(d) > 1e-5 {
			t.Errorf("vertex %d: tangent not perpendicular to normal (dot %f)", i, d)
		}
	}
	checkWinding(t, m)
}

func TestSphere(t *testing.T) {
	const radius = 3
	m := Sphere(radius, 16, 8)

	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if want := (16 + 1) * (8 + 1); len(m.Vertices) != want {
		t.Errorf("vertex count = %d, want %d", len(m.Vertices), want)
	}
	// Pole rows contribute one triangle per segment, the rest two
	if want := 16 * (2*8 - 2); m.TriangleCount() != want {
		t.Errorf("triangle count = %d, want %d", m.TriangleCount(), want)
	}

	for i, v := range m.Vertices {
		if l := v.Normal.Length(); abs(l-1) > 1e-4 {
			t.Fatalf("vertex %d: normal length %f, want 1", i, l)
		}
		if l := v.Position.Length(); abs(l-radius) > 1e-3 {
			t.Fatalf("vertex %d: distance from center %f, want %d", i, l, radius)
		}
		if l := v.Tangent.Length(); abs(l-1) > 1e-4 {
			t.Fatalf("vertex %d: tangent length %f, want 1", i, l)
		}
		if d := v.Normal.Dot(v.Tangent); abs(d) > 1e-4 {
			t.Fatalf("vertex %d: tangent not perpendicular to normal (dot %f)", i, d)
		}
	}
	checkWinding(t, m)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mesh Mesh
		want error
	}{
		{"empty", Mesh{Name: "empty"}, ErrEmptyMesh},
		{"no indices", Mesh{Vertices: make([]Vertex, 3)}, ErrEmptyMesh},
		{"partial triangle", Mesh{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1}}, ErrBadIndices},
		{"out of range", Mesh{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1, 3}}, ErrBadIndices},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mesh.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestComputeTangentsFollowsUV(t *testing.T) {
	m := Plane(1, 1, 1, 1)
	for i := range m.Vertices {
		m.Vertices[i].Tangent = math.Vec3{}
	}
	ComputeTangents(m)

	// U grows along +X on the generated plane
	for i, v := range m.Vertices {
		if !approx(v.Tangent, math.Vec3{X: 1}) {
			t.Errorf("vertex %d: tangent = %v, want +X", i, v.Tangent)
		}
	}
}

func TestComputeTangentsDegenerateUV(t *testing.T) {
	m := Plane(1, 1, 1, 1)
	for i := range m.Vertices {
		m.Vertices[i].UV = math.Vec2{}
	}
	ComputeTangents(m)

	for i, v := range m.Vertices {
		if l := v.Tangent.Length(); abs(l-1) > 1e-4 {
			t.Errorf("vertex %d: fallback tangent length %f, want 1", i, l)
		}
		if d := v.Tangent.Dot(v.Normal); abs(d) > 1e-4 {
			t.Errorf("vertex %d: fallback tangent not perpendicular (dot %f)", i, d)
		}
	}
}

const quadOBJ = `# unit quad facing +Z
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
s off
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestLoadOBJQuad(t *testing.T) {
	m, err := LoadOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("LoadOBJ() = %v", err)
	}

	if len(m.Vertices) != 4 {
		t.Errorf("vertex count = %d, want 4", len(m.Vertices))
	}
	// Quad is fan-triangulated into two triangles
	want := []uint32{0, 1, 2, 0, 2, 3}
	if len(m.Indices) != len(want) {
		t.Fatalf("indices = %v, want %v", m.Indices, want)
	}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", m.Indices, want)
		}
	}
	for i, v := range m.Vertices {
		if !approx(v.Normal, math.Vec3{Z: 1}) {
			t.Errorf("vertex %d: normal = %v, want +Z", i, v.Normal)
		}
		if !approx(v.Tangent, math.Vec3{X: 1}) {
			t.Errorf("vertex %d: tangent = %v, want +X", i, v.Tangent)
		}
	}
	checkWinding(t, m)
}

func TestLoadOBJComputesMissingNormals(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
v -1 -1 0
f 1 2 3
f -1 -3 -2
`
	m, err := LoadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadOBJ() = %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", m.TriangleCount())
	}
	// Negative indices resolve to positions 4, 2, 3
	if m.Indices[3] != 3 || m.Indices[4] != 1 || m.Indices[5] != 2 {
		t.Errorf("negative index triangle = %v, want [3 1 2]", m.Indices[3:])
	}
	for i, v := range m.Vertices {
		if !approx(v.Normal, math.Vec3{Z: 1}) {
			t.Errorf("vertex %d: computed normal = %v, want +Z", i, v.Normal)
		}
	}
}

func TestLoadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "# nothing\n", "no geometry"},
		{"bad vertex", "v 1 two 3\n", "line 1"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", "at least 3"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", "out of range"},
		{"no position", "v 0 0 0\nf /1 /1 /1\n", "no position"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOBJ(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0644); err != nil {
		t.Fatalf("failed to write obj: %v", err)
	}

	m, err := LoadOBJFile(path)
	if err != nil {
		t.Fatalf("LoadOBJFile() = %v", err)
	}
	if m.Name != "quad" {
		t.Errorf("name = %q, want quad", m.Name)
	}

	if _, err := LoadOBJFile(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
