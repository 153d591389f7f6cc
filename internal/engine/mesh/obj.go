package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/tachyon/pkg/math"
)

// objKey identifies a unique position/uv/normal combination in a face.
// Zero means absent; stored indices are 1-based like the file.
type objKey struct {
	v, vt, vn int
}

// LoadOBJFile loads a Wavefront OBJ file from disk.
func LoadOBJFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening obj: %w", err)
	}
	defer f.Close()

	m, err := LoadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, nil
}

// LoadOBJ parses v/vt/vn/f statements from r. Polygons are triangulated
// as fans, negative indices count back from the latest element, and
// missing normals are computed from the faces. Tangents are always derived.
// Other statements (o, g, s, usemtl, mtllib) are ignored.
func LoadOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions []math.Vec3
		uvs       []math.Vec2
		normals   []math.Vec3
		hasNormal = true
		m         = &Mesh{Name: "obj"}
		lookup    = make(map[objKey]uint32)
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, math.Vec3{X: p[0], Y: p[1], Z: p[2]})

		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", lineNo, err)
			}
			uvs = append(uvs, math.Vec2{X: p[0], Y: p[1]})

		case "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, math.Vec3{X: p[0], Y: p[1], Z: p[2]}.Normalize())

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices, got %d", lineNo, len(fields)-1)
			}
			face := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				key, err := parseFaceRef(ref, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				if key.vn == 0 {
					hasNormal = false
				}
				idx, ok := lookup[key]
				if !ok {
					idx = uint32(len(m.Vertices))
					lookup[key] = idx
					vert := Vertex{Position: positions[key.v-1]}
					if key.vt > 0 {
						vert.UV = uvs[key.vt-1]
					}
					if key.vn > 0 {
						vert.Normal = normals[key.vn-1]
					}
					m.Vertices = append(m.Vertices, vert)
				}
				face = append(face, idx)
			}
			for i := 1; i+1 < len(face); i++ {
				m.Indices = append(m.Indices, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	if !hasNormal {
		ComputeNormals(m)
		SmoothNormals(m.Vertices)
	}
	ComputeTangents(m)

	return m, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceRef parses "v", "v/vt", "v//vn" or "v/vt/vn".
func parseFaceRef(ref string, nv, nvt, nvn int) (objKey, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return objKey{}, fmt.Errorf("malformed face vertex %q", ref)
	}

	var key objKey
	var err error
	if key.v, err = resolveIndex(parts[0], nv); err != nil {
		return objKey{}, fmt.Errorf("face vertex %q: %w", ref, err)
	}
	if key.v == 0 {
		return objKey{}, fmt.Errorf("face vertex %q has no position", ref)
	}
	if len(parts) > 1 && parts[1] != "" {
		if key.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return objKey{}, fmt.Errorf("face texcoord %q: %w", ref, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if key.vn, err = resolveIndex(parts[2], nvn); err != nil {
			return objKey{}, fmt.Errorf("face normal %q: %w", ref, err)
		}
	}
	return key, nil
}

// resolveIndex converts a 1-based or negative OBJ index to 1-based.
func resolveIndex(s string, count int) (int, error) {
	if s == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = count + 1 + i
	}
	if i < 1 || i > count {
		return 0, fmt.Errorf("index out of range (have %d)", count)
	}
	return i, nil
}
