package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/tachyon/pkg/math"
)

// Plane builds a flat XZ plane centered at the origin facing +Y,
// subdivided into segX by segZ quads.
func Plane(width, depth float32, segX, segZ int) *Mesh {
	if segX < 1 {
		segX = 1
	}
	if segZ < 1 {
		segZ = 1
	}

	m := &Mesh{
		Name:     "plane",
		Vertices: make([]Vertex, 0, (segX+1)*(segZ+1)),
		Indices:  make([]uint32, 0, segX*segZ*6),
	}

	for iz := 0; iz <= segZ; iz++ {
		v := float32(iz) / float32(segZ)
		for ix := 0; ix <= segX; ix++ {
			u := float32(ix) / float32(segX)
			m.Vertices = append(m.Vertices, Vertex{
				Position: math.Vec3{X: (u - 0.5) * width, Y: 0, Z: (v - 0.5) * depth},
				Normal:   math.Vec3{X: 0, Y: 1, Z: 0},
				Tangent:  math.Vec3{X: 1, Y: 0, Z: 0},
				UV:       math.Vec2{X: u, Y: v},
			})
		}
	}

	row := uint32(segX + 1)
	for iz := 0; iz < segZ; iz++ {
		for ix := 0; ix < segX; ix++ {
			a := uint32(iz)*row + uint32(ix)
			b := a + row
			c := b + 1
			d := a + 1
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}

	return m
}

// cubeFace describes one face of a cube. u x v == normal, so the quad
// corners -u-v, +u-v, +u+v, -u+v wind counter-clockwise seen from outside.
type cubeFace struct {
	normal, u, v math.Vec3
}

var cubeFaces = [6]cubeFace{
	{normal: math.Vec3{X: 1}, u: math.Vec3{Z: -1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{X: -1}, u: math.Vec3{Z: 1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Y: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: -1}},
	{normal: math.Vec3{Y: -1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: 1}},
	{normal: math.Vec3{Z: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Z: -1}, u: math.Vec3{X: -1}, v: math.Vec3{Y: 1}},
}

// Cube builds an axis-aligned cube with the given edge length. Faces do not
// share vertices so every face keeps a flat normal.
func Cube(size float32) *Mesh {
	h := size / 2
	m := &Mesh{
		Name:     "cube",
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}

	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range cubeFaces {
		base := uint32(len(m.Vertices))
		for _, c := range corners {
			pos := f.normal.Add(f.u.Scale(c[0])).Add(f.v.Scale(c[1])).Scale(h)
			m.Vertices = append(m.Vertices, Vertex{
				Position: pos,
				Normal:   f.normal,
				Tangent:  f.u,
				UV:       math.Vec2{X: (c[0] + 1) / 2, Y: (c[1] + 1) / 2},
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	return m
}

// Sphere builds a UV sphere by latitude/longitude tessellation.
// widthSegments splits the equator, heightSegments splits pole to pole.
// Pole rows emit a single triangle per segment.
func Sphere(radius float32, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	m := &Mesh{
		Name:     "sphere",
		Vertices: make([]Vertex, 0, (widthSegments+1)*(heightSegments+1)),
	}

	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		theta := v * math32.Pi
		sinTheta, cosTheta := math32.Sin(theta), math32.Cos(theta)

		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			phi := u * 2 * math32.Pi
			sinPhi, cosPhi := math32.Sin(phi), math32.Cos(phi)

			normal := math.Vec3{X: -cosPhi * sinTheta, Y: cosTheta, Z: sinPhi * sinTheta}
			m.Vertices = append(m.Vertices, Vertex{
				Position: normal.Scale(radius),
				Normal:   normal,
				// d(position)/d(phi), well defined at the poles too
				Tangent: math.Vec3{X: sinPhi, Y: 0, Z: cosPhi},
				UV:      math.Vec2{X: u, Y: 1 - v},
			})
		}
	}

	row := uint32(widthSegments + 1)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy)*row + uint32(ix) + 1
			b := uint32(iy)*row + uint32(ix)
			c := uint32(iy+1)*row + uint32(ix)
			d := uint32(iy+1)*row + uint32(ix) + 1

			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}

	return m
}
