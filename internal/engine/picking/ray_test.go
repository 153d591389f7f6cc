package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tachyon/internal/engine/mesh"
	"github.com/Faultbox/tachyon/internal/engine/objects"
	"github.com/Faultbox/tachyon/pkg/math"
)

func unitBox() mesh.Bounds {
	return mesh.Bounds{Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}}
}

func TestIntersectAABB(t *testing.T) {
	r := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}

	d, hit := r.IntersectAABB(unitBox())
	require.True(t, hit)
	assert.InDelta(t, 4.5, d, 1e-5)

	miss := Ray{Origin: math.Vec3{X: 2, Z: 5}, Direction: math.Vec3{Z: -1}}
	_, hit = miss.IntersectAABB(unitBox())
	assert.False(t, hit)

	behind := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}
	_, hit = behind.IntersectAABB(unitBox())
	assert.False(t, hit)

	inside := Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}
	d, hit = inside.IntersectAABB(unitBox())
	require.True(t, hit)
	assert.InDelta(t, 0.5, d, 1e-5)
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: math.Vec3{X: 1, Y: 4}, Direction: math.Vec3{Y: -1}}
	p, ok := r.IntersectPlaneY(1)
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: 1, Y: 1}, p)

	flat := Ray{Direction: math.Vec3{X: 1}}
	_, ok = flat.IntersectPlaneY(1)
	assert.False(t, ok)
}

func TestScreenToRayCenter(t *testing.T) {
	view := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(1, 1, 0.1, 100)
	r := ScreenToRay(50, 50, 100, 100, proj.Mul(view).Inverse())

	assert.InDelta(t, 0, r.Direction.X, 1e-3)
	assert.InDelta(t, 0, r.Direction.Y, 1e-3)
	assert.InDelta(t, -1, r.Direction.Z, 1e-3)
}

func TestTransformBounds(t *testing.T) {
	m := math.Compose(math.Vec3{X: 10}, math.Vec3{X: 2, Y: 2, Z: 2}, math.QuatIdentity())
	got := TransformBounds(unitBox(), m)
	assert.Equal(t, math.Vec3{X: 9, Y: -1, Z: -1}, got.Min)
	assert.Equal(t, math.Vec3{X: 11, Y: 1, Z: 1}, got.Max)
}

func TestPickNearest(t *testing.T) {
	m := objects.NewManager(objects.Options{})
	mi, err := m.RegisterMesh(mesh.Cube(1), 3)
	require.NoError(t, err)
	require.NoError(t, m.FinalizeObjects())

	var hs []objects.Handle
	for _, z := range []float32{-4, 0, 4} {
		o, err := m.Create(mi)
		require.NoError(t, err)
		o.Position = math.Vec3{Z: z}
		require.NoError(t, m.Commit(o))
		hs = append(hs, o.Handle())
	}

	targets := []Target{{Mesh: mi, Bounds: unitBox()}}
	r := Ray{Origin: math.Vec3{Z: 10}, Direction: math.Vec3{Z: -1}}

	h, d, ok := Pick(r, m, targets)
	require.True(t, ok)
	assert.Equal(t, hs[2], h)
	assert.InDelta(t, 5.5, d, 1e-5)

	_, _, ok = Pick(Ray{Origin: math.Vec3{X: 5, Z: 10}, Direction: math.Vec3{Z: -1}}, m, targets)
	assert.False(t, ok)
}
