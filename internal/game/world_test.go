package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tachyon/internal/config"
	"github.com/Faultbox/tachyon/internal/engine/objects"
	"github.com/Faultbox/tachyon/internal/engine/picking"
	"github.com/Faultbox/tachyon/pkg/math"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Engine.CubeCapacity = 9
	cfg.Engine.SphereCapacity = 4
	cfg.Engine.ParticleCapacity = 16
	cfg.Engine.GridCapacity = 1
	return cfg
}

func active(t *testing.T, w *World, kind Kind) int {
	t.Helper()
	es := w.Entities(kind)
	require.Len(t, es, 1)
	return len(w.Objects().Objects(es[0].Mesh))
}

func TestNewWorldSpawnsEntities(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, 1, active(t, w, KindGrid))
	assert.Equal(t, 9, active(t, w, KindSpinner))
	assert.Equal(t, 4, active(t, w, KindOrbiter))
	assert.Equal(t, 16, active(t, w, KindParticles))
	assert.True(t, w.GridVisible())

	s := w.Objects().Stats()
	assert.Equal(t, 4, s.Meshes)
	assert.Equal(t, 30, s.Slots)
	assert.Equal(t, 30, s.Active)
}

func TestUpdateRecreatesParticles(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)
	defer w.Close()

	p := w.Entities(KindParticles)[0]
	before := w.Objects().Handles(p.Mesh)

	require.NoError(t, w.Update(0.016))

	assert.Equal(t, 16, active(t, w, KindParticles))
	for _, h := range before {
		_, err := w.Objects().Get(h)
		assert.ErrorIs(t, err, objects.ErrStaleHandle)
	}
}

func TestUpdateKeepsStaticHandles(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)
	defer w.Close()

	cube := w.Entities(KindSpinner)[0]
	hs := w.Objects().Handles(cube.Mesh)
	first, err := w.Objects().Get(hs[0])
	require.NoError(t, err)
	pos, rot := first.Position, first.Rotation

	require.NoError(t, w.Update(0.5))

	o, err := w.Objects().Get(hs[0])
	require.NoError(t, err)
	assert.Equal(t, pos, o.Position)
	assert.NotEqual(t, rot, o.Rotation)
	rows := w.Objects().Transforms()
	rec, _ := w.Objects().Record(cube.Mesh)
	assert.Equal(t, o.Matrix().Transpose(), rows[rec.Group.ObjectOffset])
}

func TestOrbitersMove(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)
	defer w.Close()

	sphere := w.Entities(KindOrbiter)[0]
	before := append([]objects.Object(nil), w.Objects().Objects(sphere.Mesh)...)
	require.NoError(t, w.Update(1))
	after := w.Objects().Objects(sphere.Mesh)

	for i := range after {
		assert.NotEqual(t, before[i].Position, after[i].Position)
	}
}

func TestGridToggle(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)
	defer w.Close()

	grid := w.Entities(KindGrid)[0]
	require.NoError(t, w.SetGridVisible(false))
	assert.False(t, w.GridVisible())

	cmds := w.Objects().DrawCommands(nil)
	assert.Equal(t, uint32(0), cmds[grid.Mesh].InstanceCount)
	assert.Equal(t, 1, active(t, w, KindGrid))

	require.NoError(t, w.SetGridVisible(true))
	cmds = w.Objects().DrawCommands(cmds)
	assert.Equal(t, uint32(1), cmds[grid.Mesh].InstanceCount)
}

func TestConfiguredModels(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(objPath, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644))

	cfg := smallConfig()
	cfg.Assets.Models = []config.ModelConfig{
		{Name: "tri", Path: objPath, Capacity: 2},
		{Name: "missing", Path: filepath.Join(dir, "nope.obj"), Capacity: 3},
	}

	w, err := NewWorld(cfg)
	require.NoError(t, err)
	defer w.Close()

	props := w.Entities(KindProp)
	require.Len(t, props, 2)

	tri, err := w.Objects().Record(props[0].Mesh)
	require.NoError(t, err)
	assert.Equal(t, "tri", tri.Name)
	assert.Equal(t, 3, tri.VertexCount())
	assert.Equal(t, 2, tri.Group.TotalActive)

	// Unreadable files fall back to a placeholder cube.
	missing, err := w.Objects().Record(props[1].Mesh)
	require.NoError(t, err)
	assert.Equal(t, "missing", missing.Name)
	assert.Equal(t, 24, missing.VertexCount())
	assert.Equal(t, 3, missing.Group.TotalActive)
	assert.Equal(t, 1, props[1].Order)
}

func TestBoundsSkipsGrid(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)
	defer w.Close()

	min, max := w.Bounds()
	assert.Less(t, min.X, max.X)
	// The grid plane spans 60 units; objects stay well inside it.
	assert.Less(t, max.Sub(min).Length(), float32(60))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "spinner", KindSpinner.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	for k := KindGrid; k <= KindProp; k++ {
		assert.Contains(t, behaviors, k)
	}
}

func TestRemovePicked(t *testing.T) {
	cfg := smallConfig()
	cfg.Engine.SphereCapacity = 1
	w, err := NewWorld(cfg)
	require.NoError(t, err)
	defer w.Close()

	cube := w.Entities(KindSpinner)[0]
	objs := w.Objects().Objects(cube.Mesh)
	target := objs[4].Position // center of the 3x3 field

	ray := picking.Ray{
		Origin:    math.Vec3{X: target.X, Y: 50, Z: target.Z},
		Direction: math.Vec3{Y: -1},
	}
	h, ok, err := w.RemovePicked(ray)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cube.Mesh, h.Mesh)
	assert.Equal(t, 4, h.Slot)
	assert.Equal(t, 8, active(t, w, KindSpinner))

	_, err = w.Objects().Get(h)
	assert.ErrorIs(t, err, objects.ErrStaleHandle)

	// Nothing up here.
	_, ok, err = w.RemovePicked(picking.Ray{Origin: math.Vec3{Y: 500}, Direction: math.Vec3{Y: 1}})
	require.NoError(t, err)
	assert.False(t, ok)
}
