package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tachyon/internal/config"
	"github.com/Faultbox/tachyon/internal/engine/mesh"
	"github.com/Faultbox/tachyon/internal/engine/objects"
	"github.com/Faultbox/tachyon/internal/engine/picking"
	"github.com/Faultbox/tachyon/internal/logger"
	"github.com/Faultbox/tachyon/pkg/math"
)

// Entity binds one registered mesh to the behavior that drives it.
type Entity struct {
	Name     string
	Kind     Kind
	Mesh     objects.MeshIndex
	Capacity int
	// Order is the entity's position among entities of the same kind.
	Order int
	// Bounds is the local bounding box of the mesh.
	Bounds mesh.Bounds
}

// World owns the object manager and the entities living in it. It has no
// GPU dependency.
type World struct {
	objects  *objects.Manager
	entities []Entity
	byKind   map[Kind][]int
	time     float32
	log      *zap.Logger
}

type registration struct {
	name     string
	kind     Kind
	mesh     *mesh.Mesh
	capacity int
}

// NewWorld registers the built-in and configured meshes, finalizes the
// object manager and spawns every entity.
func NewWorld(cfg *config.Config) (*World, error) {
	w := &World{
		objects: objects.NewManager(objects.Options{Strict: cfg.Engine.Strict}),
		byKind:  make(map[Kind][]int),
		log:     logger.Named("world"),
	}

	regs := []registration{
		{"grid", KindGrid, mesh.Plane(60, 60, 30, 30), cfg.Engine.GridCapacity},
		{"cube", KindSpinner, mesh.Cube(1), cfg.Engine.CubeCapacity},
		{"sphere", KindOrbiter, mesh.Sphere(0.6, 24, 16), cfg.Engine.SphereCapacity},
		{"particle", KindParticles, mesh.Cube(0.12), cfg.Engine.ParticleCapacity},
	}
	for _, mc := range cfg.Assets.Models {
		regs = append(regs, registration{mc.Name, KindProp, loadModel(mc), mc.Capacity})
	}

	for _, r := range regs {
		mi, err := w.objects.RegisterMesh(r.mesh, r.capacity)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", r.name, err)
		}
		order := len(w.byKind[r.kind])
		w.byKind[r.kind] = append(w.byKind[r.kind], len(w.entities))
		w.entities = append(w.entities, Entity{
			Name:     r.name,
			Kind:     r.kind,
			Mesh:     mi,
			Capacity: r.capacity,
			Order:    order,
			Bounds:   r.mesh.Bounds(),
		})
	}

	if err := w.objects.FinalizeObjects(); err != nil {
		return nil, err
	}

	for i := range w.entities {
		e := &w.entities[i]
		if err := behaviors[e.Kind].Spawn(w, e); err != nil {
			return nil, fmt.Errorf("spawn %s: %w", e.Name, err)
		}
	}

	w.log.Info("world ready",
		zap.Int("entities", len(w.entities)),
		zap.Int("active", w.objects.Stats().Active))
	return w, nil
}

// loadModel loads an OBJ model, substituting a unit cube when the file
// cannot be read.
func loadModel(mc config.ModelConfig) *mesh.Mesh {
	m, err := mesh.LoadOBJFile(mc.Path)
	if err == nil {
		err = m.Validate()
	}
	if err != nil {
		logger.Warn("model load failed, using placeholder",
			zap.String("name", mc.Name),
			zap.String("path", mc.Path),
			zap.Error(err))
		m = mesh.Cube(1)
	}
	if mc.Name != "" {
		m.Name = mc.Name
	}
	return m
}

// Update advances every entity by dt seconds.
func (w *World) Update(dt float32) error {
	w.time += dt
	for i := range w.entities {
		e := &w.entities[i]
		if err := behaviors[e.Kind].Update(w, e, dt); err != nil {
			return fmt.Errorf("update %s: %w", e.Name, err)
		}
	}
	return nil
}

// Time returns the seconds simulated so far.
func (w *World) Time() float32 {
	return w.time
}

// Objects returns the world's object manager.
func (w *World) Objects() *objects.Manager {
	return w.objects
}

// Entities returns the entities of the given kind.
func (w *World) Entities(kind Kind) []Entity {
	idx := w.byKind[kind]
	out := make([]Entity, len(idx))
	for i, j := range idx {
		out[i] = w.entities[j]
	}
	return out
}

// SetGridVisible shows or hides the editor grid.
func (w *World) SetGridVisible(visible bool) error {
	for _, e := range w.Entities(KindGrid) {
		if err := w.objects.SetGroupEnabled(e.Mesh, visible); err != nil {
			return err
		}
	}
	return nil
}

// GridVisible reports whether the editor grid is drawn.
func (w *World) GridVisible() bool {
	for _, e := range w.Entities(KindGrid) {
		rec, err := w.objects.Record(e.Mesh)
		if err == nil && rec.Group.Enabled {
			return true
		}
	}
	return false
}

// Bounds returns the box enclosing every active object position,
// excluding the grid.
func (w *World) Bounds() (min, max math.Vec3) {
	first := true
	for _, e := range w.entities {
		if e.Kind == KindGrid {
			continue
		}
		for _, o := range w.objects.Objects(e.Mesh) {
			if first {
				min, max = o.Position, o.Position
				first = false
				continue
			}
			min = min.Min(o.Position)
			max = max.Max(o.Position)
		}
	}
	return min, max
}

// pickable lists the kinds that can be removed by picking.
var pickable = map[Kind]bool{
	KindSpinner: true,
	KindOrbiter: true,
	KindProp:    true,
}

// PickTargets returns the groups that can be picked.
func (w *World) PickTargets() []picking.Target {
	var targets []picking.Target
	for _, e := range w.entities {
		if pickable[e.Kind] {
			targets = append(targets, picking.Target{Mesh: e.Mesh, Bounds: e.Bounds})
		}
	}
	return targets
}

// RemovePicked removes the nearest pickable object hit by r and returns
// its handle. It reports false when nothing was hit.
func (w *World) RemovePicked(r picking.Ray) (objects.Handle, bool, error) {
	h, _, ok := picking.Pick(r, w.objects, w.PickTargets())
	if !ok {
		return objects.Handle{}, false, nil
	}
	moved, err := w.objects.Remove(h)
	if err != nil {
		return objects.Handle{}, false, err
	}
	w.log.Debug("object removed",
		zap.Stringer("handle", h),
		zap.Stringer("moved", moved))
	return h, true, nil
}

// Close shuts down the object manager.
func (w *World) Close() {
	w.objects.Shutdown()
}
