package game

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/tachyon/internal/engine/objects"
	"github.com/Faultbox/tachyon/pkg/math"
)

// Kind identifies what an entity does each frame.
type Kind int

const (
	KindGrid Kind = iota
	KindSpinner
	KindOrbiter
	KindParticles
	KindProp
)

func (k Kind) String() string {
	switch k {
	case KindGrid:
		return "grid"
	case KindSpinner:
		return "spinner"
	case KindOrbiter:
		return "orbiter"
	case KindParticles:
		return "particles"
	case KindProp:
		return "prop"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Behavior drives every instance of one mesh.
type Behavior interface {
	// Spawn creates the initial instances after objects are finalized.
	Spawn(w *World, e *Entity) error
	// Update advances the instances by dt seconds and commits them.
	Update(w *World, e *Entity, dt float32) error
}

// behaviors maps each entity kind to its behavior.
var behaviors = map[Kind]Behavior{
	KindGrid:      gridBehavior{},
	KindSpinner:   spinnerBehavior{spacing: 2.5, speed: 1.2},
	KindOrbiter:   orbiterBehavior{radius: 9, speed: 0.4},
	KindParticles: particleBehavior{lifetime: 2.5, height: 6, spread: 3},
	KindProp:      propBehavior{spacing: 4},
}

// gridBehavior places a single floor plane.
type gridBehavior struct{}

func (gridBehavior) Spawn(w *World, e *Entity) error {
	o, err := w.objects.Create(e.Mesh)
	if err != nil {
		return err
	}
	o.Color = objects.RGB(60, 60, 70)
	o.Material = objects.Material{Roughness: 0.9}
	return w.objects.Commit(o)
}

func (gridBehavior) Update(*World, *Entity, float32) error {
	return nil
}

// spinnerBehavior fills its group with a square field of rotating cubes.
type spinnerBehavior struct {
	spacing float32
	speed   float32
}

func (b spinnerBehavior) Spawn(w *World, e *Entity) error {
	side := int(math32.Ceil(math32.Sqrt(float32(e.Capacity))))
	half := float32(side-1) * 0.5
	for i := 0; i < e.Capacity; i++ {
		o, err := w.objects.Create(e.Mesh)
		if err != nil {
			return err
		}
		col, row := float32(i%side), float32(i/side)
		o.Position = math.Vec3{X: (col - half) * b.spacing, Y: 1, Z: (row - half) * b.spacing}
		o.Scale = math.Vec3{X: 0.8, Y: 0.8, Z: 0.8}
		o.Color = objects.Color{R: col / float32(side), G: 0.4, B: row / float32(side), A: 1}
		o.Material = objects.Material{
			Roughness: 0.2 + 0.8*col/float32(side),
			Metalness: row / float32(side),
		}
		if err := w.objects.Commit(o); err != nil {
			return err
		}
	}
	return nil
}

func (b spinnerBehavior) Update(w *World, e *Entity, dt float32) error {
	axis := math.Vec3{X: 0.3, Y: 1}.Normalize()
	step := math.QuatFromAxisAngle(axis, b.speed*dt)
	objs := w.objects.Objects(e.Mesh)
	for i := range objs {
		o := &objs[i]
		o.Rotation = step.Mul(o.Rotation).Normalize()
		if err := w.objects.Commit(o); err != nil {
			return err
		}
	}
	return nil
}

// orbiterBehavior moves spheres on concentric rings around the origin.
type orbiterBehavior struct {
	radius float32
	speed  float32
}

func (b orbiterBehavior) Spawn(w *World, e *Entity) error {
	for i := 0; i < e.Capacity; i++ {
		o, err := w.objects.Create(e.Mesh)
		if err != nil {
			return err
		}
		t := float32(i) / float32(e.Capacity)
		o.Color = objects.Color{R: 1 - t, G: 0.6, B: t, A: 1}
		o.Material = objects.Material{Roughness: 0.3, Clearcoat: 1}
	}
	return b.Update(w, e, 0)
}

func (b orbiterBehavior) Update(w *World, e *Entity, _ float32) error {
	objs := w.objects.Objects(e.Mesh)
	n := float32(len(objs))
	for i := range objs {
		o := &objs[i]
		ring := float32(i % 3)
		angle := w.Time()*b.speed*(1+0.3*ring) + 2*math32.Pi*float32(i)/n
		r := b.radius + ring*2.5
		o.Position = math.Vec3{
			X: r * math32.Cos(angle),
			Y: 3 + 0.5*math32.Sin(angle*2),
			Z: r * math32.Sin(angle),
		}
		if err := w.objects.Commit(o); err != nil {
			return err
		}
	}
	return nil
}

// particleBehavior rebuilds a fountain from scratch every frame.
type particleBehavior struct {
	lifetime float32
	height   float32
	spread   float32
}

func (b particleBehavior) Spawn(w *World, e *Entity) error {
	return b.Update(w, e, 0)
}

func (b particleBehavior) Update(w *World, e *Entity, _ float32) error {
	if err := w.objects.RemoveAll(e.Mesh); err != nil {
		return err
	}

	const golden = 0.618034
	for i := 0; i < e.Capacity; i++ {
		age := fract(w.Time()/b.lifetime + float32(i)*golden)
		angle := float32(i) * 2.39996

		o, err := w.objects.Create(e.Mesh)
		if err != nil {
			return err
		}
		o.Position = math.Vec3{
			X: math32.Cos(angle) * b.spread * age,
			Y: 4 * b.height * age * (1 - age),
			Z: math32.Sin(angle) * b.spread * age,
		}
		s := 1 - age
		o.Scale = math.Vec3{X: s, Y: s, Z: s}
		o.Color = objects.Color{R: 1, G: 0.8 * s, B: 0.2 * s, A: s}
		o.Material = objects.Material{Roughness: 1, Subsurface: 1}
		if err := w.objects.Commit(o); err != nil {
			return err
		}
	}
	return nil
}

// propBehavior lines up static instances of a loaded model.
type propBehavior struct {
	spacing float32
}

func (b propBehavior) Spawn(w *World, e *Entity) error {
	for i := 0; i < e.Capacity; i++ {
		o, err := w.objects.Create(e.Mesh)
		if err != nil {
			return err
		}
		o.Position = math.Vec3{X: float32(i) * b.spacing, Z: -20 - float32(e.Order)*b.spacing}
		o.Material = objects.Material{Roughness: 0.5}
		if err := w.objects.Commit(o); err != nil {
			return err
		}
	}
	return nil
}

func (propBehavior) Update(*World, *Entity, float32) error {
	return nil
}

func fract(x float32) float32 {
	return x - math32.Floor(x)
}
