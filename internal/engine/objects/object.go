package objects

import "github.com/Faultbox/tachyon/pkg/math"

// Transform is the placement of an object in world space.
type Transform struct {
	Position math.Vec3
	Scale    math.Vec3
	Rotation math.Quat
}

// DefaultTransform returns the transform at the origin with unit scale and
// no rotation.
func DefaultTransform() Transform {
	return Transform{
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Rotation: math.QuatIdentity(),
	}
}

// Matrix returns Translate(position) * Scale(scale) * Rotate(rotation).
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Position, t.Scale, t.Rotation)
}

// Object is one instance of a mesh. It lives in a slot owned by its
// group; mutate it in place and call Manager.Commit to publish the change
// to the GPU rows.
type Object struct {
	Transform
	Surface

	mesh       MeshIndex
	slot       int
	generation uint32
}

// Mesh returns the mesh this object is an instance of.
func (o *Object) Mesh() MeshIndex {
	return o.mesh
}

// Slot returns the object's current slot within its group.
func (o *Object) Slot() int {
	return o.slot
}

// Handle returns a handle naming this object in its current slot.
func (o *Object) Handle() Handle {
	return Handle{Mesh: o.mesh, Slot: o.slot, Generation: o.generation}
}

// reset restores the logical fields to their defaults, keeping identity.
func (o *Object) reset() {
	o.Transform = DefaultTransform()
	o.Surface = Surface{Color: White, Material: DefaultMaterial}
}
