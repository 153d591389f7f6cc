package objects

import "github.com/Faultbox/tachyon/pkg/math"

// Commit publishes o's transform and surface into its packed rows: the
// transposed TRS matrix and the surface word at ObjectOffset + Slot.
// Committing the same values twice writes the same rows.
//
// o is normally the pointer returned by Create or taken from Objects. A
// copy is accepted as long as it still names a live slot; its fields are
// then stored back into the slot.
func (m *Manager) Commit(o *Object) error {
	if o == nil {
		return m.fail("commit", ErrStaleHandle)
	}
	slot, err := m.lookup(o.Handle())
	if err != nil {
		return m.fail("commit", err, o.Handle().fields()...)
	}
	if slot != o {
		slot.Transform = o.Transform
		slot.Surface = o.Surface
	}
	m.writeRows(slot)
	return nil
}

// CommitValues sets the transform and surface of the object named by h
// and commits it.
func (m *Manager) CommitValues(h Handle, t Transform, s Surface) error {
	slot, err := m.lookup(h)
	if err != nil {
		return m.fail("commit", err, h.fields()...)
	}
	slot.Transform = t
	slot.Surface = s
	m.writeRows(slot)
	return nil
}

func (m *Manager) writeRows(o *Object) {
	row := m.pack.Records[o.mesh].Group.ObjectOffset + o.slot
	m.transforms[row] = o.Matrix().Transpose()
	m.surfaces[row] = PackSurface(o.Surface)
}

// Transforms returns the packed transform rows, one per slot of the flat
// slot array. Each matrix is stored transposed so that its rows can be
// read as four vec4 instance attributes.
func (m *Manager) Transforms() []math.Mat4 {
	return m.transforms
}

// Surfaces returns the packed surface words, laid out like Transforms.
func (m *Manager) Surfaces() []uint32 {
	return m.surfaces
}
