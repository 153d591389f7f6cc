package objects

import "fmt"

// MeshIndex identifies a registered mesh. Indices are assigned in
// registration order starting at 0 and never change.
type MeshIndex int

// Handle names one live object. Handles are plain values and safe to copy.
//
// A slot's generation changes whenever the slot stops holding the object a
// handle was issued for: when it is removed, when another object is moved
// into it by swap-removal, or when the group is cleared. Operations on a
// handle whose generation no longer matches fail with ErrStaleHandle.
type Handle struct {
	Mesh       MeshIndex
	Slot       int
	Generation uint32
}

// IsZero reports whether h is the zero Handle. Generations start at 1,
// so the zero Handle never names an object.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("mesh %d slot %d gen %d", h.Mesh, h.Slot, h.Generation)
}
