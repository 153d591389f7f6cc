package objects

// Group is the fixed-capacity set of live instances of one mesh.
//
// Slots [0, TotalActive) are live. TotalVisible is TotalActive while the
// group is enabled and 0 while it is disabled, so
// 0 <= TotalVisible <= TotalActive <= Capacity always holds.
//
// ObjectOffset is the start of the group's span in the flat slot array
// and in the packed transform and surface rows. It is assigned by
// FinalizeObjects.
type Group struct {
	Capacity     int
	TotalActive  int
	TotalVisible int
	ObjectOffset int
	Enabled      bool

	slots []Object
}

// Full reports whether no free slot is left.
func (g *Group) Full() bool {
	return g.TotalActive >= g.Capacity
}

func (g *Group) updateVisible() {
	if g.Enabled {
		g.TotalVisible = g.TotalActive
	} else {
		g.TotalVisible = 0
	}
}

// active returns the live slots.
func (g *Group) active() []Object {
	return g.slots[:g.TotalActive]
}

func (g *Group) validSlot(slot int) bool {
	return slot >= 0 && slot < g.TotalActive
}
