package objects

import "go.uber.org/zap"

// DrawCommand matches the layout of DrawElementsIndirectCommand.
type DrawCommand struct {
	Count         uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	BaseInstance  uint32
}

// DrawCommandSize is the size of DrawCommand in bytes.
const DrawCommandSize = 5 * 4

// DrawCommands appends one command per registered mesh, in registration
// order, to dst[:0] and returns the result. Offsets come from each mesh
// record; the instance count is the group's visible total.
func (m *Manager) DrawCommands(dst []DrawCommand) []DrawCommand {
	dst = dst[:0]
	for i := range m.pack.Records {
		rec := &m.pack.Records[i]
		g := &rec.Group

		visible := g.TotalVisible
		if visible > g.Capacity {
			m.log.Error("visible count exceeds capacity, clamping",
				zap.Int("mesh", i),
				zap.Int("visible", visible),
				zap.Int("capacity", g.Capacity))
			visible = g.Capacity
		}

		dst = append(dst, DrawCommand{
			Count:         uint32(rec.IndexCount()),
			InstanceCount: uint32(visible),
			FirstIndex:    uint32(rec.IndexStart),
			BaseVertex:    int32(rec.VertexStart),
			BaseInstance:  uint32(g.ObjectOffset),
		})
	}
	return dst
}
