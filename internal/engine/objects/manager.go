package objects

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tachyon/internal/engine/mesh"
	"github.com/Faultbox/tachyon/internal/logger"
	"github.com/Faultbox/tachyon/pkg/math"
)

type phase int

const (
	phaseSetup phase = iota
	phaseRunning
	phaseShutdown
)

func (p phase) String() string {
	switch p {
	case phaseSetup:
		return "setup"
	case phaseRunning:
		return "running"
	case phaseShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Options configures a Manager.
type Options struct {
	// Strict makes programmer errors (capacity overflow, bad mesh index,
	// stale handle, phase violations) panic instead of returning an error.
	Strict bool
	// Logger receives error reports. Defaults to the "objects" logger.
	Logger *zap.Logger
}

// Manager owns the mesh pack, every object group and the packed GPU rows.
//
// Registration happens in the setup phase. FinalizeObjects sizes the flat
// slot array once and switches to the running phase, where objects are
// created, committed and removed. The manager is not safe for concurrent
// use; all mutation must finish before the frame's draw commands are read.
type Manager struct {
	pack  Pack
	phase phase

	slots      []Object
	transforms []math.Mat4
	surfaces   []uint32

	strict bool
	log    *zap.Logger
}

// NewManager creates an empty manager in the setup phase.
func NewManager(opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = logger.Named("objects")
	}
	return &Manager{
		strict: opts.Strict,
		log:    log,
	}
}

// RegisterMesh appends m to the pack and allocates a group of the given
// capacity for it. Registering the same mesh twice yields two independent
// records. It must be called before FinalizeObjects.
func (m *Manager) RegisterMesh(msh *mesh.Mesh, capacity int) (MeshIndex, error) {
	if m.phase != phaseSetup {
		return -1, m.fail("register mesh", ErrFinalized, zap.Stringer("phase", m.phase))
	}
	if capacity < 1 {
		return -1, m.fail("register mesh", ErrInvalidCapacity, zap.Int("capacity", capacity))
	}
	if msh == nil {
		return -1, m.fail("register mesh", ErrInvalidMesh)
	}
	if err := msh.Validate(); err != nil {
		return -1, m.fail("register mesh", fmt.Errorf("%w: %w", ErrInvalidMesh, err),
			zap.String("name", msh.Name))
	}

	idx := m.pack.add(msh, capacity)
	rec := &m.pack.Records[idx]
	m.log.Debug("mesh registered",
		zap.Int("mesh", int(idx)),
		zap.String("name", rec.Name),
		zap.Int("vertices", rec.VertexCount()),
		zap.Int("indices", rec.IndexCount()),
		zap.Int("capacity", capacity))
	return idx, nil
}

// FinalizeObjects allocates the flat slot array and packed rows, sized to
// the sum of all group capacities, and assigns each group its span. It
// must be called exactly once, after the last RegisterMesh.
func (m *Manager) FinalizeObjects() error {
	if m.phase != phaseSetup {
		return m.fail("finalize objects", ErrFinalized, zap.Stringer("phase", m.phase))
	}

	total := 0
	for i := range m.pack.Records {
		total += m.pack.Records[i].Group.Capacity
	}

	m.slots = make([]Object, total)
	m.transforms = make([]math.Mat4, total)
	m.surfaces = make([]uint32, total)

	offset := 0
	for i := range m.pack.Records {
		g := &m.pack.Records[i].Group
		g.ObjectOffset = offset
		g.slots = m.slots[offset : offset+g.Capacity : offset+g.Capacity]
		for s := range g.slots {
			g.slots[s] = Object{mesh: MeshIndex(i), slot: s, generation: 1}
			g.slots[s].reset()
		}
		offset += g.Capacity
	}
	for i := range m.transforms {
		m.transforms[i] = math.Identity()
	}

	m.phase = phaseRunning
	m.log.Info("objects finalized",
		zap.Int("meshes", len(m.pack.Records)),
		zap.Int("slots", total),
		zap.Int("vertices", len(m.pack.Vertices)),
		zap.Int("indices", len(m.pack.Indices)))
	return nil
}

// Create activates the next free slot of the mesh's group, resets it to
// defaults, commits it and returns it. A full group is left untouched and
// ErrCapacityExceeded is returned.
func (m *Manager) Create(mi MeshIndex) (*Object, error) {
	if err := m.running(); err != nil {
		return nil, m.fail("create object", err)
	}
	g, err := m.group(mi)
	if err != nil {
		return nil, m.fail("create object", err, zap.Int("mesh", int(mi)))
	}
	if g.Full() {
		return nil, m.fail("create object",
			fmt.Errorf("mesh %d (%s) holds %d objects: %w", mi, m.pack.Records[mi].Name, g.Capacity, ErrCapacityExceeded),
			zap.Int("mesh", int(mi)),
			zap.Int("capacity", g.Capacity))
	}

	o := &g.slots[g.TotalActive]
	o.reset()
	g.TotalActive++
	g.updateVisible()
	m.writeRows(o)
	return o, nil
}

// Get returns the object named by h.
func (m *Manager) Get(h Handle) (*Object, error) {
	o, err := m.lookup(h)
	if err != nil {
		return nil, m.fail("get object", err, h.fields()...)
	}
	return o, nil
}

// Remove deactivates the object named by h. The group's last active
// object is moved into the freed slot, logical data and packed rows
// alike, and its new handle is returned. The returned handle is zero when
// the removed object was the last one. Handles to the removed object and
// to the moved object's old slot become stale.
func (m *Manager) Remove(h Handle) (Handle, error) {
	o, err := m.lookup(h)
	if err != nil {
		return Handle{}, m.fail("remove object", err, h.fields()...)
	}
	g := &m.pack.Records[h.Mesh].Group

	last := g.TotalActive - 1
	var moved Handle
	if o.slot != last {
		src := &g.slots[last]
		o.Transform = src.Transform
		o.Surface = src.Surface
		o.generation++

		dst, from := g.ObjectOffset+o.slot, g.ObjectOffset+last
		m.transforms[dst] = m.transforms[from]
		m.surfaces[dst] = m.surfaces[from]
		moved = o.Handle()
	}
	g.slots[last].generation++
	g.TotalActive--
	g.updateVisible()
	return moved, nil
}

// RemoveAll deactivates every object of the mesh's group. All handles
// previously issued for the group become stale.
func (m *Manager) RemoveAll(mi MeshIndex) error {
	if err := m.running(); err != nil {
		return m.fail("remove all", err)
	}
	g, err := m.group(mi)
	if err != nil {
		return m.fail("remove all", err, zap.Int("mesh", int(mi)))
	}
	for i := range g.active() {
		g.slots[i].generation++
	}
	g.TotalActive = 0
	g.updateVisible()
	return nil
}

// SetGroupEnabled shows or hides every object of the mesh's group without
// touching instance data. A disabled group draws zero instances.
func (m *Manager) SetGroupEnabled(mi MeshIndex, enabled bool) error {
	g, err := m.group(mi)
	if err != nil {
		return m.fail("set group enabled", err, zap.Int("mesh", int(mi)))
	}
	g.Enabled = enabled
	g.updateVisible()
	return nil
}

// Objects returns the active objects of the mesh's group. Elements may
// be modified in place and committed. The slice is only valid until the
// next Create, Remove or RemoveAll on the group. It is nil for an unknown
// mesh or before FinalizeObjects.
func (m *Manager) Objects(mi MeshIndex) []Object {
	if m.phase != phaseRunning {
		return nil
	}
	g, err := m.group(mi)
	if err != nil {
		m.fail("objects", err, zap.Int("mesh", int(mi)))
		return nil
	}
	return g.active()
}

// Handles returns a fresh slice of handles to the active objects of the
// mesh's group.
func (m *Manager) Handles(mi MeshIndex) []Handle {
	objs := m.Objects(mi)
	if objs == nil {
		return nil
	}
	handles := make([]Handle, len(objs))
	for i := range objs {
		handles[i] = objs[i].Handle()
	}
	return handles
}

// Record returns a copy of the pack record for mi.
func (m *Manager) Record(mi MeshIndex) (Record, error) {
	if int(mi) < 0 || int(mi) >= len(m.pack.Records) {
		return Record{}, fmt.Errorf("mesh %d: %w", mi, ErrInvalidMesh)
	}
	rec := m.pack.Records[mi]
	rec.Group.slots = nil
	return rec, nil
}

// MeshCount returns the number of registered meshes.
func (m *Manager) MeshCount() int {
	return len(m.pack.Records)
}

// Geometry returns the packed vertex and index streams.
func (m *Manager) Geometry() ([]mesh.Vertex, []uint32) {
	return m.pack.Vertices, m.pack.Indices
}

// Finalized reports whether FinalizeObjects has run.
func (m *Manager) Finalized() bool {
	return m.phase != phaseSetup
}

// Shutdown releases the slot array and packed rows. The manager rejects
// every mutation afterwards.
func (m *Manager) Shutdown() {
	if m.phase == phaseShutdown {
		return
	}
	m.log.Info("objects shutdown", m.Stats().fields()...)
	for i := range m.pack.Records {
		g := &m.pack.Records[i].Group
		g.slots = nil
		g.TotalActive = 0
		g.TotalVisible = 0
	}
	m.slots = nil
	m.transforms = nil
	m.surfaces = nil
	m.phase = phaseShutdown
}

// Stats summarizes the manager for logging.
type Stats struct {
	Meshes   int
	Slots    int
	Active   int
	Visible  int
	Vertices int
	Indices  int
}

// Stats returns current totals across all groups.
func (m *Manager) Stats() Stats {
	s := Stats{
		Meshes:   len(m.pack.Records),
		Vertices: len(m.pack.Vertices),
		Indices:  len(m.pack.Indices),
	}
	for i := range m.pack.Records {
		g := &m.pack.Records[i].Group
		s.Slots += g.Capacity
		s.Active += g.TotalActive
		s.Visible += g.TotalVisible
	}
	return s
}

func (s Stats) fields() []zap.Field {
	return []zap.Field{
		zap.Int("meshes", s.Meshes),
		zap.Int("slots", s.Slots),
		zap.Int("active", s.Active),
		zap.Int("visible", s.Visible),
	}
}

func (m *Manager) running() error {
	switch m.phase {
	case phaseSetup:
		return ErrNotFinalized
	case phaseShutdown:
		return ErrFinalized
	}
	return nil
}

func (m *Manager) group(mi MeshIndex) (*Group, error) {
	if int(mi) < 0 || int(mi) >= len(m.pack.Records) {
		return nil, fmt.Errorf("mesh %d of %d: %w", mi, len(m.pack.Records), ErrInvalidMesh)
	}
	return &m.pack.Records[mi].Group, nil
}

// lookup resolves h to its live slot.
func (m *Manager) lookup(h Handle) (*Object, error) {
	if err := m.running(); err != nil {
		return nil, err
	}
	g, err := m.group(h.Mesh)
	if err != nil {
		return nil, err
	}
	if !g.validSlot(h.Slot) {
		return nil, fmt.Errorf("%s: slot not active: %w", h, ErrStaleHandle)
	}
	o := &g.slots[h.Slot]
	if o.generation != h.Generation {
		return nil, fmt.Errorf("%s: slot is at gen %d: %w", h, o.generation, ErrStaleHandle)
	}
	return o, nil
}

// fail logs err and returns it, or panics in strict mode.
func (m *Manager) fail(op string, err error, fields ...zap.Field) error {
	err = fmt.Errorf("%s: %w", op, err)
	if m.strict {
		m.log.Error("strict mode violation", append(fields, zap.Error(err))...)
		panic(err)
	}
	m.log.Error(op+" failed", append(fields, zap.Error(err))...)
	return err
}

func (h Handle) fields() []zap.Field {
	return []zap.Field{
		zap.Int("mesh", int(h.Mesh)),
		zap.Int("slot", h.Slot),
		zap.Uint32("generation", h.Generation),
	}
}
