package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tachyon/internal/engine/mesh"
	"github.com/Faultbox/tachyon/internal/engine/objects"
	"github.com/Faultbox/tachyon/internal/logger"
	"github.com/Faultbox/tachyon/pkg/math"
)

// ErrNotFinalized is returned when rendering before objects are finalized.
var ErrNotFinalized = errors.New("renderer: objects not finalized")

// Frame holds the per-frame view state.
type Frame struct {
	View       math.Mat4
	Projection math.Mat4
	CameraPos  math.Vec3
	LightDir   math.Vec3
	Ambient    math.Vec3
}

// ViewProj returns Projection * View.
func (f Frame) ViewProj() math.Mat4 {
	return f.Projection.Mul(f.View)
}

// Geometry is the packed mesh data and the number of instance slots
// the submitter must reserve.
type Geometry struct {
	Vertices []mesh.Vertex
	Indices  []uint32
	Slots    int
}

// Submitter issues GPU work. Prepare is called once, before the first
// Draw. Draw receives the full packed instance rows and one command per
// mesh and must submit every command in a single indirect multi-draw.
type Submitter interface {
	Prepare(geo Geometry) error
	Draw(frame Frame, transforms []math.Mat4, surfaces []uint32, cmds []objects.DrawCommand)
}

// FrameStats summarizes one submitted frame.
type FrameStats struct {
	Commands  int
	Instances int
	Triangles int
}

// Pipeline turns the object manager state into one submission per frame.
type Pipeline struct {
	objects   *objects.Manager
	submitter Submitter
	prepared  bool
	cmds      []objects.DrawCommand
	log       *zap.Logger
}

// NewPipeline creates a pipeline reading from objs and submitting to s.
func NewPipeline(objs *objects.Manager, s Submitter) *Pipeline {
	return &Pipeline{
		objects:   objs,
		submitter: s,
		log:       logger.Named("renderer"),
	}
}

// RenderFrame uploads the geometry on first use, builds the draw
// commands from the current group counts and submits them.
func (p *Pipeline) RenderFrame(frame Frame) (FrameStats, error) {
	if !p.objects.Finalized() {
		return FrameStats{}, ErrNotFinalized
	}

	if !p.prepared {
		verts, indices := p.objects.Geometry()
		geo := Geometry{Vertices: verts, Indices: indices, Slots: len(p.objects.Transforms())}
		if err := p.submitter.Prepare(geo); err != nil {
			return FrameStats{}, fmt.Errorf("prepare geometry: %w", err)
		}
		p.prepared = true
		p.cmds = make([]objects.DrawCommand, 0, p.objects.MeshCount())
		p.log.Info("geometry uploaded",
			zap.Int("vertices", len(verts)),
			zap.Int("indices", len(indices)),
			zap.Int("slots", geo.Slots))
	}

	p.cmds = p.objects.DrawCommands(p.cmds)

	var stats FrameStats
	stats.Commands = len(p.cmds)
	for _, c := range p.cmds {
		stats.Instances += int(c.InstanceCount)
		stats.Triangles += int(c.InstanceCount) * int(c.Count) / 3
	}

	p.submitter.Draw(frame, p.objects.Transforms(), p.objects.Surfaces(), p.cmds)
	return stats, nil
}

// Commands returns the commands of the last rendered frame.
func (p *Pipeline) Commands() []objects.DrawCommand {
	return p.cmds
}
