package renderer

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tachyon/internal/engine/mesh"
	"github.com/Faultbox/tachyon/internal/engine/objects"
	"github.com/Faultbox/tachyon/internal/engine/renderer/shaders"
	"github.com/Faultbox/tachyon/internal/engine/shader"
	"github.com/Faultbox/tachyon/internal/logger"
	"github.com/Faultbox/tachyon/pkg/math"
)

// Vertex attribute locations.
const (
	locPosition  = 0
	locNormal    = 1
	locTangent   = 2
	locTexCoord  = 3
	locModelRow0 = 4
	locSurface   = 8
)

const mat4Size = 16 * 4

// GLSubmitter draws the packed meshes with one glMultiDrawElementsIndirect.
type GLSubmitter struct {
	program *shader.Program

	locViewProj  int32
	locLightDir  int32
	locCameraPos int32
	locAmbient   int32

	vao          uint32
	vbo          uint32
	ebo          uint32
	transformVBO uint32
	surfaceVBO   uint32
	indirectBuf  uint32

	slots       int
	indirectCap int
}

// NewGLSubmitter compiles the instanced shader program.
// Must be called with a current GL 4.6 context.
func NewGLSubmitter() (*GLSubmitter, error) {
	program, err := shader.Compile("instanced", shaders.InstancedVertexShader, shaders.InstancedFragmentShader)
	if err != nil {
		return nil, err
	}

	s := &GLSubmitter{program: program}
	s.locViewProj = program.MustUniform("uViewProj")
	s.locLightDir = program.Uniform("uLightDir")
	s.locCameraPos = program.Uniform("uCameraPos")
	s.locAmbient = program.Uniform("uAmbient")
	return s, nil
}

// Prepare uploads the packed geometry and allocates instance buffers
// for every slot.
func (s *GLSubmitter) Prepare(geo Geometry) error {
	if len(geo.Vertices) == 0 || len(geo.Indices) == 0 {
		return errors.New("no geometry registered")
	}
	if geo.Slots == 0 {
		return errors.New("no instance slots")
	}

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	// Static mesh geometry
	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(geo.Vertices)*mesh.VertexSize, unsafe.Pointer(&geo.Vertices[0]), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(locPosition)
	gl.VertexAttribPointerWithOffset(locPosition, 3, gl.FLOAT, false, mesh.VertexSize, mesh.OffsetPosition)
	gl.EnableVertexAttribArray(locNormal)
	gl.VertexAttribPointerWithOffset(locNormal, 3, gl.FLOAT, false, mesh.VertexSize, mesh.OffsetNormal)
	gl.EnableVertexAttribArray(locTangent)
	gl.VertexAttribPointerWithOffset(locTangent, 3, gl.FLOAT, false, mesh.VertexSize, mesh.OffsetTangent)
	gl.EnableVertexAttribArray(locTexCoord)
	gl.VertexAttribPointerWithOffset(locTexCoord, 2, gl.FLOAT, false, mesh.VertexSize, mesh.OffsetUV)

	gl.GenBuffers(1, &s.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(geo.Indices)*4, unsafe.Pointer(&geo.Indices[0]), gl.STATIC_DRAW)

	// Per-instance transform rows
	gl.GenBuffers(1, &s.transformVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.transformVBO)
	gl.BufferData(gl.ARRAY_BUFFER, geo.Slots*mat4Size, nil, gl.DYNAMIC_DRAW)
	for row := uint32(0); row < 4; row++ {
		loc := locModelRow0 + row
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, mat4Size, uintptr(row*16))
		gl.VertexAttribDivisor(loc, 1)
	}

	// Per-instance surface words
	gl.GenBuffers(1, &s.surfaceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.surfaceVBO)
	gl.BufferData(gl.ARRAY_BUFFER, geo.Slots*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(locSurface)
	gl.VertexAttribIPointer(locSurface, 1, gl.UNSIGNED_INT, 4, nil)
	gl.VertexAttribDivisor(locSurface, 1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.GenBuffers(1, &s.indirectBuf)
	s.slots = geo.Slots

	logger.Debug("indirect buffers created",
		zap.Uint32("vao", s.vao),
		zap.Int("slots", geo.Slots),
		zap.Int("vertexBytes", len(geo.Vertices)*mesh.VertexSize),
		zap.Int("indexBytes", len(geo.Indices)*4))
	return nil
}

// Draw uploads the instance rows and commands and issues the multi-draw.
func (s *GLSubmitter) Draw(frame Frame, transforms []math.Mat4, surfaces []uint32, cmds []objects.DrawCommand) {
	if len(cmds) == 0 || len(transforms) == 0 {
		return
	}
	n := min(len(transforms), s.slots)

	gl.BindBuffer(gl.ARRAY_BUFFER, s.transformVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*mat4Size, unsafe.Pointer(&transforms[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, s.surfaceVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*4, unsafe.Pointer(&surfaces[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, s.indirectBuf)
	size := len(cmds) * objects.DrawCommandSize
	if len(cmds) > s.indirectCap {
		gl.BufferData(gl.DRAW_INDIRECT_BUFFER, size, unsafe.Pointer(&cmds[0]), gl.DYNAMIC_DRAW)
		s.indirectCap = len(cmds)
	} else {
		gl.BufferSubData(gl.DRAW_INDIRECT_BUFFER, 0, size, unsafe.Pointer(&cmds[0]))
	}

	s.program.Use()
	viewProj := frame.ViewProj()
	gl.UniformMatrix4fv(s.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(s.locLightDir, frame.LightDir.X, frame.LightDir.Y, frame.LightDir.Z)
	gl.Uniform3f(s.locCameraPos, frame.CameraPos.X, frame.CameraPos.Y, frame.CameraPos.Z)
	gl.Uniform3f(s.locAmbient, frame.Ambient.X, frame.Ambient.Y, frame.Ambient.Z)

	gl.BindVertexArray(s.vao)
	gl.MultiDrawElementsIndirect(gl.TRIANGLES, gl.UNSIGNED_INT, nil, int32(len(cmds)), 0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, 0)
}

// Destroy releases all GL resources.
func (s *GLSubmitter) Destroy() {
	for _, buf := range []*uint32{&s.vbo, &s.ebo, &s.transformVBO, &s.surfaceVBO, &s.indirectBuf} {
		if *buf != 0 {
			gl.DeleteBuffers(1, buf)
			*buf = 0
		}
	}
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
	if s.program != nil {
		s.program.Delete()
	}
}
