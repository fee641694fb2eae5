// Package scene provides the layered demo scene drawn by both the
// on-screen camera and mirror reflection cameras.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-mirror/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-mirror/internal/engine/shader"
	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// Object is a coloured box placed on a culling layer.
type Object struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	Color    [3]float32
	Layer    int
}

// Model returns the object's model matrix.
func (o Object) Model() math.Mat4 {
	return math.Translate(o.Position).Mul(o.Rotation.ToMat4()).Mul(math.Scale(o.Scale.X, o.Scale.Y, o.Scale.Z))
}

// litProgram caches uniform locations of one lighting program.
type litProgram struct {
	program     uint32
	locModel    int32
	locViewProj int32
	locColor    int32
	locLightDir int32
	locAmbient  int32
	locEye      int32
}

func newLitProgram(vert, frag string) (litProgram, error) {
	program, err := shader.CompileProgram(vert, frag)
	if err != nil {
		return litProgram{}, err
	}
	p := litProgram{
		program:     program,
		locColor:    shader.GetUniform(program, "uColor"),
		locLightDir: shader.GetUniform(program, "uLightDir"),
		locAmbient:  shader.GetUniform(program, "uAmbient"),
		locEye:      shader.GetUniform(program, "uEye"),
	}

	// Transforms are required; lighting uniforms may be compiled out
	if p.locModel, err = shader.RequireUniform(program, "uModel"); err == nil {
		p.locViewProj, err = shader.RequireUniform(program, "uViewProj")
	}
	if err != nil {
		gl.DeleteProgram(program)
		return litProgram{}, err
	}
	return p, nil
}

// Scene holds the objects, water and mirrors of the demo.
type Scene struct {
	Objects []Object
	Mirrors []*MirrorQuad
	Water   *WaterRenderer

	// Lighting
	LightDir math.Vec3
	Ambient  [3]float32

	lit       litProgram
	vertexLit litProgram

	cubeVAO   uint32
	cubeVBO   uint32
	cubeCount int32
}

// New compiles the scene programs and uploads the shared cube mesh.
// Must be called with a current GL context.
func New() (*Scene, error) {
	s := &Scene{
		LightDir: math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize(),
		Ambient:  [3]float32{0.25, 0.25, 0.3},
	}

	var err error
	if s.lit, err = newLitProgram(shaders.LitVertexShader, shaders.LitFragmentShader); err != nil {
		return nil, fmt.Errorf("lit shader: %w", err)
	}
	if s.vertexLit, err = newLitProgram(shaders.VertexLitVertexShader, shaders.VertexLitFragmentShader); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("vertex-lit shader: %w", err)
	}

	vertices := cubeVertices()
	s.cubeCount = int32(len(vertices) / 6)

	gl.GenVertexArrays(1, &s.cubeVAO)
	gl.BindVertexArray(s.cubeVAO)

	gl.GenBuffers(1, &s.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(0)

	// Normal attribute
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	return s, nil
}

// AddObject places a box in the scene.
func (s *Scene) AddObject(o Object) {
	if o.Scale == (math.Vec3{}) {
		o.Scale = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	if o.Rotation == (math.Quat{}) {
		o.Rotation = math.QuatIdentity()
	}
	s.Objects = append(s.Objects, o)
}

// Mirror returns the mirror quad with the given name.
func (s *Scene) Mirror(name string) *MirrorQuad {
	for _, m := range s.Mirrors {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Draw renders the scene for one pass into the bound framebuffer. The
// caller owns framebuffer binding, clearing and face winding.
func (s *Scene) Draw(pass Pass) {
	viewProj := pass.ViewProjection()

	prog := s.lit
	if pass.Path == mirror.RenderPathVertexLit {
		prog = s.vertexLit
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	gl.UseProgram(prog.program)
	gl.UniformMatrix4fv(prog.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(prog.locLightDir, s.LightDir.X, s.LightDir.Y, s.LightDir.Z)
	gl.Uniform3f(prog.locAmbient, s.Ambient[0], s.Ambient[1], s.Ambient[2])
	if prog.locEye >= 0 {
		gl.Uniform3f(prog.locEye, pass.Eye.X, pass.Eye.Y, pass.Eye.Z)
	}

	gl.BindVertexArray(s.cubeVAO)
	for _, o := range s.Objects {
		if !pass.Visible(o.Layer, o.Position) {
			continue
		}
		model := o.Model()
		gl.UniformMatrix4fv(prog.locModel, 1, false, &model[0])
		gl.Uniform3f(prog.locColor, o.Color[0], o.Color[1], o.Color[2])
		gl.DrawArrays(gl.TRIANGLES, 0, s.cubeCount)
	}
	gl.BindVertexArray(0)

	gl.Disable(gl.CULL_FACE)

	if s.Water != nil && pass.Visible(mirror.WaterLayer, s.Water.Center()) {
		s.Water.Render(viewProj)
	}

	if pass.Reflection {
		return
	}

	var viewport [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &viewport[0])
	for _, m := range s.Mirrors {
		if pass.LayerVisible(m.Layer) {
			m.Render(viewProj, viewport)
		}
	}
}

// Update advances animated parts of the scene.
func (s *Scene) Update(deltaSeconds float32) {
	if s.Water != nil {
		s.Water.Update(deltaSeconds)
	}
}

// Destroy releases all GL resources, including mirrors and water.
func (s *Scene) Destroy() {
	for _, m := range s.Mirrors {
		m.Destroy()
	}
	s.Mirrors = nil
	if s.Water != nil {
		s.Water.Destroy()
		s.Water = nil
	}
	if s.cubeVAO != 0 {
		gl.DeleteVertexArrays(1, &s.cubeVAO)
		s.cubeVAO = 0
	}
	if s.cubeVBO != 0 {
		gl.DeleteBuffers(1, &s.cubeVBO)
		s.cubeVBO = 0
	}
	for _, p := range []*litProgram{&s.lit, &s.vertexLit} {
		if p.program != 0 {
			gl.DeleteProgram(p.program)
			p.program = 0
		}
	}
}
