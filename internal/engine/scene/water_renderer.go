package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-mirror/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-mirror/internal/engine/shader"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// WaterRenderer handles water plane rendering. Water lives on the water
// layer, so it never shows up in reflections.
type WaterRenderer struct {
	// Shader
	program uint32

	// Uniform locations
	locMVP        int32
	locWaterColor int32
	locTime       int32

	// Mesh
	vao uint32
	vbo uint32

	// Water properties
	level     float32
	center    math.Vec3
	waterTime float32
	color     [4]float32
}

// NewWaterRenderer creates a water plane at level covering the square
// of the given half extent around center.
func NewWaterRenderer(center math.Vec3, level, halfExtent float32) (*WaterRenderer, error) {
	wr := &WaterRenderer{
		level:  level,
		center: math.Vec3{X: center.X, Y: level, Z: center.Z},
		color:  [4]float32{0.2, 0.4, 0.6, 0.7}, // Blue-ish water color
	}

	program, err := shader.CompileProgram(shaders.WaterVertexShader, shaders.WaterFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("water shader: %w", err)
	}
	wr.program = program

	// Get uniform locations
	if wr.locMVP, err = shader.RequireUniform(program, "uMVP"); err != nil {
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("water shader: %w", err)
	}
	wr.locWaterColor = shader.GetUniform(program, "uWaterColor")
	wr.locTime = shader.GetUniform(program, "uTime")

	wr.createWaterPlane(halfExtent)
	return wr, nil
}

func (wr *WaterRenderer) createWaterPlane(halfExtent float32) {
	quad := planeVertices(2*halfExtent, 2*halfExtent)
	vertices := make([]float32, len(quad))
	for i := 0; i < len(quad); i += 3 {
		vertices[i] = quad[i] + wr.center.X
		vertices[i+1] = wr.level
		vertices[i+2] = quad[i+2] + wr.center.Z
	}

	// Create VAO/VBO
	gl.GenVertexArrays(1, &wr.vao)
	gl.BindVertexArray(wr.vao)

	gl.GenBuffers(1, &wr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, wr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
}

// Center returns the centre of the water plane, used for layer culling.
func (wr *WaterRenderer) Center() math.Vec3 {
	return wr.center
}

// Update updates water animation.
func (wr *WaterRenderer) Update(deltaSeconds float32) {
	wr.waterTime += deltaSeconds
}

// Render renders the water plane.
func (wr *WaterRenderer) Render(viewProj math.Mat4) {
	if wr.vao == 0 {
		return
	}

	gl.UseProgram(wr.program)

	// Enable blending for transparency
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	defer gl.Disable(gl.BLEND)

	// Set uniforms
	gl.UniformMatrix4fv(wr.locMVP, 1, false, &viewProj[0])
	gl.Uniform4f(wr.locWaterColor, wr.color[0], wr.color[1], wr.color[2], wr.color[3])
	gl.Uniform1f(wr.locTime, wr.waterTime)

	gl.BindVertexArray(wr.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (wr *WaterRenderer) Destroy() {
	if wr.vao != 0 {
		gl.DeleteVertexArrays(1, &wr.vao)
		wr.vao = 0
	}
	if wr.vbo != 0 {
		gl.DeleteBuffers(1, &wr.vbo)
		wr.vbo = 0
	}
	if wr.program != 0 {
		gl.DeleteProgram(wr.program)
		wr.program = 0
	}
}
