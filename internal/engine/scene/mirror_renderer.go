package scene

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-mirror/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-mirror/internal/engine/shader"
	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// MirrorQuad draws a reflective surface. Its material receives the
// reflection array and the layer index from the mirror surface.
type MirrorQuad struct {
	Name    string
	Frame   mirror.Frame
	Layer   int
	Tint    [3]float32
	Visible bool

	material *shader.Material

	locModel    int32
	locViewProj int32
	locViewport int32
	locTint     int32

	vao uint32
	vbo uint32
}

// NewMirrorQuad builds a quad of the given size in the frame's local XZ
// plane. textureParam is the sampler name the reflection array is bound
// under.
func NewMirrorQuad(name string, frame mirror.Frame, width, depth float32, textureParam string) (*MirrorQuad, error) {
	frag := shaders.MirrorFragmentShader
	if textureParam != "" && textureParam != mirror.DefaultTextureParam {
		frag = strings.ReplaceAll(frag, mirror.DefaultTextureParam, textureParam)
	}

	program, err := shader.CompileProgram(shaders.MirrorVertexShader, frag)
	if err != nil {
		return nil, fmt.Errorf("mirror shader %s: %w", name, err)
	}

	mq := &MirrorQuad{
		Name:     name,
		Frame:    frame,
		Layer:    DefaultLayer,
		Tint:     [3]float32{0.92, 0.95, 1.0},
		Visible:  true,
		material: shader.NewMaterial(name, program),
	}
	mq.locModel = mq.material.Uniform("uModel")
	mq.locViewProj = mq.material.Uniform("uViewProj")
	mq.locViewport = mq.material.Uniform("uViewport")
	mq.locTint = mq.material.Uniform("uTint")

	vertices := planeVertices(width, depth)

	gl.GenVertexArrays(1, &mq.vao)
	gl.BindVertexArray(mq.vao)

	gl.GenBuffers(1, &mq.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mq.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)

	return mq, nil
}

// Material returns the material the mirror surface binds to.
func (mq *MirrorQuad) Material() *shader.Material {
	return mq.material
}

// Render draws the quad with the current material state.
func (mq *MirrorQuad) Render(viewProj math.Mat4, viewport [4]int32) {
	if mq.vao == 0 || !mq.Visible {
		return
	}

	mq.material.Apply(0)

	model := math.Translate(mq.Frame.Position).Mul(mq.Frame.Rotation.ToMat4())
	gl.UniformMatrix4fv(mq.locModel, 1, false, &model[0])
	gl.UniformMatrix4fv(mq.locViewProj, 1, false, &viewProj[0])
	gl.Uniform4f(mq.locViewport, float32(viewport[0]), float32(viewport[1]), float32(viewport[2]), float32(viewport[3]))
	gl.Uniform3f(mq.locTint, mq.Tint[0], mq.Tint[1], mq.Tint[2])

	gl.BindVertexArray(mq.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (mq *MirrorQuad) Destroy() {
	if mq.vao != 0 {
		gl.DeleteVertexArrays(1, &mq.vao)
		mq.vao = 0
	}
	if mq.vbo != 0 {
		gl.DeleteBuffers(1, &mq.vbo)
		mq.vbo = 0
	}
	mq.material.Destroy()
}
