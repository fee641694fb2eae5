// Package texarray manages OpenGL 2D array textures that are filled one
// layer at a time by framebuffer blits.
package texarray

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Array is a GL_TEXTURE_2D_ARRAY with a helper framebuffer used to
// address single layers.
type Array struct {
	texture uint32
	fbo     uint32
	width   int32
	height  int32
	layers  int32
	format  uint32
}

// New allocates an array texture of the given size, layer count and GL
// internal format (gl.RGBA8 when zero).
func New(width, height int32, layers int, internalFormat uint32) (*Array, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("texture array: invalid size %dx%d", width, height)
	}
	if layers < 1 {
		return nil, fmt.Errorf("texture array: invalid layer count %d", layers)
	}
	if internalFormat == 0 {
		internalFormat = gl.RGBA8
	}

	var maxLayers int32
	gl.GetIntegerv(gl.MAX_ARRAY_TEXTURE_LAYERS, &maxLayers)
	if maxLayers > 0 && int32(layers) > maxLayers {
		return nil, fmt.Errorf("texture array: %d layers exceeds limit %d", layers, maxLayers)
	}

	a := &Array{
		width:  width,
		height: height,
		layers: int32(layers),
		format: internalFormat,
	}

	gl.GenTextures(1, &a.texture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, a.texture)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, int32(internalFormat), width, height, a.layers, 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	gl.GenFramebuffers(1, &a.fbo)

	// Validate that a layer can be attached as a color target.
	gl.BindFramebuffer(gl.FRAMEBUFFER, a.fbo)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, a.texture, 0, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		a.Release()
		return nil, fmt.Errorf("texture array: layer framebuffer incomplete: 0x%x", status)
	}

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		a.Release()
		return nil, fmt.Errorf("texture array: GL error 0x%x", errCode)
	}

	return a, nil
}

// ID returns the GL texture name.
func (a *Array) ID() uint32 {
	return a.texture
}

// Size returns the size of each layer.
func (a *Array) Size() (width, height int32) {
	return a.width, a.height
}

// Layers returns the number of layers.
func (a *Array) Layers() int {
	return int(a.layers)
}

// CopyFrom blits the color buffer of srcFBO into one layer. A
// multisampled source is resolved by the blit; the source must have the
// same size as the array.
func (a *Array) CopyFrom(srcFBO uint32, srcWidth, srcHeight int32, layer int) error {
	if layer < 0 || int32(layer) >= a.layers {
		return fmt.Errorf("texture array: layer %d out of range [0,%d)", layer, a.layers)
	}
	if srcWidth != a.width || srcHeight != a.height {
		return fmt.Errorf("texture array: source %dx%d does not match %dx%d", srcWidth, srcHeight, a.width, a.height)
	}

	var prevRead, prevDraw int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prevRead)
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &prevDraw)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, srcFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, a.fbo)
	gl.FramebufferTextureLayer(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, a.texture, 0, int32(layer))
	gl.BlitFramebuffer(0, 0, srcWidth, srcHeight, 0, 0, a.width, a.height, gl.COLOR_BUFFER_BIT, gl.NEAREST)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prevRead))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(prevDraw))

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		return fmt.Errorf("texture array: blit to layer %d: GL error 0x%x", layer, errCode)
	}
	return nil
}

// ReadLayer returns one layer as 8-bit RGBA in OpenGL row order
// (origin at bottom-left).
func (a *Array) ReadLayer(layer int) ([]byte, error) {
	if layer < 0 || int32(layer) >= a.layers {
		return nil, fmt.Errorf("texture array: layer %d out of range [0,%d)", layer, a.layers)
	}

	pixels := make([]byte, a.width*a.height*4)

	var prevRead int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prevRead)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, a.fbo)
	gl.FramebufferTextureLayer(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, a.texture, 0, int32(layer))
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.ReadPixels(0, 0, a.width, a.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prevRead))
	return pixels, nil
}

// Release deletes the texture and its helper framebuffer.
func (a *Array) Release() {
	if a.fbo != 0 {
		gl.DeleteFramebuffers(1, &a.fbo)
		a.fbo = 0
	}
	if a.texture != 0 {
		gl.DeleteTextures(1, &a.texture)
		a.texture = 0
	}
}
