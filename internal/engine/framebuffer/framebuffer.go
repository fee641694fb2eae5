// Package framebuffer provides OpenGL framebuffer utilities for offscreen rendering.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Options controls the attachments of a framebuffer.
type Options struct {
	// Samples is the MSAA sample count. Values below 2 create a plain
	// texture-backed target.
	Samples int32
	// ColorFormat is the GL internal format of the color attachment.
	// Zero selects gl.RGBA8.
	ColorFormat uint32
}

// Framebuffer manages an offscreen render target with color and depth attachments.
// A multisampled framebuffer stores color in a renderbuffer and must be
// resolved with a blit before it can be sampled or read.
type Framebuffer struct {
	fbo          uint32
	colorTexture uint32
	colorRBO     uint32
	depthRBO     uint32
	width        int32
	height       int32
	opts         Options
}

// New creates a new framebuffer with the specified dimensions.
func New(width, height int32, opts Options) (*Framebuffer, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if opts.ColorFormat == 0 {
		opts.ColorFormat = gl.RGBA8
	}
	if opts.Samples > 1 {
		var maxSamples int32
		gl.GetIntegerv(gl.MAX_SAMPLES, &maxSamples)
		if maxSamples > 0 && opts.Samples > maxSamples {
			opts.Samples = maxSamples
		}
	}

	fb := &Framebuffer{
		width:  width,
		height: height,
		opts:   opts,
	}

	if err := fb.create(); err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	return fb, nil
}

func (fb *Framebuffer) create() error {
	// Create framebuffer object
	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	fb.allocate()

	if fb.Multisampled() {
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, fb.colorRBO)
	} else {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.colorTexture, 0)
	}
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)

	// Check framebuffer completeness
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Destroy()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	return nil
}

// allocate creates (or re-specifies) color and depth storage at the
// current size.
func (fb *Framebuffer) allocate() {
	if fb.Multisampled() {
		if fb.colorRBO == 0 {
			gl.GenRenderbuffers(1, &fb.colorRBO)
		}
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.colorRBO)
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, fb.opts.Samples, fb.opts.ColorFormat, fb.width, fb.height)
	} else {
		if fb.colorTexture == 0 {
			gl.GenTextures(1, &fb.colorTexture)
		}
		gl.BindTexture(gl.TEXTURE_2D, fb.colorTexture)
		gl.TexImage2D(gl.TEXTURE_2D, 0, int32(fb.opts.ColorFormat), fb.width, fb.height, 0, gl.RGBA, pixelType(fb.opts.ColorFormat), nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}

	if fb.depthRBO == 0 {
		gl.GenRenderbuffers(1, &fb.depthRBO)
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	if fb.Multisampled() {
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, fb.opts.Samples, gl.DEPTH_COMPONENT24, fb.width, fb.height)
	} else {
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, fb.width, fb.height)
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

// pixelType is the client-side type used when specifying texture storage.
func pixelType(internalFormat uint32) uint32 {
	switch internalFormat {
	case gl.RGBA16F, gl.RGBA32F:
		return gl.FLOAT
	default:
		return gl.UNSIGNED_BYTE
	}
}

// BindWithViewport binds and sets viewport, saving previous state.
// Returns a restore function to restore the previous framebuffer and viewport.
func (fb *Framebuffer) BindWithViewport() func() {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, fb.width, fb.height)

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	}
}

// Clear clears color and depth buffers with the specified color.
func (fb *Framebuffer) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// FBO returns the underlying framebuffer object ID.
func (fb *Framebuffer) FBO() uint32 {
	return fb.fbo
}

// Samples returns the MSAA sample count (1 when not multisampled).
func (fb *Framebuffer) Samples() int32 {
	if fb.opts.Samples < 2 {
		return 1
	}
	return fb.opts.Samples
}

// Multisampled reports whether the color attachment is multisampled.
func (fb *Framebuffer) Multisampled() bool {
	return fb.opts.Samples > 1
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize updates the framebuffer dimensions if they have changed.
func (fb *Framebuffer) Resize(width, height int32) {
	if width == fb.width && height == fb.height {
		return
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	fb.width = width
	fb.height = height
	fb.allocate()
}

// ReadPixels reads the framebuffer color attachment into a byte slice.
// Returns RGBA data in OpenGL row order (origin at bottom-left).
// Multisampled framebuffers cannot be read directly.
func (fb *Framebuffer) ReadPixels() ([]byte, error) {
	if fb.Multisampled() {
		return nil, fmt.Errorf("read pixels: framebuffer is multisampled (%d samples)", fb.opts.Samples)
	}

	pixels := make([]byte, fb.width*fb.height*4)

	// Bind our framebuffer to read from it
	var prevFBO int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.fbo)

	gl.ReadPixels(0, 0, fb.width, fb.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	// Restore previous framebuffer
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prevFBO))

	return pixels, nil
}

// Release implements the render target contract of the mirror host.
func (fb *Framebuffer) Release() {
	fb.Destroy()
}

// Destroy releases all OpenGL resources.
func (fb *Framebuffer) Destroy() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if fb.colorTexture != 0 {
		gl.DeleteTextures(1, &fb.colorTexture)
		fb.colorTexture = 0
	}
	if fb.colorRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.colorRBO)
		fb.colorRBO = 0
	}
	if fb.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRBO)
		fb.depthRBO = 0
	}
}
