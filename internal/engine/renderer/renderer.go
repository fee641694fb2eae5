// Package renderer provides the OpenGL backend that mirror surfaces
// render their reflections through.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-mirror/internal/engine/scene"
	"github.com/Faultbox/midgard-mirror/internal/engine/texarray"
	"github.com/Faultbox/midgard-mirror/internal/mirror"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
}

// Drawer draws the scene for one pass into the bound framebuffer.
type Drawer interface {
	Draw(pass scene.Pass)
}

// Renderer handles all OpenGL rendering and implements mirror.Renderer.
type Renderer struct {
	config Config
	drawer Drawer
	log    *zap.Logger
}

var _ mirror.Renderer = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ClearColor == ([4]float32{}) {
		cfg.ClearColor = [4]float32{0.1, 0.1, 0.15, 1.0} // Dark blue-gray background
	}

	r := &Renderer{
		config: cfg,
		log:    log,
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	var maxSamples, maxLayers int32
	gl.GetIntegerv(gl.MAX_SAMPLES, &maxSamples)
	gl.GetIntegerv(gl.MAX_ARRAY_TEXTURE_LAYERS, &maxLayers)
	r.log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
		zap.Int32("maxSamples", maxSamples),
		zap.Int32("maxArrayLayers", maxLayers),
	)

	// Setup default OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	return r, nil
}

// SetDrawer sets the scene drawn by reflection renders.
func (r *Renderer) SetDrawer(d Drawer) {
	r.drawer = d
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.drawer = nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current backbuffer size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// Begin starts a new frame on the default framebuffer.
func (r *Renderer) Begin() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	c := r.config.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawMain draws the on-screen pass.
func (r *Renderer) DrawMain(pass scene.Pass) {
	if r.drawer != nil {
		r.drawer.Draw(pass)
	}
}

// End finishes the current frame.
func (r *Renderer) End() {
	if err := glError("frame"); err != nil {
		r.log.Warn("GL error at end of frame", zap.Error(err))
	}
}

// ReadBackbuffer reads the default framebuffer as RGBA in OpenGL row
// order (origin at bottom-left).
func (r *Renderer) ReadBackbuffer() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// CreateTarget allocates a (possibly multisampled) offscreen target.
func (r *Renderer) CreateTarget(desc mirror.TargetDesc) (mirror.RenderTarget, error) {
	if desc.DepthBits != 0 && desc.DepthBits != mirror.DepthBits {
		return nil, fmt.Errorf("target %s: unsupported depth precision %d", desc.Name, desc.DepthBits)
	}

	fb, err := framebuffer.New(desc.Width, desc.Height, framebuffer.Options{
		Samples:     int32(desc.Samples),
		ColorFormat: internalFormat(desc.Format),
	})
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", desc.Name, err)
	}

	if fb.Samples() < int32(desc.Samples) {
		r.log.Warn("MSAA clamped to device limit",
			zap.String("target", desc.Name),
			zap.Int("requested", desc.Samples),
			zap.Int32("samples", fb.Samples()),
		)
	}
	r.log.Debug("reflection target created",
		zap.String("target", desc.Name),
		zap.Int32("width", desc.Width),
		zap.Int32("height", desc.Height),
		zap.Stringer("format", desc.Format),
		zap.Int32("samples", fb.Samples()),
	)
	return fb, nil
}

// CreateTextureArray allocates the shared reflection array.
func (r *Renderer) CreateTextureArray(desc mirror.ArrayDesc) (mirror.TextureArray, error) {
	arr, err := texarray.New(desc.Width, desc.Height, desc.Layers, internalFormat(desc.Format))
	if err != nil {
		return nil, fmt.Errorf("array %s: %w", desc.Name, err)
	}
	r.log.Debug("reflection array created",
		zap.String("array", desc.Name),
		zap.Int32("width", desc.Width),
		zap.Int32("height", desc.Height),
		zap.Int("layers", desc.Layers),
	)
	return arr, nil
}

// Render draws the scene from the request's reflection camera into
// target. Face winding is flipped for the duration of the call when the
// request asks for it and restored afterwards.
func (r *Renderer) Render(req mirror.RenderRequest, target mirror.RenderTarget) error {
	fb, ok := target.(*framebuffer.Framebuffer)
	if !ok {
		return fmt.Errorf("render %s/%s: foreign render target %T", req.Surface, req.Viewer, target)
	}
	if r.drawer == nil {
		return fmt.Errorf("render %s/%s: no scene drawer", req.Surface, req.Viewer)
	}

	restore := fb.BindWithViewport()
	defer restore()

	c := r.config.ClearColor
	fb.Clear(c[0], c[1], c[2], c[3])

	withWinding(req.InvertWinding, func() {
		r.drawer.Draw(scene.ReflectionPass(req.Camera))
	})

	return glError(fmt.Sprintf("render %s/%s slot %d", req.Surface, req.Viewer, req.Slot))
}

// frontFace is replaced in tests that run without a GL context.
var frontFace = gl.FrontFace

// withWinding runs draw with clockwise front faces when invert is set.
// The main pass always runs with CCW front faces, so CCW is restored on
// every exit from draw, including a panic.
func withWinding(invert bool, draw func()) {
	if invert {
		frontFace(gl.CW)
		defer frontFace(gl.CCW)
	}
	draw()
}

// CopyToLayer resolves src into one layer of dst.
func (r *Renderer) CopyToLayer(src mirror.RenderTarget, dst mirror.TextureArray, layer int) error {
	fb, ok := src.(*framebuffer.Framebuffer)
	if !ok {
		return fmt.Errorf("copy to layer %d: foreign render target %T", layer, src)
	}
	arr, ok := dst.(*texarray.Array)
	if !ok {
		return fmt.Errorf("copy to layer %d: foreign texture array %T", layer, dst)
	}
	w, h := fb.Size()
	return arr.CopyFrom(fb.FBO(), w, h, layer)
}

// internalFormat maps a mirror format to a GL internal format.
func internalFormat(f mirror.Format) uint32 {
	switch f {
	case mirror.FormatRGBA16F:
		return gl.RGBA16F
	default:
		return gl.RGBA8
	}
}

// glError drains the GL error queue and reports the first error.
func glError(op string) error {
	first := uint32(gl.NO_ERROR)
	for i := 0; i < 16; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		if first == gl.NO_ERROR {
			first = code
		}
	}
	if first != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%x", op, first)
	}
	return nil
}
