package mirror

// Format is the pixel format of reflection targets.
type Format int

const (
	// FormatRGBA16F is a half-float RGBA color format.
	FormatRGBA16F Format = iota
	// FormatRGBA8 is an 8-bit per channel RGBA color format.
	FormatRGBA8
)

func (f Format) String() string {
	switch f {
	case FormatRGBA16F:
		return "RGBA16F"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return "unknown"
	}
}

// DepthBits is the depth buffer precision of every reflection target.
const DepthBits = 24

// TargetDesc describes an off-screen render target for one slot.
type TargetDesc struct {
	Name      string
	Width     int32
	Height    int32
	DepthBits int
	Format    Format
	Samples   int
}

// ArrayDesc describes the shared reflection texture array.
type ArrayDesc struct {
	Name   string
	Width  int32
	Height int32
	Layers int
	Format Format
}

// RenderTarget is a host-owned off-screen color+depth target.
type RenderTarget interface {
	Size() (width, height int32)
	Release()
}

// TextureArray is a host-owned layered texture sampled by materials.
type TextureArray interface {
	Size() (width, height int32)
	Layers() int
	Release()
}

// RenderRequest is everything the host needs to draw the scene from a
// reflection camera. It is passed by value; the host must not keep it.
type RenderRequest struct {
	Surface string
	Viewer  string
	Slot    int
	Camera  ReflectionCamera

	// InvertWinding flips the front-face convention for this draw only.
	// The mirrored view matrix has a negative determinant.
	InvertWinding bool
}

// Renderer is the host rendering backend.
type Renderer interface {
	CreateTarget(desc TargetDesc) (RenderTarget, error)
	CreateTextureArray(desc ArrayDesc) (TextureArray, error)
	Render(req RenderRequest, target RenderTarget) error
	CopyToLayer(src RenderTarget, dst TextureArray, layer int) error
}

// Material receives the reflection array and the index of the layer to
// sample.
type Material interface {
	SetTexture(name string, tex TextureArray)
	SetFloat(name string, value float32)
}
