package mirror

import "fmt"

// Capacity is the number of viewers a surface can reflect per frame.
const Capacity = 5

// LayerCount is the number of culling layers.
const LayerCount = 32

// WaterLayer is never drawn into reflections.
const WaterLayer = 4

// AllLayers is a culling mask that accepts every layer.
const AllLayers = ^uint32(0)

// Default parameter names bound on surface materials.
const (
	DefaultTextureParam = "_ReflectionTex"
	IndexParam          = "_Index"
)

// Settings configures a reflective surface.
type Settings struct {
	TextureSize     int
	ClipPlaneOffset float32
	Quality         Quality
	AntiAlias       AntiAlias

	// ReflectLayers selects which layers reflection cameras draw.
	ReflectLayers uint32

	// EnableLayerCulling turns on spherical per-layer distance culling
	// using LayerCullDistances. When off the distances are zeroed.
	EnableLayerCulling bool
	LayerCullDistances [LayerCount]float32

	// MaxDistance is the viewer to surface distance beyond which the
	// surface is not reflected at all.
	MaxDistance float32

	TextureParam string
}

// DefaultSettings returns the settings a new surface starts with.
func DefaultSettings() Settings {
	return Settings{
		TextureSize:        256,
		ClipPlaneOffset:    0.01,
		Quality:            QualityDefault,
		AntiAlias:          AntiAliasX8,
		ReflectLayers:      AllLayers,
		EnableLayerCulling: true,
		MaxDistance:        50,
		TextureParam:       DefaultTextureParam,
	}
}

// Validate checks settings before a surface is built.
func (s Settings) Validate() error {
	if s.TextureSize <= 0 {
		return fmt.Errorf("%w: texture size %d", ErrInvalidSettings, s.TextureSize)
	}
	if s.ClipPlaneOffset <= 0 {
		return fmt.Errorf("%w: clip plane offset %v must be positive", ErrInvalidSettings, s.ClipPlaneOffset)
	}
	if !s.AntiAlias.Valid() {
		return fmt.Errorf("%w: anti-alias level %d", ErrInvalidSettings, s.AntiAlias)
	}
	if _, ok := qualityNames[s.Quality]; !ok {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, s.Quality)
	}
	if s.MaxDistance <= 0 {
		return fmt.Errorf("%w: max distance %v must be positive", ErrInvalidSettings, s.MaxDistance)
	}
	for i, d := range s.LayerCullDistances {
		if d < 0 {
			return fmt.Errorf("%w: layer %d cull distance %v", ErrInvalidSettings, i, d)
		}
	}
	if s.TextureParam == "" {
		return fmt.Errorf("%w: empty texture parameter name", ErrInvalidSettings)
	}
	return nil
}

// CullingMask is the layer mask reflection cameras draw with.
func (s Settings) CullingMask() uint32 {
	return s.ReflectLayers &^ (1 << WaterLayer)
}

// cullDistances returns the per-layer distances handed to the host.
func (s Settings) cullDistances() [LayerCount]float32 {
	if !s.EnableLayerCulling {
		return [LayerCount]float32{}
	}
	return s.LayerCullDistances
}

func (s Settings) maxDistanceSquared() float32 {
	return s.MaxDistance * s.MaxDistance
}
