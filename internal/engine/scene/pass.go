package scene

import (
	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// DefaultLayer is the layer objects are placed on when none is given.
const DefaultLayer = 0

// Pass describes one draw of the scene: either the on-screen view of a
// viewer or a reflected view produced for a mirror slot.
type Pass struct {
	View       math.Mat4
	Projection math.Mat4
	Eye        math.Vec3

	CullingMask        uint32
	LayerCullDistances [mirror.LayerCount]float32
	LayerCullSpherical bool
	Path               mirror.RenderPath

	// Reflection passes skip mirror surfaces.
	Reflection bool
}

// MainPass builds the on-screen pass for a viewer. Every layer is drawn
// and no per-layer distances apply.
func MainPass(v mirror.Viewer, far float32) Pass {
	return Pass{
		View:        v.View(),
		Projection:  v.Projection(far),
		Eye:         v.Position,
		CullingMask: mirror.AllLayers,
		Path:        v.Path,
	}
}

// ReflectionPass builds the pass for a reflection camera.
func ReflectionPass(c mirror.ReflectionCamera) Pass {
	return Pass{
		View:               c.View,
		Projection:         c.Projection,
		Eye:                c.Position,
		CullingMask:        c.CullingMask,
		LayerCullDistances: c.LayerCullDistances,
		LayerCullSpherical: c.LayerCullSpherical,
		Path:               c.Path,
		Reflection:         true,
	}
}

// ViewProjection returns Projection * View.
func (p Pass) ViewProjection() math.Mat4 {
	return p.Projection.Mul(p.View)
}

// LayerVisible reports whether the culling mask accepts layer.
func (p Pass) LayerVisible(layer int) bool {
	if layer < 0 || layer >= mirror.LayerCount {
		return false
	}
	return p.CullingMask&(1<<uint(layer)) != 0
}

// Visible applies the culling mask and the per-layer cull distance to an
// object at position. A zero distance means the layer uses the far plane.
// Spherical culling measures from the eye; otherwise the view depth is
// used.
func (p Pass) Visible(layer int, position math.Vec3) bool {
	if !p.LayerVisible(layer) {
		return false
	}
	limit := p.LayerCullDistances[layer]
	if limit <= 0 {
		return true
	}
	if p.LayerCullSpherical {
		return p.Eye.DistanceSquared(position) <= limit*limit
	}
	depth := -p.View.TransformPoint(position).Z
	return depth <= limit
}
