package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

func TestMainPassDrawsEveryLayer(t *testing.T) {
	v := mirror.Viewer{Name: "player", Rotation: math.QuatIdentity(), FOV: 1, Aspect: 1, Near: 0.1}
	pass := MainPass(v, 100)

	for layer := 0; layer < mirror.LayerCount; layer++ {
		assert.True(t, pass.Visible(layer, math.Vec3{Z: -500}), "layer %d", layer)
	}
	assert.False(t, pass.Reflection)
	assert.False(t, pass.LayerVisible(-1))
	assert.False(t, pass.LayerVisible(mirror.LayerCount))
}

func TestReflectionPassExcludesWater(t *testing.T) {
	frame := mirror.Frame{Rotation: math.QuatIdentity()}
	viewer := mirror.Viewer{
		Name:     "player",
		Position: math.Vec3{Y: 2, Z: 5},
		Rotation: math.QuatIdentity(),
		FOV:      math.Radians(60),
		Aspect:   16.0 / 9.0,
		Near:     0.3,
	}

	cam, ok := mirror.BuildReflectionCamera(frame, viewer, mirror.DefaultSettings())
	require.True(t, ok)

	pass := ReflectionPass(cam)
	assert.True(t, pass.Reflection)
	assert.False(t, pass.LayerVisible(mirror.WaterLayer))
	assert.True(t, pass.LayerVisible(DefaultLayer))
	assert.Equal(t, cam.Position, pass.Eye)
}

func TestLayerCullDistances(t *testing.T) {
	pass := Pass{
		View:               math.Identity(),
		CullingMask:        mirror.AllLayers,
		LayerCullSpherical: true,
	}
	pass.LayerCullDistances[8] = 10

	// Spherical: measured from the eye in every direction
	assert.True(t, pass.Visible(8, math.Vec3{X: 6, Z: -6}))
	assert.False(t, pass.Visible(8, math.Vec3{X: 9, Z: -9}))
	assert.False(t, pass.Visible(8, math.Vec3{X: 11}))

	// Layers without a distance are unaffected
	assert.True(t, pass.Visible(7, math.Vec3{X: 1000}))

	// Planar: only view depth counts
	pass.LayerCullSpherical = false
	assert.True(t, pass.Visible(8, math.Vec3{X: 9, Z: -9}))
	assert.True(t, pass.Visible(8, math.Vec3{X: 50, Z: -1}))
	assert.False(t, pass.Visible(8, math.Vec3{Z: -11}))
}

func TestCullingMaskHidesLayer(t *testing.T) {
	pass := Pass{View: math.Identity(), CullingMask: 1 << 3}
	assert.True(t, pass.Visible(3, math.Vec3{}))
	assert.False(t, pass.Visible(0, math.Vec3{}))
}

func TestCubeVerticesFaceOutward(t *testing.T) {
	v := cubeVertices()
	require.Len(t, v, 36*6)

	for tri := 0; tri < 12; tri++ {
		base := tri * 18
		p := func(i int) math.Vec3 {
			o := base + i*6
			return math.Vec3{X: v[o], Y: v[o+1], Z: v[o+2]}
		}
		n := math.Vec3{X: v[base+3], Y: v[base+4], Z: v[base+5]}

		winding := p(1).Sub(p(0)).Cross(p(2).Sub(p(0)))
		assert.Greater(t, winding.Dot(n), float32(0), "triangle %d winds inward", tri)

		centroid := p(0).Add(p(1)).Add(p(2)).Scale(1.0 / 3)
		assert.Greater(t, centroid.Dot(n), float32(0), "triangle %d normal points inward", tri)
	}
}

func TestPlaneVerticesFaceUp(t *testing.T) {
	v := planeVertices(4, 2)
	require.Len(t, v, 18)

	for tri := 0; tri < 2; tri++ {
		o := tri * 9
		a := math.Vec3{X: v[o], Y: v[o+1], Z: v[o+2]}
		b := math.Vec3{X: v[o+3], Y: v[o+4], Z: v[o+5]}
		c := math.Vec3{X: v[o+6], Y: v[o+7], Z: v[o+8]}
		assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Y, float32(0))
	}
	assert.Equal(t, float32(-2), v[0])
	assert.Equal(t, float32(1), v[2])
}
