package mirror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlots(host *fakeHost, mats ...Material) *SlotManager {
	return NewSlotManager("pond", host, mats, DefaultTextureParam, 128, AntiAliasX4)
}

func TestRequestSlotCapacity(t *testing.T) {
	host := newFakeHost()
	m := newTestSlots(host, newFakeMaterial())
	m.BeginFrame()

	for i := 0; i < Capacity; i++ {
		slot, ok, err := m.RequestSlot()
		require.NoError(t, err)
		require.True(t, ok, "request %d", i)
		assert.Equal(t, i, slot.Index)
		assert.NotNil(t, slot.Target)
	}

	_, ok, err := m.RequestSlot()
	assert.NoError(t, err)
	assert.False(t, ok, "sixth request must be dropped")
	assert.Equal(t, 0, m.Remaining())

	m.BeginFrame()
	assert.Equal(t, Capacity, m.Remaining())
	slot, ok, err := m.RequestSlot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, slot.Index)
}

func TestRequestSlotReusesTargets(t *testing.T) {
	host := newFakeHost()
	m := newTestSlots(host, newFakeMaterial())

	var first RenderTarget
	for frame := 0; frame < 3; frame++ {
		m.BeginFrame()
		slot, ok, err := m.RequestSlot()
		require.NoError(t, err)
		require.True(t, ok)
		if first == nil {
			first = slot.Target
		}
		assert.Same(t, first, slot.Target)
	}
	assert.Len(t, host.targets, 1)
	assert.Equal(t, 1, m.Allocated())

	desc := host.targets[0].desc
	assert.Equal(t, int32(128), desc.Width)
	assert.Equal(t, int32(128), desc.Height)
	assert.Equal(t, DepthBits, desc.DepthBits)
	assert.Equal(t, FormatRGBA16F, desc.Format)
	assert.Equal(t, 4, desc.Samples)
}

func TestRequestSlotTargetFailure(t *testing.T) {
	host := newFakeHost()
	host.targetErr = errors.New("out of video memory")
	m := newTestSlots(host, newFakeMaterial())
	m.BeginFrame()

	_, ok, err := m.RequestSlot()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrResourceFailure)
	assert.ErrorContains(t, err, "out of video memory")
	assert.Equal(t, Capacity, m.Remaining(), "failed request must not consume the slot")
}

func TestPublishUpdatesOnlyItsLayer(t *testing.T) {
	host := newFakeHost()
	a, b := newFakeMaterial(), newFakeMaterial()
	m := newTestSlots(host, a, b)
	m.BeginFrame()

	var slots []Slot
	for i := 0; i < Capacity; i++ {
		slot, ok, err := m.RequestSlot()
		require.NoError(t, err)
		require.True(t, ok)
		slots = append(slots, slot)
		require.NoError(t, m.Publish(slot))
	}

	arr := host.arrays[0]
	before := arr.copies

	require.NoError(t, m.Publish(slots[2]))

	for layer := 0; layer < Capacity; layer++ {
		want := before[layer]
		if layer == 2 {
			want++
		}
		assert.Equal(t, want, arr.copies[layer], "layer %d", layer)
		assert.Equal(t, host.targets[layer].id, arr.layers[layer])
	}
	for _, mat := range []*fakeMaterial{a, b} {
		assert.Equal(t, float32(2), mat.floats[IndexParam])
		assert.Same(t, arr, mat.textures[DefaultTextureParam])
		assert.Equal(t, 1, mat.textureCalls, "array is bound once")
	}
}

func TestPublishAllocatesArrayOnce(t *testing.T) {
	host := newFakeHost()
	m := newTestSlots(host, newFakeMaterial())

	for frame := 0; frame < 3; frame++ {
		m.BeginFrame()
		slot, _, err := m.RequestSlot()
		require.NoError(t, err)
		require.NoError(t, m.Publish(slot))
	}

	require.Len(t, host.arrays, 1)
	arr := host.arrays[0]
	assert.Equal(t, Capacity, arr.Layers())
	w, h := arr.Size()
	assert.Equal(t, int32(128), w)
	assert.Equal(t, int32(128), h)
	assert.Same(t, arr, m.Array())
}

func TestPublishArrayFailure(t *testing.T) {
	host := newFakeHost()
	host.arrayErr = errors.New("no arrays")
	mat := newFakeMaterial()
	m := newTestSlots(host, mat)
	m.BeginFrame()

	slot, _, err := m.RequestSlot()
	require.NoError(t, err)
	err = m.Publish(slot)
	assert.ErrorIs(t, err, ErrResourceFailure)
	assert.Empty(t, mat.floats)
}

func TestPublishInvalidSlot(t *testing.T) {
	m := newTestSlots(newFakeHost(), newFakeMaterial())
	assert.Error(t, m.Publish(Slot{Index: Capacity}))
	assert.Error(t, m.Publish(Slot{Index: 0}))
}

func TestSlotManagerDeduplicatesMaterials(t *testing.T) {
	a := newFakeMaterial()
	m := newTestSlots(newFakeHost(), a, a, nil, newFakeMaterial())
	assert.Len(t, m.Materials(), 2)
}

func TestSlotManagerReconfigure(t *testing.T) {
	host := newFakeHost()
	mat := newFakeMaterial()
	m := newTestSlots(host, mat)
	m.BeginFrame()
	slot, _, err := m.RequestSlot()
	require.NoError(t, err)
	require.NoError(t, m.Publish(slot))

	m.Reconfigure(512, AntiAliasX2)
	assert.True(t, host.targets[0].released)
	assert.True(t, host.arrays[0].released)
	assert.Nil(t, m.Array())
	assert.Zero(t, m.Allocated())

	m.BeginFrame()
	slot, _, err = m.RequestSlot()
	require.NoError(t, err)
	require.NoError(t, m.Publish(slot))

	require.Len(t, host.targets, 2)
	assert.Equal(t, int32(512), host.targets[1].desc.Width)
	assert.Equal(t, 2, host.targets[1].desc.Samples)
	require.Len(t, host.arrays, 2)
	w, _ := host.arrays[1].Size()
	assert.Equal(t, int32(512), w)
	assert.Same(t, host.arrays[1], mat.textures[DefaultTextureParam])
}

func TestSlotManagerSetTextureParam(t *testing.T) {
	host := newFakeHost()
	mat := newFakeMaterial()
	m := newTestSlots(host, mat)

	// Before the array exists only the name changes
	m.SetTextureParam("_Early")
	assert.Zero(t, mat.textureCalls)

	m.BeginFrame()
	slot, _, err := m.RequestSlot()
	require.NoError(t, err)
	require.NoError(t, m.Publish(slot))
	assert.Same(t, host.arrays[0], mat.textures["_Early"])

	m.SetTextureParam("_MirrorTex")
	assert.Same(t, host.arrays[0], mat.textures["_MirrorTex"])
	assert.Equal(t, 2, mat.textureCalls)

	m.SetTextureParam("_MirrorTex")
	assert.Equal(t, 2, mat.textureCalls, "same name is not bound again")
}
