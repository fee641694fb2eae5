package mirror

import "fmt"

// Slot is one viewer's render target for the current frame.
type Slot struct {
	Index  int
	Target RenderTarget
}

// SlotManager multiplexes up to Capacity viewers per frame onto one
// texture array. Targets and the array are created on first use and kept
// until Reconfigure or Release.
//
// SlotManager is not safe for concurrent use; Surface serializes access.
type SlotManager struct {
	host         Renderer
	materials    []Material
	textureParam string
	name         string

	size    int32
	samples AntiAlias

	targets [Capacity]RenderTarget
	array   TextureArray
	next    int
}

// NewSlotManager creates a manager for materials. Duplicate materials are
// bound once.
func NewSlotManager(name string, host Renderer, materials []Material, textureParam string, size int, aa AntiAlias) *SlotManager {
	m := &SlotManager{
		host:         host,
		textureParam: textureParam,
		name:         name,
		size:         int32(size),
		samples:      aa,
	}
	for _, mat := range materials {
		if mat == nil || m.hasMaterial(mat) {
			continue
		}
		m.materials = append(m.materials, mat)
	}
	return m
}

func (m *SlotManager) hasMaterial(mat Material) bool {
	for _, have := range m.materials {
		if have == mat {
			return true
		}
	}
	return false
}

// Materials returns the de-duplicated materials.
func (m *SlotManager) Materials() []Material {
	return m.materials
}

// BeginFrame makes every slot available again. Targets are kept.
func (m *SlotManager) BeginFrame() {
	m.next = 0
}

// Remaining returns how many slots are still free this frame.
func (m *SlotManager) Remaining() int {
	return Capacity - m.next
}

// RequestSlot hands out the next slot. ok is false once Capacity slots
// were handed out this frame; that is not an error.
func (m *SlotManager) RequestSlot() (slot Slot, ok bool, err error) {
	if m.next >= Capacity {
		return Slot{}, false, nil
	}

	idx := m.next
	if m.targets[idx] == nil {
		target, err := m.host.CreateTarget(TargetDesc{
			Name:      fmt.Sprintf("%s reflection %d", m.name, idx),
			Width:     m.size,
			Height:    m.size,
			DepthBits: DepthBits,
			Format:    FormatRGBA16F,
			Samples:   int(m.samples),
		})
		if err != nil {
			return Slot{}, false, fmt.Errorf("%w: slot %d target: %w", ErrResourceFailure, idx, err)
		}
		m.targets[idx] = target
	}

	m.next++
	return Slot{Index: idx, Target: m.targets[idx]}, true, nil
}

// Publish copies the slot's target into its array layer and points every
// material at that layer. Only one index is current per material: the
// last published slot wins.
func (m *SlotManager) Publish(slot Slot) error {
	if slot.Index < 0 || slot.Index >= Capacity || slot.Target == nil {
		return fmt.Errorf("mirror: publish invalid slot %d", slot.Index)
	}

	if m.array == nil {
		w, h := slot.Target.Size()
		array, err := m.host.CreateTextureArray(ArrayDesc{
			Name:   m.name + " reflections",
			Width:  w,
			Height: h,
			Layers: Capacity,
			Format: FormatRGBA16F,
		})
		if err != nil {
			return fmt.Errorf("%w: texture array: %w", ErrResourceFailure, err)
		}
		m.array = array
		for _, mat := range m.materials {
			mat.SetTexture(m.textureParam, m.array)
		}
	}

	if err := m.host.CopyToLayer(slot.Target, m.array, slot.Index); err != nil {
		return fmt.Errorf("copying slot %d: %w", slot.Index, err)
	}

	for _, mat := range m.materials {
		mat.SetFloat(IndexParam, float32(slot.Index))
	}
	return nil
}

// SetTextureParam changes the material parameter the array is bound
// under. An existing array is bound again under the new name.
func (m *SlotManager) SetTextureParam(name string) {
	if name == m.textureParam {
		return
	}
	m.textureParam = name
	if m.array == nil {
		return
	}
	for _, mat := range m.materials {
		mat.SetTexture(name, m.array)
	}
}

// Array returns the shared texture array, or nil before the first publish.
func (m *SlotManager) Array() TextureArray {
	return m.array
}

// Allocated returns how many slot targets exist.
func (m *SlotManager) Allocated() int {
	n := 0
	for _, t := range m.targets {
		if t != nil {
			n++
		}
	}
	return n
}

// Reconfigure changes target resolution and sample count. Existing
// targets and the array are released and re-created lazily.
func (m *SlotManager) Reconfigure(size int, aa AntiAlias) {
	m.Release()
	m.size = int32(size)
	m.samples = aa
}

// Release destroys all targets and the array.
func (m *SlotManager) Release() {
	for i, t := range m.targets {
		if t != nil {
			t.Release()
			m.targets[i] = nil
		}
	}
	if m.array != nil {
		m.array.Release()
		m.array = nil
	}
}
