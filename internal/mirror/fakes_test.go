package mirror

import (
	"errors"
	"sync"
)

type fakeTarget struct {
	id       int
	desc     TargetDesc
	released bool
}

func (t *fakeTarget) Size() (int32, int32) { return t.desc.Width, t.desc.Height }
func (t *fakeTarget) Release()             { t.released = true }

type fakeArray struct {
	desc     ArrayDesc
	layers   [Capacity]int // id of the target last copied into each layer, -1 if none
	copies   [Capacity]int
	released bool
}

func (a *fakeArray) Size() (int32, int32) { return a.desc.Width, a.desc.Height }
func (a *fakeArray) Layers() int          { return a.desc.Layers }
func (a *fakeArray) Release()             { a.released = true }

// fakeHost records every call the core makes into the renderer.
type fakeHost struct {
	mu sync.Mutex

	targets []*fakeTarget
	arrays  []*fakeArray
	renders []RenderRequest

	targetErr error
	arrayErr  error
	copyErr   error
	renderErr map[string]error
}

func newFakeHost() *fakeHost {
	return &fakeHost{renderErr: map[string]error{}}
}

func (h *fakeHost) CreateTarget(desc TargetDesc) (RenderTarget, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.targetErr != nil {
		return nil, h.targetErr
	}
	t := &fakeTarget{id: len(h.targets), desc: desc}
	h.targets = append(h.targets, t)
	return t, nil
}

func (h *fakeHost) CreateTextureArray(desc ArrayDesc) (TextureArray, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.arrayErr != nil {
		return nil, h.arrayErr
	}
	a := &fakeArray{desc: desc}
	for i := range a.layers {
		a.layers[i] = -1
	}
	h.arrays = append(h.arrays, a)
	return a, nil
}

func (h *fakeHost) Render(req RenderRequest, target RenderTarget) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.renderErr[req.Viewer]; err != nil {
		return err
	}
	h.renders = append(h.renders, req)
	return nil
}

func (h *fakeHost) CopyToLayer(src RenderTarget, dst TextureArray, layer int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.copyErr != nil {
		return h.copyErr
	}
	t, ok := src.(*fakeTarget)
	if !ok {
		return errors.New("foreign target")
	}
	a := dst.(*fakeArray)
	a.layers[layer] = t.id
	a.copies[layer]++
	return nil
}

func (h *fakeHost) renderCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.renders)
}

type fakeMaterial struct {
	textures     map[string]TextureArray
	floats       map[string]float32
	textureCalls int
}

func newFakeMaterial() *fakeMaterial {
	return &fakeMaterial{textures: map[string]TextureArray{}, floats: map[string]float32{}}
}

func (m *fakeMaterial) SetTexture(name string, tex TextureArray) {
	m.textures[name] = tex
	m.textureCalls++
}

func (m *fakeMaterial) SetFloat(name string, value float32) {
	m.floats[name] = value
}
