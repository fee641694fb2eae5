package shader

import (
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-mirror/internal/mirror"
)

// ArrayTexture is a texture that can be bound to a GL_TEXTURE_2D_ARRAY unit.
type ArrayTexture interface {
	ID() uint32
}

// Material is a program plus named uniform values that are uploaded when
// the material is applied. Values may be set at any time; they take
// effect on the next Apply.
type Material struct {
	name     string
	program  uint32
	uniforms map[string]int32
	floats   map[string]float32
	textures map[string]uint32
}

// NewMaterial wraps a linked program.
func NewMaterial(name string, program uint32) *Material {
	return &Material{
		name:     name,
		program:  program,
		uniforms: make(map[string]int32),
		floats:   make(map[string]float32),
		textures: make(map[string]uint32),
	}
}

// Name returns the material name.
func (m *Material) Name() string {
	return m.name
}

// SetTexture binds an array texture to the sampler uniform name. A
// texture that is not GL-backed clears the binding.
func (m *Material) SetTexture(name string, tex mirror.TextureArray) {
	if at, ok := tex.(ArrayTexture); ok && at.ID() != 0 {
		m.textures[name] = at.ID()
		return
	}
	delete(m.textures, name)
}

// SetFloat sets a float uniform.
func (m *Material) SetFloat(name string, value float32) {
	m.floats[name] = value
}

// Float returns the last value set for name.
func (m *Material) Float(name string) (float32, bool) {
	v, ok := m.floats[name]
	return v, ok
}

// Texture returns the texture bound to name, or 0.
func (m *Material) Texture(name string) uint32 {
	return m.textures[name]
}

// Apply makes the program current and uploads every stored value.
// Array textures take consecutive units starting at firstUnit, in name
// order; the next free unit is returned.
func (m *Material) Apply(firstUnit uint32) uint32 {
	gl.UseProgram(m.program)

	for name, v := range m.floats {
		if loc := m.location(name); loc >= 0 {
			gl.Uniform1f(loc, v)
		}
	}

	names := make([]string, 0, len(m.textures))
	for name := range m.textures {
		names = append(names, name)
	}
	sort.Strings(names)

	unit := firstUnit
	for _, name := range names {
		loc := m.location(name)
		if loc < 0 {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D_ARRAY, m.textures[name])
		gl.Uniform1i(loc, int32(unit))
		unit++
	}
	return unit
}

// Uniform returns the cached location of a uniform, -1 if inactive.
func (m *Material) Uniform(name string) int32 {
	return m.location(name)
}

func (m *Material) location(name string) int32 {
	if loc, ok := m.uniforms[name]; ok {
		return loc
	}
	loc := GetUniform(m.program, name)
	m.uniforms[name] = loc
	return loc
}

// Destroy deletes the program.
func (m *Material) Destroy() {
	if m.program != 0 {
		gl.DeleteProgram(m.program)
		m.program = 0
	}
}
