package material

import (
	"github.com/Carmen-Shannon/oxy-gpuanim/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithShader is an option builder that sets the shader key of the material.
//
// Parameters:
//   - key: the shader key, e.g. ShaderAnimation or ShaderDefault
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shader option to a material
func WithShader(key string) MaterialBuilderOption {
	return func(m *material) {
		m.shader = key
	}
}

// WithBaseColor is an option builder that sets the albedo RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithMainTexture is an option builder that sets the albedo texture reference.
//
// Parameters:
//   - tex: the imported texture data for the albedo map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the main texture option to a material
func WithMainTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.mainTexture = tex
	}
}

// WithSkinningTexture is an option builder that binds a skinning texture.
//
// Parameters:
//   - name: the skinning texture asset name
//   - size: the texture side length
//
// Returns:
//   - MaterialBuilderOption: a function that applies the skinning texture option to a material
func WithSkinningTexture(name string, size int) MaterialBuilderOption {
	return func(m *material) {
		m.skinningTexture = name
		m.skinningTexSize = size
	}
}

// WithInstancing is an option builder that toggles GPU instancing.
//
// Parameters:
//   - enabled: true to allow instanced draws
//
// Returns:
//   - MaterialBuilderOption: a function that applies the instancing option to a material
func WithInstancing(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.instancing = enabled
	}
}
