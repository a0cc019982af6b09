package material

import (
	"github.com/Carmen-Shannon/oxy-gpuanim/common"
)

const (
	// ShaderAnimation is the shader key of materials that sample the skinning texture.
	ShaderAnimation = "oxy/animation"

	// ShaderDefault is the shader key of rigid, instanced materials.
	ShaderDefault = "oxy/default"

	// PropertySkinningTexture names the skinning texture slot of an animation material.
	PropertySkinningTexture = "_SkinningTex"

	// PropertySkinningTexSize names the skinning texture side length.
	PropertySkinningTexSize = "_SkinningTexSize"

	// PropertyStartPixelIndex names the per-instance first texel of the current frame.
	PropertyStartPixelIndex = "_StartPixelIndex"
)

// material is the implementation of the Material interface.
type material struct {
	name            string
	shader          string
	baseColor       [4]float32
	mainTexture     *common.ImportedTexture
	skinningTexture string
	skinningTexSize int
	instancing      bool
}

// Material describes how a render surface is shaded.
//
// A material is shared by every instance that draws with it. Anything that differs per
// instance, such as the current frame's pixel offset, travels in a PropertyBlock instead.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Shader retrieves the key of the shader this material draws with.
	//
	// Returns:
	//   - string: the shader key, e.g. ShaderAnimation
	Shader() string

	// BaseColor retrieves the albedo RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// MainTexture retrieves the albedo texture reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the main texture, or nil
	MainTexture() *common.ImportedTexture

	// SkinningTexture retrieves the name of the skinning texture bound to this material.
	// Rigid materials return an empty string.
	//
	// Returns:
	//   - string: the skinning texture asset name
	SkinningTexture() string

	// SkinningTexSize retrieves the side length of the bound skinning texture.
	//
	// Returns:
	//   - int: the texture side length, or 0 when no skinning texture is bound
	SkinningTexSize() int

	// Instancing reports whether GPU instancing is enabled for this material.
	//
	// Returns:
	//   - bool: true if instanced draws are allowed
	Instancing() bool

	// SetSkinningTexture binds a skinning texture to this material.
	//
	// Parameters:
	//   - name: the skinning texture asset name
	//   - size: the texture side length
	SetSkinningTexture(name string, size int)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		shader:    ShaderDefault,
		baseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// NewAnimationMaterial creates an instanced material that reads bone matrices from a skinning texture.
// The albedo settings are copied from the source material when one is given.
//
// Parameters:
//   - name: the material name
//   - source: the imported source material, may be nil
//   - skinningTexture: the skinning texture asset name
//   - size: the skinning texture side length
//
// Returns:
//   - Material: the animation material
func NewAnimationMaterial(name string, source *common.ImportedMaterial, skinningTexture string, size int) Material {
	opts := []MaterialBuilderOption{
		WithName(name),
		WithShader(ShaderAnimation),
		WithSkinningTexture(skinningTexture, size),
		WithInstancing(true),
	}
	if source != nil {
		opts = append(opts, WithBaseColor(source.BaseColor), WithMainTexture(source.MainTexture))
	}
	return NewMaterial(opts...)
}

// NewWidgetMaterial creates an instanced rigid material carrying over the source main texture.
//
// Parameters:
//   - name: the material name
//   - source: the imported source material, may be nil
//
// Returns:
//   - Material: the widget material
func NewWidgetMaterial(name string, source *common.ImportedMaterial) Material {
	opts := []MaterialBuilderOption{
		WithName(name),
		WithShader(ShaderDefault),
		WithInstancing(true),
	}
	if source != nil {
		opts = append(opts, WithBaseColor(source.BaseColor), WithMainTexture(source.MainTexture))
	}
	return NewMaterial(opts...)
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Shader() string {
	return m.shader
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) MainTexture() *common.ImportedTexture {
	return m.mainTexture
}

func (m *material) SkinningTexture() string {
	return m.skinningTexture
}

func (m *material) SkinningTexSize() int {
	return m.skinningTexSize
}

func (m *material) Instancing() bool {
	return m.instancing
}

func (m *material) SetSkinningTexture(name string, size int) {
	m.skinningTexture = name
	m.skinningTexSize = size
}
