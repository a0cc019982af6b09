package shader

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/*.wgsl
var builtinSources embed.FS

// builtinFiles maps the material shader keys onto the embedded sources.
var builtinFiles = map[string]string{
	material.ShaderAnimation: "shaders/animation.wgsl",
	material.ShaderDefault:   "shaders/default.wgsl",
}

var (
	// ErrUnknownShader is returned by Lookup for keys with no built-in source.
	ErrUnknownShader = errors.New("unknown shader")

	// ErrMissingEntryPoint is returned when a source lacks a vertex or fragment entry point.
	ErrMissingEntryPoint = errors.New("shader has no entry point")
)

// Stage identifies a render pipeline stage.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota

	// StageFragment is the fragment stage.
	StageFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	entryPoints   map[Stage]string
	vertexLayouts []wgpu.VertexBufferLayout
	bindGroups    map[int]wgpu.BindGroupLayoutDescriptor
	bindingNames  map[int]map[int]string
	module        *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed WGSL render shader holding one vertex and one fragment entry point, with the
// layouts reflected from its source.
type Shader interface {
	// Key retrieves the shader's key, the value materials store as their shader name.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Source retrieves the WGSL source.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// EntryPoint retrieves the entry point function of a stage.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - string: the function name
	EntryPoint(stage Stage) string

	// VertexLayouts retrieves the buffer layouts of the vertex input structs, in declaration order.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor retrieves the layout of one bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout, or an empty descriptor if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindingName retrieves the variable declared at a group and binding.
	//
	// Parameters:
	//   - group: the @group index
	//   - binding: the @binding index
	//
	// Returns:
	//   - string: the variable name, or an empty string
	BindingName(group, binding int) string

	// Binding finds the binding index of a named variable within a group.
	//
	// Parameters:
	//   - group: the @group index
	//   - name: the variable name
	//
	// Returns:
	//   - int: the binding index
	//   - bool: false if no such variable exists in the group
	Binding(group int, name string) (int, bool)

	// Module retrieves the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

var (
	builtinOnce sync.Once
	builtins    map[string]Shader
	builtinErr  error
)

// Parse reflects a WGSL source.
//
// Parameters:
//   - key: the shader key, also used as the module label
//   - source: the WGSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrMissingEntryPoint if the vertex or fragment entry point is absent
func Parse(key, source string) (Shader, error) {
	cleaned := stripComments(source)
	s := &shader{
		key:         key,
		source:      source,
		entryPoints: make(map[Stage]string, len(entryRegexes)),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
		},
	}
	for stage, re := range entryRegexes {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			return nil, fmt.Errorf("%w: %s stage %d", ErrMissingEntryPoint, key, stage)
		}
		s.entryPoints[stage] = m[1]
	}

	structs := parseStructs(cleaned)
	s.vertexLayouts = vertexLayouts(structs)
	s.bindGroups, s.bindingNames = bindGroups(cleaned, structs)
	return s, nil
}

// Lookup returns the built-in shader for a material shader key.
//
// Parameters:
//   - key: material.ShaderAnimation or material.ShaderDefault
//
// Returns:
//   - Shader: the parsed built-in shader
//   - error: ErrUnknownShader, or a parse error
func Lookup(key string) (Shader, error) {
	builtinOnce.Do(loadBuiltins)
	if builtinErr != nil {
		return nil, builtinErr
	}
	s, ok := builtins[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShader, key)
	}
	return s, nil
}

// Keys lists the built-in shader keys in sorted order.
//
// Returns:
//   - []string: the keys
func Keys() []string {
	keys := make([]string, 0, len(builtinFiles))
	for k := range builtinFiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func loadBuiltins() {
	builtins = make(map[string]Shader, len(builtinFiles))
	for key, path := range builtinFiles {
		src, err := builtinSources.ReadFile(path)
		if err != nil {
			builtinErr = fmt.Errorf("failed to read %s: %w", path, err)
			return
		}
		s, err := Parse(key, string(src))
		if err != nil {
			builtinErr = err
			return
		}
		builtins[key] = s
	}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage Stage) string {
	return s.entryPoints[stage]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroups[group]
}

func (s *shader) BindingName(group, binding int) string {
	return s.bindingNames[group][binding]
}

func (s *shader) Binding(group int, name string) (int, bool) {
	for b, n := range s.bindingNames[group] {
		if n == name {
			return b, true
		}
	}
	return 0, false
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
