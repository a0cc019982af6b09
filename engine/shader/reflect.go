package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

// typeLayout is the WGSL host-shareable size and alignment of a type.
type typeLayout struct {
	size  uint64
	align uint64
}

type field struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type structDecl struct {
	name   string
	fields []field
}

var vertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
	"vec4<i32>": {wgpu.VertexFormatSint32x4, 16},
}

var primitiveLayouts = map[string]typeLayout{
	"f32":         {4, 4},
	"u32":         {4, 4},
	"i32":         {4, 4},
	"vec2<f32>":   {8, 8},
	"vec3<f32>":   {12, 16},
	"vec4<f32>":   {16, 16},
	"vec4<u32>":   {16, 16},
	"vec4<i32>":   {16, 16},
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
}

// shorthands maps the predeclared aliases onto their long form.
var shorthands = map[string]string{
	"vec2f":   "vec2<f32>",
	"vec3f":   "vec3<f32>",
	"vec4f":   "vec4<f32>",
	"vec4u":   "vec4<u32>",
	"vec4i":   "vec4<i32>",
	"mat3x3f": "mat3x3<f32>",
	"mat4x4f": "mat4x4<f32>",
}

var sampledTextures = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_3d":       wgpu.TextureViewDimension3D,
	"texture_cube":     wgpu.TextureViewDimensionCube,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	structRegex       = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex     = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex      = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRegex        = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)
	bindingRegex      = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	entryRegexes      = map[Stage]*regexp.Regexp{
		StageVertex:   regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`),
		StageFragment: regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`),
	}
)

func stripComments(source string) string {
	return lineCommentRegex.ReplaceAllString(blockCommentRegex.ReplaceAllString(source, ""), "")
}

func normalizeType(t string) string {
	t = strings.Join(strings.Fields(t), "")
	if long, ok := shorthands[t]; ok {
		return long
	}
	return t
}

func parseStructs(source string) []structDecl {
	var out []structDecl
	for _, m := range structRegex.FindAllStringSubmatch(source, -1) {
		s := structDecl{name: m[1]}
		for _, line := range splitTopLevel(m[2]) {
			line = strings.TrimSpace(line)
			fm := fieldRegex.FindStringSubmatch(line)
			if fm == nil {
				continue
			}
			f := field{name: fm[1], typeName: normalizeType(fm[2]), location: -1, builtin: builtinRegex.MatchString(line)}
			if lm := locationRegex.FindStringSubmatch(line); lm != nil {
				f.location, _ = strconv.Atoi(lm[1])
			}
			s.fields = append(s.fields, f)
		}
		out = append(out, s)
	}
	return out
}

// splitTopLevel splits a struct body at commas outside angle brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func roundUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// structLayouts resolves struct sizes in dependency order. Structs referring to unknown types are left out.
func structLayouts(structs []structDecl) map[string]typeLayout {
	resolved := make(map[string]typeLayout, len(structs))
	for progress := true; progress; {
		progress = false
		for _, s := range structs {
			if _, done := resolved[s.name]; done {
				continue
			}
			if l, ok := structLayout(s, resolved); ok {
				resolved[s.name] = l
				progress = true
			}
		}
	}
	return resolved
}

func structLayout(s structDecl, known map[string]typeLayout) (typeLayout, bool) {
	var offset uint64
	align := uint64(1)
	for _, f := range s.fields {
		if f.builtin {
			continue
		}
		l, ok := layoutOf(f.typeName, known)
		if !ok {
			return typeLayout{}, false
		}
		offset = roundUp(l.align, offset) + l.size
		align = max(align, l.align)
	}
	return typeLayout{size: roundUp(align, offset), align: align}, true
}

func layoutOf(t string, known map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[t]; ok {
		return l, true
	}
	l, ok := known[t]
	return l, ok
}

// vertexLayouts builds one buffer layout per struct made only of @location fields, in declaration order.
func vertexLayouts(structs []structDecl) []wgpu.VertexBufferLayout {
	var out []wgpu.VertexBufferLayout
	for _, s := range structs {
		layout, ok := vertexLayout(s)
		if ok {
			out = append(out, layout)
		}
	}
	return out
}

func vertexLayout(s structDecl) (wgpu.VertexBufferLayout, bool) {
	if len(s.fields) == 0 {
		return wgpu.VertexBufferLayout{}, false
	}
	attrs := make([]wgpu.VertexAttribute, 0, len(s.fields))
	var offset uint64
	for _, f := range s.fields {
		vf, ok := vertexFormats[f.typeName]
		if f.builtin || f.location < 0 || !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         vf.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += vf.size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// bindGroups reflects every @group/@binding declaration. Entries are visible to both stages and
// sorted by binding; uniform and storage buffers get their bound type's size as MinBindingSize.
func bindGroups(source string, structs []structDecl) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	known := structLayouts(structs)
	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)

	for _, m := range bindingRegex.FindAllStringSubmatch(source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		space := strings.Join(strings.Fields(m[3]), "")
		typeName := normalizeType(m[5])

		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		}
		switch {
		case space == "uniform":
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case strings.HasPrefix(space, "storage"):
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
			if strings.HasSuffix(space, "read_write") {
				entry.Buffer.Type = wgpu.BufferBindingTypeStorage
			}
		case typeName == "sampler":
			entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		case typeName == "sampler_comparison":
			entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
		default:
			base, param, _ := strings.Cut(strings.TrimSuffix(typeName, ">"), "<")
			if dim, ok := sampledTextures[base]; ok {
				entry.Texture.ViewDimension = dim
				entry.Texture.SampleType = sampleTypes[param]
			}
		}
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := layoutOf(typeName, known); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}

		entries[group] = append(entries[group], entry)
		if names[group] == nil {
			names[group] = make(map[int]string)
		}
		names[group][binding] = m[4]
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, e := range entries {
		sort.Slice(e, func(i, j int) bool { return e[i].Binding < e[j].Binding })
		out[g] = wgpu.BindGroupLayoutDescriptor{Entries: e}
	}
	return out, names
}
