package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/loader"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/node"

	"github.com/go-gl/mathgl/mgl32"
)

// Prefab is the on-disk description of a node tree.
// Player prefabs also name the baked data and texture files and the clip to start on.
type Prefab struct {
	Asset       string      `json:"asset"`
	Data        string      `json:"data,omitempty"`
	Texture     string      `json:"texture,omitempty"`
	DefaultClip string      `json:"defaultClip,omitempty"`
	Root        *PrefabNode `json:"root"`
}

// PrefabNode is one node of a Prefab. Rotation is stored as x, y, z, w.
type PrefabNode struct {
	Name     string         `json:"name"`
	Position [3]float32     `json:"position"`
	Rotation [4]float32     `json:"rotation"`
	Scale    [3]float32     `json:"scale"`
	Surface  *PrefabSurface `json:"surface,omitempty"`
	Children []*PrefabNode  `json:"children,omitempty"`
}

// PrefabSurface references the mesh and material files of a render surface by name.
type PrefabSurface struct {
	Mesh     string `json:"mesh"`
	Material string `json:"material"`
	Skinned  bool   `json:"skinned,omitempty"`
}

// MaterialFile is the on-disk description of a material.
type MaterialFile struct {
	Name            string     `json:"name"`
	Shader          string     `json:"shader"`
	BaseColor       [4]float32 `json:"baseColor"`
	MainTexture     string     `json:"mainTexture,omitempty"`
	SkinningTexture string     `json:"skinningTexture,omitempty"`
	SkinningTexSize int        `json:"skinningTexSize,omitempty"`
	Instancing      bool       `json:"instancing"`
}

// BuildPlayerNode assembles the runtime tree of a baked asset: a player node named after the asset
// with one skinned child per rebound surface. Surfaces that share a source material share one
// animation material bound to the skinning texture.
//
// Parameters:
//   - asset: the asset name
//   - res: the bake result
//   - parts: the rebound surfaces
//   - textureName: the skinning texture asset name
//
// Returns:
//   - node.Node: the player node
//   - []material.Material: the distinct animation materials, in first-use order
func BuildPlayerNode(asset string, res *baker.Result, parts []*baker.RebindPart, textureName string) (node.Node, []material.Material) {
	root := node.NewNode(node.WithName(asset))

	bySource := make(map[*common.ImportedMaterial]material.Material)
	var mats []material.Material
	for _, part := range parts {
		src := part.Surface.Material
		m, ok := bySource[src]
		if !ok {
			name := asset + "_material"
			if src != nil && src.Name != "" {
				name = src.Name
			}
			m = material.NewAnimationMaterial(name, src, textureName, res.Texture.Size)
			bySource[src] = m
			mats = append(mats, m)
		}
		node.NewNode(
			node.WithName(part.Surface.Name),
			node.WithParent(root),
			node.WithSurface(&node.Surface{MeshName: part.Mesh.Name, Skinned: true, Material: m}),
		)
	}
	return root, mats
}

// BuildWidgetNode wraps a widget in a single rigid node.
//
// Parameters:
//   - w: the widget
//
// Returns:
//   - node.Node: the widget node
func BuildWidgetNode(w *baker.Widget) node.Node {
	return node.NewNode(
		node.WithName(w.Name),
		node.WithSurface(&node.Surface{MeshName: w.Name, Material: w.Material}),
	)
}

// ToPrefabNode converts a node tree into its on-disk form.
//
// Parameters:
//   - n: the root of the tree
//
// Returns:
//   - *PrefabNode: the converted tree
func ToPrefabNode(n node.Node) *PrefabNode {
	q := n.LocalRotation()
	p := &PrefabNode{
		Name:     n.Name(),
		Position: n.LocalPosition(),
		Rotation: [4]float32{q.V[0], q.V[1], q.V[2], q.W},
		Scale:    n.LocalScale(),
	}
	if s := n.Surface(); s != nil {
		p.Surface = &PrefabSurface{Mesh: s.MeshName, Skinned: s.Skinned}
		if s.Material != nil {
			p.Surface.Material = s.Material.Name()
		}
	}
	for _, c := range n.Children() {
		p.Children = append(p.Children, ToPrefabNode(c))
	}
	return p
}

// FromPrefabNode rebuilds a node tree, resolving surface materials by name.
//
// Parameters:
//   - p: the on-disk tree
//   - materials: material name to material
//
// Returns:
//   - node.Node: the rebuilt tree
//   - error: loader.ErrMissingAsset if a surface names an unknown material
func FromPrefabNode(p *PrefabNode, materials map[string]material.Material) (node.Node, error) {
	n := node.NewNode(
		node.WithName(p.Name),
		node.WithPosition(p.Position),
		node.WithRotation(mgl32.Quat{W: p.Rotation[3], V: mgl32.Vec3{p.Rotation[0], p.Rotation[1], p.Rotation[2]}}),
		node.WithScale(p.Scale),
	)
	if p.Surface != nil {
		m, ok := materials[p.Surface.Material]
		if !ok {
			return nil, fmt.Errorf("%w: material %q", loader.ErrMissingAsset, p.Surface.Material)
		}
		n.SetSurface(&node.Surface{MeshName: p.Surface.Mesh, Skinned: p.Surface.Skinned, Material: m})
	}
	for _, c := range p.Children {
		child, err := FromPrefabNode(c, materials)
		if err != nil {
			return nil, err
		}
		child.SetParent(n)
	}
	return n, nil
}

// ToMaterialFile converts a material into its on-disk form.
//
// Parameters:
//   - m: the material
//   - mainTexture: the file name the main texture was written to, if any
//
// Returns:
//   - MaterialFile: the converted material
func ToMaterialFile(m material.Material, mainTexture string) MaterialFile {
	return MaterialFile{
		Name:            m.Name(),
		Shader:          m.Shader(),
		BaseColor:       m.BaseColor(),
		MainTexture:     mainTexture,
		SkinningTexture: m.SkinningTexture(),
		SkinningTexSize: m.SkinningTexSize(),
		Instancing:      m.Instancing(),
	}
}

// Material rebuilds the material described by the file.
//
// Returns:
//   - material.Material: the material
func (f MaterialFile) Material() material.Material {
	opts := []material.MaterialBuilderOption{
		material.WithName(f.Name),
		material.WithShader(f.Shader),
		material.WithBaseColor(f.BaseColor),
		material.WithInstancing(f.Instancing),
	}
	if f.MainTexture != "" {
		opts = append(opts, material.WithMainTexture(&common.ImportedTexture{Name: f.MainTexture, Path: f.MainTexture}))
	}
	if f.SkinningTexture != "" {
		opts = append(opts, material.WithSkinningTexture(f.SkinningTexture, f.SkinningTexSize))
	}
	return material.NewMaterial(opts...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
