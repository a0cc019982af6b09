package model

// SourceAsset is everything read from one source model file.
type SourceAsset struct {
	// Name is the asset name, usually the file name without extension.
	Name string

	// Path is the file the asset was read from.
	Path string

	// Root is the container node; its descendants form the posed hierarchy.
	Root *Node

	// Clips holds the animation clips carried by the asset.
	Clips []*AnimationCurveSet
}

// SkinnedSurfaces returns every deformable render surface under the container, in pre-order.
//
// Returns:
//   - []*SkinnedSurface: the surfaces
func (a *SourceAsset) SkinnedSurfaces() []*SkinnedSurface {
	var out []*SkinnedSurface
	if a.Root == nil {
		return out
	}
	a.Root.Walk(func(n *Node) bool {
		out = append(out, n.Skinned...)
		return true
	})
	return out
}

// RigidSurfaces returns every rigid render surface under the container, in pre-order.
//
// Returns:
//   - []*RigidSurface: the surfaces
func (a *SourceAsset) RigidSurfaces() []*RigidSurface {
	var out []*RigidSurface
	if a.Root == nil {
		return out
	}
	a.Root.Walk(func(n *Node) bool {
		out = append(out, n.Rigid...)
		return true
	})
	return out
}

// Clip returns the clip with the given name, or nil.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - *AnimationCurveSet: the clip or nil
func (a *SourceAsset) Clip(name string) *AnimationCurveSet {
	for _, c := range a.Clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}
