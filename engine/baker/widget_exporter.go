package baker

import (
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"go.uber.org/zap"
)

// Widget is a rigid surface cloned out of a linked-widget asset.
type Widget struct {
	// Name is the asset name, suffixed with the surface name when the asset holds several surfaces.
	Name     string
	Source   string
	Mesh     *model.RigidMesh
	Material material.Material
}

func (b *baker) ExportWidgets(sources []*model.SourceAsset) []*Widget {
	var out []*Widget
	for _, asset := range sources {
		surfaces := asset.RigidSurfaces()
		for _, s := range surfaces {
			if s.Mesh == nil {
				continue
			}
			name := asset.Name
			if len(surfaces) > 1 {
				name = asset.Name + "_" + s.Name
			}
			matName := name
			if s.Material != nil && s.Material.Name != "" {
				matName = s.Material.Name
			}
			out = append(out, &Widget{
				Name:     name,
				Source:   asset.Path,
				Mesh:     cloneRigidMesh(s.Mesh),
				Material: material.NewWidgetMaterial(matName, s.Material),
			})
		}
		b.logger.Debug("widget asset exported", zap.String("asset", asset.Name), zap.Int("surfaces", len(surfaces)))
	}
	return out
}

func cloneRigidMesh(m *model.RigidMesh) *model.RigidMesh {
	return &model.RigidMesh{
		Name:     m.Name,
		Vertices: append([]model.Vertex(nil), m.Vertices...),
		Indices:  append([]uint32(nil), m.Indices...),
	}
}
