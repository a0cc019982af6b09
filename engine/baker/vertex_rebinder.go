package baker

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ErrUnknownBone is returned when a mesh references a bone the skeleton does not contain.
var ErrUnknownBone = errors.New("mesh references unknown bone")

// RebindMesh is a source mesh re-expressed in the skeleton's global bone index space.
type RebindMesh struct {
	Name     string
	Source   *model.SkinnedMesh
	Vertices []model.GPURebindVertex
	Indices  []uint32
}

// RebindPart pairs a skinned surface with its rebound mesh.
type RebindPart struct {
	Surface *model.SkinnedSurface
	Mesh    *RebindMesh
}

// RebindMeshData remaps one mesh's bone indices to the skeleton and moves its vertices into
// skinning space with restWorld[bone0] * BindPoses[0].
// Positions are transformed as points and normals as directions.
//
// Parameters:
//   - skel: the indexed skeleton
//   - mesh: the source mesh
//
// Returns:
//   - *RebindMesh: the rebound mesh
//   - error: ErrUnknownBone if a local bone is not in the skeleton or a vertex indexes past the mesh's bones
func RebindMeshData(skel *Skeleton, mesh *model.SkinnedMesh) (*RebindMesh, error) {
	if len(mesh.Bones) == 0 || len(mesh.BindPoses) == 0 {
		return nil, fmt.Errorf("%w: mesh %q has no bones", ErrUnknownBone, mesh.Name)
	}

	global := make([]int, len(mesh.Bones))
	for i, name := range mesh.Bones {
		idx, ok := skel.IndexOf(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q in mesh %q", ErrUnknownBone, name, mesh.Name)
		}
		global[i] = idx
	}
	meshMatrix := skel.RestWorld[global[0]].Mul4(mesh.BindPoses[0])

	out := &RebindMesh{
		Name:     mesh.Name,
		Source:   mesh,
		Vertices: make([]model.GPURebindVertex, len(mesh.Vertices)),
		Indices:  append([]uint32(nil), mesh.Indices...),
	}
	for i, v := range mesh.Vertices {
		for k := 0; k < 4; k++ {
			if int(v.BoneIndices[k]) >= len(global) {
				return nil, fmt.Errorf("%w: vertex %d of mesh %q uses local bone %d of %d", ErrUnknownBone, i, mesh.Name, v.BoneIndices[k], len(global))
			}
		}
		rv := &out.Vertices[i]
		rv.Position = mgl32.TransformCoordinate(v.Position, meshMatrix)
		rv.Normal = mgl32.TransformNormal(v.Normal, meshMatrix)
		rv.TexCoord = v.TexCoord
		for k := 0; k < 4; k++ {
			rv.BoneIndices[k] = float32(global[v.BoneIndices[k]])
			rv.BoneWeights[k] = v.BoneWeights[k]
		}
	}
	return out, nil
}

func (b *baker) RebindMeshes(skel *Skeleton, surfaces []*model.SkinnedSurface) []*RebindPart {
	done := make(map[*model.SkinnedMesh]*RebindMesh)
	failed := make(map[*model.SkinnedMesh]struct{})

	parts := make([]*RebindPart, 0, len(surfaces))
	for _, s := range surfaces {
		if s.Mesh == nil {
			continue
		}
		if _, ok := failed[s.Mesh]; ok {
			continue
		}
		rm, ok := done[s.Mesh]
		if !ok {
			var err error
			rm, err = RebindMeshData(skel, s.Mesh)
			if err != nil {
				failed[s.Mesh] = struct{}{}
				b.logger.Warn("skipping skinned surface", zap.String("surface", s.Name), zap.Error(err))
				continue
			}
			done[s.Mesh] = rm
		}
		parts = append(parts, &RebindPart{Surface: s, Mesh: rm})
	}
	return parts
}
