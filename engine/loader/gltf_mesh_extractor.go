package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// gltfMeshKey identifies one primitive as drawn with one skin (-1 for rigid draws).
type gltfMeshKey struct {
	mesh, primitive, skin int
}

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser  gltfParser
	skinned map[gltfMeshKey]*model.SkinnedMesh
	rigid   map[gltfMeshKey]*model.RigidMesh
}

// gltfMeshExtractor attaches render surfaces to hierarchy nodes.
// Nodes that reference a mesh and a skin receive skinned surfaces, other mesh nodes receive rigid surfaces.
// A primitive referenced by several nodes with the same skin yields one shared mesh.
type gltfMeshExtractor interface {
	// Extract walks every glTF node and attaches its surfaces to the matching model node.
	//
	// Parameters:
	//   - nodes: the model node per glTF node index
	//   - materials: the imported material per glTF material index
	//   - fallback: the material used by primitives without one
	//
	// Returns:
	//   - error: error if an accessor cannot be decoded
	Extract(nodes []*model.Node, materials []*common.ImportedMaterial, fallback *common.ImportedMaterial) error
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{
		parser:  parser,
		skinned: make(map[gltfMeshKey]*model.SkinnedMesh),
		rigid:   make(map[gltfMeshKey]*model.RigidMesh),
	}
}

func (e *gltfMeshExtractorImpl) Extract(nodes []*model.Node, materials []*common.ImportedMaterial, fallback *common.ImportedMaterial) error {
	doc := e.parser.Document()
	for i, n := range doc.Nodes {
		if n.Mesh == nil {
			continue
		}
		if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
			return fmt.Errorf("node %d references missing mesh %d", i, *n.Mesh)
		}
		mesh := doc.Meshes[*n.Mesh]

		for p, prim := range mesh.Primitives {
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				continue
			}
			surfaceName := nodes[i].Name
			if len(mesh.Primitives) > 1 {
				surfaceName = fmt.Sprintf("%s_%d", nodes[i].Name, p)
			}
			mat := fallback
			if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(materials) {
				mat = materials[*prim.Material]
			}

			_, hasJoints := prim.Attributes[gltfAttrJoints]
			if n.Skin != nil && hasJoints {
				sm, err := e.skinnedMesh(gltfMeshKey{*n.Mesh, p, *n.Skin}, nodes)
				if err != nil {
					return fmt.Errorf("node %q: %w", nodes[i].Name, err)
				}
				nodes[i].Skinned = append(nodes[i].Skinned, &model.SkinnedSurface{Name: surfaceName, Mesh: sm, Material: mat})
				continue
			}

			rm, err := e.rigidMesh(gltfMeshKey{*n.Mesh, p, -1})
			if err != nil {
				return fmt.Errorf("node %q: %w", nodes[i].Name, err)
			}
			nodes[i].Rigid = append(nodes[i].Rigid, &model.RigidSurface{Name: surfaceName, Mesh: rm, Material: mat})
		}
	}
	return nil
}

func (e *gltfMeshExtractorImpl) meshName(key gltfMeshKey) string {
	mesh := e.parser.Document().Meshes[key.mesh]
	name := mesh.Name
	if name == "" {
		name = fmt.Sprintf("mesh_%d", key.mesh)
	}
	if len(mesh.Primitives) > 1 {
		name = fmt.Sprintf("%s_%d", name, key.primitive)
	}
	return name
}

// readVertices decodes the shared attributes of a primitive and its triangle list.
func (e *gltfMeshExtractorImpl) readVertices(prim gltfPrimitive) ([]model.Vertex, []uint32, error) {
	posIdx, ok := prim.Attributes[gltfAttrPosition]
	if !ok {
		return nil, nil, fmt.Errorf("primitive has no %s attribute", gltfAttrPosition)
	}
	positions, err := e.parser.ReadFloats(posIdx, gltfAccessorTypeVec3)
	if err != nil {
		return nil, nil, fmt.Errorf("positions: %w", err)
	}
	count := len(positions) / 3

	var normals, uvs []float32
	if idx, ok := prim.Attributes[gltfAttrNormal]; ok {
		if normals, err = e.parser.ReadFloats(idx, gltfAccessorTypeVec3); err != nil {
			return nil, nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltfAttrTexCoord]; ok {
		if uvs, err = e.parser.ReadFloats(idx, gltfAccessorTypeVec2); err != nil {
			return nil, nil, fmt.Errorf("uvs: %w", err)
		}
	}

	verts := make([]model.Vertex, count)
	for v := range verts {
		verts[v].Position = mgl32.Vec3{positions[v*3], positions[v*3+1], positions[v*3+2]}
		if len(normals) >= (v+1)*3 {
			verts[v].Normal = mgl32.Vec3{normals[v*3], normals[v*3+1], normals[v*3+2]}
		}
		if len(uvs) >= (v+1)*2 {
			verts[v].TexCoord = mgl32.Vec2{uvs[v*2], uvs[v*2+1]}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = e.parser.ReadUints(*prim.Indices, gltfAccessorTypeScalar); err != nil {
			return nil, nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return verts, indices, nil
}

func (e *gltfMeshExtractorImpl) rigidMesh(key gltfMeshKey) (*model.RigidMesh, error) {
	if m, ok := e.rigid[key]; ok {
		return m, nil
	}
	prim := e.parser.Document().Meshes[key.mesh].Primitives[key.primitive]
	verts, indices, err := e.readVertices(prim)
	if err != nil {
		return nil, err
	}
	m := &model.RigidMesh{Name: e.meshName(key), Vertices: verts, Indices: indices}
	e.rigid[key] = m
	return m, nil
}

func (e *gltfMeshExtractorImpl) skinnedMesh(key gltfMeshKey, nodes []*model.Node) (*model.SkinnedMesh, error) {
	if m, ok := e.skinned[key]; ok {
		return m, nil
	}
	doc := e.parser.Document()
	if key.skin < 0 || key.skin >= len(doc.Skins) {
		return nil, fmt.Errorf("skin %d out of range", key.skin)
	}
	skin := doc.Skins[key.skin]
	prim := doc.Meshes[key.mesh].Primitives[key.primitive]

	verts, indices, err := e.readVertices(prim)
	if err != nil {
		return nil, err
	}
	joints, err := e.parser.ReadUints(prim.Attributes[gltfAttrJoints], gltfAccessorTypeVec4)
	if err != nil {
		return nil, fmt.Errorf("joints: %w", err)
	}
	var weights []float32
	if idx, ok := prim.Attributes[gltfAttrWeights]; ok {
		if weights, err = e.parser.ReadFloats(idx, gltfAccessorTypeVec4); err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
	}

	m := &model.SkinnedMesh{
		Name:     e.meshName(key),
		Vertices: make([]model.SkinnedVertex, len(verts)),
		Indices:  indices,
	}
	for v := range verts {
		m.Vertices[v].Vertex = verts[v]
		for k := 0; k < 4; k++ {
			if len(joints) >= (v+1)*4 {
				m.Vertices[v].BoneIndices[k] = joints[v*4+k]
			}
			if len(weights) >= (v+1)*4 {
				m.Vertices[v].BoneWeights[k] = weights[v*4+k]
			}
		}
	}

	m.Bones = make([]string, len(skin.Joints))
	m.BindPoses = make([]mgl32.Mat4, len(skin.Joints))
	var ibms []float32
	if skin.InverseBindMatrices != nil {
		if ibms, err = e.parser.ReadFloats(*skin.InverseBindMatrices, gltfAccessorTypeMat4); err != nil {
			return nil, fmt.Errorf("inverse bind matrices: %w", err)
		}
	}
	for j, nodeIdx := range skin.Joints {
		if nodeIdx < 0 || nodeIdx >= len(nodes) {
			return nil, fmt.Errorf("skin joint %d out of range", nodeIdx)
		}
		m.Bones[j] = nodes[nodeIdx].Name
		m.BindPoses[j] = mgl32.Ident4()
		if len(ibms) >= (j+1)*16 {
			copy(m.BindPoses[j][:], ibms[j*16:(j+1)*16])
		}
	}

	e.skinned[key] = m
	return m, nil
}
