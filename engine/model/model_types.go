package model

import (
	"github.com/Carmen-Shannon/oxy-gpuanim/common"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform represents a local TRS transform of a hierarchy node.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes the transform into a column-major local matrix (T * R * S).
//
// Returns:
//   - mgl32.Mat4: the local matrix
func (t Transform) Matrix() mgl32.Mat4 {
	return common.ComposeTRS(t.Translation, t.Rotation, t.Scale)
}

// Vertex is a single vertex of a rigid (non-deforming) mesh.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// SkinnedVertex is a single vertex of a deformable mesh with up to four bone influences.
// BoneIndices address the owning mesh's local Bones list, not a skeleton.
type SkinnedVertex struct {
	Vertex
	BoneIndices [4]uint32
	BoneWeights [4]float32
}

// SkinnedMesh is a deformable mesh authored against its own local bone list.
type SkinnedMesh struct {
	// Name identifies the mesh; rebound output files are named after it.
	Name string

	// Vertices holds the per-vertex attributes and local bone influences.
	Vertices []SkinnedVertex

	// Indices is the triangle list.
	Indices []uint32

	// Bones lists the names of the bones the vertex influences refer to, in local order.
	Bones []string

	// BindPoses holds, per local bone, the matrix taking mesh space into that bone's space at bind time.
	BindPoses []mgl32.Mat4
}

// RigidMesh is a mesh without bone influences.
type RigidMesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// SkinnedSurface is a render surface that draws a deformable mesh.
type SkinnedSurface struct {
	Name     string
	Mesh     *SkinnedMesh
	Material *common.ImportedMaterial
}

// RigidSurface is a render surface that draws a rigid mesh.
type RigidSurface struct {
	Name     string
	Mesh     *RigidMesh
	Material *common.ImportedMaterial
}
