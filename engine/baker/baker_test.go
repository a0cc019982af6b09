package baker

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBakeTwoBoneIdle(t *testing.T) {
	res, err := NewBaker().Bake(twoBoneAsset())
	require.NoError(t, err)

	require.Len(t, res.Data.Clips, 1)
	idle := res.Data.Clip("idle")
	require.NotNil(t, idle)
	assert.Equal(t, 30, idle.FrameCount)
	assert.Equal(t, 0, idle.LoopStartFrame)
	assert.InDelta(t, 1.0, idle.Length, 1e-6)
	assert.Equal(t, 6, idle.PixelStartIndex)
	assert.Equal(t, 186, res.Data.TotalPixels())
	assert.Equal(t, 16, res.Texture.Size)
	assert.Equal(t, []string{"Hips", "Spine"}, res.Data.BoneNames)
	assert.NoError(t, res.Data.Validate())
}

func TestBakeWritesIdentityBlock(t *testing.T) {
	res, err := NewBaker().Bake(twoBoneAsset())
	require.NoError(t, err)

	ident := mgl32.Ident4()
	for bone := 0; bone < 2; bone++ {
		got := res.Texture.ReadMatrix(bone * TexelsPerBone)
		assert.Equal(t, ident, got)
	}
}

func TestBakeWritesSkinMatrices(t *testing.T) {
	res, err := NewBaker().Bake(twoBoneAsset())
	require.NoError(t, err)
	idle := res.Data.Clip("idle")

	// Frame 0 is the rest pose, so world * bindPose is the identity.
	got := res.Texture.ReadMatrix(idle.FramePixelIndex(0, 2) + TexelsPerBone)
	ident := mgl32.Ident4()
	assert.InDeltaSlice(t, ident[:], got[:], 1e-3)

	// Frame 15 lifts the hips by 0.5.
	for bone := 0; bone < 2; bone++ {
		m := res.Texture.ReadMatrix(idle.FramePixelIndex(15, 2) + bone*TexelsPerBone)
		assert.InDelta(t, 0.5, m.At(1, 3), 1e-3)
		assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, m.Row(3))
	}
}

func TestBakeSkipsEmptyClipsAndChainsOffsets(t *testing.T) {
	asset := twoBoneAsset()
	asset.Clips = append(asset.Clips,
		model.NewAnimationCurveSet("empty", 30, 0, true),
		model.NewAnimationCurveSet("die", 30, 0.5, false),
	)

	res, err := NewBaker().Bake(asset)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty"}, res.Skipped)
	require.Len(t, res.Data.Clips, 2)

	die := res.Data.Clip("die")
	require.NotNil(t, die)
	assert.Equal(t, 6+30*2*3, die.PixelStartIndex)
	assert.Equal(t, 14, die.LoopStartFrame)
	assert.Equal(t, 6+180+90, res.Data.TotalPixels())
	assert.Equal(t, 32, res.Texture.Size)
}

func TestBakeEmptySkeleton(t *testing.T) {
	_, err := NewBaker().Bake(&model.SourceAsset{Name: "none", Root: model.NewNode("none")})
	assert.ErrorIs(t, err, ErrEmptySkeleton)
}

func TestBakeSkeletonRootOption(t *testing.T) {
	_, err := NewBaker(WithSkeletonRoot("Missing")).Bake(twoBoneAsset())
	assert.ErrorIs(t, err, ErrSkeletonRootNotFound)
}

func TestSkinningTextureDescriptors(t *testing.T) {
	tex := NewSkinningTexture(16)
	assert.Len(t, tex.Bytes(), 16*16*BytesPerTexel)

	desc := tex.Descriptor("wolf")
	assert.Equal(t, uint32(16), desc.Size.Width)
	assert.Equal(t, uint32(16), desc.Size.Height)
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, desc.Format)
	assert.Equal(t, uint32(1), desc.MipLevelCount)

	staging := tex.StagingData()
	assert.Equal(t, uint32(BytesPerTexel), staging.BytesPerPixel)
	assert.Equal(t, uint32(16*BytesPerTexel), tex.DataLayout().BytesPerRow)
	assert.Equal(t, wgpu.FilterModeNearest, tex.SamplerData().MagFilter)

	assert.Error(t, tex.SetTexel(256, [4]float32{}))
	assert.Error(t, tex.WriteMatrix(254, mgl32.Ident4()))
}

func TestPackMatrixRoundTrip(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(0.5))

	texels := PackMatrix(m)
	assert.Equal(t, [4]float32{m.At(0, 0), m.At(0, 1), m.At(0, 2), 1}, texels[0])
	assert.Equal(t, m, UnpackMatrix(texels))

	tex := NewSkinningTexture(2)
	require.NoError(t, tex.WriteMatrix(0, m))
	got := tex.ReadMatrix(0)
	assert.InDeltaSlice(t, m[:], got[:], 2e-3)
}

func TestTextureSize(t *testing.T) {
	assert.Equal(t, 2, TextureSize(0))
	assert.Equal(t, 16, TextureSize(186))
	assert.Equal(t, 16, TextureSize(256))
	assert.Equal(t, 32, TextureSize(257))
}

func TestRebindMeshes(t *testing.T) {
	asset := twoBoneAsset()
	b := NewBaker()
	res, err := b.Bake(asset)
	require.NoError(t, err)

	surfaces := asset.SkinnedSurfaces()
	shared := &model.SkinnedSurface{Name: "BodyLOD", Mesh: surfaces[0].Mesh}
	parts := b.RebindMeshes(res.Skeleton, append(surfaces, shared))
	require.Len(t, parts, 2)
	assert.Same(t, parts[0].Mesh, parts[1].Mesh)

	v := parts[0].Mesh.Vertices[0]
	// Local [Spine, Hips] maps to global [1, 0].
	assert.Equal(t, [4]float32{1, 0, 1, 1}, v.BoneIndices)
	assert.Equal(t, [4]float32{0.75, 0.25, 0, 0}, v.BoneWeights)
	// restWorld[Spine] * BindPoses[0] is the identity here.
	assert.InDeltaSlice(t, []float32{0, 2, 0}, v.Position[:], 1e-6)
}

func TestRebindMeshDataTransformsPointsAndNormals(t *testing.T) {
	skel, err := IndexSkeleton(twoBoneAsset().Root, "")
	require.NoError(t, err)

	mesh := &model.SkinnedMesh{
		Name: "Offset",
		Vertices: []model.SkinnedVertex{
			{Vertex: model.Vertex{Position: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}}},
		},
		Bones:     []string{"Spine"},
		BindPoses: []mgl32.Mat4{mgl32.Ident4()},
	}
	rm, err := RebindMeshData(skel, mesh)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1, 2, 0}, rm.Vertices[0].Position[:], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 0, 1}, rm.Vertices[0].Normal[:], 1e-6)
}

func TestRebindMeshesSkipsUnknownBones(t *testing.T) {
	skel, err := IndexSkeleton(twoBoneAsset().Root, "")
	require.NoError(t, err)

	bad := &model.SkinnedMesh{Name: "Ghost", Bones: []string{"Nope"}, BindPoses: []mgl32.Mat4{mgl32.Ident4()}}
	_, err = RebindMeshData(skel, bad)
	assert.ErrorIs(t, err, ErrUnknownBone)

	parts := NewBaker().RebindMeshes(skel, []*model.SkinnedSurface{{Name: "Ghost", Mesh: bad}})
	assert.Empty(t, parts)
}

func TestRebindMeshDataRejectsLocalIndexPastBones(t *testing.T) {
	skel, err := IndexSkeleton(twoBoneAsset().Root, "")
	require.NoError(t, err)

	mesh := &model.SkinnedMesh{
		Name: "Stray",
		Vertices: []model.SkinnedVertex{
			{BoneIndices: [4]uint32{0, 0, 0, 0}, BoneWeights: [4]float32{1, 0, 0, 0}},
			{BoneIndices: [4]uint32{0, 2, 0, 0}, BoneWeights: [4]float32{0.5, 0.5, 0, 0}},
		},
		Bones:     []string{"Hips", "Spine"},
		BindPoses: []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()},
	}
	_, err = RebindMeshData(skel, mesh)
	assert.ErrorIs(t, err, ErrUnknownBone)
}

func TestExportWidgets(t *testing.T) {
	root := model.NewNode("sword")
	blade := root.AddChild(model.NewNode("Blade"))
	mesh := &model.RigidMesh{Name: "BladeMesh", Vertices: []model.Vertex{{Position: mgl32.Vec3{0, 1, 0}}}, Indices: []uint32{0, 0, 0}}
	blade.Rigid = []*model.RigidSurface{{Name: "Blade", Mesh: mesh}}

	widgets := NewBaker().ExportWidgets([]*model.SourceAsset{{Name: "sword", Path: "sword.gltf", Root: root}})
	require.Len(t, widgets, 1)
	w := widgets[0]
	assert.Equal(t, "sword", w.Name)
	assert.NotSame(t, mesh, w.Mesh)
	assert.Equal(t, mesh.Vertices, w.Mesh.Vertices)
	assert.Equal(t, material.ShaderDefault, w.Material.Shader())
	assert.True(t, w.Material.Instancing())
	assert.Equal(t, "sword", w.Material.Name())
}
