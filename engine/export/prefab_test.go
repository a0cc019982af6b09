package export

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/loader"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/node"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlayerNodeSharesMaterials(t *testing.T) {
	fur := &common.ImportedMaterial{Name: "Fur", BaseColor: [4]float32{1, 0, 0, 1}}
	res := &baker.Result{Texture: baker.NewSkinningTexture(16)}
	parts := []*baker.RebindPart{
		{Surface: &model.SkinnedSurface{Name: "Body", Material: fur}, Mesh: &baker.RebindMesh{Name: "BodyMesh"}},
		{Surface: &model.SkinnedSurface{Name: "Tail", Material: fur}, Mesh: &baker.RebindMesh{Name: "TailMesh"}},
		{Surface: &model.SkinnedSurface{Name: "Eyes"}, Mesh: &baker.RebindMesh{Name: "EyesMesh"}},
	}

	root, mats := BuildPlayerNode("Wolf", res, parts, "Wolf_skinning")
	assert.Equal(t, "Wolf", root.Name())
	require.Len(t, root.Children(), 3)
	require.Len(t, mats, 2)
	assert.Equal(t, "Fur", mats[0].Name())
	assert.Equal(t, "Wolf_material", mats[1].Name())

	for _, m := range mats {
		assert.Equal(t, material.ShaderAnimation, m.Shader())
		assert.Equal(t, "Wolf_skinning", m.SkinningTexture())
		assert.Equal(t, 16, m.SkinningTexSize())
		assert.True(t, m.Instancing())
	}

	body, tail := root.Children()[0].Surface(), root.Children()[1].Surface()
	assert.True(t, body.Skinned)
	assert.Equal(t, "BodyMesh", body.MeshName)
	assert.Same(t, body.Material, tail.Material)
}

func TestPrefabRoundTrip(t *testing.T) {
	mat := material.NewWidgetMaterial("Steel", nil)
	root := node.NewNode(node.WithName("Rack"), node.WithPosition(mgl32.Vec3{1, 2, 3}))
	node.NewNode(
		node.WithName("Sword"),
		node.WithParent(root),
		node.WithRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})),
		node.WithScale(mgl32.Vec3{2, 2, 2}),
		node.WithSurface(&node.Surface{MeshName: "SwordMesh", Material: mat}),
	)

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, ToPrefabNode(root)))
	var p PrefabNode
	require.NoError(t, readJSON(&buf, &p))

	got, err := FromPrefabNode(&p, map[string]material.Material{"Steel": mat})
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, got.LocalPosition())

	sword := got.Find("Sword")
	require.NotNil(t, sword)
	assert.True(t, sword.LocalRotation().ApproxEqual(root.Find("Sword").LocalRotation()))
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, sword.LocalScale())
	require.NotNil(t, sword.Surface())
	assert.Equal(t, "SwordMesh", sword.Surface().MeshName)
	assert.Same(t, mat, sword.Surface().Material)
	assert.NotNil(t, sword.Surface().Properties)

	_, err = FromPrefabNode(&p, nil)
	assert.ErrorIs(t, err, loader.ErrMissingAsset)
}

func TestMaterialFileRoundTrip(t *testing.T) {
	src := &common.ImportedMaterial{
		Name:        "Fur",
		BaseColor:   [4]float32{0.5, 0.5, 0.5, 1},
		MainTexture: &common.ImportedTexture{Name: "fur.png", Path: "fur.png"},
	}
	m := material.NewAnimationMaterial("Fur", src, "Wolf_skinning", 32)

	f := ToMaterialFile(m, "fur.png")
	assert.Equal(t, "fur.png", f.MainTexture)

	got := f.Material()
	assert.Equal(t, m.Name(), got.Name())
	assert.Equal(t, m.Shader(), got.Shader())
	assert.Equal(t, m.BaseColor(), got.BaseColor())
	assert.Equal(t, "Wolf_skinning", got.SkinningTexture())
	assert.Equal(t, 32, got.SkinningTexSize())
	assert.True(t, got.Instancing())
	require.NotNil(t, got.MainTexture())
	assert.Equal(t, "fur.png", got.MainTexture().Path)
}
