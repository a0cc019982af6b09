package node

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeHierarchy(t *testing.T) {
	root := NewNode(WithName("root"), WithPosition(mgl32.Vec3{1, 0, 0}))
	hips := NewNode(WithName("Hips"), WithParent(root), WithPosition(mgl32.Vec3{0, 1, 0}))
	spine := NewNode(WithName("Spine"), WithParent(hips), WithPosition(mgl32.Vec3{0, 1, 0}))

	assert.True(t, root.Enabled())
	assert.Nil(t, root.Parent())
	assert.Equal(t, hips, spine.Parent())
	require.Len(t, root.Children(), 1)
	assert.Equal(t, spine, root.Find("Spine"))
	assert.Nil(t, root.Find("root"))

	pos := spine.WorldMatrix().Col(3)
	assert.InDeltaSlice(t, []float32{1, 2, 0, 1}, pos[:], 1e-6)
}

func TestNodeSetParentMoves(t *testing.T) {
	a := NewNode(WithName("a"))
	b := NewNode(WithName("b"))
	child := NewNode(WithName("child"), WithParent(a))

	child.SetParent(b)
	assert.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
	assert.Equal(t, b, child.Parent())

	child.SetParent(nil)
	assert.Empty(t, b.Children())
	assert.Nil(t, child.Parent())
}

func TestNodeCloneIsolatesPropertyBlocks(t *testing.T) {
	mat := material.NewMaterial(material.WithName("Fur"))
	root := NewNode(WithName("Wolf"))
	body := NewNode(WithName("Body"), WithParent(root), WithSurface(&Surface{MeshName: "WolfBody", Skinned: true, Material: mat}))
	require.NotNil(t, body.Surface().Properties)
	body.Surface().Properties.SetFloat(material.PropertyStartPixelIndex, 6)

	clone := root.Clone()
	cbody := clone.Find("Body")
	require.NotNil(t, cbody)
	assert.Equal(t, clone, cbody.Parent())
	assert.Same(t, mat, cbody.Surface().Material)

	cbody.Surface().Properties.SetFloat(material.PropertyStartPixelIndex, 66)
	v, _ := body.Surface().Properties.Float(material.PropertyStartPixelIndex)
	assert.Equal(t, float32(6), v)
}

func TestNodeLocalMatrix(t *testing.T) {
	n := NewNode()
	n.SetLocalPosition(mgl32.Vec3{0, 0, 3})
	n.SetLocalRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	n.SetLocalScale(mgl32.Vec3{2, 2, 2})

	got := n.LocalMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDeltaSlice(t, []float32{0, 0, 1, 1}, got[:], 1e-5)
}
