package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHierarchy() *Node {
	root := NewNode("Fox")
	arm := root.AddChild(NewNode("Armature"))
	hips := arm.AddChild(NewNode("Hips"))
	hips.Transform.Translation = mgl32.Vec3{0, 1, 0}
	spine := hips.AddChild(NewNode("Spine"))
	spine.Transform.Translation = mgl32.Vec3{0, 0.5, 0}
	arm.AddChild(NewNode("Tail"))
	return root
}

func TestNodePath(t *testing.T) {
	root := buildHierarchy()
	spine := root.Find("Spine")
	require.NotNil(t, spine)

	assert.Equal(t, "", root.Path())
	assert.Equal(t, "Armature/Hips/Spine", spine.Path())
	assert.Equal(t, "Spine", LastPathSegment(spine.Path()))
	assert.Equal(t, "Tail", LastPathSegment("Tail"))
}

func TestNodeWorldMatrix(t *testing.T) {
	root := buildHierarchy()
	root.Transform.Translation = mgl32.Vec3{2, 0, 0}

	world := root.Find("Spine").WorldMatrix()
	pos := world.Col(3).Vec3()
	assert.InDeltaSlice(t, []float32{2, 1.5, 0}, pos[:], 1e-6)
}

func TestNodeWalkPreOrder(t *testing.T) {
	root := buildHierarchy()
	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return true
	})
	assert.Equal(t, []string{"Fox", "Armature", "Hips", "Spine", "Tail"}, names)
	assert.Nil(t, root.Find("Missing"))
}

func TestGPURebindVertexMarshal(t *testing.T) {
	v := GPURebindVertex{
		Position:    [3]float32{1, 2, 3},
		BoneIndices: [4]float32{4, 0, 0, 0},
		BoneWeights: [4]float32{1, 0, 0, 0},
	}
	buf := v.Marshal()
	require.Len(t, buf, v.Size())
	// 1.0f little-endian
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, buf[0:4])
	// 4.0f little-endian
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x40}, buf[32:36])
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, buf[48:52])
}
