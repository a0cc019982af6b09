package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// gltfExtractHierarchy converts the document's node graph into a model.Node tree.
// The returned container node is synthetic: its children are the roots of the default scene.
// nodes[i] is the model node for glTF node i.
//
// Parameters:
//   - doc: the parsed document
//   - name: the container name used when the scene is unnamed
//
// Returns:
//   - *model.Node: the container node
//   - []*model.Node: the model node per glTF node index
//   - error: error if the node graph is not a forest
func gltfExtractHierarchy(doc *gltfDocument, name string) (*model.Node, []*model.Node, error) {
	nodes := make([]*model.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodeName := n.Name
		if nodeName == "" {
			nodeName = fmt.Sprintf("node_%d", i)
		}
		nodes[i] = model.NewNode(nodeName)
		nodes[i].Transform = gltfNodeTransform(n)
	}

	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < 0 || c >= len(nodes) {
				return nil, nil, fmt.Errorf("node %d has out of range child %d", i, c)
			}
			if nodes[c].Parent != nil || c == i {
				return nil, nil, fmt.Errorf("node %d has more than one parent", c)
			}
			nodes[i].AddChild(nodes[c])
		}
	}

	container := model.NewNode(name)
	var roots []int
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil {
			idx = *doc.Scene
		}
		if idx < 0 || idx >= len(doc.Scenes) {
			return nil, nil, fmt.Errorf("scene %d out of range", idx)
		}
		if doc.Scenes[idx].Name != "" {
			container.Name = doc.Scenes[idx].Name
		}
		roots = doc.Scenes[idx].Nodes
	} else {
		for i, n := range nodes {
			if n.Parent == nil {
				roots = append(roots, i)
			}
		}
	}

	for _, r := range roots {
		if r < 0 || r >= len(nodes) {
			return nil, nil, fmt.Errorf("scene root %d out of range", r)
		}
		if nodes[r].Parent != nil {
			return nil, nil, fmt.Errorf("scene root %d is also a child node", r)
		}
		container.AddChild(nodes[r])
	}
	return container, nodes, nil
}

// gltfNodeTransform reads a node's local transform; a matrix takes precedence over TRS.
func gltfNodeTransform(n gltfNode) model.Transform {
	t := model.IdentityTransform()
	if n.Matrix != nil {
		t.Translation, t.Rotation, t.Scale = common.DecomposeTRS(mgl32.Mat4(*n.Matrix))
		return t
	}
	if n.Translation != nil {
		t.Translation = mgl32.Vec3(*n.Translation)
	}
	if n.Rotation != nil {
		r := *n.Rotation
		t.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	if n.Scale != nil {
		t.Scale = mgl32.Vec3(*n.Scale)
	}
	return t
}
