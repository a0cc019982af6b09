package node

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Surface is the renderable part of a node: a mesh reference drawn with a shared material
// and a per-instance property block.
type Surface struct {
	MeshName   string
	Skinned    bool
	Material   material.Material
	Properties *material.PropertyBlock
}

type node struct {
	name     string
	enabled  atomic.Bool
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	parent   *node
	children []*node
	surface  *Surface
}

// Node defines the interface for an element of a runtime scene hierarchy.
// Transforms are local to the parent; world matrices are derived on demand by walking up the tree.
type Node interface {
	// Name returns the node's name.
	//
	// Returns:
	//   - string: the node name
	Name() string

	// Enabled returns whether this node is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether this node is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to render the node
	SetEnabled(enabled bool)

	// Parent returns the parent node, or nil for a root.
	//
	// Returns:
	//   - Node: the parent or nil
	Parent() Node

	// Children returns the direct children in order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// SetParent detaches the node from its current parent and appends it to the children of p.
	// A nil parent leaves the node detached. The local transform is kept as is.
	//
	// Parameters:
	//   - p: the new parent, or nil
	SetParent(p Node)

	// Find returns the first descendant with the given name in pre-order, excluding this node.
	//
	// Parameters:
	//   - name: the name to look for
	//
	// Returns:
	//   - Node: the match, or nil
	Find(name string) Node

	// LocalPosition returns the translation relative to the parent.
	//
	// Returns:
	//   - mgl32.Vec3: the local position
	LocalPosition() mgl32.Vec3

	// SetLocalPosition sets the translation relative to the parent.
	//
	// Parameters:
	//   - p: the local position
	SetLocalPosition(p mgl32.Vec3)

	// LocalRotation returns the rotation relative to the parent.
	//
	// Returns:
	//   - mgl32.Quat: the local rotation
	LocalRotation() mgl32.Quat

	// SetLocalRotation sets the rotation relative to the parent.
	//
	// Parameters:
	//   - q: the local rotation
	SetLocalRotation(q mgl32.Quat)

	// LocalScale returns the scale relative to the parent.
	//
	// Returns:
	//   - mgl32.Vec3: the local scale
	LocalScale() mgl32.Vec3

	// SetLocalScale sets the scale relative to the parent.
	//
	// Parameters:
	//   - s: the local scale
	SetLocalScale(s mgl32.Vec3)

	// LocalMatrix composes the local transform (T * R * S).
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix
	LocalMatrix() mgl32.Mat4

	// WorldMatrix returns the product of every local matrix from the root down to this node.
	//
	// Returns:
	//   - mgl32.Mat4: the local-to-world matrix
	WorldMatrix() mgl32.Mat4

	// Surface returns the node's render surface, or nil for a transform-only node.
	//
	// Returns:
	//   - *Surface: the surface or nil
	Surface() *Surface

	// SetSurface attaches a render surface. A surface without a property block gets an empty one.
	//
	// Parameters:
	//   - s: the surface, or nil to remove it
	SetSurface(s *Surface)

	// Clone deep-copies the node and its subtree into a new detached tree.
	// Cloned surfaces share their material and own a copy of the property block.
	//
	// Returns:
	//   - Node: the root of the copy
	Clone() Node
}

var _ Node = &node{}

// NewNode creates a new detached, enabled Node configured with the provided options.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the newly created node
func NewNode(options ...NodeBuilderOption) Node {
	n := &node{
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
	n.enabled.Store(true)
	for _, option := range options {
		option(n)
	}
	return n
}

func (n *node) Name() string {
	return n.name
}

func (n *node) Enabled() bool {
	return n.enabled.Load()
}

func (n *node) SetEnabled(enabled bool) {
	n.enabled.Store(enabled)
}

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) SetParent(p Node) {
	if n.parent != nil {
		siblings := n.parent.children
		for i, c := range siblings {
			if c == n {
				n.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		n.parent = nil
	}
	pn, ok := p.(*node)
	if !ok || pn == nil {
		return
	}
	n.parent = pn
	pn.children = append(pn.children, n)
}

func (n *node) Find(name string) Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *node) LocalPosition() mgl32.Vec3 {
	return n.position
}

func (n *node) SetLocalPosition(p mgl32.Vec3) {
	n.position = p
}

func (n *node) LocalRotation() mgl32.Quat {
	return n.rotation
}

func (n *node) SetLocalRotation(q mgl32.Quat) {
	n.rotation = q
}

func (n *node) LocalScale() mgl32.Vec3 {
	return n.scale
}

func (n *node) SetLocalScale(s mgl32.Vec3) {
	n.scale = s
}

func (n *node) LocalMatrix() mgl32.Mat4 {
	return common.ComposeTRS(n.position, n.rotation, n.scale)
}

func (n *node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (n *node) Surface() *Surface {
	return n.surface
}

func (n *node) SetSurface(s *Surface) {
	if s != nil && s.Properties == nil {
		s.Properties = material.NewPropertyBlock()
	}
	n.surface = s
}

func (n *node) Clone() Node {
	return n.clone(nil)
}

func (n *node) clone(parent *node) *node {
	c := &node{
		name:     n.name,
		position: n.position,
		rotation: n.rotation,
		scale:    n.scale,
		parent:   parent,
	}
	c.enabled.Store(n.enabled.Load())
	if n.surface != nil {
		s := *n.surface
		if s.Properties != nil {
			s.Properties = s.Properties.Clone()
		}
		c.surface = &s
	}
	c.children = make([]*node, len(n.children))
	for i, child := range n.children {
		c.children[i] = child.clone(c)
	}
	return c
}
