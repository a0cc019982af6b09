package model

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is one element of a source asset hierarchy.
// The root node of an asset is its container; every other node is reachable from it.
type Node struct {
	Name      string
	Transform Transform
	Parent    *Node
	Children  []*Node

	// Skinned and Rigid hold the render surfaces attached to this node.
	Skinned []*SkinnedSurface
	Rigid   []*RigidSurface
}

// NewNode creates a detached node with an identity transform.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - *Node: the new node
func NewNode(name string) *Node {
	return &Node{Name: name, Transform: IdentityTransform()}
}

// AddChild appends child to the node's children and sets its parent.
//
// Parameters:
//   - child: the node to attach
//
// Returns:
//   - *Node: the attached child, for chaining
func (n *Node) AddChild(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// Path returns the slash-joined names from just below the container down to this node.
// The container itself has an empty path.
//
// Returns:
//   - string: the binding path of the node
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// WorldMatrix returns the product of every local matrix from the container down to this node.
//
// Returns:
//   - mgl32.Mat4: the node's local-to-world matrix
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// Walk visits the node and its descendants in pre-order.
// Returning false from fn skips the visited node's children.
//
// Parameters:
//   - fn: the visitor
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (pre-order, excluding n) with the given name, or nil.
//
// Parameters:
//   - name: the node name to search for
//
// Returns:
//   - *Node: the matching node or nil
func (n *Node) Find(name string) *Node {
	var found *Node
	for _, c := range n.Children {
		c.Walk(func(cur *Node) bool {
			if found != nil {
				return false
			}
			if cur.Name == name {
				found = cur
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// LastPathSegment returns the final element of a slash-joined binding path.
//
// Parameters:
//   - path: the binding path
//
// Returns:
//   - string: the bone name the path refers to
func LastPathSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
