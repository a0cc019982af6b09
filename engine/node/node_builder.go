package node

import (
	"github.com/go-gl/mathgl/mgl32"
)

// NodeBuilderOption is a functional option for configuring a Node during construction.
type NodeBuilderOption func(*node)

// WithName sets the name of the Node.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - NodeBuilderOption: functional option to set the name
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithEnabled sets whether the Node is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the node, false to skip it
//
// Returns:
//   - NodeBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) NodeBuilderOption {
	return func(n *node) {
		n.enabled.Store(enabled)
	}
}

// WithPosition sets the local position of the Node.
//
// Parameters:
//   - p: the local position
//
// Returns:
//   - NodeBuilderOption: functional option to set the position
func WithPosition(p mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.position = p
	}
}

// WithRotation sets the local rotation of the Node.
//
// Parameters:
//   - q: the local rotation
//
// Returns:
//   - NodeBuilderOption: functional option to set the rotation
func WithRotation(q mgl32.Quat) NodeBuilderOption {
	return func(n *node) {
		n.rotation = q
	}
}

// WithScale sets the local scale of the Node.
//
// Parameters:
//   - s: the local scale
//
// Returns:
//   - NodeBuilderOption: functional option to set the scale
func WithScale(s mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.scale = s
	}
}

// WithSurface attaches a render surface to the Node.
//
// Parameters:
//   - s: the surface
//
// Returns:
//   - NodeBuilderOption: functional option to set the surface
func WithSurface(s *Surface) NodeBuilderOption {
	return func(n *node) {
		n.SetSurface(s)
	}
}

// WithParent attaches the Node to a parent on construction.
//
// Parameters:
//   - p: the parent node
//
// Returns:
//   - NodeBuilderOption: functional option to set the parent
func WithParent(p Node) NodeBuilderOption {
	return func(n *node) {
		n.SetParent(p)
	}
}
