package baker

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrEmptySkeleton is returned when the posed hierarchy has no bones.
	ErrEmptySkeleton = errors.New("hierarchy has no bones")

	// ErrSkeletonRootNotFound is returned when a named skeleton root is not a child of the container.
	ErrSkeletonRootNotFound = errors.New("skeleton root not found")
)

// Skeleton is the ordered bone set of one posed hierarchy.
// Bone i is identical across every slice and every structure derived from the skeleton.
type Skeleton struct {
	BoneNames []string

	// Parents holds each bone's parent index, or -1 for the indexed root. Parents[i] < i.
	Parents []int

	// RestLocal holds each bone's local transform at rest.
	RestLocal []model.Transform

	// RestWorld holds each bone's local-to-world matrix at rest.
	RestWorld []mgl32.Mat4

	// BindPose holds each bone's world-to-local matrix at rest.
	BindPose []mgl32.Mat4

	// Collisions lists bone names that occurred more than once; lookups resolve them to the last index.
	Collisions []string

	// base is the world matrix of the indexed root's parent.
	base  mgl32.Mat4
	index map[string]int
}

// IndexSkeleton walks the posed hierarchy below container in pre-order and assigns bone indices.
// The indexed subtree is the container's first child, or its child named rootName when rootName is set.
// The container itself is never a bone.
//
// Parameters:
//   - container: the asset's container node
//   - rootName: optional name of the container child to index
//
// Returns:
//   - *Skeleton: the indexed skeleton
//   - error: ErrEmptySkeleton if there is nothing to index
func IndexSkeleton(container *model.Node, rootName string) (*Skeleton, error) {
	if container == nil || len(container.Children) == 0 {
		return nil, ErrEmptySkeleton
	}

	root := container.Children[0]
	if rootName != "" {
		root = nil
		for _, c := range container.Children {
			if c.Name == rootName {
				root = c
				break
			}
		}
		if root == nil {
			return nil, fmt.Errorf("%w: %q", ErrSkeletonRootNotFound, rootName)
		}
	}

	s := &Skeleton{
		base:  container.WorldMatrix(),
		index: make(map[string]int),
	}

	var visit func(n *model.Node, parent int)
	visit = func(n *model.Node, parent int) {
		i := len(s.BoneNames)
		if _, dup := s.index[n.Name]; dup {
			s.Collisions = append(s.Collisions, n.Name)
		}
		s.index[n.Name] = i
		s.BoneNames = append(s.BoneNames, n.Name)
		s.Parents = append(s.Parents, parent)
		s.RestLocal = append(s.RestLocal, n.Transform)
		for _, c := range n.Children {
			visit(c, i)
		}
	}
	visit(root, -1)

	s.RestWorld = s.WorldPose(s.RestLocal)
	s.BindPose = make([]mgl32.Mat4, len(s.RestWorld))
	for i, w := range s.RestWorld {
		s.BindPose[i] = w.Inv()
	}
	return s, nil
}

// BoneCount returns the number of bones.
func (s *Skeleton) BoneCount() int {
	return len(s.BoneNames)
}

// IndexOf returns the index of the named bone.
//
// Parameters:
//   - name: the bone name
//
// Returns:
//   - int: the bone index
//   - bool: false if no bone has the name
func (s *Skeleton) IndexOf(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// WorldPose propagates local transforms into world matrices.
// Bones are visited in index order so every parent is resolved before its children.
//
// Parameters:
//   - locals: one local transform per bone
//
// Returns:
//   - []mgl32.Mat4: one world matrix per bone
func (s *Skeleton) WorldPose(locals []model.Transform) []mgl32.Mat4 {
	world := make([]mgl32.Mat4, len(locals))
	for i, local := range locals {
		parent := s.base
		if p := s.Parents[i]; p >= 0 {
			parent = world[p]
		}
		world[i] = parent.Mul4(local.Matrix())
	}
	return world
}
