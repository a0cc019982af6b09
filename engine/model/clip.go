package model

import (
	"fmt"
	"sort"
)

// Channel identifies which scalar component of a bone's local transform a curve drives.
type Channel int

const (
	ChannelPosX Channel = iota
	ChannelPosY
	ChannelPosZ
	ChannelRotX
	ChannelRotY
	ChannelRotZ
	ChannelRotW
)

// PositionChannels lists the position channels in x, y, z order.
var PositionChannels = [3]Channel{ChannelPosX, ChannelPosY, ChannelPosZ}

// RotationChannels lists the rotation channels in x, y, z, w order.
var RotationChannels = [4]Channel{ChannelRotX, ChannelRotY, ChannelRotZ, ChannelRotW}

func (c Channel) String() string {
	switch c {
	case ChannelPosX:
		return "position.x"
	case ChannelPosY:
		return "position.y"
	case ChannelPosZ:
		return "position.z"
	case ChannelRotX:
		return "rotation.x"
	case ChannelRotY:
		return "rotation.y"
	case ChannelRotZ:
		return "rotation.z"
	case ChannelRotW:
		return "rotation.w"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// IsPosition reports whether the channel drives the local position.
func (c Channel) IsPosition() bool {
	return c >= ChannelPosX && c <= ChannelPosZ
}

// IsRotation reports whether the channel drives the local rotation.
func (c Channel) IsRotation() bool {
	return c >= ChannelRotX && c <= ChannelRotW
}

// CurveBinding keys a curve by the animated node's path and the driven channel.
type CurveBinding struct {
	Path    string
	Channel Channel
}

// AnimationCurveSet is one source animation clip: a named set of keyed curves.
type AnimationCurveSet struct {
	// Name is the clip name players address it by.
	Name string

	// FrameRate is the source sampling rate in frames per second.
	FrameRate float32

	// Duration is the clip length in seconds.
	Duration float32

	// Loop marks the clip as looping rather than holding its last frame.
	Loop bool

	// Curves holds one curve per (path, channel) binding.
	Curves map[CurveBinding]*Curve
}

// NewAnimationCurveSet creates an empty curve set.
//
// Parameters:
//   - name: the clip name
//   - frameRate: the source frame rate
//   - duration: the clip length in seconds
//   - loop: whether the clip loops
//
// Returns:
//   - *AnimationCurveSet: the new curve set
func NewAnimationCurveSet(name string, frameRate, duration float32, loop bool) *AnimationCurveSet {
	return &AnimationCurveSet{
		Name:      name,
		FrameRate: frameRate,
		Duration:  duration,
		Loop:      loop,
		Curves:    make(map[CurveBinding]*Curve),
	}
}

// SetCurve binds a curve to a path and channel, replacing any existing binding.
//
// Parameters:
//   - path: the animated node path
//   - ch: the driven channel
//   - curve: the curve
func (s *AnimationCurveSet) SetCurve(path string, ch Channel, curve *Curve) {
	s.Curves[CurveBinding{Path: path, Channel: ch}] = curve
}

// Curve returns the curve bound to path and channel, or nil.
//
// Parameters:
//   - path: the animated node path
//   - ch: the driven channel
//
// Returns:
//   - *Curve: the bound curve or nil
func (s *AnimationCurveSet) Curve(path string, ch Channel) *Curve {
	return s.Curves[CurveBinding{Path: path, Channel: ch}]
}

// PositionPaths returns the sorted, de-duplicated paths that carry at least one position curve.
//
// Returns:
//   - []string: the animated paths
func (s *AnimationCurveSet) PositionPaths() []string {
	return s.paths(Channel.IsPosition)
}

// RotationPaths returns the sorted, de-duplicated paths that carry at least one rotation curve.
//
// Returns:
//   - []string: the animated paths
func (s *AnimationCurveSet) RotationPaths() []string {
	return s.paths(Channel.IsRotation)
}

func (s *AnimationCurveSet) paths(match func(Channel) bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for b := range s.Curves {
		if !match(b.Channel) {
			continue
		}
		if _, ok := seen[b.Path]; ok {
			continue
		}
		seen[b.Path] = struct{}{}
		out = append(out, b.Path)
	}
	sort.Strings(out)
	return out
}
