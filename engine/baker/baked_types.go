package baker

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TexelsPerBone is the number of RGBA texels one bone matrix occupies in the skinning texture.
const TexelsPerBone = 3

// ErrInvalidClip is returned when a baked clip cannot be played back.
var ErrInvalidClip = errors.New("invalid baked clip")

// BakedBone holds one bone's sampled world matrices, one per frame.
type BakedBone struct {
	Frames []mgl32.Mat4
}

// BakedClip is one clip sampled at a fixed integer frame rate.
type BakedClip struct {
	Name            string
	FrameRate       int
	FrameCount      int
	LoopStartFrame  int
	Length          float32
	PixelStartIndex int

	// Bones is indexed by skeleton bone index.
	Bones []BakedBone
}

// PixelCount returns the number of texels the clip occupies for the given bone count.
//
// Parameters:
//   - boneCount: the skeleton's bone count
//
// Returns:
//   - int: frameCount * boneCount * 3
func (c *BakedClip) PixelCount(boneCount int) int {
	return c.FrameCount * boneCount * TexelsPerBone
}

// FramePixelIndex returns the first texel of the given frame.
//
// Parameters:
//   - frame: the frame index
//   - boneCount: the skeleton's bone count
//
// Returns:
//   - int: pixelStartIndex + frame * boneCount * 3
func (c *BakedClip) FramePixelIndex(frame, boneCount int) int {
	return c.PixelStartIndex + frame*boneCount*TexelsPerBone
}

// Validate checks that the clip can be played against a skeleton of boneCount bones.
//
// Parameters:
//   - boneCount: the skeleton's bone count
//
// Returns:
//   - error: an error wrapping ErrInvalidClip, or nil
func (c *BakedClip) Validate(boneCount int) error {
	switch {
	case c.FrameRate <= 0:
		return fmt.Errorf("%w: clip %q has frame rate %d", ErrInvalidClip, c.Name, c.FrameRate)
	case c.FrameCount <= 0:
		return fmt.Errorf("%w: clip %q has %d frames", ErrInvalidClip, c.Name, c.FrameCount)
	case c.LoopStartFrame < 0 || c.LoopStartFrame >= c.FrameCount:
		return fmt.Errorf("%w: clip %q loops from frame %d of %d", ErrInvalidClip, c.Name, c.LoopStartFrame, c.FrameCount)
	case len(c.Bones) != boneCount:
		return fmt.Errorf("%w: clip %q has %d bones, want %d", ErrInvalidClip, c.Name, len(c.Bones), boneCount)
	}
	for i, bone := range c.Bones {
		if len(bone.Frames) != c.FrameCount {
			return fmt.Errorf("%w: clip %q bone %d has %d frames, want %d", ErrInvalidClip, c.Name, i, len(bone.Frames), c.FrameCount)
		}
	}
	return nil
}

// BakedSkeletonData is the export unit shared by every player of one skeleton.
// It is created once by the baker and never mutated afterwards.
type BakedSkeletonData struct {
	BoneNames []string
	Clips     []*BakedClip
}

// Clip returns the clip with the given name, or nil.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - *BakedClip: the clip or nil
func (d *BakedSkeletonData) Clip(name string) *BakedClip {
	for _, c := range d.Clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// BoneIndex returns the index of the named bone. When names repeat, the last index wins.
//
// Parameters:
//   - name: the bone name
//
// Returns:
//   - int: the bone index
//   - bool: false if no bone has the name
func (d *BakedSkeletonData) BoneIndex(name string) (int, bool) {
	for i := len(d.BoneNames) - 1; i >= 0; i-- {
		if d.BoneNames[i] == name {
			return i, true
		}
	}
	return 0, false
}

// Validate checks every clip, and that the clips' texel ranges follow the identity block in order
// without overlapping.
//
// Returns:
//   - error: an error wrapping ErrInvalidClip, or nil
func (d *BakedSkeletonData) Validate() error {
	boneCount := len(d.BoneNames)
	next := boneCount * TexelsPerBone
	for _, c := range d.Clips {
		if err := c.Validate(boneCount); err != nil {
			return err
		}
		if c.PixelStartIndex < next {
			return fmt.Errorf("%w: clip %q starts at texel %d, overlapping texel %d", ErrInvalidClip, c.Name, c.PixelStartIndex, next)
		}
		next = c.PixelStartIndex + c.PixelCount(boneCount)
	}
	return nil
}

// TotalPixels returns the texel count of the identity block plus every clip.
//
// Returns:
//   - int: the number of texels the skinning texture must hold
func (d *BakedSkeletonData) TotalPixels() int {
	total := len(d.BoneNames) * TexelsPerBone
	for _, c := range d.Clips {
		total += c.PixelCount(len(d.BoneNames))
	}
	return total
}
