package baker

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RenormalizeThreshold is the squared quaternion magnitude below which a sampled rotation is used as-is.
const RenormalizeThreshold = 0.1

// ErrEmptyClip is returned when a clip samples to zero frames.
var ErrEmptyClip = errors.New("clip has no frames")

// RenormalizeRotation rescales a sampled quaternion to unit length when its squared magnitude
// exceeds RenormalizeThreshold. Smaller magnitudes are returned unchanged.
//
// Parameters:
//   - q: the sampled rotation
//
// Returns:
//   - mgl32.Quat: the rotation to apply
func RenormalizeRotation(q mgl32.Quat) mgl32.Quat {
	r := q.V[0]*q.V[0] + q.V[1]*q.V[1] + q.V[2]*q.V[2] + q.W*q.W
	if r <= RenormalizeThreshold {
		return q
	}
	inv := 1 / math32.Sqrt(r)
	return mgl32.Quat{W: q.W * inv, V: q.V.Mul(inv)}
}

// SampleClip samples one clip at an integer frame rate into per-bone world matrices.
// Channels without a curve keep the bone's rest value, and the pose starts from rest for every clip.
// Curve paths resolve to bones through their last path segment; paths naming no bone are ignored.
// PixelStartIndex is left at zero for the caller to assign.
//
// Parameters:
//   - skel: the indexed skeleton
//   - src: the source curve set
//   - fallbackRate: the frame rate used when the source does not declare one
//
// Returns:
//   - *BakedClip: the sampled clip
//   - error: ErrEmptyClip if the rounded frame rate or frame count is not positive
func SampleClip(skel *Skeleton, src *model.AnimationCurveSet, fallbackRate float32) (*BakedClip, error) {
	rate := src.FrameRate
	if rate <= 0 {
		rate = fallbackRate
	}
	frameRate := common.RoundToInt(rate)
	if frameRate <= 0 {
		return nil, fmt.Errorf("%w: %q has frame rate %v", ErrEmptyClip, src.Name, rate)
	}
	frameCount := common.RoundToInt(src.Duration * float32(frameRate))
	if frameCount <= 0 {
		return nil, fmt.Errorf("%w: %q has duration %v", ErrEmptyClip, src.Name, src.Duration)
	}

	clip := &BakedClip{
		Name:       src.Name,
		FrameRate:  frameRate,
		FrameCount: frameCount,
		Length:     float32(frameCount) / float32(frameRate),
		Bones:      make([]BakedBone, skel.BoneCount()),
	}
	if !src.Loop {
		clip.LoopStartFrame = frameCount - 1
	}
	for b := range clip.Bones {
		clip.Bones[b].Frames = make([]mgl32.Mat4, frameCount)
	}

	positions := bindChannels(skel, src, src.PositionPaths(), model.PositionChannels[:])
	rotations := bindChannels(skel, src, src.RotationPaths(), model.RotationChannels[:])

	pose := make([]model.Transform, skel.BoneCount())
	copy(pose, skel.RestLocal)

	for f := 0; f < frameCount; f++ {
		t := float32(f) / float32(frameRate)

		for _, ch := range positions {
			p := &pose[ch.bone].Translation
			for i, c := range ch.curves {
				if c != nil {
					p[i] = c.Evaluate(t)
				}
			}
		}
		for _, ch := range rotations {
			q := pose[ch.bone].Rotation
			v := [4]float32{q.V[0], q.V[1], q.V[2], q.W}
			for i, c := range ch.curves {
				if c != nil {
					v[i] = c.Evaluate(t)
				}
			}
			pose[ch.bone].Rotation = RenormalizeRotation(mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}})
		}

		world := skel.WorldPose(pose)
		for b := range clip.Bones {
			clip.Bones[b].Frames[f] = world[b]
		}
	}
	return clip, nil
}

// boneChannels holds the curves that drive one bone's position or rotation components.
type boneChannels struct {
	bone   int
	curves []*model.Curve
}

func bindChannels(skel *Skeleton, src *model.AnimationCurveSet, paths []string, channels []model.Channel) []boneChannels {
	out := make([]boneChannels, 0, len(paths))
	for _, path := range paths {
		bone, ok := skel.IndexOf(model.LastPathSegment(path))
		if !ok {
			continue
		}
		bc := boneChannels{bone: bone, curves: make([]*model.Curve, len(channels))}
		for i, ch := range channels {
			bc.curves[i] = src.Curve(path, ch)
		}
		out = append(out, bc)
	}
	return out
}
