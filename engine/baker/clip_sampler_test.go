package baker

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleClipFrameMath(t *testing.T) {
	asset := twoBoneAsset()
	skel, err := IndexSkeleton(asset.Root, "")
	require.NoError(t, err)

	clip, err := SampleClip(skel, asset.Clips[0], DefaultFrameRate)
	require.NoError(t, err)

	assert.Equal(t, "idle", clip.Name)
	assert.Equal(t, 30, clip.FrameRate)
	assert.Equal(t, 30, clip.FrameCount)
	assert.Equal(t, 0, clip.LoopStartFrame)
	assert.InDelta(t, 1.0, clip.Length, 1e-6)
	require.Len(t, clip.Bones, 2)
	require.Len(t, clip.Bones[1].Frames, 30)

	// Hips.y runs 1 -> 2 over the second; Spine inherits it.
	assert.InDelta(t, 1.5, clip.Bones[0].Frames[15].At(1, 3), 1e-5)
	assert.InDelta(t, 2.5, clip.Bones[1].Frames[15].At(1, 3), 1e-5)
	assert.InDelta(t, 2.0, clip.Bones[1].Frames[0].At(1, 3), 1e-5)
}

func TestSampleClipRounding(t *testing.T) {
	skel, err := IndexSkeleton(twoBoneAsset().Root, "")
	require.NoError(t, err)

	tests := []struct {
		name          string
		rate          float32
		duration      float32
		loop          bool
		wantRate      int
		wantFrames    int
		wantLoopStart int
	}{
		{name: "loop", rate: 30, duration: 1, loop: true, wantRate: 30, wantFrames: 30, wantLoopStart: 0},
		{name: "once", rate: 30, duration: 1, loop: false, wantRate: 30, wantFrames: 30, wantLoopStart: 29},
		{name: "fractional rate", rate: 29.6, duration: 0.5, loop: true, wantRate: 30, wantFrames: 15, wantLoopStart: 0},
		{name: "half frame rounds to even", rate: 40, duration: 0.0625, loop: true, wantRate: 40, wantFrames: 2, wantLoopStart: 0},
		{name: "single frame", rate: 24, duration: 0.03, loop: false, wantRate: 24, wantFrames: 1, wantLoopStart: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip, err := SampleClip(skel, model.NewAnimationCurveSet(tt.name, tt.rate, tt.duration, tt.loop), DefaultFrameRate)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, clip.FrameRate)
			assert.Equal(t, tt.wantFrames, clip.FrameCount)
			assert.Equal(t, tt.wantLoopStart, clip.LoopStartFrame)
			assert.InDelta(t, float32(tt.wantFrames)/float32(tt.wantRate), clip.Length, 1e-6)
		})
	}
}

func TestSampleClipFallbackRate(t *testing.T) {
	skel, err := IndexSkeleton(twoBoneAsset().Root, "")
	require.NoError(t, err)

	clip, err := SampleClip(skel, model.NewAnimationCurveSet("walk", 0, 2, true), 12)
	require.NoError(t, err)
	assert.Equal(t, 12, clip.FrameRate)
	assert.Equal(t, 24, clip.FrameCount)
}

func TestSampleClipRejectsEmpty(t *testing.T) {
	skel, err := IndexSkeleton(twoBoneAsset().Root, "")
	require.NoError(t, err)

	_, err = SampleClip(skel, model.NewAnimationCurveSet("zero", 30, 0, true), DefaultFrameRate)
	assert.ErrorIs(t, err, ErrEmptyClip)

	_, err = SampleClip(skel, model.NewAnimationCurveSet("norate", 0.2, 1, true), 0)
	assert.ErrorIs(t, err, ErrEmptyClip)
}

func TestSampleClipIgnoresUnknownPaths(t *testing.T) {
	skel, err := IndexSkeleton(twoBoneAsset().Root, "")
	require.NoError(t, err)

	src := model.NewAnimationCurveSet("stray", 30, 1, true)
	src.SetCurve("Hips/Ghost", model.ChannelPosX, constCurve(5))

	clip, err := SampleClip(skel, src, DefaultFrameRate)
	require.NoError(t, err)
	assert.InDelta(t, 0, clip.Bones[0].Frames[3].At(0, 3), 1e-6)
}

func TestSampleClipRotationRenormalized(t *testing.T) {
	skel, err := IndexSkeleton(twoBoneAsset().Root, "")
	require.NoError(t, err)

	// A w-only rotation of 2 renormalizes to the identity, so the pose stays at rest.
	src := model.NewAnimationCurveSet("scaled", 30, 1, true)
	src.SetCurve("Hips", model.ChannelRotW, constCurve(2))

	clip, err := SampleClip(skel, src, DefaultFrameRate)
	require.NoError(t, err)
	got := clip.Bones[1].Frames[0]
	want := skel.RestWorld[1]
	assert.InDeltaSlice(t, want[:], got[:], 1e-5)
}

func TestRenormalizeRotation(t *testing.T) {
	small := mgl32.Quat{W: 0.2}
	assert.Equal(t, small, RenormalizeRotation(small))

	// squared length 0.05 stays as sampled
	degenerate := mgl32.Quat{W: 0.2, V: mgl32.Vec3{0.1, 0, 0}}
	assert.Equal(t, degenerate, RenormalizeRotation(degenerate))

	// squared length of exactly float32(0.1) is not rescaled; the next float up is
	edge := mgl32.Quat{W: 0.31622776}
	assert.Equal(t, edge, RenormalizeRotation(edge))
	above := RenormalizeRotation(mgl32.Quat{W: 0.3162278})
	assert.InDelta(t, 1, above.W, 1e-6)

	big := RenormalizeRotation(mgl32.Quat{W: 2})
	assert.InDelta(t, 1, big.W, 1e-6)

	// squared length 4 rescales by 1/2
	q := RenormalizeRotation(mgl32.Quat{W: 1, V: mgl32.Vec3{1, 1, 1}})
	assert.InDelta(t, 1, q.Len(), 1e-6)
	assert.InDelta(t, 0.5, q.W, 1e-6)
}
