package player

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/node"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testData builds two bones with an "idle" loop of 30 frames and a 10 frame "die" clip.
// Bone b at frame f sits at (0, f, b); Spine is also turned 90 degrees about +Y.
func testData() *baker.BakedSkeletonData {
	clip := func(name string, frames, loopStart, pixelStart int) *baker.BakedClip {
		c := &baker.BakedClip{
			Name:            name,
			FrameRate:       30,
			FrameCount:      frames,
			LoopStartFrame:  loopStart,
			Length:          float32(frames) / 30,
			PixelStartIndex: pixelStart,
			Bones:           make([]baker.BakedBone, 2),
		}
		for b := range c.Bones {
			c.Bones[b].Frames = make([]mgl32.Mat4, frames)
			for f := range c.Bones[b].Frames {
				m := mgl32.Translate3D(0, float32(f), float32(b))
				if b == 1 {
					m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
				}
				c.Bones[b].Frames[f] = m
			}
		}
		return c
	}
	return &baker.BakedSkeletonData{
		BoneNames: []string{"Hips", "Spine"},
		Clips:     []*baker.BakedClip{clip("idle", 30, 0, 6), clip("die", 10, 9, 186)},
	}
}

func testNode() node.Node {
	root := node.NewNode(node.WithName("Wolf"))
	node.NewNode(node.WithName("Body"), node.WithParent(root),
		node.WithSurface(&node.Surface{MeshName: "WolfBody", Skinned: true, Material: material.NewMaterial()}))
	return root
}

func startPixel(t *testing.T, p Player) float32 {
	t.Helper()
	body := p.Node().Find("Body")
	require.NotNil(t, body)
	v, ok := body.Surface().Properties.Float(material.PropertyStartPixelIndex)
	require.True(t, ok)
	return v
}

func TestResolveFrame(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		loopStart int
		raw       int
		want      int
	}{
		{name: "inside", count: 30, loopStart: 0, raw: 12, want: 12},
		{name: "loop wrap", count: 30, loopStart: 0, raw: 30, want: 0},
		{name: "loop wrap later", count: 30, loopStart: 0, raw: 71, want: 11},
		{name: "partial loop", count: 30, loopStart: 10, raw: 35, want: 15},
		{name: "hold last", count: 30, loopStart: 29, raw: 30, want: 29},
		{name: "hold last later", count: 30, loopStart: 29, raw: 1000, want: 29},
		{name: "negative", count: 30, loopStart: 0, raw: -3, want: 0},
		{name: "empty clip", count: 0, loopStart: 0, raw: 7, want: 0},
		{name: "loop start past end", count: 30, loopStart: 30, raw: 40, want: 29},
		{name: "loop start negative", count: 30, loopStart: -1, raw: 40, want: 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFrame(tt.count, tt.loopStart, tt.raw))
		})
	}

	for k := 0; k < 100; k++ {
		assert.Equal(t, k%30, ResolveFrame(30, 0, 30+k))
	}
}

func TestPlayerTickWraps(t *testing.T) {
	p := NewPlayer(WithData(testData()), WithNode(testNode()))
	p.Play("idle")
	assert.Equal(t, StatePlaying, p.State())
	assert.Equal(t, float32(6), startPixel(t, p))

	p.Tick(0.5)
	assert.Equal(t, 15, p.Frame())
	assert.Equal(t, float32(6+2*3*15), startPixel(t, p))

	p.Tick(0.533)
	assert.Equal(t, 0, p.Frame())
	assert.Equal(t, float32(6), startPixel(t, p))
}

func TestPlayerTickOneStep(t *testing.T) {
	p := NewPlayer(WithData(testData()), WithNode(testNode()))
	p.Play("idle")
	p.Tick(1.033)
	assert.Equal(t, 0, p.Frame())
	assert.InDelta(t, 1.033, p.Time(), 1e-6)
}

func TestPlayerNonLoopHoldsLastFrame(t *testing.T) {
	p := NewPlayer(WithData(testData()), WithNode(testNode()))
	p.Play("die")
	p.Tick(5)
	assert.Equal(t, 9, p.Frame())
	assert.Equal(t, float32(186+2*3*9), startPixel(t, p))

	p.Tick(5)
	assert.Equal(t, 9, p.Frame())
}

func TestPlayerNegativeDeltaStopsAtZero(t *testing.T) {
	p := NewPlayer(WithData(testData()), WithNode(testNode()))
	p.Play("idle")
	p.Tick(0.1)
	require.Equal(t, 3, p.Frame())

	p.Tick(-1)
	assert.Equal(t, float32(0), p.Time())
	assert.Equal(t, 0, p.Frame())
	assert.Equal(t, float32(6), startPixel(t, p))
	hips := p.GetMatrix("Hips").Col(3)
	assert.InDeltaSlice(t, []float32{0, 0, 0, 1}, hips[:], 1e-6)
}

func TestPlayerKeepsAdvancingAfterLongUptime(t *testing.T) {
	p := NewPlayer(WithData(testData()), WithNode(testNode()))
	p.Play("idle")
	p.Tick(1 << 20)
	require.Equal(t, 0, p.Frame())

	for i := 0; i < 105; i++ {
		p.Tick(1.0 / 60)
	}
	assert.InDelta(t, float32(1<<20)+1.75, p.Time(), 1e-3)
	assert.Equal(t, 22, p.Frame())
}

func TestPlayerSkipsUnplayableClips(t *testing.T) {
	data := testData()
	data.Clips = append(data.Clips,
		&baker.BakedClip{Name: "empty", FrameRate: 30, Bones: make([]baker.BakedBone, 2)},
		&baker.BakedClip{Name: "stuck", FrameRate: 30, FrameCount: 2, LoopStartFrame: 2,
			Bones: []baker.BakedBone{{Frames: make([]mgl32.Mat4, 2)}, {Frames: make([]mgl32.Mat4, 2)}}},
	)
	p := NewPlayer(WithData(data), WithNode(testNode()))
	assert.Equal(t, []string{"die", "idle"}, p.ClipNames())

	p.Play("stuck")
	p.Tick(1)
	assert.Equal(t, StateIdle, p.State())
}

func TestPlayerInitialClipOnFirstTick(t *testing.T) {
	p := NewPlayer(WithData(testData()), WithNode(testNode()))
	assert.Equal(t, DefaultClipName, p.Clip())
	assert.Equal(t, StateIdle, p.State())

	p.Tick(0)
	assert.Equal(t, StatePlaying, p.State())
	assert.Equal(t, float32(6), startPixel(t, p))

	q := NewPlayer(WithData(testData()), WithNode(testNode()), WithClipName("die"))
	q.Tick(0)
	assert.Equal(t, float32(186), startPixel(t, q))
}

func TestPlayerUnknownClipKeepsLastFrame(t *testing.T) {
	p := NewPlayer(WithData(testData()), WithNode(testNode()))
	p.Play("idle")
	p.Tick(0.1)
	require.Equal(t, 3, p.Frame())

	p.Play("howl")
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, "howl", p.Clip())
	assert.Equal(t, float32(6+2*3*3), startPixel(t, p))
	assert.Equal(t, mgl32.Ident4(), p.GetMatrix("Hips"))

	p.Tick(0.5)
	assert.Equal(t, float32(6+2*3*3), startPixel(t, p))
}

func TestPlayerGetMatrix(t *testing.T) {
	root := testNode()
	root.SetLocalPosition(mgl32.Vec3{10, 0, 0})
	p := NewPlayer(WithData(testData()), WithNode(root))

	assert.Equal(t, mgl32.Ident4(), p.GetMatrix("Hips"))

	p.Play("idle")
	p.Tick(0.1)
	got := p.GetMatrix("Hips").Col(3)
	assert.InDeltaSlice(t, []float32{10, 3, 0, 1}, got[:], 1e-5)
	assert.Equal(t, mgl32.Ident4(), p.GetMatrix("Tail"))
}

func TestPlayerAddWidget(t *testing.T) {
	p := NewPlayer(WithData(testData()), WithNode(testNode()))
	sword := node.NewNode(node.WithName("sword"))

	assert.False(t, p.AddWidget(sword, "Tail"))
	assert.False(t, p.AddWidget(nil, "Spine"))
	require.True(t, p.AddWidget(sword, "Spine"))

	placeholder := sword.Parent()
	require.NotNil(t, placeholder)
	assert.Equal(t, "Spine", placeholder.Name())
	assert.Equal(t, p.Node(), placeholder.Parent())

	shield := node.NewNode(node.WithName("shield"))
	require.True(t, p.AddWidget(shield, "Spine"))
	assert.Equal(t, placeholder, shield.Parent())
	assert.Len(t, p.Node().Children(), 2)

	p.Play("idle")
	p.Tick(0.1)
	pos := placeholder.LocalPosition()
	assert.InDeltaSlice(t, []float32{0, 3, 1}, pos[:], 1e-5)
	fwd := placeholder.LocalRotation().Rotate(mgl32.Vec3{0, 0, 1})
	assert.InDeltaSlice(t, []float32{1, 0, 0}, fwd[:], 1e-5)
}

func TestPlayerAddWidgetPosesImmediately(t *testing.T) {
	p := NewPlayer(WithData(testData()), WithNode(testNode()))
	p.Play("die")
	p.Tick(5)

	sword := node.NewNode(node.WithName("sword"))
	require.True(t, p.AddWidget(sword, "Hips"))
	pos := sword.Parent().LocalPosition()
	assert.InDeltaSlice(t, []float32{0, 9, 0}, pos[:], 1e-5)
}

func TestPlayersDoNotShareProperties(t *testing.T) {
	data := testData()
	template := testNode()
	a := NewPlayer(WithData(data), WithNode(template.Clone()))
	b := NewPlayer(WithData(data), WithNode(template.Clone()))
	assert.NotEqual(t, a.ID(), b.ID())

	a.Play("idle")
	b.Play("die")
	assert.Equal(t, float32(6), startPixel(t, a))
	assert.Equal(t, float32(186), startPixel(t, b))
}

func TestPlayerClipNames(t *testing.T) {
	p := NewPlayer(WithData(testData()))
	assert.Equal(t, []string{"die", "idle"}, p.ClipNames())
	assert.NotNil(t, p.Node())
	assert.Equal(t, "playing", StatePlaying.String())
}
