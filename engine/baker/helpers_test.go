package baker

import (
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// twoBoneAsset builds Wolf -> Hips(0,1,0) -> Spine(0,1,0) with one skinned body and an "idle" clip.
func twoBoneAsset() *model.SourceAsset {
	root := model.NewNode("Wolf")
	hips := root.AddChild(model.NewNode("Hips"))
	hips.Transform.Translation = mgl32.Vec3{0, 1, 0}
	spine := hips.AddChild(model.NewNode("Spine"))
	spine.Transform.Translation = mgl32.Vec3{0, 1, 0}

	mesh := &model.SkinnedMesh{
		Name: "WolfBody",
		Vertices: []model.SkinnedVertex{
			{Vertex: model.Vertex{Position: mgl32.Vec3{0, 2, 0}, Normal: mgl32.Vec3{0, 0, 1}}, BoneIndices: [4]uint32{0, 1, 0, 0}, BoneWeights: [4]float32{0.75, 0.25, 0, 0}},
		},
		Indices:   []uint32{0, 0, 0},
		Bones:     []string{"Spine", "Hips"},
		BindPoses: []mgl32.Mat4{mgl32.Translate3D(0, -2, 0), mgl32.Translate3D(0, -1, 0)},
	}
	body := root.AddChild(model.NewNode("Body"))
	body.Skinned = []*model.SkinnedSurface{{Name: "Body", Mesh: mesh}}

	idle := model.NewAnimationCurveSet("idle", 30, 1, true)
	idle.SetCurve("Hips", model.ChannelPosY, linearCurve(1, 2))

	return &model.SourceAsset{Name: "Wolf", Root: root, Clips: []*model.AnimationCurveSet{idle}}
}

func linearCurve(from, to float32) *model.Curve {
	return &model.Curve{
		Interpolation: model.InterpolationLinear,
		Keys:          []model.Keyframe{{Time: 0, Value: from}, {Time: 1, Value: to}},
	}
}

func constCurve(v float32) *model.Curve {
	return &model.Curve{
		Interpolation: model.InterpolationStep,
		Keys:          []model.Keyframe{{Time: 0, Value: v}},
	}
}
