package loader

import (
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"
)

// clipSettings carries the playback defaults applied to clips that do not declare their own.
type clipSettings struct {
	frameRate     float32
	loop          bool
	loopOverrides map[string]bool
}

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser   gltfParser
	settings clipSettings
}

// gltfAnimationExtractor converts glTF animations into per-channel curve sets.
// Translation channels become three position curves and rotation channels four rotation curves,
// bound to the animated node's hierarchy path. Scale and morph weight channels are ignored.
type gltfAnimationExtractor interface {
	// ExtractAll extracts every animation of the document.
	//
	// Parameters:
	//   - nodes: the model node per glTF node index
	//   - fallbackName: the clip name used for an unnamed animation when the document holds only one
	//
	// Returns:
	//   - []*model.AnimationCurveSet: the extracted clips in document order
	//   - error: error if an accessor cannot be decoded
	ExtractAll(nodes []*model.Node, fallbackName string) ([]*model.AnimationCurveSet, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//   - settings: the clip defaults
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser, settings clipSettings) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser, settings: settings}
}

func (e *gltfAnimationExtractorImpl) ExtractAll(nodes []*model.Node, fallbackName string) ([]*model.AnimationCurveSet, error) {
	doc := e.parser.Document()
	clips := make([]*model.AnimationCurveSet, 0, len(doc.Animations))
	for i, anim := range doc.Animations {
		name := anim.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", i)
			if len(doc.Animations) == 1 && fallbackName != "" {
				name = fallbackName
			}
		}
		clip, err := e.extract(anim, name, nodes)
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", name, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func (e *gltfAnimationExtractorImpl) extract(anim gltfAnimation, name string, nodes []*model.Node) (*model.AnimationCurveSet, error) {
	frameRate, loop := e.settings.frameRate, e.settings.loop
	if len(anim.Extras) > 0 {
		var extras gltfAnimationExtras
		if err := json.Unmarshal(anim.Extras, &extras); err == nil {
			if extras.FrameRate != nil && *extras.FrameRate > 0 {
				frameRate = *extras.FrameRate
			}
			if extras.Loop != nil {
				loop = *extras.Loop
			}
		}
	}
	if v, ok := e.settings.loopOverrides[name]; ok {
		loop = v
	}

	clip := model.NewAnimationCurveSet(name, frameRate, 0, loop)
	for _, ch := range anim.Channels {
		if ch.Target.Node == nil {
			continue
		}
		var channels []model.Channel
		var accType string
		switch ch.Target.Path {
		case gltfAnimPathTranslation:
			channels, accType = model.PositionChannels[:], gltfAccessorTypeVec3
		case gltfAnimPathRotation:
			channels, accType = model.RotationChannels[:], gltfAccessorTypeVec4
		default:
			continue
		}
		if *ch.Target.Node < 0 || *ch.Target.Node >= len(nodes) {
			return nil, fmt.Errorf("channel targets missing node %d", *ch.Target.Node)
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("channel references missing sampler %d", ch.Sampler)
		}
		sampler := anim.Samplers[ch.Sampler]

		times, err := e.parser.ReadFloats(sampler.Input, gltfAccessorTypeScalar)
		if err != nil {
			return nil, fmt.Errorf("sampler input: %w", err)
		}
		values, err := e.parser.ReadFloats(sampler.Output, accType)
		if err != nil {
			return nil, fmt.Errorf("sampler output: %w", err)
		}

		path := nodes[*ch.Target.Node].Path()
		for c, channel := range channels {
			curve, err := gltfBuildCurve(sampler.Interpolation, times, values, len(channels), c)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", path, channel, err)
			}
			clip.SetCurve(path, channel, curve)
			clip.Duration = max(clip.Duration, curve.Duration())
		}
	}
	return clip, nil
}

// gltfBuildCurve extracts one component of a sampler output as a scalar curve.
// Cubic spline outputs store in-tangent, value and out-tangent per key.
func gltfBuildCurve(interpolation string, times, values []float32, stride, component int) (*model.Curve, error) {
	curve := &model.Curve{Keys: make([]model.Keyframe, len(times))}
	switch interpolation {
	case gltfInterpolationStep:
		curve.Interpolation = model.InterpolationStep
	case gltfInterpolationCubicSpline:
		curve.Interpolation = model.InterpolationCubicSpline
	default:
		curve.Interpolation = model.InterpolationLinear
	}

	perKey := stride
	if curve.Interpolation == model.InterpolationCubicSpline {
		perKey = stride * 3
	}
	if len(values) < len(times)*perKey {
		return nil, fmt.Errorf("output holds %d values, want %d", len(values), len(times)*perKey)
	}

	for k, t := range times {
		base := k * perKey
		key := model.Keyframe{Time: t}
		if curve.Interpolation == model.InterpolationCubicSpline {
			key.InTangent = values[base+component]
			key.Value = values[base+stride+component]
			key.OutTangent = values[base+2*stride+component]
		} else {
			key.Value = values[base+component]
		}
		curve.Keys[k] = key
	}
	return curve, nil
}
