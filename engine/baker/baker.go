package baker

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultFrameRate is the sampling rate used for clips that do not declare one.
const DefaultFrameRate float32 = 30

// baker is the implementation of the Baker interface.
type baker struct {
	logger       *zap.Logger
	skeletonRoot string
	frameRate    float32
}

// Result is everything one bake produces for a single skeleton.
type Result struct {
	Skeleton *Skeleton
	Data     *BakedSkeletonData
	Texture  *SkinningTexture

	// Skipped lists the clips that sampled to zero frames.
	Skipped []string
}

// Baker turns a posed hierarchy and its clips into baked skeleton data, a skinning texture
// and skeleton-indexed meshes.
type Baker interface {
	// Bake indexes the asset's skeleton, samples every clip and packs the result into a skinning texture.
	// The texture starts with a boneCount*3 identity block; clips follow in order, each frame taking
	// boneCount*3 texels that hold world * bindPose for every bone.
	// Clips that sample to zero frames are skipped and reported in Result.Skipped.
	//
	// Parameters:
	//   - asset: the source asset holding the hierarchy and clips
	//
	// Returns:
	//   - *Result: the baked data and texture
	//   - error: ErrEmptySkeleton if the hierarchy has no bones, or a sampling error
	Bake(asset *model.SourceAsset) (*Result, error)

	// RebindMeshes rebinds the mesh of every skinned surface to the skeleton's global bone indices.
	// Surfaces sharing a source mesh share one RebindMesh. Surfaces whose mesh names a bone the
	// skeleton lacks are skipped and logged.
	//
	// Parameters:
	//   - skel: the indexed skeleton
	//   - surfaces: the skinned surfaces to rebind
	//
	// Returns:
	//   - []*RebindPart: one part per rebound surface, in input order
	RebindMeshes(skel *Skeleton, surfaces []*model.SkinnedSurface) []*RebindPart

	// ExportWidgets clones every rigid surface of the given assets into standalone widgets
	// drawn with an instanced default material.
	//
	// Parameters:
	//   - sources: the linked-widget assets
	//
	// Returns:
	//   - []*Widget: the widgets, in source order
	ExportWidgets(sources []*model.SourceAsset) []*Widget
}

var _ Baker = &baker{}

// NewBaker creates a new Baker configured with the provided options.
//
// Parameters:
//   - options: variadic list of BakerBuilderOption functions
//
// Returns:
//   - Baker: the new baker
func NewBaker(options ...BakerBuilderOption) Baker {
	b := &baker{
		logger:    zap.NewNop(),
		frameRate: DefaultFrameRate,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *baker) Bake(asset *model.SourceAsset) (*Result, error) {
	skel, err := IndexSkeleton(asset.Root, b.skeletonRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to index skeleton of %q: %w", asset.Name, err)
	}
	for _, name := range skel.Collisions {
		b.logger.Warn("duplicate bone name, later bone wins",
			zap.String("asset", asset.Name), zap.String("bone", name))
	}

	boneCount := skel.BoneCount()
	res := &Result{
		Skeleton: skel,
		Data: &BakedSkeletonData{
			BoneNames: append([]string(nil), skel.BoneNames...),
		},
	}

	offset := boneCount * TexelsPerBone
	for _, src := range asset.Clips {
		clip, err := SampleClip(skel, src, b.frameRate)
		if errors.Is(err, ErrEmptyClip) {
			b.logger.Warn("skipping empty clip", zap.String("asset", asset.Name), zap.Error(err))
			res.Skipped = append(res.Skipped, src.Name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to sample clip %q: %w", src.Name, err)
		}
		clip.PixelStartIndex = offset
		offset += clip.PixelCount(boneCount)
		res.Data.Clips = append(res.Data.Clips, clip)
	}

	res.Texture = NewSkinningTexture(TextureSize(offset))
	for bone := 0; bone < boneCount; bone++ {
		if err := res.Texture.WriteMatrix(bone*TexelsPerBone, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}
	for _, clip := range res.Data.Clips {
		for f := 0; f < clip.FrameCount; f++ {
			base := clip.FramePixelIndex(f, boneCount)
			for bone := 0; bone < boneCount; bone++ {
				m := clip.Bones[bone].Frames[f].Mul4(skel.BindPose[bone])
				if err := res.Texture.WriteMatrix(base+bone*TexelsPerBone, m); err != nil {
					return nil, fmt.Errorf("failed to pack clip %q: %w", clip.Name, err)
				}
			}
		}
	}

	b.logger.Info("asset baked",
		zap.String("asset", asset.Name),
		zap.Int("bones", boneCount),
		zap.Int("clips", len(res.Data.Clips)),
		zap.Int("pixels", offset),
		zap.Int("textureSize", res.Texture.Size),
	)
	return res, nil
}
