package baker

import (
	"go.uber.org/zap"
)

// BakerBuilderOption is a functional option for configuring a Baker via NewBaker.
type BakerBuilderOption func(*baker)

// WithLogger sets the logger used to report skipped clips, skipped meshes and bake statistics.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - BakerBuilderOption: a function that applies the logger option to a baker
func WithLogger(logger *zap.Logger) BakerBuilderOption {
	return func(b *baker) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSkeletonRoot selects the container child to index as the skeleton.
// By default the container's first child is used.
//
// Parameters:
//   - name: the node name of the skeleton root
//
// Returns:
//   - BakerBuilderOption: a function that applies the skeleton root option to a baker
func WithSkeletonRoot(name string) BakerBuilderOption {
	return func(b *baker) {
		b.skeletonRoot = name
	}
}

// WithFrameRate sets the frame rate used for clips that declare none. Non-positive values are ignored.
//
// Parameters:
//   - fps: frames per second
//
// Returns:
//   - BakerBuilderOption: a function that applies the frame rate option to a baker
func WithFrameRate(fps float32) BakerBuilderOption {
	return func(b *baker) {
		if fps > 0 {
			b.frameRate = fps
		}
	}
}
