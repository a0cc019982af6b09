package loader

import (
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"go.uber.org/zap"
)

// DefaultFrameRate is the sampling rate assumed for clips that do not declare one.
const DefaultFrameRate float32 = 30

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the logger used to report loaded and skipped files.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFrameRate sets the frame rate assigned to clips without a frameRate hint.
// Non-positive values are ignored.
//
// Parameters:
//   - fps: frames per second
//
// Returns:
//   - LoaderBuilderOption: a function that applies the frame rate option to a loader
func WithFrameRate(fps float32) LoaderBuilderOption {
	return func(l *loader) {
		if fps > 0 {
			l.settings.frameRate = fps
		}
	}
}

// WithDefaultLoop sets whether clips without a loop hint loop.
//
// Parameters:
//   - loop: the default loop flag
//
// Returns:
//   - LoaderBuilderOption: a function that applies the loop option to a loader
func WithDefaultLoop(loop bool) LoaderBuilderOption {
	return func(l *loader) {
		l.settings.loop = loop
	}
}

// WithLoopOverrides forces the loop flag of the named clips, taking precedence over file hints.
//
// Parameters:
//   - overrides: clip name to loop flag
//
// Returns:
//   - LoaderBuilderOption: a function that applies the overrides to a loader
func WithLoopOverrides(overrides map[string]bool) LoaderBuilderOption {
	return func(l *loader) {
		for k, v := range overrides {
			l.settings.loopOverrides[k] = v
		}
	}
}

// WithAsset pre-populates the asset cache.
//
// Parameters:
//   - key: the cache key
//   - asset: the asset to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(key string, asset *model.SourceAsset) LoaderBuilderOption {
	return func(l *loader) {
		l.assetCache[key] = asset
	}
}
