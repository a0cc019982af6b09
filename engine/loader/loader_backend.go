package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"
)

// loaderBackend defines the generic interface for loading source assets from files or streams.
// Concrete implementations (e.g., gltfLoaderBackendImpl) handle format-specific details.
type loaderBackend interface {
	// Load performs a full import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.SourceAsset: the imported asset
	//   - error: error if loading fails
	Load(path string) (*model.SourceAsset, error)

	// LoadReader imports an asset from a reader stream.
	//
	// Parameters:
	//   - name: the asset name
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data, false for text-based formats
	//
	// Returns:
	//   - *model.SourceAsset: the imported asset
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*model.SourceAsset, error)
}
