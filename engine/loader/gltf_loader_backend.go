package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"
)

// gltfLoaderBackendImpl is the loaderBackend for glTF/GLB files.
// It delegates to the gltfImporter for parsing and extraction.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

func newGLTFLoaderBackend(settings clipSettings) loaderBackend {
	return &gltfLoaderBackendImpl{importer: newGLTFImporter(settings)}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.SourceAsset, error) {
	return b.importer.Import(path)
}

func (b *gltfLoaderBackendImpl) LoadReader(name string, r io.Reader, isGLB bool) (*model.SourceAsset, error) {
	return b.importer.ImportReader(name, r, isGLB)
}
