package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"
)

// gltfExtractMaterials converts every document material into an ImportedMaterial.
// Only the base colour factor and base colour texture are read.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - []*common.ImportedMaterial: one material per glTF material index
//   - error: error if a referenced texture cannot be resolved
func gltfExtractMaterials(parser gltfParser) ([]*common.ImportedMaterial, error) {
	doc := parser.Document()
	out := make([]*common.ImportedMaterial, len(doc.Materials))
	for i, m := range doc.Materials {
		mat := &common.ImportedMaterial{
			Name:      m.Name,
			BaseColor: [4]float32{1, 1, 1, 1},
		}
		if mat.Name == "" {
			mat.Name = fmt.Sprintf("material_%d", i)
		}

		if pbr := m.PbrMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				mat.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.BaseColorTexture != nil {
				tex, err := gltfExtractTexture(parser, pbr.BaseColorTexture.Index)
				if err != nil {
					return nil, fmt.Errorf("material %q: %w", mat.Name, err)
				}
				mat.MainTexture = tex
			}
		}
		out[i] = mat
	}
	return out, nil
}

// gltfDefaultMaterial is assigned to primitives that reference no material.
func gltfDefaultMaterial() *common.ImportedMaterial {
	return &common.ImportedMaterial{Name: "default", BaseColor: [4]float32{1, 1, 1, 1}}
}

func gltfExtractTexture(parser gltfParser, textureIndex int) (*common.ImportedTexture, error) {
	doc := parser.Document()
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", textureIndex)
	}
	src := doc.Textures[textureIndex].Source
	if src == nil || *src < 0 || *src >= len(doc.Images) {
		return nil, fmt.Errorf("texture %d has no valid image source", textureIndex)
	}
	img := doc.Images[*src]

	tex := &common.ImportedTexture{Name: img.Name, MimeType: img.MimeType}
	if tex.Name == "" {
		tex.Name = fmt.Sprintf("image_%d", *src)
	}

	switch {
	case img.BufferView != nil:
		data, err := parser.BufferViewBytes(*img.BufferView)
		if err != nil {
			return nil, err
		}
		tex.Data = append([]byte(nil), data...)
	case strings.HasPrefix(img.URI, "data:"):
		data, err := gltfDecodeDataURI(img.URI)
		if err != nil {
			return nil, err
		}
		tex.Data = data
	case img.URI != "":
		tex.Path = filepath.Join(parser.BaseDir(), img.URI)
	default:
		return nil, fmt.Errorf("image %d has neither URI nor buffer view", *src)
	}
	return tex, nil
}
