package baker

import (
	"encoding/binary"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpuanim/common"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/x448/float16"
)

// BytesPerTexel is the size of one RGBA half-float texel.
const BytesPerTexel = 8

// SkinningTexture is a square half-float RGBA image holding packed bone matrices.
// Texels are addressed linearly, row by row.
type SkinningTexture struct {
	Size   int
	Pixels []float16.Float16
}

// NewSkinningTexture allocates a zeroed texture.
//
// Parameters:
//   - size: the side length
//
// Returns:
//   - *SkinningTexture: the new texture
func NewSkinningTexture(size int) *SkinningTexture {
	return &SkinningTexture{
		Size:   size,
		Pixels: make([]float16.Float16, size*size*4),
	}
}

// TexelCount returns the number of addressable texels.
func (t *SkinningTexture) TexelCount() int {
	return t.Size * t.Size
}

// SetTexel stores one RGBA texel, rounding every channel to half precision.
//
// Parameters:
//   - pixel: the linear texel index
//   - rgba: the channel values
//
// Returns:
//   - error: an error if the index is out of range
func (t *SkinningTexture) SetTexel(pixel int, rgba [4]float32) error {
	if pixel < 0 || pixel >= t.TexelCount() {
		return fmt.Errorf("texel %d out of range for %dx%d texture", pixel, t.Size, t.Size)
	}
	for c, v := range rgba {
		t.Pixels[pixel*4+c] = float16.Fromfloat32(v)
	}
	return nil
}

// Texel reads one RGBA texel.
//
// Parameters:
//   - pixel: the linear texel index
//
// Returns:
//   - [4]float32: the channel values, zero if out of range
func (t *SkinningTexture) Texel(pixel int) [4]float32 {
	var out [4]float32
	if pixel < 0 || pixel >= t.TexelCount() {
		return out
	}
	for c := range out {
		out[c] = t.Pixels[pixel*4+c].Float32()
	}
	return out
}

// WriteMatrix packs a matrix into the three texels starting at pixel.
//
// Parameters:
//   - pixel: the first texel
//   - m: the matrix
//
// Returns:
//   - error: an error if the texels do not fit
func (t *SkinningTexture) WriteMatrix(pixel int, m mgl32.Mat4) error {
	for r, texel := range PackMatrix(m) {
		if err := t.SetTexel(pixel+r, texel); err != nil {
			return err
		}
	}
	return nil
}

// ReadMatrix decodes the matrix stored in the three texels starting at pixel.
//
// Parameters:
//   - pixel: the first texel
//
// Returns:
//   - mgl32.Mat4: the decoded matrix
func (t *SkinningTexture) ReadMatrix(pixel int) mgl32.Mat4 {
	var texels [3][4]float32
	for r := range texels {
		texels[r] = t.Texel(pixel + r)
	}
	return UnpackMatrix(texels)
}

// Bytes returns the texels as little-endian half floats, ready for upload.
//
// Returns:
//   - []byte: Size*Size*8 bytes
func (t *SkinningTexture) Bytes() []byte {
	buf := make([]byte, len(t.Pixels)*2)
	for i, h := range t.Pixels {
		binary.LittleEndian.PutUint16(buf[i*2:], h.Bits())
	}
	return buf
}

// StagingData wraps the texels for GPU upload.
//
// Returns:
//   - *common.TextureStagingData: the staging data
func (t *SkinningTexture) StagingData() *common.TextureStagingData {
	return &common.TextureStagingData{
		Pixels:        t.Bytes(),
		Width:         uint32(t.Size),
		Height:        uint32(t.Size),
		Format:        wgpu.TextureFormatRGBA16Float,
		BytesPerPixel: BytesPerTexel,
	}
}

// Descriptor returns the GPU texture description of the skinning texture.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - wgpu.TextureDescriptor: a sampled, copy-destination 2D texture without mips
func (t *SkinningTexture) Descriptor(label string) wgpu.TextureDescriptor {
	return wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(t.Size),
			Height:             uint32(t.Size),
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA16Float,
		MipLevelCount: 1,
		SampleCount:   1,
	}
}

// DataLayout returns the row layout used when writing Bytes into the GPU texture.
//
// Returns:
//   - wgpu.TextureDataLayout: the upload layout
func (t *SkinningTexture) DataLayout() wgpu.TextureDataLayout {
	return wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(t.Size) * BytesPerTexel,
		RowsPerImage: uint32(t.Size),
	}
}

// SamplerData returns point-filtered, clamped sampler settings; texels must never be blended.
//
// Returns:
//   - common.SamplerStagingData: the sampler settings
func (t *SkinningTexture) SamplerData() common.SamplerStagingData {
	return common.PointClampSampler()
}
