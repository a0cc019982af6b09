package material

import (
	"encoding/binary"
	"math"
)

// GPUSkinningParamsSize is the byte size of a marshalled GPUSkinningParams.
const GPUSkinningParamsSize = 16

// GPUSkinningParams is the per-instance uniform read by the animation shader.
// Layout: start pixel index (4 bytes), skinning texture size (4 bytes), padding (8 bytes).
type GPUSkinningParams struct {
	StartPixelIndex float32
	SkinningTexSize float32
}

// NewGPUSkinningParams resolves the uniform for one instance from its material and property block.
// The block's _StartPixelIndex wins; the texture size always comes from the material.
//
// Parameters:
//   - m: the shared material
//   - block: the instance's property block, may be nil
//
// Returns:
//   - GPUSkinningParams: the resolved uniform
func NewGPUSkinningParams(m Material, block *PropertyBlock) GPUSkinningParams {
	p := GPUSkinningParams{SkinningTexSize: float32(m.SkinningTexSize())}
	if block != nil {
		if v, ok := block.Float(PropertyStartPixelIndex); ok {
			p.StartPixelIndex = v
		}
	}
	return p
}

// Size returns the size of the GPUSkinningParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUSkinningParams) Size() int {
	return GPUSkinningParamsSize
}

// Marshal serializes the GPUSkinningParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUSkinningParams) Marshal() []byte {
	buf := make([]byte, GPUSkinningParamsSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.StartPixelIndex))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.SkinningTexSize))
	return buf
}
