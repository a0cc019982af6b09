package model

import (
	"encoding/binary"
	"math"
)

// GPUVertexSize is the byte size of a marshalled GPUVertex.
const GPUVertexSize = 32

// GPURebindVertexSize is the byte size of a marshalled GPURebindVertex.
const GPURebindVertexSize = 64

// GPUVertex is the packed vertex layout of a rigid mesh.
// Layout: position (12 bytes), normal (12 bytes), uv (8 bytes).
type GPUVertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return GPUVertexSize
}

// Marshal serializes the GPUVertex into a little-endian byte buffer.
//
// Returns:
//   - []byte: 32-byte buffer ready for upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, GPUVertexSize)
	putFloats(buf, 0, g.Position[:]...)
	putFloats(buf, 12, g.Normal[:]...)
	putFloats(buf, 24, g.TexCoord[:]...)
	return buf
}

// GPURebindVertex is the packed vertex layout of a mesh rebound to a skeleton's global bone indices.
// Bone indices are stored as floats so they travel in a regular vertex attribute slot, next to their weights.
// Layout: position (12), normal (12), uv (8), bone indices (16), bone weights (16).
type GPURebindVertex struct {
	Position    [3]float32
	Normal      [3]float32
	TexCoord    [2]float32
	BoneIndices [4]float32
	BoneWeights [4]float32
}

// Size returns the size of the GPURebindVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPURebindVertex) Size() int {
	return GPURebindVertexSize
}

// Marshal serializes the GPURebindVertex into a little-endian byte buffer.
//
// Returns:
//   - []byte: 64-byte buffer ready for upload.
func (g *GPURebindVertex) Marshal() []byte {
	buf := make([]byte, GPURebindVertexSize)
	putFloats(buf, 0, g.Position[:]...)
	putFloats(buf, 12, g.Normal[:]...)
	putFloats(buf, 24, g.TexCoord[:]...)
	putFloats(buf, 32, g.BoneIndices[:]...)
	putFloats(buf, 48, g.BoneWeights[:]...)
	return buf
}

func putFloats(buf []byte, offset int, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
	}
}
