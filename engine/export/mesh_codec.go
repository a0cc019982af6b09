package export

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"
)

// meshMagic starts every mesh file.
var meshMagic = [4]byte{'O', 'X', 'Y', 'M'}

// maxMeshElements bounds vertex and index counts accepted when decoding.
const maxMeshElements = 1 << 26

var errBadMesh = errors.New("invalid mesh file")

type meshHeader struct {
	Magic       [4]byte
	Stride      uint32
	VertexCount uint32
	IndexCount  uint32
}

// MeshFile is the decoded content of a mesh file.
type MeshFile struct {
	// Stride is the byte size of one vertex: model.GPURebindVertexSize or model.GPUVertexSize.
	Stride      int
	VertexCount int
	Vertices    []byte
	Indices     []uint32
}

// EncodeRebindMesh writes a rebound mesh as a GPURebindVertex stream followed by its indices.
//
// Parameters:
//   - w: the destination
//   - m: the rebound mesh
//
// Returns:
//   - error: a write error
func EncodeRebindMesh(w io.Writer, m *baker.RebindMesh) error {
	vertices := make([]byte, 0, len(m.Vertices)*model.GPURebindVertexSize)
	for i := range m.Vertices {
		vertices = append(vertices, m.Vertices[i].Marshal()...)
	}
	return writeMesh(w, model.GPURebindVertexSize, len(m.Vertices), vertices, m.Indices)
}

// EncodeRigidMesh writes a rigid mesh as a GPUVertex stream followed by its indices.
//
// Parameters:
//   - w: the destination
//   - m: the rigid mesh
//
// Returns:
//   - error: a write error
func EncodeRigidMesh(w io.Writer, m *model.RigidMesh) error {
	vertices := make([]byte, 0, len(m.Vertices)*model.GPUVertexSize)
	for _, v := range m.Vertices {
		g := model.GPUVertex{Position: v.Position, Normal: v.Normal, TexCoord: v.TexCoord}
		vertices = append(vertices, g.Marshal()...)
	}
	return writeMesh(w, model.GPUVertexSize, len(m.Vertices), vertices, m.Indices)
}

func writeMesh(w io.Writer, stride, count int, vertices []byte, indices []uint32) error {
	h := meshHeader{
		Magic:       meshMagic,
		Stride:      uint32(stride),
		VertexCount: uint32(count),
		IndexCount:  uint32(len(indices)),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("failed to write mesh header: %w", err)
	}
	if _, err := w.Write(vertices); err != nil {
		return fmt.Errorf("failed to write vertices: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, indices); err != nil {
		return fmt.Errorf("failed to write indices: %w", err)
	}
	return nil
}

// DecodeMesh reads a mesh file written by EncodeRebindMesh or EncodeRigidMesh.
//
// Parameters:
//   - r: the source
//
// Returns:
//   - *MeshFile: the decoded mesh
//   - error: an error if the file is truncated or not a mesh file
func DecodeMesh(r io.Reader) (*MeshFile, error) {
	var h meshHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadMesh, err)
	}
	if h.Magic != meshMagic || h.Stride == 0 || h.VertexCount > maxMeshElements || h.IndexCount > maxMeshElements {
		return nil, errBadMesh
	}

	m := &MeshFile{
		Stride:      int(h.Stride),
		VertexCount: int(h.VertexCount),
		Vertices:    make([]byte, int(h.Stride)*int(h.VertexCount)),
		Indices:     make([]uint32, h.IndexCount),
	}
	if _, err := io.ReadFull(r, m.Vertices); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadMesh, err)
	}
	if err := binary.Read(r, binary.LittleEndian, m.Indices); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadMesh, err)
	}
	return m, nil
}
