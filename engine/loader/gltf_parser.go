package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.x")
	errInvalidGLB         = errors.New("invalid GLB container")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errSparseAccessor     = errors.New("sparse accessors are not supported")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir  string
	document *gltfDocument
	binChunk []byte
}

// gltfParser loads a glTF or GLB document and decodes its accessors into plain Go slices.
type gltfParser interface {
	// Parse loads and parses a glTF/GLB file from the given path.
	// The container format is detected from the GLB magic number.
	//
	// Parameters:
	//   - path: path to the glTF or GLB file
	//
	// Returns:
	//   - error: error if reading or parsing fails
	Parse(path string) error

	// ParseReader parses a glTF document from a reader.
	// External buffer and image URIs are resolved against baseDir.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//   - isGLB: true if the data is in GLB format
	//   - baseDir: directory used to resolve relative URIs
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader, isGLB bool, baseDir string) error

	// Document returns the parsed document, or nil before a successful parse.
	Document() *gltfDocument

	// BaseDir returns the directory relative URIs are resolved against.
	BaseDir() string

	// ReadFloats decodes an accessor into a flat float slice.
	// Normalized integer accessors are mapped to [0,1] or [-1,1] as the glTF specification requires.
	//
	// Parameters:
	//   - accessorIndex: the accessor to read
	//   - accessorType: the expected accessor type (SCALAR, VEC3, ...)
	//
	// Returns:
	//   - []float32: count * components values
	//   - error: error if the accessor is missing, of the wrong type or out of bounds
	ReadFloats(accessorIndex int, accessorType string) ([]float32, error)

	// ReadUints decodes an unsigned integer accessor (indices, joints) into a flat slice.
	//
	// Parameters:
	//   - accessorIndex: the accessor to read
	//   - accessorType: the expected accessor type
	//
	// Returns:
	//   - []uint32: count * components values
	//   - error: error if the accessor is missing, of the wrong type or out of bounds
	ReadUints(accessorIndex int, accessorType string) ([]uint32, error)

	// BufferViewBytes returns the bytes covered by a buffer view.
	//
	// Parameters:
	//   - viewIndex: the buffer view index
	//
	// Returns:
	//   - []byte: the view contents
	//   - error: error if the view is out of range
	BufferViewBytes(viewIndex int) ([]byte, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser instance.
//
// Returns:
//   - gltfParser: a new parser instance
func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) BaseDir() string {
	return p.baseDir
}

func (p *gltfParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	p.baseDir = filepath.Dir(path)

	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == gltfGLBMagic {
		return p.parseGLB(data)
	}
	return p.parseJSON(data)
}

func (p *gltfParserImpl) ParseReader(r io.Reader, isGLB bool, baseDir string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	p.baseDir = baseDir

	if isGLB {
		return p.parseGLB(data)
	}
	return p.parseJSON(data)
}

func (p *gltfParserImpl) parseJSON(data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}
	p.document = &doc
	return nil
}

// parseGLB splits a GLB container into its JSON and BIN chunks.
func (p *gltfParserImpl) parseGLB(data []byte) error {
	if len(data) < 12 {
		return fmt.Errorf("%w: file too small", errInvalidGLB)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != gltfGLBMagic {
		return fmt.Errorf("%w: bad magic", errInvalidGLB)
	}
	if binary.LittleEndian.Uint32(data[4:8]) != gltfGLBVersion {
		return fmt.Errorf("%w: unsupported version", errInvalidGLB)
	}

	var jsonChunk []byte
	for off := 12; off+8 <= len(data); {
		length := int(binary.LittleEndian.Uint32(data[off : off+4]))
		kind := binary.LittleEndian.Uint32(data[off+4 : off+8])
		off += 8
		if off+length > len(data) {
			return fmt.Errorf("%w: truncated chunk", errInvalidGLB)
		}
		switch kind {
		case gltfGLBChunkJSON:
			jsonChunk = data[off : off+length]
		case gltfGLBChunkBIN:
			p.binChunk = data[off : off+length]
		}
		off += length
	}
	if jsonChunk == nil {
		return errMissingJSONChunk
	}
	return p.parseJSON(jsonChunk)
}

func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.binChunk != nil:
			buf.Data = p.binChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		default:
			data, err := p.loadURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		}
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// loadURI resolves a base64 data URI or a path relative to the document.
func (p *gltfParserImpl) loadURI(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return gltfDecodeDataURI(uri)
	}
	data, err := os.ReadFile(filepath.Join(p.baseDir, uri))
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", uri, err)
	}
	return data, nil
}

// gltfDecodeDataURI decodes data:[<mediatype>];base64,<data>.
func gltfDecodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if !strings.HasPrefix(uri, "data:") || comma < 0 {
		return nil, errInvalidBufferURI
	}
	if !strings.Contains(uri[5:comma], "base64") {
		return nil, fmt.Errorf("%w: unsupported encoding %q", errInvalidBufferURI, uri[5:comma])
	}
	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

func (p *gltfParserImpl) BufferViewBytes(viewIndex int) ([]byte, error) {
	if p.document == nil {
		return nil, errors.New("no document loaded")
	}
	if viewIndex < 0 || viewIndex >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", viewIndex)
	}
	bv := p.document.BufferViews[viewIndex]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("buffer view %d references missing buffer %d", viewIndex, bv.Buffer)
	}
	data := p.document.Buffers[bv.Buffer].Data
	if bv.ByteOffset+bv.ByteLength > len(data) {
		return nil, fmt.Errorf("buffer view %d: %w", viewIndex, errBufferSizeMismatch)
	}
	return data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

// elements returns the accessor, its per-element byte slices and the component count.
func (p *gltfParserImpl) elements(accessorIndex int, accessorType string) (*gltfAccessor, [][]byte, int, error) {
	if p.document == nil {
		return nil, nil, 0, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, nil, 0, fmt.Errorf("accessor %d out of range", accessorIndex)
	}
	acc := &p.document.Accessors[accessorIndex]
	if acc.Type != accessorType {
		return nil, nil, 0, fmt.Errorf("accessor %d is %s, want %s", accessorIndex, acc.Type, accessorType)
	}
	if acc.Sparse != nil {
		return nil, nil, 0, fmt.Errorf("accessor %d: %w", accessorIndex, errSparseAccessor)
	}

	comps := gltfAccessorTypeComponentCount(acc.Type)
	compSize := gltfComponentTypeSize(acc.ComponentType)
	if comps == 0 || compSize == 0 {
		return nil, nil, 0, fmt.Errorf("accessor %d has unsupported layout %s/%d", accessorIndex, acc.Type, acc.ComponentType)
	}
	elemSize := comps * compSize

	// An accessor without a buffer view is all zeros.
	if acc.BufferView == nil {
		zero := make([]byte, elemSize)
		out := make([][]byte, acc.Count)
		for i := range out {
			out[i] = zero
		}
		return acc, out, comps, nil
	}

	view, err := p.BufferViewBytes(*acc.BufferView)
	if err != nil {
		return nil, nil, 0, err
	}
	stride := elemSize
	if bv := p.document.BufferViews[*acc.BufferView]; bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	out := make([][]byte, acc.Count)
	for i := range out {
		start := acc.ByteOffset + i*stride
		if start+elemSize > len(view) {
			return nil, nil, 0, fmt.Errorf("accessor %d: %w", accessorIndex, errBufferSizeMismatch)
		}
		out[i] = view[start : start+elemSize]
	}
	return acc, out, comps, nil
}

func (p *gltfParserImpl) ReadFloats(accessorIndex int, accessorType string) ([]float32, error) {
	acc, elems, comps, err := p.elements(accessorIndex, accessorType)
	if err != nil {
		return nil, err
	}
	size := gltfComponentTypeSize(acc.ComponentType)

	out := make([]float32, 0, len(elems)*comps)
	for _, e := range elems {
		for c := 0; c < comps; c++ {
			raw := e[c*size : (c+1)*size]
			var v float32
			switch acc.ComponentType {
			case gltfComponentTypeFloat:
				v = math.Float32frombits(binary.LittleEndian.Uint32(raw))
			case gltfComponentTypeUnsignedByte:
				v = float32(raw[0]) / 255
			case gltfComponentTypeByte:
				v = max(float32(int8(raw[0]))/127, -1)
			case gltfComponentTypeUnsignedShort:
				v = float32(binary.LittleEndian.Uint16(raw)) / 65535
			case gltfComponentTypeShort:
				v = max(float32(int16(binary.LittleEndian.Uint16(raw)))/32767, -1)
			default:
				return nil, fmt.Errorf("accessor %d: component type %d is not a float type", accessorIndex, acc.ComponentType)
			}
			if acc.ComponentType != gltfComponentTypeFloat && !acc.Normalized {
				return nil, fmt.Errorf("accessor %d: integer components must be normalized", accessorIndex)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadUints(accessorIndex int, accessorType string) ([]uint32, error) {
	acc, elems, comps, err := p.elements(accessorIndex, accessorType)
	if err != nil {
		return nil, err
	}
	size := gltfComponentTypeSize(acc.ComponentType)

	out := make([]uint32, 0, len(elems)*comps)
	for _, e := range elems {
		for c := 0; c < comps; c++ {
			raw := e[c*size : (c+1)*size]
			switch acc.ComponentType {
			case gltfComponentTypeUnsignedByte:
				out = append(out, uint32(raw[0]))
			case gltfComponentTypeUnsignedShort:
				out = append(out, uint32(binary.LittleEndian.Uint16(raw)))
			case gltfComponentTypeUnsignedInt:
				out = append(out, binary.LittleEndian.Uint32(raw))
			default:
				return nil, fmt.Errorf("accessor %d: component type %d is not an unsigned integer type", accessorIndex, acc.ComponentType)
			}
		}
	}
	return out, nil
}

func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
