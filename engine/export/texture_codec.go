package export

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"

	"github.com/chewxy/math32"
	"github.com/x448/float16"
	"golang.org/x/image/tiff"
)

// textureMagic starts every skinning texture file.
var textureMagic = [4]byte{'O', 'X', 'Y', 'T'}

// maxTextureSize bounds the side length accepted when decoding.
const maxTextureSize = 1 << 14

var errBadTexture = errors.New("invalid skinning texture file")

type textureHeader struct {
	Magic [4]byte
	Size  uint32
}

// EncodeTexture writes a skinning texture: a small header followed by little-endian RGBA half floats.
//
// Parameters:
//   - w: the destination
//   - tex: the texture
//
// Returns:
//   - error: a write error
func EncodeTexture(w io.Writer, tex *baker.SkinningTexture) error {
	if err := binary.Write(w, binary.LittleEndian, textureHeader{Magic: textureMagic, Size: uint32(tex.Size)}); err != nil {
		return fmt.Errorf("failed to write texture header: %w", err)
	}
	if _, err := w.Write(tex.Bytes()); err != nil {
		return fmt.Errorf("failed to write texels: %w", err)
	}
	return nil
}

// DecodeTexture reads a texture written by EncodeTexture.
//
// Parameters:
//   - r: the source
//
// Returns:
//   - *baker.SkinningTexture: the texture
//   - error: an error if the file is truncated or not a skinning texture
func DecodeTexture(r io.Reader) (*baker.SkinningTexture, error) {
	var h textureHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadTexture, err)
	}
	if h.Magic != textureMagic || h.Size == 0 || h.Size > maxTextureSize {
		return nil, errBadTexture
	}

	tex := baker.NewSkinningTexture(int(h.Size))
	raw := make([]byte, len(tex.Pixels)*2)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadTexture, err)
	}
	for i := range tex.Pixels {
		tex.Pixels[i] = float16.Frombits(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return tex, nil
}

// WritePreview writes a TIFF visualization of the texture's RGB channels, mapping [-1, 1] onto the full
// 16-bit range. Values outside that range saturate.
//
// Parameters:
//   - w: the destination
//   - tex: the texture
//
// Returns:
//   - error: an encoding error
func WritePreview(w io.Writer, tex *baker.SkinningTexture) error {
	img := image.NewNRGBA64(image.Rect(0, 0, tex.Size, tex.Size))
	for i := 0; i < tex.TexelCount(); i++ {
		t := tex.Texel(i)
		img.SetNRGBA64(i%tex.Size, i/tex.Size, color.NRGBA64{
			R: previewChannel(t[0]),
			G: previewChannel(t[1]),
			B: previewChannel(t[2]),
			A: 0xffff,
		})
	}
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

func previewChannel(v float32) uint16 {
	v = math32.Max(0, math32.Min(1, v*0.5+0.5))
	return uint16(math32.Round(v * 0xffff))
}
