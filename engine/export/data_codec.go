package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"

	"github.com/go-gl/mathgl/mgl32"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the baked data blob.
//
//	Data: 1 bone_names (repeated string), 2 clips (repeated Clip)
//	Clip: 1 name, 2 frame_rate, 3 frame_count, 4 loop_start_frame, 5 length (fixed32),
//	      6 pixel_start_index, 7 bones (repeated Bone)
//	Bone: 1 frames (packed fixed32, 16 column-major floats per frame)
const (
	fieldDataBoneNames protowire.Number = 1
	fieldDataClips     protowire.Number = 2

	fieldClipName       protowire.Number = 1
	fieldClipFrameRate  protowire.Number = 2
	fieldClipFrameCount protowire.Number = 3
	fieldClipLoopStart  protowire.Number = 4
	fieldClipLength     protowire.Number = 5
	fieldClipPixelStart protowire.Number = 6
	fieldClipBones      protowire.Number = 7

	fieldBoneFrames protowire.Number = 1
)

var errMalformedData = errors.New("malformed baked data")

// EncodeBakedData serializes baked skeleton data in protobuf wire format.
//
// Parameters:
//   - d: the baked data
//
// Returns:
//   - []byte: the encoded blob
func EncodeBakedData(d *baker.BakedSkeletonData) []byte {
	var b []byte
	for _, name := range d.BoneNames {
		b = protowire.AppendTag(b, fieldDataBoneNames, protowire.BytesType)
		b = protowire.AppendString(b, name)
	}
	for _, c := range d.Clips {
		b = protowire.AppendTag(b, fieldDataClips, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeClip(c))
	}
	return b
}

func encodeClip(c *baker.BakedClip) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldClipName, protowire.BytesType)
	b = protowire.AppendString(b, c.Name)
	b = protowire.AppendTag(b, fieldClipFrameRate, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.FrameRate))
	b = protowire.AppendTag(b, fieldClipFrameCount, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.FrameCount))
	b = protowire.AppendTag(b, fieldClipLoopStart, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.LoopStartFrame))
	b = protowire.AppendTag(b, fieldClipLength, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(c.Length))
	b = protowire.AppendTag(b, fieldClipPixelStart, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.PixelStartIndex))
	for _, bone := range c.Bones {
		var frames []byte
		for _, m := range bone.Frames {
			for _, v := range m {
				frames = protowire.AppendFixed32(frames, math.Float32bits(v))
			}
		}
		var msg []byte
		msg = protowire.AppendTag(msg, fieldBoneFrames, protowire.BytesType)
		msg = protowire.AppendBytes(msg, frames)

		b = protowire.AppendTag(b, fieldClipBones, protowire.BytesType)
		b = protowire.AppendBytes(b, msg)
	}
	return b
}

// DecodeBakedData parses a blob written by EncodeBakedData. Unknown fields are skipped.
//
// Parameters:
//   - b: the encoded blob
//
// Returns:
//   - *baker.BakedSkeletonData: the decoded data
//   - error: an error if the blob is truncated, inconsistent or holds an unplayable clip
func DecodeBakedData(b []byte) (*baker.BakedSkeletonData, error) {
	d := &baker.BakedSkeletonData{}
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, bool, error) {
		switch {
		case num == fieldDataBoneNames && typ == protowire.BytesType:
			s, n := protowire.ConsumeBytes(v)
			if n >= 0 {
				d.BoneNames = append(d.BoneNames, string(s))
			}
			return n, true, nil
		case num == fieldDataClips && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n, true, nil
			}
			c, err := decodeClip(msg)
			if err != nil {
				return n, true, err
			}
			d.Clips = append(d.Clips, c)
			return n, true, nil
		}
		return 0, false, nil
	})
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedData, err)
	}
	return d, nil
}

func decodeClip(b []byte) (*baker.BakedClip, error) {
	c := &baker.BakedClip{}
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, bool, error) {
		switch {
		case num == fieldClipName && typ == protowire.BytesType:
			s, n := protowire.ConsumeBytes(v)
			c.Name = string(s)
			return n, true, nil
		case typ == protowire.VarintType && num >= fieldClipFrameRate && num <= fieldClipPixelStart:
			x, n := protowire.ConsumeVarint(v)
			switch num {
			case fieldClipFrameRate:
				c.FrameRate = int(x)
			case fieldClipFrameCount:
				c.FrameCount = int(x)
			case fieldClipLoopStart:
				c.LoopStartFrame = int(x)
			case fieldClipPixelStart:
				c.PixelStartIndex = int(x)
			}
			return n, true, nil
		case num == fieldClipLength && typ == protowire.Fixed32Type:
			x, n := protowire.ConsumeFixed32(v)
			c.Length = math.Float32frombits(x)
			return n, true, nil
		case num == fieldClipBones && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n, true, nil
			}
			bone, err := decodeBone(msg)
			if err != nil {
				return n, true, err
			}
			c.Bones = append(c.Bones, bone)
			return n, true, nil
		}
		return 0, false, nil
	})
	return c, err
}

func decodeBone(b []byte) (baker.BakedBone, error) {
	var bone baker.BakedBone
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, bool, error) {
		if num != fieldBoneFrames || typ != protowire.BytesType {
			return 0, false, nil
		}
		packed, n := protowire.ConsumeBytes(v)
		if n < 0 {
			return n, true, nil
		}
		if len(packed)%64 != 0 {
			return n, true, fmt.Errorf("%w: frame block of %d bytes", errMalformedData, len(packed))
		}
		for len(packed) > 0 {
			var m mgl32.Mat4
			for i := range m {
				x, k := protowire.ConsumeFixed32(packed)
				if k < 0 {
					return n, true, protowire.ParseError(k)
				}
				m[i] = math.Float32frombits(x)
				packed = packed[k:]
			}
			bone.Frames = append(bone.Frames, m)
		}
		return n, true, nil
	})
	return bone, err
}

// walkFields iterates the fields of one message. fn consumes a known field value and returns the
// number of bytes read with handled set; fields it does not handle are skipped.
func walkFields(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) (int, bool, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", errMalformedData, protowire.ParseError(n))
		}
		b = b[n:]

		n, handled, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if !handled {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: %v", errMalformedData, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}
