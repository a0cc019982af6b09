package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testDocument assembles a glTF JSON document with a single embedded buffer.
type testDocument struct {
	fields    map[string]any
	buf       []byte
	views     []map[string]any
	accessors []map[string]any
}

func newTestDocument() *testDocument {
	return &testDocument{fields: map[string]any{"asset": map[string]any{"version": "2.0"}}}
}

func (d *testDocument) align() {
	for len(d.buf)%4 != 0 {
		d.buf = append(d.buf, 0)
	}
}

func (d *testDocument) addView(data []byte) int {
	d.align()
	d.views = append(d.views, map[string]any{"buffer": 0, "byteOffset": len(d.buf), "byteLength": len(data)})
	d.buf = append(d.buf, data...)
	return len(d.views) - 1
}

func (d *testDocument) floats(accType string, comps int, vals ...float32) int {
	data := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	view := d.addView(data)
	d.accessors = append(d.accessors, map[string]any{
		"bufferView": view, "componentType": gltfComponentTypeFloat, "count": len(vals) / comps, "type": accType,
	})
	return len(d.accessors) - 1
}

func (d *testDocument) ubytes(accType string, comps int, vals ...uint8) int {
	view := d.addView(append([]byte(nil), vals...))
	d.accessors = append(d.accessors, map[string]any{
		"bufferView": view, "componentType": gltfComponentTypeUnsignedByte, "count": len(vals) / comps, "type": accType,
	})
	return len(d.accessors) - 1
}

func (d *testDocument) set(key string, value any) {
	d.fields[key] = value
}

func (d *testDocument) bytes(t *testing.T) []byte {
	t.Helper()
	d.fields["bufferViews"] = d.views
	d.fields["accessors"] = d.accessors
	d.fields["buffers"] = []map[string]any{{
		"byteLength": len(d.buf),
		"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(d.buf),
	}}
	data, err := json.Marshal(d.fields)
	require.NoError(t, err)
	return data
}

func (d *testDocument) write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, d.bytes(t), 0o644))
}

// skinnedDocument describes Armature/Hips/Spine with a one-triangle body skinned to Hips and Spine,
// plus a named non-looping "wave" rotation clip and an unnamed translation clip.
func skinnedDocument() *testDocument {
	d := newTestDocument()

	positions := d.floats(gltfAccessorTypeVec3, 3, 0, 1, 0, 1, 2, 0, 0, 2, 1)
	joints := d.ubytes(gltfAccessorTypeVec4, 4, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0)
	weights := d.floats(gltfAccessorTypeVec4, 4, 1, 0, 0, 0, 1, 0, 0, 0, 0.5, 0.5, 0, 0)
	ibms := d.floats(gltfAccessorTypeMat4, 16,
		1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, -1, 0, 1,
		1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, -2, 0, 1,
	)
	times := d.floats(gltfAccessorTypeScalar, 1, 0, 1)
	rotations := d.floats(gltfAccessorTypeVec4, 4, 0, 0, 0, 1, 0, 0.7071068, 0, 0.7071068)
	translations := d.floats(gltfAccessorTypeVec3, 3, 0, 1, 0, 0, 1.5, 0)

	d.set("scenes", []any{map[string]any{"name": "FoxScene", "nodes": []int{0, 3}}})
	d.set("nodes", []any{
		map[string]any{"name": "Armature", "children": []int{1}},
		map[string]any{"name": "Hips", "children": []int{2}, "translation": []float32{0, 1, 0}},
		map[string]any{"name": "Spine", "translation": []float32{0, 1, 0}},
		map[string]any{"name": "Body", "mesh": 0, "skin": 0},
	})
	d.set("meshes", []any{map[string]any{
		"name": "BodyMesh",
		"primitives": []any{map[string]any{
			"attributes": map[string]int{"POSITION": positions, "JOINTS_0": joints, "WEIGHTS_0": weights},
			"material":   0,
		}},
	}})
	d.set("materials", []any{map[string]any{
		"name":                 "Fur",
		"pbrMetallicRoughness": map[string]any{"baseColorFactor": []float32{1, 0.5, 0.25, 1}},
	}})
	d.set("skins", []any{map[string]any{"joints": []int{1, 2}, "inverseBindMatrices": ibms}})
	d.set("animations", []any{
		map[string]any{
			"name":     "wave",
			"channels": []any{map[string]any{"sampler": 0, "target": map[string]any{"node": 1, "path": "rotation"}}},
			"samplers": []any{map[string]any{"input": times, "output": rotations}},
			"extras":   map[string]any{"loop": false, "frameRate": 24},
		},
		map[string]any{
			"channels": []any{map[string]any{"sampler": 0, "target": map[string]any{"node": 2, "path": "translation"}}},
			"samplers": []any{map[string]any{"input": times, "output": translations, "interpolation": "STEP"}},
		},
	})
	return d
}

// clipDocument describes the same skeleton with a single unnamed rotation clip.
func clipDocument() *testDocument {
	d := newTestDocument()
	times := d.floats(gltfAccessorTypeScalar, 1, 0, 0.5)
	rotations := d.floats(gltfAccessorTypeVec4, 4, 0, 0, 0, 1, 0, 0, 0, 1)
	d.set("nodes", []any{
		map[string]any{"name": "Armature", "children": []int{1}},
		map[string]any{"name": "Hips", "children": []int{2}},
		map[string]any{"name": "Spine"},
	})
	d.set("animations", []any{map[string]any{
		"channels": []any{map[string]any{"sampler": 0, "target": map[string]any{"node": 2, "path": "rotation"}}},
		"samplers": []any{map[string]any{"input": times, "output": rotations}},
	}})
	return d
}

// widgetDocument describes a single rigid triangle.
func widgetDocument() *testDocument {
	d := newTestDocument()
	positions := d.floats(gltfAccessorTypeVec3, 3, 0, 0, 0, 1, 0, 0, 0, 1, 0)
	uvs := d.floats(gltfAccessorTypeVec2, 2, 0, 0, 1, 0, 0, 1)
	d.set("nodes", []any{map[string]any{"name": "Blade", "mesh": 0}})
	d.set("meshes", []any{map[string]any{
		"name":       "BladeMesh",
		"primitives": []any{map[string]any{"attributes": map[string]int{"POSITION": positions, "TEXCOORD_0": uvs}}},
	}})
	return d
}
