package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/loader"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/node"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/player"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/shader"

	"go.uber.org/zap"
)

// Bundle is an exported player asset read back from disk.
type Bundle struct {
	Asset       string
	Data        *baker.BakedSkeletonData
	Texture     *baker.SkinningTexture
	Materials   map[string]material.Material
	DefaultClip string

	// Root is the prefab's node tree. Use NewPlayer to get an independent instance.
	Root node.Node
}

// LoadBundle reads the player prefab <dir>/<asset>.prefab.json together with the data, texture and
// material files it references.
//
// Parameters:
//   - dir: the asset's export folder
//   - asset: the asset name
//
// Returns:
//   - *Bundle: the loaded bundle
//   - error: loader.ErrMissingAsset if a referenced file is absent, shader.ErrUnknownShader, or a decode error
func LoadBundle(dir, asset string) (*Bundle, error) {
	var prefab Prefab
	if err := readFile(filepath.Join(dir, asset+".prefab.json"), func(f *os.File) error {
		return readJSON(bufio.NewReader(f), &prefab)
	}); err != nil {
		return nil, err
	}
	if prefab.Root == nil || prefab.Data == "" || prefab.Texture == "" {
		return nil, fmt.Errorf("%w: %s is not a player prefab", loader.ErrMissingAsset, asset)
	}

	b := &Bundle{
		Asset:       prefab.Asset,
		DefaultClip: prefab.DefaultClip,
		Materials:   make(map[string]material.Material),
	}

	if err := readFile(filepath.Join(dir, filepath.FromSlash(prefab.Data)), func(f *os.File) error {
		raw, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		b.Data, err = DecodeBakedData(raw)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(filepath.Join(dir, filepath.FromSlash(prefab.Texture)), func(f *os.File) error {
		var err error
		b.Texture, err = DecodeTexture(bufio.NewReader(f))
		return err
	}); err != nil {
		return nil, err
	}

	for _, name := range prefabMaterials(prefab.Root, nil) {
		if _, ok := b.Materials[name]; ok {
			continue
		}
		var mf MaterialFile
		if err := readFile(filepath.Join(dir, MaterialsDir, name+".mat.json"), func(f *os.File) error {
			return readJSON(bufio.NewReader(f), &mf)
		}); err != nil {
			return nil, err
		}
		if _, err := shader.Lookup(mf.Shader); err != nil {
			return nil, fmt.Errorf("material %s: %w", name, err)
		}
		b.Materials[name] = mf.Material()
	}

	root, err := FromPrefabNode(prefab.Root, b.Materials)
	if err != nil {
		return nil, err
	}
	b.Root = root
	return b, nil
}

// NewPlayer clones the bundle's node tree and attaches a player to the clone, starting on the
// bundle's default clip.
//
// Parameters:
//   - logger: the player's logger, may be nil
//
// Returns:
//   - player.Player: the new player
func (b *Bundle) NewPlayer(logger *zap.Logger) player.Player {
	opts := []player.PlayerBuilderOption{
		player.WithData(b.Data),
		player.WithNode(b.Root.Clone()),
		player.WithLogger(logger),
	}
	if b.DefaultClip != "" {
		opts = append(opts, player.WithClipName(b.DefaultClip))
	}
	return player.NewPlayer(opts...)
}

func prefabMaterials(p *PrefabNode, out []string) []string {
	if p.Surface != nil && p.Surface.Material != "" {
		out = append(out, p.Surface.Material)
	}
	for _, c := range p.Children {
		out = prefabMaterials(c, out)
	}
	return out
}

func readFile(path string, fn func(*os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", loader.ErrMissingAsset, path)
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}
