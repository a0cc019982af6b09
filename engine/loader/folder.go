package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/model"

	"go.uber.org/zap"
)

// AssetFolder groups the source files of one export unit.
type AssetFolder struct {
	// Dir is the scanned folder.
	Dir string

	// Name is the folder's base name, which is also the main asset's name.
	Name string

	// Main is the posed skeleton asset.
	Main *model.SourceAsset

	// ClipSources are the '@' files contributing animation clips, in file name order.
	ClipSources []*model.SourceAsset

	// Widgets are the rigid linked-widget assets, in file name order.
	Widgets []*model.SourceAsset
}

// Clips returns the main asset's clips followed by those of every clip source.
// When two clips share a name the first one wins.
//
// Returns:
//   - []*model.AnimationCurveSet: the clips to bake, in order
func (f *AssetFolder) Clips() []*model.AnimationCurveSet {
	seen := make(map[string]struct{})
	var out []*model.AnimationCurveSet
	add := func(clips []*model.AnimationCurveSet) {
		for _, c := range clips {
			if _, dup := seen[c.Name]; dup {
				continue
			}
			seen[c.Name] = struct{}{}
			out = append(out, c)
		}
	}
	if f.Main != nil {
		add(f.Main.Clips)
	}
	for _, src := range f.ClipSources {
		add(src.Clips)
	}
	return out
}

func (l *loader) ScanFolder(dir string) (*AssetFolder, error) {
	folder := &AssetFolder{Dir: dir, Name: filepath.Base(filepath.Clean(dir))}

	mainPath := ""
	for _, ext := range []string{".glb", ".gltf"} {
		candidate := filepath.Join(dir, folder.Name+ext)
		if fileExists(candidate) {
			mainPath = candidate
			break
		}
	}
	if mainPath == "" {
		return nil, fmt.Errorf("%w: no %s.glb or %s.gltf in %s", ErrMissingAsset, folder.Name, folder.Name, dir)
	}

	main, err := l.Load(mainPath)
	if err != nil {
		return nil, err
	}
	folder.Main = main

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() || path == mainPath || !isModelFile(path) {
			continue
		}

		asset, err := l.Load(path)
		if err != nil {
			level := zap.WarnLevel
			if errors.Is(err, ErrMissingAsset) {
				level = zap.InfoLevel
			}
			l.logger.Log(level, "skipping source file", zap.String("path", path), zap.Error(err))
			continue
		}

		if strings.ContainsRune(entry.Name(), '@') {
			folder.ClipSources = append(folder.ClipSources, asset)
			continue
		}
		if len(asset.RigidSurfaces()) > 0 {
			folder.Widgets = append(folder.Widgets, asset)
		}
	}

	l.logger.Info("folder scanned",
		zap.String("dir", dir),
		zap.Int("clip_sources", len(folder.ClipSources)),
		zap.Int("widgets", len(folder.Widgets)),
	)
	return folder, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
