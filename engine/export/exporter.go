package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/baker"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/loader"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/material"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/player"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gpuanim/engine/shader"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"
)

const (
	// DefaultOutputDir is the root folder exports are written below.
	DefaultOutputDir = "Resources"

	// MaterialsDir is the per-asset sub folder holding data, textures, meshes and materials.
	MaterialsDir = "Materials"
)

// exporter is the implementation of the Exporter interface.
type exporter struct {
	logger      *zap.Logger
	loader      loader.Loader
	baker       baker.Baker
	profiler    *profiler.Profiler
	outputDir   string
	workers     int
	preview     bool
	defaultClip string
}

// Report summarizes one exported folder.
type Report struct {
	Asset       string
	Source      string
	OutputDir   string
	Bones       int
	Clips       int
	TextureSize int
	Meshes      int
	Widgets     int

	// Skipped lists the clips that sampled to zero frames.
	Skipped []string

	// Files lists every written file.
	Files []string
}

// Exporter runs the bake pipeline for asset folders and writes the results to disk.
type Exporter interface {
	// Export scans one folder, bakes its main asset with every clip found there, rebinds its skinned
	// meshes, exports its linked widgets and writes everything below <outputDir>/<asset>.
	//
	// Parameters:
	//   - dir: the asset folder
	//
	// Returns:
	//   - *Report: what was written
	//   - error: loader.ErrMissingAsset, baker.ErrEmptySkeleton, or an I/O error
	Export(dir string) (*Report, error)

	// ExportAll exports several folders on a worker pool.
	// Folders without a main asset or without bones are logged and skipped.
	//
	// Parameters:
	//   - dirs: the asset folders
	//
	// Returns:
	//   - []*Report: the reports of the exported folders, in input order
	//   - error: the joined errors of folders that failed for other reasons
	ExportAll(dirs []string) ([]*Report, error)
}

var _ Exporter = &exporter{}

// NewExporter creates a new Exporter configured with the provided options.
// Without WithLoader and WithBaker, a glTF loader and a baker sharing the exporter's logger are created.
//
// Parameters:
//   - options: variadic list of ExporterBuilderOption functions
//
// Returns:
//   - Exporter: the new exporter
func NewExporter(options ...ExporterBuilderOption) Exporter {
	e := &exporter{
		logger:      zap.NewNop(),
		outputDir:   DefaultOutputDir,
		workers:     1,
		defaultClip: player.DefaultClipName,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.loader == nil {
		e.loader = loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(e.logger))
	}
	if e.baker == nil {
		e.baker = baker.NewBaker(baker.WithLogger(e.logger))
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(e.logger)
	}
	return e
}

func (e *exporter) Export(dir string) (*Report, error) {
	folder, err := e.loader.ScanFolder(dir)
	if err != nil {
		return nil, err
	}

	src := *folder.Main
	src.Clips = folder.Clips()
	res, err := e.baker.Bake(&src)
	if err != nil {
		return nil, err
	}
	parts := e.baker.RebindMeshes(res.Skeleton, src.SkinnedSurfaces())
	widgets := e.baker.ExportWidgets(folder.Widgets)

	w := &assetWriter{
		outDir: filepath.Join(e.outputDir, src.Name),
		report: &Report{
			Asset:       src.Name,
			Source:      dir,
			Bones:       res.Skeleton.BoneCount(),
			Clips:       len(res.Data.Clips),
			TextureSize: res.Texture.Size,
			Widgets:     len(widgets),
			Skipped:     res.Skipped,
		},
	}
	w.report.OutputDir = w.outDir
	if err := os.MkdirAll(filepath.Join(w.outDir, MaterialsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}

	dataFile := src.Name + "_data.bin"
	textureName := src.Name + "_skinning"
	if err := w.write(dataFile, true, func(out io.Writer) error {
		_, err := out.Write(EncodeBakedData(res.Data))
		return err
	}); err != nil {
		return nil, err
	}
	if err := w.write(textureName+".rgba16f", true, func(out io.Writer) error {
		return EncodeTexture(out, res.Texture)
	}); err != nil {
		return nil, err
	}
	if e.preview {
		if err := w.write(textureName+".tiff", true, func(out io.Writer) error {
			return WritePreview(out, res.Texture)
		}); err != nil {
			return nil, err
		}
	}

	written := make(map[*baker.RebindMesh]struct{})
	for _, part := range parts {
		if _, ok := written[part.Mesh]; ok {
			continue
		}
		written[part.Mesh] = struct{}{}
		if err := w.write(part.Mesh.Name+".mesh", true, func(out io.Writer) error {
			return EncodeRebindMesh(out, part.Mesh)
		}); err != nil {
			return nil, err
		}
	}
	w.report.Meshes = len(written)

	root, mats := BuildPlayerNode(src.Name, res, parts, textureName)
	for _, m := range mats {
		if err := w.writeMaterial(m); err != nil {
			return nil, err
		}
	}
	for _, part := range root.Children() {
		if err := w.writePrefab(part.Name(), &Prefab{Asset: src.Name, Root: ToPrefabNode(part)}); err != nil {
			return nil, err
		}
	}
	if err := w.writePrefab(src.Name, &Prefab{
		Asset:       src.Name,
		Data:        filepath.ToSlash(filepath.Join(MaterialsDir, dataFile)),
		Texture:     filepath.ToSlash(filepath.Join(MaterialsDir, textureName+".rgba16f")),
		DefaultClip: e.defaultClip,
		Root:        ToPrefabNode(root),
	}); err != nil {
		return nil, err
	}

	for _, widget := range widgets {
		if err := w.write(widget.Name+".mesh", true, func(out io.Writer) error {
			return EncodeRigidMesh(out, widget.Mesh)
		}); err != nil {
			return nil, err
		}
		if err := w.writeMaterial(widget.Material); err != nil {
			return nil, err
		}
		if err := w.writePrefab(widget.Name, &Prefab{Asset: widget.Name, Root: ToPrefabNode(BuildWidgetNode(widget))}); err != nil {
			return nil, err
		}
	}

	e.profiler.Tick(res.Data.TotalPixels())
	e.logger.Info("asset exported",
		zap.String("asset", src.Name),
		zap.String("out", w.outDir),
		zap.Int("files", len(w.report.Files)),
		zap.Int("meshes", w.report.Meshes),
		zap.Int("widgets", w.report.Widgets),
	)
	return w.report, nil
}

func (e *exporter) ExportAll(dirs []string) ([]*Report, error) {
	if len(dirs) == 0 {
		return nil, nil
	}
	pool := worker.NewDynamicWorkerPool(e.workers, len(dirs), time.Second)
	defer pool.Stop()

	reports := make([]*Report, len(dirs))
	errs := make([]error, len(dirs))

	var wg sync.WaitGroup
	for i, dir := range dirs {
		wg.Add(1)
		idx, d := i, dir
		pool.SubmitTask(worker.Task{
			ID:      idx,
			Payload: d,
			Do: func() (any, error) {
				defer wg.Done()
				reports[idx], errs[idx] = e.Export(d)
				return reports[idx], errs[idx]
			},
		})
	}
	wg.Wait()

	var out []*Report
	var failed []error
	for i, err := range errs {
		switch {
		case err == nil:
			out = append(out, reports[i])
		case errors.Is(err, loader.ErrMissingAsset), errors.Is(err, baker.ErrEmptySkeleton):
			e.logger.Warn("skipping folder", zap.String("dir", dirs[i]), zap.Error(err))
		default:
			e.logger.Error("export failed", zap.String("dir", dirs[i]), zap.Error(err))
			failed = append(failed, fmt.Errorf("%s: %w", dirs[i], err))
		}
	}
	e.profiler.Summary()
	return out, errors.Join(failed...)
}

// assetWriter writes the files of one asset and records them in its report.
type assetWriter struct {
	outDir string
	report *Report
}

func (w *assetWriter) write(name string, material bool, fn func(io.Writer) error) error {
	dir := w.outDir
	if material {
		dir = filepath.Join(dir, MaterialsDir)
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	buf := bufio.NewWriter(f)
	if err := fn(buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	w.report.Files = append(w.report.Files, path)
	return nil
}

func (w *assetWriter) writePrefab(name string, p *Prefab) error {
	return w.write(name+".prefab.json", false, func(out io.Writer) error {
		return writeJSON(out, p)
	})
}

// writeMaterial writes a material file, plus its main texture when the texture is embedded.
func (w *assetWriter) writeMaterial(m material.Material) error {
	if _, err := shader.Lookup(m.Shader()); err != nil {
		return err
	}
	var texName string
	if tex := m.MainTexture(); tex != nil {
		texName = tex.Path
		if len(tex.Data) > 0 {
			texName = embeddedTextureName(m.Name(), tex.Name, tex.MimeType)
			if err := w.write(texName, true, func(out io.Writer) error {
				_, err := out.Write(tex.Data)
				return err
			}); err != nil {
				return err
			}
		}
	}
	return w.write(m.Name()+".mat.json", true, func(out io.Writer) error {
		return writeJSON(out, ToMaterialFile(m, texName))
	})
}

func embeddedTextureName(materialName, textureName, mimeType string) string {
	name := textureName
	if name == "" {
		name = materialName + "_main"
	}
	if filepath.Ext(name) != "" {
		return name
	}
	switch mimeType {
	case "image/jpeg":
		return name + ".jpg"
	default:
		return name + ".png"
	}
}

